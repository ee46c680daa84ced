package ast_test

import (
	"testing"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/parser"
)

func body(t *testing.T, src string) *ast.BlockStatement {
	t.Helper()
	fn, err := parser.ParseFunctionExpression("function(){ " + src + " }")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return fn.Body
}

func TestStringRoundTripsSimpleStatements(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{";", ";"},
		{"debugger;", "debugger;"},
		{"for(;;){ break; }", "break;"},
		{"for(;;){ continue; }", "continue;"},
	}
	for _, c := range cases {
		stmts := body(t, c.src).Statements
		var found bool
		for _, s := range stmts {
			if s.String() == c.want {
				found = true
			}
			if fs, ok := s.(*ast.ForStatement); ok {
				if block, ok := fs.Body.(*ast.BlockStatement); ok {
					for _, inner := range block.Statements {
						if inner.String() == c.want {
							found = true
						}
					}
				}
			}
		}
		if !found {
			t.Errorf("expected to find a statement rendering as %q in %q", c.want, c.src)
		}
	}
}

func TestUpdateExpressionString(t *testing.T) {
	stmts := body(t, "var i = 0; i++;").Statements
	expr, ok := stmts[1].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected an ExpressionStatement, got %T", stmts[1])
	}
	upd, ok := expr.Expression.(*ast.UpdateExpression)
	if !ok {
		t.Fatalf("expected an UpdateExpression, got %T", expr.Expression)
	}
	if upd.String() != "i++" {
		t.Fatalf("unexpected render: %q", upd.String())
	}
}

func TestAssignmentExpressionString(t *testing.T) {
	stmts := body(t, "var i = 0; i += 2;").Statements
	expr := stmts[1].(*ast.ExpressionStatement)
	asn, ok := expr.Expression.(*ast.AssignmentExpression)
	if !ok {
		t.Fatalf("expected an AssignmentExpression, got %T", expr.Expression)
	}
	if asn.String() != "i += 2" {
		t.Fatalf("unexpected render: %q", asn.String())
	}
}

func TestIdentifierAndThisExpressionString(t *testing.T) {
	ident := &ast.Identifier{Value: "foo"}
	if ident.String() != "foo" {
		t.Fatalf("unexpected identifier render: %q", ident.String())
	}
	this := &ast.ThisExpression{}
	if this.String() != "this" {
		t.Fatalf("unexpected this render: %q", this.String())
	}
}

func TestCallExpressionString(t *testing.T) {
	stmts := body(t, "return foo(1, 2);").Statements
	ret := stmts[0].(*ast.ReturnStatement)
	call, ok := ret.Value.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected a CallExpression, got %T", ret.Value)
	}
	if call.String() != "foo(1, 2)" {
		t.Fatalf("unexpected render: %q", call.String())
	}
}
