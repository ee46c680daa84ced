package decompose_test

import (
	"testing"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/decompose"
	"github.com/cwbudde/go-kernelc/internal/parser"
	"github.com/cwbudde/go-kernelc/internal/signature"
	"github.com/cwbudde/go-kernelc/internal/types"
)

func returnExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	fn, err := parser.ParseFunctionExpression("function(){ return " + src + "; }")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected a ReturnStatement, got %T", fn.Body.Statements[0])
	}
	return ret.Value
}

func recognized(t *testing.T, src string) (ast.Expression, signature.Signature) {
	t.Helper()
	expr := returnExpr(t, src)
	sig := signature.Recognize(expr)
	if sig == "" {
		t.Fatalf("expected %q to be a recognized signature", src)
	}
	return expr, sig
}

func TestDecomposeValue(t *testing.T) {
	expr, sig := recognized(t, "a")
	desc, cErr := decompose.Decompose(expr, sig, types.Number, nil)
	if cErr != nil {
		t.Fatalf("unexpected error: %v", cErr)
	}
	if desc.Name != "a" || desc.Origin != decompose.OriginUser {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
}

func TestDecomposeValueIndexed(t *testing.T) {
	expr, sig := recognized(t, "a[0][1][2]")
	if sig != signature.ValueIndexed3 {
		t.Fatalf("expected ValueIndexed3, got %q", sig)
	}
	desc, cErr := decompose.Decompose(expr, sig, types.Number, nil)
	if cErr != nil {
		t.Fatalf("unexpected error: %v", cErr)
	}
	if desc.Name != "a" || len(desc.Indices) != 3 {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
	// indices come back in source order: a[0][1][2] peels as 0, 1, 2.
	want := []string{"0", "1", "2"}
	for i, idx := range desc.Indices {
		if idx.String() != want[i] {
			t.Errorf("index %d = %q, want %q", i, idx.String(), want[i])
		}
	}
}

func TestDecomposeThisThreadValue(t *testing.T) {
	expr, sig := recognized(t, "this.thread.x")
	desc, cErr := decompose.Decompose(expr, sig, types.Number, nil)
	if cErr != nil {
		t.Fatalf("unexpected error: %v", cErr)
	}
	if desc.Name != "thread" || desc.Property != "x" {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
}

func TestDecomposeThisOutputValue(t *testing.T) {
	expr, sig := recognized(t, "this.output.y")
	desc, cErr := decompose.Decompose(expr, sig, types.Number, nil)
	if cErr != nil {
		t.Fatalf("unexpected error: %v", cErr)
	}
	if desc.Name != "output" || desc.Property != "y" {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
}

func TestDecomposeThisConstantsValueWithRegisteredType(t *testing.T) {
	expr, sig := recognized(t, "this.constants.weights[0]")
	lookup := func(name string) (types.Type, bool) {
		if name == "weights" {
			return types.Array, true
		}
		return "", false
	}
	desc, cErr := decompose.Decompose(expr, sig, types.Number, lookup)
	if cErr != nil {
		t.Fatalf("unexpected error: %v", cErr)
	}
	if desc.Name != "weights" || desc.Origin != decompose.OriginConstants || len(desc.Indices) != 1 {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
}

func TestDecomposeThisConstantsValueUnregisteredIsShapeError(t *testing.T) {
	expr, sig := recognized(t, "this.constants.weights")
	lookup := func(name string) (types.Type, bool) { return "", false }
	_, cErr := decompose.Decompose(expr, sig, types.Number, lookup)
	if cErr == nil {
		t.Fatalf("expected a ShapeError for an unregistered constant")
	}
}

func TestDecomposeCallIndexed(t *testing.T) {
	expr, sig := recognized(t, "foo()[0][1]")
	if sig != signature.CallIndexed2 {
		t.Fatalf("expected CallIndexed2, got %q", sig)
	}
	desc, cErr := decompose.Decompose(expr, sig, types.Number, nil)
	if cErr != nil {
		t.Fatalf("unexpected error: %v", cErr)
	}
	if desc.Name != "foo" || len(desc.Indices) != 2 {
		t.Fatalf("unexpected descriptor: %+v", desc)
	}
}

func TestDecomposeValueDotValueChannels(t *testing.T) {
	cases := []struct {
		src            string
		wantX, wantY, wantZ string
	}{
		{"a.x", "x", "", ""},
		{"a.y", "", "y", ""},
		{"a.z", "", "", "z"},
		{"a.r", "r", "", ""},
		{"a.g", "", "g", ""},
		{"a.b", "", "", "b"},
	}
	for _, c := range cases {
		expr, sig := recognized(t, c.src)
		if sig != signature.ValueDotValue {
			t.Fatalf("%q: expected ValueDotValue, got %q", c.src, sig)
		}
		desc, cErr := decompose.Decompose(expr, sig, types.Number, nil)
		if cErr != nil {
			t.Fatalf("%q: unexpected error: %v", c.src, cErr)
		}
		if desc.Name != "a" {
			t.Errorf("%q: unexpected name %q", c.src, desc.Name)
		}
		if desc.XProperty != c.wantX || desc.YProperty != c.wantY || desc.ZProperty != c.wantZ {
			t.Errorf("%q: unexpected channel assignment: %+v", c.src, desc)
		}
	}
}

func TestDecomposeUnrecognizedSignatureIsShapeError(t *testing.T) {
	expr := returnExpr(t, "a")
	_, cErr := decompose.Decompose(expr, signature.Signature("bogus"), types.Number, nil)
	if cErr == nil {
		t.Fatalf("expected a ShapeError for an unrecognized signature")
	}
}
