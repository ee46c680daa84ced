package oracle_test

import (
	"testing"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/decltable"
	"github.com/cwbudde/go-kernelc/internal/oracle"
	"github.com/cwbudde/go-kernelc/internal/parser"
	"github.com/cwbudde/go-kernelc/internal/types"
)

// fakeContext is a standalone oracle.Context not wired through a real
// Function Unit, letting these tests probe the oracle's own dispatch logic
// in isolation (internal/function/function_test.go separately exercises
// the oracle end-to-end through a real Unit).
type fakeContext struct {
	args       map[string]types.Type
	decls      map[string]decltable.Declaration
	constants  map[string]types.Type
	returnType map[string]types.Type
	stateTop   string
}

func (f fakeContext) ArgumentType(name string) (types.Type, bool) { t, ok := f.args[name]; return t, ok }
func (f fakeContext) Declaration(name string) (decltable.Declaration, bool) {
	d, ok := f.decls[name]
	return d, ok
}
func (f fakeContext) ConstantType(name string) (types.Type, bool) { t, ok := f.constants[name]; return t, ok }
func (f fakeContext) LookupReturnType(name string) (types.Type, bool) {
	t, ok := f.returnType[name]
	return t, ok
}
func (f fakeContext) StateTop() string { return f.stateTop }

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

func TestTypeOfLiterals(t *testing.T) {
	ctx := fakeContext{}
	cases := []struct {
		src  string
		want types.Type
	}{
		{"1", types.LiteralInteger},
		{"1.5", types.Number},
		{"true", types.Boolean},
		{"[1, 2]", types.Array2},
	}
	for _, c := range cases {
		got, ok := oracle.TypeOf(ctx, returnExpr(t, c.src))
		if !ok || got != c.want {
			t.Errorf("TypeOf(%q) = %v, %v; want %v, true", c.src, got, ok, c.want)
		}
	}
}

func TestTypeOfIdentifierResolvesArgumentThenDeclaration(t *testing.T) {
	ctx := fakeContext{
		args:  map[string]types.Type{"a": types.Array},
		decls: map[string]decltable.Declaration{"b": {Type: types.Boolean, IsSafe: true}},
	}
	got, ok := oracle.TypeOf(ctx, returnExpr(t, "a"))
	if !ok || got != types.Array {
		t.Fatalf("expected a to resolve as Array, got %v (%v)", got, ok)
	}
	got, ok = oracle.TypeOf(ctx, returnExpr(t, "b"))
	if !ok || got != types.Boolean {
		t.Fatalf("expected b to resolve as Boolean, got %v (%v)", got, ok)
	}
	_, ok = oracle.TypeOf(ctx, returnExpr(t, "c"))
	if ok {
		t.Fatalf("expected an unresolved identifier to be a soft unknown")
	}
}

func TestTypeOfIdentifierInfinityIsIntegerCompat(t *testing.T) {
	got, ok := oracle.TypeOf(fakeContext{}, returnExpr(t, "Infinity"))
	if !ok || got != types.Integer {
		t.Fatalf("expected Infinity to resolve as Integer, got %v (%v)", got, ok)
	}
}

func TestTypeOfBinaryOperators(t *testing.T) {
	ctx := fakeContext{args: map[string]types.Type{"a": types.Array}}
	if got, ok := oracle.TypeOf(ctx, returnExpr(t, "1 % 2")); !ok || got != types.Number {
		t.Errorf("expected %% to yield Number, got %v (%v)", got, ok)
	}
	if got, ok := oracle.TypeOf(ctx, returnExpr(t, "1 < 2")); !ok || got != types.Boolean {
		t.Errorf("expected < to yield Boolean, got %v (%v)", got, ok)
	}
	if got, ok := oracle.TypeOf(ctx, returnExpr(t, "1 > 2")); !ok || got != types.Boolean {
		t.Errorf("expected > to yield Boolean, got %v (%v)", got, ok)
	}
	// `a + 1` with a:Array indexes one level per spec.md §4.3's
	// array-arithmetic collapse.
	if got, ok := oracle.TypeOf(ctx, returnExpr(t, "a + 1")); !ok || got != types.Number {
		t.Errorf("expected a + 1 to collapse to Number, got %v (%v)", got, ok)
	}
}

func TestTypeOfLogicalIsBoolean(t *testing.T) {
	got, ok := oracle.TypeOf(fakeContext{}, returnExpr(t, "true && false"))
	if !ok || got != types.Boolean {
		t.Fatalf("expected a logical expression to yield Boolean, got %v (%v)", got, ok)
	}
}

func TestTypeOfUnaryAndUpdatePassThroughArgument(t *testing.T) {
	ctx := fakeContext{args: map[string]types.Type{"i": types.Integer}}
	if got, ok := oracle.TypeOf(ctx, returnExpr(t, "-i")); !ok || got != types.Integer {
		t.Errorf("expected -i to pass through Integer, got %v (%v)", got, ok)
	}
	if got, ok := oracle.TypeOf(ctx, returnExpr(t, "i++")); !ok || got != types.Integer {
		t.Errorf("expected i++ to pass through Integer, got %v (%v)", got, ok)
	}
}

func TestTypeOfConditionalUsesConsequent(t *testing.T) {
	ctx := fakeContext{args: map[string]types.Type{"a": types.Number, "b": types.Boolean}}
	got, ok := oracle.TypeOf(ctx, returnExpr(t, "true ? a : b"))
	if !ok || got != types.Number {
		t.Fatalf("expected the conditional's consequent type Number, got %v (%v)", got, ok)
	}
}

func TestTypeOfIndexedMemberExpression(t *testing.T) {
	ctx := fakeContext{args: map[string]types.Type{"a": types.Array4}}
	got, ok := oracle.TypeOf(ctx, returnExpr(t, "a[0]"))
	if !ok || got != types.Number {
		t.Fatalf("expected a[0] on Array(4) to yield Number, got %v (%v)", got, ok)
	}
}

func TestTypeOfThisThreadAndOutput(t *testing.T) {
	for _, src := range []string{"this.thread.x", "this.output.y"} {
		got, ok := oracle.TypeOf(fakeContext{}, returnExpr(t, src))
		if !ok || got != types.Integer {
			t.Errorf("expected %q to yield Integer, got %v (%v)", src, got, ok)
		}
	}
}

func TestTypeOfThisConstantsIndexed(t *testing.T) {
	// HTMLImage indexes to Array(4), which itself indexes to Number, so a
	// doubly-indexed reference chains through both lookup-map levels.
	ctx := fakeContext{constants: map[string]types.Type{"pixels": types.HTMLImage}}
	got, ok := oracle.TypeOf(ctx, returnExpr(t, "this.constants.pixels[0][1]"))
	if !ok || got != types.Number {
		t.Fatalf("expected a doubly-indexed HTMLImage constant to yield Number, got %v (%v)", got, ok)
	}
}

func TestTypeOfThisConstantsUnregisteredIsUnknown(t *testing.T) {
	_, ok := oracle.TypeOf(fakeContext{}, returnExpr(t, "this.constants.weights"))
	if ok {
		t.Fatalf("expected an unregistered constant to be a soft unknown")
	}
}

func TestTypeOfCallIndexed(t *testing.T) {
	ctx := fakeContext{returnType: map[string]types.Type{"foo": types.Array3}}
	got, ok := oracle.TypeOf(ctx, returnExpr(t, "foo()[0]"))
	if !ok || got != types.Number {
		t.Fatalf("expected indexing a Array(3)-returning call to yield Number, got %v (%v)", got, ok)
	}
}

func TestTypeOfValueDotValueChannel(t *testing.T) {
	// Only the VectorChannels-recognized letters (r/g/b/a) resolve a
	// channel access here; x/y/z spellings are a decompose-only concern.
	ctx := fakeContext{args: map[string]types.Type{"v": types.Array3}}
	got, ok := oracle.TypeOf(ctx, returnExpr(t, "v.r"))
	if !ok || got != types.Number {
		t.Fatalf("expected v.r on Array(3) to yield Number, got %v (%v)", got, ok)
	}
}

func TestTypeOfMathIntrinsicAndConstant(t *testing.T) {
	got, ok := oracle.TypeOf(fakeContext{}, returnExpr(t, "Math.floor(1.5)"))
	if !ok || got != types.Integer {
		t.Fatalf("expected Math.floor(...) to yield Integer, got %v (%v)", got, ok)
	}
	got, ok = oracle.TypeOf(fakeContext{}, returnExpr(t, "Math.sqrt(4)"))
	if !ok || got != types.Number {
		t.Fatalf("expected Math.sqrt(...) to yield Number, got %v (%v)", got, ok)
	}
	got, ok = oracle.TypeOf(fakeContext{}, returnExpr(t, "Math.PI"))
	if !ok || got != types.Number {
		t.Fatalf("expected Math.PI to yield Number, got %v (%v)", got, ok)
	}
}

func TestTypeOfUnresolvedCallIsUnknown(t *testing.T) {
	_, ok := oracle.TypeOf(fakeContext{}, returnExpr(t, "bar()"))
	if ok {
		t.Fatalf("expected a call to an unregistered function to be a soft unknown")
	}
}

func TestTypeOfUnsupportedNodeKindIsUnknown(t *testing.T) {
	_, ok := oracle.TypeOf(fakeContext{}, &ast.ThisExpression{})
	if ok {
		t.Fatalf("expected a bare ThisExpression to be a soft unknown")
	}
}
