package signature_test

import (
	"testing"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/parser"
	"github.com/cwbudde/go-kernelc/internal/signature"
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

func TestRecognizeAllowedSignatures(t *testing.T) {
	cases := []struct {
		src  string
		want signature.Signature
	}{
		{"a[0]", signature.ValueIndexed1},
		{"a[0][1]", signature.ValueIndexed2},
		{"a[0][1][2]", signature.ValueIndexed3},
		{"a.r", signature.ValueDotValue},
		{"this.thread.x", signature.ThisThreadValue},
		{"this.output.x", signature.ThisOutputValue},
		{"this.constants.weights", signature.ThisConstantsValue},
		{"this.constants.weights[0]", signature.ThisConstantsIndex1},
		{"this.constants.weights[0][1]", signature.ThisConstantsIndex2},
		{"this.constants.weights[0][1][2]", signature.ThisConstantsIndex3},
		{"foo()[0]", signature.CallIndexed1},
		{"foo()[0][1]", signature.CallIndexed2},
		{"foo()[0][1][2]", signature.CallIndexed3},
	}
	for _, c := range cases {
		expr := returnExpr(t, c.src)
		got := signature.Recognize(expr)
		if got != c.want {
			t.Errorf("Recognize(%q) = %q, want %q", c.src, got, c.want)
		}
	}
}

func TestRecognizeBareIdentifierIsValue(t *testing.T) {
	expr := returnExpr(t, "a")
	if got := signature.Recognize(expr); got != signature.Value {
		t.Fatalf("expected Value for a bare identifier, got %q", got)
	}
}

func TestRecognizeRejectsOutOfVocabularyChain(t *testing.T) {
	// this.constants.weights.x is not a recognized shape: a named
	// property directly off a recognized `this.constants.value` chain
	// falls outside the fixed allow-list.
	expr := returnExpr(t, "this.constants.weights.x")
	if got := signature.Recognize(expr); got != "" {
		t.Fatalf("expected the null signature, got %q", got)
	}
}

func TestVectorChannelsSet(t *testing.T) {
	for _, ch := range []string{"r", "g", "b", "a"} {
		if !signature.VectorChannels[ch] {
			t.Errorf("expected %q to be a recognized vector channel", ch)
		}
	}
	if signature.VectorChannels["w"] {
		t.Errorf("did not expect 'w' to be a recognized vector channel")
	}
}

func TestPropertyName(t *testing.T) {
	expr := returnExpr(t, "this.thread.x")
	name, ok := signature.PropertyName(expr)
	if !ok || name != "x" {
		t.Fatalf("expected property name 'x', got %q (%v)", name, ok)
	}

	computed := returnExpr(t, "a[0]")
	if _, ok := signature.PropertyName(computed); ok {
		t.Fatalf("expected no property name for a computed member expression")
	}
}
