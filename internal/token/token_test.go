package token_test

import (
	"testing"

	"github.com/cwbudde/go-kernelc/internal/token"
)

func TestLookupIdentClassifiesKeywordsAndAliases(t *testing.T) {
	cases := []struct {
		ident string
		want  token.Type
	}{
		{"function", token.FUNCTION},
		{"return", token.RETURN},
		{"var", token.VAR},
		{"const", token.VAR},
		{"let", token.VAR},
		{"this", token.THIS},
		{"true", token.TRUE},
		{"false", token.FALSE},
		{"myVariable", token.IDENT},
	}
	for _, c := range cases {
		if got := token.LookupIdent(c.ident); got != c.want {
			t.Errorf("LookupIdent(%q) = %v, want %v", c.ident, got, c.want)
		}
	}
}

func TestTypeStringKnownAndUnknown(t *testing.T) {
	if token.FUNCTION.String() != "function" {
		t.Fatalf("expected FUNCTION.String() == \"function\", got %q", token.FUNCTION.String())
	}
	if token.PLUS.String() != "+" {
		t.Fatalf("expected PLUS.String() == \"+\", got %q", token.PLUS.String())
	}
	unknown := token.Type(9999)
	if unknown.String() != "UNKNOWN" {
		t.Fatalf("expected an out-of-range Type to stringify as UNKNOWN, got %q", unknown.String())
	}
}
