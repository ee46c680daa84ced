package kerrors_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-kernelc/internal/kerrors"
	"github.com/cwbudde/go-kernelc/internal/token"
)

func TestNewConfigurationErrorFormatsAsBareMessage(t *testing.T) {
	err := kerrors.NewConfigurationError("missing output shape")
	if err.Kind != kerrors.ConfigurationError {
		t.Fatalf("expected ConfigurationError kind, got %v", err.Kind)
	}
	if err.Format() != "missing output shape" {
		t.Fatalf("unexpected format: %q", err.Format())
	}
	if err.Error() != err.Format() {
		t.Fatalf("expected Error() to delegate to Format()")
	}
}

func TestNewStateErrorFormatsAsBareMessage(t *testing.T) {
	err := kerrors.NewStateError("state stack underflow")
	if err.Kind != kerrors.StateError {
		t.Fatalf("expected StateError kind, got %v", err.Kind)
	}
	if err.Format() != "state stack underflow" {
		t.Fatalf("unexpected format: %q", err.Format())
	}
}

func TestNewShapeErrorWithoutSourceCarriesOnlyMessage(t *testing.T) {
	err := kerrors.NewShapeError("unrecognized signature", "a.b.c", "", token.Position{Line: 3, Column: 5})
	if err.Line != 0 {
		t.Fatalf("expected no line to be populated without source text, got %d", err.Line)
	}
	if err.Format() != "unrecognized signature" {
		t.Fatalf("unexpected format: %q", err.Format())
	}
}

func TestNewShapeErrorWithSourceRendersCaretDiagnostic(t *testing.T) {
	source := "function(){ return x.y; }"
	err := kerrors.NewShapeError("unrecognized signature", "x.y", source, token.Position{Offset: strings.Index(source, "x.y")})
	formatted := err.Format()
	if !strings.Contains(formatted, "error at line 1:20: unrecognized signature") {
		t.Fatalf("expected a line/column header, got %q", formatted)
	}
	if !strings.Contains(formatted, "x.y") {
		t.Fatalf("expected the snippet to appear in the formatted output, got %q", formatted)
	}
	if !strings.Contains(formatted, "^") {
		t.Fatalf("expected a caret pointer in the formatted output, got %q", formatted)
	}
}

// NewShapeError recomputes line/column from source via lexer.LineOf rather
// than trusting pos.Line/pos.Column directly: a caller whose pos came from
// a node scanned out of a synthetic wrapper (see internal/function's
// intake) must rebase pos.Offset onto source first, or the position is
// silently wrong. This reproduces that rebasing explicitly, the way
// internal/walker's shapeError does it.
func TestNewShapeErrorRecomputesPositionFromRebasedOffset(t *testing.T) {
	wrapperPrefixLen := len("const parser_anonymous = ")
	source := "function(a){\n  return a.q;\n}"
	wrapped := "const parser_anonymous = " + source + ";"

	nodeOffsetInWrapped := strings.Index(wrapped, "a.q")
	pos := token.Position{Offset: nodeOffsetInWrapped - wrapperPrefixLen}

	err := kerrors.NewShapeError("unrecognized signature", "a.q", source, pos)
	if !strings.Contains(err.Format(), "error at line 2:10: unrecognized signature") {
		t.Fatalf("expected the rebased position to land on line 2 column 10, got %q", err.Format())
	}
}
