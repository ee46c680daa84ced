// Package kerrors formats diagnostics raised by the parser adapter, the
// type oracle, and the walker, carrying source context and a caret-style
// pointer to the offending location (spec.md §4.9, §7).
package kerrors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-kernelc/internal/lexer"
	"github.com/cwbudde/go-kernelc/internal/token"
)

// Kind classifies a CompilerError per spec.md §7's taxonomy.
type Kind int

const (
	// ConfigurationError is raised at Function Unit construction time.
	ConfigurationError Kind = iota
	// ShapeError is raised during traversal (unknown AST kind, unrecognized
	// signature, missing type mapping).
	ShapeError
	// StateError is raised by a mismatched traversal-state stack pop.
	StateError
)

// CompilerError is a single diagnostic. When the originating Function Unit
// was constructed from textual source, Snippet/Line/Column are populated
// per spec.md §4.9; when constructed from a pre-built AST, only Message is
// meaningful.
type CompilerError struct {
	Kind    Kind
	Message string
	Snippet string
	Source  string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format()
}

// Format renders the diagnostic with a line/column header, the offending
// snippet, and a caret pointer, mirroring the teacher's CompilerError
// rendering (internal/errors/errors.go in the reference repo).
func (e *CompilerError) Format() string {
	var sb strings.Builder

	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("error at line %d:%d: %s\n", e.Line, e.Column, e.Message))
		if e.Snippet != "" {
			prefix := fmt.Sprintf("%4d | ", e.Line)
			sb.WriteString(prefix)
			sb.WriteString(e.Snippet)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)))
			sb.WriteString("^")
		}
		return sb.String()
	}

	return e.Message
}

// NewShapeError builds a ShapeError diagnostic for an AST node. If source
// is non-empty the line/column are derived from the length of the text
// preceding the node's start offset (spec.md §4.9), via lexer.LineOf,
// rather than trusted from pos directly: pos.Offset may be relative to a
// synthetic wrapper binding the parser adapter scanned instead of source
// (see internal/function's intake), so callers are expected to have
// already rebased pos.Offset onto source before calling this. Otherwise
// the diagnostic carries only the message.
func NewShapeError(message, snippet, source string, pos token.Position) *CompilerError {
	e := &CompilerError{Kind: ShapeError, Message: message, Snippet: snippet}
	if source != "" {
		e.Source = source
		e.Line, e.Column = lexer.LineOf(source, pos.Offset)
	}
	return e
}

// NewConfigurationError builds a ConfigurationError carrying only a
// message (construction-time errors precede any source-position context).
func NewConfigurationError(message string) *CompilerError {
	return &CompilerError{Kind: ConfigurationError, Message: message}
}

// NewStateError builds a StateError for a mismatched state-stack pop
// (spec.md §3 invariant (v)).
func NewStateError(message string) *CompilerError {
	return &CompilerError{Kind: StateError, Message: message}
}
