// Package ast defines the Abstract Syntax Tree node types for the numeric
// kernel-function subset. The node set is deliberately closed: it is
// exactly the vocabulary enumerated in spec.md §4.7, nothing more.
package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-kernelc/internal/token"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// FunctionLiteral is the root of a parsed function unit: a name (possibly
// empty for an anonymous sub-kernel), its parameter names, and a body.
type FunctionLiteral struct {
	Token  token.Token
	Name   string
	Params []*Identifier
	Body   *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) statementNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) Pos() token.Position  { return fl.Token.Pos }
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer
	params := make([]string, len(fl.Params))
	for i, p := range fl.Params {
		params[i] = p.String()
	}
	out.WriteString("function ")
	out.WriteString(fl.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(fl.Body.String())
	return out.String()
}

// Identifier is a bare name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// ThisExpression is the bare `this` reference.
type ThisExpression struct {
	Token token.Token
}

func (t *ThisExpression) expressionNode()      {}
func (t *ThisExpression) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpression) Pos() token.Position  { return t.Token.Pos }
func (t *ThisExpression) String() string       { return "this" }

// IntegerLiteral is an integer-valued numeric literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) Pos() token.Position  { return il.Token.Pos }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// FloatLiteral is a non-integer-valued numeric literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) Pos() token.Position  { return fl.Token.Pos }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }

// BooleanLiteral is a `true`/`false` literal.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() token.Position  { return bl.Token.Pos }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

// ArrayLiteral is a `[a, b, c]` expression.
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) Pos() token.Position  { return al.Token.Pos }
func (al *ArrayLiteral) String() string {
	elems := make([]string, len(al.Elements))
	for i, e := range al.Elements {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// MemberExpression is `object[index]`, `object.property` or `object.value`
// style access. Computed distinguishes `a[b]` (Computed=true) from `a.b`.
type MemberExpression struct {
	Token    token.Token
	Object   Expression
	Property Expression
	Computed bool
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpression) Pos() token.Position  { return me.Object.Pos() }
func (me *MemberExpression) String() string {
	if me.Computed {
		return me.Object.String() + "[" + me.Property.String() + "]"
	}
	return me.Object.String() + "." + me.Property.String()
}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() token.Position  { return ce.Callee.Pos() }
func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		args[i] = a.String()
	}
	return ce.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// BinaryExpression is `left OP right` for arithmetic/relational operators.
type BinaryExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Pos() token.Position  { return be.Token.Pos }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// LogicalExpression is `left && right` / `left || right`.
type LogicalExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (le *LogicalExpression) expressionNode()      {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicalExpression) Pos() token.Position  { return le.Token.Pos }
func (le *LogicalExpression) String() string {
	return "(" + le.Left.String() + " " + le.Operator + " " + le.Right.String() + ")"
}

// UnaryExpression is `!x`, `-x`, etc. Prefix is always true for the
// supported operators in this subset.
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Argument Expression
	Prefix   bool
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Pos() token.Position  { return ue.Token.Pos }
func (ue *UnaryExpression) String() string {
	if ue.Prefix {
		return ue.Operator + ue.Argument.String()
	}
	return ue.Argument.String() + ue.Operator
}

// UpdateExpression is `x++`, `++x`, `x--`, `--x`.
type UpdateExpression struct {
	Token    token.Token
	Operator string
	Argument Expression
	Prefix   bool
}

func (ue *UpdateExpression) expressionNode()      {}
func (ue *UpdateExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UpdateExpression) Pos() token.Position  { return ue.Token.Pos }
func (ue *UpdateExpression) String() string {
	if ue.Prefix {
		return ue.Operator + ue.Argument.String()
	}
	return ue.Argument.String() + ue.Operator
}

// AssignmentExpression is `target OP= value`.
type AssignmentExpression struct {
	Token    token.Token
	Operator string
	Target   Expression
	Value    Expression
}

func (ae *AssignmentExpression) expressionNode()      {}
func (ae *AssignmentExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignmentExpression) Pos() token.Position  { return ae.Token.Pos }
func (ae *AssignmentExpression) String() string {
	return ae.Target.String() + " " + ae.Operator + " " + ae.Value.String()
}

// SequenceExpression is a comma-joined list of expressions evaluated in
// order, `a, b, c`.
type SequenceExpression struct {
	Token       token.Token
	Expressions []Expression
}

func (se *SequenceExpression) expressionNode()      {}
func (se *SequenceExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SequenceExpression) Pos() token.Position  { return se.Token.Pos }
func (se *SequenceExpression) String() string {
	parts := make([]string, len(se.Expressions))
	for i, e := range se.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	Token       token.Token
	Test        Expression
	Consequent  Expression
	Alternate   Expression
}

func (ce *ConditionalExpression) expressionNode()      {}
func (ce *ConditionalExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *ConditionalExpression) Pos() token.Position  { return ce.Token.Pos }
func (ce *ConditionalExpression) String() string {
	return "(" + ce.Test.String() + " ? " + ce.Consequent.String() + " : " + ce.Alternate.String() + ")"
}
