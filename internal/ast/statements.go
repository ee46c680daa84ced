package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-kernelc/internal/token"
)

// BlockStatement is a `{ ... }` sequence of statements.
type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() token.Position  { return bs.Token.Pos }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}
	out.WriteString("}")
	return out.String()
}

// ReturnStatement is `return expr;` (Value may be nil for a bare `return;`).
type ReturnStatement struct {
	Token token.Token
	Value Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() token.Position  { return rs.Token.Pos }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() token.Position  { return es.Token.Pos }
func (es *ExpressionStatement) String() string {
	if es.Expression == nil {
		return ""
	}
	return es.Expression.String() + ";"
}

// EmptyStatement is a bare `;`.
type EmptyStatement struct {
	Token token.Token
}

func (es *EmptyStatement) statementNode()       {}
func (es *EmptyStatement) TokenLiteral() string { return es.Token.Literal }
func (es *EmptyStatement) Pos() token.Position  { return es.Token.Pos }
func (es *EmptyStatement) String() string       { return ";" }

// DebuggerStatement is a bare `debugger;`.
type DebuggerStatement struct {
	Token token.Token
}

func (ds *DebuggerStatement) statementNode()       {}
func (ds *DebuggerStatement) TokenLiteral() string { return ds.Token.Literal }
func (ds *DebuggerStatement) Pos() token.Position  { return ds.Token.Pos }
func (ds *DebuggerStatement) String() string       { return "debugger;" }

// BreakStatement is `break;`.
type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) Pos() token.Position  { return bs.Token.Pos }
func (bs *BreakStatement) String() string       { return "break;" }

// ContinueStatement is `continue;`.
type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) Pos() token.Position  { return cs.Token.Pos }
func (cs *ContinueStatement) String() string       { return "continue;" }

// IfStatement is `if (test) consequent [else alternate]`.
type IfStatement struct {
	Token       token.Token
	Test        Expression
	Consequent  Statement
	Alternate   Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() token.Position  { return is.Token.Pos }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Test.String())
	out.WriteString(") ")
	out.WriteString(is.Consequent.String())
	if is.Alternate != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternate.String())
	}
	return out.String()
}

// ForStatement is a C-style `for (init; test; update) body`. Init and
// Update may be nil; Test may be nil (infinite loop).
type ForStatement struct {
	Token  token.Token
	Init   Statement
	Test   Expression
	Update Expression
	Body   Statement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) Pos() token.Position  { return fs.Token.Pos }
func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if fs.Init != nil {
		out.WriteString(strings.TrimSuffix(fs.Init.String(), ";"))
	}
	out.WriteString("; ")
	if fs.Test != nil {
		out.WriteString(fs.Test.String())
	}
	out.WriteString("; ")
	if fs.Update != nil {
		out.WriteString(fs.Update.String())
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Token token.Token
	Test  Expression
	Body  Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() token.Position  { return ws.Token.Pos }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Test.String() + ") " + ws.Body.String()
}

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	Token token.Token
	Body  Statement
	Test  Expression
}

func (dw *DoWhileStatement) statementNode()       {}
func (dw *DoWhileStatement) TokenLiteral() string { return dw.Token.Literal }
func (dw *DoWhileStatement) Pos() token.Position  { return dw.Token.Pos }
func (dw *DoWhileStatement) String() string {
	return "do " + dw.Body.String() + " while (" + dw.Test.String() + ");"
}

// VariableDeclarator is one `name = init` (or bare `name`) entry within a
// VariableDeclaration.
type VariableDeclarator struct {
	Token token.Token
	Name  *Identifier
	Init  Expression
}

func (vd *VariableDeclarator) expressionNode()      {}
func (vd *VariableDeclarator) TokenLiteral() string { return vd.Token.Literal }
func (vd *VariableDeclarator) Pos() token.Position  { return vd.Token.Pos }
func (vd *VariableDeclarator) String() string {
	if vd.Init == nil {
		return vd.Name.String()
	}
	return vd.Name.String() + " = " + vd.Init.String()
}

// VariableDeclaration is `var a = 1, b = 2;`.
type VariableDeclaration struct {
	Token        token.Token
	Declarations []*VariableDeclarator
}

func (vd *VariableDeclaration) statementNode()       {}
func (vd *VariableDeclaration) TokenLiteral() string { return vd.Token.Literal }
func (vd *VariableDeclaration) Pos() token.Position  { return vd.Token.Pos }
func (vd *VariableDeclaration) String() string {
	parts := make([]string, len(vd.Declarations))
	for i, d := range vd.Declarations {
		parts[i] = d.String()
	}
	return "var " + strings.Join(parts, ", ") + ";"
}

// FunctionDeclaration is a named nested function declared as a statement.
type FunctionDeclaration struct {
	Token  token.Token
	Source string // original source text of the nested function, for the hook (spec §4.7)
	Fn     *FunctionLiteral
}

func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDeclaration) Pos() token.Position  { return fd.Token.Pos }
func (fd *FunctionDeclaration) String() string       { return fd.Fn.String() }
