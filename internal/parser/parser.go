// Package parser implements the recursive-descent parser for the numeric
// kernel-function subset (spec.md §4.1's "injected expression-grammar
// parser"). It turns a token.Token stream from internal/lexer into the
// internal/ast node set.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-kernelc/internal/ast"
	"github.com/cwbudde/go-kernelc/internal/kerrors"
	"github.com/cwbudde/go-kernelc/internal/lexer"
	"github.com/cwbudde/go-kernelc/internal/token"
)

// Parser holds two tokens of lookahead and a sticky first error: once set,
// every parse method becomes a no-op that returns a zero value, so a
// single malformed construct does not send the recursive descent into an
// inconsistent state chasing further (spurious) errors.
type Parser struct {
	source string
	lex    *lexer.Lexer
	cur    token.Token
	peek   token.Token
	err    *kerrors.CompilerError
}

// New creates a Parser over source.
func New(source string) *Parser {
	p := &Parser{source: source, lex: lexer.New(source)}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) fail(format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = kerrors.NewShapeError(fmt.Sprintf(format, args...), p.cur.Literal, p.source, p.cur.Pos)
}

func (p *Parser) expect(t token.Type) token.Token {
	if p.err != nil {
		return token.Token{}
	}
	tok := p.cur
	if tok.Type != t {
		p.fail("expected %s, found %s %q", t, tok.Type, tok.Literal)
		return token.Token{}
	}
	p.advance()
	return tok
}

// ParseProgram parses source as a sequence of top-level statements.
func ParseProgram(source string) ([]ast.Statement, *kerrors.CompilerError) {
	p := New(source)
	var stmts []ast.Statement
	for p.err == nil && p.cur.Type != token.EOF {
		stmt := p.parseStatement()
		if p.err != nil {
			break
		}
		stmts = append(stmts, stmt)
	}
	return stmts, p.err
}

// ParseFunctionExpression parses source as a single function-literal
// expression (named or anonymous), e.g. `function(a){ return a; }`.
func ParseFunctionExpression(source string) (*ast.FunctionLiteral, *kerrors.CompilerError) {
	p := New(source)
	expr := p.parseFunctionLiteral()
	if p.err != nil {
		return nil, p.err
	}
	fn, ok := expr.(*ast.FunctionLiteral)
	if !ok {
		return nil, kerrors.NewConfigurationError("source does not parse as function text")
	}
	return fn, nil
}

// Statements.

func (p *Parser) parseStatement() ast.Statement {
	if p.err != nil {
		return nil
	}
	switch p.cur.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.VAR:
		return p.parseVariableDeclaration(true)
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		tok := p.cur
		p.advance()
		p.consumeOptionalSemi()
		return &ast.BreakStatement{Token: tok}
	case token.CONTINUE:
		tok := p.cur
		p.advance()
		p.consumeOptionalSemi()
		return &ast.ContinueStatement{Token: tok}
	case token.DEBUGGER:
		tok := p.cur
		p.advance()
		p.consumeOptionalSemi()
		return &ast.DebuggerStatement{Token: tok}
	case token.SEMI:
		tok := p.cur
		p.advance()
		return &ast.EmptyStatement{Token: tok}
	case token.FUNCTION:
		if p.peek.Type == token.IDENT {
			return p.parseFunctionDeclaration()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) consumeOptionalSemi() {
	if p.cur.Type == token.SEMI {
		p.advance()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.expect(token.LBRACE)
	block := &ast.BlockStatement{Token: tok}
	for p.err == nil && p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return block
}

func (p *Parser) parseVariableDeclaration(consumeSemi bool) *ast.VariableDeclaration {
	tok := p.expect(token.VAR)
	decl := &ast.VariableDeclaration{Token: tok}
	for {
		if p.err != nil {
			return decl
		}
		nameTok := p.expect(token.IDENT)
		name := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}
		var init ast.Expression
		if p.cur.Type == token.ASSIGN {
			p.advance()
			init = p.parseAssignmentExpression()
		}
		decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{Token: nameTok, Name: name, Init: init})
		if p.cur.Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if consumeSemi {
		p.consumeOptionalSemi()
	}
	return decl
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.expect(token.IF)
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	consequent := p.parseStatement()
	stmt := &ast.IfStatement{Token: tok, Test: test, Consequent: consequent}
	if p.cur.Type == token.ELSE {
		p.advance()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	tok := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Statement
	switch p.cur.Type {
	case token.SEMI:
	case token.VAR:
		init = p.parseVariableDeclaration(false)
	default:
		init = &ast.ExpressionStatement{Expression: p.parseExpression()}
	}
	p.expect(token.SEMI)

	var test ast.Expression
	if p.cur.Type != token.SEMI {
		test = p.parseExpression()
	}
	p.expect(token.SEMI)

	var update ast.Expression
	if p.cur.Type != token.RPAREN {
		update = p.parseExpression()
	}
	p.expect(token.RPAREN)

	body := p.parseStatement()
	return &ast.ForStatement{Token: tok, Init: init, Test: test, Update: update, Body: body}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return &ast.WhileStatement{Token: tok, Test: test, Body: body}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	tok := p.expect(token.DO)
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	p.consumeOptionalSemi()
	return &ast.DoWhileStatement{Token: tok, Body: body, Test: test}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.expect(token.RETURN)
	stmt := &ast.ReturnStatement{Token: tok}
	if p.cur.Type != token.SEMI && p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		stmt.Value = p.parseExpression()
	}
	p.consumeOptionalSemi()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression()
	p.consumeOptionalSemi()
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// parseFunctionDeclaration parses a named nested function declaration,
// capturing its original source text for the Nested-Function Hook
// (spec.md §4.7, §4.9).
func (p *Parser) parseFunctionDeclaration() ast.Statement {
	startOffset := p.cur.Pos.Offset
	tok := p.cur
	fnExpr := p.parseFunctionLiteral()
	endOffset := p.cur.Pos.Offset
	fn, _ := fnExpr.(*ast.FunctionLiteral)
	src := ""
	if fn != nil && startOffset >= 0 && endOffset <= len(p.source) && endOffset > startOffset {
		src = p.source[startOffset:endOffset]
	}
	return &ast.FunctionDeclaration{Token: tok, Source: src, Fn: fn}
}

// Expressions, lowest to highest precedence.

func (p *Parser) parseExpression() ast.Expression {
	first := p.parseAssignmentExpression()
	if p.cur.Type != token.COMMA {
		return first
	}
	seq := &ast.SequenceExpression{Expressions: []ast.Expression{first}}
	for p.err == nil && p.cur.Type == token.COMMA {
		p.advance()
		seq.Expressions = append(seq.Expressions, p.parseAssignmentExpression())
	}
	return seq
}

var assignOps = map[token.Type]bool{
	token.ASSIGN: true, token.PLUSEQ: true, token.MINUSEQ: true,
	token.STAREQ: true, token.SLASHEQ: true,
}

func (p *Parser) parseAssignmentExpression() ast.Expression {
	left := p.parseConditionalExpression()
	if !assignOps[p.cur.Type] {
		return left
	}
	tok := p.cur
	p.advance()
	value := p.parseAssignmentExpression()
	return &ast.AssignmentExpression{Token: tok, Operator: tok.Literal, Target: left, Value: value}
}

func (p *Parser) parseConditionalExpression() ast.Expression {
	test := p.parseLogicalOrExpression()
	if p.cur.Type != token.QUESTION {
		return test
	}
	tok := p.cur
	p.advance()
	cons := p.parseAssignmentExpression()
	p.expect(token.COLON)
	alt := p.parseAssignmentExpression()
	return &ast.ConditionalExpression{Token: tok, Test: test, Consequent: cons, Alternate: alt}
}

func (p *Parser) parseLogicalOrExpression() ast.Expression {
	left := p.parseLogicalAndExpression()
	for p.err == nil && p.cur.Type == token.OR {
		tok := p.cur
		p.advance()
		right := p.parseLogicalAndExpression()
		left = &ast.LogicalExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAndExpression() ast.Expression {
	left := p.parseEqualityExpression()
	for p.err == nil && p.cur.Type == token.AND {
		tok := p.cur
		p.advance()
		right := p.parseEqualityExpression()
		left = &ast.LogicalExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	return left
}

var equalityOps = map[token.Type]bool{token.EQ: true, token.NE: true}

func (p *Parser) parseEqualityExpression() ast.Expression {
	left := p.parseRelationalExpression()
	for p.err == nil && equalityOps[p.cur.Type] {
		tok := p.cur
		p.advance()
		right := p.parseRelationalExpression()
		left = &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	return left
}

var relationalOps = map[token.Type]bool{
	token.LT: true, token.GT: true, token.LE: true, token.GE: true,
}

func (p *Parser) parseRelationalExpression() ast.Expression {
	left := p.parseAdditiveExpression()
	for p.err == nil && relationalOps[p.cur.Type] {
		tok := p.cur
		p.advance()
		right := p.parseAdditiveExpression()
		left = &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	return left
}

var additiveOps = map[token.Type]bool{token.PLUS: true, token.MINUS: true}

func (p *Parser) parseAdditiveExpression() ast.Expression {
	left := p.parseMultiplicativeExpression()
	for p.err == nil && additiveOps[p.cur.Type] {
		tok := p.cur
		p.advance()
		right := p.parseMultiplicativeExpression()
		left = &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	return left
}

var multiplicativeOps = map[token.Type]bool{
	token.STAR: true, token.SLASH: true, token.PERCENT: true,
}

func (p *Parser) parseMultiplicativeExpression() ast.Expression {
	left := p.parseUnaryExpression()
	for p.err == nil && multiplicativeOps[p.cur.Type] {
		tok := p.cur
		p.advance()
		right := p.parseUnaryExpression()
		left = &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	switch p.cur.Type {
	case token.NOT, token.MINUS, token.PLUS:
		tok := p.cur
		p.advance()
		arg := p.parseUnaryExpression()
		return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Argument: arg, Prefix: true}
	case token.INC, token.DEC:
		tok := p.cur
		p.advance()
		arg := p.parseUnaryExpression()
		return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Argument: arg, Prefix: true}
	default:
		return p.parsePostfixExpression()
	}
}

func (p *Parser) parsePostfixExpression() ast.Expression {
	expr := p.parseLeftHandSideExpression()
	if p.cur.Type == token.INC || p.cur.Type == token.DEC {
		tok := p.cur
		p.advance()
		return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Argument: expr, Prefix: false}
	}
	return expr
}

func (p *Parser) parseLeftHandSideExpression() ast.Expression {
	expr := p.parsePrimaryExpression()
	for p.err == nil {
		switch p.cur.Type {
		case token.DOT:
			tok := p.cur
			p.advance()
			propTok := p.cur
			p.advance()
			prop := &ast.Identifier{Token: propTok, Value: propTok.Literal}
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: prop, Computed: false}
		case token.LBRACKET:
			tok := p.cur
			p.advance()
			idx := p.parseExpression()
			p.expect(token.RBRACKET)
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: idx, Computed: true}
		case token.LPAREN:
			tok := p.cur
			args := p.parseArguments()
			expr = &ast.CallExpression{Token: tok, Callee: expr, Arguments: args}
		default:
			return expr
		}
	}
	return expr
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for p.err == nil && p.cur.Type != token.RPAREN {
		args = append(args, p.parseAssignmentExpression())
		if p.cur.Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parsePrimaryExpression() ast.Expression {
	if p.err != nil {
		return nil
	}
	switch p.cur.Type {
	case token.IDENT:
		tok := p.cur
		p.advance()
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	case token.THIS:
		tok := p.cur
		p.advance()
		return &ast.ThisExpression{Token: tok}
	case token.TRUE, token.FALSE:
		tok := p.cur
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TRUE}
	case token.INT:
		tok := p.cur
		p.advance()
		v, err := parseInt(tok.Literal)
		if err != nil {
			p.fail("invalid integer literal %q", tok.Literal)
			return nil
		}
		return &ast.IntegerLiteral{Token: tok, Value: v}
	case token.FLOAT:
		tok := p.cur
		p.advance()
		v, err := parseFloat(tok.Literal)
		if err != nil {
			p.fail("invalid numeric literal %q", tok.Literal)
			return nil
		}
		return &ast.FloatLiteral{Token: tok, Value: v}
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return expr
	case token.FUNCTION:
		return p.parseFunctionLiteral()
	default:
		p.fail("unexpected token %s %q", p.cur.Type, p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.expect(token.LBRACKET)
	lit := &ast.ArrayLiteral{Token: tok}
	for p.err == nil && p.cur.Type != token.RBRACKET {
		lit.Elements = append(lit.Elements, p.parseAssignmentExpression())
		if p.cur.Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return lit
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	tok := p.expect(token.FUNCTION)
	fn := &ast.FunctionLiteral{Token: tok}
	if p.cur.Type == token.IDENT {
		fn.Name = p.cur.Literal
		p.advance()
	}
	p.expect(token.LPAREN)
	for p.err == nil && p.cur.Type != token.RPAREN {
		paramTok := p.expect(token.IDENT)
		fn.Params = append(fn.Params, &ast.Identifier{Token: paramTok, Value: paramTok.Literal})
		if p.cur.Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	fn.Body = p.parseBlockStatement()
	return fn
}
