package lexer_test

import (
	"testing"

	"github.com/cwbudde/go-kernelc/internal/lexer"
	"github.com/cwbudde/go-kernelc/internal/token"
)

func TestNextTokenCoversOperatorsAndDelimiters(t *testing.T) {
	input := `function(a, b){ return a[0] + b * 2 <= 3 && true || false; }`

	want := []token.Type{
		token.FUNCTION, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN,
		token.LBRACE, token.RETURN, token.IDENT, token.LBRACKET, token.INT, token.RBRACKET,
		token.PLUS, token.IDENT, token.STAR, token.INT, token.LE, token.INT, token.AND,
		token.TRUE, token.OR, token.FALSE, token.SEMI, token.RBRACE, token.EOF,
	}

	l := lexer.New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: got %v, want %v (literal %q)", i, tok.Type, w, tok.Literal)
		}
	}
}

func TestNextTokenRecognizesCompoundOperators(t *testing.T) {
	cases := []struct {
		src  string
		want token.Type
	}{
		{"++", token.INC},
		{"--", token.DEC},
		{"+=", token.PLUSEQ},
		{"-=", token.MINUSEQ},
		{"*=", token.STAREQ},
		{"/=", token.SLASHEQ},
		{"==", token.EQ},
		{"!=", token.NE},
		{"<=", token.LE},
		{">=", token.GE},
		{"&&", token.AND},
		{"||", token.OR},
	}
	for _, c := range cases {
		l := lexer.New(c.src)
		tok := l.NextToken()
		if tok.Type != c.want || tok.Literal != c.src {
			t.Errorf("%q: got %v/%q, want %v/%q", c.src, tok.Type, tok.Literal, c.want, c.src)
		}
	}
}

func TestNextTokenReadsFloatsAndIntegers(t *testing.T) {
	l := lexer.New("1 2.5 3e10 4.2e-3")
	for _, want := range []struct {
		typ     token.Type
		literal string
	}{
		{token.INT, "1"},
		{token.FLOAT, "2.5"},
		{token.FLOAT, "3e10"},
		{token.FLOAT, "4.2e-3"},
	} {
		tok := l.NextToken()
		if tok.Type != want.typ || tok.Literal != want.literal {
			t.Fatalf("got %v/%q, want %v/%q", tok.Type, tok.Literal, want.typ, want.literal)
		}
	}
}

func TestNextTokenSkipsLineAndBlockComments(t *testing.T) {
	l := lexer.New("// a comment\n1 /* block */ 2")
	tok := l.NextToken()
	if tok.Type != token.INT || tok.Literal != "1" {
		t.Fatalf("got %v/%q, want INT/1", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != token.INT || tok.Literal != "2" {
		t.Fatalf("got %v/%q, want INT/2", tok.Type, tok.Literal)
	}
}

func TestNextTokenClassifiesKeywordsAndIdentifiers(t *testing.T) {
	cases := []struct {
		src  string
		want token.Type
	}{
		{"function", token.FUNCTION},
		{"return", token.RETURN},
		{"var", token.VAR},
		{"this", token.THIS},
		{"notAKeyword", token.IDENT},
	}
	for _, c := range cases {
		l := lexer.New(c.src)
		tok := l.NextToken()
		if tok.Type != c.want {
			t.Errorf("%q: got %v, want %v", c.src, tok.Type, c.want)
		}
	}
}

func TestNextTokenFlagsIllegalCharacters(t *testing.T) {
	l := lexer.New("@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL || tok.Literal != "@" {
		t.Fatalf("got %v/%q, want ILLEGAL/@", tok.Type, tok.Literal)
	}
}

func TestNextTokenTracksLineAndColumn(t *testing.T) {
	l := lexer.New("a\nb")
	first := l.NextToken()
	if first.Pos.Line != 1 {
		t.Fatalf("expected first token on line 1, got %d", first.Pos.Line)
	}
	second := l.NextToken()
	if second.Pos.Line != 2 {
		t.Fatalf("expected second token on line 2, got %d", second.Pos.Line)
	}
}

func TestLineOf(t *testing.T) {
	src := "abc\ndef\nghi"
	line, col := lexer.LineOf(src, 5) // 'e' in "def"
	if line != 2 || col != 2 {
		t.Fatalf("got line=%d col=%d, want line=2 col=2", line, col)
	}
}
