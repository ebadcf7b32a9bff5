package lexer

import (
	"lox/internal/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
var pi = 3.14;
fun add(x, y) {
	return x + y;
}
var result = add(five, pi);
!-/*5;
5 < 10 > 5;
if (5 <= 10) {
	print true;
} else {
	print false;
}
10 == 10;
10 != 9;
"foobar"
"foo bar"
while (i < 3) { i = i + 1; }
do { } while (false);
for (;;) { }
a and b or nil;
point.x = 1;
var n: Int = 0;
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.VAR, "var"},
		{token.IDENT, "five"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.VAR, "var"},
		{token.IDENT, "pi"},
		{token.ASSIGN, "="},
		{token.NUMBER, "3.14"},
		{token.SEMICOLON, ";"},
		{token.FUNCTION, "fun"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.VAR, "var"},
		{token.IDENT, "result"},
		{token.ASSIGN, "="},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "five"},
		{token.COMMA, ","},
		{token.IDENT, "pi"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.BANG, "!"},
		{token.MINUS, "-"},
		{token.SLASH, "/"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "5"},
		{token.LT, "<"},
		{token.NUMBER, "10"},
		{token.GT, ">"},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.NUMBER, "5"},
		{token.LT_EQ, "<="},
		{token.NUMBER, "10"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.TRUE, "true"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.FALSE, "false"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.NUMBER, "10"},
		{token.EQ, "=="},
		{token.NUMBER, "10"},
		{token.SEMICOLON, ";"},
		{token.NUMBER, "10"},
		{token.NOT_EQ, "!="},
		{token.NUMBER, "9"},
		{token.SEMICOLON, ";"},
		{token.STRING, "foobar"},
		{token.STRING, "foo bar"},
		{token.WHILE, "while"},
		{token.LPAREN, "("},
		{token.IDENT, "i"},
		{token.LT, "<"},
		{token.NUMBER, "3"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "i"},
		{token.ASSIGN, "="},
		{token.IDENT, "i"},
		{token.PLUS, "+"},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.DO, "do"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.WHILE, "while"},
		{token.LPAREN, "("},
		{token.FALSE, "false"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.FOR, "for"},
		{token.LPAREN, "("},
		{token.SEMICOLON, ";"},
		{token.SEMICOLON, ";"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.IDENT, "a"},
		{token.AND, "and"},
		{token.IDENT, "b"},
		{token.OR, "or"},
		{token.NIL, "nil"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "point"},
		{token.PERIOD, "."},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.VAR, "var"},
		{token.IDENT, "n"},
		{token.COLON, ":"},
		{token.IDENT, "Int"},
		{token.ASSIGN, "="},
		{token.NUMBER, "0"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLineCommentsAreSkipped(t *testing.T) {
	input := `// leading comment
var x = 1; // trailing comment
// closing comment`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.VAR, "var"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	l := New("var prix_café = 1;")

	tok := l.NextToken()
	if tok.Type != token.VAR {
		t.Fatalf("tokentype wrong. expected=%q, got=%q", token.VAR, tok.Type)
	}
	tok = l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "prix_café" {
		t.Fatalf("identifier wrong. got type=%q literal=%q", tok.Type, tok.Literal)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("tokentype wrong. expected=%q, got=%q", token.ILLEGAL, tok.Type)
	}
}

func TestNumberWithoutTrailingFraction(t *testing.T) {
	// "1." must lex as the number 1 followed by a period.
	l := New("1.foo")

	tok := l.NextToken()
	if tok.Type != token.NUMBER || tok.Literal != "1" {
		t.Fatalf("number wrong. got type=%q literal=%q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != token.PERIOD {
		t.Fatalf("tokentype wrong. expected=%q, got=%q", token.PERIOD, tok.Type)
	}
}
