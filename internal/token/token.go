package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // count, clock, x, y, ...
	NUMBER = "NUMBER" // 42, 3.14
	STRING = "STRING" // "foobar"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	// Delimiters
	PERIOD    = "."
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	VAR      = "VAR"
	FUNCTION = "FUN"
	PRINT    = "PRINT"
	RETURN   = "RETURN"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	DO       = "DO"
	FOR      = "FOR"
	AND      = "AND"
	OR       = "OR"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NIL      = "NIL"

	// Reserved for the class extension; the parser rejects them for now.
	CLASS = "CLASS"
	THIS  = "THIS"
	SUPER = "SUPER"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

var keywords = map[string]TokenType{
	// constants
	"nil":   NIL,
	"true":  TRUE,
	"false": FALSE,

	// declarations
	"var": VAR,
	"fun": FUNCTION,

	// flow control
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"do":     DO,
	"for":    FOR,
	"return": RETURN,

	// logic
	"and": AND,
	"or":  OR,

	"print": PRINT,

	// reserved
	"class": CLASS,
	"this":  THIS,
	"super": SUPER,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
