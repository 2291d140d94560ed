package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Start  int // index in []rune of the source
	End    int // exclusive end index
}

// Token represents a lexical token. Raw holds the exact source runes backing
// the token; Value holds the decoded form (for strings the unquoted,
// unescaped text, for every other type the same as Raw).
type Token struct {
	Type  TokenType
	Raw   string
	Value string
	Span  Span
}

// Token type constants
const (
	// End-of-input sentinel
	EOF TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // add, counter, x, y, ...
	NUMBER TokenType = "NUMBER" // 1, 3.14
	STRING TokenType = "STRING" // "hello", 'hello'

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	BANG     TokenType = "!"
	FATARROW TokenType = "=>"
	AND      TokenType = "&&"
	OR       TokenType = "||"

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Statement separator. Newlines are semantically significant and are
	// emitted as tokens; all other whitespace is dropped.
	NEWLINE TokenType = "NEWLINE"

	// Keywords
	LET      TokenType = "LET"
	CONST    TokenType = "CONST"
	FUNCTION TokenType = "FUNCTION"
	RETURN   TokenType = "RETURN"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	IN       TokenType = "IN"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	NULL     TokenType = "NULL"
	IMPORT   TokenType = "IMPORT"
	AS       TokenType = "AS"
	FROM     TokenType = "FROM"
	EXPORT   TokenType = "EXPORT"
	DEFAULT  TokenType = "DEFAULT"
	SPAWN    TokenType = "SPAWN"
)

var keywords = map[string]TokenType{
	"let":      LET,
	"const":    CONST,
	"fn":       FUNCTION,
	"function": FUNCTION,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,
	"import":   IMPORT,
	"as":       AS,
	"from":     FROM,
	"export":   EXPORT,
	"default":  DEFAULT,
	"spawn":    SPAWN,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
