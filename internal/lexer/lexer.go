package lexer

import (
	"fmt"

	"github.com/trif-lang/trif/internal/diag"
)

// Error reports a character that no token pattern matches. Lexing is
// fail-fast: the first such character aborts the whole tokenization.
type Error struct {
	Char   rune
	Line   int
	Column int
}

func (e *Error) Error() string {
	return fmt.Sprintf("unexpected character %q at line %d column %d", e.Char, e.Line, e.Column)
}

// ToDiagnostic converts the lexer error into a shared diagnostic structure.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     diag.CodeLexerUnexpectedChar,
		Message:  fmt.Sprintf("unexpected character %q", e.Char),
		Span: diag.Span{
			Line:   e.Line,
			Column: e.Column,
		},
	}
}

// Lexer represents the lexer state
type Lexer struct {
	input  []rune
	pos    int  // index of the current rune
	ch     rune // current rune (0 = end of input)
	line   int  // current line number (1-based)
	column int  // current column number (1-based)
}

// New creates a new lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // will be 1 after the first read()
	}
	l.read()
	return l
}

// Tokenize converts source text into its ordered token sequence. The
// sequence always ends with an EOF sentinel positioned at the end of the
// source. Same input always yields the same output; the function performs
// no I/O and keeps no state between calls.
func Tokenize(source string) ([]Token, error) {
	l := New(source)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// read advances the lexer to the next character, keeping line/column in sync
// with the position of the character at pos.
func (l *Lexer) read() {
	prevPos := l.pos
	l.pos++

	advance := func() {
		if prevPos >= 0 && prevPos < len(l.input) && l.input[prevPos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}

	if l.pos >= len(l.input) {
		advance()
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
	advance()
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) spanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos, endPos int, raw, value string) Token {
	return Token{
		Type:  tokType,
		Raw:   raw,
		Value: value,
		Span: Span{
			Line:   startLine,
			Column: startColumn,
			Start:  startPos,
			End:    endPos,
		},
	}
}

// single emits a one-rune token of the given type.
func (l *Lexer) single(tokType TokenType) Token {
	startLine, startColumn, startPos := l.spanStart()
	raw := string(l.ch)
	l.read()
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, raw, raw)
}

// pair emits a two-rune token; the caller has verified peek().
func (l *Lexer) pair(tokType TokenType) Token {
	startLine, startColumn, startPos := l.spanStart()
	raw := string(l.ch)
	l.read()
	raw += string(l.ch)
	l.read()
	return l.makeToken(tokType, startLine, startColumn, startPos, l.pos, raw, raw)
}

// skipSpace skips horizontal whitespace. Newlines are significant and are
// not consumed here.
func (l *Lexer) skipSpace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.read()
	}
}

// skipLineComment consumes the remainder of a // comment.
func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.read()
	}
}

// skipBlockComment consumes a /* */ comment, which may span multiple lines.
// Line/column counters advance through read() as usual, so positions stay
// correct across embedded newlines.
func (l *Lexer) skipBlockComment() {
	for {
		if l.ch == 0 {
			return
		}
		if l.ch == '*' && l.peek() == '/' {
			l.read() // consume '*'
			l.read() // consume '/'
			return
		}
		l.read()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

// readNumber reads a decimal literal with an optional fractional part. The
// dot is consumed only when a digit follows, so `1.foo` lexes as NUMBER DOT
// IDENT.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.read()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		l.read() // consume '.'
		for isDigit(l.ch) {
			l.read()
		}
	}
	return string(l.input[start:l.pos])
}

// readString reads a string literal delimited by the given quote, decoding
// backslash escapes. Raw newlines inside the literal are permitted.
func (l *Lexer) readString(quote rune) (raw, value string, ok bool) {
	var rawRunes, decoded []rune

	rawRunes = append(rawRunes, quote)
	l.read() // skip opening quote

	for {
		switch {
		case l.ch == 0:
			return string(rawRunes), string(decoded), false
		case l.ch == quote:
			rawRunes = append(rawRunes, quote)
			l.read() // consume closing quote
			return string(rawRunes), string(decoded), true
		case l.ch == '\\':
			rawRunes = append(rawRunes, '\\')
			l.read()
			if l.ch == 0 {
				return string(rawRunes), string(decoded), false
			}
			rawRunes = append(rawRunes, l.ch)
			switch l.ch {
			case 'n':
				decoded = append(decoded, '\n')
			case 't':
				decoded = append(decoded, '\t')
			case 'r':
				decoded = append(decoded, '\r')
			case '0':
				decoded = append(decoded, 0)
			case '\\', '"', '\'':
				decoded = append(decoded, l.ch)
			default:
				decoded = append(decoded, '\\', l.ch)
			}
			l.read()
		default:
			rawRunes = append(rawRunes, l.ch)
			decoded = append(decoded, l.ch)
			l.read()
		}
	}
}

// NextToken returns the next token from the input. Matching is
// longest-pattern-first at each position; a character starting no pattern
// yields an *Error.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipSpace()

		switch l.ch {
		case 0:
			startLine, startColumn, startPos := l.spanStart()
			if startColumn == 0 {
				startColumn = 1
			}
			return l.makeToken(EOF, startLine, startColumn, startPos, startPos, "", ""), nil

		case '\n':
			return l.single(NEWLINE), nil

		case '=':
			switch l.peek() {
			case '=':
				return l.pair(EQ), nil
			case '>':
				return l.pair(FATARROW), nil
			}
			return l.single(ASSIGN), nil

		case '+':
			return l.single(PLUS), nil

		case '-':
			return l.single(MINUS), nil

		case '*':
			return l.single(ASTERISK), nil

		case '%':
			return l.single(PERCENT), nil

		case '/':
			switch l.peek() {
			case '/':
				l.skipLineComment()
				continue
			case '*':
				l.read() // consume '/'
				l.read() // consume '*'
				l.skipBlockComment()
				continue
			}
			return l.single(SLASH), nil

		case '!':
			if l.peek() == '=' {
				return l.pair(NOT_EQ), nil
			}
			return l.single(BANG), nil

		case '<':
			if l.peek() == '=' {
				return l.pair(LE), nil
			}
			return l.single(LT), nil

		case '>':
			if l.peek() == '=' {
				return l.pair(GE), nil
			}
			return l.single(GT), nil

		case '&':
			if l.peek() == '&' {
				return l.pair(AND), nil
			}
			return Token{}, &Error{Char: l.ch, Line: l.line, Column: l.column}

		case '|':
			if l.peek() == '|' {
				return l.pair(OR), nil
			}
			return Token{}, &Error{Char: l.ch, Line: l.line, Column: l.column}

		case ',':
			return l.single(COMMA), nil
		case ';':
			return l.single(SEMICOLON), nil
		case ':':
			return l.single(COLON), nil
		case '.':
			return l.single(DOT), nil
		case '(':
			return l.single(LPAREN), nil
		case ')':
			return l.single(RPAREN), nil
		case '{':
			return l.single(LBRACE), nil
		case '}':
			return l.single(RBRACE), nil
		case '[':
			return l.single(LBRACKET), nil
		case ']':
			return l.single(RBRACKET), nil

		case '"', '\'':
			startLine, startColumn, startPos := l.spanStart()
			quote := l.ch
			raw, value, ok := l.readString(quote)
			if !ok {
				return Token{}, &Error{Char: quote, Line: startLine, Column: startColumn}
			}
			return l.makeToken(STRING, startLine, startColumn, startPos, l.pos, raw, value), nil

		default:
			if isLetter(l.ch) {
				startLine, startColumn, startPos := l.spanStart()
				literal := l.readIdentifier()
				return l.makeToken(LookupIdent(literal), startLine, startColumn, startPos, l.pos, literal, literal), nil
			}
			if isDigit(l.ch) {
				startLine, startColumn, startPos := l.spanStart()
				literal := l.readNumber()
				return l.makeToken(NUMBER, startLine, startColumn, startPos, l.pos, literal, literal), nil
			}
			return Token{}, &Error{Char: l.ch, Line: l.line, Column: l.column}
		}
	}
}

func isLetter(ch rune) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
