package lexer

import (
	"errors"
	"testing"
)

func TestNextToken_Basic(t *testing.T) {
	input := `let x = 10 + 2.5
const msg = "hi"`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{NUMBER, "10"},
		{PLUS, "+"},
		{NUMBER, "2.5"},
		{NEWLINE, "\n"},
		{CONST, "const"},
		{IDENT, "msg"},
		{ASSIGN, "="},
		{STRING, "hi"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Value != tt.expectedValue {
			t.Fatalf("tests[%d] - value wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Value)
		}
	}
}

func TestNextToken_TwoRuneOperators(t *testing.T) {
	input := `== != <= >= && || =>`

	expected := []TokenType{EQ, NOT_EQ, LE, GE, AND, OR, FATARROW, EOF}

	l := New(input)
	for i, typ := range expected {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("step %d - unexpected error: %v", i, err)
		}
		if tok.Type != typ {
			t.Fatalf("step %d - expected token %q, got %q", i, typ, tok.Type)
		}
	}
}

func TestKeywords_FnAndFunctionAreSynonyms(t *testing.T) {
	for _, kw := range []string{"fn", "function"} {
		if got := LookupIdent(kw); got != FUNCTION {
			t.Fatalf("LookupIdent(%q) = %q, want %q", kw, got, FUNCTION)
		}
	}
	if got := LookupIdent("fnx"); got != IDENT {
		t.Fatalf("LookupIdent(%q) = %q, want %q", "fnx", got, IDENT)
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote\"inside"`, `quote"inside`},
		{`'single\'quote'`, "single'quote"},
		{`"back\\slash"`, `back\slash`},
		{`'mixed "quotes"'`, `mixed "quotes"`},
	}

	for _, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
		}
		if tokens[0].Type != STRING {
			t.Fatalf("Tokenize(%q) type = %q, want STRING", tt.input, tokens[0].Type)
		}
		if tokens[0].Value != tt.value {
			t.Fatalf("Tokenize(%q) value = %q, want %q", tt.input, tokens[0].Value, tt.value)
		}
		if tokens[0].Raw != tt.input {
			t.Fatalf("Tokenize(%q) raw = %q, want the input back", tt.input, tokens[0].Raw)
		}
	}
}

func TestNumberStopsBeforeDotWithoutDigit(t *testing.T) {
	tokens, err := Tokenize("1.foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []TokenType{NUMBER, DOT, IDENT, EOF}
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(expected))
	}
	for i, typ := range expected {
		if tokens[i].Type != typ {
			t.Fatalf("token %d - expected %q, got %q", i, typ, tokens[i].Type)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := "let a = 1 // trailing\n/* block\nspanning lines */ let b = 2"

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var idents []string
	for _, tok := range tokens {
		if tok.Type == IDENT {
			idents = append(idents, tok.Value)
		}
	}
	if len(idents) != 2 || idents[0] != "a" || idents[1] != "b" {
		t.Fatalf("identifiers = %v, want [a b]", idents)
	}

	// The block comment spans a newline, so `b` sits on line 3.
	for _, tok := range tokens {
		if tok.Value == "b" && tok.Span.Line != 3 {
			t.Fatalf("token b on line %d, want 3", tok.Span.Line)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "let x = 1\nx = x + 1"

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		value  string
		line   int
		column int
	}{
		{"let", 1, 1},
		{"x", 1, 5},
		{"=", 1, 7},
		{"1", 1, 9},
		{"\n", 1, 10},
		{"x", 2, 1},
		{"=", 2, 3},
		{"x", 2, 5},
		{"+", 2, 7},
		{"1", 2, 9},
	}

	for i, tt := range tests {
		tok := tokens[i]
		if tok.Value != tt.value || tok.Span.Line != tt.line || tok.Span.Column != tt.column {
			t.Fatalf("token %d = %q at %d:%d, want %q at %d:%d",
				i, tok.Value, tok.Span.Line, tok.Span.Column, tt.value, tt.line, tt.column)
		}
	}
}

func TestRawSlicesBackToSource(t *testing.T) {
	input := "fn add(x, y) {\n    return x + y // sum\n}\nconst s = 'a\\tb'"

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runes := []rune(input)
	for _, tok := range tokens {
		if tok.Type == EOF {
			continue
		}
		got := string(runes[tok.Span.Start:tok.Span.End])
		if got != tok.Raw {
			t.Fatalf("span slice %q does not match raw %q for token %q", got, tok.Raw, tok.Type)
		}
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	tests := []struct {
		input  string
		char   rune
		line   int
		column int
	}{
		{"let @ = 1", '@', 1, 5},
		{"a & b", '&', 1, 3},
		{"a | b", '|', 1, 3},
		{"let x = 1\n  #", '#', 2, 3},
		{`"unterminated`, '"', 1, 1},
	}

	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		if err == nil {
			t.Fatalf("Tokenize(%q) succeeded, want error", tt.input)
		}
		var lexErr *Error
		if !errors.As(err, &lexErr) {
			t.Fatalf("Tokenize(%q) error type %T, want *Error", tt.input, err)
		}
		if lexErr.Char != tt.char || lexErr.Line != tt.line || lexErr.Column != tt.column {
			t.Fatalf("Tokenize(%q) error = %q at %d:%d, want %q at %d:%d",
				tt.input, lexErr.Char, lexErr.Line, lexErr.Column, tt.char, tt.line, tt.column)
		}
	}
}

func TestTokenizeEndsWithEOF(t *testing.T) {
	for _, input := range []string{"", "   ", "// only a comment", "let x = 1"} {
		tokens, err := Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", input, err)
		}
		if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
			t.Fatalf("Tokenize(%q) does not end with EOF sentinel", input)
		}
	}
}
