// Package parser turns a token sequence into an AST module.
//
// The parser is recursive descent with Pratt-style precedence climbing for
// expressions. It reads a one-token window plus a single extra peek that is
// only needed to disambiguate import-statement shape. Parsing is fail-fast:
// the first grammar violation aborts with a *SyntaxError and no partial AST
// is returned.
package parser

import (
	"fmt"

	"github.com/trif-lang/trif/internal/ast"
	"github.com/trif-lang/trif/internal/diag"
	"github.com/trif-lang/trif/internal/lexer"
)

type (
	prefixParseFn func() (ast.Expr, error)
	infixParseFn  func(ast.Expr) (ast.Expr, error)
)

const (
	precedenceLowest = iota
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceSum
	precedenceProduct
	precedencePrefix
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:       precedenceOr,
	lexer.AND:      precedenceAnd,
	lexer.EQ:       precedenceEquality,
	lexer.NOT_EQ:   precedenceEquality,
	lexer.LT:       precedenceComparison,
	lexer.LE:       precedenceComparison,
	lexer.GT:       precedenceComparison,
	lexer.GE:       precedenceComparison,
	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.ASTERISK: precedenceProduct,
	lexer.SLASH:    precedenceProduct,
	lexer.PERCENT:  precedenceProduct,
	lexer.LPAREN:   precedencePostfix,
	lexer.DOT:      precedencePostfix,
}

// SyntaxError reports a grammar violation: a token mismatch, a malformed
// import/export shape, spawn applied to a non-call, or an invalid assignment
// target. Expected is empty for violations that are not a simple token
// mismatch.
type SyntaxError struct {
	Expected lexer.TokenType
	Actual   lexer.TokenType
	Message  string
	Line     int
	Column   int
	Code     diag.Code
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d", e.Message, e.Line)
}

// ToDiagnostic converts the syntax error into a shared diagnostic structure.
func (e *SyntaxError) ToDiagnostic() diag.Diagnostic {
	code := e.Code
	if code == "" {
		code = diag.CodeParserUnexpectedToken
	}
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  e.Message,
		Span: diag.Span{
			Line:   e.Line,
			Column: e.Column,
		},
	}
}

// Parser consumes a token slice produced by the lexer.
type Parser struct {
	tokens []lexer.Token
	pos    int

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// Parse builds a Module from the given token sequence. The sequence must end
// with the lexer's EOF sentinel.
func Parse(tokens []lexer.Token) (*ast.Module, error) {
	return New(tokens).ParseModule()
}

// New returns a parser positioned at the start of the token slice.
func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseName,
		lexer.NUMBER:   p.parseNumberLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.TRUE:     p.parseBooleanLiteral,
		lexer.FALSE:    p.parseBooleanLiteral,
		lexer.NULL:     p.parseNullLiteral,
		lexer.MINUS:    p.parsePrefixExpr,
		lexer.BANG:     p.parsePrefixExpr,
		lexer.LPAREN:   p.parseGroupedExpr,
		lexer.LBRACKET: p.parseListLiteral,
		lexer.LBRACE:   p.parseDictLiteral,
	}

	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.OR:       p.parseInfixExpr,
		lexer.AND:      p.parseInfixExpr,
		lexer.EQ:       p.parseInfixExpr,
		lexer.NOT_EQ:   p.parseInfixExpr,
		lexer.LT:       p.parseInfixExpr,
		lexer.LE:       p.parseInfixExpr,
		lexer.GT:       p.parseInfixExpr,
		lexer.GE:       p.parseInfixExpr,
		lexer.PLUS:     p.parseInfixExpr,
		lexer.MINUS:    p.parseInfixExpr,
		lexer.ASTERISK: p.parseInfixExpr,
		lexer.SLASH:    p.parseInfixExpr,
		lexer.PERCENT:  p.parseInfixExpr,
		lexer.LPAREN:   p.parseCallExpr,
		lexer.DOT:      p.parseAttributeExpr,
	}

	return p
}

// ParseModule parses the whole token sequence into a module.
func (p *Parser) ParseModule() (*ast.Module, error) {
	module := &ast.Module{}
	for p.cur().Type != lexer.EOF {
		if p.atSeparator() {
			p.next()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		module.Body = append(module.Body, stmt)
	}
	return module, nil
}

// cur returns the token under examination.
func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peek returns the token after cur without consuming anything. It is the
// parser's only second-token lookahead and exists solely for the
// import-shape decision.
func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) next() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// expect consumes and returns the current token if it has the given type,
// or fails with a token-mismatch error.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.cur()
	if tok.Type != tt {
		return tok, p.mismatch(tt, tok)
	}
	p.next()
	return tok, nil
}

// match consumes the current token when it has the given type.
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.cur().Type == tt {
		p.next()
		return true
	}
	return false
}

func (p *Parser) atSeparator() bool {
	tt := p.cur().Type
	return tt == lexer.NEWLINE || tt == lexer.SEMICOLON
}

// skipSeparators consumes any run of newline/semicolon separators.
func (p *Parser) skipSeparators() {
	for p.atSeparator() {
		p.next()
	}
}

func (p *Parser) mismatch(expected lexer.TokenType, actual lexer.Token) error {
	return &SyntaxError{
		Expected: expected,
		Actual:   actual.Type,
		Message:  fmt.Sprintf("expected %s but got %s", expected, actual.Type),
		Line:     actual.Span.Line,
		Column:   actual.Span.Column,
	}
}

// fail builds a free-form syntax error located at the current token.
func (p *Parser) fail(code diag.Code, format string, args ...any) error {
	tok := p.cur()
	return &SyntaxError{
		Actual:  tok.Type,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Span.Line,
		Column:  tok.Span.Column,
		Code:    code,
	}
}
