package parser

import (
	"strconv"

	"github.com/trif-lang/trif/internal/ast"
	"github.com/trif-lang/trif/internal/diag"
	"github.com/trif-lang/trif/internal/lexer"
)

// parseExpression climbs precedence levels starting at the given one.
// Every parse function leaves the parser positioned at the first token
// after the expression it produced.
func (p *Parser) parseExpression(precedence int) (ast.Expr, error) {
	prefix := p.prefixFns[p.cur().Type]
	if prefix == nil {
		return nil, p.fail(diag.CodeParserUnexpectedToken, "unexpected token %s in expression", p.cur().Type)
	}

	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for precedence < p.curPrecedence() {
		infix := p.infixFns[p.cur().Type]
		if infix == nil {
			return left, nil
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur().Type]; ok {
		return prec
	}
	return precedenceLowest
}

func (p *Parser) parseName() (ast.Expr, error) {
	tok := p.cur()
	p.next()
	return &ast.Name{ID: tok.Value}, nil
}

func (p *Parser) parseNumberLiteral() (ast.Expr, error) {
	tok := p.cur()
	value, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return nil, p.fail(diag.CodeParserUnexpectedToken, "malformed number literal %q", tok.Raw)
	}
	p.next()
	return &ast.Number{Value: value}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expr, error) {
	tok := p.cur()
	p.next()
	return &ast.String{Value: tok.Value}, nil
}

func (p *Parser) parseBooleanLiteral() (ast.Expr, error) {
	tok := p.cur()
	p.next()
	return &ast.Boolean{Value: tok.Type == lexer.TRUE}, nil
}

func (p *Parser) parseNullLiteral() (ast.Expr, error) {
	p.next()
	return &ast.Null{}, nil
}

func (p *Parser) parsePrefixExpr() (ast.Expr, error) {
	op := p.cur().Raw
	p.next()
	operand, err := p.parseExpression(precedencePrefix)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Op: op, Operand: operand}, nil
}

func (p *Parser) parseInfixExpr(left ast.Expr) (ast.Expr, error) {
	op := p.cur().Raw
	precedence := p.curPrecedence()
	p.next()
	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Left: left, Op: op, Right: right}, nil
}

func (p *Parser) parseGroupedExpr() (ast.Expr, error) {
	p.next() // consume '('
	expr, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseCallExpr(callee ast.Expr) (ast.Expr, error) {
	p.next() // consume '('
	var args []ast.Expr
	if p.cur().Type != lexer.RPAREN {
		for {
			arg, err := p.parseExpression(precedenceLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Call{Func: callee, Args: args}, nil
}

func (p *Parser) parseAttributeExpr(object ast.Expr) (ast.Expr, error) {
	p.next() // consume '.'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Attribute{Value: object, Attr: name.Value}, nil
}

func (p *Parser) parseListLiteral() (ast.Expr, error) {
	p.next() // consume '['
	var elements []ast.Expr
	if p.cur().Type != lexer.RBRACKET {
		for {
			element, err := p.parseExpression(precedenceLowest)
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Elements: elements}, nil
}

// parseDictLiteral parses `{ key : value, ... }`. Keys are full
// expressions, so `{ a + b : 1 }` is legal.
func (p *Parser) parseDictLiteral() (ast.Expr, error) {
	p.next() // consume '{'
	var pairs []ast.Pair
	if p.cur().Type != lexer.RBRACE {
		for {
			key, err := p.parseExpression(precedenceLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			value, err := p.parseExpression(precedenceLowest)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ast.Pair{Key: key, Value: value})
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.DictLiteral{Pairs: pairs}, nil
}
