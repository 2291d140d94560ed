package parser

import (
	"github.com/trif-lang/trif/internal/ast"
	"github.com/trif-lang/trif/internal/diag"
	"github.com/trif-lang/trif/internal/lexer"
)

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Type {
	case lexer.IMPORT:
		return p.terminated(p.parseImportStatement())
	case lexer.EXPORT:
		return p.terminated(p.parseExportStatement())
	case lexer.LET, lexer.CONST:
		mutable := p.cur().Type == lexer.LET
		p.next()
		return p.terminated(p.parseLetStatement(mutable, false, false))
	case lexer.FUNCTION:
		return p.terminated(p.parseFunctionStatement(false, false))
	case lexer.RETURN:
		return p.terminated(p.parseReturnStatement())
	case lexer.IF:
		return p.terminated(p.parseIfStatement())
	case lexer.WHILE:
		return p.terminated(p.parseWhileStatement())
	case lexer.FOR:
		return p.terminated(p.parseForStatement())
	case lexer.SPAWN:
		return p.terminated(p.parseSpawnStatement())
	default:
		return p.terminated(p.parseExpressionStatement())
	}
}

// terminated consumes trailing newline/semicolon separators after a
// successfully parsed statement.
func (p *Parser) terminated(stmt ast.Stmt, err error) (ast.Stmt, error) {
	if err != nil {
		return nil, err
	}
	p.skipSeparators()
	return stmt, nil
}

// parseBlock parses a brace-delimited statement sequence.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body := []ast.Stmt{}
	for p.cur().Type != lexer.RBRACE {
		if p.cur().Type == lexer.EOF {
			return nil, p.mismatch(lexer.RBRACE, p.cur())
		}
		if p.atSeparator() {
			p.next()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.next() // consume '}'
	return body, nil
}

func (p *Parser) parseLetStatement(mutable, exported, isDefault bool) (ast.Stmt, error) {
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Let{
		Name:      name.Value,
		Value:     value,
		Mutable:   mutable,
		Exported:  exported,
		IsDefault: isDefault,
	}, nil
}

func (p *Parser) parseFunctionStatement(exported, isDefault bool) (ast.Stmt, error) {
	p.next() // consume fn/function keyword

	var name string
	if p.cur().Type == lexer.IDENT {
		name = p.cur().Value
		p.next()
	} else if isDefault {
		// Anonymous default export functions get a conventional name so
		// both backends can bind them.
		name = "_default_export"
	} else {
		return nil, p.fail(diag.CodeParserUnexpectedToken, "function declaration requires a name")
	}

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	if p.cur().Type != lexer.RPAREN {
		for {
			param, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, param.Value)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{
		Name:      name,
		Params:    params,
		Body:      body,
		Exported:  exported,
		IsDefault: isDefault,
	}, nil
}

func (p *Parser) parseReturnStatement() (ast.Stmt, error) {
	p.next() // consume 'return'
	switch p.cur().Type {
	case lexer.NEWLINE, lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
		return &ast.Return{}, nil
	}
	value, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: value}, nil
}

func (p *Parser) parseIfStatement() (ast.Stmt, error) {
	p.next() // consume 'if'
	test, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []ast.Stmt
	if p.match(lexer.ELSE) {
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Test: test, Body: body, Orelse: orelse}, nil
}

func (p *Parser) parseWhileStatement() (ast.Stmt, error) {
	p.next() // consume 'while'
	test, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Test: test, Body: body}, nil
}

func (p *Parser) parseForStatement() (ast.Stmt, error) {
	p.next() // consume 'for'
	target, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Target: target.Value, Iterable: iterable, Body: body}, nil
}

// parseSpawnStatement enforces at parse time that spawn wraps a call.
func (p *Parser) parseSpawnStatement() (ast.Stmt, error) {
	p.next() // consume 'spawn'
	expr, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*ast.Call)
	if !ok {
		return nil, p.fail(diag.CodeParserSpawnRequiresCall, "spawn expects a function call")
	}
	return &ast.Spawn{Call: call}, nil
}

// parseExpressionStatement parses a bare expression, or an assignment when
// the expression is a valid target followed by '='.
func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	expr, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.ASSIGN {
		return &ast.ExprStmt{Expr: expr}, nil
	}
	switch expr.(type) {
	case *ast.Name, *ast.Attribute:
	default:
		return nil, p.fail(diag.CodeParserBadAssignTarget, "invalid assignment target")
	}
	p.next() // consume '='
	value, err := p.parseExpression(precedenceLowest)
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Target: expr, Value: value}, nil
}
