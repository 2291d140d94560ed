package parser

import (
	"strings"

	"github.com/trif-lang/trif/internal/ast"
	"github.com/trif-lang/trif/internal/diag"
	"github.com/trif-lang/trif/internal/lexer"
)

// parseImportStatement handles every import shape:
//
//	import "path" [as alias]
//	import std.io [as io]
//	import name from <module>
//	import name, { a [as b], ... } from <module>
//	import { a [as b], ... } from <module>
//	import * as ns from <module>
//
// A bare string after `import` is always a direct module import. An
// identifier immediately followed by comma or `from` starts a default
// binding; this is the parser's only use of two-token lookahead.
func (p *Parser) parseImportStatement() (ast.Stmt, error) {
	p.next() // consume 'import'

	var (
		defaultName string
		names       []ast.Specifier
		namespace   string
	)

	switch {
	case p.cur().Type == lexer.STRING:
		module := p.cur().Value
		p.next()
		alias, err := p.parseOptionalAlias()
		if err != nil {
			return nil, err
		}
		return &ast.Import{Module: module, Alias: alias}, nil

	case p.cur().Type == lexer.IDENT &&
		(p.peek().Type == lexer.COMMA || p.peek().Type == lexer.FROM):
		defaultName = p.cur().Value
		p.next()
		if p.match(lexer.COMMA) {
			if p.cur().Type != lexer.LBRACE {
				return nil, p.fail(diag.CodeParserBadImport, "expected named import list after comma")
			}
			var err error
			names, err = p.parseSpecifierList()
			if err != nil {
				return nil, err
			}
		}

	case p.cur().Type == lexer.LBRACE:
		var err error
		names, err = p.parseSpecifierList()
		if err != nil {
			return nil, err
		}

	case p.cur().Type == lexer.ASTERISK:
		p.next()
		if _, err := p.expect(lexer.AS); err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		namespace = name.Value
	}

	if defaultName != "" || names != nil || namespace != "" {
		if _, err := p.expect(lexer.FROM); err != nil {
			return nil, err
		}
		module, err := p.parseModuleSpecifier()
		if err != nil {
			return nil, err
		}
		return &ast.ImportFrom{
			Module:    module,
			Names:     names,
			Default:   defaultName,
			Namespace: namespace,
		}, nil
	}

	module, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	return &ast.Import{Module: module, Alias: alias}, nil
}

func (p *Parser) parseExportStatement() (ast.Stmt, error) {
	p.next() // consume 'export'

	switch p.cur().Type {
	case lexer.DEFAULT:
		p.next()
		switch p.cur().Type {
		case lexer.FUNCTION:
			return p.parseFunctionStatement(true, true)
		case lexer.LET, lexer.CONST:
			mutable := p.cur().Type == lexer.LET
			p.next()
			return p.parseLetStatement(mutable, true, true)
		}
		value, err := p.parseExpression(precedenceLowest)
		if err != nil {
			return nil, err
		}
		return &ast.ExportDefault{Value: value}, nil

	case lexer.FUNCTION:
		return p.parseFunctionStatement(true, false)

	case lexer.LET, lexer.CONST:
		mutable := p.cur().Type == lexer.LET
		p.next()
		return p.parseLetStatement(mutable, true, false)

	case lexer.LBRACE:
		names, err := p.parseSpecifierList()
		if err != nil {
			return nil, err
		}
		var source string
		if p.match(lexer.FROM) {
			source, err = p.parseModuleSpecifier()
			if err != nil {
				return nil, err
			}
		}
		return &ast.ExportNames{Names: names, Source: source}, nil
	}

	return nil, p.fail(diag.CodeParserBadExport, "unsupported export statement")
}

// parseSpecifierList parses `{ name [as alias], ... }`. The alias defaults
// to the name itself.
func (p *Parser) parseSpecifierList() ([]ast.Specifier, error) {
	p.next() // consume '{'
	names := []ast.Specifier{}
	for p.cur().Type != lexer.RBRACE {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		alias := name.Value
		if p.match(lexer.AS) {
			aliasTok, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			alias = aliasTok.Value
		}
		names = append(names, ast.Specifier{Name: name.Value, Alias: alias})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return names, nil
}

// parseModuleSpecifier accepts a string literal or a dotted name.
func (p *Parser) parseModuleSpecifier() (string, error) {
	if p.cur().Type == lexer.STRING {
		module := p.cur().Value
		p.next()
		return module, nil
	}
	return p.parseDottedName()
}

func (p *Parser) parseDottedName() (string, error) {
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", err
	}
	parts := []string{name.Value}
	for p.match(lexer.DOT) {
		part, err := p.expect(lexer.IDENT)
		if err != nil {
			return "", err
		}
		parts = append(parts, part.Value)
	}
	return strings.Join(parts, "."), nil
}

func (p *Parser) parseOptionalAlias() (string, error) {
	if !p.match(lexer.AS) {
		return "", nil
	}
	alias, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", err
	}
	return alias.Value, nil
}
