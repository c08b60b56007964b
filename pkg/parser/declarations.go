package parser

import (
	"github.com/bcpl-lang/bcplc/internal/ast"
	"github.com/bcpl-lang/bcplc/internal/collections"
	"github.com/bcpl-lang/bcplc/pkg/lexer"
)

// parseSection recognizes one `section <IDENT> …` unit and appends it to
// the program, consuming members until the next `section` or EOF (§4.6.1).
func (p *Parser) parseSection() {
	loc := p.cur.Loc
	p.consume(lexer.TOKEN_SECTION, "expected `section`")
	name := p.consume(lexer.TOKEN_IDENT, "expected section identifier")

	sec := ast.NewSection(loc, name.Str)
	p.program.Sections.Append(sec)

	for p.cur.Kind != lexer.TOKEN_SECTION && p.cur.Kind != lexer.TOKEN_EOF {
		p.parseSectionMember(sec)
	}
}

// parseSectionMember recognizes one of `require`, a `global`/`static`/
// `manifest` declaration block, or a `let`/`and` function declaration.
func (p *Parser) parseSectionMember(sec *ast.Section) {
	switch p.cur.Kind {
	case lexer.TOKEN_SEMICOLON:
		p.advance()
	case lexer.TOKEN_REQUIRE:
		p.parseRequire(sec)
	case lexer.TOKEN_GLOBAL:
		p.parseDeclBlock(sec, ast.DeclGlobal)
	case lexer.TOKEN_STATIC:
		p.parseDeclBlock(sec, ast.DeclStatic)
	case lexer.TOKEN_MANIFEST:
		p.parseDeclBlock(sec, ast.DeclManifest)
	case lexer.TOKEN_LET:
		sec.Declarations.Append(p.parseFunctionDecl(false))
	case lexer.TOKEN_AND:
		sec.Declarations.Append(p.parseFunctionDecl(true))
	default:
		p.fatalf(p.cur.Loc, "unexpected token %s, expected a section member", p.cur.Kind)
	}
}

// parseRequire parses `require <IDENT> (, <IDENT>)*`, warning if any
// declaration has already been parsed in this section (§3.5).
func (p *Parser) parseRequire(sec *ast.Section) {
	reqLoc := p.cur.Loc
	p.advance()
	if sec.Declarations.Len() > 0 {
		p.warnf(reqLoc, "`require` after declarations in section %q", sec.Identifier)
	}
	for {
		name := p.consume(lexer.TOKEN_IDENT, "expected identifier after `require`")
		sec.Required.Append(name.Str)
		if p.cur.Kind != lexer.TOKEN_COMMA {
			break
		}
		p.advance()
	}
}

// parseDeclBlock parses a `global|static|manifest { … }` block, appending
// each entry as a Decl of the given kind (§4.6.2).
func (p *Parser) parseDeclBlock(sec *ast.Section, kind ast.DeclKind) {
	p.advance() // consume the block keyword
	p.consume(lexer.TOKEN_LBRACE, "expected `{` to open declaration block")
	for p.cur.Kind != lexer.TOKEN_RBRACE && p.cur.Kind != lexer.TOKEN_EOF {
		if p.cur.Kind == lexer.TOKEN_SEMICOLON {
			p.advance()
			continue
		}
		sec.Declarations.Append(p.parseVarDecl(kind))
	}
	p.consume(lexer.TOKEN_RBRACE, "expected `}` to close declaration block")
}

// parseVarDecl parses one `IDENT [ of TYPE ] = EXPR [ ; ]` entry.
func (p *Parser) parseVarDecl(kind ast.DeclKind) ast.Decl {
	loc := p.cur.Loc
	name := p.consume(lexer.TOKEN_IDENT, "expected identifier in declaration")

	declaredType := ast.TypeNotFound
	hasDeclaredType := false
	if p.cur.Kind == lexer.TOKEN_OF {
		p.advance()
		declaredType = p.parseTypeIdent()
		hasDeclaredType = true
	}

	p.consume(lexer.TOKEN_EQ, "expected `=` in declaration")
	init := p.parseExpression(precedenceLowest)

	switch {
	case hasDeclaredType && declaredType != init.ExprHeader().TypeIndex:
		init = p.wrapTypecast(init, declaredType)
	case !hasDeclaredType:
		declaredType = init.ExprHeader().TypeIndex
	}

	if p.cur.Kind == lexer.TOKEN_SEMICOLON {
		p.advance()
	}

	header := ast.DeclHeader{Kind: kind, Loc: loc, Identifier: name.Str, IsPublic: kind == ast.DeclGlobal}
	switch kind {
	case ast.DeclGlobal:
		return &ast.GlobalDecl{DeclHeader: header, TypeIndex: declaredType, Initializer: init}
	case ast.DeclStatic:
		return &ast.StaticDecl{DeclHeader: header, TypeIndex: declaredType, Initializer: init}
	default:
		return &ast.ManifestDecl{DeclHeader: header, TypeIndex: declaredType, Initializer: init}
	}
}

// parseFunctionDecl parses `(let|and) IDENT [ ( PARAM, ... ) ] (be STMT | =
// EXPR [;])` (§4.6.3). isAnd marks the declaration tail-call recursive.
func (p *Parser) parseFunctionDecl(isAnd bool) ast.Decl {
	loc := p.cur.Loc
	p.advance() // consume `let`/`and`
	name := p.consume(lexer.TOKEN_IDENT, "expected identifier after `let`/`and`")

	params := collections.NewList[ast.Parameter](0)
	requiredParams := 0
	if p.cur.Kind == lexer.TOKEN_LPAREN {
		p.advance()
		if p.cur.Kind != lexer.TOKEN_RPAREN {
			seenDefault := false
			for {
				param := p.parseParameter()
				switch {
				case param.Default == nil && seenDefault:
					p.defaultf(param.Loc, "default-less parameter %q follows a parameter with a default", param.Identifier)
				case param.Default == nil:
					requiredParams++
				default:
					seenDefault = true
				}
				params.Append(param)
				if p.cur.Kind != lexer.TOKEN_COMMA {
					break
				}
				p.advance()
			}
		}
		p.consume(lexer.TOKEN_RPAREN, "expected `)` to close parameter list")
	}

	decl := &ast.FunctionDecl{
		DeclHeader:     ast.DeclHeader{Kind: ast.DeclFunction, Loc: loc, Identifier: name.Str, IsPublic: true},
		Parameters:     params,
		RequiredParams: requiredParams,
		IsAnd:          isAnd,
	}

	switch p.cur.Kind {
	case lexer.TOKEN_BE:
		p.advance()
		decl.BodyStmt = p.parseStatement()
		decl.ReturnType = ast.BuiltinType(ast.UNIT)
	case lexer.TOKEN_EQ:
		p.advance()
		decl.BodyExpr = p.parseExpression(precedenceLowest)
		decl.ReturnType = decl.BodyExpr.ExprHeader().TypeIndex
		if p.cur.Kind == lexer.TOKEN_SEMICOLON {
			p.advance()
		}
	default:
		p.fatalf(p.cur.Loc, "unexpected token %s, expected `be` or `=` in function declaration", p.cur.Kind)
	}

	return decl
}

// parseParameter parses `IDENT [ of TYPE ] [ = EXPR ]` (§4.6.3).
func (p *Parser) parseParameter() ast.Parameter {
	loc := p.cur.Loc
	name := p.consume(lexer.TOKEN_IDENT, "expected parameter identifier")
	param := ast.Parameter{Loc: loc, Identifier: name.Str, TypeIndex: ast.TypeNotFound}

	hasType := false
	if p.cur.Kind == lexer.TOKEN_OF {
		p.advance()
		param.TypeIndex = p.parseTypeIdent()
		hasType = true
	}

	if p.cur.Kind == lexer.TOKEN_EQ {
		p.advance()
		def := p.parseExpression(precedenceLowest)
		switch {
		case hasType && param.TypeIndex != def.ExprHeader().TypeIndex:
			def = p.wrapTypecast(def, param.TypeIndex)
		case !hasType:
			param.TypeIndex = def.ExprHeader().TypeIndex
		}
		param.Default = def
	}

	if !hasType && param.Default == nil {
		p.defaultf(loc, "parameter %q has neither a declared type nor a default value", param.Identifier)
	}

	return param
}

// wrapTypecast wraps inner in a TypecastExpr targeting target, the cast
// node spec.md §4.7 calls for whenever a declared type differs from the
// inferred type of its initializer/default.
func (p *Parser) wrapTypecast(inner ast.Expr, target int) ast.Expr {
	return &ast.TypecastExpr{
		ExprHeaderFields: ast.ExprHeaderFields{
			Kind:      ast.ExprTypecast,
			Loc:       inner.ExprHeader().Loc,
			TypeIndex: target,
		},
		Inner: inner,
	}
}
