package parser

import (
	"github.com/bcpl-lang/bcplc/internal/ast"
	"github.com/bcpl-lang/bcplc/pkg/diag"
	"github.com/bcpl-lang/bcplc/pkg/lexer"
)

// parseStatement recognizes a block, a `resultis`, or falls through to an
// expression statement (§4.6.6).
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case lexer.TOKEN_LBRACE:
		return p.parseBlock()
	case lexer.TOKEN_RESULTIS:
		return p.parseResultis()
	default:
		return p.parseExprStatement()
	}
}

// parseBlock parses `{ STMT* }`.
func (p *Parser) parseBlock() ast.Stmt {
	loc := p.cur.Loc
	p.consume(lexer.TOKEN_LBRACE, "expected `{`")

	var stmts []ast.Stmt
	for p.cur.Kind != lexer.TOKEN_RBRACE && p.cur.Kind != lexer.TOKEN_EOF {
		if p.cur.Kind == lexer.TOKEN_SEMICOLON {
			p.advance()
			continue
		}
		stmts = append(stmts, p.parseStatement())
	}
	p.consume(lexer.TOKEN_RBRACE, "expected `}` to close block")

	return &ast.BlockStmt{
		StmtHeaderFields: ast.StmtHeaderFields{Kind: ast.StmtBlock, Loc: loc},
		Statements:       stmts,
	}
}

// parseResultis parses `resultis EXPR [;]`. Outside a valof this is a
// semantic default diagnostic (the statement is still emitted); inside
// one, the first resultis fixes the valof's type and every later one is
// wrapped in a typecast to match it (§4.7.2).
func (p *Parser) parseResultis() ast.Stmt {
	loc := p.cur.Loc
	p.advance()
	value := p.resolveResultisValue(loc, p.parseExpression(precedenceLowest))

	if p.cur.Kind == lexer.TOKEN_SEMICOLON {
		p.advance()
	}

	return &ast.ResultisStmt{
		StmtHeaderFields: ast.StmtHeaderFields{Kind: ast.StmtResultis, Loc: loc},
		Value:            value,
	}
}

// resolveResultisValue applies §4.7.2's unification rule to one resultis
// value: the first resultis seen inside a valof fixes its type, later ones
// are wrapped in a typecast to match; outside any valof it raises the
// default diagnostic spec.md §7/S5 calls for.
func (p *Parser) resolveResultisValue(loc diag.Location, value ast.Expr) ast.Expr {
	if p.currentValof == nil {
		p.defaultf(loc, "encountered `resultis` statement outside of `valof` expression")
		return value
	}
	header := p.currentValof.ExprHeader()
	switch {
	case header.TypeIndex == ast.TypeNotFound:
		p.currentValof.TypeIndex = value.ExprHeader().TypeIndex
	case header.TypeIndex != value.ExprHeader().TypeIndex:
		value = p.wrapTypecast(value, header.TypeIndex)
	}
	return value
}

// parseExprStatement parses a bare expression used for effect, optionally
// followed by a `;`.
func (p *Parser) parseExprStatement() ast.Stmt {
	loc := p.cur.Loc
	value := p.parseExpression(precedenceLowest)
	if p.cur.Kind == lexer.TOKEN_SEMICOLON {
		p.advance()
	}
	return &ast.ExprStmt{
		StmtHeaderFields: ast.StmtHeaderFields{Kind: ast.StmtExpr, Loc: loc},
		Value:            value,
	}
}
