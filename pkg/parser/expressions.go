package parser

import (
	"github.com/bcpl-lang/bcplc/internal/ast"
	"github.com/bcpl-lang/bcplc/pkg/lexer"
)

// parseExpression is the Pratt-parsing entry point (§4.6.5): a prefix
// parser produces an atom, then while the next token has a binding
// precedence strictly greater than precedence, an infix parser consumes
// it. With only LOWEST and CALL defined (see precedence.go), the loop in
// practice only ever continues for a directly-following `(`.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	left := p.parsePrefix()

	for precedence < p.curPrecedence() {
		left = p.parseInfix(left)
	}

	return left
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedenceMap[p.cur.Kind]; ok {
		return prec
	}
	return precedenceLowest
}

// parsePrefix dispatches on the current token's kind to one of the
// prefix productions spec.md §4.6.5 lists; anything else is a structural
// parse error (also covers §9's Open Question 3: statement-only keywords
// like `if`/`while` fall through to here and are rejected).
func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur.Kind {
	case lexer.TOKEN_INTEGER:
		return p.parseIntLit()
	case lexer.TOKEN_FLOAT:
		return p.parseFloatLit()
	case lexer.TOKEN_TRUE:
		return p.parseBoolLit(true)
	case lexer.TOKEN_FALSE:
		return p.parseBoolLit(false)
	case lexer.TOKEN_CHAR:
		return p.parseCharLit()
	case lexer.TOKEN_STRING:
		return p.parseStringLit()
	case lexer.TOKEN_IDENT:
		return p.parseIdent()
	case lexer.TOKEN_VALOF:
		return p.parseValof()
	case lexer.TOKEN_RESULTIS:
		// spec.md S5: a `= EXPR` function body can itself be a bare
		// `resultis EXPR`; outside any enclosing valof this still
		// raises the usual default diagnostic rather than failing to
		// parse.
		return p.parseResultisExpr()
	default:
		p.fatalf(p.cur.Loc, "unexpected token %s, expected an expression", p.cur.Kind)
		return nil
	}
}

// parseInfix dispatches on the current token's kind to the one infix
// production this core defines: function call.
func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	switch p.cur.Kind {
	case lexer.TOKEN_LPAREN:
		return p.parseCall(left)
	default:
		p.fatalf(p.cur.Loc, "no infix parse function for %s", p.cur.Kind)
		return nil
	}
}

// intLitType implements §3.7's integer-literal typing table.
func intLitType(v uint64) ast.Kind {
	switch {
	case v <= (1<<31)-1:
		return ast.INT32
	case v <= (1<<63)-1:
		return ast.INT64
	default:
		return ast.UINT64
	}
}

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.IntExpr{
		ExprHeaderFields: ast.ExprHeaderFields{
			Kind:      ast.ExprInt,
			Loc:       tok.Loc,
			TypeIndex: ast.BuiltinType(intLitType(tok.Int)),
		},
		Value: tok.Int,
	}
}

// parseFloatLit handles the TOKEN_FLOAT production spec.md §4.6.5 lists;
// the lexer never emits one today (§4.5.3: "Floating-point parsing is
// reserved"), so this is unreachable until that changes, at which point
// the token will need a float payload field to carry the parsed value.
func (p *Parser) parseFloatLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.FloatExpr{
		ExprHeaderFields: ast.ExprHeaderFields{
			Kind:      ast.ExprFloat,
			Loc:       tok.Loc,
			TypeIndex: ast.BuiltinType(ast.FLOAT64),
		},
	}
}

func (p *Parser) parseBoolLit(value bool) ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.BoolExpr{
		ExprHeaderFields: ast.ExprHeaderFields{
			Kind:      ast.ExprBool,
			Loc:       tok.Loc,
			TypeIndex: ast.BuiltinType(ast.BOOL),
		},
		Value: value,
	}
}

func (p *Parser) parseCharLit() ast.Expr {
	tok := p.cur
	p.advance()
	typeKind := ast.CHAR
	if tok.Wide {
		typeKind = ast.UINT16
	}
	return &ast.CharExpr{
		ExprHeaderFields: ast.ExprHeaderFields{
			Kind:      ast.ExprChar,
			Loc:       tok.Loc,
			TypeIndex: ast.BuiltinType(typeKind),
		},
		CodePoint: uint32(tok.Int),
		Wide:      tok.Wide,
	}
}

// parseStringLit leaves TypeIndex unset (TYPE_NOT_FOUND): spec.md §9
// explicitly defers assigning string literals a concrete type to a later
// pass.
func (p *Parser) parseStringLit() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.StringExpr{
		ExprHeaderFields: ast.ExprHeaderFields{Kind: ast.ExprString, Loc: tok.Loc, TypeIndex: ast.TypeNotFound},
		Value:            tok.Str,
	}
}

func (p *Parser) parseIdent() ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.IdentExpr{
		ExprHeaderFields: ast.ExprHeaderFields{Kind: ast.ExprIdent, Loc: tok.Loc, TypeIndex: ast.TypeNotFound},
		Name:             tok.Str,
	}
}

// parseValof parses `valof STMT`, tracking the enclosing valof pointer so
// nested `resultis` statements can type it (§4.6.5, §4.7.2).
func (p *Parser) parseValof() ast.Expr {
	loc := p.cur.Loc
	p.advance()

	node := &ast.ValofExpr{
		ExprHeaderFields: ast.ExprHeaderFields{Kind: ast.ExprValof, Loc: loc, TypeIndex: ast.TypeNotFound},
	}

	outer := p.currentValof
	p.currentValof = node
	node.Body = p.parseStatement()
	p.currentValof = outer

	return node
}

// parseResultisExpr parses `resultis EXPR` in expression position (S5: a
// function's `= EXPR` body may itself be a bare resultis). It shares
// resolveResultisValue with the statement form in statements.go, so the
// outside-valof diagnostic and the valof type-unification rule both apply
// identically regardless of which position produced it.
func (p *Parser) parseResultisExpr() ast.Expr {
	loc := p.cur.Loc
	p.advance()
	return p.resolveResultisValue(loc, p.parseExpression(precedenceLowest))
}

// parseCall parses `CALLEE ( ARG (, ARG)* )`.
func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	loc := p.cur.Loc
	p.advance() // consume `(`

	var args []ast.Expr
	if p.cur.Kind != lexer.TOKEN_RPAREN {
		for {
			args = append(args, p.parseExpression(precedenceLowest))
			if p.cur.Kind != lexer.TOKEN_COMMA {
				break
			}
			p.advance()
		}
	}
	p.consume(lexer.TOKEN_RPAREN, "expected `)` to close argument list")

	return &ast.CallExpr{
		ExprHeaderFields: ast.ExprHeaderFields{Kind: ast.ExprCall, Loc: loc, TypeIndex: ast.TypeNotFound},
		Callee:           callee,
		Args:             args,
	}
}
