package parser

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bcpl-lang/bcplc/internal/ast"
	"github.com/bcpl-lang/bcplc/pkg/diag"
	"github.com/bcpl-lang/bcplc/pkg/lexer"
	"github.com/bcpl-lang/bcplc/pkg/source"
	"github.com/bcpl-lang/bcplc/pkg/tags"
)

// Parser implements a recursive-descent, one-token-lookahead parser over a
// single source file, building an *ast.Program incrementally as it
// recognizes sections, declarations, statements, and expressions.
type Parser struct {
	source *source.File
	lex    *lexer.Lexer
	cur    lexer.Token
	prev   lexer.Token

	program *ast.Program
	errors  *ParseErrors
	diags   *diag.Sink

	// currentValof tracks the innermost enclosing valof expression so
	// `resultis` can type it (§4.6.6, §4.7.2); nil outside any valof body.
	currentValof *ast.ValofExpr
}

// New creates a parser over src, sharing tagSet with every other file in
// the compilation (spec.md §5: the only state shared across files) and
// accumulating diagnostics into the ParseErrors returned by Errors. New
// does not touch the lexer: the first token is fetched by Parse, so that
// even a file whose very first token is a lex error surfaces as Parse's
// returned error rather than panicking out of New (spec.md §9: "fatal
// diagnostics surface to the top-level driver as a typed error").
func New(src *source.File, tagSet *tags.Set, diags *diag.Sink, log *zap.Logger) *Parser {
	return &Parser{
		source:  src,
		lex:     lexer.New(src, tagSet, log),
		prev:    lexer.Token{Kind: lexer.TOKEN_EOF},
		program: ast.NewProgram(),
		errors:  &ParseErrors{},
		diags:   diags,
	}
}

// parseAbort unwinds the parse on the first fatal diagnostic. No local
// recovery is attempted (spec.md §7: "the first fatal error ends
// compilation"), so every parse function simply lets it propagate.
type parseAbort struct{ err error }

// Parse drives the parser to completion, returning the constructed program
// or the first fatal diagnostic's error. The initial token fetch happens
// here, inside the recover scope, so a file whose first token is itself a
// lex error aborts the same way any later fatal diagnostic does.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			ab, ok := r.(parseAbort)
			if !ok {
				panic(r)
			}
			err = ab.err
		}
	}()

	p.cur = p.nextToken()
	for p.cur.Kind != lexer.TOKEN_EOF {
		p.parseSection()
	}
	return p.program, nil
}

// Errors returns every diagnostic accumulated while parsing, including the
// fatal one that ended the parse, if any.
func (p *Parser) Errors() *ParseErrors { return p.errors }

// nextToken pulls the next token from the lexer, threading prev exactly as
// the virtual-token insertion algorithm requires.
func (p *Parser) nextToken() lexer.Token {
	tok := p.lex.Next(p.prev)
	if tok.Kind == lexer.TOKEN_ERROR {
		p.fatalf(tok.Loc, "%s", tok.Str)
	}
	return tok
}

// advance shifts the one-token lookahead window forward by one position.
func (p *Parser) advance() {
	p.prev = p.cur
	p.cur = p.nextToken()
}

// consume asserts that cur has the expected kind, advances past it, and
// returns the consumed token. A mismatch is a fatal structural error.
func (p *Parser) consume(expected lexer.TokenKind, message string) lexer.Token {
	if p.cur.Kind != expected {
		if p.cur.Kind == lexer.TOKEN_EOF {
			p.fatalf(p.cur.Loc, "unexpected end of file, %s", message)
		} else {
			p.fatalf(p.cur.Loc, "unexpected token %s, %s", p.cur.Kind, message)
		}
	}
	tok := p.cur
	p.advance()
	return tok
}

// fatalf raises a fatal diagnostic and aborts the parse (spec.md §7).
func (p *Parser) fatalf(loc diag.Location, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	err := p.diags.Emit(diag.Fatal, loc, "%s", msg)
	p.errors.Add(diag.Fatal, loc, msg)
	panic(parseAbort{err: err})
}

// warnf raises a non-fatal warning diagnostic (e.g. `require` after
// declarations) and continues parsing.
func (p *Parser) warnf(loc diag.Location, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.diags.Emit(diag.Warning, loc, "%s", msg)
	p.errors.Add(diag.Warning, loc, msg)
}

// defaultf raises a non-fatal "semantic default" diagnostic (e.g. an
// undefined type name): parsing continues with best-effort AST state.
func (p *Parser) defaultf(loc diag.Location, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.diags.Emit(diag.Default, loc, "%s", msg)
	p.errors.Add(diag.Default, loc, msg)
}
