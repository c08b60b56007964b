package parser

import "github.com/bcpl-lang/bcplc/pkg/lexer"

// Precedence levels. spec.md §4.6.5/§9 defines binding power only for the
// lowest level and function-call application; every other operator token
// the lexer produces is "reserved" (lexable, not wired into an infix
// production) until a later pass grows this table.
const (
	precedenceLowest = iota
	precedenceCall   // CALLEE ( ARG, ... )
)

// precedenceMap maps a token kind to its infix binding power. Only LPAREN
// has an entry; any other token simply terminates the current expression.
var precedenceMap = map[lexer.TokenKind]int{
	lexer.TOKEN_LPAREN: precedenceCall,
}
