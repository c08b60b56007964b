// Package parser implements a recursive-descent, one-token-lookahead
// parser over the lexer's token stream, building an *ast.Program and
// performing on-the-fly type inference as it goes.
//
// Grammar (§4.6):
//
// A file is a sequence of sections:
//
//	section <IDENT>
//	  require <IDENT> (, <IDENT>)*
//	  global { IDENT [ of TYPE ] = EXPR [;] ... }
//	  static { ... }
//	  manifest { ... }
//	  let IDENT [ ( PARAM (, PARAM)* ) ] (be STMT | = EXPR [;])
//	  and IDENT ...   // same as `let`, but tailcall_recursive
//
// Expressions are parsed Pratt-style, but this core binds only two
// precedence levels: LOWEST and CALL (see precedence.go). The prefix
// productions are integer/float/boolean/char/string/identifier literals,
// `valof STMT`, and `resultis EXPR`; the sole infix production is function
// call, `CALLEE ( ARG (, ARG)* )`. Every other operator token the lexer
// recognizes is reserved — using one infix raises a parse diagnostic.
//
// Statements are blocks `{ STMT* }`, `resultis EXPR [;]`, and bare
// expression statements. `resultis` also parses in expression position, so
// a function's `= EXPR` body may itself be a bare `resultis EXPR` (a
// function with no intervening `valof`); either form outside an enclosing
// `valof` is legal syntax but records a default diagnostic.
//
// Type inference (§4.7) happens inline: integer literals are typed by
// the range table in §3.7, a declared type that differs from an
// initializer's inferred type wraps the initializer in a TypecastExpr,
// and the first `resultis` inside a `valof` fixes that valof's type for
// every later `resultis` in its body.
//
// Error handling (§7): a mismatched `consume` or an unrecognized prefix/
// infix token raises a fatal diagnostic that unwinds the parse
// immediately — there is no statement-level recovery. Semantic issues
// (`require` after declarations, an unknown type name, a parameter with
// neither a type nor a default, `resultis` outside `valof`) are recorded
// as warnings/defaults and parsing continues.
package parser
