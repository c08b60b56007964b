// Package lexer provides lexical analysis for the BCPL-derived front end.
//
// Token Recognition:
//   - Keywords: true, false, let, and, valof, resultis, return, finish, skip,
//     repeat, break, if, unless, while, for, until, switchon, match, every,
//     case, default, do, to, by, of, be, section, require, global, manifest,
//     static, mod, abs, plus the reserved get
//   - Identifiers: maximal runs of letters/digits/underscore starting with a
//     letter
//   - Literals: integers (decimal, and #b/#o/#x/bare-#-prefixed binary,
//     octal, hex, with '_' digit separators), strings and chars (with *-escapes)
//   - Operators and punctuation: + - * / = ~= > >= < <= ~ ! ? @ -> := :: : , ;
//     . ( ) { } [ ]
//
// Comment Handling:
//   - Line comments starting with "//"
//   - Block comments delimited by /* */
//
// In-stream directives:
//   - $$tag toggles tag in the shared compile-time tag set
//   - $<tag / $~tag skip to the matching $>tag unless the tag is (present /
//     absent)
//
// Virtual tokens:
//   - A SEMICOLON is inserted between two tokens straddling a newline when
//     the first ends a command and the second may start one; only newlines
//     in the whitespace after the last comment before the second token count
//   - A DO is inserted between two tokens on the same line when the first
//     ends an expression and the second must start a command
//
// Error Handling:
//   - LEX_ERROR tokens carry a message and a location; the lexer does not
//     stop at the first one — the caller decides when to give up
package lexer
