package lexer

import (
	"fmt"

	"github.com/bcpl-lang/bcplc/pkg/diag"
)

// TokenKind classifies a lexical token. Only four kinds carry a payload
// (see Token below): INTEGER, IDENT/STRING, CHAR, and LEX_ERROR.
type TokenKind int

const (
	// Lexer signals.
	TOKEN_EOF TokenKind = iota
	TOKEN_ERROR

	// Literals.
	TOKEN_IDENT
	TOKEN_INTEGER
	TOKEN_FLOAT
	TOKEN_STRING
	TOKEN_CHAR

	// Punctuation.
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACE
	TOKEN_RBRACE
	TOKEN_LBRACKET
	TOKEN_RBRACKET
	TOKEN_SEMICOLON
	TOKEN_COMMA
	TOKEN_DOT
	TOKEN_COLON
	TOKEN_ASSIGN
	TOKEN_COND
	TOKEN_QMARK
	TOKEN_EMARK
	TOKEN_AT

	// Operators.
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_EQ
	TOKEN_NE
	TOKEN_GT
	TOKEN_GE
	TOKEN_LT
	TOKEN_LE
	TOKEN_NOT
	TOKEN_LOGAND
	TOKEN_LOGOR
	TOKEN_XOR
	TOKEN_LSHIFT
	TOKEN_RSHIFT

	// Keywords.
	TOKEN_TRUE
	TOKEN_FALSE
	TOKEN_LET
	TOKEN_AND
	TOKEN_VALOF
	TOKEN_RESULTIS
	TOKEN_RETURN
	TOKEN_FINISH
	TOKEN_SKIP
	TOKEN_REPEAT
	TOKEN_BREAK
	TOKEN_IF
	TOKEN_UNLESS
	TOKEN_WHILE
	TOKEN_FOR
	TOKEN_UNTIL
	TOKEN_SWITCHON
	TOKEN_MATCH
	TOKEN_EVERY
	TOKEN_CASE
	TOKEN_DEFAULT
	TOKEN_DO
	TOKEN_TO
	TOKEN_BY
	TOKEN_OF
	TOKEN_BE
	TOKEN_SECTION
	TOKEN_REQUIRE
	TOKEN_GLOBAL
	TOKEN_MANIFEST
	TOKEN_STATIC
	TOKEN_MOD
	TOKEN_ABS

	// Reserved but otherwise undocumented keyword (spec.md §6.2: "the
	// keyword table ... plus `get` (reserved; maps to a dedicated
	// token)"). Lexable, never produced by any parser grammar rule.
	TOKEN_GET
)

var tokenNames = map[TokenKind]string{
	TOKEN_EOF:       "LEX_EOF",
	TOKEN_ERROR:     "LEX_ERROR",
	TOKEN_IDENT:     "IDENT",
	TOKEN_INTEGER:   "INTEGER",
	TOKEN_FLOAT:     "FLOAT",
	TOKEN_STRING:    "STRING",
	TOKEN_CHAR:      "CHAR",
	TOKEN_LPAREN:    "LPAREN",
	TOKEN_RPAREN:    "RPAREN",
	TOKEN_LBRACE:    "LBRACE",
	TOKEN_RBRACE:    "RBRACE",
	TOKEN_LBRACKET:  "LBRACKET",
	TOKEN_RBRACKET:  "RBRACKET",
	TOKEN_SEMICOLON: "SEMICOLON",
	TOKEN_COMMA:     "COMMA",
	TOKEN_DOT:       "DOT",
	TOKEN_COLON:     "COLON",
	TOKEN_ASSIGN:    "ASSIGN",
	TOKEN_COND:      "COND",
	TOKEN_QMARK:     "QMARK",
	TOKEN_EMARK:     "EMARK",
	TOKEN_AT:        "AT",
	TOKEN_PLUS:      "PLUS",
	TOKEN_MINUS:     "MINUS",
	TOKEN_STAR:      "STAR",
	TOKEN_SLASH:     "SLASH",
	TOKEN_EQ:        "EQ",
	TOKEN_NE:        "NE",
	TOKEN_GT:        "GT",
	TOKEN_GE:        "GE",
	TOKEN_LT:        "LT",
	TOKEN_LE:        "LE",
	TOKEN_NOT:       "NOT",
	TOKEN_LOGAND:    "LOGAND",
	TOKEN_LOGOR:     "LOGOR",
	TOKEN_XOR:       "XOR",
	TOKEN_LSHIFT:    "LSHIFT",
	TOKEN_RSHIFT:    "RSHIFT",
	TOKEN_TRUE:      "TRUE",
	TOKEN_FALSE:     "FALSE",
	TOKEN_LET:       "LET",
	TOKEN_AND:       "AND",
	TOKEN_VALOF:     "VALOF",
	TOKEN_RESULTIS:  "RESULTIS",
	TOKEN_RETURN:    "RETURN",
	TOKEN_FINISH:    "FINISH",
	TOKEN_SKIP:      "SKIP",
	TOKEN_REPEAT:    "REPEAT",
	TOKEN_BREAK:     "BREAK",
	TOKEN_IF:        "IF",
	TOKEN_UNLESS:    "UNLESS",
	TOKEN_WHILE:     "WHILE",
	TOKEN_FOR:       "FOR",
	TOKEN_UNTIL:     "UNTIL",
	TOKEN_SWITCHON:  "SWITCHON",
	TOKEN_MATCH:     "MATCH",
	TOKEN_EVERY:     "EVERY",
	TOKEN_CASE:      "CASE",
	TOKEN_DEFAULT:   "DEFAULT",
	TOKEN_DO:        "DO",
	TOKEN_TO:        "TO",
	TOKEN_BY:        "BY",
	TOKEN_OF:        "OF",
	TOKEN_BE:        "BE",
	TOKEN_SECTION:   "SECTION",
	TOKEN_REQUIRE:   "REQUIRE",
	TOKEN_GLOBAL:    "GLOBAL",
	TOKEN_MANIFEST:  "MANIFEST",
	TOKEN_STATIC:    "STATIC",
	TOKEN_MOD:       "MOD",
	TOKEN_ABS:       "ABS",
	TOKEN_GET:       "GET",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// keywords is the fixed keyword table: the lowercase spelling of every
// keyword token kind, plus the reserved "get".
var keywords = map[string]TokenKind{
	"true":     TOKEN_TRUE,
	"false":    TOKEN_FALSE,
	"let":      TOKEN_LET,
	"and":      TOKEN_AND,
	"valof":    TOKEN_VALOF,
	"resultis": TOKEN_RESULTIS,
	"return":   TOKEN_RETURN,
	"finish":   TOKEN_FINISH,
	"skip":     TOKEN_SKIP,
	"repeat":   TOKEN_REPEAT,
	"break":    TOKEN_BREAK,
	"if":       TOKEN_IF,
	"unless":   TOKEN_UNLESS,
	"while":    TOKEN_WHILE,
	"for":      TOKEN_FOR,
	"until":    TOKEN_UNTIL,
	"switchon": TOKEN_SWITCHON,
	"match":    TOKEN_MATCH,
	"every":    TOKEN_EVERY,
	"case":     TOKEN_CASE,
	"default":  TOKEN_DEFAULT,
	"do":       TOKEN_DO,
	"to":       TOKEN_TO,
	"by":       TOKEN_BY,
	"of":       TOKEN_OF,
	"be":       TOKEN_BE,
	"section":  TOKEN_SECTION,
	"require":  TOKEN_REQUIRE,
	"global":   TOKEN_GLOBAL,
	"manifest": TOKEN_MANIFEST,
	"static":   TOKEN_STATIC,
	"mod":      TOKEN_MOD,
	"abs":      TOKEN_ABS,
	"get":      TOKEN_GET,
}

// lookupKeyword returns the keyword token kind for word, or (TOKEN_IDENT,
// false) if word is not a reserved word.
func lookupKeyword(word string) (TokenKind, bool) {
	k, ok := keywords[word]
	if !ok {
		return TOKEN_IDENT, false
	}
	return k, true
}

// Token is a single lexical unit: a kind, its source location, and
// whichever payload field its kind uses.
//
//   - TOKEN_INTEGER uses Int.
//   - TOKEN_IDENT and TOKEN_STRING use Str.
//   - TOKEN_CHAR uses Int (the code point) and Wide.
//   - TOKEN_ERROR uses Str (the diagnostic message).
type Token struct {
	Kind TokenKind
	Loc  diag.Location
	Int  uint64
	Str  string
	Wide bool
}

func (t Token) String() string {
	switch t.Kind {
	case TOKEN_IDENT, TOKEN_STRING:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Str)
	case TOKEN_INTEGER:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Int)
	case TOKEN_CHAR:
		return fmt.Sprintf("%s(%d,wide=%v)", t.Kind, t.Int, t.Wide)
	case TOKEN_ERROR:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Str)
	default:
		return t.Kind.String()
	}
}

// ---------------------------------------------------------------------
// §6.3 virtual-token classifier sets.
// ---------------------------------------------------------------------

// EndsCommand reports whether kind can be the last token of a statement,
// making it eligible to trigger virtual-semicolon insertion.
func EndsCommand(kind TokenKind) bool {
	switch kind {
	case TOKEN_BREAK, TOKEN_RETURN, TOKEN_FINISH, TOKEN_REPEAT,
		TOKEN_RPAREN, TOKEN_RBRACE, TOKEN_RBRACKET,
		TOKEN_IDENT, TOKEN_INTEGER, TOKEN_STRING,
		TOKEN_TRUE, TOKEN_FALSE, TOKEN_FLOAT, TOKEN_CHAR:
		return true
	default:
		return false
	}
}

// MayStartCommand reports whether kind can open a new statement, the other
// half of the virtual-semicolon trigger.
func MayStartCommand(kind TokenKind) bool {
	switch kind {
	case TOKEN_FOR, TOKEN_IF, TOKEN_UNLESS, TOKEN_UNTIL, TOKEN_WHILE,
		TOKEN_RESULTIS, TOKEN_CASE, TOKEN_DEFAULT,
		TOKEN_BREAK, TOKEN_RETURN, TOKEN_FINISH,
		TOKEN_LBRACE, TOKEN_LPAREN, TOKEN_VALOF, TOKEN_IDENT:
		return true
	default:
		return false
	}
}

// EndsExpression reports whether kind can be the last token of an
// expression, making it eligible to trigger virtual-do insertion.
func EndsExpression(kind TokenKind) bool {
	switch kind {
	case TOKEN_RPAREN, TOKEN_RBRACE, TOKEN_RBRACKET, TOKEN_IDENT,
		TOKEN_INTEGER, TOKEN_FLOAT, TOKEN_STRING, TOKEN_TRUE, TOKEN_FALSE:
		return true
	default:
		return false
	}
}

// MustStartCommand reports whether kind can only ever open a statement,
// the other half of the virtual-do trigger.
func MustStartCommand(kind TokenKind) bool {
	switch kind {
	case TOKEN_FOR, TOKEN_IF, TOKEN_UNLESS, TOKEN_UNTIL, TOKEN_WHILE,
		TOKEN_RESULTIS, TOKEN_CASE, TOKEN_DEFAULT,
		TOKEN_BREAK, TOKEN_RETURN, TOKEN_FINISH:
		return true
	default:
		return false
	}
}
