package parser

import (
	"github.com/bcpl-lang/bcplc/internal/ast"
	"github.com/bcpl-lang/bcplc/pkg/lexer"
)

// primitiveTypeNames maps a type identifier's spelling to its primitive
// Kind, per the fixed name column in spec.md §3.4.
var primitiveTypeNames = map[string]ast.Kind{
	"UInt8":   ast.UINT8,
	"UInt16":  ast.UINT16,
	"UInt":    ast.UINT32,
	"UInt64":  ast.UINT64,
	"Int8":    ast.INT8,
	"Int16":   ast.INT16,
	"Int":     ast.INT32,
	"Int64":   ast.INT64,
	"Float":   ast.FLOAT32,
	"Float64": ast.FLOAT64,
	"Bool":    ast.BOOL,
	"Char":    ast.CHAR,
	"Unit":    ast.UNIT,
}

// parseTypeIdent parses an identifier type (§4.6.4): only identifier types
// exist in this core, so an unrecognized spelling is a semantic default
// rather than a structural error — the declaration is still emitted with
// TYPE_NOT_FOUND.
func (p *Parser) parseTypeIdent() int {
	tok := p.consume(lexer.TOKEN_IDENT, "expected a type identifier")
	if kind, ok := primitiveTypeNames[tok.Str]; ok {
		return ast.BuiltinType(kind)
	}
	p.defaultf(tok.Loc, "unknown type %q", tok.Str)
	return ast.TypeNotFound
}
