// Package ast defines the BCPL front end's abstract syntax tree: a program
// owning an ordered list of sections and a type table, declarations keyed
// off a common header, and the Expr/Stmt sum types used throughout parsing
// and type inference.
package ast

import (
	"github.com/bcpl-lang/bcplc/internal/collections"
	"github.com/bcpl-lang/bcplc/pkg/diag"
)

// Program is the root of one compiled file: an ordered list of sections and
// the type table every type_index in the tree refers into.
type Program struct {
	Sections *collections.List[*Section]
	Types    *collections.List[Type]
}

// NewProgram creates an empty program with its type table seeded with the
// BCPL primitive types in the fixed order from spec.md §3.4.
func NewProgram() *Program {
	p := &Program{
		Sections: collections.NewList[*Section](0),
		Types:    collections.NewList[Type](len(primitiveTypes)),
	}
	for _, t := range primitiveTypes {
		p.Types.Append(t)
	}
	return p
}

// Section is a top-level unit of declarations: an identifier, the section
// names it requires, and its ordered declarations.
type Section struct {
	Loc          diag.Location
	Identifier   string
	Required     *collections.List[string]
	Declarations *collections.List[Decl]
}

// NewSection creates an empty section.
func NewSection(loc diag.Location, identifier string) *Section {
	return &Section{
		Loc:          loc,
		Identifier:   identifier,
		Required:     collections.NewList[string](0),
		Declarations: collections.NewList[Decl](0),
	}
}

// ---------------------------------------------------------------------
// Types (§3.4)
// ---------------------------------------------------------------------

// Kind classifies a Type.
type Kind int

const (
	UINT8 Kind = iota
	UINT16
	UINT32
	UINT64
	INT8
	INT16
	INT32
	INT64
	FLOAT32
	FLOAT64
	BOOL
	CHAR
	UNIT

	// Non-primitive placeholder kinds. Neither has an entry in the seeded
	// type table, and Type carries no pointee or element field for them;
	// they are numbered after the primitives so the primitive numbering
	// stays fixed.
	POINTER
	ARRAY
)

// Type is one entry in a program's type table.
type Type struct {
	Kind Kind
	Name string
	Size int
}

// TypeNotFound is the reserved index 0: "unknown/absent" type.
const TypeNotFound = 0

// primitiveTypes is the fixed seed order from spec.md §3.4. Index 0 is
// TypeNotFound; the real primitives start at index 1.
var primitiveTypes = []Type{
	{Kind: -1, Name: "<unknown>", Size: 0}, // TypeNotFound
	{Kind: UINT8, Name: "UInt8", Size: 1},
	{Kind: UINT16, Name: "UInt16", Size: 2},
	{Kind: UINT32, Name: "UInt", Size: 4},
	{Kind: UINT64, Name: "UInt64", Size: 8},
	{Kind: INT8, Name: "Int8", Size: 1},
	{Kind: INT16, Name: "Int16", Size: 2},
	{Kind: INT32, Name: "Int", Size: 4},
	{Kind: INT64, Name: "Int64", Size: 8},
	{Kind: FLOAT32, Name: "Float", Size: 4},
	{Kind: FLOAT64, Name: "Float64", Size: 8},
	{Kind: BOOL, Name: "Bool", Size: 1},
	{Kind: CHAR, Name: "Char", Size: 1},
	{Kind: UNIT, Name: "Unit", Size: 1},
}

// builtinIndex maps a primitive Kind to its fixed index in primitiveTypes.
var builtinIndex = func() map[Kind]int {
	m := make(map[Kind]int, len(primitiveTypes))
	for i, t := range primitiveTypes {
		if i == TypeNotFound {
			continue
		}
		m[t.Kind] = i
	}
	return m
}()

// LookupType returns the type record at index, or false if index is outside
// the table. TypeNotFound (0) is inside the table and yields the "<unknown>"
// placeholder record.
func LookupType(p *Program, index int) (Type, bool) {
	if index < 0 || index >= p.Types.Len() {
		return Type{}, false
	}
	return p.Types.At(index), true
}

// BuiltinType returns the type-table index of the primitive of kind k.
// Panics if k is not a seeded primitive kind; callers pass only constants
// from this package.
func BuiltinType(k Kind) int {
	idx, ok := builtinIndex[k]
	if !ok {
		panic("ast: not a builtin primitive kind")
	}
	return idx
}

// ---------------------------------------------------------------------
// Declarations (§3.6)
// ---------------------------------------------------------------------

// DeclKind distinguishes the four declaration variants.
type DeclKind int

const (
	DeclGlobal DeclKind = iota
	DeclStatic
	DeclManifest
	DeclFunction
)

// Decl is the sum type of top-level declarations, implemented by
// *GlobalDecl, *StaticDecl, *ManifestDecl, and *FunctionDecl.
type Decl interface {
	declNode()
	Header() DeclHeader
}

// DeclHeader is the field set common to every declaration variant.
type DeclHeader struct {
	Kind       DeclKind
	Loc        diag.Location
	Identifier string
	IsPublic   bool
}

// GlobalDecl is a `global` declaration: visible across sections by default.
type GlobalDecl struct {
	DeclHeader
	TypeIndex   int
	Initializer Expr
}

func (d *GlobalDecl) declNode() {}
func (d *GlobalDecl) Header() DeclHeader { return d.DeclHeader }

// StaticDecl is a `static` declaration: private to its section.
type StaticDecl struct {
	DeclHeader
	TypeIndex   int
	Initializer Expr
}

func (d *StaticDecl) declNode() {}
func (d *StaticDecl) Header() DeclHeader { return d.DeclHeader }

// ManifestDecl is a `manifest` compile-time constant: private to its
// section.
type ManifestDecl struct {
	DeclHeader
	TypeIndex   int
	Initializer Expr
}

func (d *ManifestDecl) declNode() {}
func (d *ManifestDecl) Header() DeclHeader { return d.DeclHeader }

// Parameter is one entry in a function's parameter list.
type Parameter struct {
	Loc        diag.Location
	Identifier string
	TypeIndex  int
	Default    Expr // nil when the parameter has no default
}

// FunctionDecl is a `let`/`and` function declaration.
type FunctionDecl struct {
	DeclHeader
	Parameters     *collections.List[Parameter]
	RequiredParams int
	ReturnType     int
	IsAnd          bool // introduced by `and` rather than `let`
	BodyStmt       Stmt // non-nil when the body is a statement
	BodyExpr       Expr // non-nil when the body is a single expression
}

func (d *FunctionDecl) declNode() {}
func (d *FunctionDecl) Header() DeclHeader { return d.DeclHeader }

// ---------------------------------------------------------------------
// Expressions (§3.7)
// ---------------------------------------------------------------------

// ExprKind distinguishes the Expr variants.
type ExprKind int

const (
	ExprInt ExprKind = iota
	ExprFloat
	ExprChar
	ExprString
	ExprBool
	ExprIdent
	ExprTypecast
	ExprValof
	ExprCall
)

// Expr is the sum type of expressions, implemented by *IntExpr, *FloatExpr,
// *CharExpr, *StringExpr, *BoolExpr, *IdentExpr, *TypecastExpr, *ValofExpr,
// and *CallExpr.
type Expr interface {
	exprNode()
	ExprHeader() ExprHeaderFields
}

// ExprHeaderFields is the field set common to every expression variant.
type ExprHeaderFields struct {
	Kind      ExprKind
	Loc       diag.Location
	TypeIndex int
}

// IntExpr is an integer literal.
type IntExpr struct {
	ExprHeaderFields
	Value uint64
}

func (e *IntExpr) exprNode() {}
func (e *IntExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// FloatExpr is a floating-point literal.
type FloatExpr struct {
	ExprHeaderFields
	Value float64
}

func (e *FloatExpr) exprNode() {}
func (e *FloatExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// CharExpr is a character literal.
type CharExpr struct {
	ExprHeaderFields
	CodePoint uint32
	Wide      bool
}

func (e *CharExpr) exprNode() {}
func (e *CharExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// StringExpr is a string literal.
type StringExpr struct {
	ExprHeaderFields
	Value string
}

func (e *StringExpr) exprNode() {}
func (e *StringExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// BoolExpr is a `true`/`false` literal.
type BoolExpr struct {
	ExprHeaderFields
	Value bool
}

func (e *BoolExpr) exprNode() {}
func (e *BoolExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// IdentExpr is a reference to a named declaration or parameter.
type IdentExpr struct {
	ExprHeaderFields
	Name string
}

func (e *IdentExpr) exprNode() {}
func (e *IdentExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// TypecastExpr wraps Inner with an implicit coercion to TypeIndex, inserted
// by the parser's type-inference pass rather than written by the user.
type TypecastExpr struct {
	ExprHeaderFields
	Inner Expr
}

func (e *TypecastExpr) exprNode() {}
func (e *TypecastExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// ValofExpr is a `valof` expression; its type is the unified type of the
// `resultis` expressions inside Body (see §4.7.2).
type ValofExpr struct {
	ExprHeaderFields
	Body Stmt
}

func (e *ValofExpr) exprNode() {}
func (e *ValofExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// CallExpr is a function call.
type CallExpr struct {
	ExprHeaderFields
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) exprNode() {}
func (e *CallExpr) ExprHeader() ExprHeaderFields { return e.ExprHeaderFields }

// ---------------------------------------------------------------------
// Statements (§3.8)
// ---------------------------------------------------------------------

// StmtKind distinguishes the Stmt variants.
type StmtKind int

const (
	StmtExpr StmtKind = iota
	StmtBlock
	StmtResultis
)

// Stmt is the sum type of statements, implemented by *ExprStmt, *BlockStmt,
// and *ResultisStmt.
type Stmt interface {
	stmtNode()
	StmtHeader() StmtHeaderFields
}

// StmtHeaderFields is the field set common to every statement variant.
type StmtHeaderFields struct {
	Kind StmtKind
	Loc  diag.Location
}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	StmtHeaderFields
	Value Expr
}

func (s *ExprStmt) stmtNode() {}
func (s *ExprStmt) StmtHeader() StmtHeaderFields { return s.StmtHeaderFields }

// BlockStmt is an ordered sequence of statements.
type BlockStmt struct {
	StmtHeaderFields
	Statements []Stmt
}

func (s *BlockStmt) stmtNode() {}
func (s *BlockStmt) StmtHeader() StmtHeaderFields { return s.StmtHeaderFields }

// ResultisStmt yields Value from the innermost enclosing `valof`. Outside
// one it is still emitted (the parser records a default diagnostic rather
// than rejecting it; see pkg/parser).
type ResultisStmt struct {
	StmtHeaderFields
	Value Expr
}

func (s *ResultisStmt) stmtNode() {}
func (s *ResultisStmt) StmtHeader() StmtHeaderFields { return s.StmtHeaderFields }
