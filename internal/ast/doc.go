// Package ast's sum types follow the teacher's interface-plus-marker-method
// pattern: Decl, Expr, and Stmt are each a closed interface implemented by
// a fixed set of concrete node structs, with an unexported marker method
// (declNode/exprNode/stmtNode) preventing external packages from adding new
// variants, and a header accessor (Header/ExprHeader/StmtHeader) exposing
// the fields every variant shares (Kind and source Location; for Decl also
// the identifier and visibility, for Expr also a type index into the
// owning Program's type table).
//
// Node categories:
//
// Declarations (Decl):
//   - GlobalDecl, StaticDecl, ManifestDecl: IDENT [ of TYPE ] = EXPR
//   - FunctionDecl: let/and IDENT ( PARAM* ) (be STMT | = EXPR)
//
// Expressions (Expr):
//   - IntExpr, FloatExpr, CharExpr, StringExpr, BoolExpr: literals
//   - IdentExpr: a name reference
//   - TypecastExpr: an inference-inserted cast to a declared type
//   - ValofExpr: valof STMT, typed by its resultis statements
//   - CallExpr: CALLEE ( ARG* )
//
// Statements (Stmt):
//   - ExprStmt, BlockStmt, ResultisStmt
package ast
