package parser

import (
	"testing"

	"github.com/bcpl-lang/bcplc/internal/ast"
	"github.com/bcpl-lang/bcplc/pkg/diag"
	"github.com/bcpl-lang/bcplc/pkg/source"
	"github.com/bcpl-lang/bcplc/pkg/tags"
)

func parseSrc(t *testing.T, src string) (*ast.Program, *Parser) {
	t.Helper()
	f := source.New("test.bpp", []byte(src))
	p := New(f, tags.New(), diag.NewSink(nil), nil)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	return prog, p
}

func TestParseEmptySection(t *testing.T) {
	prog, _ := parseSrc(t, "section demo")
	if prog.Sections.Len() != 1 {
		t.Fatalf("got %d sections, want 1", prog.Sections.Len())
	}
	if prog.Sections.At(0).Identifier != "demo" {
		t.Errorf("got %q, want demo", prog.Sections.At(0).Identifier)
	}
}

func TestParseRequire(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nrequire a, b")
	sec := prog.Sections.At(0)
	if sec.Required.Len() != 2 || sec.Required.At(0) != "a" || sec.Required.At(1) != "b" {
		t.Errorf("got %v, want [a b]", sec.Required.Items())
	}
}

func TestRequireAfterDeclarationsWarns(t *testing.T) {
	_, p := parseSrc(t, "section demo\nmanifest { x = 1 }\nrequire a")
	found := false
	for _, e := range p.Errors().Errors() {
		if e.Severity == diag.Warning {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for `require` after declarations")
	}
}

// S3: integer-literal typing.
func TestIntegerLiteralTyping(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nmanifest { x = 5; y = 3000000000; z = 10000000000000000000 }")
	sec := prog.Sections.At(0)
	if sec.Declarations.Len() != 3 {
		t.Fatalf("got %d declarations, want 3", sec.Declarations.Len())
	}
	want := []ast.Kind{ast.INT32, ast.INT64, ast.UINT64}
	for i, w := range want {
		d := sec.Declarations.At(i).(*ast.ManifestDecl)
		ty, ok := ast.LookupType(prog, d.TypeIndex)
		if !ok {
			t.Fatalf("decl %d: type index %d not found", i, d.TypeIndex)
		}
		if ty.Kind != w {
			t.Errorf("decl %d (%s): got kind %v, want %v", i, d.Identifier, ty.Kind, w)
		}
	}
}

// S4: implicit cast on declaration.
func TestImplicitCastOnDeclaration(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nmanifest { x of Int64 = 5 }")
	d := prog.Sections.At(0).Declarations.At(0).(*ast.ManifestDecl)
	cast, ok := d.Initializer.(*ast.TypecastExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.TypecastExpr", d.Initializer)
	}
	if cast.TypeIndex != ast.BuiltinType(ast.INT64) {
		t.Errorf("cast targets type %d, want Int64", cast.TypeIndex)
	}
	inner, ok := cast.Inner.(*ast.IntExpr)
	if !ok {
		t.Fatalf("cast wraps %T, want *ast.IntExpr", cast.Inner)
	}
	if inner.ExprHeader().TypeIndex != ast.BuiltinType(ast.INT32) {
		t.Errorf("inner literal type %d, want Int32", inner.ExprHeader().TypeIndex)
	}
}

func TestResultisInsideValofProducesNoDiagnostic(t *testing.T) {
	_, p := parseSrc(t, "section demo\nlet f() = valof { resultis 1 }\nlet g() = valof { resultis 2 }")
	// both f and g's bodies type independently; no diagnostics expected.
	if p.Errors().HasErrors() {
		t.Errorf("unexpected diagnostics: %v", p.Errors().Errors())
	}
}

// S5: a function body can be a bare `resultis EXPR` with no enclosing
// valof; this is legal syntax but raises a default diagnostic.
func TestResultisAsBareFunctionBodyIsDefaultDiagnostic(t *testing.T) {
	prog, p := parseSrc(t, "section demo\nlet f() = valof { resultis 1 }\nlet g() = resultis 2")
	g := prog.Sections.At(0).Declarations.At(1).(*ast.FunctionDecl)
	if _, ok := g.BodyExpr.(*ast.IntExpr); !ok {
		t.Fatalf("got body %T, want *ast.IntExpr", g.BodyExpr)
	}
	found := false
	for _, e := range p.Errors().Errors() {
		if e.Severity == diag.Default {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a default diagnostic for `resultis` outside `valof`")
	}
}

func TestResultisSecondSameTypeHasNoTypecast(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nlet f() = valof { resultis 1; resultis 2 }")
	fn := prog.Sections.At(0).Declarations.At(0).(*ast.FunctionDecl)
	body := fn.BodyExpr.(*ast.ValofExpr).Body.(*ast.BlockStmt)
	if len(body.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(body.Statements))
	}
	second := body.Statements[1].(*ast.ResultisStmt)
	if _, ok := second.Value.(*ast.IntExpr); !ok {
		t.Errorf("second resultis value is same-typed, expected no cast wrapper, got %T", second.Value)
	}
}

func TestFunctionDeclarationWithParameters(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nlet add(a, b = 1) = a")
	fn := prog.Sections.At(0).Declarations.At(0).(*ast.FunctionDecl)
	if fn.Parameters.Len() != 2 {
		t.Fatalf("got %d parameters, want 2", fn.Parameters.Len())
	}
	if fn.RequiredParams != 1 {
		t.Errorf("got %d required params, want 1", fn.RequiredParams)
	}
	if fn.Parameters.At(1).Default == nil {
		t.Errorf("expected parameter b to carry a default expression")
	}
}

// P8 / default-less-after-default diagnostic.
func TestDefaultlessParameterAfterDefaultIsDefaultDiagnostic(t *testing.T) {
	_, p := parseSrc(t, "section demo\nlet add(a = 1, b) = a")
	found := false
	for _, e := range p.Errors().Errors() {
		if e.Severity == diag.Default {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a default diagnostic for a default-less parameter after one with a default")
	}
}

func TestAndIntroducesTailcallRecursiveFunction(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nlet f() = 1\nand g() = 2")
	g := prog.Sections.At(0).Declarations.At(1).(*ast.FunctionDecl)
	if !g.IsAnd {
		t.Errorf("expected g's declaration to be marked IsAnd")
	}
}

func TestFunctionCallExpression(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nlet f() = g(1, 2)")
	fn := prog.Sections.At(0).Declarations.At(0).(*ast.FunctionDecl)
	call := fn.BodyExpr.(*ast.CallExpr)
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	callee, ok := call.Callee.(*ast.IdentExpr)
	if !ok || callee.Name != "g" {
		t.Errorf("got callee %+v, want ident g", call.Callee)
	}
}

func TestBeFunctionBodyReturnsUnit(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nlet f() be { resultis 1 }")
	fn := prog.Sections.At(0).Declarations.At(0).(*ast.FunctionDecl)
	if fn.ReturnType != ast.BuiltinType(ast.UNIT) {
		t.Errorf("got return type %d, want Unit", fn.ReturnType)
	}
	if fn.BodyStmt == nil {
		t.Errorf("expected BodyStmt to be set for a `be` body")
	}
}

func TestUnknownTypeNameIsDefaultDiagnostic(t *testing.T) {
	prog, p := parseSrc(t, "section demo\nmanifest { x of Widget = 1 }")
	d := prog.Sections.At(0).Declarations.At(0).(*ast.ManifestDecl)
	if d.TypeIndex != ast.TypeNotFound {
		t.Errorf("got type index %d, want TypeNotFound", d.TypeIndex)
	}
	found := false
	for _, e := range p.Errors().Errors() {
		if e.Severity == diag.Default {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a default diagnostic for an unknown type name")
	}
}

func TestUnexpectedTokenIsFatal(t *testing.T) {
	f := source.New("test.bpp", []byte("section demo\nmanifest { x = + }"))
	p := New(f, tags.New(), diag.NewSink(nil), nil)
	if _, err := p.Parse(); err == nil {
		t.Errorf("expected a fatal parse error")
	}
}

// A source whose very first token is a lex error must surface as Parse's
// returned error, not panic out of New/Parse with an uncaught stack trace
// (the initial token fetch happens inside Parse's recover scope).
func TestLexErrorOnFirstTokenIsFatalNotPanic(t *testing.T) {
	f := source.New("test.bpp", []byte("`section demo"))
	p := New(f, tags.New(), diag.NewSink(nil), nil)
	_, err := p.Parse()
	if err == nil {
		t.Errorf("expected a fatal parse error for an invalid first token")
	}
}

// An unterminated block comment with nothing else in the file also ends in
// a lex error as the first (and only) token; this must not panic either.
func TestUnterminatedCommentAsOnlyContentIsFatalNotPanic(t *testing.T) {
	f := source.New("test.bpp", []byte("/* never closed"))
	p := New(f, tags.New(), diag.NewSink(nil), nil)
	_, err := p.Parse()
	if err == nil {
		t.Errorf("expected a fatal parse error for an unterminated comment")
	}
}

func TestMultipleSections(t *testing.T) {
	prog, _ := parseSrc(t, "section a\nmanifest { x = 1 }\nsection b\nmanifest { y = 2 }")
	if prog.Sections.Len() != 2 {
		t.Fatalf("got %d sections, want 2", prog.Sections.Len())
	}
	if prog.Sections.At(0).Identifier != "a" || prog.Sections.At(1).Identifier != "b" {
		t.Errorf("got %q, %q", prog.Sections.At(0).Identifier, prog.Sections.At(1).Identifier)
	}
}

func TestLetDeclarationsWithoutSeparatorParseSeparately(t *testing.T) {
	// Two `let` declarations on separate lines with no explicit
	// separator must parse as two declarations, not one malformed one.
	// No virtual semicolon is inserted here (`let` is not in the
	// may-start-command set); the first body's expression simply ends at
	// the second `let`.
	prog, _ := parseSrc(t, "section demo\nlet f() = 1\nlet g() = 2")
	sec := prog.Sections.At(0)
	if sec.Declarations.Len() != 2 {
		t.Fatalf("got %d declarations, want 2", sec.Declarations.Len())
	}
}

func TestGlobalDeclarationDefaultsToPublic(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nglobal { x = 1 }")
	d := prog.Sections.At(0).Declarations.At(0).(*ast.GlobalDecl)
	if !d.IsPublic {
		t.Errorf("expected global declaration to default IsPublic to true")
	}
}

func TestStaticDeclarationIsPrivate(t *testing.T) {
	prog, _ := parseSrc(t, "section demo\nstatic { x = 1 }")
	d := prog.Sections.At(0).Declarations.At(0).(*ast.StaticDecl)
	if d.IsPublic {
		t.Errorf("expected static declaration to default IsPublic to false")
	}
}
