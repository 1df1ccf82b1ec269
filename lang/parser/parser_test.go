package parser_test

import (
	"testing"

	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/parser"
	"github.com/mna/elk/lang/token"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	fs := token.NewFileSet()
	prog, err := parser.Parse(fs, "test", []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseIdentityScenario(t *testing.T) {
	prog := mustParse(t, "main { x = 5; x }")
	require.NotNil(t, prog.Main)
	require.Len(t, prog.Main.Body.Stmts, 1)

	assign, ok := prog.Main.Body.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	require.Equal(t, "x", assign.Name)

	final, ok := prog.Main.Body.Final.(*ast.IdentExpr)
	require.True(t, ok)
	require.Equal(t, "x", final.Name)
}

func TestParseArithmeticScenario(t *testing.T) {
	prog := mustParse(t, "main { y = 2 + 3; y }")
	assign := prog.Main.Body.Stmts[0].(*ast.AssignStmt)
	bin, ok := assign.Right.(*ast.BinaryOpExpr)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, bin.Op)

	lhs, ok := bin.Lhs.(*ast.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, ast.IntegerLit, lhs.Kind)
	require.Equal(t, uint64(2), lhs.Int)

	rhs, ok := bin.Rhs.(*ast.LiteralExpr)
	require.True(t, ok)
	require.Equal(t, uint64(3), rhs.Int)
}

func TestParseRecordScenario(t *testing.T) {
	prog := mustParse(t, `
type Point { x: U8, y: U8 }
main { p = Point { x: 3, y: 4 }; p.x }
`)
	require.Len(t, prog.Types, 1)
	ct := prog.Types[0]
	require.Equal(t, ast.RecordType, ct.Kind)
	require.Len(t, ct.Fields, 2)
	require.Equal(t, "x", ct.Fields[0].Name) // sorted alphabetically
	require.Equal(t, "y", ct.Fields[1].Name)

	assign := prog.Main.Body.Stmts[0].(*ast.AssignStmt)
	ctor, ok := assign.Right.(*ast.NewRecordInstanceExpr)
	require.True(t, ok)
	require.Equal(t, "Point", ctor.TypeName)
	require.Len(t, ctor.Fields, 2)

	final, ok := prog.Main.Body.Final.(*ast.RecordAccessExpr)
	require.True(t, ok)
	require.Equal(t, "p", final.Var)
	require.Equal(t, "x", final.Field)
}

func TestParseEnumConstructorScenario(t *testing.T) {
	prog := mustParse(t, `
type Opt(T) { Some(T), None }
main { o = Opt.None; 0 }
`)
	require.Len(t, prog.Types, 1)
	ct := prog.Types[0]
	require.Equal(t, ast.EnumType, ct.Kind)
	require.Equal(t, []string{"T"}, ct.Generics)
	require.Len(t, ct.Variants, 2)
	require.Equal(t, "Some", ct.Variants[0].Name)
	require.Equal(t, uint8(0), ct.Variants[0].Discriminant)
	require.Equal(t, "None", ct.Variants[1].Name)
	require.Equal(t, uint8(1), ct.Variants[1].Discriminant)

	assign := prog.Main.Body.Stmts[0].(*ast.AssignStmt)
	ctor, ok := assign.Right.(*ast.NewEnumInstanceExpr)
	require.True(t, ok)
	require.Equal(t, "Opt", ctor.TypeName)
	require.Equal(t, "None", ctor.VariantName)
}

func TestParseFunctionCallScenario(t *testing.T) {
	prog := mustParse(t, `
inc : U8 -> U8;
inc x = x + 1;
main { inc 41 }
`)
	require.Len(t, prog.FnDecls, 1)
	require.Equal(t, "inc", prog.FnDecls[0].Name)
	require.Equal(t, 1, prog.FnDecls[0].Signature.Arity())

	require.Len(t, prog.FnImpls, 1)
	impl := prog.FnImpls[0]
	require.Equal(t, []string{"x"}, impl.Args)

	call, ok := prog.Main.Body.Final.(*ast.FunctionCallExpr)
	require.True(t, ok)
	require.Equal(t, "inc", call.Name)
	require.Len(t, call.Args, 1)
}

func TestParseEmptyBlockHasUnitFinal(t *testing.T) {
	prog := mustParse(t, "main {}")
	require.Empty(t, prog.Main.Body.Stmts)
	_, ok := prog.Main.Body.Final.(*ast.UnitExpr)
	require.True(t, ok)
}

func TestParseMatchExpression(t *testing.T) {
	prog := mustParse(t, `
type Opt(T) { Some(T), None }
main {
	o = Opt.Some(3);
	match o {
		Opt.Some(v) -> v,
		Opt.None -> 0,
	}
}
`)
	m, ok := prog.Main.Body.Final.(*ast.MatchExpr)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	require.Equal(t, ast.EnumPattern, m.Arms[0].Pattern.Kind)
	require.Equal(t, "Opt", m.Arms[0].Pattern.TypeName)
	require.Equal(t, "Some", m.Arms[0].Pattern.VariantName)
	require.Equal(t, []string{"v"}, m.Arms[0].Pattern.Binds)
	require.Equal(t, ast.EnumPattern, m.Arms[1].Pattern.Kind)
	require.Equal(t, "None", m.Arms[1].Pattern.VariantName)
}

func TestParseMissingEntryPointFails(t *testing.T) {
	fs := token.NewFileSet()
	_, err := parser.Parse(fs, "test", []byte("type T {}"))
	require.Error(t, err)
}

func TestParseMultipleEntryPointsFails(t *testing.T) {
	fs := token.NewFileSet()
	_, err := parser.Parse(fs, "test", []byte("main {} main {}"))
	require.Error(t, err)
}

func TestParseMissingImplementationFails(t *testing.T) {
	fs := token.NewFileSet()
	_, err := parser.Parse(fs, "test", []byte("inc : U8 -> U8;\nmain { 0 }"))
	require.Error(t, err)
}

func TestParseArityMismatchFails(t *testing.T) {
	fs := token.NewFileSet()
	src := "inc : U8 -> U8;\ninc x y = x;\nmain { 0 }"
	_, err := parser.Parse(fs, "test", []byte(src))
	require.Error(t, err)
}

func TestParseHigherOrderSignature(t *testing.T) {
	fs := token.NewFileSet()
	src := "apply : (U8 -> U8) -> U8 -> U8;\napply f x = f x;\nmain { 0 }"
	prog, err := parser.Parse(fs, "test", []byte(src))
	require.NoError(t, err)
	require.Equal(t, 2, prog.FnDecls[0].Signature.Arity())
}
