package infer_test

import (
	"testing"

	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/infer"
	"github.com/mna/elk/lang/parser"
	"github.com/mna/elk/lang/token"
	"github.com/mna/elk/lang/types"
	"github.com/stretchr/testify/require"
)

func mustInfer(t *testing.T, src string) *ast.Program {
	t.Helper()
	fs := token.NewFileSet()
	prog, err := parser.Parse(fs, "test", []byte(src))
	require.NoError(t, err)
	require.NoError(t, infer.Infer(fs, prog))
	return prog
}

func TestInferIdentityScenario(t *testing.T) {
	prog := mustInfer(t, "main { x = 5; x }")
	final := prog.Main.Body.Final.(*ast.IdentExpr)
	require.Equal(t, types.TU8, final.Type())
}

func TestInferArithmeticScenario(t *testing.T) {
	prog := mustInfer(t, "main { y = 2 + 3; y }")
	assign := prog.Main.Body.Stmts[0].(*ast.AssignStmt)
	require.Equal(t, types.TU8, assign.Right.Type())
}

func TestInferBinaryOpMismatchFails(t *testing.T) {
	fs := token.NewFileSet()
	prog, err := parser.Parse(fs, "test", []byte(`main { x = 1.5 + 2; 0 }`))
	require.NoError(t, err)
	err = infer.Infer(fs, prog)
	require.Error(t, err)
}

func TestInferRecordScenario(t *testing.T) {
	prog := mustInfer(t, `
type Point { x: U8, y: U8 }
main { p = Point { x: 3, y: 4 }; p.x }
`)
	assign := prog.Main.Body.Stmts[0].(*ast.AssignStmt)
	require.Equal(t, types.NewCustom("Point", nil), assign.Right.Type())

	final := prog.Main.Body.Final.(*ast.RecordAccessExpr)
	require.Equal(t, types.TU8, final.Type())
}

func TestInferFunctionCallScenario(t *testing.T) {
	prog := mustInfer(t, `
inc : U8 -> U8;
inc x = x + 1;
main { inc 41 }
`)
	final := prog.Main.Body.Final.(*ast.FunctionCallExpr)
	require.Equal(t, types.TU8, final.Type())
}

func TestInferFunctionBodyTypeMismatchFails(t *testing.T) {
	fs := token.NewFileSet()
	src := "bad : U8 -> U8;\nbad x = True;\nmain { 0 }"
	prog, err := parser.Parse(fs, "test", []byte(src))
	require.NoError(t, err)
	require.Error(t, infer.Infer(fs, prog))
}

func TestInferFunctionCallArityMismatchFails(t *testing.T) {
	fs := token.NewFileSet()
	src := "inc : U8 -> U8;\ninc x = x;\nmain { inc 1 2 }"
	// Two contiguous argument atoms parse as two call arguments.
	prog, err := parser.Parse(fs, "test", []byte(src))
	require.NoError(t, err)
	require.Error(t, infer.Infer(fs, prog))
}

func TestInferEntryPointReturnFails(t *testing.T) {
	fs := token.NewFileSet()
	prog, err := parser.Parse(fs, "test", []byte("main { return 0; }"))
	require.NoError(t, err)
	require.Error(t, infer.Infer(fs, prog))
}

func TestInferReturnInFunctionBody(t *testing.T) {
	prog := mustInfer(t, `
double : U8 -> U8;
double x { return x + x; }
main { double 3 }
`)
	final := prog.Main.Body.Final.(*ast.FunctionCallExpr)
	require.Equal(t, types.TU8, final.Type())
}

func TestInferMatchExpressionScenario(t *testing.T) {
	prog := mustInfer(t, `
type Opt(T) { Some(U8), None }
main {
	o = Opt.Some(3);
	match o {
		Opt.Some(v) -> v,
		Opt.None -> 0,
	}
}
`)
	m := prog.Main.Body.Final.(*ast.MatchExpr)
	require.Equal(t, types.TU8, m.Type())
}

func TestInferMatchArmMismatchFails(t *testing.T) {
	fs := token.NewFileSet()
	src := `
type Opt(T) { Some(U8), None }
main {
	o = Opt.Some(3);
	match o {
		Opt.Some(v) -> v,
		Opt.None -> True,
	}
}
`
	prog, err := parser.Parse(fs, "test", []byte(src))
	require.NoError(t, err)
	require.Error(t, infer.Infer(fs, prog))
}

func TestInferUnboundNameFails(t *testing.T) {
	fs := token.NewFileSet()
	prog, err := parser.Parse(fs, "test", []byte("main { x }"))
	require.NoError(t, err)
	require.Error(t, infer.Infer(fs, prog))
}
