package codegen_test

import (
	"testing"

	"github.com/mna/elk/lang/codegen"
	"github.com/mna/elk/lang/infer"
	"github.com/mna/elk/lang/parser"
	"github.com/mna/elk/lang/token"
	"github.com/stretchr/testify/require"
)

const ptrSize = 8

func mustGenerate(t *testing.T, src string) []byte {
	t.Helper()
	fs := token.NewFileSet()
	prog, err := parser.Parse(fs, "test", []byte(src))
	require.NoError(t, err)
	require.NoError(t, infer.Infer(fs, prog))
	mod, err := codegen.Generate(fs, prog, ptrSize)
	require.NoError(t, err)
	require.NotNil(t, mod)
	return mod.Serialize()
}

func TestGenerateIdentityScenario(t *testing.T) {
	out := mustGenerate(t, "main { x = 5; x }")
	require.NotEmpty(t, out)
}

func TestGenerateArithmeticScenario(t *testing.T) {
	out := mustGenerate(t, "main { y = 2 + 3; y }")
	require.NotEmpty(t, out)
}

func TestGenerateFunctionCallScenario(t *testing.T) {
	out := mustGenerate(t, `
inc : U8 -> U8;
inc x = x + 1;
main { inc 41 }
`)
	require.NotEmpty(t, out)
}

func TestGenerateReturnInFunctionBody(t *testing.T) {
	out := mustGenerate(t, `
double : U8 -> U8;
double x { return x + x; }
main { double 3 }
`)
	require.NotEmpty(t, out)
}

func TestGenerateRecordScenario(t *testing.T) {
	out := mustGenerate(t, `
type Point { x: U8, y: U8 }
main { p = Point { x: 3, y: 4 }; p.x }
`)
	require.NotEmpty(t, out)
}

func TestGenerateMatchExpressionScenario(t *testing.T) {
	out := mustGenerate(t, `
type Opt(T) { Some(U8), None }
main {
	o = Opt.Some(3);
	match o {
		Opt.Some(v) -> v,
		Opt.None -> 0,
	}
}
`)
	require.NotEmpty(t, out)
}

func TestGenerateFloatArithmeticScenario(t *testing.T) {
	out := mustGenerate(t, "main { x = 1.5 + 2.5; x }")
	require.NotEmpty(t, out)
}

func TestGenerateUnaryOpScenario(t *testing.T) {
	out := mustGenerate(t, "main { x = 5; y = -x; y }")
	require.NotEmpty(t, out)
}

func TestGenerateIsDeterministic(t *testing.T) {
	src := "main { x = 5; x }"
	first := mustGenerate(t, src)
	second := mustGenerate(t, src)
	require.Equal(t, first, second)
}
