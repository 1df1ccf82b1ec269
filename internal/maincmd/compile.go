package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/elk/lang/codegen"
	"github.com/mna/elk/lang/errs"
	"github.com/mna/elk/lang/infer"
	"github.com/mna/elk/lang/parser"
	"github.com/mna/elk/lang/token"
)

// nativePointerSize is the only target this driver emits for: a 64-bit
// pointer width, matching the backend facade's PointerSize query (spec §6).
const nativePointerSize = 8

// Compile runs the full pipeline (scan, parse, infer, lower) over the single
// source file in args and writes the resulting object bytes to c.Output
// (default "temp.o"), per spec §6's compile <input_path> [-o|--output <path>].
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFile(ctx, stdio, args[0], c.Output)
}

func CompileFile(ctx context.Context, stdio mainer.Stdio, input, output string) error {
	if err := ctx.Err(); err != nil {
		return printError(stdio, err)
	}

	fset := token.NewFileSet()
	prog, err := parser.ParseFile(fset, input)
	if err != nil {
		return printError(stdio, err)
	}
	if err := infer.Infer(fset, prog); err != nil {
		return printError(stdio, err)
	}
	mod, err := codegen.Generate(fset, prog, nativePointerSize)
	if err != nil {
		return printError(stdio, err)
	}

	if err := os.WriteFile(output, mod.Serialize(), 0o644); err != nil {
		return printError(stdio, &errs.IOError{Path: output, Err: err})
	}
	return nil
}
