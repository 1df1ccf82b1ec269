package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/infer"
	"github.com/mna/elk/lang/parser"
	"github.com/mna/elk/lang/token"
)

// Infer runs the scanner, parser and type-inference phases and prints the
// typed tree for each file in args, replacing the teacher's resolve command
// (Starlark-style name resolution has no equivalent once every identifier
// carries a concrete inferred type).
func (c *Cmd) Infer(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return InferFiles(ctx, stdio, token.PosLong, args...)
}

func InferFiles(ctx context.Context, stdio mainer.Stdio, posMode token.PosMode, files ...string) error {
	fset := token.NewFileSet()
	printer := ast.Printer{Output: stdio.Stdout, Pos: posMode, Fset: fset}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		prog, err := parser.ParseFile(fset, name)
		if err != nil {
			return printError(stdio, err)
		}
		if err := infer.Infer(fset, prog); err != nil {
			return printError(stdio, err)
		}
		if err := printer.Print(prog); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
