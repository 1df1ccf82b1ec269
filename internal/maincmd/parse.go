package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/parser"
	"github.com/mna/elk/lang/token"
)

// Parse runs the scanner and parser phases and prints the resulting,
// untyped abstract syntax tree for each file in args.
func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, token.PosLong, args...)
}

func ParseFiles(ctx context.Context, stdio mainer.Stdio, posMode token.PosMode, files ...string) error {
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
		if err := printer.Print(prog); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
