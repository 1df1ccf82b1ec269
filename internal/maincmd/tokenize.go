package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/elk/lang/scanner"
	"github.com/mna/elk/lang/token"
)

// Tokenize runs only the scanner phase and prints the resulting tokens, one
// per line, for each file in args.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, token.PosLong, args...)
}

func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, posMode token.PosMode, files ...string) error {
	fset := token.NewFileSet()
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		if err := tokenizeFile(stdio, fset, posMode, name); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}

func tokenizeFile(stdio mainer.Stdio, fset *token.FileSet, posMode token.PosMode, name string) error {
	src, err := readFile(name)
	if err != nil {
		return err
	}
	file := fset.AddFile(name, len(src))

	var sc scanner.Scanner
	sc.Init(file, src)

	var val token.Value
	for {
		tok, err := sc.Scan(&val)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdio.Stdout, "%s: %s", token.FormatPos(posMode, fset, val.Pos), tok)
		if lit := val.Literal(tok); lit != "" {
			fmt.Fprintf(stdio.Stdout, " %s", lit)
		}
		fmt.Fprintln(stdio.Stdout)
		if tok == token.EOF {
			return nil
		}
	}
}
