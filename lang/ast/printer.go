package ast

import (
	"fmt"
	"io"

	"github.com/mna/elk/lang/token"
)

// Printer prints a Program's tree structure, one node per line indented by
// nesting depth, including each expression's AssociatedType once inference
// has run (Pending type prints as "pending" beforehand).
type Printer struct {
	Output io.Writer
	Pos    token.PosMode
	Fset   *token.FileSet
}

// Print walks prog and writes its indented tree to p.Output.
func (p *Printer) Print(prog *Program) error {
	var err error
	depth := 0
	var v VisitorFunc
	v = VisitorFunc(func(n Node, dir VisitDirection) Visitor {
		if err != nil {
			return nil
		}
		if dir == VisitExit {
			depth--
			return nil
		}
		indent := ""
		for i := 0; i < depth; i++ {
			indent += "  "
		}
		pos := ""
		if p.Fset != nil {
			pos = token.FormatPos(p.Pos, p.Fset, n.Span()) + ": "
		}
		typ := ""
		if e, ok := n.(Expr); ok {
			typ = " : " + e.Type().String()
		}
		if _, werr := fmt.Fprintf(p.Output, "%s%s%+v%s\n", indent, pos, n, typ); werr != nil {
			err = werr
			return nil
		}
		depth++
		return v
	})
	Walk(v, prog)
	return err
}
