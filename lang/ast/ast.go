// Package ast defines the abstract syntax tree produced by the parser. Every
// Expression additionally carries an AssociatedType slot (types.Type,
// starting Pending) that the infer package fills in; the code generator then
// reads, but never writes, the resulting typed tree. See spec §3 "Lifecycle".
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/elk/lang/token"
	"github.com/mna/elk/lang/types"
)

// Node is implemented by every AST node.
type Node interface {
	fmt.Formatter
	// Span reports the node's starting position. Nodes do not track an end
	// position; diagnostics only ever need "where did this start".
	Span() token.Pos
	// Walk enters each child node to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr is an expression node, per spec §3's Expression tagged variant. Every
// Expr carries an AssociatedType slot (Pending until the infer pass runs);
// Type reads it, SetType is the sole write path the infer pass uses, per the
// Lifecycle invariant of spec §3 ("inference mutates only the
// associated_type slot").
type Expr interface {
	Node
	expr()
	Type() types.Type
	SetType(types.Type)
}

// Stmt is a statement node, per spec §3's Statement type (Assignment or
// Return).
type Stmt interface {
	Node
	stmt()
}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}
	label = strings.ReplaceAll(label, "\n", "⏎")
	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
