// Package parser implements the recursive-descent, combinator-style parser
// of spec §4.1: it consumes a token stream from the scanner package and
// produces a fully structured, untyped ast.Program.
//
// Per spec §1/§4.4's explicit non-goal ("error recovery during parsing
// (first error aborts)"), there is no panic/recover layer: every parse
// method returns (node, error) and the first error encountered anywhere
// aborts the whole parse.
package parser

import (
	"os"

	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/errs"
	"github.com/mna/elk/lang/scanner"
	"github.com/mna/elk/lang/token"
)

// ParseFile reads filename and parses it as a Program, registering it in
// fset for position reporting.
func ParseFile(fset *token.FileSet, filename string) (*ast.Program, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, &errs.IOError{Path: filename, Err: err}
	}
	return Parse(fset, filename, src)
}

// Parse parses src as a Program, registering it in fset under filename for
// position reporting.
func Parse(fset *token.FileSet, filename string, src []byte) (*ast.Program, error) {
	var p parser
	f := fset.AddFile(filename, len(src))
	if err := p.init(f, src); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

// parser holds the single-token lookahead cursor over the scanner's token
// stream.
type parser struct {
	file    *token.File
	scanner scanner.Scanner

	tok token.Token
	val token.Value
}

func (p *parser) init(file *token.File, src []byte) error {
	p.file = file
	p.scanner.Init(file, src)
	return p.advance()
}

func (p *parser) advance() error {
	tok, err := p.scanner.Scan(&p.val)
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) pos() token.Pos { return p.val.Pos }

// expect consumes the current token if it matches tok, returning its
// position, or reports a ParseError naming tok as what was expected.
func (p *parser) expect(tok token.Token) (token.Pos, error) {
	if p.tok != tok {
		return 0, p.unexpected(tok.GoString())
	}
	pos := p.pos()
	return pos, p.advance()
}

func (p *parser) unexpected(expected string) error {
	got := p.tok.GoString()
	if lit := p.val.Literal(p.tok); lit != "" {
		got += " (" + lit + ")"
	}
	return &errs.ParseError{Pos: p.pos(), Expected: expected, Got: got}
}

// expectIdent consumes an IDENT token and returns its text and position.
func (p *parser) expectIdent() (string, token.Pos, error) {
	if p.tok != token.IDENT {
		return "", 0, p.unexpected("identifier")
	}
	name, pos := p.val.Str, p.pos()
	return name, pos, p.advance()
}
