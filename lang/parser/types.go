package parser

import (
	"github.com/mna/elk/lang/errs"
	"github.com/mna/elk/lang/scanner"
	"github.com/mna/elk/lang/token"
	"github.com/mna/elk/lang/types"
)

var primitiveNames = map[string]types.Type{
	"I8": types.TI8, "I16": types.TI16, "I32": types.TI32, "I64": types.TI64,
	"U8": types.TU8, "U16": types.TU16, "U32": types.TU32, "U64": types.TU64,
	"F32": types.TF32, "F64": types.TF64,
	"Bool": types.TBool, "String": types.TString,
}

// parseGenericParams parses an optional "(" UpperIdent ("," UpperIdent)* ")"
// list, per spec §4.1's "generics" production. Returns nil if no '(' follows.
func (p *parser) parseGenericParams() ([]string, error) {
	if p.tok != token.LPAREN {
		return nil, nil
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var names []string
	for {
		name, pos, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if !scanner.IsUpperInitial(name) {
			return nil, p.errorAt(pos, "an upper-initial generic parameter name", name)
		}
		names = append(names, name)
		if p.tok != token.COMMA {
			break
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return names, nil
}

// parseType parses a single type production: a primitive name, a
// (possibly generic) custom type name, or a parenthesized function
// signature, per spec §4.1's "type" production.
func (p *parser) parseType() (types.Type, error) {
	switch p.tok {
	case token.UNIT:
		if err := p.advance(); err != nil {
			return types.Type{}, err
		}
		return types.TUnit, nil

	case token.LPAREN:
		if _, err := p.expect(token.LPAREN); err != nil {
			return types.Type{}, err
		}
		sig, err := p.parseSignature()
		if err != nil {
			return types.Type{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return types.Type{}, err
		}
		return types.NewFunction(sig), nil

	case token.IDENT:
		name, pos, err := p.expectIdent()
		if err != nil {
			return types.Type{}, err
		}
		if !scanner.IsUpperInitial(name) {
			return types.Type{}, p.errorAt(pos, "an upper-initial type name", name)
		}
		if prim, ok := primitiveNames[name]; ok {
			return prim, nil
		}
		generics, err := p.parseGenericParams()
		if err != nil {
			return types.Type{}, err
		}
		return types.NewCustom(name, generics), nil

	default:
		return types.Type{}, p.unexpected("a type")
	}
}

// parseSignature parses a fn_signature: type ("->" type)+, per spec §4.1/§3.
// The arrow chain desugars right-associatively: all but the last type become
// arguments, the last becomes the return type.
func (p *parser) parseSignature() (*types.Signature, error) {
	var chain []types.Type

	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	chain = append(chain, t)

	for p.tok == token.ARROW {
		if _, err := p.expect(token.ARROW); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		chain = append(chain, t)
	}

	if len(chain) < 2 {
		return nil, p.unexpected("'->'")
	}
	return types.SignatureFromArrowChain(chain), nil
}

func (p *parser) errorAt(pos token.Pos, expected, got string) error {
	return &errs.ParseError{Pos: pos, Expected: expected, Got: got}
}
