package parser

import (
	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/scanner"
	"github.com/mna/elk/lang/token"
)

var binaryOps = map[token.Token]ast.BinaryOp{
	token.PLUS:     ast.OpAdd,
	token.MINUS:    ast.OpSub,
	token.STAR:     ast.OpMul,
	token.SLASH:    ast.OpDiv,
	token.PERCENT:  ast.OpMod,
	token.AMPAMP:   ast.OpAnd,
	token.PIPEPIPE: ast.OpOr,
	token.XOR:      ast.OpXor,
	token.EQL:      ast.OpEq,
	token.NEQ:      ast.OpNotEq,
	token.LT:       ast.OpLt,
	token.GT:       ast.OpGt,
	token.LE:       ast.OpLe,
	token.GE:       ast.OpGe,
}

// parseExpr parses a full expr, per spec §4.1. Per the parsing decision
// recorded there (and preserved per spec §9's re-architecture note), binary
// operators are NOT precedence-climbed: this is a flat `left op right`
// where right recurses into parseExpr, making the parse right-associative
// with no operator precedence at all.
func (p *parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseUnaryOrPrimary()
	if err != nil {
		return nil, err
	}
	op, isBinOp := binaryOps[p.tok]
	if !isBinOp {
		return left, nil
	}
	pos := left.Span()
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	e := &ast.BinaryOpExpr{Op: op, Lhs: left, Rhs: right}
	e.Pos = pos
	return e, nil
}

func (p *parser) parseUnaryOrPrimary() (ast.Expr, error) {
	if p.tok == token.MINUS {
		pos := p.pos()
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnaryOrPrimary()
		if err != nil {
			return nil, err
		}
		e := &ast.UnaryOpExpr{Op: ast.OpNeg, Operand: operand}
		e.Pos = pos
		return e, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses the non-operator expr alternatives of spec §4.1's expr
// production: match_expr, literal, unit, variant_ctor, record_ctor,
// record_access, function_call and identifier, plus "(" expr ")" grouping.
func (p *parser) parsePrimary() (ast.Expr, error) {
	switch p.tok {
	case token.LPAREN:
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case token.MATCH:
		return p.parseMatchExpr()

	case token.UNIT:
		pos := p.pos()
		if err := p.advance(); err != nil {
			return nil, err
		}
		e := &ast.UnitExpr{}
		e.Pos = pos
		return e, nil

	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		return p.parseLiteral()

	case token.IDENT:
		if scanner.IsUpperInitial(p.val.Str) {
			return p.parseUpperIdentExpr()
		}
		return p.parseLowerIdentExpr()

	default:
		return nil, p.unexpected("an expression")
	}
}

func (p *parser) parseLiteral() (*ast.LiteralExpr, error) {
	pos := p.pos()
	e := &ast.LiteralExpr{}
	switch p.tok {
	case token.INT:
		e.Kind, e.Int = ast.IntegerLit, p.val.Int
	case token.FLOAT:
		e.Kind, e.Float = ast.FloatLit, p.val.Float
	case token.STRING:
		e.Kind, e.Str = ast.StringLit, p.val.Str
	case token.TRUE:
		e.Kind, e.Bool = ast.BoolLit, true
	case token.FALSE:
		e.Kind, e.Bool = ast.BoolLit, false
	default:
		return nil, p.unexpected("a literal")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e.Pos = pos
	return e, nil
}

// parseUpperIdentExpr parses a variant_ctor (UpperIdent "." UpperIdent
// args?) or a record_ctor (UpperIdent "{" fields "}"), per spec §4.1.
func (p *parser) parseUpperIdentExpr() (ast.Expr, error) {
	name, pos, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	switch p.tok {
	case token.DOT:
		if _, err := p.expect(token.DOT); err != nil {
			return nil, err
		}
		variantName, vpos, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if !scanner.IsUpperInitial(variantName) {
			return nil, p.errorAt(vpos, "an upper-initial variant name", variantName)
		}
		var args []ast.Expr
		if p.tok == token.LPAREN {
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			for p.tok != token.RPAREN {
				arg, err := p.parseArgument()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
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
		}
		e := &ast.NewEnumInstanceExpr{TypeName: name, VariantName: variantName, Args: args}
		e.Pos = pos
		return e, nil

	case token.LBRACE:
		if _, err := p.expect(token.LBRACE); err != nil {
			return nil, err
		}
		var fields []ast.RecordFieldInit
		for p.tok != token.RBRACE {
			fname, fpos, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordFieldInit{Pos: fpos, Name: fname, Value: val})
			if p.tok != token.COMMA {
				break
			}
			trailing, err := p.peekIsRBraceAfterComma()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
			if trailing {
				break
			}
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		e := &ast.NewRecordInstanceExpr{TypeName: name, Fields: fields}
		e.Pos = pos
		return e, nil

	default:
		return nil, p.unexpected("'.' or '{' after an upper-initial identifier")
	}
}

// parseLowerIdentExpr parses a record_access (lowerIdent "." lowerIdent), a
// function_call (lowerIdent followed by juxtaposed arguments) or a bare
// identifier, per spec §4.1.
func (p *parser) parseLowerIdentExpr() (ast.Expr, error) {
	name, pos, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.tok == token.DOT {
		if _, err := p.expect(token.DOT); err != nil {
			return nil, err
		}
		fieldName, fpos, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if !scanner.IsLowerInitial(fieldName) {
			return nil, p.errorAt(fpos, "a lower-initial field name", fieldName)
		}
		e := &ast.RecordAccessExpr{Var: name, Field: fieldName}
		e.Pos = pos
		return e, nil
	}

	if !p.canStartArgument() {
		e := &ast.IdentExpr{Name: name}
		e.Pos = pos
		return e, nil
	}

	var args []ast.Expr
	for p.canStartArgument() {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	e := &ast.FunctionCallExpr{Name: name, Args: args}
	e.Pos = pos
	return e, nil
}

// canStartArgument reports whether the current token can begin a
// function-call argument, per the restricted set of spec §4.1.
func (p *parser) canStartArgument() bool {
	switch p.tok {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE,
		token.UNIT, token.IDENT, token.MATCH, token.LPAREN:
		return true
	default:
		return false
	}
}

// parseArgument parses one function-call argument: a variant constructor, a
// record constructor, a literal, a match expression, unit, a parenthesized
// expression (covering the "parenthesized function call" case), or a bare
// identifier. A nested, unparenthesized function call is rejected here by
// construction: the IDENT branch never itself collects further arguments.
func (p *parser) parseArgument() (ast.Expr, error) {
	if p.tok == token.LPAREN {
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}

	switch p.tok {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		return p.parseLiteral()

	case token.UNIT:
		pos := p.pos()
		if err := p.advance(); err != nil {
			return nil, err
		}
		e := &ast.UnitExpr{}
		e.Pos = pos
		return e, nil

	case token.MATCH:
		return p.parseMatchExpr()

	case token.IDENT:
		if scanner.IsUpperInitial(p.val.Str) {
			return p.parseUpperIdentExpr()
		}
		name, pos, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		e := &ast.IdentExpr{Name: name}
		e.Pos = pos
		return e, nil

	default:
		return nil, p.unexpected("a function-call argument")
	}
}

// parseMatchExpr parses match_expr := "match" expr "{" (pattern "->" expr
// ","?)* "}", per spec §4.1/§4.2 (match arm grammar is not spelled out by
// the grammar sketch; this follows the arrow-chain style used elsewhere in
// the language's surface syntax).
func (p *parser) parseMatchExpr() (*ast.MatchExpr, error) {
	pos, err := p.expect(token.MATCH)
	if err != nil {
		return nil, err
	}
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	var arms []ast.MatchArm
	for p.tok != token.RBRACE {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ARROW); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})

		if p.tok != token.COMMA {
			break
		}
		trailing, err := p.peekIsRBraceAfterComma()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
		if trailing {
			break
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	e := &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms}
	e.Pos = pos
	return e, nil
}

// parsePattern parses a match-arm pattern: a literal, an identifier
// (including "_"), or an enum constructor, per spec §4.1. Per SPEC_FULL's
// resolution of the §9 open question, an enum pattern always requires the
// "Type." qualifier: a bare "Variant(...)" is rejected.
func (p *parser) parsePattern() (ast.Pattern, error) {
	pos := p.pos()
	switch p.tok {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		lit, err := p.parseLiteral()
		if err != nil {
			return ast.Pattern{}, err
		}
		return ast.Pattern{Pos: pos, Kind: ast.LiteralPattern, Literal: lit}, nil

	case token.IDENT:
		if scanner.IsLowerInitial(p.val.Str) {
			name, ipos, err := p.expectIdent()
			if err != nil {
				return ast.Pattern{}, err
			}
			return ast.Pattern{Pos: ipos, Kind: ast.IdentPattern, Ident: name}, nil
		}

		typeName, _, err := p.expectIdent()
		if err != nil {
			return ast.Pattern{}, err
		}
		if _, err := p.expect(token.DOT); err != nil {
			return ast.Pattern{}, err
		}
		variantName, vpos, err := p.expectIdent()
		if err != nil {
			return ast.Pattern{}, err
		}
		if !scanner.IsUpperInitial(variantName) {
			return ast.Pattern{}, p.errorAt(vpos, "an upper-initial variant name", variantName)
		}

		var binds []string
		if p.tok == token.LPAREN {
			if _, err := p.expect(token.LPAREN); err != nil {
				return ast.Pattern{}, err
			}
			for p.tok != token.RPAREN {
				bindName, bpos, err := p.expectIdent()
				if err != nil {
					return ast.Pattern{}, err
				}
				if !scanner.IsLowerInitial(bindName) {
					return ast.Pattern{}, p.errorAt(bpos, "a lower-initial binding name", bindName)
				}
				binds = append(binds, bindName)
				if p.tok != token.COMMA {
					break
				}
				if _, err := p.expect(token.COMMA); err != nil {
					return ast.Pattern{}, err
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return ast.Pattern{}, err
			}
		}
		return ast.Pattern{
			Pos: pos, Kind: ast.EnumPattern,
			TypeName: typeName, VariantName: variantName, Binds: binds,
		}, nil

	default:
		return ast.Pattern{}, p.unexpected("a pattern")
	}
}
