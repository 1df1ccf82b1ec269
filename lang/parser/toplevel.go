package parser

import (
	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/errs"
	"github.com/mna/elk/lang/scanner"
	"github.com/mna/elk/lang/token"
)

// parseProgram parses the whole token stream as top_level*, per spec §4.1,
// then checks the Program-level invariants of spec §3: exactly one entry
// point, unique names per category, and declaration/implementation pairing.
func (p *parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{Name: p.file.Name()}

	for p.tok != token.EOF {
		switch p.tok {
		case token.TYPE:
			ct, err := p.parseTypeDef()
			if err != nil {
				return nil, err
			}
			prog.Types = append(prog.Types, ct)

		case token.MAIN:
			ep, err := p.parseEntryPoint()
			if err != nil {
				return nil, err
			}
			if prog.Main != nil {
				return nil, &errs.MultipleEntryPoints{First: prog.Main.Pos, Second: ep.Pos}
			}
			prog.Main = ep

		case token.IDENT:
			decl, impl, err := p.parseFnDeclOrImpl()
			if err != nil {
				return nil, err
			}
			if decl != nil {
				prog.FnDecls = append(prog.FnDecls, decl)
			} else {
				prog.FnImpls = append(prog.FnImpls, impl)
			}

		default:
			return nil, p.unexpected("a type definition, function declaration, function implementation, or entry point")
		}
	}

	if prog.Main == nil {
		return nil, &errs.NoEntryPoint{}
	}
	if err := checkProgramInvariants(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

func checkProgramInvariants(prog *ast.Program) error {
	typeNames := map[string]bool{}
	for _, t := range prog.Types {
		if typeNames[t.Name] {
			return &errs.DuplicateName{Pos: t.Pos, Name: t.Name, Category: "type"}
		}
		typeNames[t.Name] = true
	}

	declByName := map[string]*ast.FunctionDeclaration{}
	for _, d := range prog.FnDecls {
		if _, ok := declByName[d.Name]; ok {
			return &errs.DuplicateName{Pos: d.Pos, Name: d.Name, Category: "function declaration"}
		}
		declByName[d.Name] = d
	}

	implByName := map[string]*ast.FunctionImplementation{}
	for _, impl := range prog.FnImpls {
		if _, ok := implByName[impl.Name]; ok {
			return &errs.DuplicateName{Pos: impl.Pos, Name: impl.Name, Category: "function implementation"}
		}
		implByName[impl.Name] = impl

		decl, ok := declByName[impl.Name]
		if !ok {
			return &errs.MissingDeclaration{Pos: impl.Pos, Name: impl.Name}
		}
		if got, want := len(impl.Args), decl.Signature.Arity(); got != want {
			return &errs.ArityMismatch{Pos: impl.Pos, Name: impl.Name, Expected: want, Got: got}
		}
	}

	for name, d := range declByName {
		if _, ok := implByName[name]; !ok {
			return &errs.MissingImplementation{Name: d.Name}
		}
	}
	return nil
}

// parseTypeDef parses a type_def: "type" UpperIdent generics?
// ("{" (variants | fields) ","? "}")?, per spec §4.1/§3.
func (p *parser) parseTypeDef() (*ast.CustomType, error) {
	pos, err := p.expect(token.TYPE)
	if err != nil {
		return nil, err
	}
	name, namePos, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if !scanner.IsUpperInitial(name) {
		return nil, p.errorAt(namePos, "an upper-initial type name", name)
	}

	ct := &ast.CustomType{Pos: pos, Name: name, Kind: ast.EmptyType}

	generics, err := p.parseGenericParams()
	if err != nil {
		return nil, err
	}
	ct.Generics = generics

	if p.tok != token.LBRACE {
		return ct, nil
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	if p.tok == token.RBRACE {
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return ct, nil
	}

	// Disambiguate variants vs. fields by the case of the first entry's name:
	// UpperIdent starts a variant, lowerIdent starts a field (spec §4.1).
	if p.tok != token.IDENT {
		return nil, p.unexpected("a variant or field name")
	}
	if scanner.IsUpperInitial(p.val.Str) {
		ct.Kind = ast.EnumType
		variants, err := p.parseVariants()
		if err != nil {
			return nil, err
		}
		ct.Variants = variants
	} else {
		ct.Kind = ast.RecordType
		fields, err := p.parseFields()
		if err != nil {
			return nil, err
		}
		ct.Fields = fields
	}

	if p.tok == token.COMMA {
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ct, nil
}

func (p *parser) parseVariants() ([]*ast.EnumVariant, error) {
	var variants []*ast.EnumVariant
	for {
		name, pos, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if !scanner.IsUpperInitial(name) {
			return nil, p.errorAt(pos, "an upper-initial variant name", name)
		}
		v := &ast.EnumVariant{Pos: pos, Name: name, Discriminant: uint8(len(variants))}

		if p.tok == token.LPAREN {
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			for {
				t, err := p.parseType()
				if err != nil {
					return nil, err
				}
				v.Payload = append(v.Payload, t)
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

		variants = append(variants, v)
		if p.tok != token.COMMA {
			break
		}
		// A trailing comma before '}' ends the list rather than starting another
		// variant (parseTypeDef then consumes it); peeking past COMMA isn't
		// possible with one-token lookahead, so this loop peeks one token further
		// ahead before consuming it.
		trailing, err := p.peekIsRBraceAfterComma()
		if err != nil {
			return nil, err
		}
		if trailing {
			break
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
	return variants, nil
}

func (p *parser) parseFields() ([]*ast.RecordField, error) {
	var fields []*ast.RecordField
	for {
		name, pos, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if !scanner.IsLowerInitial(name) {
			return nil, p.errorAt(pos, "a lower-initial field name", name)
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, &ast.RecordField{Pos: pos, Name: name, Type: t})

		if p.tok != token.COMMA {
			break
		}
		trailing, err := p.peekIsRBraceAfterComma()
		if err != nil {
			return nil, err
		}
		if trailing {
			break
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
	}
	sortRecordFields(fields)
	return fields, nil
}

func sortRecordFields(fields []*ast.RecordField) {
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j-1].Name > fields[j].Name; j-- {
			fields[j-1], fields[j] = fields[j], fields[j-1]
		}
	}
}

// peekIsRBraceAfterComma is a one-token-lookahead workaround: the parser
// holds only a single lookahead token (the COMMA itself), so to tell a
// trailing comma from a genuine list separator it must peek one token
// further ahead. It consumes nothing: the cursor is restored to the COMMA
// before returning.
func (p *parser) peekIsRBraceAfterComma() (bool, error) {
	save := *p
	if err := p.advance(); err != nil {
		return false, err
	}
	isRBrace := p.tok == token.RBRACE
	*p = save
	return isRBrace, nil
}

// parseFnDeclOrImpl disambiguates fn_decl from fn_impl after the leading
// lowerIdent, per spec §4.1: a following ':' starts a declaration's
// fn_signature; anything else (more argument names, '=', or '{') starts an
// implementation.
func (p *parser) parseFnDeclOrImpl() (*ast.FunctionDeclaration, *ast.FunctionImplementation, error) {
	name, pos, err := p.expectIdent()
	if err != nil {
		return nil, nil, err
	}
	if !scanner.IsLowerInitial(name) {
		return nil, nil, p.errorAt(pos, "a lower-initial function name", name)
	}

	if p.tok == token.COLON {
		if _, err := p.expect(token.COLON); err != nil {
			return nil, nil, err
		}
		sig, err := p.parseSignature()
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, nil, err
		}
		return &ast.FunctionDeclaration{Pos: pos, Name: name, Signature: sig}, nil, nil
	}

	var args []string
	for p.tok == token.IDENT {
		argName, argPos, err := p.expectIdent()
		if err != nil {
			return nil, nil, err
		}
		if !scanner.IsLowerInitial(argName) {
			return nil, nil, p.errorAt(argPos, "a lower-initial argument name", argName)
		}
		args = append(args, argName)
	}

	var body *ast.Block
	switch p.tok {
	case token.EQ:
		if _, err := p.expect(token.EQ); err != nil {
			return nil, nil, err
		}
		exprPos := p.pos()
		e, err := p.parseExpr()
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, nil, err
		}
		body = &ast.Block{Pos: exprPos, Final: e}
	case token.LBRACE:
		b, err := p.parseBlock()
		if err != nil {
			return nil, nil, err
		}
		body = b
	default:
		return nil, nil, p.unexpected("'=' or '{'")
	}

	return nil, &ast.FunctionImplementation{Pos: pos, Name: name, Args: args, Body: body}, nil
}

// parseEntryPoint parses entry_point := "main" block, per spec §4.1.
func (p *parser) parseEntryPoint() (*ast.EntryPoint, error) {
	pos, err := p.expect(token.MAIN)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.EntryPoint{Pos: pos, Body: body}, nil
}

// parseBlock parses block := "{" statement* expr? "}", per spec §3/§4.1. A
// block with no trailing expression gets a synthesized UnitExpr final value,
// per the boundary behavior of spec §8.
func (p *parser) parseBlock() (*ast.Block, error) {
	pos, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	b := &ast.Block{Pos: pos}

	for p.tok != token.RBRACE {
		stmt, final, err := p.parseStmtOrFinal()
		if err != nil {
			return nil, err
		}
		if final != nil {
			b.Final = final
			break
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	if b.Final == nil {
		b.Final = &ast.UnitExpr{}
	}
	return b, nil
}

// parseStmtOrFinal parses one statement (terminated by ';') or, when what
// follows is an expression with no trailing ';' before '}', the block's
// final expression.
func (p *parser) parseStmtOrFinal() (ast.Stmt, ast.Expr, error) {
	if p.tok == token.RETURN {
		pos, err := p.expect(token.RETURN)
		if err != nil {
			return nil, nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, nil, err
		}
		return &ast.ReturnStmt{Pos: pos, Value: e}, nil, nil
	}

	// assign := lowerIdent "=" expr ";" -- but a bare lowerIdent expression
	// with no following '=' is instead the block's final expression (or a
	// function call/identifier statement is not valid without ';'; the only
	// ambiguity is between an assignment and any other expression starting
	// with an identifier).
	if p.tok == token.IDENT && scanner.IsLowerInitial(p.val.Str) {
		save := *p
		name, pos, err := p.expectIdent()
		if err != nil {
			return nil, nil, err
		}
		if p.tok == token.EQ {
			if _, err := p.expect(token.EQ); err != nil {
				return nil, nil, err
			}
			rhs, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			if _, err := p.expect(token.SEMI); err != nil {
				return nil, nil, err
			}
			return &ast.AssignStmt{Pos: pos, Name: name, Right: rhs}, nil, nil
		}
		*p = save
	}

	// Per spec §3/§4.1 a block's only statement kinds are assign and return;
	// any other expression can only be the block's trailing final expression,
	// so it must be followed directly by '}'.
	e, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	return nil, e, nil
}
