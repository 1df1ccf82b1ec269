// Package codegen implements spec §4.3's lowering and code emission pass: it
// walks a type-checked *ast.Program and drives the lang/backend facade to
// build a relocatable object module.
package codegen

import (
	"github.com/mna/elk/lang/ast"
	"github.com/mna/elk/lang/backend"
	"github.com/mna/elk/lang/errs"
	"github.com/mna/elk/lang/token"
	"github.com/mna/elk/lang/types"
)

// Codegen owns the backend module and the scope stack exclusively for the
// duration of one Generate call, per spec §5's single-ownership rule; it is
// not safe for concurrent or repeated use.
type Codegen struct {
	fset    *token.FileSet
	ptrSize int
	mod     *backend.Module
	scope   *scopeStack

	recordOffsets map[string]map[string]int
	recordSizes   map[string]int
	enumOffsets   map[string]map[string][]int
	enumSizes     map[string]int
}

// Generate runs the emission order of spec §4.3 over prog and returns the
// finished backend module, or the first fatal error encountered. prog must
// already have passed infer.Infer: every Expr's AssociatedType must be
// concrete. ptrSize is the target's pointer width in bytes (4 or 8),
// queried once from the backend per spec §6's "pointer-size query".
func Generate(fset *token.FileSet, prog *ast.Program, ptrSize int) (*backend.Module, error) {
	cg := &Codegen{
		fset:          fset,
		ptrSize:       ptrSize,
		mod:           backend.NewModule(ptrSize),
		scope:         newScopeStack(),
		recordOffsets: make(map[string]map[string]int),
		recordSizes:   make(map[string]int),
		enumOffsets:   make(map[string]map[string][]int),
		enumSizes:     make(map[string]int),
	}

	cg.registerTypes(prog.Types)
	cg.declareFunctions(prog.FnDecls)

	for _, impl := range prog.FnImpls {
		if err := cg.emitFunctionBody(impl); err != nil {
			return nil, err
		}
	}
	if err := cg.emitEntryPoint(prog.Main); err != nil {
		return nil, err
	}

	if name, detail, ok := cg.mod.Verify(); !ok {
		return nil, &errs.InternalVerifierError{Function: name, Detail: detail}
	}
	return cg.mod, nil
}

// registerTypes is emission-order step 1: define every custom type into the
// scope and precompute its aggregate layout, with no backend work.
func (cg *Codegen) registerTypes(decls []*ast.CustomType) {
	for _, ct := range decls {
		cg.scope.defineType(ct)
		switch ct.Kind {
		case ast.RecordType:
			offsets, size := recordLayout(ct, cg.ptrSize)
			cg.recordOffsets[ct.Name] = offsets
			cg.recordSizes[ct.Name] = size
		case ast.EnumType:
			offsets, size := enumPayloadLayout(ct, cg.ptrSize)
			cg.enumOffsets[ct.Name] = offsets
			cg.enumSizes[ct.Name] = size
		}
	}
}

// declareFunctions is emission-order step 2: declare every function's
// backend id and linkage-exported symbol before any body is emitted, so a
// call to a function declared later in the source still resolves.
func (cg *Codegen) declareFunctions(decls []*ast.FunctionDeclaration) {
	for _, decl := range decls {
		paramSizes := make([]int, len(decl.Signature.Args))
		for i, a := range decl.Signature.Args {
			paramSizes[i] = a.Size(cg.ptrSize)
		}
		fn := cg.mod.DeclareFunction(decl.Name, backend.LinkageExport, paramSizes, decl.Signature.Return.Size(cg.ptrSize))
		cg.scope.defineFunc(decl.Name, fn, decl.Signature)
	}
}

// emitFunctionBody is emission-order step 3: emit one function implementation
// body inside a new scope, per spec §4.3's "a function body creates one
// entry block, appends the parameters, seals it, binds each parameter name
// to its parameter value, then emits the body and terminates with
// return(<body_value>)".
func (cg *Codegen) emitFunctionBody(impl *ast.FunctionImplementation) error {
	fb, ok := cg.scope.lookupFunc(impl.Name)
	if !ok {
		// The parser's Program invariant guarantees a matching declaration.
		panic("codegen: function " + impl.Name + " has no declaration")
	}

	return cg.scope.scoped(func() error {
		entry := fb.fn.CreateBlock()
		fb.fn.SetCurrentBlock(entry)
		for i, argName := range impl.Args {
			paramVal := fb.fn.AppendParam()
			t := fb.sig.Args[i]
			v := fb.fn.DeclareVar(t.Size(cg.ptrSize))
			fb.fn.DefVar(v, paramVal)
			cg.scope.defineVar(argName, Var{backend: v, size: t.Size(cg.ptrSize)}, t)
		}
		fb.fn.SealBlock(entry)

		return cg.emitFunctionLikeBody(fb.fn, impl.Body)
	})
}

// emitEntryPoint is emission-order step 4: synthesize a "main" declaration
// whose return type is the entry-point block's type, then emit its body.
func (cg *Codegen) emitEntryPoint(main *ast.EntryPoint) error {
	retType := main.Body.Final.Type()
	fn := cg.mod.DeclareFunction("main", backend.LinkageExport, nil, retType.Size(cg.ptrSize))
	cg.scope.defineFunc("main", fn, &types.Signature{Return: retType})

	return cg.scope.scoped(func() error {
		entry := fn.CreateBlock()
		fn.SetCurrentBlock(entry)
		fn.SealBlock(entry)

		return cg.emitFunctionLikeBody(fn, main.Body)
	})
}

// intWidthOf picks the backend integer width materializing t, per spec
// §4.3's type-lowering rule: integers keep their declared width, Bool
// becomes a single byte, and the word-sized kinds (String, Custom,
// Function) take the target's pointer width.
func intWidthOf(t types.Type, ptrSize int) backend.IntWidth {
	switch {
	case t.IsInteger():
		return backend.IntWidth(t.Width())
	case t.Kind() == types.Bool:
		return backend.W8
	default:
		return backend.IntWidth(ptrSize * 8)
	}
}

func floatWidthOf(t types.Type) backend.FloatWidth {
	if t.Kind() == types.F32 {
		return backend.FW32
	}
	return backend.FW64
}
