// Package elaborate turns a surface module (internal/ast) into a core
// module (internal/core) registered in a internal/tyctxt.TyCtxt: resolving
// names, minting metavariables for placeholders, pre-registering a
// datatype's recursor before its constructors are elaborated, and
// desugaring `let` and pattern matches into the core calculus's explicit
// binders and recursor applications.
//
// Grounded directly on original_source/src/hubris/elaborate/mod.rs's
// ElabCx/LocalElabCx split and its elaborate_module/elaborate_data/
// elaborate_fn/elaborate_term/elaborate_name pipeline.
package elaborate

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/errors"
	"github.com/hubris-lang/hubris/internal/surface"
	"github.com/hubris-lang/hubris/internal/tyctxt"
)

// ElabCx is the per-module elaboration state: the shared typing context,
// this module's own qualified name, and two forward-declaration maps that
// let later items reference earlier ones (and a datatype's recursor
// reference its own not-yet-fully-declared constructors) before the
// corresponding TyCtxt.DeclareX call has run.
type ElabCx struct {
	tc         *tyctxt.TyCtxt
	moduleName core.Name

	// constructors maps a constructor's bare surface name to its
	// qualified core name, populated during elaborateModule's pre-scan
	// so any item can reference a constructor declared later in the
	// same module.
	constructors map[string]core.Name

	// globals maps a top-level surface name to its qualified core name:
	// datatypes, functions and externs under their bare name, recursors
	// and imported names under their full qualified spelling (e.g.
	// `M.T.rec`). A recursor's
	// name is entered here before its datatype's constructors are
	// elaborated, matching elaborate_data's registration order.
	globals map[string]core.Name
}

// NewElabCx creates an elaboration context over tc for the module named
// moduleName (already resolved to a qualified core name).
func NewElabCx(tc *tyctxt.TyCtxt, moduleName core.Name) *ElabCx {
	return &ElabCx{
		tc:           tc,
		moduleName:   moduleName,
		constructors: map[string]core.Name{},
		globals:      map[string]core.Name{},
	}
}

// ModuleName converts a surface module name into a qualified core name:
// dotted Qualified names keep their components, bare Unqualified names
// become a single-component qualified name.
func ModuleName(n ast.Name) core.Name {
	switch n.Kind {
	case ast.Qualified:
		return core.Qualified(n.Components...)
	default:
		return core.Qualified(n.Repr)
	}
}

func (cx *ElabCx) meta(ty core.Term) core.Term { return cx.tc.Meta(ty).ToTerm() }

// makePlaceholder mints a bare value metavariable boxed by a bare type
// metavariable, for a surface `_` occurring with no local context to
// abstract over (top-level extern types, for instance).
func (cx *ElabCx) makePlaceholder() core.Term {
	tyMeta := cx.tc.Meta(&core.TypeTerm{})
	return cx.meta(tyMeta.ToTerm())
}

// ElaborateModule elaborates every item of m into a *core.Module,
// registering each into tc as it goes. Errors from independent items are
// accumulated and joined, mirroring elaborate_module's Error::Many; the
// caller still receives every item that elaborated cleanly via the
// returned module (best-effort, for tooling that wants partial results).
func ElaborateModule(tc *tyctxt.TyCtxt, m *ast.Module) (*core.Module, error) {
	surface.Normalize(m)
	cx := NewElabCx(tc, ModuleName(m.Name))

	var errs []error

	// Pass 1: pre-scan constructors (so forward references resolve) and
	// load imports (so their globals are visible to pass 2).
	for _, decl := range m.Decls {
		switch d := decl.(type) {
		case *ast.Inductive:
			dataName := cx.moduleName.InScope(d.Name.String())
			for _, ctor := range d.Ctors {
				cx.constructors[ctor.Name.String()] = dataName.InScope(ctor.Name.String())
			}
		case *ast.Import:
			if err := cx.elaborateImport(d); err != nil {
				errs = append(errs, err)
			}
		}
	}

	var decls []core.Item
	for _, decl := range m.Decls {
		switch d := decl.(type) {
		case *ast.Inductive:
			data, err := cx.elaborateData(d)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := tc.DeclareDatatype(data); err != nil {
				errs = append(errs, err)
				continue
			}
			decls = append(decls, data)
		case *ast.Def:
			fn, err := cx.elaborateFn(d)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			tc.DeclareDef(fn)
			decls = append(decls, fn)
		case *ast.Extern:
			ext, err := cx.elaborateExtern(d)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			tc.DeclareExtern(ext)
			decls = append(decls, ext)
		case *ast.Import, *ast.Comment:
			// handled in pass 1 / carries no semantic content
		default:
			errs = append(errs, errors.WrapReport(&errors.Report{
				Schema:  errors.Schema,
				Code:    errors.ELB004,
				Phase:   "elaborate",
				Message: fmt.Sprintf("unsupported top-level item %T", d),
			}))
		}
	}

	imports := make([]core.Name, len(m.Imports))
	for i, im := range m.Imports {
		imports[i] = ModuleName(im)
	}

	mod := &core.Module{Name: cx.moduleName, FileName: m.FilePath, Imports: imports, Decls: decls}

	if len(errs) > 0 {
		return mod, joinErrors(errs)
	}
	return mod, nil
}

func joinErrors(errs []error) error {
	reports := make([]*errors.Report, len(errs))
	for i, e := range errs {
		if rep, ok := errors.AsReport(e); ok {
			reports[i] = rep
			continue
		}
		reports[i] = errors.NewGeneric("elaborate", e)
	}
	return &errors.Many{Reports: reports}
}

func (cx *ElabCx) elaborateImport(im *ast.Import) error {
	name := ModuleName(im.Name)
	if cx.tc.Importer == nil {
		return errors.WrapReport(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.LDR001,
			Phase:   "loader",
			Message: fmt.Sprintf("no importer configured; cannot load %s", name),
		})
	}
	if err := cx.tc.LoadImport(".", name); err != nil {
		return err
	}
	cx.globals[name.String()] = name
	return nil
}

// elaborateData elaborates one inductive declaration: its parameter
// telescope, its own type, and each constructor's type — with the
// recursor's name entered into cx.globals *before* any constructor is
// elaborated, so a constructor field that (indirectly, via a later
// function) needs to reference `T.rec` can already see it.
func (cx *ElabCx) elaborateData(d *ast.Inductive) (*core.Data, error) {
	dataName := cx.moduleName.InScope(d.Name.String())
	lcx := newLocalElabCx(cx)

	params := make([]core.Name, len(d.Parameters))
	for i, p := range d.Parameters {
		ty, err := lcx.elaborateTerm(p.Ty)
		if err != nil {
			return nil, err
		}
		local := cx.tc.LocalWithRepr(p.Name.Repr, ty)
		lcx.bindPermanent(p.Name, local)
		params[i] = local
	}

	ty, err := lcx.elaborateTerm(d.Ty)
	if err != nil {
		return nil, err
	}
	ty = core.AbstractPi(params, ty)

	cx.globals[d.Name.String()] = dataName
	cx.globals[dataName.InScope("rec").String()] = dataName.InScope("rec")

	ctors := make([]core.Ctor, len(d.Ctors))
	for i, c := range d.Ctors {
		ctorName := dataName.InScope(c.Name.String())
		ctorTy, err := lcx.elaborateTerm(c.Ty)
		if err != nil {
			return nil, err
		}
		ctorTy = core.AbstractPi(params, ctorTy)
		ctors[i] = core.Ctor{Name: ctorName, Ty: ctorTy}
		cx.constructors[c.Name.String()] = ctorName
	}

	return &core.Data{Name: dataName, Parameters: params, Ty: ty, Ctors: ctors}, nil
}

func (cx *ElabCx) elaborateFn(d *ast.Def) (*core.Function, error) {
	name := cx.moduleName.InScope(d.Name.String())
	lcx := newLocalElabCx(cx)

	args := make([]core.Name, len(d.Args))
	for i, a := range d.Args {
		ty, err := lcx.elaborateTerm(a.Ty)
		if err != nil {
			return nil, err
		}
		local := cx.tc.LocalWithRepr(a.Name.Repr, ty)
		lcx.bindPermanent(a.Name, local)
		args[i] = local
	}

	var retTy core.Term
	var err error
	if d.Ty != nil {
		retTy, err = lcx.elaborateTerm(d.Ty)
		if err != nil {
			return nil, err
		}
	} else {
		retTy = lcx.metaInContext()
	}

	body, err := lcx.elaborateTerm(d.Body)
	if err != nil {
		return nil, err
	}

	cx.globals[d.Name.String()] = name
	return &core.Function{
		Name:  name,
		Args:  args,
		RetTy: core.AbstractPi(args, retTy),
		Body:  core.AbstractLambda(args, body),
	}, nil
}

func (cx *ElabCx) elaborateExtern(d *ast.Extern) (*core.Extern, error) {
	name := cx.moduleName.InScope(d.Name.String())
	lcx := newLocalElabCx(cx)
	term, err := lcx.elaborateTerm(d.Term)
	if err != nil {
		return nil, err
	}
	cx.globals[d.Name.String()] = name
	return &core.Extern{Name: name, Term: term}, nil
}
