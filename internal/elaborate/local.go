package elaborate

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/errors"
)

// LocalElabCx tracks the locals currently in scope while elaborating one
// term: a name -> core.Name map for fast lookup, plus the same set in
// binding order so a placeholder can be abstracted over every local
// currently visible (meta_in_context in elaborate/mod.rs).
type LocalElabCx struct {
	cx            *ElabCx
	locals        map[string]core.Name
	localsInOrder []core.Name
}

func newLocalElabCx(cx *ElabCx) *LocalElabCx {
	return &LocalElabCx{cx: cx, locals: map[string]core.Name{}}
}

// bindPermanent adds a local for the rest of this LocalElabCx's lifetime
// (used for a definition's own parameter telescope, which stays in scope
// for every term elaborated afterwards within the same item).
func (lcx *LocalElabCx) bindPermanent(surface ast.Name, local core.Name) {
	lcx.locals[surface.Repr] = local
	lcx.localsInOrder = append(lcx.localsInOrder, local)
}

// withLocal binds surface -> local only for the duration of f, restoring
// whatever was previously bound under that name afterwards (enter_scope
// in elaborate/mod.rs).
func (lcx *LocalElabCx) withLocal(surface ast.Name, local core.Name, f func() error) error {
	prev, had := lcx.locals[surface.Repr]
	lcx.locals[surface.Repr] = local
	lcx.localsInOrder = append(lcx.localsInOrder, local)

	err := f()

	lcx.localsInOrder = lcx.localsInOrder[:len(lcx.localsInOrder)-1]
	if had {
		lcx.locals[surface.Repr] = prev
	} else {
		delete(lcx.locals, surface.Repr)
	}
	return err
}

// metaInContext mints a metavariable whose own type is Π-abstracted over
// every local currently in scope, then applies it to those locals as a
// spine — so a surface `_` elaborated deep inside nested binders can still
// depend on everything bound around it, per the original's meta_in_context.
func (lcx *LocalElabCx) metaInContext() core.Term {
	tc := lcx.cx.tc
	tyOfResult := tc.Meta(&core.TypeTerm{}).ToTerm()
	metaTy := core.AbstractPi(lcx.localsInOrder, tyOfResult)
	m := tc.Meta(metaTy)

	args := make([]core.Term, len(lcx.localsInOrder))
	for i, l := range lcx.localsInOrder {
		args[i] = l.ToTerm()
	}
	return core.ApplyAll(m.ToTerm(), args)
}

// elaborateTerm is the surface-to-core term translation, dispatching on
// every ast.Term variant (elaborate_term in elaborate/mod.rs).
func (lcx *LocalElabCx) elaborateTerm(t ast.Term) (core.Term, error) {
	switch v := t.(type) {
	case *ast.Literal:
		kind := core.UnitLit
		if v.Kind == ast.IntLit {
			kind = core.IntLit
		}
		return &core.Literal{NodeSpan: v.Pos, Kind: kind, Value: v.Value}, nil

	case *ast.TypeSort:
		return &core.TypeTerm{NodeSpan: v.Pos}, nil

	case *ast.Var:
		if v.Name.Kind == ast.Placeholder {
			return lcx.metaInContext(), nil
		}
		name, err := lcx.resolveName(v.Name)
		if err != nil {
			return nil, err
		}
		return name.ToTerm(), nil

	case *ast.App:
		fn, err := lcx.elaborateTerm(v.Fun)
		if err != nil {
			return nil, err
		}
		arg, err := lcx.elaborateTerm(v.Arg)
		if err != nil {
			return nil, err
		}
		return &core.App{NodeSpan: v.Pos, Fun: fn, Arg: arg}, nil

	case *ast.Forall:
		return lcx.elaborateForallBinders(v.Pos, v.Binders, v.Body)

	case *ast.Lambda:
		return lcx.elaborateLambdaBinders(v.Pos, v.Args, v.Body)

	case *ast.Let:
		return lcx.elaborateLet(v.Pos, v.Bindings, v.Body)

	case *ast.Match:
		return lcx.elaborateMatch(v)

	default:
		return nil, fmt.Errorf("elaborate: unsupported surface term %T", t)
	}
}

func (lcx *LocalElabCx) elaborateForallBinders(pos ast.Pos, binders []ast.Binder, body ast.Term) (core.Term, error) {
	if len(binders) == 0 {
		return lcx.elaborateTerm(body)
	}
	b := binders[0]
	ty, err := lcx.elaborateTerm(b.Ty)
	if err != nil {
		return nil, err
	}
	local := lcx.cx.tc.LocalWithRepr(localRepr(b.Name), ty)

	var inner core.Term
	err = lcx.withLocal(b.Name, local, func() error {
		var e error
		inner, e = lcx.elaborateForallBinders(pos, binders[1:], body)
		return e
	})
	if err != nil {
		return nil, err
	}
	return &core.Forall{NodeSpan: pos, Binder: core.Binder{Name: local, Ty: ty}, Body: inner}, nil
}

func (lcx *LocalElabCx) elaborateLambdaBinders(pos ast.Pos, binders []ast.Binder, body ast.Term) (core.Term, error) {
	if len(binders) == 0 {
		return lcx.elaborateTerm(body)
	}
	b := binders[0]
	ty, err := lcx.elaborateTerm(b.Ty)
	if err != nil {
		return nil, err
	}
	local := lcx.cx.tc.LocalWithRepr(localRepr(b.Name), ty)

	var inner core.Term
	err = lcx.withLocal(b.Name, local, func() error {
		var e error
		inner, e = lcx.elaborateLambdaBinders(pos, binders[1:], body)
		return e
	})
	if err != nil {
		return nil, err
	}
	return &core.Lambda{NodeSpan: pos, Binder: core.Binder{Name: local, Ty: ty}, Body: inner}, nil
}

// elaborateLet desugars `let x [:T] := v; ... in body` as a beta-redex
// `(λ (x:T). rest) v`, one application per binding, innermost-first. The
// original elaborate_term panics on Let ("let bindings can not be
// elaborated") — this is the resolved behavior spec.md §4.4 chose instead
// of leaving `let` unusable: a let-binding is definitionally just an
// immediately-applied lambda, so no new core construct is needed.
func (lcx *LocalElabCx) elaborateLet(pos ast.Pos, bindings []ast.LetBinding, body ast.Term) (core.Term, error) {
	if len(bindings) == 0 {
		return lcx.elaborateTerm(body)
	}
	b := bindings[0]

	val, err := lcx.elaborateTerm(b.Value)
	if err != nil {
		return nil, err
	}

	var ty core.Term
	if b.Ty != nil {
		ty, err = lcx.elaborateTerm(b.Ty)
		if err != nil {
			return nil, err
		}
	} else {
		ty = lcx.cx.meta(lcx.cx.tc.Meta(&core.TypeTerm{}).ToTerm())
	}

	local := lcx.cx.tc.LocalWithRepr(localRepr(b.Name), ty)
	var rest core.Term
	err = lcx.withLocal(b.Name, local, func() error {
		var e error
		rest, e = lcx.elaborateLet(pos, bindings[1:], body)
		return e
	})
	if err != nil {
		return nil, err
	}

	lam := &core.Lambda{NodeSpan: pos, Binder: core.Binder{Name: local, Ty: ty}, Body: rest}
	return &core.App{NodeSpan: pos, Fun: lam, Arg: val}, nil
}

func localRepr(n ast.Name) string {
	if n.Kind == ast.Placeholder {
		return "_"
	}
	return n.Repr
}

// resolveName resolves a surface name occurring in term position: locals
// first, then cx.elaborateName for globals/constructors/imports
// (elaborate_name's resolution order in elaborate/mod.rs).
func (lcx *LocalElabCx) resolveName(n ast.Name) (core.Name, error) {
	if n.Kind == ast.Unqualified {
		if local, ok := lcx.locals[n.Repr]; ok {
			return local.SetSpan(n.Pos), nil
		}
	}
	return lcx.cx.elaborateName(n)
}

// elaborateName resolves a global or constructor reference. A qualified
// name is looked up in the TyCtxt first (names already fully declared,
// e.g. via a prior ElaborateModule call over an imported module), then in
// cx.globals. An unqualified name is looked up in cx.globals, then
// cx.constructors, then the TyCtxt under the current module's name.
// Anything else is an unknown-variable error.
func (cx *ElabCx) elaborateName(n ast.Name) (core.Name, error) {
	switch n.Kind {
	case ast.Qualified:
		name := core.Qualified(n.Components...)
		if cx.tc.InScope(name) {
			return name.SetSpan(n.Pos), nil
		}
		if g, ok := cx.globals[name.String()]; ok {
			return g.SetSpan(n.Pos), nil
		}
		return core.Name{}, unknownVariable(n)
	case ast.Unqualified:
		if g, ok := cx.globals[n.Repr]; ok {
			return g.SetSpan(n.Pos), nil
		}
		if c, ok := cx.constructors[n.Repr]; ok {
			return c.SetSpan(n.Pos), nil
		}
		if owned := cx.moduleName.InScope(n.Repr); cx.tc.InScope(owned) {
			return owned.SetSpan(n.Pos), nil
		}
		return core.Name{}, unknownVariable(n)
	default:
		return core.Name{}, unknownVariable(n)
	}
}

// resolveCtorName resolves a pattern's constructor occurrence the same
// way a term-position reference would, without going through locals
// (constructor patterns never shadow locals).
func (cx *ElabCx) resolveCtorName(n ast.Name) (core.Name, error) {
	return cx.elaborateName(n)
}

func unknownVariable(n ast.Name) error {
	return errors.WrapReport(&errors.Report{
		Schema:  errors.Schema,
		Code:    errors.ELB001,
		Phase:   "elaborate",
		Message: fmt.Sprintf("unknown variable `%s`", n),
	})
}
