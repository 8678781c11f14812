package tyctxt

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/constraint"
	"github.com/hubris-lang/hubris/internal/core"
)

// ConstraintSeq is the sequence of constraints a module's type-check pass
// emits, consumed by internal/solver.
type ConstraintSeq = []constraint.Constraint

// TypeCheckModule infers each declared item and returns the constraints
// whose satisfaction entails the module is well-typed modulo definitional
// equality. This is intentionally a thin, syntax-directed inference pass,
// not a general bidirectional checker (spec.md §4.2 scopes full
// type-checking out) — it exists only to produce the ConstraintSeq the
// solver needs for the scenarios in spec.md §8 (applying polymorphic
// functions, placeholder inference, recursor elimination, declared-type
// mismatches). Mirrors elaborate_fn's own `ret_ty`/`body` pairing in
// original_source/src/hubris/elaborate/mod.rs, generalized from one
// function body to a whole module.
func (tc *TyCtxt) TypeCheckModule(m *core.Module) (ConstraintSeq, error) {
	var cs ConstraintSeq
	for _, item := range m.Decls {
		switch it := item.(type) {
		case *core.Function:
			bodyTy, bcs, err := tc.infer(it.Body)
			if err != nil {
				return nil, err
			}
			cs = append(cs, bcs...)
			cs = append(cs, constraint.NewUnification(
				bodyTy, it.RetTy,
				constraint.AssertedJ(constraint.AssertedBy{
					Kind:       constraint.ExpectedFound,
					InferTy:    bodyTy,
					DeclaredTy: it.RetTy,
				}),
			))
		case *core.Data, *core.Extern:
			// Constructors and externs are taken as given (no body to
			// check against a declared type) — see spec.md §4.2.
		default:
			return nil, fmt.Errorf("tyctxt: TypeCheckModule: unhandled item %T", item)
		}
	}
	return cs, nil
}

// infer synthesizes term's type along with any constraints incurred while
// doing so (currently: one Application-justified unification per
// function application). Because every core Name self-describes its type
// (Name.Ty), there is no separate typing environment to thread — a local
// or meta's type is read directly off its occurrence.
func (tc *TyCtxt) infer(term core.Term) (core.Term, ConstraintSeq, error) {
	switch t := term.(type) {
	case *core.TypeTerm:
		// Type : Type. Universe inconsistency is out of scope (spec.md §4.2).
		return &core.TypeTerm{}, nil, nil

	case *core.Literal:
		switch t.Kind {
		case core.UnitLit:
			return core.Qualified("Unit").ToTerm(), nil, nil
		default:
			return core.Qualified("Int").ToTerm(), nil, nil
		}

	case *core.Var:
		if t.Name.Kind == core.NLocal || t.Name.Kind == core.NMeta {
			return t.Name.Ty, nil, nil
		}
		ty, ok := tc.TypeOf(t.Name)
		if !ok {
			return nil, nil, fmt.Errorf("tyctxt: infer: unresolved global %s", t.Name)
		}
		return ty, nil, nil

	case *core.Lambda:
		bodyTy, bcs, err := tc.infer(t.Body)
		if err != nil {
			return nil, nil, err
		}
		return &core.Forall{Binder: t.Binder, Body: bodyTy}, bcs, nil

	case *core.Forall:
		// A Forall classifies as Type; its binder and body are themselves
		// well-formed by construction (elaboration only ever builds
		// Foralls over elaborated terms).
		return &core.TypeTerm{}, nil, nil

	case *core.App:
		funTy, fcs, err := tc.infer(t.Fun)
		if err != nil {
			return nil, nil, err
		}
		funWhnf, err := tc.Eval(funTy)
		if err != nil {
			return nil, nil, err
		}
		argTy, acs, err := tc.infer(t.Arg)
		if err != nil {
			return nil, nil, err
		}

		cs := append(fcs, acs...)

		pi, ok := funWhnf.(*core.Forall)
		if !ok {
			return nil, nil, fmt.Errorf("tyctxt: infer: applying a non-function type %s", funWhnf)
		}

		cs = append(cs, constraint.NewUnification(
			pi.Binder.Ty, argTy,
			constraint.AssertedJ(constraint.AssertedBy{
				Kind:  constraint.Application,
				FunTy: funWhnf,
				ArgTy: argTy,
			}),
		))

		resultTy := core.Instantiate(pi, t.Arg)
		return resultTy, cs, nil

	default:
		return nil, nil, fmt.Errorf("tyctxt: infer: unhandled term %T", term)
	}
}
