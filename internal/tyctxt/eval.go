package tyctxt

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/core"
)

// ErrDepthExceeded is returned by Eval when the configured unfolding depth
// is exhausted, guarding against non-terminating delta-unfolding (this
// model allows recursive functions, so termination is not guaranteed by
// construction — see spec.md §4.2 Non-goals).
type ErrDepthExceeded struct{ Depth int }

func (e *ErrDepthExceeded) Error() string {
	return fmt.Sprintf("tyctxt: delta-unfolding exceeded the configured depth (%d)", e.Depth)
}

// Eval reduces t to weak-head normal form: beta-reduction of applied
// lambdas, delta-unfolding of function calls, and iota-reduction of a
// recursor applied to a constructor-headed scrutinee. It never reduces
// under a binder (Lambda/Forall bodies are left alone), matching the
// solver's use of Eval purely to expose a rigid head for simplify.
func (tc *TyCtxt) Eval(t core.Term) (core.Term, error) {
	return tc.evalDepth(t, tc.UnfoldDepth)
}

func (tc *TyCtxt) evalDepth(t core.Term, fuel int) (core.Term, error) {
	if fuel <= 0 {
		return nil, &ErrDepthExceeded{Depth: tc.UnfoldDepth}
	}

	app, ok := t.(*core.App)
	if !ok {
		return t, nil
	}

	head, args := core.Uncurry(app)

	switch h := head.(type) {
	case *core.Var:
		switch h.Name.Kind {
		case core.NQualified:
			if it, ok := tc.Lookup(h.Name); ok {
				if fn, ok := it.(*core.Function); ok {
					unfolded := core.ApplyAll(fn.Body, args)
					return tc.evalDepth(unfolded, fuel-1)
				}
			}
			if ri, ok := tc.recursorByRecName(h.Name); ok {
				reduced, did, err := tc.iotaReduce(ri, args)
				if err != nil {
					return nil, err
				}
				if did {
					return tc.evalDepth(reduced, fuel-1)
				}
			}
			return t, nil
		default:
			return t, nil
		}
	case *core.Lambda:
		// A lambda applied to at least one argument beta-reduces; any
		// remaining args are re-applied to the result.
		reduced := core.Instantiate(h, args[0])
		rest := core.ApplyAll(reduced, args[1:])
		return tc.evalDepth(rest, fuel-1)
	default:
		return t, nil
	}
}

// iotaReduce attempts recursor elimination: ri applied to args, where args
// is [params..., motive, method_1, ..., method_k, scrutinee, extra...].
// If the scrutinee (evaluated to whnf) is headed by one of ri's
// constructors, it reduces to the matching method applied to the
// constructor's fields (each self-recursive field additionally supplying
// the recursive call as its induction hypothesis), with any extra trailing
// args re-applied.
func (tc *TyCtxt) iotaReduce(ri *recursorInfo, args []core.Term) (core.Term, bool, error) {
	scrutinee, has, err := tc.recursorScrutinee(ri, args)
	if err != nil {
		return nil, false, err
	}
	if !has || !recursorCtorHeaded(ri, scrutinee) {
		return nil, false, nil
	}

	methods := args[len(ri.Params)+1 : len(ri.Params)+1+len(ri.Ctors)]
	scrutineeIdx := len(ri.Params) + 1 + len(ri.Ctors)
	extra := args[scrutineeIdx+1:]

	sHead, sArgs := core.Uncurry(scrutinee)
	sVar := sHead.(*core.Var)

	ctorIdx := -1
	for i, c := range ri.Ctors {
		if c.Name.Equal(sVar.Name) {
			ctorIdx = i
			break
		}
	}

	cinfo := ri.Ctors[ctorIdx]
	// The params/motive/methods prefix this recursor was actually called
	// with (not ri's own generic binders) is what any recursive call must
	// reuse, since it re-invokes the same instantiation.
	callPrefix := append([]core.Term{}, args[:len(ri.Params)+1+len(ri.Ctors)]...)

	result := methods[ctorIdx]
	for i, field := range sArgs {
		result = &core.App{Fun: result, Arg: field}
		if cinfo.RecursiveArgs[i] {
			recCall := core.ApplyAll(ri.RecName.ToTerm(), append(append([]core.Term{}, callPrefix...), field))
			result = &core.App{Fun: result, Arg: recCall}
		}
	}
	result = core.ApplyAll(result, extra)
	return result, true, nil
}
