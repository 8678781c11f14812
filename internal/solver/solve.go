package solver

import (
	"container/heap"
	"fmt"

	"github.com/hubris-lang/hubris/internal/constraint"
	"github.com/hubris-lang/hubris/internal/core"
)

// Solution is a solved metavariable's term and the justification that
// produced it, returned to callers who need to report or substitute it.
type Solution struct {
	Term          core.Term
	Justification constraint.Justification
}

// Solve drains the priority queue, the original BinaryHeap main loop in
// solver.rs. A queued constraint whose blocking meta has been solved since
// it was parked (its queue entry outlives the re-visit solvePattern makes
// through s.pending) is visited again with that solution substituted. Of
// the rest, FlexFlex constraints are resolved here and any other category
// is reported as unresolved — spec.md §9 resolves the FlexFlex case's copy-paste bug
// (the original compares t_head against itself, never u_head) by actually
// comparing both heads.
func (s *Solver) Solve() (map[uint64]Solution, error) {
	for s.queue.Len() > 0 {
		item := heap.Pop(&s.queue).(pqItem)
		cc := item.cc

		if cc.C.Kind != constraint.Unification {
			return nil, &UnsupportedError{Msg: "solver: choice constraints are not implemented"}
		}
		t, u, j := cc.C.T, cc.C.U, cc.C.J

		tMeta, tStuck := s.tc.IsStuck(t)
		uMeta, uStuck := s.tc.IsStuck(u)
		_, tSolved := s.solutionFor(tMeta.Number)
		_, uSolved := s.solutionFor(uMeta.Number)
		if (tStuck && tSolved) || (uStuck && uSolved) {
			if err := s.visitUnification(t, u, j, cc.Category); err != nil {
				return nil, err
			}
			continue
		}

		switch cc.Category {
		case constraint.CatFlexFlex:
			tHeadVar, ok1 := core.Head(t).(*core.Var)
			uHeadVar, ok2 := core.Head(u).(*core.Var)
			if !ok1 || !ok2 {
				return nil, &UnsupportedError{Msg: fmt.Sprintf("solver: FlexFlex constraint %s ≡ %s is not meta-headed on both sides", t, u)}
			}
			tHead, uHead := tHeadVar.Name, uHeadVar.Name

			tSol, tOk := s.solutionFor(tHead.Number)
			uSol, uOk := s.solutionFor(uHead.Number)

			switch {
			case tOk && uOk:
				if !core.Equals(tSol.term, uSol.term) {
					return nil, &UnsupportedError{Msg: fmt.Sprintf("solver: flex-flex solutions for %s and %s disagree", tHead, uHead)}
				}
			case tHead.Equal(uHead):
				// Same meta applied to (possibly different) locals on
				// each side; sound to decompose argument-wise.
				sub, err := s.simplifyArgsPairwise(t, u, j)
				if err != nil {
					return nil, err
				}
				for _, sc := range sub {
					if err := s.visit(sc); err != nil {
						return nil, err
					}
				}
			case tOk != uOk:
				known, knownName := tSol, tHead
				if uOk {
					known, knownName = uSol, uHead
				}
				sub, err := s.simplify(
					core.InstantiateMeta(t, knownName, known.term),
					core.InstantiateMeta(u, knownName, known.term),
					constraint.Join(j, known.j),
				)
				if err != nil {
					return nil, err
				}
				for _, sc := range sub {
					if err := s.visit(sc); err != nil {
						return nil, err
					}
				}
			default:
				return nil, &UnsupportedError{Msg: fmt.Sprintf("solver: unresolved flex-flex constraint %s ≡ %s (%s)", t, u, j)}
			}

		default:
			return nil, &UnsupportedError{Msg: fmt.Sprintf("solver: cannot resolve a %s constraint %s ≡ %s (%s)", cc.Category, t, u, j)}
		}
	}

	out := make(map[uint64]Solution, len(s.solved))
	for k, v := range s.solved {
		out[k] = Solution{Term: v.term, Justification: v.j}
	}
	return out, nil
}

// UnresolvedMetaError reports a metavariable that survived Solve with no
// recorded solution. replace_metavars in solver.rs panics in this case;
// spec.md §4.4 asks for a reported error instead since this is reachable
// from a genuinely under-constrained (rather than merely buggy) program.
type UnresolvedMetaError struct {
	Meta core.Name
}

func (e *UnresolvedMetaError) Error() string {
	return fmt.Sprintf("solver: metavariable %s has no solution", e.Meta)
}

// ReplaceMetavars substitutes every solved metavariable in t using sols
// (as returned by Solve), recursively so a solution that itself mentions
// another solved meta is fully expanded. An unsolved meta is reported as
// an UnresolvedMetaError rather than silently left in place, per spec.md
// §4.4 — this is the final substitution pass run over a module's items
// once solving has finished, as opposed to evalJustification's
// best-effort substitution used only for diagnostics mid-solve.
func ReplaceMetavars(t core.Term, sols map[uint64]Solution) (core.Term, error) {
	switch n := t.(type) {
	case *core.TypeTerm, *core.Literal:
		return t, nil
	case *core.Var:
		if n.Name.Kind != core.NMeta {
			return t, nil
		}
		sol, ok := sols[n.Name.Number]
		if !ok {
			return nil, &UnresolvedMetaError{Meta: n.Name}
		}
		return ReplaceMetavars(sol.Term, sols)
	case *core.App:
		fn, err := ReplaceMetavars(n.Fun, sols)
		if err != nil {
			return nil, err
		}
		arg, err := ReplaceMetavars(n.Arg, sols)
		if err != nil {
			return nil, err
		}
		return &core.App{NodeSpan: n.NodeSpan, Fun: fn, Arg: arg}, nil
	case *core.Lambda:
		ty, err := ReplaceMetavars(n.Binder.Ty, sols)
		if err != nil {
			return nil, err
		}
		body, err := ReplaceMetavars(n.Body, sols)
		if err != nil {
			return nil, err
		}
		return &core.Lambda{NodeSpan: n.NodeSpan, Binder: core.Binder{Name: n.Binder.Name, Ty: ty}, Body: body}, nil
	case *core.Forall:
		ty, err := ReplaceMetavars(n.Binder.Ty, sols)
		if err != nil {
			return nil, err
		}
		body, err := ReplaceMetavars(n.Body, sols)
		if err != nil {
			return nil, err
		}
		return &core.Forall{NodeSpan: n.NodeSpan, Binder: core.Binder{Name: n.Binder.Name, Ty: ty}, Body: body}, nil
	default:
		return nil, fmt.Errorf("solver: ReplaceMetavars: unhandled term %T", t)
	}
}

// ReplaceMetavarsItem applies ReplaceMetavars to every term held by a
// declared item, returning a new item with every metavariable resolved —
// the "fully explicit core term" spec.md §2's data flow ends with.
func ReplaceMetavarsItem(item core.Item, sols map[uint64]Solution) (core.Item, error) {
	switch it := item.(type) {
	case *core.Function:
		retTy, err := ReplaceMetavars(it.RetTy, sols)
		if err != nil {
			return nil, err
		}
		body, err := ReplaceMetavars(it.Body, sols)
		if err != nil {
			return nil, err
		}
		return &core.Function{Name: it.Name, Args: it.Args, RetTy: retTy, Body: body}, nil
	case *core.Data:
		ty, err := ReplaceMetavars(it.Ty, sols)
		if err != nil {
			return nil, err
		}
		ctors := make([]core.Ctor, len(it.Ctors))
		for i, c := range it.Ctors {
			cty, err := ReplaceMetavars(c.Ty, sols)
			if err != nil {
				return nil, err
			}
			ctors[i] = core.Ctor{Name: c.Name, Ty: cty}
		}
		return &core.Data{Name: it.Name, Parameters: it.Parameters, Ty: ty, Ctors: ctors}, nil
	case *core.Extern:
		term, err := ReplaceMetavars(it.Term, sols)
		if err != nil {
			return nil, err
		}
		return &core.Extern{Name: it.Name, Term: term}, nil
	default:
		return nil, fmt.Errorf("solver: ReplaceMetavarsItem: unhandled item %T", item)
	}
}

// evalJustification substitutes every currently-known meta solution into
// j's asserted terms and evaluates them, so a reported error shows the
// simplest terms possible (eval_justification in solver.rs).
func (s *Solver) evalJustification(j constraint.Justification) (constraint.Justification, error) {
	switch j.Kind {
	case constraint.JAsserted:
		by := j.Asserted
		switch by.Kind {
		case constraint.Application:
			ft, err := s.evalReplaced(by.FunTy)
			if err != nil {
				return j, err
			}
			at, err := s.evalReplaced(by.ArgTy)
			if err != nil {
				return j, err
			}
			by.FunTy, by.ArgTy = ft, at
		case constraint.ExpectedFound:
			it, err := s.evalReplaced(by.InferTy)
			if err != nil {
				return j, err
			}
			dt, err := s.evalReplaced(by.DeclaredTy)
			if err != nil {
				return j, err
			}
			by.InferTy, by.DeclaredTy = it, dt
		}
		return constraint.AssertedJ(by), nil
	case constraint.JJoin:
		j1, err := s.evalJustification(*j.Left)
		if err != nil {
			return j, err
		}
		j2, err := s.evalJustification(*j.Right)
		if err != nil {
			return j, err
		}
		return constraint.Join(j1, j2), nil
	default:
		return j, nil
	}
}

func (s *Solver) evalReplaced(t core.Term) (core.Term, error) {
	replaced := replaceMetavars(t, s.solved)
	if s.tc.IsBiReducible(replaced) {
		return s.tc.Eval(replaced)
	}
	return replaced, nil
}

// replaceMetavars substitutes every solved metavariable occurring in t.
// Unlike replace_metavars in solver.rs (which panics when a meta has no
// recorded solution), an unresolved meta is left as-is: this function is
// used for best-effort diagnostic simplification, where a still-open meta
// should just print as itself.
func replaceMetavars(t core.Term, solved map[uint64]solution) core.Term {
	switch n := t.(type) {
	case *core.TypeTerm, *core.Literal:
		return t
	case *core.Var:
		if n.Name.Kind == core.NMeta {
			if sol, ok := solved[n.Name.Number]; ok {
				return replaceMetavars(sol.term, solved)
			}
		}
		return t
	case *core.App:
		return &core.App{NodeSpan: n.NodeSpan, Fun: replaceMetavars(n.Fun, solved), Arg: replaceMetavars(n.Arg, solved)}
	case *core.Lambda:
		return &core.Lambda{
			NodeSpan: n.NodeSpan,
			Binder:   core.Binder{Name: n.Binder.Name, Ty: replaceMetavars(n.Binder.Ty, solved)},
			Body:     replaceMetavars(n.Body, solved),
		}
	case *core.Forall:
		return &core.Forall{
			NodeSpan: n.NodeSpan,
			Binder:   core.Binder{Name: n.Binder.Name, Ty: replaceMetavars(n.Binder.Ty, solved)},
			Body:     replaceMetavars(n.Body, solved),
		}
	default:
		return t
	}
}
