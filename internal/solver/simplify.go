package solver

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/constraint"
	"github.com/hubris-lang/hubris/internal/core"
)

// simplify reduces a single unification constraint `t ≡ u` to zero or more
// categorized constraints, following solver.rs's `simplify` case-by-case:
//
//  1. t and u already syntactically equal: discharged, no constraint.
//  2. either side is bi-reducible: evaluate it to weak-head normal form
//     and recurse.
//  3. both sides are local-headed with equal heads: congruence over args.
//  4. both sides are global-headed with equal heads: congruence over args
//     when the head isn't itself reducible; when it is reducible but the
//     arguments still carry metavariables, the original panics ("f is
//     reducible but metavars are [present]") — spec.md §9 resolves this by
//     parking the whole constraint as flex-rigid instead of decomposing
//     unsoundly under an unresolved head.
//  5. both sides are Π-types: congruence on domain, then on the
//     codomain instantiated at a shared fresh local (Π-Π decomposition).
//  6. otherwise: if either side is still stuck on a meta, postpone it
//     (categorize and requeue); if neither is, this is a genuine
//     definitional mismatch — report it.
func (s *Solver) simplify(t, u core.Term, j constraint.Justification) ([]constraint.Categorized, error) {
	if core.Equals(t, u) {
		return nil, nil
	}

	if s.tc.IsBiReducible(t) {
		tEval, err := s.tc.Eval(t)
		if err != nil {
			return nil, err
		}
		return s.simplify(tEval, u, j)
	}
	if s.tc.IsBiReducible(u) {
		uEval, err := s.tc.Eval(u)
		if err != nil {
			return nil, err
		}
		return s.simplify(t, uEval, j)
	}

	if core.HeadIsLocal(t) && core.HeadIsLocal(u) && core.Equals(core.Head(t), core.Head(u)) {
		return s.simplifyArgsPairwise(t, u, j)
	}

	if core.HeadIsGlobal(t) && core.HeadIsGlobal(u) && core.Equals(core.Head(t), core.Head(u)) {
		head, ok := core.Head(t).(*core.Var)
		if !ok {
			return nil, fmt.Errorf("solver: simplify: global head is not a Var")
		}
		tMetaFree := !anyMetaInArgs(t)
		uMetaFree := !anyMetaInArgs(u)

		if !head.Name.IsBiReducible() {
			return s.simplifyArgsPairwise(t, u, j)
		}
		if tMetaFree && uMetaFree {
			// The head is a reducible global but the IsBiReducible checks
			// above found neither side reducible (IsBiReducible checked
			// whole-term reducibility, not just the head's shape) — most
			// often this means the recursor/function is stuck on too few
			// arguments. Falling back to argument-wise congruence is sound
			// here: if the heads genuinely reduce further, a later pass
			// over the now-smaller subterms will catch it.
			return s.simplifyArgsPairwise(t, u, j)
		}
		// Reducible head, but a metavariable still occurs in one of the
		// spines — congruence doesn't hold under an unresolved head, so
		// park the whole constraint until the meta is solved rather than
		// decomposing it (the resolved behavior for spec.md §9's
		// previously-panicking case).
		return []constraint.Categorized{{Category: constraint.CatFlexRigid, Seq: s.nextSeq(), C: constraint.NewUnification(t, u, j)}}, nil
	}

	if core.IsForall(t) && core.IsForall(u) {
		pi1 := t.(*core.Forall)
		pi2 := u.(*core.Forall)

		argCs, err := s.simplify(pi1.Binder.Ty, pi2.Binder.Ty, j)
		if err != nil {
			return nil, err
		}

		local := s.tc.Local(pi1.Binder)
		tSub := core.Instantiate(pi1, local.ToTerm())
		uSub := core.Instantiate(pi2, local.ToTerm())

		bodyCs, err := s.simplify(tSub, uSub, j)
		if err != nil {
			return nil, err
		}
		return append(argCs, bodyCs...), nil
	}

	if _, stuck := s.tc.IsStuck(t); stuck {
		return []constraint.Categorized{{Category: constraint.Categorize(constraint.NewUnification(t, u, j)), Seq: s.nextSeq(), C: constraint.NewUnification(t, u, j)}}, nil
	}
	if _, stuck := s.tc.IsStuck(u); stuck {
		return []constraint.Categorized{{Category: constraint.Categorize(constraint.NewUnification(t, u, j)), Seq: s.nextSeq(), C: constraint.NewUnification(t, u, j)}}, nil
	}

	evalJ, err := s.evalJustification(j)
	if err != nil {
		return nil, err
	}
	return nil, &TypeError{J: evalJ}
}

func (s *Solver) simplifyArgsPairwise(t, u core.Term, j constraint.Justification) ([]constraint.Categorized, error) {
	tArgs, uArgs := core.Args(t), core.Args(u)
	if len(tArgs) != len(uArgs) {
		return nil, &UnsupportedError{Msg: fmt.Sprintf("solver: simplify: %s and %s share a head but differ in arity", t, u)}
	}
	var cs []constraint.Categorized
	for i := range tArgs {
		sub, err := s.simplify(tArgs[i], uArgs[i], j)
		if err != nil {
			return nil, err
		}
		cs = append(cs, sub...)
	}
	return cs, nil
}

func anyMetaInArgs(t core.Term) bool {
	for _, a := range core.Args(t) {
		if hasMeta(a) {
			return true
		}
	}
	return false
}

func hasMeta(t core.Term) bool {
	switch n := t.(type) {
	case *core.Var:
		return n.Name.IsMeta()
	case *core.App:
		return hasMeta(n.Fun) || hasMeta(n.Arg)
	case *core.Lambda:
		return hasMeta(n.Binder.Ty) || hasMeta(n.Body)
	case *core.Forall:
		return hasMeta(n.Binder.Ty) || hasMeta(n.Body)
	default:
		return false
	}
}
