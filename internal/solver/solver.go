package solver

import (
	"container/heap"
	"fmt"

	"github.com/hubris-lang/hubris/internal/constraint"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/tyctxt"
)

// TypeError is raised when simplify reaches two terms that are neither
// equal, reducible, nor stuck on a metavariable — a genuine definitional
// mismatch. Its Justification has already been re-evaluated against the
// current solution mapping so it reports the simplest terms possible
// (eval_justification in the original solver.rs).
type TypeError struct {
	J constraint.Justification
}

func (e *TypeError) Error() string { return e.J.String() }

// UnsupportedError is raised when the solver reaches a constraint shape
// its main loop has no resolution strategy for (the original Rust solver
// panics in most of these cases; this implementation reports instead).
type UnsupportedError struct {
	Msg string
}

func (e *UnsupportedError) Error() string { return e.Msg }

type solution struct {
	term core.Term
	j    constraint.Justification
}

// Solver holds the in-progress unification state for one module's
// ConstraintSeq: a priority queue of postponed constraints, a mapping from
// pending metas to the constraints awaiting them, and the metas already
// solved.
type Solver struct {
	tc *tyctxt.TyCtxt

	queue priorityQueue
	// pending indexes queued constraints by the meta (Number) they are
	// still waiting on, so solving that meta can re-visit them.
	pending map[uint64][]constraint.Categorized
	solved  map[uint64]solution

	seq uint64
}

// New creates a solver over cs, simplifying and visiting each constraint
// up front (mirrors Solver::new in solver.rs).
func New(tc *tyctxt.TyCtxt, cs tyctxt.ConstraintSeq) (*Solver, error) {
	s := &Solver{
		tc:      tc,
		pending: map[uint64][]constraint.Categorized{},
		solved:  map[uint64]solution{},
	}
	heap.Init(&s.queue)

	for _, c := range cs {
		if c.Kind != constraint.Unification {
			if err := s.visit(constraint.Categorized{Category: constraint.Categorize(c), Seq: s.nextSeq(), C: c}); err != nil {
				return nil, err
			}
			continue
		}
		simp, err := s.simplify(c.T, c.U, c.J)
		if err != nil {
			return nil, err
		}
		for _, sc := range simp {
			if err := s.visit(sc); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Solver) nextSeq() uint64 {
	n := s.seq
	s.seq++
	return n
}

// solutionFor returns the current solution for a meta (by Number), if any.
func (s *Solver) solutionFor(metaNumber uint64) (solution, bool) {
	sol, ok := s.solved[metaNumber]
	return sol, ok
}

// visit dispatches a categorized constraint: substituting a now-known
// meta's solution and re-simplifying, immediately solving a Pattern
// constraint, or enqueuing it to await its blocking meta.
func (s *Solver) visit(cc constraint.Categorized) error {
	if cc.C.Kind != constraint.Unification {
		return &UnsupportedError{Msg: "solver: choice constraints are not implemented"}
	}
	return s.visitUnification(cc.C.T, cc.C.U, cc.C.J, cc.Category)
}

func (s *Solver) visitUnification(t, u core.Term, j constraint.Justification, category constraint.Category) error {
	tMeta, tStuck := s.tc.IsStuck(t)
	uMeta, uStuck := s.tc.IsStuck(u)

	var meta core.Name
	switch {
	case tStuck && uStuck:
		if _, ok := s.solutionFor(tMeta.Number); ok {
			meta = tMeta
		} else {
			meta = uMeta
		}
	case tStuck:
		meta = tMeta
	case uStuck:
		meta = uMeta
	default:
		return &UnsupportedError{Msg: fmt.Sprintf("solver: visitUnification: neither side of %s ≡ %s is stuck on a meta", t, u)}
	}

	if sol, ok := s.solutionFor(meta.Number); ok {
		simp, err := s.simplify(
			core.InstantiateMeta(t, meta, sol.term),
			core.InstantiateMeta(u, meta, sol.term),
			constraint.Join(j, sol.j),
		)
		if err != nil {
			return err
		}
		for _, sc := range simp {
			if err := s.visit(sc); err != nil {
				return err
			}
		}
		return nil
	}

	if category == constraint.CatPattern {
		return s.solvePattern(t, u, j)
	}

	cc := constraint.Categorized{Category: category, Seq: s.nextSeq(), C: constraint.NewUnification(t, u, j)}
	heap.Push(&s.queue, pqItem{cc})
	s.pending[meta.Number] = append(s.pending[meta.Number], cc)
	return nil
}

// solvePattern resolves `?m l1...lk ≡ rhs` (or the symmetric form) by
// binding ?m to λ l1...lk. rhs and re-visiting every constraint that was
// waiting on ?m. Unlike the original solver.rs (which unconditionally
// takes t's head, a bug when t happens to be the rigid side), this picks
// whichever side is actually the meta-headed pattern spine.
func (s *Solver) solvePattern(t, u core.Term, j constraint.Justification) error {
	patternSide, otherSide := t, u
	if !core.HeadIsMeta(patternSide) {
		patternSide, otherSide = u, t
	}

	headVar, ok := core.Head(patternSide).(*core.Var)
	if !ok || !headVar.Name.IsMeta() {
		return &UnsupportedError{Msg: fmt.Sprintf("solver: solvePattern: %s ≡ %s is not actually a pattern constraint", t, u)}
	}
	meta := headVar.Name

	var locals []core.Name
	for _, a := range core.Args(patternSide) {
		v, ok := a.(*core.Var)
		if ok && v.Name.IsLocal() {
			locals = append(locals, v.Name)
		}
	}

	solTerm := core.AbstractLambda(locals, otherSide)
	s.solved[meta.Number] = solution{term: solTerm, j: j}

	waiting := s.pending[meta.Number]
	delete(s.pending, meta.Number)
	for _, cc := range waiting {
		if err := s.visit(cc); err != nil {
			return err
		}
	}
	return nil
}
