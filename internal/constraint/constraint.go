// Package constraint defines the unification/choice constraint model the
// elaborator emits and the solver consumes: justifications (why a
// constraint exists), constraints themselves, and their priority
// categorization.
package constraint

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/core"
)

// AssertedByKind discriminates the two leaf reasons a constraint can be
// directly asserted (as opposed to assumed or joined from two others).
type AssertedByKind int

const (
	// Application records that t_fun_ty's argument position was asked to
	// accept t_arg_ty at span.
	Application AssertedByKind = iota
	// ExpectedFound records a declared-vs-inferred type mismatch.
	ExpectedFound
)

// AssertedBy is a leaf justification.
type AssertedBy struct {
	Kind AssertedByKind
	Span ast.Pos

	// Application
	FunTy core.Term
	ArgTy core.Term

	// ExpectedFound: field order matches the original Rust source's
	// `ExpectedFound(infer_ty, ty)` — InferTy is what was inferred,
	// DeclaredTy is what the surface syntax demanded. The error message
	// reads "expected `{DeclaredTy}` found `{InferTy}`" and the span
	// reported is DeclaredTy's.
	InferTy    core.Term
	DeclaredTy core.Term
}

// JustificationKind discriminates the three Justification shapes.
type JustificationKind int

const (
	JAsserted JustificationKind = iota
	JAssumption
	JJoin
)

// Justification is a rose tree recording why a constraint exists. It is
// surfaced only on failure and must remain re-evaluable (see EvalFn in
// the solver package) so metas can be substituted before reporting.
type Justification struct {
	Kind     JustificationKind
	Asserted AssertedBy        // JAsserted
	Left     *Justification    // JJoin
	Right    *Justification    // JJoin
}

// Assumption is the hypothetical justification used for locally-bound
// equalities introduced while descending under binders (e.g. Π-Π).
func Assumption() Justification { return Justification{Kind: JAssumption} }

// AssertedJ wraps a leaf reason.
func AssertedJ(by AssertedBy) Justification {
	return Justification{Kind: JAsserted, Asserted: by}
}

// Join combines two justifications whose combined reasons led to a
// derived constraint.
func Join(j1, j2 Justification) Justification {
	return Justification{Kind: JJoin, Left: &j1, Right: &j2}
}

func (j Justification) String() string {
	switch j.Kind {
	case JAsserted:
		switch j.Asserted.Kind {
		case Application:
			return fmt.Sprintf("a term with type `%s` can not be applied to an argument with type `%s`", j.Asserted.FunTy, j.Asserted.ArgTy)
		case ExpectedFound:
			return fmt.Sprintf("expected `%s` found `%s`", j.Asserted.DeclaredTy, j.Asserted.InferTy)
		}
		return "asserted"
	case JAssumption:
		return "assumption"
	case JJoin:
		return fmt.Sprintf("(%s; %s)", j.Left, j.Right)
	default:
		return "<bad-justification>"
	}
}

// Kind discriminates Constraint.
type Kind int

const (
	Unification Kind = iota
	Choice
)

// Constraint is either `t ≡ u` (Unification) or a branching Choice
// (reserved; see spec.md §9 — Choice is not solved, only categorized and
// rejected loudly if it reaches the solver's main loop).
type Constraint struct {
	Kind Kind
	T, U core.Term // Unification
	J    Justification
}

// NewUnification builds a unification constraint.
func NewUnification(t, u core.Term, j Justification) Constraint {
	return Constraint{Kind: Unification, T: t, U: u, J: j}
}

func (c Constraint) String() string {
	switch c.Kind {
	case Unification:
		return fmt.Sprintf("%s ≡ %s", c.T, c.U)
	case Choice:
		return "<choice>"
	default:
		return "<bad-constraint>"
	}
}

// Category is the solver's priority classification for a constraint.
// Processing order is given by Rank (lower rank first), not by the
// numeric value of the constant.
type Category int

const (
	CatResolved Category = iota
	CatPattern
	CatFlexRigid
	CatReady
	CatRegular
	CatFlexFlex
	CatPostponed
)

// rank defines processing priority, highest-priority first:
// Pattern > FlexRigid > Regular > FlexFlex > Postponed.
// CatResolved/CatReady are terminal — they should never reach the queue.
var rank = map[Category]int{
	CatPattern:   0,
	CatFlexRigid: 1,
	CatRegular:   2,
	CatFlexFlex:  3,
	CatPostponed: 4,
	CatReady:     5,
	CatResolved:  5,
}

// Rank returns c's scheduling priority (lower pops first).
func (c Category) Rank() int { return rank[c] }

func (c Category) String() string {
	switch c {
	case CatResolved:
		return "resolved"
	case CatPattern:
		return "pattern"
	case CatFlexRigid:
		return "flex-rigid"
	case CatFlexFlex:
		return "flex-flex"
	case CatReady:
		return "ready"
	case CatRegular:
		return "regular"
	case CatPostponed:
		return "postponed"
	default:
		return "unknown"
	}
}

// Categorized pairs a constraint with its classification and a
// monotonic sequence number, used by the solver's priority queue to
// break ties FIFO (spec.md §9).
type Categorized struct {
	Category Category
	Seq      uint64
	C        Constraint
}

// Categorize classifies a unification constraint by inspecting its
// heads, per spec.md §4.4.
//
//   - both spines fully grounded and heads equal        -> Ready
//   - one side is `?m l1 ... lk`, all li distinct locals -> Pattern
//   - both sides meta-headed                             -> FlexFlex
//   - one side meta-headed, other rigid                  -> FlexRigid
//   - otherwise                                           -> Regular
func Categorize(c Constraint) Category {
	if c.Kind == Choice {
		return CatPostponed
	}
	tMeta := core.HeadIsMeta(c.T)
	uMeta := core.HeadIsMeta(c.U)

	switch {
	case tMeta && uMeta:
		return CatFlexFlex
	case tMeta && isPatternSpine(c.T):
		return CatPattern
	case uMeta && isPatternSpine(c.U):
		return CatPattern
	case tMeta != uMeta:
		return CatFlexRigid
	case !tMeta && !uMeta && noMetaInSpines(c.T) && noMetaInSpines(c.U) && core.Equals(core.Head(c.T), core.Head(c.U)):
		return CatReady
	default:
		return CatRegular
	}
}

// isPatternSpine reports whether t is `?m l1 ... lk` with every li a
// distinct local variable.
func isPatternSpine(t core.Term) bool {
	args := core.Args(t)
	seen := map[uint64]bool{}
	for _, a := range args {
		v, ok := a.(*core.Var)
		if !ok || !v.Name.IsLocal() {
			return false
		}
		if seen[v.Name.ID] {
			return false
		}
		seen[v.Name.ID] = true
	}
	return true
}

func noMetaInSpines(t core.Term) bool {
	for _, a := range core.Args(t) {
		if hasMeta(a) {
			return false
		}
	}
	return true
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
