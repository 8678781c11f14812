// Package erase is a minimal demonstrator of the handoff a real compiler
// backend would receive: given an elaborated entry-point core.Function and
// the TyCtxt it was checked against, erase Type-sorted arguments (the
// dependently-typed parameters that only exist to make the elaborator's
// job possible, never to be inspected at runtime) and uncurry application
// spines into n-ary calls.
//
// Grounded on original_source/src/hubris/backend/mod.rs's ErasureCx: its
// lower_def/lower_term walk a core::Definition, uncurry App spines into
// Term::Call, and drop a Lambda's dependent binder while keeping its body
// (see its `Term::Lambda { binder, body, .. } => self.lower_term(*body)`
// case). Erasure here does not affect elaboration or solving: it runs
// strictly after a module has been fully solved and is read-only over
// core.Term/TyCtxt.
package erase

import (
	"fmt"
	"strings"

	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/tyctxt"
)

// globalKey returns a stable map key for a qualified core.Name. Only
// qualified names are ever used as erasure-cache keys.
func globalKey(n core.Name) string {
	return strings.Join(n.Components, ".")
}

// Term is an untyped lambda-calculus term, the shape a backend would lower
// to before emitting code.
type Term interface{ erasedNode() }

// Local is a reference to a lambda-bound (non-erased) parameter.
type Local struct{ Name core.Name }

// Global is a reference to a top-level definition or constructor.
type Global struct{ Name core.Name }

// Call is an n-ary application of Fun to Args, the uncurried form of a
// core.App spine.
type Call struct {
	Fun  Term
	Args []Term
}

// Lambda is an n-ary abstraction over the parameters that survived
// erasure; a parameter that was erased leaves no trace here.
type Lambda struct {
	Params []core.Name
	Body   Term
}

// Lit is a literal value (Unit or an integer), carried through erasure
// unchanged since it already has a runtime representation.
type Lit struct {
	Kind  core.LitKind
	Value int64
}

func (Local) erasedNode()  {}
func (Global) erasedNode() {}
func (Call) erasedNode()   {}
func (Lambda) erasedNode() {}
func (Lit) erasedNode()    {}

// Function is an erased top-level definition, ready for a backend to lower
// further (bytecode, native code, or another IR).
type Function struct {
	Name   core.Name
	Params []core.Name
	Body   Term
}

// Cx holds the per-run erasure state: the TyCtxt being erased from, and a
// cache of which argument positions of each already-erased global were
// dropped, so a call site can erase its own arguments without re-walking
// the callee.
type Cx struct {
	tc     *tyctxt.TyCtxt
	erased map[string][]bool // keyed by globalKey; true at positions that were erased
}

// New returns an erasure context reading from tc.
func New(tc *tyctxt.TyCtxt) *Cx {
	return &Cx{tc: tc, erased: map[string][]bool{}}
}

// isErasedArg reports whether a parameter binding should be dropped: its
// own type is the universe Type, meaning it carries no runtime value.
func isErasedArg(arg core.Name) bool {
	_, ok := arg.Ty.(*core.TypeTerm)
	return ok
}

// EraseFunction lowers fn into its erased form, registering fn's erasure
// mask so later call sites referencing fn.Name erase the same positions.
func (cx *Cx) EraseFunction(fn *core.Function) (*Function, error) {
	mask := make([]bool, len(fn.Args))
	params := make([]core.Name, 0, len(fn.Args))
	for i, arg := range fn.Args {
		if isErasedArg(arg) {
			mask[i] = true
			continue
		}
		params = append(params, arg)
	}
	cx.erased[globalKey(fn.Name)] = mask

	body := fn.Body
	for range fn.Args {
		lam, ok := body.(*core.Lambda)
		if !ok {
			return nil, fmt.Errorf("erase: %s: body has fewer lambdas than declared arguments", fn.Name)
		}
		body = lam.Body
	}

	erasedBody, err := cx.eraseTerm(body)
	if err != nil {
		return nil, err
	}
	return &Function{Name: fn.Name, Params: params, Body: erasedBody}, nil
}

// maskFor returns the erasure mask for a global name, querying the TyCtxt
// for a not-yet-erased Function so forward references still erase
// correctly. Externs and unknown globals have no erasable arguments.
func (cx *Cx) maskFor(name core.Name) []bool {
	key := globalKey(name)
	if mask, ok := cx.erased[key]; ok {
		return mask
	}
	item, ok := cx.tc.Lookup(name)
	if !ok {
		return nil
	}
	fn, ok := item.(*core.Function)
	if !ok {
		return nil
	}
	mask := make([]bool, len(fn.Args))
	for i, arg := range fn.Args {
		mask[i] = isErasedArg(arg)
	}
	cx.erased[key] = mask
	return mask
}

func (cx *Cx) eraseTerm(t core.Term) (Term, error) {
	switch n := t.(type) {
	case *core.Var:
		if n.Name.IsLocal() {
			return Local{Name: n.Name}, nil
		}
		return Global{Name: n.Name}, nil
	case *core.Lambda:
		var params []core.Name
		body := core.Term(n)
		for {
			lam, ok := body.(*core.Lambda)
			if !ok {
				break
			}
			if !isErasedArg(lam.Binder.Name) {
				params = append(params, lam.Binder.Name)
			}
			body = lam.Body
		}
		erasedBody, err := cx.eraseTerm(body)
		if err != nil {
			return nil, err
		}
		return Lambda{Params: params, Body: erasedBody}, nil
	case *core.App:
		head, args := core.Uncurry(n)
		mask := cx.headMask(head)
		var kept []core.Term
		for i, a := range args {
			if i < len(mask) && mask[i] {
				continue
			}
			kept = append(kept, a)
		}
		fun, err := cx.eraseTerm(head)
		if err != nil {
			return nil, err
		}
		erasedArgs := make([]Term, 0, len(kept))
		for _, a := range kept {
			ea, err := cx.eraseTerm(a)
			if err != nil {
				return nil, err
			}
			erasedArgs = append(erasedArgs, ea)
		}
		return Call{Fun: fun, Args: erasedArgs}, nil
	case *core.Literal:
		return Lit{Kind: n.Kind, Value: n.Value}, nil
	case *core.TypeTerm:
		return nil, fmt.Errorf("erase: a bare Type term has no runtime representation")
	default:
		return nil, fmt.Errorf("erase: unhandled term %T", t)
	}
}

func (cx *Cx) headMask(head core.Term) []bool {
	v, ok := head.(*core.Var)
	if !ok || v.Name.Kind != core.NQualified {
		return nil
	}
	return cx.maskFor(v.Name)
}
