// Package tyctxt is the global typing context: the table of declared
// datatypes, functions, and externs an elaborated module accumulates into,
// the monotonic local-identity and metavariable counters that back
// internal/core's named-local representation, and weak-head evaluation
// (delta/iota reduction) bounded by a configurable unfolding depth.
//
// Grounded on original_source/src/hubris/elaborate/mod.rs's TyCtxt usage
// (local_with_repr, in_scope, declare_datatype/def/extern, load_import) and
// the teacher's internal/types package for the Go idiom of a mutable
// environment struct with constructor-style declare methods.
package tyctxt

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/core"
)

// Importer loads another module's declarations given a search directory and
// the qualified module name, registering them into the caller's TyCtxt.
// Supplied by internal/module so tyctxt has no import-time dependency on
// the loader (avoids an import cycle; loader depends on tyctxt instead).
type Importer func(tc *TyCtxt, dir string, name core.Name) error

// TyCtxt is the elaborator's and solver's shared global environment.
type TyCtxt struct {
	items map[string]core.Item // keyed by key(name)
	order []string             // insertion order, for deterministic iteration

	recursors map[string]*recursorInfo // keyed by key(datatype name)

	localCounter uint64
	metaCounter  uint64

	// UnfoldDepth bounds delta-unfolding during Eval; see internal/config.
	UnfoldDepth int

	Importer Importer
}

// defaultUnfoldDepth mirrors internal/config.DefaultUnfoldDepth, so a caller
// with no manifest (or no explicit unfold_depth) gets the same bound a
// configured project's default manifest would produce.
const defaultUnfoldDepth = 128

// New returns an empty typing context with the default unfolding depth.
func New() *TyCtxt {
	return NewWithDepth(defaultUnfoldDepth)
}

// NewWithDepth returns an empty typing context with an explicit unfolding
// depth, e.g. a project manifest's unfold_depth (see internal/config).
func NewWithDepth(depth int) *TyCtxt {
	return &TyCtxt{
		items:       map[string]core.Item{},
		recursors:   map[string]*recursorInfo{},
		UnfoldDepth: depth,
	}
}

func key(n core.Name) string {
	switch n.Kind {
	case core.NQualified:
		s := ""
		for i, c := range n.Components {
			if i > 0 {
				s += "."
			}
			s += c
		}
		return s
	default:
		panic("tyctxt: only qualified names are used as item keys")
	}
}

// LocalWithRepr mints a fresh local identity carrying ty as its
// context-entry type and repr as its printable name.
func (tc *TyCtxt) LocalWithRepr(repr string, ty core.Term) core.Name {
	id := tc.localCounter
	tc.localCounter++
	return core.Name{Kind: core.NLocal, ID: id, Repr: repr, Ty: ty}
}

// Local mints a fresh local from an existing binder, reusing its repr.
func (tc *TyCtxt) Local(b core.Binder) core.Name {
	return tc.LocalWithRepr(b.Name.Repr, b.Ty)
}

// Meta mints a fresh metavariable boxing ty.
func (tc *TyCtxt) Meta(ty core.Term) core.Name {
	n := tc.metaCounter
	tc.metaCounter++
	return core.Name{Kind: core.NMeta, Number: n, Ty: ty}
}

// InScope reports whether name is a declared qualified item.
func (tc *TyCtxt) InScope(name core.Name) bool {
	if name.Kind != core.NQualified {
		return false
	}
	_, ok := tc.items[key(name)]
	return ok
}

// Lookup returns the declared item for a qualified name, if any.
func (tc *TyCtxt) Lookup(name core.Name) (core.Item, bool) {
	it, ok := tc.items[key(name)]
	return it, ok
}

// TypeOf returns the declared type of a qualified global: a Data's own
// (parameter-abstracted) type, a Ctor's type, a Function's ret_ty, or an
// Extern's declared term-as-type.
func (tc *TyCtxt) TypeOf(name core.Name) (core.Term, bool) {
	it, ok := tc.Lookup(name)
	if ok {
		switch v := it.(type) {
		case *core.Data:
			return v.Ty, true
		case *core.Function:
			return v.RetTy, true
		case *core.Extern:
			return v.Term, true
		}
	}
	// Not a top-level item: check constructors and recursors, which are
	// registered under the datatype's key but addressed by their own name.
	for _, k := range tc.order {
		switch v := tc.items[k].(type) {
		case *core.Data:
			for _, c := range v.Ctors {
				if c.Name.Equal(name) {
					return c.Ty, true
				}
			}
		}
	}
	if ri, ok := tc.recursors[recKeyFromName(name)]; ok && ri.RecName.Equal(name) {
		return ri.Ty, true
	}
	return nil, false
}

func recKeyFromName(name core.Name) string {
	if len(name.Components) == 0 {
		return ""
	}
	comps := name.Components[:len(name.Components)-1]
	s := ""
	for i, c := range comps {
		if i > 0 {
			s += "."
		}
		s += c
	}
	return s
}

// DeclareDef registers a Function's ret_ty/body under its own name.
func (tc *TyCtxt) DeclareDef(f *core.Function) {
	k := key(f.Name)
	tc.items[k] = f
	tc.order = append(tc.order, k)
}

// DeclareExtern registers an Extern's declared type under its own name.
func (tc *TyCtxt) DeclareExtern(e *core.Extern) {
	k := key(e.Name)
	tc.items[k] = e
	tc.order = append(tc.order, k)
}

// DeclareDatatype registers a Data item and computes its recursor's type
// (T.rec), analyzing each constructor's field telescope to classify
// self-recursive fields, so Eval can perform iota-reduction against
// recursor applications. See recursor.go.
func (tc *TyCtxt) DeclareDatatype(d *core.Data) error {
	k := key(d.Name)
	tc.items[k] = d
	tc.order = append(tc.order, k)

	ri, err := buildRecursor(tc, d)
	if err != nil {
		return fmt.Errorf("tyctxt: declaring recursor for %s: %w", d.Name, err)
	}
	tc.recursors[k] = ri
	return nil
}

// Recursor returns the computed T.rec axiom's type for a declared datatype.
func (tc *TyCtxt) Recursor(dataName core.Name) (core.Term, bool) {
	ri, ok := tc.recursors[key(dataName)]
	if !ok {
		return nil, false
	}
	return ri.Ty, true
}

// IsBiReducible reports whether t's spine head could unfold under Eval: a
// lambda applied to at least one argument (beta), a global function applied
// to at least one argument (delta), or a recursor applied to enough arguments whose
// scrutinee's weak-head normal form is constructor-headed (iota). This is
// the TyCtxt-aware counterpart to core.Name.IsBiReducible, which only
// checks the syntactic shape of the head itself.
func (tc *TyCtxt) IsBiReducible(t core.Term) bool {
	head, args := core.Uncurry(t)
	switch h := head.(type) {
	case *core.Lambda:
		return len(args) >= 1
	case *core.Var:
		if h.Name.Kind != core.NQualified {
			return false
		}
		if it, ok := tc.Lookup(h.Name); ok {
			if _, ok := it.(*core.Function); ok {
				return len(args) >= 1
			}
			return false
		}
		if ri, ok := tc.recursorByRecName(h.Name); ok {
			whnf, has, err := tc.recursorScrutinee(ri, args)
			return err == nil && has && recursorCtorHeaded(ri, whnf)
		}
		return false
	default:
		return false
	}
}

// IsStuck is the TyCtxt-aware counterpart to core.IsStuck. A term whose
// spine head is itself a meta is stuck (delegated to core.IsStuck), but so
// is a fully-applied recursor whose scrutinee's own weak-head normal form
// is stuck: Eval cannot make progress on either shape, so the solver must
// treat both as "blocked on a meta" rather than as an irreconcilable
// mismatch. Without this, a recursor stuck on an unsolved scrutinee meta
// is neither bi-reducible nor (by the narrower core.IsStuck) stuck, and
// simplify's final case reports it as a spurious type error.
func (tc *TyCtxt) IsStuck(t core.Term) (core.Name, bool) {
	if m, ok := core.IsStuck(t); ok {
		return m, true
	}
	head, args := core.Uncurry(t)
	v, ok := head.(*core.Var)
	if !ok || v.Name.Kind != core.NQualified {
		return core.Name{}, false
	}
	ri, ok := tc.recursorByRecName(v.Name)
	if !ok {
		return core.Name{}, false
	}
	whnf, has, err := tc.recursorScrutinee(ri, args)
	if err != nil || !has {
		return core.Name{}, false
	}
	return tc.IsStuck(whnf)
}

func (tc *TyCtxt) recursorByRecName(name core.Name) (*recursorInfo, bool) {
	k := recKeyFromName(name)
	ri, ok := tc.recursors[k]
	if !ok || !ri.RecName.Equal(name) {
		return nil, false
	}
	return ri, true
}
