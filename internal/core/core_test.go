package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func localName(id uint64, repr string, ty Term) Name {
	return Name{Kind: NLocal, ID: id, Repr: repr, Ty: ty}
}

func metaName(n uint64, ty Term) Name {
	return Name{Kind: NMeta, Number: n, Ty: ty}
}

func TestAbstractInstantiateInverse(t *testing.T) {
	// b = x (a single local reference); abstracting and then
	// instantiating with the same local's Var must round-trip to b.
	x := localName(1, "x", &TypeTerm{})
	body := x.ToTerm()

	lam := AbstractLambda([]Name{x}, body)
	got := Instantiate(lam, x.ToTerm())

	if !Equals(got, body) {
		t.Fatalf("abstract/instantiate round trip failed: got %s, want %s", got, body)
	}
}

func TestAbstractPiOrdering(t *testing.T) {
	a := localName(1, "a", &TypeTerm{})
	b := localName(2, "b", a.ToTerm())
	body := b.ToTerm()

	pi := AbstractPi([]Name{a, b}, body)
	outer, ok := pi.(*Forall)
	if !ok {
		t.Fatalf("expected outer Forall, got %T", pi)
	}
	if !outer.Binder.Name.Equal(a) {
		t.Fatalf("expected first local %s to be outermost binder, got %s", a, outer.Binder.Name)
	}
	inner, ok := outer.Body.(*Forall)
	if !ok {
		t.Fatalf("expected inner Forall, got %T", outer.Body)
	}
	if !inner.Binder.Name.Equal(b) {
		t.Fatalf("expected second local %s as inner binder, got %s", b, inner.Binder.Name)
	}
}

func TestInstantiateMeta(t *testing.T) {
	m := metaName(0, &TypeTerm{})
	nat := Qualified("Nat").ToTerm()

	term := ApplyAll(m.ToTerm(), []Term{m.ToTerm()})
	got := InstantiateMeta(term, m, nat)

	want := ApplyAll(nat, []Term{nat})
	if !Equals(got, want) {
		t.Fatalf("InstantiateMeta: got %s, want %s", got, want)
	}
}

func TestHeadArgsUncurry(t *testing.T) {
	f := Qualified("f").ToTerm()
	a1 := &Literal{Kind: IntLit, Value: 1}
	a2 := &Literal{Kind: IntLit, Value: 2}
	app := ApplyAll(f, []Term{a1, a2})

	head, args := Uncurry(app)
	if !Equals(head, f) {
		t.Fatalf("Head: got %s, want %s", head, f)
	}
	if diff := cmp.Diff([]Term{a1, a2}, args, cmpopts.IgnoreUnexported()); diff != "" {
		t.Fatalf("Args mismatch (-want +got):\n%s", diff)
	}
}

func TestIsStuckOnMetaHead(t *testing.T) {
	m := metaName(3, &TypeTerm{})
	l := localName(1, "x", &TypeTerm{})
	stuckTerm := ApplyAll(m.ToTerm(), []Term{l.ToTerm()})

	got, ok := IsStuck(stuckTerm)
	if !ok || !got.Equal(m) {
		t.Fatalf("IsStuck: expected stuck on %s, got %v ok=%v", m, got, ok)
	}

	notStuck := l.ToTerm()
	if _, ok := IsStuck(notStuck); ok {
		t.Fatalf("IsStuck: local-headed term must not be stuck")
	}
}

func TestIsForallIsLambda(t *testing.T) {
	x := localName(1, "x", &TypeTerm{})
	pi := AbstractPi([]Name{x}, x.ToTerm())
	lam := AbstractLambda([]Name{x}, x.ToTerm())

	if !IsForall(pi) || IsLambda(pi) {
		t.Fatalf("IsForall/IsLambda misclassified a Forall term")
	}
	if !IsLambda(lam) || IsForall(lam) {
		t.Fatalf("IsForall/IsLambda misclassified a Lambda term")
	}
}

func TestEqualsIgnoresSpanNotIdentity(t *testing.T) {
	a := localName(1, "x", &TypeTerm{})
	b := localName(2, "x", &TypeTerm{}) // same repr, distinct identity

	if a.ToTerm().equalTerm(b.ToTerm()) {
		t.Fatalf("locals with distinct identities must not compare equal even with the same repr")
	}
}

func TestSimplifyReflexive(t *testing.T) {
	// Simplify's reflexive rule lives in the solver package, but the
	// Equals primitive it depends on must be reflexive for any
	// well-formed term.
	x := localName(1, "x", &TypeTerm{})
	term := ApplyAll(x.ToTerm(), []Term{&Literal{Kind: UnitLit}})
	if !Equals(term, term) {
		t.Fatalf("Equals must be reflexive")
	}
}
