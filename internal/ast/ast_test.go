package ast

import "testing"

func TestNameEqualIgnoresPos(t *testing.T) {
	a := Unqual("x", Pos{File: "a.hub", Line: 1, Column: 1})
	b := Unqual("x", Pos{File: "b.hub", Line: 9, Column: 3})
	if !a.Equal(b) {
		t.Fatalf("expected names equal ignoring position: %v vs %v", a, b)
	}
	c := Unqual("y", Pos{})
	if a.Equal(c) {
		t.Fatalf("expected distinct reprs to be unequal")
	}
}

func TestNameEqualQualified(t *testing.T) {
	a := Qual([]string{"std", "list"}, Pos{})
	b := Qual([]string{"std", "list"}, Pos{File: "x"})
	if !a.Equal(b) {
		t.Fatalf("expected qualified names equal ignoring position")
	}
	c := Qual([]string{"std", "map"}, Pos{})
	if a.Equal(c) {
		t.Fatalf("expected distinct components to be unequal")
	}
}

func TestPlaceholderNeverEqual(t *testing.T) {
	a := Hole(Pos{})
	b := Hole(Pos{})
	if a.Equal(b) {
		t.Fatalf("two placeholder occurrences must never compare equal")
	}
}

func TestPatternString(t *testing.T) {
	p := &PatCtor{
		Ctor: Unqual("succ", Pos{}),
		Args: []Pattern{&PatVar{Name: Unqual("n", Pos{})}},
	}
	if got, want := p.String(), "succ n"; got != want {
		t.Fatalf("PatCtor.String() = %q, want %q", got, want)
	}
}
