package core

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/ast"
)

// Term is the core expression grammar: Type, Literal, Var, App, Lambda, Forall.
type Term interface {
	Span() ast.Pos
	String() string
	termNode()
	// equalTerm is the unexported half of Equals so every variant must
	// supply its own structural comparison.
	equalTerm(Term) bool
}

// Binder is a name with its declared type, shared by Lambda and Forall.
type Binder struct {
	Name Name
	Ty   Term
}

// TypeTerm is the single universe.
type TypeTerm struct{ NodeSpan ast.Pos }

func (t *TypeTerm) Span() ast.Pos { return t.NodeSpan }
func (t *TypeTerm) String() string { return "Type" }
func (*TypeTerm) termNode()        {}
func (t *TypeTerm) equalTerm(o Term) bool {
	_, ok := o.(*TypeTerm)
	return ok
}

// LitKind enumerates core literal forms.
type LitKind int

const (
	UnitLit LitKind = iota
	IntLit
)

// Literal is Unit or a 64-bit integer constant.
type Literal struct {
	NodeSpan ast.Pos
	Kind     LitKind
	Value    int64
}

func (l *Literal) Span() ast.Pos { return l.NodeSpan }
func (l *Literal) String() string {
	if l.Kind == UnitLit {
		return "()"
	}
	return fmt.Sprintf("%d", l.Value)
}
func (*Literal) termNode() {}
func (l *Literal) equalTerm(o Term) bool {
	ol, ok := o.(*Literal)
	return ok && ol.Kind == l.Kind && ol.Value == l.Value
}

// Var references a global, local, or meta name.
type Var struct {
	NodeSpan ast.Pos
	Name     Name
}

func (v *Var) Span() ast.Pos { return v.NodeSpan }
func (v *Var) String() string { return v.Name.String() }
func (*Var) termNode()        {}
func (v *Var) equalTerm(o Term) bool {
	ov, ok := o.(*Var)
	return ok && v.Name.Equal(ov.Name)
}

// App is binary function application.
type App struct {
	NodeSpan ast.Pos
	Fun      Term
	Arg      Term
}

func (a *App) Span() ast.Pos { return a.NodeSpan }
func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Fun, a.Arg) }
func (*App) termNode()        {}
func (a *App) equalTerm(o Term) bool {
	oa, ok := o.(*App)
	return ok && a.Fun.equalTerm(oa.Fun) && a.Arg.equalTerm(oa.Arg)
}

// Lambda is a term-level abstraction `λ (x:T). body`.
type Lambda struct {
	NodeSpan ast.Pos
	Binder   Binder
	Body     Term
}

func (l *Lambda) Span() ast.Pos { return l.NodeSpan }
func (l *Lambda) String() string {
	return fmt.Sprintf("(λ (%s : %s). %s)", l.Binder.Name, l.Binder.Ty, l.Body)
}
func (*Lambda) termNode() {}
func (l *Lambda) equalTerm(o Term) bool {
	ol, ok := o.(*Lambda)
	return ok && l.Binder.Name.Equal(ol.Binder.Name) &&
		l.Binder.Ty.equalTerm(ol.Binder.Ty) && l.Body.equalTerm(ol.Body)
}

// Forall is a dependent function type `Π (x:T). body`.
type Forall struct {
	NodeSpan ast.Pos
	Binder   Binder
	Body     Term
}

func (f *Forall) Span() ast.Pos { return f.NodeSpan }
func (f *Forall) String() string {
	return fmt.Sprintf("(Π (%s : %s). %s)", f.Binder.Name, f.Binder.Ty, f.Body)
}
func (*Forall) termNode() {}
func (f *Forall) equalTerm(o Term) bool {
	of, ok := o.(*Forall)
	return ok && f.Binder.Name.Equal(of.Binder.Name) &&
		f.Binder.Ty.equalTerm(of.Binder.Ty) && f.Body.equalTerm(of.Body)
}

// Equals is syntactic α-equivalence (named locals carry fresh identities,
// so pointer-free structural comparison of Name already is α-equivalence).
// Spans are ignored; callers who want definitional equality must normalize
// via TyCtxt.Eval first — Equals never reduces.
func Equals(t, u Term) bool { return t.equalTerm(u) }
