// Package ast defines the surface syntax tree consumed by the elaborator.
//
// Parsing and AST construction are out of scope for this module (see
// spec.md §1) — this package specifies only the shape the elaborator
// depends on: terms with implicit binders and placeholders, items, and
// the Name representation that carries a NameKind plus an optional span.
package ast

import (
	"fmt"
	"strings"
)

// Pos is a position in the original source text, opaque outside the
// error reporter that renders it.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open range in source text.
type Span struct {
	Start Pos
	End   Pos
}

// NameKind distinguishes the three ways a surface name can be spelled.
type NameKind int

const (
	// Qualified is a module-qualified reference, e.g. `std/list.map`.
	Qualified NameKind = iota
	// Unqualified is a bare identifier that must be resolved by scope.
	Unqualified
	// Placeholder is `_`, elaborated into a fresh metavariable.
	Placeholder
)

func (k NameKind) String() string {
	switch k {
	case Qualified:
		return "qualified"
	case Unqualified:
		return "unqualified"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Name is a surface-level name occurrence. Equality (via Equal) ignores
// Pos, matching the core Name invariant that span is observational only.
type Name struct {
	Kind       NameKind
	Components []string // populated when Kind == Qualified
	Repr       string   // populated when Kind == Unqualified
	Pos        Pos
}

// Unqual constructs an unqualified surface name at pos.
func Unqual(repr string, pos Pos) Name {
	return Name{Kind: Unqualified, Repr: repr, Pos: pos}
}

// Qual constructs a qualified surface name at pos.
func Qual(components []string, pos Pos) Name {
	return Name{Kind: Qualified, Components: components, Pos: pos}
}

// Hole constructs a placeholder surface name at pos.
func Hole(pos Pos) Name {
	return Name{Kind: Placeholder, Pos: pos}
}

// Equal compares two names ignoring position, the Hash+Eq contract the
// elaborator relies on for scope lookups.
func (n Name) Equal(o Name) bool {
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case Qualified:
		if len(n.Components) != len(o.Components) {
			return false
		}
		for i := range n.Components {
			if n.Components[i] != o.Components[i] {
				return false
			}
		}
		return true
	case Unqualified:
		return n.Repr == o.Repr
	case Placeholder:
		// Each placeholder occurrence is elaborated independently; two
		// placeholder names are never considered the same binding.
		return false
	default:
		return false
	}
}

// Key returns a value usable as a map key representing this name's
// identity (ignoring Pos). Placeholder names have no stable identity and
// must never be used as scope keys.
func (n Name) Key() string {
	switch n.Kind {
	case Qualified:
		return "q:" + strings.Join(n.Components, "/")
	case Unqualified:
		return "u:" + n.Repr
	default:
		return ""
	}
}

func (n Name) String() string {
	switch n.Kind {
	case Qualified:
		return strings.Join(n.Components, ".")
	case Unqualified:
		return n.Repr
	case Placeholder:
		return "_"
	default:
		return "<bad-name>"
	}
}

// LitKind enumerates the surface literal forms.
type LitKind int

const (
	UnitLit LitKind = iota
	IntLit
)

// Term is the surface expression grammar.
type Term interface {
	Position() Pos
	termNode()
	String() string
}

type base struct{ Pos Pos }

func (b base) Position() Pos { return b.Pos }
func (base) termNode()       {}

// Literal is a literal value.
type Literal struct {
	base
	Kind  LitKind
	Value int64 // meaningful when Kind == IntLit
}

func (l *Literal) String() string {
	if l.Kind == UnitLit {
		return "()"
	}
	return fmt.Sprintf("%d", l.Value)
}

// Var is a name occurrence in term position.
type Var struct {
	base
	Name Name
}

func (v *Var) String() string { return v.Name.String() }

// App is binary function application.
type App struct {
	base
	Fun Term
	Arg Term
}

func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Fun, a.Arg) }

// Binder is a name with a declared type, used by Forall/Lambda/Let/patterns.
type Binder struct {
	Name Name
	Ty   Term
}

// Forall is a dependent function type `forall (x1:T1) ... (xn:Tn), body`.
type Forall struct {
	base
	Binders []Binder
	Body    Term
}

func (f *Forall) String() string {
	parts := make([]string, len(f.Binders))
	for i, b := range f.Binders {
		parts[i] = fmt.Sprintf("(%s : %s)", b.Name, b.Ty)
	}
	return fmt.Sprintf("forall %s, %s", strings.Join(parts, " "), f.Body)
}

// Lambda is `fun x1 ... xn => body`.
type Lambda struct {
	base
	Args []Binder
	Body Term
}

func (l *Lambda) String() string {
	parts := make([]string, len(l.Args))
	for i, b := range l.Args {
		parts[i] = b.Name.String()
	}
	return fmt.Sprintf("fun %s => %s", strings.Join(parts, " "), l.Body)
}

// LetBinding is a single `name [: ty] := value` clause inside a Let.
type LetBinding struct {
	Name  Name
	Ty    Term // may be nil: type is inferred via a fresh placeholder
	Value Term
}

// Let is a (possibly multi-binding) let expression.
type Let struct {
	base
	Bindings []LetBinding
	Body     Term
}

func (l *Let) String() string {
	parts := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		parts[i] = fmt.Sprintf("%s := %s", b.Name, b.Value)
	}
	return fmt.Sprintf("let %s in %s", strings.Join(parts, ", "), l.Body)
}

// CaseClause is a single `pattern => body` arm of a Match.
type CaseClause struct {
	Pattern Pattern
	Body    Term
}

// Match is surface pattern matching over an inductive scrutinee.
type Match struct {
	base
	Scrutinee Term
	Cases     []CaseClause
}

func (m *Match) String() string { return fmt.Sprintf("match %s { ... }", m.Scrutinee) }

// TypeSort is the single universe `Type`.
type TypeSort struct{ base }

func (*TypeSort) String() string { return "Type" }

// Pattern is a shallow surface pattern: a constructor applied to fresh
// binder names, a bare binder, or a wildcard. Nested patterns are
// rejected by the pattern-match elaborator (spec.md §4.5).
type Pattern interface {
	Position() Pos
	patternNode()
	String() string
}

type patBase struct{ Pos Pos }

func (p patBase) Position() Pos { return p.Pos }
func (patBase) patternNode()    {}

// PatVar binds the scrutinee (or a constructor argument) to a fresh name.
type PatVar struct {
	patBase
	Name Name
}

func (p *PatVar) String() string { return p.Name.String() }

// PatWildcard discards the matched value.
type PatWildcard struct{ patBase }

func (*PatWildcard) String() string { return "_" }

// PatCtor is `Ctor x1 ... xn`; each xi must be a PatVar or PatWildcard —
// nested constructor patterns are rejected at elaboration time.
type PatCtor struct {
	patBase
	Ctor Name
	Args []Pattern
}

func (p *PatCtor) String() string {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s %s", p.Ctor, strings.Join(parts, " "))
}

// Item is a top-level module member.
type Item interface {
	Position() Pos
	itemNode()
}

type itemBase struct{ Pos Pos }

func (b itemBase) Position() Pos { return b.Pos }
func (itemBase) itemNode()       {}

// Constructor is one `Name : Ty` entry of an Inductive.
type Constructor struct {
	Name Name
	Ty   Term
}

// Inductive declares a datatype.
type Inductive struct {
	itemBase
	Name       Name
	Parameters []Binder
	Ty         Term
	Ctors      []Constructor
}

// Def declares a function.
type Def struct {
	itemBase
	Name Name
	Args []Binder
	Ty   Term
	Body Term
}

// Extern declares a foreign value's type without a body.
type Extern struct {
	itemBase
	Name Name
	Term Term
}

// Import requests loading another module's declarations into scope.
type Import struct {
	itemBase
	Name Name
}

// Comment is a no-op item retained only for source fidelity.
type Comment struct {
	itemBase
	Text string
}

// Module groups items under a name and originating file.
type Module struct {
	Name     Name
	FilePath string
	Imports  []Name
	Decls    []Item
}
