// Package scenarios builds the end-to-end surface modules from spec.md §8
// as plain Go-constructed ast.Modules and drives them through the full
// elaborate -> type-check -> solve -> replace-metavars pipeline.
//
// This module deliberately has no surface parser (spec.md §1 scopes
// parsing out as an external collaborator), so cmd/hubris and
// internal/repl cannot read arbitrary .hub source text. Instead, both
// drive the same small, named set of Go-constructed modules this package
// exposes — the same approach this tree's own elaborate_test.go and
// module/loader_test.go use to exercise the pipeline without a parser.
package scenarios

import (
	"fmt"
	"sort"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/config"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/elaborate"
	"github.com/hubris-lang/hubris/internal/erase"
	"github.com/hubris-lang/hubris/internal/module"
	"github.com/hubris-lang/hubris/internal/solver"
	"github.com/hubris-lang/hubris/internal/tyctxt"
)

// Scenario is one named, self-contained surface module plus a short
// description of what it demonstrates.
type Scenario struct {
	Name        string
	Description string
	Build       func() *ast.Module
}

var registry = map[string]Scenario{}
var order []string

func register(s Scenario) {
	registry[s.Name] = s
	order = append(order, s.Name)
}

// Names returns every registered scenario name in registration order.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Get returns a scenario by name.
func Get(name string) (Scenario, bool) {
	s, ok := registry[name]
	return s, ok
}

func pos() ast.Pos { return ast.Pos{} }

func uvar(repr string) *ast.Var { return &ast.Var{Name: ast.Unqual(repr, pos())} }

func init() {
	register(Scenario{
		Name:        "identity",
		Description: "def id (A : Type) (x : A) : A := x -- no metas, no constraints left unsolved",
		Build:       identityModule,
	})
	register(Scenario{
		Name:        "placeholder",
		Description: "def use_id := id _ 3 -- a placeholder meta solved by pattern unification",
		Build:       placeholderModule,
	})
	register(Scenario{
		Name:        "nat",
		Description: "inductive Nat { zero; succ } -- registers Nat, Nat.zero, Nat.succ, Nat.rec",
		Build:       natDeclModule,
	})
	register(Scenario{
		Name:        "match",
		Description: "pred (n : Nat) : Nat := match n { zero => zero | succ k => k } -- desugars to Nat.rec",
		Build:       matchModule,
	})
	register(Scenario{
		Name:        "mismatch",
		Description: "def bad : Nat := Type -- solver reports a definitional mismatch",
		Build:       mismatchModule,
	})
	register(Scenario{
		Name:        "accumulate",
		Description: "two definitions each referencing an undefined name -- both errors surface",
		Build:       accumulateModule,
	})
}

func identityModule() *ast.Module {
	idDef := &ast.Def{
		Name: ast.Unqual("id", pos()),
		Args: []ast.Binder{
			{Name: ast.Unqual("A", pos()), Ty: &ast.TypeSort{}},
			{Name: ast.Unqual("x", pos()), Ty: uvar("A")},
		},
		Ty:   uvar("A"),
		Body: uvar("x"),
	}
	return &ast.Module{
		Name:  ast.Unqual("Identity", pos()),
		Decls: []ast.Item{idDef},
	}
}

// placeholderModule builds on identityModule, adding only a use_id
// definition applying id to a placeholder and a literal. No extern is
// declared: the literal `3` carries the builtin Int type per tyctxt.infer.
func placeholderModule() *ast.Module {
	m := identityModule()
	useID := &ast.Def{
		Name: ast.Unqual("use_id", pos()),
		Body: &ast.App{
			Fun: &ast.App{
				Fun: uvar("id"),
				Arg: &ast.Var{Name: ast.Hole(pos())},
			},
			Arg: &ast.Literal{Kind: ast.IntLit, Value: 3},
		},
	}
	m.Decls = append(m.Decls, useID)
	return m
}

func natCtors() (zero, succ ast.Constructor) {
	zero = ast.Constructor{Name: ast.Unqual("zero", pos()), Ty: uvar("Nat")}
	succ = ast.Constructor{
		Name: ast.Unqual("succ", pos()),
		Ty: &ast.Forall{
			Binders: []ast.Binder{{Name: ast.Hole(pos()), Ty: uvar("Nat")}},
			Body:    uvar("Nat"),
		},
	}
	return
}

func natDecl() *ast.Inductive {
	zero, succ := natCtors()
	return &ast.Inductive{
		Name:  ast.Unqual("Nat", pos()),
		Ty:    &ast.TypeSort{},
		Ctors: []ast.Constructor{zero, succ},
	}
}

func natDeclModule() *ast.Module {
	return &ast.Module{
		Name:  ast.Unqual("Nat", pos()),
		Decls: []ast.Item{natDecl()},
	}
}

func matchModule() *ast.Module {
	predDecl := &ast.Def{
		Name: ast.Unqual("pred", pos()),
		Args: []ast.Binder{{Name: ast.Unqual("n", pos()), Ty: uvar("Nat")}},
		Ty:   uvar("Nat"),
		Body: &ast.Match{
			Scrutinee: uvar("n"),
			Cases: []ast.CaseClause{
				{
					Pattern: &ast.PatCtor{Ctor: ast.Unqual("zero", pos())},
					Body:    uvar("zero"),
				},
				{
					Pattern: &ast.PatCtor{
						Ctor: ast.Unqual("succ", pos()),
						Args: []ast.Pattern{&ast.PatVar{Name: ast.Unqual("k", pos())}},
					},
					Body: uvar("k"),
				},
			},
		},
	}
	return &ast.Module{
		Name:  ast.Unqual("Nat", pos()),
		Decls: []ast.Item{natDecl(), predDecl},
	}
}

func mismatchModule() *ast.Module {
	bad := &ast.Def{
		Name: ast.Unqual("bad", pos()),
		Ty:   uvar("Nat"),
		Body: &ast.TypeSort{},
	}
	return &ast.Module{
		Name:  ast.Unqual("Mismatch", pos()),
		Decls: []ast.Item{natDecl(), bad},
	}
}

func accumulateModule() *ast.Module {
	first := &ast.Def{
		Name: ast.Unqual("oops1", pos()),
		Ty:   &ast.TypeSort{},
		Body: uvar("undefined_one"),
	}
	second := &ast.Def{
		Name: ast.Unqual("oops2", pos()),
		Ty:   &ast.TypeSort{},
		Body: uvar("undefined_two"),
	}
	return &ast.Module{
		Name:  ast.Unqual("Accumulate", pos()),
		Decls: []ast.Item{first, second},
	}
}

// Result is the outcome of running a scenario end to end.
type Result struct {
	Scenario string
	TC       *tyctxt.TyCtxt
	Module   *core.Module
	Solved   map[string]core.Item // name -> item with every solved meta replaced
	Err      error
}

// DefaultUnfoldDepth is the bound Run uses when no manifest overrides it;
// matches tyctxt.New's own default.
const DefaultUnfoldDepth = 128

// Options configures the TyCtxt a scenario runs against, sourced from a
// project's manifest (see internal/config) rather than hardcoded.
type Options struct {
	// UnfoldDepth bounds delta/iota-unfolding during Eval; zero means
	// DefaultUnfoldDepth.
	UnfoldDepth int
	// Importer resolves other modules' `import` declarations, if the
	// scenario's module has any; nil means imports are unsupported (no
	// scenario currently declares one, but cmd/hubris wires one from the
	// manifest's search_paths regardless, so the pipeline is ready for the
	// day a scenario does).
	Importer tyctxt.Importer
}

// OptionsFromManifest derives Options from a loaded manifest: the
// configured unfold_depth, and an Importer resolving imports against
// search_paths. The Importer has no Source (this module has no surface
// parser, see internal/module), so it only does useful work if a scenario
// declares an import that resolves to an existing file, in which case it
// fails with a clear LDR005 report (no Source configured to parse it) rather than leaving
// search_paths entirely unconsulted.
func OptionsFromManifest(m *config.Manifest) Options {
	return Options{
		UnfoldDepth: m.UnfoldDepth,
		Importer:    module.NewLoaderWithSearchPaths(nil, m.SearchPaths).Import,
	}
}

// Run elaborates, type-checks, and solves the named scenario with the
// default Options, replacing every solved metavariable in the resulting
// module's items.
func Run(name string) Result {
	return RunWithOptions(name, Options{})
}

// RunWithOptions is Run with an explicit Options, e.g. a manifest's
// unfold_depth and search_paths-derived Importer.
func RunWithOptions(name string, opts Options) Result {
	s, ok := Get(name)
	if !ok {
		names := Names()
		sort.Strings(names)
		return Result{Scenario: name, Err: fmt.Errorf("scenarios: unknown scenario %q (known: %v)", name, names)}
	}

	depth := opts.UnfoldDepth
	if depth == 0 {
		depth = DefaultUnfoldDepth
	}
	tc := tyctxt.NewWithDepth(depth)
	tc.Importer = opts.Importer
	mod, err := elaborate.ElaborateModule(tc, s.Build())
	if err != nil {
		return Result{Scenario: name, TC: tc, Module: mod, Err: err}
	}

	cs, err := tc.TypeCheckModule(mod)
	if err != nil {
		return Result{Scenario: name, TC: tc, Module: mod, Err: err}
	}

	slv, err := solver.New(tc, cs)
	if err != nil {
		return Result{Scenario: name, TC: tc, Module: mod, Err: err}
	}
	sols, err := slv.Solve()
	if err != nil {
		return Result{Scenario: name, TC: tc, Module: mod, Err: err}
	}

	solved := map[string]core.Item{}
	for _, item := range mod.Decls {
		replaced, err := solver.ReplaceMetavarsItem(item, sols)
		if err != nil {
			return Result{Scenario: name, TC: tc, Module: mod, Err: err}
		}
		solved[itemName(replaced).String()] = replaced
	}

	return Result{Scenario: name, TC: tc, Module: mod, Solved: solved}
}

// Describe renders a solved top-level item as a one-line signature, shared
// by cmd/hubris and internal/repl so both print scenario results the same
// way.
func Describe(item core.Item) string {
	switch it := item.(type) {
	case *core.Function:
		return fmt.Sprintf("%s : %s := %s", it.Name, it.RetTy, it.Body)
	case *core.Data:
		return fmt.Sprintf("%s : %s (%d constructors)", it.Name, it.Ty, len(it.Ctors))
	case *core.Extern:
		return fmt.Sprintf("extern %s : %s", it.Name, it.Term)
	default:
		return fmt.Sprintf("%v", item)
	}
}

func itemName(item core.Item) core.Name {
	switch it := item.(type) {
	case *core.Data:
		return it.Name
	case *core.Function:
		return it.Name
	case *core.Extern:
		return it.Name
	default:
		return core.Name{}
	}
}

// Erase runs the named scenario with the default Options and, if it solved
// cleanly, erases the named top-level function as a demonstration of the
// §6 backend handoff.
func Erase(scenarioName, entryPoint string) (*erase.Function, error) {
	return EraseWithOptions(scenarioName, entryPoint, Options{})
}

// EraseWithOptions is Erase with an explicit Options.
func EraseWithOptions(scenarioName, entryPoint string, opts Options) (*erase.Function, error) {
	res := RunWithOptions(scenarioName, opts)
	if res.Err != nil {
		return nil, res.Err
	}
	item, ok := res.Solved[entryPoint]
	if !ok {
		return nil, fmt.Errorf("scenarios: %s has no solved entry point %q", scenarioName, entryPoint)
	}
	fn, ok := item.(*core.Function)
	if !ok {
		return nil, fmt.Errorf("scenarios: %s.%s is not a function (got %T)", scenarioName, entryPoint, item)
	}
	cx := erase.New(res.TC)
	return cx.EraseFunction(fn)
}
