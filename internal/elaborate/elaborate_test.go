package elaborate

import (
	"testing"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/tyctxt"
)

func natModule() *ast.Module {
	zero := ast.Constructor{Name: ast.Unqual("zero", ast.Pos{}), Ty: &ast.Var{Name: ast.Unqual("Nat", ast.Pos{})}}
	succ := ast.Constructor{
		Name: ast.Unqual("succ", ast.Pos{}),
		Ty: &ast.Forall{
			Binders: []ast.Binder{{Name: ast.Hole(ast.Pos{}), Ty: &ast.Var{Name: ast.Unqual("Nat", ast.Pos{})}}},
			Body:    &ast.Var{Name: ast.Unqual("Nat", ast.Pos{})},
		},
	}
	natDecl := &ast.Inductive{
		Name:  ast.Unqual("Nat", ast.Pos{}),
		Ty:    &ast.TypeSort{},
		Ctors: []ast.Constructor{zero, succ},
	}

	// pred (n : Nat) : Nat := match n { zero => zero | succ m => m }
	predDecl := &ast.Def{
		Name: ast.Unqual("pred", ast.Pos{}),
		Args: []ast.Binder{{Name: ast.Unqual("n", ast.Pos{}), Ty: &ast.Var{Name: ast.Unqual("Nat", ast.Pos{})}}},
		Ty:   &ast.Var{Name: ast.Unqual("Nat", ast.Pos{})},
		Body: &ast.Match{
			Scrutinee: &ast.Var{Name: ast.Unqual("n", ast.Pos{})},
			Cases: []ast.CaseClause{
				{
					Pattern: &ast.PatCtor{Ctor: ast.Unqual("zero", ast.Pos{})},
					Body:    &ast.Var{Name: ast.Unqual("zero", ast.Pos{})},
				},
				{
					Pattern: &ast.PatCtor{
						Ctor: ast.Unqual("succ", ast.Pos{}),
						Args: []ast.Pattern{&ast.PatVar{Name: ast.Unqual("m", ast.Pos{})}},
					},
					Body: &ast.Var{Name: ast.Unqual("m", ast.Pos{})},
				},
			},
		},
	}

	return &ast.Module{
		Name:  ast.Unqual("Nat", ast.Pos{}),
		Decls: []ast.Item{natDecl, predDecl},
	}
}

func TestElaborateModuleBuildsDatatypeAndFunction(t *testing.T) {
	tc := tyctxt.New()
	mod, err := ElaborateModule(tc, natModule())
	if err != nil {
		t.Fatalf("ElaborateModule: %v", err)
	}
	if len(mod.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(mod.Decls))
	}

	data, ok := mod.Decls[0].(*core.Data)
	if !ok {
		t.Fatalf("expected first decl to be *core.Data, got %T", mod.Decls[0])
	}
	if len(data.Ctors) != 2 {
		t.Fatalf("expected 2 constructors, got %d", len(data.Ctors))
	}

	fn, ok := mod.Decls[1].(*core.Function)
	if !ok {
		t.Fatalf("expected second decl to be *core.Function, got %T", mod.Decls[1])
	}
	if len(fn.Args) != 1 {
		t.Fatalf("expected pred to take 1 argument, got %d", len(fn.Args))
	}
}

func TestElaborateUnknownVariable(t *testing.T) {
	tc := tyctxt.New()
	m := &ast.Module{
		Name: ast.Unqual("Bad", ast.Pos{}),
		Decls: []ast.Item{
			&ast.Def{
				Name: ast.Unqual("oops", ast.Pos{}),
				Ty:   &ast.TypeSort{},
				Body: &ast.Var{Name: ast.Unqual("undefined_name", ast.Pos{})},
			},
		},
	}
	_, err := ElaborateModule(tc, m)
	if err == nil {
		t.Fatal("expected an error elaborating an unknown variable")
	}
}

func TestElaborateLetDesugarsToApplication(t *testing.T) {
	tc := tyctxt.New()
	m := &ast.Module{
		Name: ast.Unqual("Let", ast.Pos{}),
		Decls: []ast.Item{
			&ast.Def{
				Name: ast.Unqual("k", ast.Pos{}),
				Ty:   &ast.TypeSort{},
				Body: &ast.Let{
					Bindings: []ast.LetBinding{
						{Name: ast.Unqual("x", ast.Pos{}), Value: &ast.TypeSort{}},
					},
					Body: &ast.Var{Name: ast.Unqual("x", ast.Pos{})},
				},
			},
		},
	}
	mod, err := ElaborateModule(tc, m)
	if err != nil {
		t.Fatalf("ElaborateModule: %v", err)
	}
	fn := mod.Decls[0].(*core.Function)
	app, ok := fn.Body.(*core.App)
	if !ok {
		t.Fatalf("expected let to desugar to an App, got %T", fn.Body)
	}
	if _, ok := app.Fun.(*core.Lambda); !ok {
		t.Fatalf("expected the App's function to be a Lambda, got %T", app.Fun)
	}
}
