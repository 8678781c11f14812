package erase_test

import (
	"testing"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/elaborate"
	"github.com/hubris-lang/hubris/internal/erase"
	"github.com/hubris-lang/hubris/internal/tyctxt"
)

// konstModule mirrors backend/mod.rs's demonstrator shape: a dependently
// typed function whose first (Type-sorted) argument only exists to make
// the second argument's type explicit to the elaborator, applied through a
// forwarding caller.
//
//	extern Nat : Type
//	def konst (A : Type) (x : A) : A := x
//	def use_konst (n : Nat) : Nat := konst Nat n
func konstModule() *ast.Module {
	konstDecl := &ast.Def{
		Name: ast.Unqual("konst", ast.Pos{}),
		Args: []ast.Binder{
			{Name: ast.Unqual("A", ast.Pos{}), Ty: &ast.TypeSort{}},
			{Name: ast.Unqual("x", ast.Pos{}), Ty: &ast.Var{Name: ast.Unqual("A", ast.Pos{})}},
		},
		Ty:   &ast.Var{Name: ast.Unqual("A", ast.Pos{})},
		Body: &ast.Var{Name: ast.Unqual("x", ast.Pos{})},
	}
	useKonstDecl := &ast.Def{
		Name: ast.Unqual("use_konst", ast.Pos{}),
		Args: []ast.Binder{
			{Name: ast.Unqual("n", ast.Pos{}), Ty: &ast.Var{Name: ast.Unqual("Nat", ast.Pos{})}},
		},
		Ty: &ast.Var{Name: ast.Unqual("Nat", ast.Pos{})},
		Body: &ast.App{
			Fun: &ast.App{
				Fun: &ast.Var{Name: ast.Unqual("konst", ast.Pos{})},
				Arg: &ast.Var{Name: ast.Unqual("Nat", ast.Pos{})},
			},
			Arg: &ast.Var{Name: ast.Unqual("n", ast.Pos{})},
		},
	}
	return &ast.Module{
		Name: ast.Unqual("Konst", ast.Pos{}),
		Decls: []ast.Item{
			&ast.Extern{Name: ast.Unqual("Nat", ast.Pos{}), Term: &ast.TypeSort{}},
			konstDecl,
			useKonstDecl,
		},
	}
}

func TestEraseFunctionDropsTypeSortedParameter(t *testing.T) {
	tc := tyctxt.New()
	mod, err := elaborate.ElaborateModule(tc, konstModule())
	if err != nil {
		t.Fatalf("ElaborateModule: %v", err)
	}
	konst := mod.Decls[1].(*core.Function)

	cx := erase.New(tc)
	ef, err := cx.EraseFunction(konst)
	if err != nil {
		t.Fatalf("EraseFunction: %v", err)
	}
	if len(ef.Params) != 1 || ef.Params[0].Repr != "x" {
		t.Fatalf("Params = %v, want a single surviving parameter named x", ef.Params)
	}
	local, ok := ef.Body.(erase.Local)
	if !ok {
		t.Fatalf("Body = %T, want erase.Local", ef.Body)
	}
	if local.Name.Repr != "x" {
		t.Errorf("Body local = %s, want x", local.Name.Repr)
	}
}

func TestEraseFunctionUncurriesAndDropsCallArgument(t *testing.T) {
	tc := tyctxt.New()
	mod, err := elaborate.ElaborateModule(tc, konstModule())
	if err != nil {
		t.Fatalf("ElaborateModule: %v", err)
	}
	konst := mod.Decls[1].(*core.Function)
	useKonst := mod.Decls[2].(*core.Function)

	cx := erase.New(tc)
	if _, err := cx.EraseFunction(konst); err != nil {
		t.Fatalf("EraseFunction(konst): %v", err)
	}
	ef, err := cx.EraseFunction(useKonst)
	if err != nil {
		t.Fatalf("EraseFunction(use_konst): %v", err)
	}

	if len(ef.Params) != 1 || ef.Params[0].Repr != "n" {
		t.Fatalf("Params = %v, want a single surviving parameter named n", ef.Params)
	}

	call, ok := ef.Body.(erase.Call)
	if !ok {
		t.Fatalf("Body = %T, want erase.Call", ef.Body)
	}
	if len(call.Args) != 1 {
		t.Fatalf("Call.Args has %d entries, want 1 (the erased type argument dropped)", len(call.Args))
	}
	g, ok := call.Fun.(erase.Global)
	if !ok || g.Name.String() != "Konst.konst" {
		t.Fatalf("Call.Fun = %#v, want the global konst", call.Fun)
	}
	local, ok := call.Args[0].(erase.Local)
	if !ok || local.Name.Repr != "n" {
		t.Fatalf("Call.Args[0] = %#v, want local n", call.Args[0])
	}
}
