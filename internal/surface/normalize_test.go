package surface

import (
	"testing"

	"golang.org/x/text/unicode/norm"

	"github.com/hubris-lang/hubris/internal/ast"
)

func TestNormalizeVarName(t *testing.T) {
	nfd := norm.NFD.String("café")
	if nfd == "café" {
		t.Fatalf("test setup: NFD and NFC forms of café are byte-identical on this system")
	}

	m := &ast.Module{
		Name: ast.Unqual("M", ast.Pos{}),
		Decls: []ast.Item{
			&ast.Def{
				Name: ast.Unqual(nfd, ast.Pos{}),
				Body: &ast.Var{Name: ast.Unqual(nfd, ast.Pos{})},
			},
		},
	}

	Normalize(m)

	def := m.Decls[0].(*ast.Def)
	if def.Name.Repr != "café" {
		t.Errorf("Def.Name.Repr = %q, want NFC form %q", def.Name.Repr, "café")
	}
	v := def.Body.(*ast.Var)
	if v.Name.Repr != "café" {
		t.Errorf("Var.Name.Repr = %q, want NFC form %q", v.Name.Repr, "café")
	}
	if def.Name.Repr != v.Name.Repr {
		t.Errorf("Def and Var normalized to different representations: %q vs %q", def.Name.Repr, v.Name.Repr)
	}
}

func TestNormalizeIsIdempotentOnASCII(t *testing.T) {
	m := &ast.Module{
		Name: ast.Unqual("Plain", ast.Pos{}),
		Decls: []ast.Item{
			&ast.Def{
				Name: ast.Unqual("id", ast.Pos{}),
				Args: []ast.Binder{
					{Name: ast.Unqual("x", ast.Pos{}), Ty: &ast.TypeSort{}},
				},
				Ty:   &ast.TypeSort{},
				Body: &ast.Var{Name: ast.Unqual("x", ast.Pos{})},
			},
		},
	}
	Normalize(m)
	def := m.Decls[0].(*ast.Def)
	if def.Name.Repr != "id" {
		t.Errorf("Def.Name.Repr = %q, want id", def.Name.Repr)
	}
	if def.Args[0].Name.Repr != "x" {
		t.Errorf("Args[0].Name.Repr = %q, want x", def.Args[0].Name.Repr)
	}
}

func TestNormalizePatternAndCtorNames(t *testing.T) {
	nfd := norm.NFD.String("é")
	m := &ast.Module{
		Name: ast.Unqual("M", ast.Pos{}),
		Decls: []ast.Item{
			&ast.Def{
				Name: ast.Unqual("f", ast.Pos{}),
				Body: &ast.Match{
					Scrutinee: &ast.Var{Name: ast.Unqual("x", ast.Pos{})},
					Cases: []ast.CaseClause{
						{
							Pattern: &ast.PatCtor{
								Ctor: ast.Unqual(nfd, ast.Pos{}),
								Args: []ast.Pattern{&ast.PatVar{Name: ast.Unqual(nfd, ast.Pos{})}},
							},
							Body: &ast.TypeSort{},
						},
					},
				},
			},
		},
	}
	Normalize(m)
	match := m.Decls[0].(*ast.Def).Body.(*ast.Match)
	ctor := match.Cases[0].Pattern.(*ast.PatCtor)
	if ctor.Ctor.Repr != "é" {
		t.Errorf("PatCtor.Ctor.Repr = %q, want é", ctor.Ctor.Repr)
	}
	arg := ctor.Args[0].(*ast.PatVar)
	if arg.Name.Repr != "é" {
		t.Errorf("PatVar.Name.Repr = %q, want é", arg.Name.Repr)
	}
}
