// Package surface holds source-level passes that run over an ast.Module
// before elaboration proper begins.
//
// Normalize applies Unicode NFC normalization to every identifier spelling
// in a module, the same input-boundary pass the teacher's lexer performs
// (internal/lexer/normalize.go), adapted from a byte-stream pass (run
// before lexing) to an AST pass (run after parsing, since this module has
// no lexer of its own — see internal/ast). Without it, `café` written in
// NFC and `café` written in NFD would scope-resolve to two different
// locals despite looking identical, since ast.Name.Equal and Key compare
// Repr by byte value.
package surface

import (
	"golang.org/x/text/unicode/norm"

	"github.com/hubris-lang/hubris/internal/ast"
)

// Normalize rewrites every Name.Repr and Name.Components entry reachable
// from m to NFC form, in place.
func Normalize(m *ast.Module) {
	m.Name = normalizeName(m.Name)
	for i, imp := range m.Imports {
		m.Imports[i] = normalizeName(imp)
	}
	for _, decl := range m.Decls {
		normalizeItem(decl)
	}
}

func normalizeName(n ast.Name) ast.Name {
	switch n.Kind {
	case ast.Unqualified:
		n.Repr = nfc(n.Repr)
	case ast.Qualified:
		for i, c := range n.Components {
			n.Components[i] = nfc(c)
		}
	}
	return n
}

func nfc(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

func normalizeBinder(b *ast.Binder) {
	b.Name = normalizeName(b.Name)
	normalizeTerm(b.Ty)
}

func normalizeTerm(t ast.Term) {
	switch n := t.(type) {
	case nil, *ast.Literal, *ast.TypeSort:
		return
	case *ast.Var:
		n.Name = normalizeName(n.Name)
	case *ast.App:
		normalizeTerm(n.Fun)
		normalizeTerm(n.Arg)
	case *ast.Forall:
		for i := range n.Binders {
			normalizeBinder(&n.Binders[i])
		}
		normalizeTerm(n.Body)
	case *ast.Lambda:
		for i := range n.Args {
			normalizeBinder(&n.Args[i])
		}
		normalizeTerm(n.Body)
	case *ast.Let:
		for i := range n.Bindings {
			n.Bindings[i].Name = normalizeName(n.Bindings[i].Name)
			normalizeTerm(n.Bindings[i].Ty)
			normalizeTerm(n.Bindings[i].Value)
		}
		normalizeTerm(n.Body)
	case *ast.Match:
		normalizeTerm(n.Scrutinee)
		for i := range n.Cases {
			normalizePattern(n.Cases[i].Pattern)
			normalizeTerm(n.Cases[i].Body)
		}
	default:
		panic("surface: Normalize: unhandled term type")
	}
}

func normalizePattern(p ast.Pattern) {
	switch n := p.(type) {
	case *ast.PatWildcard:
		return
	case *ast.PatVar:
		n.Name = normalizeName(n.Name)
	case *ast.PatCtor:
		n.Ctor = normalizeName(n.Ctor)
		for _, arg := range n.Args {
			normalizePattern(arg)
		}
	default:
		panic("surface: Normalize: unhandled pattern type")
	}
}

func normalizeItem(it ast.Item) {
	switch n := it.(type) {
	case *ast.Inductive:
		n.Name = normalizeName(n.Name)
		for i := range n.Parameters {
			normalizeBinder(&n.Parameters[i])
		}
		normalizeTerm(n.Ty)
		for i := range n.Ctors {
			n.Ctors[i].Name = normalizeName(n.Ctors[i].Name)
			normalizeTerm(n.Ctors[i].Ty)
		}
	case *ast.Def:
		n.Name = normalizeName(n.Name)
		for i := range n.Args {
			normalizeBinder(&n.Args[i])
		}
		normalizeTerm(n.Ty)
		normalizeTerm(n.Body)
	case *ast.Extern:
		n.Name = normalizeName(n.Name)
		normalizeTerm(n.Term)
	case *ast.Import:
		n.Name = normalizeName(n.Name)
	case *ast.Comment:
		return
	default:
		panic("surface: Normalize: unhandled item type")
	}
}
