package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/errors"
	"github.com/hubris-lang/hubris/internal/tyctxt"
)

func fixedSource(m *ast.Module) Source {
	return func(path string) (*ast.Module, error) {
		return m, nil
	}
}

func writeStub(t *testing.T, dir string, rel string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte("placeholder"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func natModule() *ast.Module {
	return &ast.Module{
		Name: ast.Qual([]string{"std", "nat"}, ast.Pos{}),
		Decls: []ast.Item{
			&ast.Extern{Name: ast.Unqual("Nat", ast.Pos{}), Term: &ast.TypeSort{}},
		},
	}
}

func TestImportRegistersModuleIntoTyCtxt(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "std/nat.hub")

	l := NewLoader(fixedSource(natModule()))
	l.searchPaths = []string{dir}

	tc := tyctxt.New()
	name := core.Qualified("std", "nat")
	if err := l.Import(tc, "", name); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if _, ok := tc.Lookup(core.Qualified("std", "nat", "Nat")); !ok {
		t.Fatalf("expected std.nat.Nat to be registered in tc")
	}
}

func TestImportIsCachedAfterFirstLoad(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "std/nat.hub")

	calls := 0
	source := func(path string) (*ast.Module, error) {
		calls++
		return natModule(), nil
	}
	l := NewLoader(source)
	l.searchPaths = []string{dir}

	tc := tyctxt.New()
	name := core.Qualified("std", "nat")
	if err := l.Import(tc, "", name); err != nil {
		t.Fatalf("first Import: %v", err)
	}
	if err := l.Import(tc, "", name); err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if calls != 1 {
		t.Errorf("source called %d times, want 1 (second Import should hit the cache)", calls)
	}
}

func TestImportMissingFileReportsLDR001(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(fixedSource(natModule()))
	l.searchPaths = []string{dir}

	tc := tyctxt.New()
	err := l.Import(tc, "", core.Qualified("std", "nat"))
	if err == nil {
		t.Fatal("expected an error for a missing module file")
	}
	rep, ok := errors.AsReport(err)
	if !ok {
		t.Fatalf("expected a *errors.Report-carrying error, got %T", err)
	}
	if rep.Code != errors.LDR001 {
		t.Errorf("Code = %s, want %s", rep.Code, errors.LDR001)
	}
}

func TestImportCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "a.hub")

	l := NewLoader(nil)
	l.searchPaths = []string{dir}
	name := core.Qualified("a")
	l.stack = []string{name.String()}

	err := l.Import(tyctxt.New(), "", name)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	rep, ok := errors.AsReport(err)
	if !ok {
		t.Fatalf("expected a *errors.Report-carrying error, got %T", err)
	}
	if rep.Code != errors.LDR002 {
		t.Errorf("Code = %s, want %s", rep.Code, errors.LDR002)
	}
}

func TestImportNoSourceConfiguredReportsLDR005(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "a.hub")

	l := NewLoader(nil)
	l.searchPaths = []string{dir}

	err := l.Import(tyctxt.New(), "", core.Qualified("a"))
	if err == nil {
		t.Fatal("expected an error when no Source is configured")
	}
	rep, ok := errors.AsReport(err)
	if !ok {
		t.Fatalf("expected a *errors.Report-carrying error, got %T", err)
	}
	if rep.Code != errors.LDR005 {
		t.Errorf("Code = %s, want %s", rep.Code, errors.LDR005)
	}
}
