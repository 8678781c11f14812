package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	m := Default()
	if m.UnfoldDepth != DefaultUnfoldDepth {
		t.Errorf("UnfoldDepth = %d, want %d", m.UnfoldDepth, DefaultUnfoldDepth)
	}
	if !m.Repl.Color {
		t.Errorf("Repl.Color = false, want true")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	dir := t.TempDir()
	m, err := LoadOrDefault(filepath.Join(dir, "hubris.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if m.UnfoldDepth != DefaultUnfoldDepth {
		t.Errorf("UnfoldDepth = %d, want %d", m.UnfoldDepth, DefaultUnfoldDepth)
	}
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hubris.yaml")
	contents := "name: demo\nsearch_paths:\n  - vendor\n  - lib\nunfold_depth: 64\nrepl:\n  color: false\n  trace: true\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "demo" {
		t.Errorf("Name = %q, want demo", m.Name)
	}
	if len(m.SearchPaths) != 2 || m.SearchPaths[0] != "vendor" || m.SearchPaths[1] != "lib" {
		t.Errorf("SearchPaths = %v, want [vendor lib]", m.SearchPaths)
	}
	if m.UnfoldDepth != 64 {
		t.Errorf("UnfoldDepth = %d, want 64", m.UnfoldDepth)
	}
	if m.Repl.Color {
		t.Errorf("Repl.Color = true, want false")
	}
	if !m.Repl.Trace {
		t.Errorf("Repl.Trace = false, want true")
	}
}

func TestLoadRejectsNonPositiveUnfoldDepth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hubris.yaml")
	if err := os.WriteFile(path, []byte("unfold_depth: 0\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load: expected error for unfold_depth: 0")
	}
}

func TestLoadRejectsEmptySearchPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hubris.yaml")
	if err := os.WriteFile(path, []byte("search_paths:\n  - \"\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load: expected error for empty search_paths entry")
	}
}
