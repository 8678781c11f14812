// Package module is the import loader collaborator spec.md §6 leaves
// external to the elaborator: given a search directory and a qualified
// module name, it locates that module's source, hands it to a pluggable
// Source function for parsing (parsing itself is out of scope per
// spec.md §1), elaborates the result, and registers it into the caller's
// TyCtxt — implementing tyctxt.Importer so it can be wired as
// TyCtxt.Importer.
//
// Adapted from the teacher's internal/module/loader.go: the cache-by-
// identity map, the HUBRIS_PATH-derived search paths (teacher:
// AILANG_PATH), and the load-stack cycle detection survive; everything
// that depended on the teacher's own lexer/parser is replaced with a
// caller-supplied Source, since this module has no surface parser.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/core"
	"github.com/hubris-lang/hubris/internal/elaborate"
	"github.com/hubris-lang/hubris/internal/errors"
	"github.com/hubris-lang/hubris/internal/tyctxt"
)

// Source parses the file at path into a surface module. Supplied by the
// caller (a real parser, or a test double) since parsing is outside this
// package's scope.
type Source func(path string) (*ast.Module, error)

// Loader resolves qualified module names to files, parses them via
// Source, and elaborates+registers them into whatever TyCtxt an Import
// call is made against.
type Loader struct {
	source Source

	mu          sync.Mutex
	searchPaths []string
	loaded      map[string]bool // qualified-name key -> already registered
	stack       []string        // current import chain, for cycle detection
}

// NewLoader returns a Loader that parses module files with source and
// searches "." plus every entry of HUBRIS_PATH (os.PathListSeparator
// separated).
func NewLoader(source Source) *Loader {
	return NewLoaderWithSearchPaths(source, defaultSearchPaths())
}

// NewLoaderWithSearchPaths is NewLoader with an explicit search path list
// in place of the HUBRIS_PATH-derived default — the project manifest's
// search_paths (see internal/config), rather than the environment, decides
// where imports resolve.
func NewLoaderWithSearchPaths(source Source, searchPaths []string) *Loader {
	return &Loader{
		source:      source,
		searchPaths: searchPaths,
		loaded:      map[string]bool{},
	}
}

func defaultSearchPaths() []string {
	paths := []string{"."}
	if hp := os.Getenv("HUBRIS_PATH"); hp != "" {
		paths = append(paths, strings.Split(hp, string(os.PathListSeparator))...)
	}
	return paths
}

// Import implements tyctxt.Importer. dir is searched first, then the
// Loader's configured search paths.
func (l *Loader) Import(tc *tyctxt.TyCtxt, dir string, name core.Name) error {
	key := name.String()

	l.mu.Lock()
	if l.loaded[key] {
		l.mu.Unlock()
		return nil
	}
	if err := l.checkCycle(key); err != nil {
		l.mu.Unlock()
		return err
	}
	l.stack = append(l.stack, key)
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.stack = l.stack[:len(l.stack)-1]
		l.mu.Unlock()
	}()

	path, err := l.resolve(dir, name)
	if err != nil {
		return errors.WrapReport(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.LDR001,
			Phase:   "loader",
			Message: fmt.Sprintf("module %s not found on any search path", key),
			Data:    map[string]any{"module": key},
		})
	}

	if l.source == nil {
		return errors.WrapReport(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.LDR005,
			Phase:   "loader",
			Message: fmt.Sprintf("no Source configured to parse %s", path),
			Data:    map[string]any{"path": path},
		})
	}

	m, err := l.source(path)
	if err != nil {
		return errors.WrapReport(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.LDR005,
			Phase:   "loader",
			Message: fmt.Sprintf("failed to parse %s: %s", path, err),
			Data:    map[string]any{"path": path},
		})
	}

	if _, err := elaborate.ElaborateModule(tc, m); err != nil {
		return err
	}

	l.mu.Lock()
	l.loaded[key] = true
	l.mu.Unlock()
	return nil
}

func (l *Loader) checkCycle(key string) error {
	for i, seen := range l.stack {
		if seen == key {
			cycle := append(append([]string{}, l.stack[i:]...), key)
			return errors.WrapReport(&errors.Report{
				Schema:  errors.Schema,
				Code:    errors.LDR002,
				Phase:   "loader",
				Message: fmt.Sprintf("import cycle detected: %s", strings.Join(cycle, " -> ")),
				Data:    map[string]any{"cycle": cycle},
			})
		}
	}
	return nil
}

// resolve finds the source file for name, trying dir before the Loader's
// own search paths. A qualified name's components become a relative path
// with a ".hub" extension, e.g. Qualified("std", "list") -> "std/list.hub".
func (l *Loader) resolve(dir string, name core.Name) (string, error) {
	rel := filepath.Join(name.Components...) + ".hub"

	candidates := make([]string, 0, len(l.searchPaths)+1)
	if dir != "" {
		candidates = append(candidates, dir)
	}
	candidates = append(candidates, l.searchPaths...)

	for _, base := range candidates {
		path := filepath.Join(base, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return filepath.Abs(path)
		}
	}
	return "", fmt.Errorf("%s not found under %v", rel, candidates)
}
