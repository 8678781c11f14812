package tyctxt

import (
	"fmt"

	"github.com/hubris-lang/hubris/internal/core"
)

// LoadImport resolves and registers a module's declarations given the
// directory to search from and the qualified module name, delegating to
// Importer (wired by internal/module's loader at startup). Mirrors
// elaborate_import in original_source/src/hubris/elaborate/mod.rs, which
// computes the importing file's parent directory and calls
// `ty_cx.load_import(load_path, &core_name)`.
func (tc *TyCtxt) LoadImport(dir string, name core.Name) error {
	if tc.Importer == nil {
		return fmt.Errorf("tyctxt: LoadImport: no Importer configured")
	}
	return tc.Importer(tc, dir, name)
}
