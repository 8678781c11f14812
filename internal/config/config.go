// Package config loads a project's hubris.yaml manifest: the module search
// path, the delta-unfolding depth bound used by internal/tyctxt's
// evaluator, and the REPL's color/trace defaults.
//
// Grounded on the teacher's internal/eval_harness/spec.go (os.ReadFile +
// yaml.Unmarshal + hand-rolled required-field checks) and internal/manifest
// (Load/Save/Validate shape), adapted from JSON to YAML per SPEC_FULL.md §2.3.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hubris-lang/hubris/internal/errors"
)

// DefaultUnfoldDepth matches tyctxt.New's own default, so a project with no
// hubris.yaml (or no explicit unfold_depth) behaves identically to one.
const DefaultUnfoldDepth = 128

// ReplConfig holds REPL presentation defaults.
type ReplConfig struct {
	Color bool `yaml:"color"`
	Trace bool `yaml:"trace"`
}

// Manifest is the parsed contents of a project's hubris.yaml.
type Manifest struct {
	Name        string     `yaml:"name"`
	SearchPaths []string   `yaml:"search_paths"`
	UnfoldDepth int        `yaml:"unfold_depth"`
	Repl        ReplConfig `yaml:"repl"`
}

// Default returns the manifest a project with no hubris.yaml would get.
func Default() *Manifest {
	return &Manifest{
		UnfoldDepth: DefaultUnfoldDepth,
		Repl:        ReplConfig{Color: true, Trace: false},
	}
}

// Load reads and validates a hubris.yaml manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapReport(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.LDR004,
			Phase:   "loader",
			Message: fmt.Sprintf("failed to read manifest %s: %s", path, err),
		})
	}

	m := Default()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, errors.WrapReport(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.LDR004,
			Phase:   "loader",
			Message: fmt.Sprintf("failed to parse manifest %s: %s", path, err),
		})
	}

	if err := m.Validate(); err != nil {
		return nil, errors.WrapReport(&errors.Report{
			Schema:  errors.Schema,
			Code:    errors.LDR004,
			Phase:   "loader",
			Message: fmt.Sprintf("invalid manifest %s: %s", path, err),
		})
	}

	return m, nil
}

// LoadOrDefault loads path if it exists, and falls back to Default
// otherwise — a missing hubris.yaml is not an error, only an unset one is.
func LoadOrDefault(path string) (*Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the manifest for self-consistency.
func (m *Manifest) Validate() error {
	if m.UnfoldDepth <= 0 {
		return fmt.Errorf("unfold_depth must be positive, got %d", m.UnfoldDepth)
	}
	for _, p := range m.SearchPaths {
		if p == "" {
			return fmt.Errorf("search_paths entries must be non-empty")
		}
	}
	return nil
}
