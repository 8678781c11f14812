// Package errors provides the structured error report shared by every
// phase of the pipeline (elaboration, type checking, solving, module
// loading): a single Report shape, carried through errors.As-compatible
// wrapping, and serialized as deterministic JSON via internal/schema.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hubris-lang/hubris/internal/ast"
	"github.com/hubris-lang/hubris/internal/schema"
)

// Schema is the schema version stamped on every Report.
const Schema = schema.ErrorV1

// Fix is a suggested remediation attached to a Report.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured error type for this module. Every
// error builder in this package returns a *Report, which call sites wrap
// with WrapReport so it survives errors.As unwrapping.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// ReportError wraps a Report as an error so structured reports survive
// errors.As() unwrapping.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError. Call sites should return
// errors.WrapReport(report) to preserve structure.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders a Report as deterministic JSON (sorted keys), compact or
// pretty per the compact flag.
func (r *Report) ToJSON(compact bool) (string, error) {
	data, err := schema.MarshalDeterministic(r)
	if err != nil {
		return "", err
	}
	schema.SetCompactMode(compact)
	out, err := schema.FormatJSON(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Many collects the Reports from several independently-failing items in a
// single pass (e.g. every top-level declaration elaborate.ElaborateModule
// accumulated an error for), so a caller can introspect each one instead of
// only the first. Mirrors elaborate_module's own Error::Many.
type Many struct {
	Reports []*Report
}

func (e *Many) Error() string {
	msgs := make([]string, len(e.Reports))
	for i, r := range e.Reports {
		msgs[i] = r.Code + ": " + r.Message
	}
	return fmt.Sprintf("%d error(s): %s", len(e.Reports), strings.Join(msgs, "; "))
}

// AsReports extracts every Report an error chain carries: all of a *Many's
// Reports, or the single Report of a plain *ReportError. Returns false if
// err carries no structured report at all.
func AsReports(err error) ([]*Report, bool) {
	var many *Many
	if errors.As(err, &many) {
		return many.Reports, true
	}
	if r, ok := AsReport(err); ok {
		return []*Report{r}, true
	}
	return nil, false
}

// NewGeneric wraps an arbitrary error as a phase-tagged Report when no
// more specific code applies.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  Schema,
		Code:    "GEN001",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}
