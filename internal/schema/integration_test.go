package schema_test

import (
	"encoding/json"
	"errors"
	"testing"

	herrors "github.com/hubris-lang/hubris/internal/errors"
	"github.com/hubris-lang/hubris/internal/schema"
)

// TestErrorSchemaIntegration verifies error JSON schemas work end-to-end.
func TestErrorSchemaIntegration(t *testing.T) {
	rep := &herrors.Report{
		Schema:  herrors.Schema,
		Code:    herrors.SLV001,
		Phase:   "typecheck",
		Message: "definitional mismatch",
	}

	jsonStr, err := rep.ToJSON(false)
	if err != nil {
		t.Fatalf("Failed to convert report to JSON: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	schemaField, ok := parsed["schema"].(string)
	if !ok {
		t.Fatal("Missing or invalid schema field")
	}
	if !schema.Accepts(schemaField, schema.ErrorV1) {
		t.Errorf("Schema %q not accepted by %q", schemaField, schema.ErrorV1)
	}

	requiredFields := []string{"schema", "phase", "code", "message"}
	for _, field := range requiredFields {
		if _, ok := parsed[field]; !ok {
			t.Errorf("Missing required field: %s", field)
		}
	}
}

// TestReportErrorRoundTrip verifies WrapReport/AsReport survive errors.As.
func TestReportErrorRoundTrip(t *testing.T) {
	rep := &herrors.Report{
		Schema:  herrors.Schema,
		Code:    herrors.ELB001,
		Phase:   "elaborate",
		Message: "unknown variable `x`",
	}

	wrapped := herrors.WrapReport(rep)
	unwrapped := errors.New("outer: " + wrapped.Error())

	if got, ok := herrors.AsReport(wrapped); !ok || got.Code != herrors.ELB001 {
		t.Fatalf("AsReport round trip failed: got %+v, ok=%v", got, ok)
	}

	if unwrapped.Error() == "" {
		t.Error("expected a non-empty wrapped error message")
	}
}

// TestCompactModeIntegration verifies compact mode affects real Report output.
func TestCompactModeIntegration(t *testing.T) {
	rep := &herrors.Report{Schema: herrors.Schema, Code: herrors.TYC001, Phase: "typecheck", Message: "depth exceeded"}

	prettyJSON, err := rep.ToJSON(false)
	if err != nil {
		t.Fatalf("Failed to generate pretty JSON: %v", err)
	}
	compactJSON, err := rep.ToJSON(true)
	if err != nil {
		t.Fatalf("Failed to generate compact JSON: %v", err)
	}

	if len(prettyJSON) <= len(compactJSON) {
		t.Error("Pretty JSON should be longer than compact JSON")
	}

	var prettyParsed, compactParsed interface{}
	if err := json.Unmarshal([]byte(prettyJSON), &prettyParsed); err != nil {
		t.Fatalf("Failed to parse pretty JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(compactJSON), &compactParsed); err != nil {
		t.Fatalf("Failed to parse compact JSON: %v", err)
	}

	schema.SetCompactMode(false)
}

// TestDeterministicOutput verifies JSON output is deterministic across runs.
func TestDeterministicOutput(t *testing.T) {
	outputs := make([]string, 3)
	for i := 0; i < 3; i++ {
		rep := &herrors.Report{
			Schema:  herrors.Schema,
			Code:    herrors.SLV002,
			Phase:   "typecheck",
			Message: "unresolved constraint shape",
			Data:    map[string]any{"b": 2, "a": 1},
		}
		out, err := rep.ToJSON(true)
		if err != nil {
			t.Fatalf("Failed to generate JSON (iteration %d): %v", i, err)
		}
		outputs[i] = out
	}

	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Errorf("Output %d differs from output 0:\nOutput 0:\n%s\nOutput %d:\n%s",
				i, outputs[0], i, outputs[i])
		}
	}
}
