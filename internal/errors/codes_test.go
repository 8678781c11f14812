package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		phase    string
		category string
	}{
		{"LDR001", LDR001, "loader", "resolution"},
		{"LDR002", LDR002, "loader", "resolution"},
		{"LDR004", LDR004, "loader", "config"},

		{"ELB001", ELB001, "elaborate", "scope"},
		{"ELB004", ELB004, "elaborate", "shape"},
		{"ELB006", ELB006, "elaborate", "coverage"},

		{"TYC001", TYC001, "typecheck", "reduction"},
		{"TYC002", TYC002, "typecheck", "recursor"},

		{"SLV001", SLV001, "typecheck", "unification"},
		{"SLV002", SLV002, "typecheck", "unification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := GetErrorInfo(tt.code)
			if !ok {
				t.Fatalf("code %s not found in registry", tt.code)
			}
			if info.Phase != tt.phase {
				t.Errorf("phase = %q, want %q", info.Phase, tt.phase)
			}
			if info.Category != tt.category {
				t.Errorf("category = %q, want %q", info.Category, tt.category)
			}
		})
	}
}

func TestAllErrorCodesInRegistry(t *testing.T) {
	codes := []string{
		LDR001, LDR002, LDR003, LDR004, LDR005,
		ELB001, ELB002, ELB003, ELB004, ELB005, ELB006,
		TYC001, TYC002, TYC003, TYC004,
		SLV001, SLV002,
	}
	for _, code := range codes {
		if _, ok := GetErrorInfo(code); !ok {
			t.Errorf("code %s missing from ErrorRegistry", code)
		}
	}
	if len(ErrorRegistry) != len(codes) {
		t.Errorf("ErrorRegistry has %d entries, expected %d", len(ErrorRegistry), len(codes))
	}
}

func TestErrorInfoConsistency(t *testing.T) {
	for code, info := range ErrorRegistry {
		if info.Code != code {
			t.Errorf("registry key %s does not match ErrorInfo.Code %s", code, info.Code)
		}
		if info.Description == "" {
			t.Errorf("code %s has empty description", code)
		}
	}
}

func TestErrorPhaseCheckers(t *testing.T) {
	if !IsLoaderError(LDR001) {
		t.Error("LDR001 should be a loader error")
	}
	if !IsElaborationError(ELB001) {
		t.Error("ELB001 should be an elaboration error")
	}
	if !IsTypeError(TYC001) {
		t.Error("TYC001 should be a typecheck error")
	}
	if !IsTypeError(SLV001) {
		t.Error("SLV001 should be a typecheck error")
	}
	if IsLoaderError(ELB001) {
		t.Error("ELB001 should not be a loader error")
	}
}
