package schema

import "testing"

func TestSeverityOrdinalOrdering(t *testing.T) {
	ordered := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		lo := SeverityOrdinal(ordered[i-1])
		hi := SeverityOrdinal(ordered[i])
		if lo >= hi {
			t.Errorf("expected %s (%d) < %s (%d)", ordered[i-1], lo, ordered[i], hi)
		}
	}
	if got := SeverityOrdinal("SEVERE"); got != -1 {
		t.Errorf("unknown severity ordinal = %d, want -1", got)
	}
}

func TestLevelsAscending(t *testing.T) {
	levels := AllLevels()
	if len(levels) != 4 {
		t.Fatalf("expected 4 levels, got %d", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i-1] >= levels[i] {
			t.Errorf("levels out of order: %d before %d", levels[i-1], levels[i])
		}
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelLexical:      "lexical",
		LevelInsertion:    "insertion",
		LevelStructural:   "structural",
		LevelCrossCutting: "cross_cutting",
		Level(99):         "unknown",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}

func TestGateFailureModule(t *testing.T) {
	cases := []struct {
		gateID string
		want   string
	}{
		{"fca:risk_warning_prominence", "fca"},
		{"tax_uk:vat_threshold", "tax_uk"},
		{"unnamespaced", "unnamespaced"},
		{"", ""},
	}
	for _, tc := range cases {
		f := GateFailure{GateID: tc.gateID}
		if got := f.Module(); got != tc.want {
			t.Errorf("Module(%q) = %q, want %q", tc.gateID, got, tc.want)
		}
	}
}

func TestIsValidDomain(t *testing.T) {
	for _, d := range AllDomains() {
		if !IsValidDomain(d) {
			t.Errorf("domain %q should be valid", d)
		}
	}
	if !IsValidDomain(DomainUnknown) {
		t.Error("unknown domain should be accepted")
	}
	if IsValidDomain("astrology") {
		t.Error("unrecognised domain should be rejected")
	}
}

func TestIsValidDocumentType(t *testing.T) {
	for _, dt := range AllDocumentTypes() {
		if !IsValidDocumentType(dt) {
			t.Errorf("type %q should be valid", dt)
		}
	}
	if !IsValidDocumentType(DocUnspecified) || !IsValidDocumentType("") {
		t.Error("unspecified and empty should be accepted")
	}
	if IsValidDocumentType("screenplay") {
		t.Error("unrecognised type should be rejected")
	}
}

func TestInvalidInputErrorMessage(t *testing.T) {
	err := &InvalidInputError{Field: "document_type", Reason: "unsupported"}
	want := "invalid input: document_type: unsupported"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	bare := &InvalidInputError{Reason: "empty payload"}
	if bare.Error() != "invalid input: empty payload" {
		t.Errorf("Error() = %q", bare.Error())
	}
}
