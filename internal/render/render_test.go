package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

func sampleResult() *schema.CorrectionResult {
	return &schema.CorrectionResult{
		CorrectedText: "Questions may be sent to jane@corp.example.\n\nCapital is at risk.",
		DocumentType:  schema.DocFinancial,
		Changes: []schema.ChangeRecord{
			{
				RuleID: "snippet:direct",
				GateID: "gdpr:privacy_contact",
				Level:  schema.LevelInsertion,
				Offset: 0,
				Before: "",
				After:  "Questions may be sent to jane@corp.example.",
			},
		},
		Skipped: []schema.SkippedGate{
			{GateID: "fca:complaints_contact", RuleID: "complaints-contact-block", Reason: schema.SkipConflict},
		},
		ContentHash:  "sha256:abc",
		RegistryHash: "def",
		InvocationID: "11111111-2222-3333-4444-555555555555",
	}
}

func TestNewRenderer(t *testing.T) {
	for _, format := range []string{"json", "md"} {
		r, err := NewRenderer(format)
		require.NoError(t, err, format)
		assert.NotNil(t, r)
	}
	_, err := NewRenderer("xml")
	require.Error(t, err)
}

func TestJSONRendererScrubsLedgerOnly(t *testing.T) {
	r, err := NewRenderer("json")
	require.NoError(t, err)

	out, err := r.Render(sampleResult())
	require.NoError(t, err)

	var decoded schema.CorrectionResult
	require.NoError(t, json.Unmarshal(out, &decoded))

	// The ledger span loses its PII, the corrected document keeps it.
	assert.Contains(t, decoded.Changes[0].After, "[SCRUBBED]")
	assert.NotContains(t, decoded.Changes[0].After, "jane@corp.example")
	assert.Contains(t, decoded.CorrectedText, "jane@corp.example")

	assert.Equal(t, "sha256:abc", decoded.ContentHash)
	assert.Len(t, decoded.Skipped, 1)
}

func TestJSONRendererDoesNotMutateInput(t *testing.T) {
	r, err := NewRenderer("json")
	require.NoError(t, err)

	result := sampleResult()
	_, err = r.Render(result)
	require.NoError(t, err)
	assert.Contains(t, result.Changes[0].After, "jane@corp.example")
}

func TestMarkdownRenderer(t *testing.T) {
	r, err := NewRenderer("md")
	require.NoError(t, err)

	out, err := r.Render(sampleResult())
	require.NoError(t, err)
	report := string(out)

	assert.True(t, strings.HasPrefix(report, "# Correction Report"))
	assert.Contains(t, report, "snippet:direct")
	assert.Contains(t, report, "fca:complaints_contact")
	assert.Contains(t, report, "conflict")
	assert.Contains(t, report, "[SCRUBBED]")
	assert.NotContains(t, report, "jane@corp.example")
	assert.Contains(t, report, "11111111-2222-3333-4444-555555555555")
}

func TestDiff(t *testing.T) {
	assert.Empty(t, Diff("same", "same"))

	patch := Diff("The threshold is £85,000.", "The threshold is £90,000.")
	assert.NotEmpty(t, patch)
	assert.Contains(t, patch, "@@")
}
