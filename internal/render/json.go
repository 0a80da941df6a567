package render

import (
	"encoding/json"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/redact"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(result *schema.CorrectionResult) ([]byte, error) {
	return json.MarshalIndent(scrubLedger(result), "", "  ")
}

// scrubLedger returns a copy of the result with PII scrubbed from ledger
// spans. The corrected text itself is the caller's document and is left
// untouched.
func scrubLedger(result *schema.CorrectionResult) *schema.CorrectionResult {
	out := *result
	out.Changes = make([]schema.ChangeRecord, len(result.Changes))
	for i, c := range result.Changes {
		c.Before = redact.Scrub(c.Before)
		c.After = redact.Scrub(c.After)
		out.Changes[i] = c
	}
	return &out
}
