package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("result").Parse(`# Correction Report

**Document type:** {{ .DocumentType }}
**Changes applied:** {{ len .Changes }} | **Skipped:** {{ len .Skipped }}
**Content hash:** {{ .ContentHash }}
**Registry hash:** {{ .RegistryHash }}
{{ if .Changes }}
---

## Changes
{{ range .Changes }}
### {{ .RuleID }} · {{ .GateID }} · {{ .Level }}
Before:
` + "```" + `
{{ .Before }}
` + "```" + `
After:
` + "```" + `
{{ .After }}
` + "```" + `
{{ end }}{{ end }}{{ if .Skipped }}
---

## Skipped
{{ range .Skipped }}
- **{{ .GateID }}**{{ if .RuleID }} ({{ .RuleID }}){{ end }}: {{ .Reason }}
{{ end }}{{ end }}
---
*Invocation: {{ .InvocationID }}*
`))

func (r *markdownRenderer) Render(result *schema.CorrectionResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, scrubLedger(result)); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
