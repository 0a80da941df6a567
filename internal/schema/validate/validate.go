// Package validate is the input boundary for validation results. Gate
// failures are checked once here; malformed records surface as
// schema.InvalidInputError before any correction begins, never deep
// inside rule application.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

// ParseFailures unmarshals a JSON array of gate-failure records and
// validates each one. Domains absent from the input are inferred from the
// gate ID and message.
func ParseFailures(raw []byte) ([]schema.GateFailure, error) {
	var failures []schema.GateFailure
	if err := json.Unmarshal(raw, &failures); err != nil {
		return nil, &schema.InvalidInputError{Field: "validation_results", Reason: fmt.Sprintf("JSON parse failed: %v", err)}
	}
	if err := Failures(failures); err != nil {
		return nil, err
	}
	return failures, nil
}

// Failures validates a slice of gate failures in place, inferring missing
// domains. Returns schema.InvalidInputError on the first malformed record.
func Failures(failures []schema.GateFailure) error {
	for i := range failures {
		if err := failure(&failures[i], i); err != nil {
			return err
		}
	}
	return nil
}

// DocumentType validates the document_type input value.
func DocumentType(t schema.DocumentType) error {
	if !schema.IsValidDocumentType(t) {
		return &schema.InvalidInputError{Field: "document_type", Reason: fmt.Sprintf("unsupported document type %q", t)}
	}
	return nil
}

func failure(f *schema.GateFailure, idx int) error {
	prefix := fmt.Sprintf("validation_results[%d]", idx)

	if f.GateID == "" {
		return &schema.InvalidInputError{Field: prefix, Reason: "gate_id is required"}
	}
	if schema.SeverityOrdinal(f.Severity) < 0 {
		return &schema.InvalidInputError{
			Field:  prefix,
			Reason: fmt.Sprintf("invalid severity %q (must be CRITICAL, HIGH, MEDIUM, or LOW)", f.Severity),
		}
	}
	if f.Message == "" {
		return &schema.InvalidInputError{Field: prefix, Reason: "message is required"}
	}
	if !schema.IsValidDomain(f.Domain) {
		return &schema.InvalidInputError{Field: prefix, Reason: fmt.Sprintf("unknown domain %q", f.Domain)}
	}
	if f.Domain == schema.DomainUnknown {
		f.Domain = InferDomain(f.GateID, f.Message)
	}
	return nil
}

// domainHints maps keyword fragments to domains, checked in fixed order so
// inference is deterministic. Fragments are matched case-insensitively
// against the gate ID and message.
var domainHints = []struct {
	fragment string
	domain   schema.Domain
}{
	{"risk", schema.DomainRiskWarning},
	{"consent", schema.DomainConsent},
	{"opt_in", schema.DomainConsent},
	{"opt-in", schema.DomainConsent},
	{"withdraw", schema.DomainConsent},
	{"disclos", schema.DomainDisclosure},
	{"disclaim", schema.DomainDisclosure},
	{"notice", schema.DomainDisclosure},
	{"procedure", schema.DomainProcedure},
	{"process", schema.DomainProcedure},
	{"steps", schema.DomainProcedure},
	{"definition", schema.DomainDefinition},
	{"defined term", schema.DomainDefinition},
	{"terminolog", schema.DomainDefinition},
	{"liabilit", schema.DomainLimitation},
	{"limitation", schema.DomainLimitation},
	{"indemnif", schema.DomainLimitation},
}

// InferDomain derives a domain from the gate ID and message when the
// producing module did not set one. Returns DomainUnknown when no hint
// matches, which routes the failure to the metadata fallback path.
func InferDomain(gateID, message string) schema.Domain {
	haystack := strings.ToLower(gateID + " " + message)
	for _, h := range domainHints {
		if strings.Contains(haystack, h.fragment) {
			return h.domain
		}
	}
	return schema.DomainUnknown
}
