// Package redact scrubs personal data from ledger excerpts before they
// are rendered or exported for audit. Corrected documents legitimately
// contain PII; the audit trail must not.
package redact

import "regexp"

const scrubbed = "[SCRUBBED]"

// patterns holds PII-detection regexes in priority order.
var patterns = []*regexp.Regexp{
	// Email addresses
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	// UK National Insurance numbers
	regexp.MustCompile(`\b[A-CEGHJ-PR-TW-Z]{2}\s?\d{2}\s?\d{2}\s?\d{2}\s?[A-D]\b`),
	// UK phone numbers (07… mobiles and +44 forms)
	regexp.MustCompile(`(?:\+44\s?7\d{3}|\(?07\d{3}\)?)\s?\d{3}\s?\d{3}`),
	// Sort code + account number pairs
	regexp.MustCompile(`\b\d{2}-\d{2}-\d{2}\s+\d{8}\b`),
	// IBANs
	regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`),
}

// Scrub replaces known PII patterns in input with [SCRUBBED].
func Scrub(input string) string {
	for _, re := range patterns {
		input = re.ReplaceAllString(input, scrubbed)
	}
	return input
}
