// Package doctype defines per-document-type profiles: the trigger
// keywords used to infer a type when the caller leaves it unspecified,
// and the violation phrases the integrity re-scan watches for.
package doctype

import (
	"fmt"
	"strings"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

// Profile holds the keyword sets for one document type.
type Profile struct {
	Type schema.DocumentType
	// Triggers are lowercase fragments whose presence suggests this type.
	Triggers []string
	// ViolationPhrases are lowercase fragments that must never be
	// introduced by a correction; the integrity validator re-scans for
	// them after each priority level.
	ViolationPhrases []string
	// Domains are the compliance domains this type most commonly fails in,
	// used to seed context filtering for type-agnostic failures.
	Domains []schema.Domain
}

// Get returns the profile for the given document type.
func Get(t schema.DocumentType) (*Profile, error) {
	switch t {
	case schema.DocFinancial:
		return financial(), nil
	case schema.DocPrivacy:
		return privacy(), nil
	case schema.DocTax:
		return tax(), nil
	case schema.DocNDA:
		return nda(), nil
	case schema.DocEmployment:
		return employment(), nil
	default:
		return nil, fmt.Errorf("no profile for document type %q", t)
	}
}

// Infer guesses the document type from trigger keyword hits. The type with
// the most hits wins; ties break in schema.AllDocumentTypes order so the
// result is deterministic. Returns DocUnspecified when nothing matches.
func Infer(text string) schema.DocumentType {
	lower := strings.ToLower(text)
	best := schema.DocUnspecified
	bestHits := 0
	for _, t := range schema.AllDocumentTypes() {
		p, err := Get(t)
		if err != nil {
			continue
		}
		hits := 0
		for _, trig := range p.Triggers {
			if strings.Contains(lower, trig) {
				hits++
			}
		}
		if hits > bestHits {
			best = t
			bestHits = hits
		}
	}
	return best
}

// ViolationPhrases returns the re-scan phrase set for a document type.
// Unspecified documents are scanned against every profile's phrases.
func ViolationPhrases(t schema.DocumentType) []string {
	if p, err := Get(t); err == nil {
		return p.ViolationPhrases
	}
	var all []string
	for _, dt := range schema.AllDocumentTypes() {
		p, err := Get(dt)
		if err != nil {
			continue
		}
		all = append(all, p.ViolationPhrases...)
	}
	return all
}
