// Package snippet resolves a gate failure to the best available
// corrective text block. Resolution is three-stage: an explicit snippet
// keyed by gate ID, then a domain template chosen by document type, then
// a paragraph synthesised from the failure's own metadata. New regulatory
// modules rely on this order to work without registry changes.
package snippet

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"unicode"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/orgprofile"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

// InsertPolicy controls where a corrective block is placed.
type InsertPolicy string

const (
	PolicyAppend       InsertPolicy = "append"
	PolicyBeforeAnchor InsertPolicy = "insert_before_anchor"
	PolicyAfterAnchor  InsertPolicy = "insert_after_anchor"
)

// Source identifies which resolution stage produced a corrective text.
type Source string

const (
	SourceDirect   Source = "direct"
	SourceDomain   Source = "domain"
	SourceMetadata Source = "metadata"
)

// Snippet is a vetted corrective text block. GateID keys a direct match;
// Domain (optionally narrowed by DocType) keys a domain template. Body is
// a text/template parameterised by the org profile.
type Snippet struct {
	GateID  string              `yaml:"gate_id,omitempty"`
	Domain  schema.Domain       `yaml:"domain,omitempty"`
	DocType schema.DocumentType `yaml:"doc_type,omitempty"`
	Body    string              `yaml:"body"`
	Policy  InsertPolicy        `yaml:"policy,omitempty"` // defaults to append
	Anchor  string              `yaml:"anchor,omitempty"` // regex locating the insertion anchor

	tmpl     *template.Template
	anchorRe *regexp.Regexp
}

// CorrectiveText is a resolved, fully rendered corrective block.
type CorrectiveText struct {
	Body   string
	Source Source
	Policy InsertPolicy
	Anchor *regexp.Regexp // nil for append
}

// LoadError reports a malformed snippet at registration time. Like
// malformed regex rules, it is fatal at startup, never per-document.
type LoadError struct {
	Key    string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("snippet %q: %s", e.Key, e.Reason)
}

// Mapper holds compiled snippets indexed for the three-stage resolution.
type Mapper struct {
	direct map[string]*Snippet
	domain map[schema.Domain][]*Snippet
}

// NewMapper compiles snippet templates and anchors. The first direct
// snippet registered for a gate ID wins; later ones are rejected so the
// catalog cannot silently shadow itself.
func NewMapper(snippets []Snippet) (*Mapper, error) {
	m := &Mapper{
		direct: make(map[string]*Snippet),
		domain: make(map[schema.Domain][]*Snippet),
	}
	for i := range snippets {
		s := snippets[i]
		key := s.GateID
		if key == "" {
			key = string(s.Domain) + "/" + string(s.DocType)
		}
		if s.Body == "" {
			return nil, &LoadError{Key: key, Reason: "body is required"}
		}
		if s.GateID == "" && s.Domain == schema.DomainUnknown {
			return nil, &LoadError{Key: key, Reason: "snippet must carry a gate_id or a domain"}
		}
		if s.Policy == "" {
			s.Policy = PolicyAppend
		}
		tmpl, err := template.New(key).Option("missingkey=error").Parse(s.Body)
		if err != nil {
			return nil, &LoadError{Key: key, Reason: fmt.Sprintf("template parse failed: %v", err)}
		}
		s.tmpl = tmpl
		if s.Anchor != "" {
			re, err := regexp.Compile(s.Anchor)
			if err != nil {
				return nil, &LoadError{Key: key, Reason: fmt.Sprintf("anchor regex: %v", err)}
			}
			s.anchorRe = re
		}
		if s.GateID != "" {
			if _, exists := m.direct[s.GateID]; exists {
				return nil, &LoadError{Key: key, Reason: "duplicate direct snippet for gate"}
			}
			m.direct[s.GateID] = &s
			continue
		}
		m.domain[s.Domain] = append(m.domain[s.Domain], &s)
	}
	return m, nil
}

// Resolve returns the corrective text for a failure, or false when no
// stage produces one. Stage order: direct gate match, domain template
// (document-type-specific variant over generic, registration order breaks
// ties), metadata fallback from legal_source and suggestion.
func (m *Mapper) Resolve(f schema.GateFailure, dt schema.DocumentType, org *orgprofile.Profile) (*CorrectiveText, bool) {
	if s, ok := m.direct[f.GateID]; ok {
		return m.render(s, SourceDirect, org)
	}

	if s := m.domainVariant(f.Domain, dt); s != nil {
		return m.render(s, SourceDomain, org)
	}

	if body := synthesize(f); body != "" {
		return &CorrectiveText{Body: body, Source: SourceMetadata, Policy: PolicyAppend}, true
	}
	return nil, false
}

// domainVariant picks the most specific registered variant for a domain:
// a variant declaring the document type beats a generic one; within equal
// specificity the earliest registration wins.
func (m *Mapper) domainVariant(d schema.Domain, dt schema.DocumentType) *Snippet {
	variants := m.domain[d]
	if len(variants) == 0 {
		return nil
	}
	if dt != schema.DocUnspecified && dt != "" {
		for _, s := range variants {
			if s.DocType == dt {
				return s
			}
		}
	}
	for _, s := range variants {
		if s.DocType == "" || s.DocType == schema.DocUnspecified {
			return s
		}
	}
	return nil
}

func (m *Mapper) render(s *Snippet, src Source, org *orgprofile.Profile) (*CorrectiveText, bool) {
	if org == nil {
		org = orgprofile.Default()
	}
	var sb strings.Builder
	if err := s.tmpl.Execute(&sb, org); err != nil {
		// Parameters are validated at load; an execute failure means the
		// profile is missing a referenced field. Treat as a miss rather
		// than failing the whole document.
		return nil, false
	}
	return &CorrectiveText{Body: sb.String(), Source: src, Policy: s.Policy, Anchor: s.anchorRe}, true
}

// synthesize builds a minimal corrective paragraph from the failure's own
// metadata: cite the legal source and restate the suggestion as an
// affirmative statement. Empty when neither field is present.
func synthesize(f schema.GateFailure) string {
	source := strings.TrimSpace(f.LegalSource)
	suggestion := strings.TrimSpace(f.Suggestion)
	switch {
	case source != "" && suggestion != "":
		return fmt.Sprintf("In accordance with %s: %s", source, sentence(suggestion))
	case suggestion != "":
		return sentence(suggestion)
	case source != "":
		return fmt.Sprintf("This document is subject to the requirements of %s.", source)
	default:
		return ""
	}
}

// sentence capitalises the first rune and ensures terminal punctuation.
func sentence(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	s = string(r)
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
