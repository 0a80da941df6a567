// Package rules defines correction rules and the immutable pattern
// registry that serves them. Rules come in three kinds: regex
// substitutions, template insertions, and structural moves. All patterns
// and templates compile once at registry construction; a malformed
// definition is fatal at startup, never at per-document call time.
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/orgprofile"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/snippet"
)

// Kind discriminates the rule variants.
type Kind string

const (
	KindRegex      Kind = "regex"
	KindTemplate   Kind = "template"
	KindStructural Kind = "structural"
)

// Position names where a structural rule relocates its source section.
type Position string

const (
	PosBeforeTarget  Position = "before_target"
	PosAfterTarget   Position = "after_target"
	PosDocumentStart Position = "document_start"
	PosDocumentEnd   Position = "document_end"
)

// Meta carries the fields common to every rule: a stable ID for
// traceability, the priority level, and the applicability predicate
// (gates answered, domains answered, document types served).
type Meta struct {
	ID       string                `yaml:"id" json:"id"`
	Level    schema.Level          `yaml:"-" json:"level"`
	GateIDs  []string              `yaml:"gates,omitempty" json:"gates,omitempty"`
	Domains  []schema.Domain       `yaml:"domains,omitempty" json:"domains,omitempty"`
	DocTypes []schema.DocumentType `yaml:"doc_types,omitempty" json:"doc_types,omitempty"`
}

// AnswersGate reports whether the rule explicitly names the gate ID.
func (m Meta) AnswersGate(gateID string) bool {
	for _, g := range m.GateIDs {
		if g == gateID {
			return true
		}
	}
	return false
}

// AnswersDomain reports whether the rule names the domain.
func (m Meta) AnswersDomain(d schema.Domain) bool {
	if d == schema.DomainUnknown {
		return false
	}
	for _, rd := range m.Domains {
		if rd == d {
			return true
		}
	}
	return false
}

// Wildcard reports whether the rule names neither gates nor domains and
// therefore matches any failure of an applicable document type.
func (m Meta) Wildcard() bool {
	return len(m.GateIDs) == 0 && len(m.Domains) == 0
}

// AppliesToType reports whether the rule serves the document type. Rules
// without declared types are type-agnostic; an unspecified document
// matches every rule.
func (m Meta) AppliesToType(dt schema.DocumentType) bool {
	if len(m.DocTypes) == 0 || dt == schema.DocUnspecified || dt == "" {
		return true
	}
	for _, t := range m.DocTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// Rule is the closed tagged variant over the three correction kinds.
// Concrete types are *RegexRule, *TemplateRule, and *StructuralRule.
type Rule interface {
	Info() Meta
	Kind() Kind
	// compile prepares patterns and templates; called once by NewRegistry.
	compile() error
}

// CompilationError reports a malformed pattern or template at registry
// load time.
type CompilationError struct {
	RuleID string
	Err    error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("rule %q failed to compile: %v", e.RuleID, e.Err)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// RegexRule substitutes matched spans. Replacement may reference capture
// groups ($1, ${name}). Application is anchored: the rule only fires when
// the pattern still matches the working text.
type RegexRule struct {
	Meta        `yaml:",inline"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Replacement string `yaml:"replacement" json:"replacement"`

	re *regexp.Regexp
}

func (r *RegexRule) Info() Meta { return r.Meta }
func (r *RegexRule) Kind() Kind { return KindRegex }

func (r *RegexRule) compile() error {
	if r.Pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return err
	}
	r.re = re
	return nil
}

// Matches reports whether the trigger text is still present.
func (r *RegexRule) Matches(text string) bool { return r.re.MatchString(text) }

// Spans returns every match span in the text, in order.
func (r *RegexRule) Spans(text string) [][]int { return r.re.FindAllStringIndex(text, -1) }

// Expand renders the replacement for a single matched span.
func (r *RegexRule) Expand(text string, span []int) string {
	match := r.re.FindStringSubmatchIndex(text[span[0]:span[1]])
	if match == nil {
		return text[span[0]:span[1]]
	}
	return string(r.re.ExpandString(nil, r.Replacement, text[span[0]:span[1]], match))
}

// TemplateRule inserts a parameterised corrective passage at a position
// determined by its insertion policy.
type TemplateRule struct {
	Meta   `yaml:",inline"`
	Body   string               `yaml:"body" json:"body"`
	Policy snippet.InsertPolicy `yaml:"policy" json:"policy"`
	Anchor string               `yaml:"anchor,omitempty" json:"anchor,omitempty"`

	tmpl     *template.Template
	anchorRe *regexp.Regexp
}

func (r *TemplateRule) Info() Meta { return r.Meta }
func (r *TemplateRule) Kind() Kind { return KindTemplate }

func (r *TemplateRule) compile() error {
	if r.Body == "" {
		return fmt.Errorf("body is required")
	}
	if r.Policy == "" {
		r.Policy = snippet.PolicyAppend
	}
	switch r.Policy {
	case snippet.PolicyAppend, snippet.PolicyBeforeAnchor, snippet.PolicyAfterAnchor:
	default:
		return fmt.Errorf("unknown insertion policy %q", r.Policy)
	}
	if r.Policy != snippet.PolicyAppend && r.Anchor == "" {
		return fmt.Errorf("policy %q requires an anchor", r.Policy)
	}
	tmpl, err := template.New(r.ID).Option("missingkey=error").Parse(r.Body)
	if err != nil {
		return err
	}
	r.tmpl = tmpl
	if r.Anchor != "" {
		re, err := regexp.Compile(r.Anchor)
		if err != nil {
			return fmt.Errorf("anchor regex: %w", err)
		}
		r.anchorRe = re
	}
	return nil
}

// Render executes the body template against the org profile.
func (r *TemplateRule) Render(org *orgprofile.Profile) (string, error) {
	if org == nil {
		org = orgprofile.Default()
	}
	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, org); err != nil {
		return "", fmt.Errorf("rendering rule %q: %w", r.ID, err)
	}
	return sb.String(), nil
}

// AnchorSpan returns the first anchor match span, or nil when the anchor
// is absent from the text (or the policy is append).
func (r *TemplateRule) AnchorSpan(text string) []int {
	if r.anchorRe == nil {
		return nil
	}
	return r.anchorRe.FindStringIndex(text)
}

// StructuralRule relocates the first paragraph matching Source relative to
// the first paragraph matching Target, expressed declaratively so modules
// can ship reordering fixes without code.
type StructuralRule struct {
	Meta     `yaml:",inline"`
	Source   string   `yaml:"source" json:"source"`
	Target   string   `yaml:"target,omitempty" json:"target,omitempty"`
	Position Position `yaml:"position" json:"position"`

	sourceRe *regexp.Regexp
	targetRe *regexp.Regexp
}

func (r *StructuralRule) Info() Meta { return r.Meta }
func (r *StructuralRule) Kind() Kind { return KindStructural }

func (r *StructuralRule) compile() error {
	if r.Source == "" {
		return fmt.Errorf("source matcher is required")
	}
	switch r.Position {
	case PosBeforeTarget, PosAfterTarget:
		if r.Target == "" {
			return fmt.Errorf("position %q requires a target matcher", r.Position)
		}
	case PosDocumentStart, PosDocumentEnd:
	default:
		return fmt.Errorf("unknown position %q", r.Position)
	}
	re, err := regexp.Compile(r.Source)
	if err != nil {
		return fmt.Errorf("source regex: %w", err)
	}
	r.sourceRe = re
	if r.Target != "" {
		tre, err := regexp.Compile(r.Target)
		if err != nil {
			return fmt.Errorf("target regex: %w", err)
		}
		r.targetRe = tre
	}
	return nil
}

// MatchSource returns the index of the first paragraph matching the
// source matcher, or -1.
func (r *StructuralRule) MatchSource(paragraphs []string) int {
	for i, p := range paragraphs {
		if r.sourceRe.MatchString(p) {
			return i
		}
	}
	return -1
}

// MatchTarget returns the index of the first paragraph matching the
// target matcher, skipping the source paragraph itself. Returns -1 when
// the position needs no target or none matches.
func (r *StructuralRule) MatchTarget(paragraphs []string, sourceIdx int) int {
	if r.targetRe == nil {
		return -1
	}
	for i, p := range paragraphs {
		if i == sourceIdx {
			continue
		}
		if r.targetRe.MatchString(p) {
			return i
		}
	}
	return -1
}
