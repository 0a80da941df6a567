package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/snippet"
)

// Catalog is the unit of registration: a named set of rules and snippets
// supplied by a compliance module.
type Catalog struct {
	Name     string
	Rules    []Rule
	Snippets []snippet.Snippet
}

// Registry is the immutable rule table for one engine instance. It is
// built once, compiled eagerly, and never mutated afterwards, so
// concurrent correction calls can share it without locking. Hot reload is
// a whole-registry swap through Store.
type Registry struct {
	rules    []Rule // registration order
	snippets []snippet.Snippet
	mapper   *snippet.Mapper
	hash     string
}

// NewRegistry builds a registry from catalogs in registration order.
// Every pattern and template compiles here; the first failure aborts
// construction with a CompilationError.
func NewRegistry(catalogs ...Catalog) (*Registry, error) {
	r := &Registry{}
	seen := make(map[string]string) // rule ID → catalog name
	for _, cat := range catalogs {
		for _, rule := range cat.Rules {
			meta := rule.Info()
			if meta.ID == "" {
				return nil, &CompilationError{RuleID: "(missing id)", Err: fmt.Errorf("catalog %q contains a rule with no id", cat.Name)}
			}
			if prev, dup := seen[meta.ID]; dup {
				return nil, &CompilationError{RuleID: meta.ID, Err: fmt.Errorf("duplicate rule id (catalogs %q and %q)", prev, cat.Name)}
			}
			if meta.Level.String() == "unknown" {
				return nil, &CompilationError{RuleID: meta.ID, Err: fmt.Errorf("invalid priority level %d", int(meta.Level))}
			}
			if err := rule.compile(); err != nil {
				return nil, &CompilationError{RuleID: meta.ID, Err: err}
			}
			seen[meta.ID] = cat.Name
			r.rules = append(r.rules, rule)
		}
		r.snippets = append(r.snippets, cat.Snippets...)
	}

	mapper, err := snippet.NewMapper(r.snippets)
	if err != nil {
		return nil, &CompilationError{RuleID: "(snippet)", Err: err}
	}
	r.mapper = mapper

	snap, err := r.buildSnapshot()
	if err != nil {
		return nil, &CompilationError{RuleID: "(snapshot)", Err: err}
	}
	r.hash = snap.Hash
	return r, nil
}

// Rules returns every registered rule in registration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Mapper returns the snippet mapper built from the registered catalogs.
func (r *Registry) Mapper() *snippet.Mapper { return r.mapper }

// Hash returns the snapshot hash computed at construction.
func (r *Registry) Hash() string { return r.hash }

// FindRules returns the rules applicable to a failure, ordered by
// specificity: rules naming the gate ID first, then rules naming the
// failure's domain, then wildcard rules. Within each band registration
// order is preserved. Document-type filtering applies when dt names a
// concrete type; pass DocUnspecified to disable it (permissive mode).
func (r *Registry) FindRules(f schema.GateFailure, dt schema.DocumentType) []Rule {
	var byGate, byDomain, wildcard []Rule
	for _, rule := range r.rules {
		meta := rule.Info()
		if !meta.AppliesToType(dt) {
			continue
		}
		switch {
		case meta.AnswersGate(f.GateID):
			byGate = append(byGate, rule)
		case meta.AnswersDomain(f.Domain):
			byDomain = append(byDomain, rule)
		case meta.Wildcard():
			wildcard = append(wildcard, rule)
		}
	}
	out := make([]Rule, 0, len(byGate)+len(byDomain)+len(wildcard))
	out = append(out, byGate...)
	out = append(out, byDomain...)
	out = append(out, wildcard...)
	return out
}

// descriptor is the serialisable view of a rule used for snapshot hashing.
type descriptor struct {
	ID          string                  `json:"id"`
	Kind        Kind                    `json:"kind"`
	Level       schema.Level            `json:"level"`
	GateIDs     []string                `json:"gates,omitempty"`
	Domains     []schema.Domain         `json:"domains,omitempty"`
	DocTypes    []schema.DocumentType   `json:"doc_types,omitempty"`
	Pattern     string                  `json:"pattern,omitempty"`
	Replacement string                  `json:"replacement,omitempty"`
	Body        string                  `json:"body,omitempty"`
	Policy      snippet.InsertPolicy    `json:"policy,omitempty"`
	Anchor      string                  `json:"anchor,omitempty"`
	Source      string                  `json:"source,omitempty"`
	Target      string                  `json:"target,omitempty"`
	Position    Position                `json:"position,omitempty"`
}

// Snapshot is a deterministic, hashable representation of the registry,
// used to pin the exact rule set a correction ran under.
type Snapshot struct {
	Rules    []json.RawMessage `json:"rules"` // sorted by rule ID
	Snippets []snippet.Snippet `json:"snippets"`
	Hash     string            `json:"hash"` // SHA-256 of canonical JSON
	Count    int               `json:"count"`
}

// Snapshot returns the registry snapshot computed at construction time.
func (r *Registry) Snapshot() (*Snapshot, error) {
	return r.buildSnapshot()
}

func (r *Registry) buildSnapshot() (*Snapshot, error) {
	descs := make([]descriptor, 0, len(r.rules))
	for _, rule := range r.rules {
		descs = append(descs, describe(rule))
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].ID < descs[j].ID })

	raw := make([]json.RawMessage, 0, len(descs))
	for _, d := range descs {
		b, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshaling snapshot: %w", err)
		}
		raw = append(raw, b)
	}

	payload, err := json.Marshal(struct {
		Rules    []json.RawMessage `json:"rules"`
		Snippets []snippet.Snippet `json:"snippets"`
	}{raw, r.snippets})
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}

	h := sha256.Sum256(payload)
	return &Snapshot{
		Rules:    raw,
		Snippets: r.snippets,
		Hash:     hex.EncodeToString(h[:]),
		Count:    len(descs),
	}, nil
}

func describe(rule Rule) descriptor {
	meta := rule.Info()
	d := descriptor{
		ID:       meta.ID,
		Kind:     rule.Kind(),
		Level:    meta.Level,
		GateIDs:  meta.GateIDs,
		Domains:  meta.Domains,
		DocTypes: meta.DocTypes,
	}
	switch v := rule.(type) {
	case *RegexRule:
		d.Pattern = v.Pattern
		d.Replacement = v.Replacement
	case *TemplateRule:
		d.Body = v.Body
		d.Policy = v.Policy
		d.Anchor = v.Anchor
	case *StructuralRule:
		d.Source = v.Source
		d.Target = v.Target
		d.Position = v.Position
	}
	return d
}

// Store holds the current registry reference for long-running shells.
// Swap is atomic so in-flight corrections keep the snapshot they started
// with while new calls see the replacement.
type Store struct {
	v atomic.Pointer[Registry]
}

// NewStore creates a store seeded with an initial registry.
func NewStore(r *Registry) *Store {
	s := &Store{}
	s.v.Store(r)
	return s
}

// Current returns the registry reference for a new correction call.
func (s *Store) Current() *Registry { return s.v.Load() }

// Swap replaces the registry for subsequent calls.
func (s *Store) Swap(r *Registry) { s.v.Store(r) }
