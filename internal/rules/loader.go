package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/snippet"
)

// catalogFile is the YAML shape a compliance module ships its rules in.
type catalogFile struct {
	Name     string            `yaml:"name"`
	Rules    []ruleDef         `yaml:"rules"`
	Snippets []snippet.Snippet `yaml:"snippets"`
}

// ruleDef is the flat YAML form of a rule; Kind selects which fields are
// meaningful and Level accepts either a tier name or its numeric band.
type ruleDef struct {
	ID       string                `yaml:"id"`
	Kind     Kind                  `yaml:"kind"`
	Level    string                `yaml:"level"`
	Gates    []string              `yaml:"gates"`
	Domains  []schema.Domain       `yaml:"domains"`
	DocTypes []schema.DocumentType `yaml:"doc_types"`

	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`

	Body   string               `yaml:"body"`
	Policy snippet.InsertPolicy `yaml:"policy"`
	Anchor string               `yaml:"anchor"`

	Source   string   `yaml:"source"`
	Target   string   `yaml:"target"`
	Position Position `yaml:"position"`
}

// LoadCatalog parses one YAML catalog file. Rules are not compiled here;
// NewRegistry compiles everything and reports CompilationError.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog %q: %w", path, err)
	}
	if cf.Name == "" {
		cf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	cat := Catalog{Name: cf.Name, Snippets: cf.Snippets}
	for i, def := range cf.Rules {
		rule, err := def.build()
		if err != nil {
			return Catalog{}, fmt.Errorf("catalog %q rule[%d]: %w", path, i, err)
		}
		cat.Rules = append(cat.Rules, rule)
	}
	return cat, nil
}

// LoadDir loads every *.yaml/*.yml catalog in a directory, sorted by file
// name so registration order is stable across platforms.
func LoadDir(dir string) ([]Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	catalogs := make([]Catalog, 0, len(paths))
	for _, p := range paths {
		cat, err := LoadCatalog(p)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, cat)
	}
	return catalogs, nil
}

func (d ruleDef) build() (Rule, error) {
	level, err := parseLevel(d.Level)
	if err != nil {
		return nil, err
	}
	meta := Meta{
		ID:       d.ID,
		Level:    level,
		GateIDs:  d.Gates,
		Domains:  d.Domains,
		DocTypes: d.DocTypes,
	}
	switch d.Kind {
	case KindRegex:
		return &RegexRule{Meta: meta, Pattern: d.Pattern, Replacement: d.Replacement}, nil
	case KindTemplate:
		return &TemplateRule{Meta: meta, Body: d.Body, Policy: d.Policy, Anchor: d.Anchor}, nil
	case KindStructural:
		return &StructuralRule{Meta: meta, Source: d.Source, Target: d.Target, Position: d.Position}, nil
	default:
		return nil, fmt.Errorf("unknown rule kind %q", d.Kind)
	}
}

// parseLevel accepts a tier name or its numeric band.
func parseLevel(s string) (schema.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lexical", "20":
		return schema.LevelLexical, nil
	case "insertion", "30":
		return schema.LevelInsertion, nil
	case "structural", "40":
		return schema.LevelStructural, nil
	case "cross_cutting", "cross-cutting", "60":
		return schema.LevelCrossCutting, nil
	default:
		return 0, fmt.Errorf("unknown priority level %q", s)
	}
}
