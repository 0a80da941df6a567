// Package orgprofile loads the organisation context used to parameterise
// corrective snippets (company name, contact points, regulator).
package orgprofile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the substitution values available to snippet templates.
type Profile struct {
	CompanyName  string `yaml:"company_name" json:"company_name"`
	ContactEmail string `yaml:"contact_email" json:"contact_email"`
	ContactPhone string `yaml:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Regulator    string `yaml:"regulator,omitempty" json:"regulator,omitempty"`
	Jurisdiction string `yaml:"jurisdiction,omitempty" json:"jurisdiction,omitempty"`
	DPOEmail     string `yaml:"dpo_email,omitempty" json:"dpo_email,omitempty"`
}

// Default returns neutral placeholder values used when no profile file is
// supplied. Snippets rendered with these remain grammatical.
func Default() *Profile {
	return &Profile{
		CompanyName:  "the Company",
		ContactEmail: "compliance@example.com",
		Regulator:    "the relevant regulator",
		Jurisdiction: "UK",
	}
}

// Load reads a YAML profile from disk. Missing fields fall back to the
// defaults so templates never render empty substitutions.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading org profile: %w", err)
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing org profile %q: %w", path, err)
	}
	if p.CompanyName == "" {
		p.CompanyName = Default().CompanyName
	}
	if p.ContactEmail == "" {
		p.ContactEmail = Default().ContactEmail
	}
	if p.Regulator == "" {
		p.Regulator = Default().Regulator
	}
	return p, nil
}
