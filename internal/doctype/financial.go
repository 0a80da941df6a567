package doctype

import "github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"

func financial() *Profile {
	return &Profile{
		Type: schema.DocFinancial,
		Triggers: []string{
			"investment", "investor", "returns", "portfolio", "fca",
			"financial promotion", "capital", "fund", "isa", "pension",
		},
		ViolationPhrases: []string{
			"guaranteed returns", "guarantee returns", "risk-free",
			"no risk", "cannot lose", "certain profit", "assured growth",
		},
		Domains: []schema.Domain{schema.DomainRiskWarning, schema.DomainDisclosure},
	}
}
