package doctype

import "github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"

func nda() *Profile {
	return &Profile{
		Type: schema.DocNDA,
		Triggers: []string{
			"confidential information", "disclosing party", "receiving party",
			"non-disclosure", "trade secret", "proprietary information",
		},
		ViolationPhrases: []string{
			"in perpetuity without limitation", "unlimited liability",
			"waives all rights",
		},
		Domains: []schema.Domain{schema.DomainDefinition, schema.DomainLimitation},
	}
}
