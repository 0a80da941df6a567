package doctype

import "github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"

func tax() *Profile {
	return &Profile{
		Type: schema.DocTax,
		Triggers: []string{
			"vat", "hmrc", "taxable", "tax year", "self assessment",
			"corporation tax", "allowance", "hm revenue",
		},
		ViolationPhrases: []string{
			"£85,000", "tax-free guaranteed", "hmrc approved scheme",
			"no tax is ever due",
		},
		Domains: []schema.Domain{schema.DomainProcedure, schema.DomainDefinition},
	}
}
