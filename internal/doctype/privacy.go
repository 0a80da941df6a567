package doctype

import "github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"

func privacy() *Profile {
	return &Profile{
		Type: schema.DocPrivacy,
		Triggers: []string{
			"personal data", "data subject", "gdpr", "privacy notice",
			"data controller", "data processor", "lawful basis", "cookies",
		},
		ViolationPhrases: []string{
			"we may share your data with anyone", "no right to erasure",
			"consent is assumed", "implied consent", "opt-out only",
		},
		Domains: []schema.Domain{schema.DomainConsent, schema.DomainDisclosure},
	}
}
