package doctype

import "github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"

func employment() *Profile {
	return &Profile{
		Type: schema.DocEmployment,
		Triggers: []string{
			"employee", "employer", "notice period", "salary", "grievance",
			"disciplinary", "contract of employment", "probation",
		},
		ViolationPhrases: []string{
			"dismissed without notice for any reason", "no right of appeal",
			"below minimum wage",
		},
		Domains: []schema.Domain{schema.DomainProcedure, schema.DomainLimitation},
	}
}
