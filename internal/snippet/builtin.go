package snippet

import "github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"

// Builtin returns the vetted snippet catalog shipped with the engine.
// Registration order matters: it is the documented tie-break when two
// domain variants are equally specific for a document type.
func Builtin() []Snippet {
	return []Snippet{
		// Direct snippets, keyed by gate ID.
		{
			GateID: "gdpr:privacy_contact",
			Body:   "Questions about this notice may be sent to {{.CompanyName}} at {{.ContactEmail}}.",
		},
		{
			GateID: "gdpr:right_to_erasure",
			Body:   "You have the right to request erasure of your personal data. To exercise this right, contact {{.ContactEmail}}.",
		},
		{
			GateID: "employment:grievance_procedure",
			Body:   "Details of the grievance procedure are available from {{.CompanyName}} and a copy will be provided on request.",
		},

		// Domain templates. Document-type-specific variants are listed
		// before their generic counterparts for readability; selection is
		// by specificity, not position, with position breaking ties.
		{
			Domain:  schema.DomainDisclosure,
			DocType: schema.DocFinancial,
			Body:    "This communication is issued by {{.CompanyName}} for information purposes only and does not constitute financial advice.",
		},
		{
			Domain: schema.DomainDisclosure,
			Body:   "{{.CompanyName}} provides this information for general guidance only and it does not constitute advice.",
		},
		{
			Domain: schema.DomainRiskWarning,
			Body:   "The value of investments can fall as well as rise and you may get back less than you invest.",
		},
		{
			Domain:  schema.DomainConsent,
			DocType: schema.DocPrivacy,
			Body:    "Where processing relies on consent, you may withdraw it at any time by contacting {{.ContactEmail}}. Withdrawal does not affect processing carried out before that point.",
		},
		{
			Domain: schema.DomainConsent,
			Body:   "You may withdraw your consent at any time by contacting {{.CompanyName}} at {{.ContactEmail}}.",
		},
		{
			Domain: schema.DomainProcedure,
			Body:   "Details of the applicable procedure are available from {{.CompanyName}} on request at {{.ContactEmail}}.",
		},
		{
			Domain: schema.DomainDefinition,
			Body:   "Capitalised terms used in this document have the meanings given to them where first defined.",
		},
		{
			Domain: schema.DomainLimitation,
			Body:   "Nothing in this document excludes or limits any liability that cannot be excluded or limited under applicable law.",
		},
	}
}
