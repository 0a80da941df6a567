package rules

import (
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/snippet"
)

// BuiltinCatalog returns the correction rules shipped with the engine.
// Rule IDs are stable: they appear in change ledgers and audit exports.
func BuiltinCatalog() Catalog {
	return Catalog{
		Name: "builtin",
		Rules: []Rule{
			// ── Lexical ──
			&RegexRule{
				Meta: Meta{
					ID:       "vat-threshold-2024",
					Level:    schema.LevelLexical,
					GateIDs:  []string{"tax_uk:vat_threshold"},
					DocTypes: []schema.DocumentType{schema.DocTax},
				},
				Pattern:     `£85,000`,
				Replacement: `£90,000`,
			},
			&RegexRule{
				Meta: Meta{
					ID:      "entity-suffix-uk",
					Level:   schema.LevelLexical,
					GateIDs: []string{"legal:entity_name"},
				},
				Pattern:     `\bLLC\b`,
				Replacement: `Limited`,
			},
			&RegexRule{
				Meta: Meta{
					ID:       "risk-free-claim",
					Level:    schema.LevelLexical,
					GateIDs:  []string{"fca:misleading_terms"},
					Domains:  []schema.Domain{schema.DomainRiskWarning},
					DocTypes: []schema.DocumentType{schema.DocFinancial},
				},
				Pattern:     `(?i)\brisk[- ]free\b`,
				Replacement: `subject to risk`,
			},
			&RegexRule{
				Meta: Meta{
					ID:       "guaranteed-returns-claim",
					Level:    schema.LevelLexical,
					GateIDs:  []string{"fca:guaranteed_returns"},
					DocTypes: []schema.DocumentType{schema.DocFinancial},
				},
				Pattern:     `(?i)\bguaranteed (returns|profits?|income)\b`,
				Replacement: `potential ${1}`,
			},

			// ── Insertion ──
			&TemplateRule{
				Meta: Meta{
					ID:      "advice-disclaimer",
					Level:   schema.LevelInsertion,
					GateIDs: []string{"fca:advice_disclaimer"},
					Domains: []schema.Domain{schema.DomainDisclosure},
				},
				Body:   "This is not financial advice.",
				Policy: snippet.PolicyBeforeAnchor,
				Anchor: `(?i)\bguarantees?d?\s+returns\b`,
			},
			&TemplateRule{
				Meta: Meta{
					ID:       "consent-withdrawal-clause",
					Level:    schema.LevelInsertion,
					GateIDs:  []string{"gdpr:consent_withdrawal"},
					Domains:  []schema.Domain{schema.DomainConsent},
					DocTypes: []schema.DocumentType{schema.DocPrivacy},
				},
				Body:   "You may withdraw your consent at any time by contacting {{.CompanyName}} at {{.ContactEmail}}.",
				Policy: snippet.PolicyAppend,
			},
			&TemplateRule{
				Meta: Meta{
					ID:       "liability-carveout",
					Level:    schema.LevelInsertion,
					GateIDs:  []string{"nda:liability_cap"},
					Domains:  []schema.Domain{schema.DomainLimitation},
					DocTypes: []schema.DocumentType{schema.DocNDA},
				},
				Body:   "Nothing in this agreement excludes or limits any liability that cannot be excluded or limited under applicable law.",
				Policy: snippet.PolicyAppend,
			},

			// ── Structural ──
			&StructuralRule{
				Meta: Meta{
					ID:       "risk-warning-prominence",
					Level:    schema.LevelStructural,
					GateIDs:  []string{"fca:risk_warning_prominence"},
					Domains:  []schema.Domain{schema.DomainRiskWarning},
					DocTypes: []schema.DocumentType{schema.DocFinancial},
				},
				Source:   `(?i)(risk warning|capital (is )?at risk|may get back less)`,
				Target:   `(?i)\b(returns?|growth|benefits?|profits?)\b`,
				Position: PosBeforeTarget,
			},

			// ── Cross-cutting ──
			&TemplateRule{
				Meta: Meta{
					ID:      "complaints-contact-block",
					Level:   schema.LevelCrossCutting,
					GateIDs: []string{"fca:complaints_contact", "employment:appeal_rights"},
					Domains: []schema.Domain{schema.DomainProcedure},
				},
				Body:   "If you are dissatisfied with this document or our service, contact {{.CompanyName}} at {{.ContactEmail}}. You may also refer the matter to {{.Regulator}}.",
				Policy: snippet.PolicyAppend,
			},
		},
		Snippets: snippet.Builtin(),
	}
}
