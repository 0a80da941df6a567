package schema

// Severity levels for gate failures, ordered from most to least serious.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// SeverityOrdinal returns the numeric ordering for a severity.
// LOW(0) < MEDIUM(1) < HIGH(2) < CRITICAL(3). Returns -1 for an
// unrecognised severity.
func SeverityOrdinal(s Severity) int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// Domain is a coarse category of compliance concern used to group
// corrective templates. The set is closed; failures whose domain cannot
// be determined carry DomainUnknown and resolve through the metadata
// fallback path only.
type Domain string

const (
	DomainDisclosure  Domain = "disclosure"
	DomainRiskWarning Domain = "risk_warning"
	DomainConsent     Domain = "consent"
	DomainProcedure   Domain = "procedure"
	DomainDefinition  Domain = "definition"
	DomainLimitation  Domain = "limitation"
	DomainUnknown     Domain = ""
)

// AllDomains returns the closed set of known domains in a fixed order.
func AllDomains() []Domain {
	return []Domain{
		DomainDisclosure, DomainRiskWarning, DomainConsent,
		DomainProcedure, DomainDefinition, DomainLimitation,
	}
}

// IsValidDomain reports whether d is one of the defined domains or unknown.
func IsValidDomain(d Domain) bool {
	if d == DomainUnknown {
		return true
	}
	for _, known := range AllDomains() {
		if d == known {
			return true
		}
	}
	return false
}

// DocumentType identifies the class of business document being corrected.
type DocumentType string

const (
	DocFinancial   DocumentType = "financial"
	DocPrivacy     DocumentType = "privacy"
	DocTax         DocumentType = "tax"
	DocNDA         DocumentType = "nda"
	DocEmployment  DocumentType = "employment"
	DocUnspecified DocumentType = "unspecified"
)

// AllDocumentTypes returns the concrete document types (unspecified excluded)
// in a fixed order, used for deterministic inference tie-breaks.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{DocFinancial, DocPrivacy, DocTax, DocNDA, DocEmployment}
}

// IsValidDocumentType reports whether t is a recognised document type.
func IsValidDocumentType(t DocumentType) bool {
	if t == DocUnspecified || t == "" {
		return true
	}
	for _, known := range AllDocumentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Level is the priority tier at which a class of correction rules is
// applied. The numeric values match the historical tier bands and are
// processed strictly ascending.
type Level int

const (
	LevelLexical      Level = 20 // terminology and figure substitutions
	LevelInsertion    Level = 30 // consent/disclosure passage insertions
	LevelStructural   Level = 40 // section reordering and relocation
	LevelCrossCutting Level = 60 // holistic whole-document passes
)

// AllLevels returns every level in ascending application order.
func AllLevels() []Level {
	return []Level{LevelLexical, LevelInsertion, LevelStructural, LevelCrossCutting}
}

// String returns the tier name for a level.
func (l Level) String() string {
	switch l {
	case LevelLexical:
		return "lexical"
	case LevelInsertion:
		return "insertion"
	case LevelStructural:
		return "structural"
	case LevelCrossCutting:
		return "cross_cutting"
	default:
		return "unknown"
	}
}

// GateFailure is one detected violation produced by the validation
// subsystem. Instances are immutable once constructed; the corrector
// consumes them read-only.
type GateFailure struct {
	GateID      string   `json:"gate_id"` // namespaced "<module>:<rule>"
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Suggestion  string   `json:"suggestion,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty"` // offending span, if known
	Domain      Domain   `json:"domain,omitempty"`
	LegalSource string   `json:"legal_source,omitempty"`
}

// Module returns the "<module>" portion of the namespaced gate ID, or the
// whole ID when it carries no namespace.
func (f GateFailure) Module() string {
	for i := 0; i < len(f.GateID); i++ {
		if f.GateID[i] == ':' {
			return f.GateID[:i]
		}
	}
	return f.GateID
}

// SkipReason classifies why a gate failure produced no change.
type SkipReason string

const (
	// SkipUnresolved — no rule, snippet, or metadata fallback was available.
	SkipUnresolved SkipReason = "unresolved"
	// SkipConflict — the change overlapped an earlier one and was rolled back.
	SkipConflict SkipReason = "conflict"
	// SkipNoMatch — a rule was found but its trigger or anchor text was absent.
	SkipNoMatch SkipReason = "no_match"
	// SkipAlreadyApplied — the corrective text or ordering is already present.
	SkipAlreadyApplied SkipReason = "already_applied"
	// SkipReintroduced — the change introduced a new violation keyword and was reverted.
	SkipReintroduced SkipReason = "introduced_violation"
)

// SkippedGate records a failure that produced no change and why.
type SkippedGate struct {
	GateID string     `json:"gate_id"`
	RuleID string     `json:"rule_id,omitempty"`
	Reason SkipReason `json:"reason"`
}

// ChangeRecord is one entry in the change ledger: which rule fired, which
// gate it answers, and the exact span rewritten. Offset is the byte
// position of the change in the working text at the end of the call
// (maintained as later changes shift the document).
type ChangeRecord struct {
	RuleID string `json:"rule_id"`
	GateID string `json:"gate_id"`
	Level  Level  `json:"level"`
	Offset int    `json:"offset"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// AdvancedOptions carries the recognised per-invocation switches.
type AdvancedOptions struct {
	// MultiLevel enables priority cascading across all tiers. When false
	// only the first tier that produces a change is run.
	MultiLevel bool `json:"multi_level"`
	// ContextAware makes document-type filtering mandatory. When false all
	// registered rules are candidates regardless of document type.
	ContextAware bool `json:"context_aware"`
}

// CorrectionResult is the output contract of a correction call.
type CorrectionResult struct {
	CorrectedText string         `json:"corrected_text"`
	DocumentType  DocumentType   `json:"document_type"`
	Changes       []ChangeRecord `json:"change_ledger"`
	Skipped       []SkippedGate  `json:"skipped"`
	ContentHash   string         `json:"content_hash"`  // sha256 of corrected text
	RegistryHash  string         `json:"registry_hash"` // snapshot hash of the rule set used
	InvocationID  string         `json:"invocation_id"`
}

// InvalidInputError reports malformed validation results or an unsupported
// document type. It is surfaced before any mutation begins.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return "invalid input: " + e.Field + ": " + e.Reason
}
