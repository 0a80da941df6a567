package corrector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/rules"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

func TestActiveRules(t *testing.T) {
	reg, err := rules.NewRegistry(rules.BuiltinCatalog())
	require.NoError(t, err)

	failures := []schema.GateFailure{
		{GateID: "tax_uk:vat_threshold", Severity: schema.SeverityHigh, Message: "threshold"},
		{GateID: "fca:guaranteed_returns", Severity: schema.SeverityHigh, Message: "claim"},
	}

	active := ActiveRules(reg, schema.DocUnspecified, failures)
	require.NotEmpty(t, active)
	assert.Equal(t, "vat-threshold-2024", active[0].Info().ID)

	ids := make(map[string]int)
	for _, r := range active {
		ids[r.Info().ID]++
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "rule %s listed more than once", id)
	}

	// Pure function: same inputs, same order.
	again := ActiveRules(reg, schema.DocUnspecified, failures)
	require.Len(t, again, len(active))
	for i := range active {
		assert.Equal(t, active[i].Info().ID, again[i].Info().ID)
	}
}

func TestActiveRulesSingleFailureMatchesRegistryOrder(t *testing.T) {
	// The scheduler selects its per-failure candidates through ActiveRules,
	// so a single-failure call must reproduce the registry's specificity
	// order exactly.
	reg, err := rules.NewRegistry(rules.BuiltinCatalog())
	require.NoError(t, err)

	f := schema.GateFailure{
		GateID:   "fca:misleading_terms",
		Severity: schema.SeverityHigh,
		Message:  "risk-free claim",
		Domain:   schema.DomainRiskWarning,
	}
	active := ActiveRules(reg, schema.DocFinancial, []schema.GateFailure{f})
	direct := reg.FindRules(f, schema.DocFinancial)

	require.NotEmpty(t, direct)
	require.Len(t, active, len(direct))
	for i := range direct {
		assert.Equal(t, direct[i].Info().ID, active[i].Info().ID)
	}
}

func TestActiveRulesRespectsDocumentType(t *testing.T) {
	reg, err := rules.NewRegistry(rules.BuiltinCatalog())
	require.NoError(t, err)

	failures := []schema.GateFailure{
		{GateID: "tax_uk:vat_threshold", Severity: schema.SeverityHigh, Message: "threshold"},
	}
	active := ActiveRules(reg, schema.DocFinancial, failures)
	for _, r := range active {
		assert.NotEqual(t, "vat-threshold-2024", r.Info().ID)
	}
}
