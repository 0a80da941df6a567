package corrector

import (
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/rules"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

// ActiveRules narrows the registry to the rules relevant to a document
// type and the specific gates that failed. It is a pure function of its
// inputs: calling it repeatedly with the same registry, type, and
// failures yields the same rules in the same order (failure order, then
// specificity, then registration order).
func ActiveRules(reg *rules.Registry, dt schema.DocumentType, failures []schema.GateFailure) []rules.Rule {
	seen := make(map[string]bool)
	var out []rules.Rule
	for _, f := range failures {
		for _, r := range reg.FindRules(f, dt) {
			id := r.Info().ID
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, r)
		}
	}
	return out
}
