// Package corrector is the engine's public entry point. It drives the
// strategy scheduler over the priority levels, applies rules through the
// pattern registry and snippet mapper, and runs the integrity validator
// after each level. Calls are stateless with respect to one another:
// every invocation owns a private context and mutates only its own
// working copy.
package corrector

import (
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/doctype"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/integrity"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/orgprofile"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/rules"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema/validate"
)

// Corrector applies corrections against one immutable registry. The
// registry reference is fixed at construction; a hot-reloaded shell
// builds a new Corrector from the swapped registry.
type Corrector struct {
	reg *rules.Registry
	org *orgprofile.Profile
}

// New creates a Corrector. A nil org profile falls back to neutral
// placeholder values.
func New(reg *rules.Registry, org *orgprofile.Profile) *Corrector {
	if org == nil {
		org = orgprofile.Default()
	}
	return &Corrector{reg: reg, org: org}
}

// Correct rewrites text so the supplied gate failures no longer fire.
// It returns an error only for structurally invalid input; every
// per-rule problem is absorbed into the skipped list and processing
// continues, so the caller always receives a best-effort document plus
// a transparent account of what could not be fixed.
func (c *Corrector) Correct(text string, failures []schema.GateFailure, docType schema.DocumentType, opts schema.AdvancedOptions) (*schema.CorrectionResult, error) {
	if err := validate.DocumentType(docType); err != nil {
		return nil, err
	}
	// Work on a copy: the caller's records are read-only and domain
	// inference must not leak back.
	local := make([]schema.GateFailure, len(failures))
	copy(local, failures)
	if err := validate.Failures(local); err != nil {
		return nil, err
	}

	resolveDT := docType
	if resolveDT == "" || resolveDT == schema.DocUnspecified {
		resolveDT = doctype.Infer(text)
	}
	filterDT := schema.DocUnspecified
	if opts.ContextAware {
		filterDT = resolveDT
	}

	ctx := newContext(text, resolveDT)
	sched := &scheduler{reg: c.reg, org: c.org}
	phrases := doctype.ViolationPhrases(resolveDT)

	for _, level := range schema.AllLevels() {
		applied := sched.runLevel(ctx, level, local, filterDT, resolveDT)

		rep := integrity.Check(ctx.Working, ctx.Changes, phrases)
		ctx.Working = rep.Text
		ctx.Changes = rep.Changes
		ctx.Skipped = append(ctx.Skipped, rep.Skipped...)

		if !opts.MultiLevel && applied > 0 {
			break
		}
	}

	// Failures that never found a corrective action surface with the
	// most specific reason noted during processing, or as unresolved.
	for _, f := range local {
		if ctx.Resolved(f.GateID) {
			continue
		}
		reason := schema.SkipUnresolved
		if noted, ok := ctx.noted[f.GateID]; ok {
			reason = noted
		}
		ctx.skip(f.GateID, "", reason)
	}

	return &schema.CorrectionResult{
		CorrectedText: ctx.Working,
		DocumentType:  resolveDT,
		Changes:       ctx.Changes,
		Skipped:       ctx.Skipped,
		ContentHash:   integrity.ContentHash(ctx.Working),
		RegistryHash:  c.reg.Hash(),
		InvocationID:  ctx.ID,
	}, nil
}
