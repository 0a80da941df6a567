package corrector

import (
	"strings"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/document"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/orgprofile"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/rules"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/snippet"
)

// scheduler walks the priority levels and applies corrections. Within a
// level, failures are processed in caller order; for each failure the
// candidates from the registry are tried in specificity order and the
// first one that lands wins the gate.
type scheduler struct {
	reg *rules.Registry
	org *orgprofile.Profile
}

// runLevel processes one priority level and returns the number of gates
// that received a change. filterDT is the document type used for rule
// filtering (DocUnspecified in permissive mode); resolveDT is the actual
// document type, always used for snippet variant selection.
func (s *scheduler) runLevel(ctx *Context, level schema.Level, failures []schema.GateFailure, filterDT, resolveDT schema.DocumentType) int {
	applied := 0
	for _, f := range failures {
		if ctx.Resolved(f.GateID) {
			continue
		}
		if s.applyForFailure(ctx, level, f, filterDT, resolveDT) {
			applied++
		}
	}
	return applied
}

func (s *scheduler) applyForFailure(ctx *Context, level schema.Level, f schema.GateFailure, filterDT, resolveDT schema.DocumentType) bool {
	candidates := ActiveRules(s.reg, filterDT, []schema.GateFailure{f})
	for _, rule := range candidates {
		if rule.Info().Level != level {
			continue
		}
		if s.applyRule(ctx, rule, f, level) {
			ctx.markResolved(f.GateID)
			return true
		}
		if ctx.Resolved(f.GateID) {
			// Terminal skip (conflict or already-applied) recorded inside.
			return false
		}
	}

	// The snippet mapper backstops the insertion tier: failures no rule
	// answered still receive their mandated passage when a snippet or
	// metadata fallback exists. A rule waiting at a later tier keeps
	// precedence over the generic snippet.
	if level == schema.LevelInsertion && !hasLaterRule(candidates, level) {
		if ct, ok := s.reg.Mapper().Resolve(f, resolveDT, s.org); ok {
			if s.applyCorrectiveText(ctx, ct, f, level) {
				ctx.markResolved(f.GateID)
				return true
			}
		}
	}
	return false
}

// hasLaterRule reports whether any candidate still waits at a higher tier.
func hasLaterRule(candidates []rules.Rule, level schema.Level) bool {
	for _, r := range candidates {
		if r.Info().Level > level {
			return true
		}
	}
	return false
}

func (s *scheduler) applyRule(ctx *Context, rule rules.Rule, f schema.GateFailure, level schema.Level) bool {
	switch r := rule.(type) {
	case *rules.RegexRule:
		return s.applyRegex(ctx, r, f, level)
	case *rules.TemplateRule:
		return s.applyTemplate(ctx, r, f, level)
	case *rules.StructuralRule:
		return s.applyStructural(ctx, r, f, level)
	default:
		return false
	}
}

// applyRegex replaces every span still matching the trigger pattern. The
// anchored-application guard is the match itself: text already fixed by
// an earlier rule no longer matches and the rule is noted as no_match.
func (s *scheduler) applyRegex(ctx *Context, r *rules.RegexRule, f schema.GateFailure, level schema.Level) bool {
	spans := r.Spans(ctx.Working)
	if len(spans) == 0 {
		ctx.note(f.GateID, schema.SkipNoMatch)
		return false
	}

	appliedAny := false
	delta := 0
	for _, span := range spans {
		start, end := span[0]+delta, span[1]+delta
		before := ctx.Working[start:end]
		after := r.Expand(ctx.Working, []int{start, end})
		if after == before {
			continue
		}
		rec := schema.ChangeRecord{
			RuleID: r.Info().ID,
			GateID: f.GateID,
			Level:  level,
			Offset: start,
			Before: before,
			After:  after,
		}
		if !ctx.applyInline(rec) {
			if ctx.Resolved(f.GateID) {
				// Conflict is terminal for the gate; stop replacing.
				return appliedAny
			}
			continue
		}
		appliedAny = true
		delta += len(after) - len(before)
	}
	if !appliedAny {
		ctx.note(f.GateID, schema.SkipNoMatch)
	}
	return appliedAny
}

func (s *scheduler) applyTemplate(ctx *Context, r *rules.TemplateRule, f schema.GateFailure, level schema.Level) bool {
	body, err := r.Render(s.org)
	if err != nil {
		ctx.note(f.GateID, schema.SkipNoMatch)
		return false
	}
	anchor := r.AnchorSpan(ctx.Working)
	return s.insert(ctx, insertion{
		ruleID: r.Info().ID,
		body:   body,
		policy: r.Policy,
		anchor: anchor,
	}, f, level)
}

// applyCorrectiveText inserts a mapper-resolved snippet. The ledger rule
// ID records the resolution stage so audits can tell a vetted snippet
// from a metadata-synthesised paragraph.
func (s *scheduler) applyCorrectiveText(ctx *Context, ct *snippet.CorrectiveText, f schema.GateFailure, level schema.Level) bool {
	var anchor []int
	if ct.Anchor != nil {
		anchor = ct.Anchor.FindStringIndex(ctx.Working)
	}
	return s.insert(ctx, insertion{
		ruleID: "snippet:" + string(ct.Source),
		body:   ct.Body,
		policy: ct.Policy,
		anchor: anchor,
	}, f, level)
}

// insertion is a resolved insert operation: a rendered body, a policy,
// and the anchor span located in the current working text (nil when the
// policy is append or the anchor was not found).
type insertion struct {
	ruleID string
	body   string
	policy snippet.InsertPolicy
	anchor []int
}

func (s *scheduler) insert(ctx *Context, ins insertion, f schema.GateFailure, level schema.Level) bool {
	body := strings.TrimSpace(ins.body)
	if body == "" {
		ctx.note(f.GateID, schema.SkipNoMatch)
		return false
	}
	// Duplicate-insertion guard: re-running against an already corrected
	// document must not stack passages.
	if strings.Contains(ctx.Working, body) {
		ctx.skip(f.GateID, ins.ruleID, schema.SkipAlreadyApplied)
		return false
	}

	anchor := ins.anchor
	if anchor == nil && ins.policy != snippet.PolicyAppend && f.Excerpt != "" {
		if idx := strings.Index(ctx.Working, f.Excerpt); idx >= 0 {
			anchor = []int{idx, idx + len(f.Excerpt)}
		}
	}

	var rec schema.ChangeRecord
	switch {
	case ins.policy == snippet.PolicyBeforeAnchor && anchor != nil:
		pos := document.SentenceStart(ctx.Working, anchor[0])
		rec = schema.ChangeRecord{Offset: pos, After: body + " "}
	case ins.policy == snippet.PolicyAfterAnchor && anchor != nil:
		rec = schema.ChangeRecord{Offset: anchor[1], After: " " + body}
	case ins.policy == snippet.PolicyAppend:
		// The separator is part of the recorded insertion so a rollback
		// restores the document byte for byte.
		rec = schema.ChangeRecord{Offset: len(ctx.Working), After: appendSep(ctx.Working) + body}
	default:
		// Anchored policy with no locatable anchor.
		ctx.note(f.GateID, schema.SkipNoMatch)
		return false
	}
	rec.RuleID = ins.ruleID
	rec.GateID = f.GateID
	rec.Level = level
	return ctx.applyInline(rec)
}

// appendSep returns the separator needed before an appended paragraph.
func appendSep(working string) string {
	switch {
	case working == "":
		return ""
	case strings.HasSuffix(working, "\n\n"):
		return ""
	case strings.HasSuffix(working, "\n"):
		return "\n"
	default:
		return "\n\n"
	}
}

// applyStructural relocates the first source-matching paragraph per the
// rule's declarative position. Paragraphs already in the mandated order
// are recorded as already_applied, which keeps re-runs idempotent.
func (s *scheduler) applyStructural(ctx *Context, r *rules.StructuralRule, f schema.GateFailure, level schema.Level) bool {
	paras := document.Paragraphs(ctx.Working)
	si := r.MatchSource(paras)
	if si < 0 {
		ctx.note(f.GateID, schema.SkipNoMatch)
		return false
	}

	var ti int
	switch r.Position {
	case rules.PosBeforeTarget, rules.PosAfterTarget:
		ti = r.MatchTarget(paras, si)
		if ti < 0 {
			ctx.note(f.GateID, schema.SkipNoMatch)
			return false
		}
	case rules.PosDocumentStart:
		ti = 0
	case rules.PosDocumentEnd:
		ti = len(paras) - 1
	}

	if structurallyOrdered(r.Position, si, ti) {
		ctx.skip(f.GateID, r.Info().ID, schema.SkipAlreadyApplied)
		return false
	}

	// Overlapping structural targets: the second rule touching a
	// paragraph already relocated this invocation is skipped.
	if ctx.moved[paras[si]] || (r.Position == rules.PosBeforeTarget || r.Position == rules.PosAfterTarget) && ctx.moved[paras[ti]] {
		ctx.skip(f.GateID, r.Info().ID, schema.SkipConflict)
		return false
	}

	moved := paras[si]
	reordered, newIdx := relocate(paras, si, ti, r.Position)
	oldStarts := paragraphStarts(paras)
	newStarts := paragraphStarts(reordered)

	remapOffsets(ctx, paras, oldStarts, reordered, newStarts)
	ctx.Working = document.Join(reordered)
	ctx.moved[moved] = true
	if r.Position == rules.PosBeforeTarget || r.Position == rules.PosAfterTarget {
		ctx.moved[paras[ti]] = true
	}

	ctx.Changes = append(ctx.Changes, schema.ChangeRecord{
		RuleID: r.Info().ID,
		GateID: f.GateID,
		Level:  level,
		Offset: newStarts[newIdx],
		Before: moved,
		After:  moved,
	})
	return true
}

// structurallyOrdered reports whether the source paragraph already sits
// where the rule wants it.
func structurallyOrdered(pos rules.Position, si, ti int) bool {
	switch pos {
	case rules.PosBeforeTarget:
		return si < ti
	case rules.PosAfterTarget:
		return si > ti
	case rules.PosDocumentStart:
		return si == 0
	case rules.PosDocumentEnd:
		return si == ti
	default:
		return false
	}
}

// relocate moves element si relative to ti and returns the new slice and
// the moved element's new index.
func relocate(paras []string, si, ti int, pos rules.Position) ([]string, int) {
	out := make([]string, 0, len(paras))
	out = append(out, paras[:si]...)
	out = append(out, paras[si+1:]...)

	// Index of the target after the source was removed.
	adj := ti
	if si < ti {
		adj--
	}

	var insertAt int
	switch pos {
	case rules.PosBeforeTarget:
		insertAt = adj
	case rules.PosAfterTarget:
		insertAt = adj + 1
	case rules.PosDocumentStart:
		insertAt = 0
	case rules.PosDocumentEnd:
		insertAt = len(out)
	}

	out = append(out, "")
	copy(out[insertAt+1:], out[insertAt:])
	out[insertAt] = paras[si]
	return out, insertAt
}

// paragraphStarts returns the byte offset of each paragraph when joined
// with double-newline separators.
func paragraphStarts(paras []string) []int {
	starts := make([]int, len(paras))
	off := 0
	for i, p := range paras {
		starts[i] = off
		off += len(p) + 2
	}
	return starts
}

// remapOffsets rewrites ledger offsets after a paragraph reorder: each
// change keeps its position relative to the paragraph it lives in, and
// the paragraph carries it to its new location.
func remapOffsets(ctx *Context, oldParas []string, oldStarts []int, newParas []string, newStarts []int) {
	// Map old paragraph index → new paragraph index by first unclaimed
	// identical content (duplicated paragraphs resolve in order).
	claimed := make([]bool, len(newParas))
	oldToNew := make([]int, len(oldParas))
	for i, p := range oldParas {
		oldToNew[i] = i
		for j, q := range newParas {
			if !claimed[j] && p == q {
				claimed[j] = true
				oldToNew[i] = j
				break
			}
		}
	}

	for i := range ctx.Changes {
		c := ctx.Changes[i]
		// An appended block's record starts with its separator; the block
		// itself lives in the following paragraph, so attribute the record
		// there and keep the separator bytes in front of it.
		shift := 0
		if c.Before == "" {
			for shift < len(c.After) && c.After[shift] == '\n' {
				shift++
			}
		}
		pos := c.Offset + shift
		k := len(oldParas) - 1
		for p := range oldParas {
			if pos <= oldStarts[p]+len(oldParas[p]) {
				k = p
				break
			}
		}
		delta := pos - oldStarts[k]
		newOff := newStarts[oldToNew[k]] + delta - shift
		if newOff < 0 {
			newOff = 0
		}
		ctx.Changes[i].Offset = newOff
	}
}
