package corrector

import (
	"github.com/google/uuid"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

// Context is the per-invocation state of one correction call: the
// mutable working copy, the change ledger, and the bookkeeping that
// enforces one chosen corrective action per gate. It is created fresh
// per call and never shared, so no locking is needed.
type Context struct {
	ID      string
	DocType schema.DocumentType
	Working string
	Changes []schema.ChangeRecord
	Skipped []schema.SkippedGate

	resolved map[string]bool             // gate ID → action chosen
	noted    map[string]schema.SkipReason // gate ID → best failed-attempt reason
	moved    map[string]bool             // paragraph text involved in a structural move
}

func newContext(text string, dt schema.DocumentType) *Context {
	return &Context{
		ID:       uuid.NewString(),
		DocType:  dt,
		Working:  text,
		resolved: make(map[string]bool),
		noted:    make(map[string]schema.SkipReason),
		moved:    make(map[string]bool),
	}
}

// Resolved reports whether a gate already received its corrective action.
func (c *Context) Resolved(gateID string) bool { return c.resolved[gateID] }

func (c *Context) markResolved(gateID string) { c.resolved[gateID] = true }

// note records a failed attempt reason for a gate without ending its
// processing; the reason surfaces in the skipped list only if no later
// candidate resolves the gate. The first noted reason wins.
func (c *Context) note(gateID string, reason schema.SkipReason) {
	if _, ok := c.noted[gateID]; !ok {
		c.noted[gateID] = reason
	}
}

// skip records a terminal skip for a gate and marks it handled.
func (c *Context) skip(gateID, ruleID string, reason schema.SkipReason) {
	c.Skipped = append(c.Skipped, schema.SkippedGate{GateID: gateID, RuleID: ruleID, Reason: reason})
	c.resolved[gateID] = true
}

// applyInline mutates the working text for a substitution or insertion:
// the span [rec.Offset, rec.Offset+len(rec.Before)) is replaced by
// rec.After. Returns false and records a conflict when the span
// intersects an earlier inline change (the earlier change wins).
func (c *Context) applyInline(rec schema.ChangeRecord) bool {
	end := rec.Offset + len(rec.Before)
	if rec.Offset < 0 || end > len(c.Working) || c.Working[rec.Offset:end] != rec.Before {
		c.note(rec.GateID, schema.SkipNoMatch)
		return false
	}
	for _, prev := range c.Changes {
		if prev.Before == prev.After {
			// Structural move records occupy their paragraph span; inline
			// edits inside a relocated paragraph are legitimate.
			continue
		}
		prevEnd := prev.Offset + len(prev.After)
		if rec.Offset < prevEnd && prev.Offset < end {
			// A conflicting gate gets no second chance with a different
			// rule; the earlier change is kept and this gate is done.
			c.skip(rec.GateID, rec.RuleID, schema.SkipConflict)
			return false
		}
	}

	c.Working = c.Working[:rec.Offset] + rec.After + c.Working[end:]
	delta := len(rec.After) - len(rec.Before)
	if delta != 0 {
		for i := range c.Changes {
			if c.Changes[i].Offset >= rec.Offset {
				c.Changes[i].Offset += delta
			}
		}
	}
	c.Changes = append(c.Changes, rec)
	return true
}
