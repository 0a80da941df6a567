// Package integrity re-validates the working text after each priority
// level: overlapping ledger entries are resolved by rolling back the
// later change, and corrections that introduce a new violation phrase
// are reverted. Partial success is preferred over total failure, so
// problems here never abort the correction call.
package integrity

import (
	"strings"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/document"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
)

// Report is the outcome of one integrity pass.
type Report struct {
	Text    string
	Changes []schema.ChangeRecord
	Skipped []schema.SkippedGate
}

// Check runs the post-level validation over the working text and its
// ledger. phrases is the violation keyword set for the document type
// (lowercase fragments). The returned ledger contains only surviving
// changes, with offsets adjusted for any reverts.
func Check(text string, changes []schema.ChangeRecord, phrases []string) Report {
	rep := Report{Text: text, Changes: changes}
	rep = resolveOverlaps(rep)
	rep = scanIntroduced(rep, phrases)
	return rep
}

// ContentHash returns the canonical hash of the corrected text for
// external determinism verification.
func ContentHash(text string) string {
	return document.Hash(text)
}

// resolveOverlaps keeps the earlier of any two ledger entries whose spans
// intersect and rolls back the later one. Structural move records
// (Before == After) occupy their paragraph's new span; inline edits
// carried inside a relocated paragraph are not conflicts, so moves are
// exempt on both sides, matching the apply-time guard. The scheduler
// makes overlaps rare; this pass is the backstop that keeps the ledger
// trustworthy for audit.
func resolveOverlaps(rep Report) Report {
	for j := 1; j < len(rep.Changes); j++ {
		late := rep.Changes[j]
		if late.Before == late.After {
			continue
		}
		conflict := false
		for i := 0; i < j; i++ {
			prev := rep.Changes[i]
			if prev.Before == prev.After {
				continue
			}
			if spansOverlap(prev, late) {
				conflict = true
				break
			}
		}
		if !conflict {
			continue
		}
		rep = revert(rep, j, schema.SkipConflict)
		j--
	}
	return rep
}

// scanIntroduced reverts any change whose replacement text contains a
// violation phrase that its original span did not.
func scanIntroduced(rep Report, phrases []string) Report {
	for j := 0; j < len(rep.Changes); j++ {
		c := rep.Changes[j]
		if !introduces(c, phrases) {
			continue
		}
		rep = revert(rep, j, schema.SkipReintroduced)
		j--
	}
	return rep
}

func introduces(c schema.ChangeRecord, phrases []string) bool {
	after := strings.ToLower(c.After)
	before := strings.ToLower(c.Before)
	for _, p := range phrases {
		if strings.Contains(after, p) && !strings.Contains(before, p) {
			return true
		}
	}
	return false
}

// spansOverlap reports whether two ledger entries touch intersecting
// byte ranges of the working text. Pure insertions occupy the range of
// their inserted text; a moved paragraph occupies its new location.
func spansOverlap(a, b schema.ChangeRecord) bool {
	aEnd := a.Offset + len(a.After)
	bEnd := b.Offset + len(b.After)
	return a.Offset < bEnd && b.Offset < aEnd
}

// revert undoes ledger entry idx, restoring its original span and
// shifting the offsets of entries located after it. A structural move
// (Before == After at a new offset) cannot be textually restored here;
// it is dropped from the ledger and reported, which the apply-time guard
// makes unreachable in practice.
func revert(rep Report, idx int, reason schema.SkipReason) Report {
	c := rep.Changes[idx]

	if c.Before != c.After {
		end := c.Offset + len(c.After)
		if c.Offset >= 0 && end <= len(rep.Text) && rep.Text[c.Offset:end] == c.After {
			rep.Text = rep.Text[:c.Offset] + c.Before + rep.Text[end:]
			delta := len(c.Before) - len(c.After)
			for i := range rep.Changes {
				if i != idx && rep.Changes[i].Offset > c.Offset {
					rep.Changes[i].Offset += delta
				}
			}
		}
	}

	rep.Skipped = append(rep.Skipped, schema.SkippedGate{
		GateID: c.GateID,
		RuleID: c.RuleID,
		Reason: reason,
	})
	rep.Changes = append(rep.Changes[:idx], rep.Changes[idx+1:]...)
	return rep
}
