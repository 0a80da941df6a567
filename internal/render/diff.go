package render

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff produces a diff-match-patch text from the original document to
// the corrected one, suitable for writing to --patch-out and for
// machine application by downstream tooling. Returns "" when nothing
// changed.
func Diff(original, corrected string) string {
	if original == corrected {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, corrected, false)
	patches := dmp.PatchMake(original, diffs)
	return dmp.PatchToText(patches)
}
