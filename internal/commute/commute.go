// Package commute implements the commutation predicate and rewrite
// procedure at the heart of hunk-to-commit attribution: given a staged
// hunk expressed against a commit's post-tree and that commit's own hunks
// on the same path, decide whether the staged hunk can be pushed past the
// commit unchanged in effect, and if so, produce the hunk re-expressed
// against the commit's parent's tree.
package commute

import (
	"bytes"

	"github.com/tummychow/git-absorb/internal/hunkmodel"
)

// Commutes reports whether h commutes with every one of a commit's hunks
// on h.Path. commitHunks must already be restricted to h.Path and sorted
// by new-side start (hunkmodel.SortByNewStart) in the coordinate system h
// currently lives in.
//
// Two hunks commute when their new-side ranges are disjoint. A pure
// insertion (zero-length range) commutes with a range it merely touches at
// a boundary, but not with one it falls strictly inside — adjacency
// commutes, interior insertion does not.
func Commutes(h hunkmodel.Hunk, commitHunks []hunkmodel.Hunk, wholeFile bool) bool {
	if wholeFile && len(commitHunks) > 0 {
		return false
	}
	for _, c := range commitHunks {
		if h.NewRange.Overlaps(c.NewRange) {
			return false
		}
	}
	return true
}

// Rewrite projects h backward through a commuting commit's hunks,
// returning h expressed against the commit's parent's tree. Callers must
// only call Rewrite after Commutes has returned true for the same
// arguments; the content of h is preserved verbatim, only its line
// ranges change.
func Rewrite(h hunkmodel.Hunk, commitHunks []hunkmodel.Hunk) hunkmodel.Hunk {
	delta := 0
	for _, c := range commitHunks {
		// Only hunks ending at or before h's start line shift it; a
		// commuting hunk cannot overlap h, so every other hunk starts at or
		// after h.NewRange.End() and leaves h's line numbers unchanged.
		if c.NewRange.End() <= h.NewRange.Start {
			delta += c.OldRange.Count - c.NewRange.Count
		}
	}

	rewritten := h
	rewritten.OldRange = h.OldRange.Shift(delta)
	rewritten.NewRange = h.NewRange.Shift(delta)
	return rewritten
}

// VerifyRemovedLinesPresent is the non-commutation safety check: before
// accepting a commit C as H's absorption target, confirm that the lines H
// claims to remove are actually present at H's projected old-side location
// in C's tree. treeLines is the full line-by-line content of the path as
// it exists in C's tree. A mismatch means the diff algorithm produced a
// hunk that does not correspond to reality for this target, and the hunk
// must be reported unabsorbable rather than silently corrupting history.
func VerifyRemovedLinesPresent(h hunkmodel.Hunk, treeLines [][]byte) bool {
	if len(h.RemovedLines) == 0 {
		// Pure insertion: nothing to verify against existing content, but
		// the insertion point must lie within the file, at most one line
		// past its last line, or it is out of range.
		return h.OldRange.Start-1 >= 0 && h.OldRange.Start-1 <= len(treeLines)
	}
	start := h.OldRange.Start - 1
	if start < 0 || start+len(h.RemovedLines) > len(treeLines) {
		return false
	}
	for i, removed := range h.RemovedLines {
		if !bytes.Equal(removed, treeLines[start+i]) {
			return false
		}
	}
	return true
}
