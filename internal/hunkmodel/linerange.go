// Package hunkmodel represents staged and historical changes as line-range
// hunks: a half-open interval on the old side of a diff, a half-open
// interval on the new side, and the literal content each side carries.
package hunkmodel

import "fmt"

// LineRange is a half-open interval [Start, Start+Count) over a file's
// 1-indexed lines. A Count of zero represents a pure insertion (on the old
// side) or a pure deletion (on the new side) anchored at Start.
type LineRange struct {
	Start int
	Count int
}

// End returns the exclusive end of the range.
func (r LineRange) End() int {
	return r.Start + r.Count
}

// Empty reports whether the range spans zero lines.
func (r LineRange) Empty() bool {
	return r.Count == 0
}

// Overlaps reports whether two ranges share at least one line, or (for
// two pure insertions) land at the exact same anchor, where their
// relative order would be ambiguous. Two zero-length ranges at different
// positions never overlap; a zero-length range overlaps a non-empty one
// only if its anchor falls strictly inside the other's span.
func (r LineRange) Overlaps(o LineRange) bool {
	if r.Empty() && o.Empty() {
		return r.Start == o.Start
	}
	if r.Empty() {
		return r.Start > o.Start && r.Start < o.End()
	}
	if o.Empty() {
		return o.Start > r.Start && o.Start < r.End()
	}
	return r.Start < o.End() && o.Start < r.End()
}

// Shift returns a copy of r translated by delta lines.
func (r LineRange) Shift(delta int) LineRange {
	return LineRange{Start: r.Start + delta, Count: r.Count}
}

func (r LineRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End())
}
