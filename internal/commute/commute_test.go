package commute

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tummychow/git-absorb/internal/hunkmodel"
)

func TestCommutesDisjointRanges(t *testing.T) {
	h := hunkmodel.Hunk{
		Path:     "a.txt",
		OldRange: hunkmodel.LineRange{Start: 1, Count: 2},
		NewRange: hunkmodel.LineRange{Start: 1, Count: 2},
	}
	commitHunk := hunkmodel.Hunk{
		Path:     "a.txt",
		OldRange: hunkmodel.LineRange{Start: 5, Count: 3},
		NewRange: hunkmodel.LineRange{Start: 5, Count: 1},
	}

	require.True(t, Commutes(h, []hunkmodel.Hunk{commitHunk}, false))
}

func TestCommutesOverlappingRangesDoNotCommute(t *testing.T) {
	h := hunkmodel.Hunk{
		Path:     "a.txt",
		NewRange: hunkmodel.LineRange{Start: 1, Count: 2},
	}
	commitHunk := hunkmodel.Hunk{
		Path:     "a.txt",
		NewRange: hunkmodel.LineRange{Start: 2, Count: 2},
	}

	require.False(t, Commutes(h, []hunkmodel.Hunk{commitHunk}, false))
}

func TestCommutesWholeFileForcesNonCommute(t *testing.T) {
	h := hunkmodel.Hunk{
		Path:     "a.txt",
		NewRange: hunkmodel.LineRange{Start: 100, Count: 1},
	}
	commitHunk := hunkmodel.Hunk{
		Path:     "a.txt",
		NewRange: hunkmodel.LineRange{Start: 1, Count: 1},
	}

	require.True(t, Commutes(h, []hunkmodel.Hunk{commitHunk}, false))
	require.False(t, Commutes(h, []hunkmodel.Hunk{commitHunk}, true))
}

func TestRewriteShiftsPastEarlierShrinkingCommit(t *testing.T) {
	// Commit C deleted one line at the top of the file (old 3 lines, new 2).
	commitHunk := hunkmodel.Hunk{
		Path:     "a.txt",
		OldRange: hunkmodel.LineRange{Start: 1, Count: 3},
		NewRange: hunkmodel.LineRange{Start: 1, Count: 2},
	}
	// H currently targets new-side line 10, below C's edit.
	h := hunkmodel.Hunk{
		Path:     "a.txt",
		OldRange: hunkmodel.LineRange{Start: 10, Count: 1},
		NewRange: hunkmodel.LineRange{Start: 10, Count: 1},
	}

	require.True(t, Commutes(h, []hunkmodel.Hunk{commitHunk}, false))
	rewritten := Rewrite(h, []hunkmodel.Hunk{commitHunk})

	// delta = old.Count - new.Count = 3 - 2 = 1
	require.Equal(t, 11, rewritten.OldRange.Start)
	require.Equal(t, 11, rewritten.NewRange.Start)
}

func TestRewriteNoShiftForCommitAboveH(t *testing.T) {
	commitHunk := hunkmodel.Hunk{
		Path:     "a.txt",
		OldRange: hunkmodel.LineRange{Start: 20, Count: 1},
		NewRange: hunkmodel.LineRange{Start: 20, Count: 3},
	}
	h := hunkmodel.Hunk{
		Path:     "a.txt",
		OldRange: hunkmodel.LineRange{Start: 1, Count: 1},
		NewRange: hunkmodel.LineRange{Start: 1, Count: 1},
	}

	rewritten := Rewrite(h, []hunkmodel.Hunk{commitHunk})
	require.Equal(t, h, rewritten)
}

func TestInsertionAdjacencyCommutesAtBothBoundaries(t *testing.T) {
	modified := hunkmodel.Hunk{
		Path:     "a.txt",
		NewRange: hunkmodel.LineRange{Start: 5, Count: 3}, // [5,8)
	}
	insertAtStart := hunkmodel.Hunk{Path: "a.txt", NewRange: hunkmodel.LineRange{Start: 5, Count: 0}}
	insertAtEnd := hunkmodel.Hunk{Path: "a.txt", NewRange: hunkmodel.LineRange{Start: 8, Count: 0}}
	insertInterior := hunkmodel.Hunk{Path: "a.txt", NewRange: hunkmodel.LineRange{Start: 6, Count: 0}}

	require.True(t, Commutes(insertAtStart, []hunkmodel.Hunk{modified}, false))
	require.True(t, Commutes(insertAtEnd, []hunkmodel.Hunk{modified}, false))
	require.False(t, Commutes(insertInterior, []hunkmodel.Hunk{modified}, false))
}

func TestSameAnchorInsertionsDoNotCommute(t *testing.T) {
	commitInsert := hunkmodel.Hunk{Path: "a.txt", NewRange: hunkmodel.LineRange{Start: 3, Count: 0}}
	staged := hunkmodel.Hunk{Path: "a.txt", NewRange: hunkmodel.LineRange{Start: 3, Count: 0}}

	require.False(t, Commutes(staged, []hunkmodel.Hunk{commitInsert}, false))
}

func TestVerifyRemovedLinesPresent(t *testing.T) {
	tree := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}
	h := hunkmodel.Hunk{
		OldRange:     hunkmodel.LineRange{Start: 2, Count: 2},
		RemovedLines: [][]byte{[]byte("b"), []byte("c")},
	}
	require.True(t, VerifyRemovedLinesPresent(h, tree))

	mismatched := h
	mismatched.RemovedLines = [][]byte{[]byte("x"), []byte("c")}
	require.False(t, VerifyRemovedLinesPresent(mismatched, tree))
}
