package hunkmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromChunksPureDeletion(t *testing.T) {
	chunks := []Chunk{
		{Type: ChunkEqual, Lines: []string{"line1\n"}},
		{Type: ChunkDelete, Lines: []string{"line2\n"}},
		{Type: ChunkEqual, Lines: []string{"line3\n", "line4\n", "line5\n"}},
	}

	hunks := FromChunks("file.txt", chunks)
	require.Len(t, hunks, 1)

	h := hunks[0]
	require.Equal(t, LineRange{Start: 2, Count: 1}, h.OldRange)
	require.Equal(t, LineRange{Start: 2, Count: 0}, h.NewRange)
	require.Equal(t, [][]byte{[]byte("line2\n")}, h.RemovedLines)
	require.Empty(t, h.AddedLines)
	require.NoError(t, h.Validate())
}

func TestFromChunksInsertionAndModification(t *testing.T) {
	chunks := []Chunk{
		{Type: ChunkAdd, Lines: []string{"new1\n"}},
		{Type: ChunkEqual, Lines: []string{"keep\n"}},
		{Type: ChunkDelete, Lines: []string{"old2\n"}},
		{Type: ChunkAdd, Lines: []string{"new2\n", "new3\n"}},
	}

	hunks := FromChunks("file.txt", chunks)
	require.Len(t, hunks, 2)

	insert := hunks[0]
	require.Equal(t, LineRange{Start: 1, Count: 0}, insert.OldRange)
	require.Equal(t, LineRange{Start: 1, Count: 1}, insert.NewRange)

	modify := hunks[1]
	require.Equal(t, LineRange{Start: 2, Count: 1}, modify.OldRange)
	require.Equal(t, LineRange{Start: 3, Count: 2}, modify.NewRange)
}

func TestHunkValidateRejectsMismatchedContent(t *testing.T) {
	h := Hunk{
		Path:     "f",
		OldRange: LineRange{Start: 1, Count: 1},
		NewRange: LineRange{Start: 1, Count: 0},
	}
	require.Error(t, h.Validate())
}

func TestHunkValidateRejectsNoOp(t *testing.T) {
	h := Hunk{
		Path:     "f",
		OldRange: LineRange{Start: 1, Count: 0},
		NewRange: LineRange{Start: 1, Count: 0},
	}
	require.ErrorIs(t, h.Validate(), ErrNoOpHunk)
}

func TestLineRangeOverlapsAdjacencyCommutes(t *testing.T) {
	a := LineRange{Start: 1, Count: 2} // [1,3)
	b := LineRange{Start: 3, Count: 2} // [3,5)
	require.False(t, a.Overlaps(b))
	require.False(t, b.Overlaps(a))
}

func TestLineRangeOverlapsInsertionInteriorBlocks(t *testing.T) {
	modified := LineRange{Start: 2, Count: 3} // [2,5)
	insertion := LineRange{Start: 3, Count: 0}
	require.True(t, modified.Overlaps(insertion))
}

func TestLineRangeOverlapsInsertionAtBoundaryCommutes(t *testing.T) {
	modified := LineRange{Start: 2, Count: 3} // [2,5)
	atStart := LineRange{Start: 2, Count: 0}
	atEnd := LineRange{Start: 5, Count: 0}
	require.False(t, modified.Overlaps(atStart))
	require.False(t, modified.Overlaps(atEnd))
}

func TestLineRangeOverlapsSameAnchorInsertionsBlock(t *testing.T) {
	a := LineRange{Start: 3, Count: 0}
	b := LineRange{Start: 3, Count: 0}
	require.True(t, a.Overlaps(b))
}

func TestLineRangeOverlapsDifferentAnchorInsertionsCommute(t *testing.T) {
	a := LineRange{Start: 3, Count: 0}
	b := LineRange{Start: 4, Count: 0}
	require.False(t, a.Overlaps(b))
}
