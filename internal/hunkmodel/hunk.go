package hunkmodel

import (
	"errors"
	"fmt"
	"sort"
)

// Hunk is a contiguous, localized change to one file: an old-side line
// range with the content it removed and a new-side line range with the
// content it added. Content is kept byte-for-byte; hunks never decode or
// re-encode text.
type Hunk struct {
	Path         string
	OldRange     LineRange
	NewRange     LineRange
	RemovedLines [][]byte
	AddedLines   [][]byte
}

// ErrNoOpHunk is returned by Validate for a hunk with no effect at all.
var ErrNoOpHunk = errors.New("hunkmodel: pure no-op hunk")

// Validate checks the invariants every Hunk must satisfy: the content
// slices' lengths must match their declared ranges, and the hunk must not
// be a no-op.
func (h Hunk) Validate() error {
	if len(h.RemovedLines) != h.OldRange.Count {
		return fmt.Errorf("hunkmodel: %s: removed line count %d does not match old range %s", h.Path, len(h.RemovedLines), h.OldRange)
	}
	if len(h.AddedLines) != h.NewRange.Count {
		return fmt.Errorf("hunkmodel: %s: added line count %d does not match new range %s", h.Path, len(h.AddedLines), h.NewRange)
	}
	if h.OldRange.Empty() && h.NewRange.Empty() {
		return ErrNoOpHunk
	}
	return nil
}

// SortByOldStart orders hunks of a single file by old-side start, the
// order the VCS itself emits them in and the order the commuter expects.
func SortByOldStart(hunks []Hunk) {
	sort.Slice(hunks, func(i, j int) bool {
		return hunks[i].OldRange.Start < hunks[j].OldRange.Start
	})
}

// SortByNewStart orders hunks of a single file by new-side start, the
// coordinate system a hunk being walked through the stack currently lives
// in.
func SortByNewStart(hunks []Hunk) {
	sort.Slice(hunks, func(i, j int) bool {
		return hunks[i].NewRange.Start < hunks[j].NewRange.Start
	})
}

// ChunkType classifies one run of lines in a two-way diff.
type ChunkType int

const (
	ChunkEqual ChunkType = iota
	ChunkAdd
	ChunkDelete
)

// Chunk is the minimal view of a diff chunk that FromChunks needs. It
// mirrors the shape go-git's object.Chunk exposes, so adapting a real
// repository diff into this package is a direct field-by-field mapping
// with no parsing of textual patches required.
type Chunk struct {
	Type  ChunkType
	Lines []string
}

// FromChunks converts one file's ordered diff chunks (equal/add/delete
// runs, oldest-old-line-first) into a sequence of Hunks. Runs of
// consecutive non-equal chunks are merged into a single Hunk, matching how
// a real VCS groups adjacent removals and insertions into one hunk.
func FromChunks(path string, chunks []Chunk) []Hunk {
	var hunks []Hunk
	oldLine, newLine := 1, 1

	var curRemoved, curAdded [][]byte
	oldStart, newStart := 0, 0
	inHunk := false

	flush := func() {
		if !inHunk {
			return
		}
		h := Hunk{
			Path:         path,
			OldRange:     LineRange{Start: oldStart, Count: len(curRemoved)},
			NewRange:     LineRange{Start: newStart, Count: len(curAdded)},
			RemovedLines: curRemoved,
			AddedLines:   curAdded,
		}
		hunks = append(hunks, h)
		curRemoved, curAdded = nil, nil
		inHunk = false
	}

	for _, c := range chunks {
		switch c.Type {
		case ChunkEqual:
			flush()
			oldLine += len(c.Lines)
			newLine += len(c.Lines)
		case ChunkDelete:
			if !inHunk {
				inHunk = true
				oldStart, newStart = oldLine, newLine
			}
			for _, l := range c.Lines {
				curRemoved = append(curRemoved, []byte(l))
			}
			oldLine += len(c.Lines)
		case ChunkAdd:
			if !inHunk {
				inHunk = true
				oldStart, newStart = oldLine, newLine
			}
			for _, l := range c.Lines {
				curAdded = append(curAdded, []byte(l))
			}
			newLine += len(c.Lines)
		}
	}
	flush()

	return hunks
}
