package gitrepo

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	gitdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tummychow/git-absorb/internal/hunkmodel"
)

// CommitHunks returns the per-path hunk lists for one commit against its
// first parent, the per_path_diffs entry of a candidate commit. A commit
// with no parent (the repository root) is treated as adding every path in
// its tree wholesale.
func CommitHunks(commit *object.Commit) (map[string][]hunkmodel.Hunk, error) {
	if commit.NumParents() == 0 {
		return rootCommitHunks(commit)
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("load parent of %s: %w", commit.Hash, err)
	}

	patch, err := parent.Patch(commit)
	if err != nil {
		return nil, fmt.Errorf("diff %s against parent: %w", commit.Hash, err)
	}

	result := map[string][]hunkmodel.Hunk{}
	for _, fp := range patch.FilePatches() {
		if fp.IsBinary() {
			continue
		}
		from, to := fp.Files()
		path := ""
		switch {
		case to != nil:
			path = to.Path()
		case from != nil:
			path = from.Path()
		default:
			continue
		}

		chunks := make([]hunkmodel.Chunk, 0, len(fp.Chunks()))
		for _, c := range fp.Chunks() {
			chunks = append(chunks, hunkmodel.Chunk{
				Type:  operationToChunkType(c.Type()),
				Lines: splitKeepingNewlines(c.Content()),
			})
		}

		hunks := hunkmodel.FromChunks(path, chunks)
		if len(hunks) > 0 {
			result[path] = hunks
		}
	}
	return result, nil
}

// rootCommitHunks handles a commit with no parent: every path in its tree
// is a pure insertion of the whole file.
func rootCommitHunks(commit *object.Commit) (map[string][]hunkmodel.Hunk, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree for %s: %w", commit.Hash, err)
	}

	result := map[string][]hunkmodel.Hunk{}
	err = tree.Files().ForEach(func(f *object.File) error {
		if isBinary, err := f.IsBinary(); err == nil && isBinary {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return err
		}
		hunks := hunkmodel.FromChunks(f.Name, []hunkmodel.Chunk{
			{Type: hunkmodel.ChunkAdd, Lines: splitKeepingNewlines(content)},
		})
		if len(hunks) > 0 {
			result[f.Name] = hunks
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate tree for %s: %w", commit.Hash, err)
	}
	return result, nil
}

func operationToChunkType(op gitdiff.Operation) hunkmodel.ChunkType {
	switch op {
	case gitdiff.Add:
		return hunkmodel.ChunkAdd
	case gitdiff.Delete:
		return hunkmodel.ChunkDelete
	default:
		return hunkmodel.ChunkEqual
	}
}

// StagedHunks diffs the index against HEAD's tree and returns the
// per-path hunk lists for every path that differs, in the coordinate
// system the attribution driver expects: old side = HEAD's tree, new
// side = the index.
func (r *Repo) StagedHunks() (map[string][]hunkmodel.Hunk, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	headTree, err := head.Tree()
	if err != nil {
		return nil, fmt.Errorf("load HEAD tree: %w", err)
	}

	idx, err := r.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	headBlobs := map[string]*object.Blob{}
	err = headTree.Files().ForEach(func(f *object.File) error {
		blob, err := r.BlobObject(f.Blob.Hash)
		if err != nil {
			return err
		}
		headBlobs[f.Name] = blob
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate HEAD tree: %w", err)
	}

	result := map[string][]hunkmodel.Hunk{}
	seen := map[string]bool{}

	for _, entry := range idx.Entries {
		if entry.Mode != filemode.Regular && entry.Mode != filemode.Executable {
			continue
		}
		seen[entry.Name] = true

		headBlob, wasInHead := headBlobs[entry.Name]
		if wasInHead && headBlob.Hash == entry.Hash {
			continue // unchanged
		}

		oldContent := ""
		if wasInHead {
			oldContent, err = blobText(headBlob)
			if err != nil {
				return nil, err
			}
		}

		newBlob, err := r.BlobObject(entry.Hash)
		if err != nil {
			return nil, fmt.Errorf("read staged blob for %s: %w", entry.Name, err)
		}
		newContent, err := blobText(newBlob)
		if err != nil {
			return nil, err
		}

		hunks := hunkmodel.FromChunks(entry.Name, diffLines(oldContent, newContent))
		if len(hunks) > 0 {
			result[entry.Name] = hunks
		}
	}

	// Paths present in HEAD but removed from the index entirely.
	for path, blob := range headBlobs {
		if seen[path] {
			continue
		}
		oldContent, err := blobText(blob)
		if err != nil {
			return nil, err
		}
		hunks := hunkmodel.FromChunks(path, diffLines(oldContent, ""))
		if len(hunks) > 0 {
			result[path] = hunks
		}
	}

	return result, nil
}

// BlobLines returns a path's content within a tree, split into lines with
// their original line terminators intact.
func BlobLines(tree *object.Tree, path string) ([][]byte, error) {
	f, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("read %s from tree: %w", path, err)
	}
	content, err := blobText(&f.Blob)
	if err != nil {
		return nil, err
	}
	return linesToBytes(splitKeepingNewlines(content)), nil
}

func blobText(blob *object.Blob) (string, error) {
	r, err := blob.Reader()
	if err != nil {
		return "", fmt.Errorf("open blob %s: %w", blob.Hash, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read blob %s: %w", blob.Hash, err)
	}
	return string(data), nil
}

func linesToBytes(lines []string) [][]byte {
	out := make([][]byte, len(lines))
	for i, l := range lines {
		out[i] = []byte(l)
	}
	return out
}

func splitKeepingNewlines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// diffLines computes a line-level diff between two file contents using
// diffmatchpatch's line-to-character encoding trick, so the underlying
// Myers diff operates on whole lines instead of runes.
func diffLines(oldContent, newContent string) []hunkmodel.Chunk {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	chunks := make([]hunkmodel.Chunk, 0, len(diffs))
	for _, d := range diffs {
		var t hunkmodel.ChunkType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			t = hunkmodel.ChunkAdd
		case diffmatchpatch.DiffDelete:
			t = hunkmodel.ChunkDelete
		default:
			t = hunkmodel.ChunkEqual
		}
		chunks = append(chunks, hunkmodel.Chunk{Type: t, Lines: splitKeepingNewlines(d.Text)})
	}
	return chunks
}
