package gitrepo

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FileModeAt returns the mode a path has in tree, or filemode.Regular if
// the path is absent (a brand-new file the emitter is about to create).
func FileModeAt(tree *object.Tree, path string) filemode.FileMode {
	entry, err := tree.FindEntry(path)
	if err != nil {
		return filemode.Regular
	}
	return entry.Mode
}

// WriteBlobLines writes lines as a new blob object and returns its hash.
func (r *Repo) WriteBlobLines(lines [][]byte) (plumbing.Hash, error) {
	obj := r.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("open blob writer: %w", err)
	}
	for _, l := range lines {
		if _, err := w.Write(l); err != nil {
			w.Close()
			return plumbing.ZeroHash, fmt.Errorf("write blob content: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("close blob writer: %w", err)
	}
	return r.Storer.SetEncodedObject(obj)
}

// ReplaceBlobInTree returns a new tree hash equal to the tree rooted at
// treeHash, except that path now points at newBlob with the given mode.
// Intermediate directory trees along path are rebuilt as needed; this
// recurses into subdirectories the same way the underlying VCS's own
// tree-splicing does when committing a change to a nested file.
func (r *Repo) ReplaceBlobInTree(treeHash plumbing.Hash, path string, newBlob plumbing.Hash, mode filemode.FileMode) (plumbing.Hash, error) {
	tree, err := r.TreeObject(treeHash)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("load tree %s: %w", treeHash, err)
	}

	head, rest, isLeaf := splitPath(path)

	entries := make([]object.TreeEntry, 0, len(tree.Entries)+1)
	replaced := false
	for _, e := range tree.Entries {
		if e.Name == head {
			replaced = true
			if isLeaf {
				entries = append(entries, object.TreeEntry{Name: head, Mode: mode, Hash: newBlob})
			} else {
				childHash, err := r.ReplaceBlobInTree(e.Hash, rest, newBlob, mode)
				if err != nil {
					return plumbing.ZeroHash, err
				}
				entries = append(entries, object.TreeEntry{Name: head, Mode: filemode.Dir, Hash: childHash})
			}
			continue
		}
		entries = append(entries, e)
	}

	if !replaced {
		if isLeaf {
			entries = append(entries, object.TreeEntry{Name: head, Mode: mode, Hash: newBlob})
		} else {
			childHash, err := r.ReplaceBlobInTree(plumbing.ZeroHash, rest, newBlob, mode)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			entries = append(entries, object.TreeEntry{Name: head, Mode: filemode.Dir, Hash: childHash})
		}
	}

	return r.writeTree(entries)
}

// splitPath splits a slash-separated repo path into its first component
// and the remainder, reporting whether the first component is the final
// (leaf) segment.
func splitPath(path string) (head, rest string, isLeaf bool) {
	idx := strings.IndexByte(path, '/')
	if idx < 0 {
		return path, "", true
	}
	return path[:idx], path[idx+1:], false
}

func (r *Repo) writeTree(entries []object.TreeEntry) (plumbing.Hash, error) {
	tree := &object.Tree{Entries: entries}
	obj := r.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode tree: %w", err)
	}
	return r.Storer.SetEncodedObject(obj)
}

// WriteFixupCommit writes a single-parent commit with the given tree and
// message, authored and committed as sig at the given time, and returns
// its hash. It does not move any ref.
func (r *Repo) WriteFixupCommit(parent plumbing.Hash, tree plumbing.Hash, message string, sig object.Signature, when time.Time) (plumbing.Hash, error) {
	sig.When = when
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     tree,
		ParentHashes: []plumbing.Hash{parent},
	}
	obj := r.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode commit: %w", err)
	}
	return r.Storer.SetEncodedObject(obj)
}

// MoveHEAD updates HEAD's current branch (or, if detached, HEAD itself)
// to point at hash.
func (r *Repo) MoveHEAD(hash plumbing.Hash) error {
	headRef, err := r.HeadRef()
	if err != nil {
		return err
	}

	target := plumbing.HEAD
	if headRef.Type() == plumbing.SymbolicReference {
		target = headRef.Target()
	}

	return r.Storer.SetReference(plumbing.NewHashReference(target, hash))
}

// WriteRecoveryRef records the pre-run HEAD under a fixed ref so a botched
// run can be recovered from even if the reflog has rotated past it. It is
// overwritten, not appended, on every run.
func (r *Repo) WriteRecoveryRef(hash plumbing.Hash) error {
	const recoveryRef = plumbing.ReferenceName("refs/absorb/pre-run-head")
	return r.Storer.SetReference(plumbing.NewHashReference(recoveryRef, hash))
}
