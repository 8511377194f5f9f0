// Package gitrepo is the thin adapter over go-git that every other
// package in absorb depends on instead of touching the repository
// directly. It implements the DiffSource capability the attribution
// driver and commuter are specified against, so the core algorithm stays
// testable with synthetic hunks.
package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tummychow/git-absorb/internal/errkinds"
)

// Repo wraps an opened repository and the resolved working directory it
// was opened from.
type Repo struct {
	*gogit.Repository
	root string
}

// Open finds the repository containing dir (walking up through parent
// directories the way git itself does) and opens it.
func Open(dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errkinds.NewRepositoryError("resolve working directory", err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errkinds.NewRepositoryError("open repository", err)
	}

	wt, err := repo.Worktree()
	root := abs
	if err == nil {
		root = wt.Filesystem.Root()
	}

	return &Repo{Repository: repo, root: root}, nil
}

// Root returns the working tree's root directory.
func (r *Repo) Root() string {
	return r.root
}

// HeadRef returns the raw HEAD reference, before resolving symbolic refs,
// so callers can tell a detached HEAD from a branch.
func (r *Repo) HeadRef() (*plumbing.Reference, error) {
	ref, err := r.Reference(plumbing.HEAD, false)
	if err != nil {
		return nil, errkinds.NewRepositoryError("resolve HEAD", err)
	}
	return ref, nil
}

// IsDetached reports whether HEAD currently points directly at a commit
// rather than at a branch ref.
func (r *Repo) IsDetached() (bool, error) {
	ref, err := r.HeadRef()
	if err != nil {
		return false, err
	}
	return ref.Type() == plumbing.HashReference, nil
}

// HeadCommit resolves HEAD to its commit object.
func (r *Repo) HeadCommit() (*object.Commit, error) {
	head, err := r.Head()
	if err != nil {
		return nil, errkinds.NewRepositoryError("resolve HEAD", err)
	}
	commit, err := r.CommitObject(head.Hash())
	if err != nil {
		return nil, errkinds.NewRepositoryError("load HEAD commit", err)
	}
	return commit, nil
}

// ResolveRevision resolves an arbitrary revision string (branch, tag, SHA,
// or relative expression like HEAD~2) to a commit object.
func (r *Repo) ResolveRevision(rev string) (*object.Commit, error) {
	hash, err := r.Repository.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve revision %q: %w", rev, err)
	}
	commit, err := r.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %q: %w", rev, err)
	}
	return commit, nil
}

// LocalBranchTips returns the hash every local branch points at, keyed by
// full ref name, excluding the branch HEAD itself is currently on (if
// any). Used by the stack selector to stop before rewriting history that
// another branch also depends on.
func (r *Repo) LocalBranchTips() (map[plumbing.ReferenceName]plumbing.Hash, error) {
	headRef, err := r.HeadRef()
	if err != nil {
		return nil, err
	}

	var headBranch plumbing.ReferenceName
	if headRef.Type() == plumbing.SymbolicReference {
		headBranch = headRef.Target()
	}

	iter, err := r.Branches()
	if err != nil {
		return nil, errkinds.NewRepositoryError("list branches", err)
	}
	defer iter.Close()

	tips := map[plumbing.ReferenceName]plumbing.Hash{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name() == headBranch {
			return nil
		}
		tips[ref.Name()] = ref.Hash()
		return nil
	})
	if err != nil {
		return nil, errkinds.NewRepositoryError("list branches", err)
	}
	return tips, nil
}

// UserSignature returns the configured author identity, the same one new
// commits (and fixups) will be written with.
func (r *Repo) UserSignature() (object.Signature, error) {
	cfg, err := r.Config()
	if err != nil {
		return object.Signature{}, errkinds.NewRepositoryError("read config", err)
	}
	name := cfg.User.Name
	email := cfg.User.Email
	if name == "" {
		name = os.Getenv("GIT_AUTHOR_NAME")
	}
	if email == "" {
		email = os.Getenv("GIT_AUTHOR_EMAIL")
	}
	return object.Signature{Name: name, Email: email}, nil
}

// SameIdentity reports whether two signatures represent the same author,
// by name and email only (the comparison the stack selector's
// foreign-author check uses).
func SameIdentity(a, b object.Signature) bool {
	return a.Name == b.Name && a.Email == b.Email
}
