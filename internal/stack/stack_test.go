package stack

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tummychow/git-absorb/internal/gitrepo"
	"github.com/tummychow/git-absorb/internal/output"
	"github.com/tummychow/git-absorb/internal/testrepo"
)

func openRepo(t *testing.T, tr *testrepo.Repo) *gitrepo.Repo {
	t.Helper()
	repo, err := gitrepo.Open(tr.Dir)
	require.NoError(t, err)
	return repo
}

func TestStackHidesOtherBranches(t *testing.T) {
	tr := testrepo.New(t.TempDir())
	first := tr.EmptyCommit("0")
	tr.EmptyCommit("1")
	tr.Branch("hide", first)

	repo := openRepo(t, tr)
	stack, err := Select(repo, Options{MaxStack: 10}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, stack, 1)
}

func TestStackUsesCustomBase(t *testing.T) {
	tr := testrepo.New(t.TempDir())
	c0 := tr.EmptyCommit("0")
	c1 := tr.EmptyCommit("1")
	tr.EmptyCommit("2")
	tr.Branch("hide", c1)

	repo := openRepo(t, tr)
	stack, err := Select(repo, Options{MaxStack: 10, Base: c0}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, stack, 2)
}

func TestStackStopsAtDefaultLimit(t *testing.T) {
	tr := testrepo.New(t.TempDir())
	for i := 0; i < 11; i++ {
		tr.EmptyCommit("c")
	}

	repo := openRepo(t, tr)
	stack, err := Select(repo, Options{MaxStack: 10}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, stack, 10)
}

func TestStackStopsAtConfiguredLimit(t *testing.T) {
	tr := testrepo.New(t.TempDir())
	for i := 0; i < 12; i++ {
		tr.EmptyCommit("c")
	}

	repo := openRepo(t, tr)
	stack, err := Select(repo, Options{MaxStack: 11}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, stack, 11)
}

func TestStackExplicitBaseIsUnboundedByMaxStack(t *testing.T) {
	tr := testrepo.New(t.TempDir())
	base := tr.EmptyCommit("0")
	for i := 0; i < 12; i++ {
		tr.EmptyCommit("c")
	}

	repo := openRepo(t, tr)
	stack, err := Select(repo, Options{MaxStack: 10, Base: base}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, stack, 12)
}

func TestStackSkipsForeignAuthor(t *testing.T) {
	tr := testrepo.New(t.TempDir())
	for i := 0; i < 3; i++ {
		tr.WriteFile(fmt.Sprintf("theirs%d.txt", i), "x\n")
		tr.CommitAs("old", "nobody2", "nobody2@example.com")
	}
	for i := 0; i < 2; i++ {
		tr.WriteFile(fmt.Sprintf("mine%d.txt", i), "x\n")
		tr.Commit("mine")
	}

	repo := openRepo(t, tr)
	stack, err := Select(repo, Options{MaxStack: 10}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, stack, 2)
}

func TestStackStopsAtMerges(t *testing.T) {
	tr := testrepo.New(t.TempDir())
	tr.EmptyCommit("first")
	tr.RunGit("checkout", "-q", "-b", "side")
	tr.EmptyCommit("side work")
	tr.RunGit("checkout", "-q", "main")
	tr.Merge("side", "merge side into main")
	tr.EmptyCommit("after merge 1")
	tr.EmptyCommit("after merge 2")

	repo := openRepo(t, tr)
	stack, err := Select(repo, Options{MaxStack: 10}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, stack, 2)
}

func TestStackSkipsAlreadyFixupCommits(t *testing.T) {
	tr := testrepo.New(t.TempDir())
	tr.EmptyCommit("real work")
	tr.EmptyCommit("fixup! real work")
	tr.EmptyCommit("more work")

	repo := openRepo(t, tr)
	stack, err := Select(repo, Options{MaxStack: 10}, output.NewDiscardSplog())
	require.NoError(t, err)
	for _, c := range stack {
		require.NotContains(t, c.Summary, "fixup!")
	}
	require.Len(t, stack, 2)
}
