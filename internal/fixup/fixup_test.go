package fixup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tummychow/git-absorb/internal/attribution"
	"github.com/tummychow/git-absorb/internal/gitrepo"
	"github.com/tummychow/git-absorb/internal/output"
	"github.com/tummychow/git-absorb/internal/stack"
	"github.com/tummychow/git-absorb/internal/testrepo"
)

func setup(t *testing.T) (*testrepo.Repo, *gitrepo.Repo) {
	t.Helper()
	tr := testrepo.New(t.TempDir())
	repo, err := gitrepo.Open(tr.Dir)
	require.NoError(t, err)
	return tr, repo
}

func TestEmitPureDeletionFixupTargetsIntroducingCommit(t *testing.T) {
	tr, repo := setup(t)
	tr.WriteFile("f.txt", "line1\nline2\nline3\nline4\nline5\n")
	tr.Commit("add f")

	tr.WriteFile("f.txt", "line1\nline3\nline4\nline5\n")
	tr.Stage("f.txt")

	candidates, err := stack.Select(repo, stack.Options{MaxStack: 10}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	staged, err := repo.StagedHunks()
	require.NoError(t, err)
	require.Contains(t, staged, "f.txt")

	result := attribution.Attribute(candidates, staged, repo, attribution.Options{}, output.NewDiscardSplog())
	require.Empty(t, result.Unabsorbed)
	require.Len(t, result.Intents, 1)
	require.Equal(t, candidates[0].Hash, result.Intents[0].Target.Hash)

	emitResult, err := Emit(repo, candidates, result.Intents, Options{}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, emitResult.Plans, 1)
	require.Contains(t, emitResult.Plans[0].Message, "fixup! add f")

	newHead, err := repo.HeadCommit()
	require.NoError(t, err)
	require.Equal(t, emitResult.Plans[0].Hash, newHead.Hash)

	tree, err := newHead.Tree()
	require.NoError(t, err)
	lines, err := gitrepo.BlobLines(tree, "f.txt")
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("line1\n"), []byte("line3\n"), []byte("line4\n"), []byte("line5\n")}, lines)
}

func TestEmitDryRunLeavesHeadUntouched(t *testing.T) {
	tr, repo := setup(t)
	tr.WriteFile("f.txt", "a\nb\nc\n")
	tr.Commit("add f")

	before, err := repo.HeadCommit()
	require.NoError(t, err)

	tr.WriteFile("f.txt", "a\nc\n")
	tr.Stage("f.txt")

	candidates, err := stack.Select(repo, stack.Options{MaxStack: 10}, output.NewDiscardSplog())
	require.NoError(t, err)
	staged, err := repo.StagedHunks()
	require.NoError(t, err)

	result := attribution.Attribute(candidates, staged, repo, attribution.Options{}, output.NewDiscardSplog())
	require.Len(t, result.Intents, 1)

	emitResult, err := Emit(repo, candidates, result.Intents, Options{DryRun: true}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Len(t, emitResult.Plans, 1)
	require.True(t, emitResult.Plans[0].Hash.IsZero())

	after, err := repo.HeadCommit()
	require.NoError(t, err)
	require.Equal(t, before.Hash, after.Hash)
}

func TestEmitSquashAppendsMessageBody(t *testing.T) {
	tr, repo := setup(t)
	tr.WriteFile("f.txt", "a\nb\n")
	tr.Commit("add f")
	tr.WriteFile("f.txt", "a\nb2\n")
	tr.Stage("f.txt")

	candidates, err := stack.Select(repo, stack.Options{MaxStack: 10}, output.NewDiscardSplog())
	require.NoError(t, err)
	staged, err := repo.StagedHunks()
	require.NoError(t, err)
	result := attribution.Attribute(candidates, staged, repo, attribution.Options{}, output.NewDiscardSplog())
	require.Len(t, result.Intents, 1)

	emitResult, err := Emit(repo, candidates, result.Intents, Options{Squash: true, MessageBody: "extra detail"}, output.NewDiscardSplog())
	require.NoError(t, err)
	require.Contains(t, emitResult.Plans[0].Message, "squash! add f")
	require.Contains(t, emitResult.Plans[0].Message, "extra detail")
}
