// Package runtime bundles the run-scoped state every component of absorb
// is handed explicitly instead of reaching for package-level globals: the
// opened repository, the resolved configuration, and the logger.
package runtime

import (
	"fmt"

	"github.com/tummychow/git-absorb/internal/config"
	"github.com/tummychow/git-absorb/internal/gitrepo"
	"github.com/tummychow/git-absorb/internal/output"
)

// Context is constructed once at CLI startup and passed explicitly to
// every component that needs repository, configuration, or logging
// access.
type Context struct {
	Repo    *gitrepo.Repo
	Config  config.Config
	Splog   *output.Splog
	Verbose bool
}

// New opens the repository rooted at (or above) dir, resolves absorb's
// configuration by layering ov over git-config over defaults, and builds
// the logger.
func New(dir string, ov config.Overrides, verbose bool) (*Context, error) {
	repo, err := gitrepo.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	cfg := config.Resolve(repo.NewConfigReader(), ov)

	splog := output.NewSplog()
	splog.Verbose = verbose

	return &Context{
		Repo:    repo,
		Config:  cfg,
		Splog:   splog,
		Verbose: verbose,
	}, nil
}
