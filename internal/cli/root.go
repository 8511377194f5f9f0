// Package cli wires absorb's command-line surface: flag parsing and
// resolution of the run context, matching the teacher's cobra command
// construction style.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tummychow/git-absorb/internal/absorb"
	"github.com/tummychow/git-absorb/internal/config"
	"github.com/tummychow/git-absorb/internal/runtime"
)

// NewRootCmd builds the absorb command. Unlike a multi-verb tool, absorb
// is a single operation, so the root command itself carries the whole
// flag surface instead of delegating to a subcommand.
func NewRootCmd(version string) *cobra.Command {
	var (
		base              string
		dryRun            bool
		andRebase         bool
		force             bool
		forceAuthor       bool
		forceDetach       bool
		oneFixupPerCommit bool
		squash            bool
		wholeFile         bool
		messageBody       string
		verbose           bool
		genCompletions    string
	)

	cmd := &cobra.Command{
		Use:     "git-absorb",
		Short:   "Automatically absorb staged changes into their relevant commits",
		Version: version,
		Long: `git-absorb inspects the hunks currently staged in the index and, for
each one, walks the commits downstack from HEAD to find the single commit
that introduced the lines it touches. It then writes a fixup! (or, with
--squash, squash!) commit targeting that commit, so a later
` + "`git rebase --interactive --autosquash`" + ` folds the change in exactly
where it belongs.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if genCompletions != "" {
				return runGenCompletions(cmd, genCompletions)
			}
			if len(args) > 0 && !andRebase {
				return fmt.Errorf("arguments after -- require --and-rebase")
			}

			ctx, err := runtime.New(".", buildOverrides(force, forceAuthor, forceDetach, oneFixupPerCommit), verbose)
			if err != nil {
				return err
			}

			_, err = absorb.Action(ctx, absorb.Options{
				Base:              base,
				DryRun:            dryRun,
				AndRebase:         andRebase,
				ForceAuthor:       force || forceAuthor,
				ForceDetach:       force || forceDetach,
				OneFixupPerCommit: oneFixupPerCommit,
				Squash:            squash,
				WholeFile:         wholeFile,
				MessageBody:       messageBody,
				RebaseArgs:        args,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "Do not absorb changes into any commit at or before this revision.")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print what would be absorbed, but do not write any commits.")
	cmd.Flags().BoolVarP(&andRebase, "and-rebase", "r", false, "Run an autosquash rebase to fold the fixups in once they are written.")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Equivalent to setting every --force-* flag.")
	cmd.Flags().BoolVar(&forceAuthor, "force-author", false, "Absorb into commits authored by someone else.")
	cmd.Flags().BoolVar(&forceDetach, "force-detach", false, "Allow absorbing while HEAD is detached.")
	cmd.Flags().BoolVarP(&oneFixupPerCommit, "one-fixup-per-commit", "F", false, "Combine every hunk absorbed into the same commit into a single fixup.")
	cmd.Flags().BoolVarP(&squash, "squash", "s", false, "Emit squash! commits instead of fixup! commits.")
	cmd.Flags().BoolVarP(&wholeFile, "whole-file", "w", false, "Treat the first commit touching a path as the absorption target for the whole file.")
	cmd.Flags().StringVarP(&messageBody, "message", "m", "", "Message body appended to every emitted commit (squash! commits only).")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug detail about stack selection and attribution.")
	cmd.Flags().StringVar(&genCompletions, "gen-completions", "", "Print a shell completion script for bash, zsh, or fish and exit.")

	return cmd
}

func buildOverrides(force, forceAuthor, forceDetach, oneFixupPerCommit bool) config.Overrides {
	var ov config.Overrides
	if force || forceAuthor {
		v := true
		ov.ForceAuthor = &v
	}
	if force || forceDetach {
		v := true
		ov.ForceDetach = &v
	}
	if oneFixupPerCommit {
		v := true
		ov.OneFixupPerCommit = &v
	}
	return ov
}

func runGenCompletions(cmd *cobra.Command, shell string) error {
	root := cmd.Root()
	switch strings.ToLower(shell) {
	case "bash":
		return root.GenBashCompletionV2(cmd.OutOrStdout(), true)
	case "zsh":
		return root.GenZshCompletion(cmd.OutOrStdout())
	case "fish":
		return root.GenFishCompletion(cmd.OutOrStdout(), true)
	default:
		return fmt.Errorf("unsupported shell %q for --gen-completions (want bash, zsh, or fish)", shell)
	}
}
