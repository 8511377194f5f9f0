// Package config reads the absorb.* git-config keys and unifies them with
// command-line overrides, flags winning over config, config winning over
// hardcoded defaults.
package config

const (
	MaxStackDefault                  = 10
	ForceAuthorDefault               = false
	ForceDetachDefault               = false
	OneFixupPerCommitDefault         = false
	AutoStageIfNothingStagedDefault  = false
	FixupTargetAlwaysSHADefault      = false
	CreateSquashCommitsDefault       = false
)

// Config key names under the "absorb" git-config section.
const (
	KeyMaxStack                 = "maxStack"
	KeyForceAuthor               = "forceAuthor"
	KeyForceDetach                = "forceDetach"
	KeyOneFixupPerCommit          = "oneFixupPerCommit"
	KeyAutoStageIfNothingStaged   = "autoStageIfNothingStaged"
	KeyFixupTargetAlwaysSHA       = "fixupTargetAlwaysSHA"
	KeyCreateSquashCommits        = "createSquashCommits"
)

// Section is the git-config section absorb's keys live under.
const Section = "absorb"

// Reader reads string values out of a git-config section. Implemented by
// internal/gitrepo against a real repository, and by a map in tests.
type Reader interface {
	// Get returns the raw string value for a key in the "absorb" section,
	// and whether the key was present at all.
	Get(key string) (string, bool)
}

// Config holds the fully resolved set of absorb.* values for one run,
// after unifying git-config with CLI flag overrides.
type Config struct {
	MaxStack                 int
	ForceAuthor               bool
	ForceDetach                bool
	OneFixupPerCommit          bool
	AutoStageIfNothingStaged   bool
	FixupTargetAlwaysSHA       bool
	CreateSquashCommits        bool
}

// Overrides carries CLI-flag-sourced values; a nil pointer field means
// "not set on the command line, defer to config/default".
type Overrides struct {
	MaxStack                 *int
	ForceAuthor               *bool
	ForceDetach                *bool
	OneFixupPerCommit          *bool
	AutoStageIfNothingStaged   *bool
	FixupTargetAlwaysSHA       *bool
	CreateSquashCommits        *bool
}

// Resolve reads every absorb.* key from r, then applies overrides on top.
func Resolve(r Reader, ov Overrides) Config {
	cfg := Config{
		MaxStack:                 readInt(r, KeyMaxStack, MaxStackDefault),
		ForceAuthor:               readBool(r, KeyForceAuthor, ForceAuthorDefault),
		ForceDetach:                readBool(r, KeyForceDetach, ForceDetachDefault),
		OneFixupPerCommit:          readBool(r, KeyOneFixupPerCommit, OneFixupPerCommitDefault),
		AutoStageIfNothingStaged:   readBool(r, KeyAutoStageIfNothingStaged, AutoStageIfNothingStagedDefault),
		FixupTargetAlwaysSHA:       readBool(r, KeyFixupTargetAlwaysSHA, FixupTargetAlwaysSHADefault),
		CreateSquashCommits:        readBool(r, KeyCreateSquashCommits, CreateSquashCommitsDefault),
	}

	if ov.MaxStack != nil {
		cfg.MaxStack = *ov.MaxStack
	}
	if ov.ForceAuthor != nil {
		cfg.ForceAuthor = *ov.ForceAuthor
	}
	if ov.ForceDetach != nil {
		cfg.ForceDetach = *ov.ForceDetach
	}
	if ov.OneFixupPerCommit != nil {
		cfg.OneFixupPerCommit = *ov.OneFixupPerCommit
	}
	if ov.AutoStageIfNothingStaged != nil {
		cfg.AutoStageIfNothingStaged = *ov.AutoStageIfNothingStaged
	}
	if ov.FixupTargetAlwaysSHA != nil {
		cfg.FixupTargetAlwaysSHA = *ov.FixupTargetAlwaysSHA
	}
	if ov.CreateSquashCommits != nil {
		cfg.CreateSquashCommits = *ov.CreateSquashCommits
	}

	// maxStack is only meaningful when positive; a non-positive
	// git-config value (or override) falls back to the default, matching
	// the real tool's "max_stack > 0" validation.
	if cfg.MaxStack <= 0 {
		cfg.MaxStack = MaxStackDefault
	}

	return cfg
}

func readBool(r Reader, key string, def bool) bool {
	v, ok := r.Get(key)
	if !ok {
		return def
	}
	switch v {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}

func readInt(r Reader, key string, def int) int {
	v, ok := r.Get(key)
	if !ok {
		return def
	}
	n := 0
	neg := false
	for i, c := range v {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}
