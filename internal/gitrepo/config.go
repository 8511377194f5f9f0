package gitrepo

import (
	"github.com/tummychow/git-absorb/internal/config"
)

// ConfigReader adapts a repository's git-config to config.Reader, reading
// the "absorb" section directly off go-git's parsed config rather than
// shelling out to `git config --get`.
type ConfigReader struct {
	repo *Repo
}

// NewConfigReader builds a config.Reader over r's "absorb" section.
func (r *Repo) NewConfigReader() *ConfigReader {
	return &ConfigReader{repo: r}
}

// Get implements config.Reader.
func (c *ConfigReader) Get(key string) (string, bool) {
	cfg, err := c.repo.Config()
	if err != nil {
		return "", false
	}
	section := cfg.Raw.Section(config.Section)
	if section == nil || !section.HasOption(key) {
		return "", false
	}
	return section.Option(key), true
}
