// Package vcs reads repository metadata straight from a working tree's git
// directory without shelling out to git.
package vcs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// GitDir returns the git directory for the working tree at dir. It follows
// a ".git" file of the form "gitdir: <path>" used by worktrees and
// submodules. ok is false when dir is not a repository root.
func GitDir(dir string) (gitDir string, ok bool, err error) {
	dotGit := filepath.Join(dir, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	if info.IsDir() {
		return dotGit, true, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", false, err
	}
	line := strings.TrimSpace(string(data))
	target, found := strings.CutPrefix(line, "gitdir:")
	if !found {
		return "", false, fmt.Errorf("unrecognised .git file in %s", dir)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return filepath.Clean(target), true, nil
}

// configDir returns the directory holding the shared config file. Linked
// worktrees keep it in the directory named by their "commondir" file.
func configDir(gitDir string) string {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		return gitDir
	}
	common := strings.TrimSpace(string(data))
	if common == "" {
		return gitDir
	}
	if !filepath.IsAbs(common) {
		common = filepath.Join(gitDir, common)
	}
	return filepath.Clean(common)
}

// Remotes returns the URLs of every configured remote of the repository at
// dir, in config file order. A directory that is not a repository yields an
// empty slice and no error.
func Remotes(dir string) ([]string, error) {
	gitDir, ok, err := GitDir(dir)
	if err != nil {
		return nil, fmt.Errorf("locating git directory: %w", err)
	}
	if !ok {
		return []string{}, nil
	}

	configPath := filepath.Join(configDir(gitDir), "config")
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:            true,
		SkipUnrecognizableLines: true,
	}, configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading git config: %w", err)
	}

	remotes := []string{}
	for _, section := range cfg.Sections() {
		if !isRemoteSection(section.Name()) || !section.HasKey("url") {
			continue
		}
		for _, url := range section.Key("url").ValueWithShadows() {
			if url = strings.TrimSpace(url); url != "" {
				remotes = append(remotes, url)
			}
		}
	}
	return remotes, nil
}

// isRemoteSection matches section headers like `remote "origin"`.
func isRemoteSection(name string) bool {
	rest, found := strings.CutPrefix(name, "remote")
	if !found {
		return false
	}
	rest = strings.TrimSpace(rest)
	return len(rest) >= 2 && strings.HasPrefix(rest, `"`) && strings.HasSuffix(rest, `"`)
}
