// Package ignore decides which directories and files a walk should skip:
// exclusion globs, a project's .gitignore and built-in generated-file patterns.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// DefaultMaxFileSizeBytes bounds the files a Matcher lets through.
const DefaultMaxFileSizeBytes = 4 * 1024 * 1024

// Matcher applies the ignore rules of one project root.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	rootDir          string
	gitIgnore        gitignore.GitIgnore
	excludeDirs      []string
	filePatterns     []string
	maxFileSizeBytes int64
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir string
	// ExcludeDirs are doublestar patterns matched against directory base names.
	ExcludeDirs      []string
	MaxFileSizeBytes int64
}

// NewMatcher builds a matcher for options.RootDir, reading its .gitignore
// when present.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:          options.RootDir,
		excludeDirs:      options.ExcludeDirs,
		filePatterns:     DefaultFilePatterns,
		maxFileSizeBytes: options.MaxFileSizeBytes,
	}
	if matcher.maxFileSizeBytes <= 0 {
		matcher.maxFileSizeBytes = DefaultMaxFileSizeBytes
	}
	matcher.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)
	return matcher
}

// ShouldIgnoreDir reports whether the walk should skip the directory at
// absolutePath and everything below it.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	if MatchName(m.excludeDirs, filepath.Base(absolutePath)) {
		return true
	}
	return m.gitIgnored(absolutePath, true)
}

// ShouldIgnoreFile reports whether the file at absolutePath is excluded by
// the built-in patterns or the project's .gitignore.
func (m *Matcher) ShouldIgnoreFile(absolutePath string) bool {
	if matchNameFold(m.filePatterns, filepath.Base(absolutePath)) {
		return true
	}
	return m.gitIgnored(absolutePath, false)
}

// IsFileTooLarge returns true if the file exceeds the max file size limit.
func (m *Matcher) IsFileTooLarge(fileSize int64) bool {
	return fileSize > m.maxFileSizeBytes
}

func (m *Matcher) gitIgnored(absolutePath string, isDir bool) bool {
	if m.gitIgnore == nil {
		return false
	}
	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil || relativePath == "." || strings.HasPrefix(relativePath, "..") {
		return false
	}
	// Relative() does not require the path to exist on disk.
	match := m.gitIgnore.Relative(filepath.ToSlash(relativePath), isDir)
	return match != nil && match.Ignore()
}

// MatchName reports whether name matches any of the doublestar patterns.
// Matching is case-sensitive, so "src" does not exclude "Src". Invalid
// patterns never match.
func MatchName(patterns []string, name string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// matchNameFold is MatchName ignoring case, for generated-file patterns
// such as *.min.js that appear in any case.
func matchNameFold(patterns []string, name string) bool {
	lowered := strings.ToLower(name)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(strings.ToLower(pattern), lowered)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// ValidatePatterns returns an error naming the first malformed pattern.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	return nil
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses io.Reader approach to ensure the file handle is properly closed on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
