// Package linecount measures how a project's code lines split across
// languages.
package linecount

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexandro/projectindex-mcp/ignore"
	"github.com/lexandro/projectindex-mcp/language"
)

// Lines counts code lines per language name under dir. Directories whose
// base name matches an exclude pattern are skipped, as is anything the
// project's .gitignore ignores. Binary and oversized files are not counted.
func Lines(dir string, excludes []string) (map[string]int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("counting lines: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("counting lines: %s is not a directory", dir)
	}

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: dir, ExcludeDirs: excludes})
	counts := make(map[string]int)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && matcher.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || matcher.ShouldIgnoreFile(path) {
			return nil
		}
		def, ok := language.Lookup(path)
		if !ok {
			return nil
		}
		fileInfo, err := d.Info()
		if err != nil || matcher.IsFileTooLarge(fileInfo.Size()) {
			return nil
		}
		content, err := readFileWithRetry(path)
		if err != nil || language.IsBinaryContent(content) {
			return nil
		}
		if n := codeLines(content, def); n > 0 {
			counts[def.Name] += n
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, walkErr)
	}
	return counts, nil
}

// Count returns language name -> percentage of all code lines under dir.
// Percentages are not rounded or corrected to sum to exactly 100, and the
// map is empty when dir holds no code.
func Count(dir string, excludes []string) (map[string]float64, error) {
	lines, err := Lines(dir, excludes)
	if err != nil {
		return nil, err
	}
	return Percentages(lines), nil
}

// Percentages converts per-language line counts into shares of the total.
func Percentages(lines map[string]int) map[string]float64 {
	total := 0
	for _, n := range lines {
		total += n
	}
	result := make(map[string]float64, len(lines))
	if total == 0 {
		return result
	}
	for name, n := range lines {
		result[name] = float64(n) / float64(total) * 100
	}
	return result
}

// codeLines counts lines that are neither blank nor whole-line comments.
func codeLines(content []byte, def *language.Definition) int {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || def.IsCommentLine(line) {
			continue
		}
		count++
	}
	return count
}

// readFileWithRetry attempts to read a file, retrying once after a short delay
// if the file is locked (common on Windows when editors are saving).
func readFileWithRetry(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		time.Sleep(50 * time.Millisecond)
		return os.ReadFile(path)
	}
	return data, nil
}
