package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lexandro/projectindex-mcp/config"
	"github.com/lexandro/projectindex-mcp/crawler"
	"github.com/lexandro/projectindex-mcp/index"
	"github.com/lexandro/projectindex-mcp/project"
	"github.com/lexandro/projectindex-mcp/search"
)

// Repeat counts that bias a project's search document toward its metadata.
const (
	nameRepeat        = 9
	typeRepeat        = 3
	descriptionRepeat = 4
)

var errPassRunning = errors.New("indexing already in progress")

// passResult summarises one index pass.
type passResult struct {
	Found     int
	Pruned    int
	Indexed   int
	Documents int
	Duration  time.Duration
}

// indexer owns the shared Project Index and the served Search Model and
// runs scan/prune/build passes over them, one at a time.
type indexer struct {
	configDir  string
	index      *index.ProjectIndex
	searcher   *search.Searcher
	classifier crawler.Classifier
	options    crawler.Options
	logger     *slog.Logger

	running atomic.Bool
}

// IsIndexing reports whether a pass is in progress.
func (ix *indexer) IsIndexing() bool {
	return ix.running.Load()
}

// runIndexPass scans every configured root, prunes stale entries, saves the
// index, then rebuilds, saves and serves a fresh search model. A full pass
// clears the index first so every project is reclassified.
func (ix *indexer) runIndexPass(full bool) (passResult, error) {
	if !ix.running.CompareAndSwap(false, true) {
		return passResult{}, errPassRunning
	}
	defer ix.running.Store(false)

	start := time.Now()
	var result passResult

	cfg, err := config.Load(ix.configDir)
	if err != nil {
		return result, err
	}
	if full {
		ix.index.Clear()
	}

	roots := absoluteRoots(cfg.ProjectDirs, ix.logger)
	if len(roots) == 0 {
		ix.logger.Warn("no project directories configured", "config", cfg.Path())
	}
	found := performScan(roots, ix.index, ix.classifier, ix.options)
	result.Found = len(found)

	// Prune must see the same roots the crawler walked, or every project
	// under a relative root would count as orphaned.
	prune := performPrune(roots, ix.index, ix.logger)
	result.Pruned = prune.Total()

	if err := ix.index.Save(); err != nil {
		return result, err
	}
	result.Indexed = ix.index.Len()

	model := buildSearchModel(ix.index.List(), ix.logger)
	if err := model.Save(filepath.Join(ix.configDir, config.SearchIndexFileName)); err != nil {
		return result, err
	}
	ix.searcher.Replace(model)
	result.Documents = model.Len()

	result.Duration = time.Since(start)
	ix.logger.Info("index pass complete",
		"full", full,
		"found", result.Found,
		"pruned", result.Pruned,
		"projects", result.Indexed,
		"documents", result.Documents,
		"duration", result.Duration,
	)
	return result, nil
}

// absoluteRoots resolves configured roots against the working directory.
// lp.config.json may be edited by hand, so entries are not trusted to be
// absolute. Unresolvable entries are dropped.
func absoluteRoots(dirs []string, logger *slog.Logger) []string {
	roots := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			logger.Warn("cannot resolve project directory", "path", dir, "error", err)
			continue
		}
		roots = append(roots, abs)
	}
	return roots
}

// performScan crawls roots into idx and returns the projects (re)classified
// during this pass.
func performScan(roots []string, idx *index.ProjectIndex, classifier crawler.Classifier, options crawler.Options) []project.Project {
	if len(roots) == 0 {
		return nil
	}
	found, _ := crawler.Scan(roots, idx, classifier, options)
	return found
}

// buildSearchModel turns an index snapshot into a fresh search model.
func buildSearchModel(projects []project.Project, logger *slog.Logger) *search.Model {
	model := search.NewModel()
	for _, p := range projects {
		model.AddDocument(p.Path, p.LastModified, documentText(p, logger))
	}
	return model
}

// documentText is the searchable text of a project: name, type and
// description repeated to outweigh free text, then the documentation file.
// An unreadable documentation file contributes nothing.
func documentText(p project.Project, logger *slog.Logger) string {
	var builder strings.Builder
	repeat := func(s string, n int) {
		if s == "" {
			return
		}
		for i := 0; i < n; i++ {
			builder.WriteString(s)
			builder.WriteByte(' ')
		}
	}
	repeat(p.Name, nameRepeat)
	repeat(p.Type.String(), typeRepeat)
	repeat(p.DescriptionText(), descriptionRepeat)

	if p.DocumentationFile != nil {
		content, err := os.ReadFile(*p.DocumentationFile)
		if err != nil {
			logger.Debug("documentation file unreadable", "path", *p.DocumentationFile, "error", err)
		} else {
			builder.WriteByte('\n')
			builder.Write(content)
		}
	}
	return builder.String()
}

// addRootDir adds dir to the configured scan roots and persists the config.
func addRootDir(configDir string, dir string) (string, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return "", err
	}
	added, err := cfg.AddDir(dir)
	if err != nil {
		return added, err
	}
	info, err := os.Stat(added)
	if err != nil {
		return added, fmt.Errorf("checking %s: %w", added, err)
	}
	if !info.IsDir() {
		return added, fmt.Errorf("%s is not a directory", added)
	}
	if err := cfg.Save(); err != nil {
		return added, err
	}
	return added, nil
}

// removeRootDir drops dir from the configured scan roots and persists the
// config. Its projects are pruned as orphans on the next pass.
func removeRootDir(configDir string, dir string) (bool, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return false, err
	}
	if !cfg.RemoveDir(dir) {
		return false, nil
	}
	if err := cfg.Save(); err != nil {
		return false, err
	}
	return true, nil
}
