package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexandro/projectindex-mcp/index"
	"github.com/lexandro/projectindex-mcp/project"
)

// pruneResult holds the outcome of a single prune run.
type pruneResult struct {
	Vanished     int // directory no longer exists
	Unidentified int // manifest the project was classified from is gone
	Orphaned     int // no longer under any configured root
	Duration     time.Duration
}

// Total returns the number of removed entries.
func (r pruneResult) Total() int {
	return r.Vanished + r.Unidentified + r.Orphaned
}

// runPeriodicRescan runs an incremental index pass at the given interval
// until stop is closed. A tick that finds a pass already running is skipped.
func runPeriodicRescan(intervalSeconds int, ix *indexer, logger *slog.Logger, stop <-chan struct{}) {
	interval := time.Duration(intervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic rescan started", "intervalSeconds", intervalSeconds)

	for {
		select {
		case <-stop:
			logger.Info("periodic rescan stopped")
			return
		case <-ticker.C:
			result, err := ix.runIndexPass(false)
			switch {
			case errors.Is(err, errPassRunning):
				logger.Debug("periodic rescan skipped, pass in progress")
			case err != nil:
				logger.Error("periodic rescan failed", "error", err)
			case result.Found > 0 || result.Pruned > 0:
				logger.Info("periodic rescan updated index", "found", result.Found, "pruned", result.Pruned)
			}
		}
	}
}

// performPrune removes index entries that no longer describe a project on
// disk. Orphan detection only applies when roots is non-empty.
func performPrune(roots []string, idx *index.ProjectIndex, logger *slog.Logger) pruneResult {
	start := time.Now()
	var result pruneResult

	for _, path := range idx.Paths() {
		p, ok := idx.Get(path)
		if !ok {
			continue
		}

		info, err := os.Stat(path)
		switch {
		case err != nil || !info.IsDir():
			idx.Remove(path)
			logger.Info("prune: removed vanished project", "path", path)
			result.Vanished++
		case len(roots) > 0 && !underAnyRoot(path, roots):
			idx.Remove(path)
			logger.Info("prune: removed project outside configured roots", "path", path)
			result.Orphaned++
		case !hasManifest(path, p.Type):
			idx.Remove(path)
			logger.Info("prune: removed project without manifest", "path", path, "type", p.Type.String())
			result.Unidentified++
		}
	}

	result.Duration = time.Since(start)
	if result.Total() > 0 {
		logger.Info("prune complete",
			"vanished", result.Vanished,
			"unidentified", result.Unidentified,
			"orphaned", result.Orphaned,
			"duration", result.Duration,
		)
	} else {
		logger.Debug("prune complete, index is in sync", "duration", result.Duration)
	}
	return result
}

func underAnyRoot(path string, roots []string) bool {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

// hasManifest reports whether the file dir was classified from is still
// there. Types without an extractor never have one.
func hasManifest(dir string, t project.Type) bool {
	name, ok := project.ManifestFile(t)
	return ok && fileExists(filepath.Join(dir, name))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
