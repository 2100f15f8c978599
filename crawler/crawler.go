// Package crawler discovers projects under a set of root directories with a
// fixed pool of workers sharing one self-expanding job queue.
package crawler

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lexandro/projectindex-mcp/ignore"
	"github.com/lexandro/projectindex-mcp/project"
)

const (
	DefaultWorkers  = 4
	DefaultMaxDepth = 4
)

// Index is the shared project store consulted and updated during a scan.
// Implementations must be safe for concurrent use.
type Index interface {
	ShouldReindex(path string, modTime time.Time) bool
	Add(path string, p project.Project)
}

// Classifier turns a directory listing into a project.
type Classifier interface {
	Classify(dir string, files []string, modTime time.Time) (project.Project, bool)
}

// Options configures a scan. Zero Workers, nil ExcludeDirs and a nil
// Logger select the defaults. MaxDepth is taken as given: 0 classifies the
// roots and never recurses, negative values count as 0.
type Options struct {
	Workers  int
	MaxDepth int
	// ExcludeDirs are doublestar patterns matched against directory base
	// names; matching directories are never entered.
	ExcludeDirs []string
	Logger      *slog.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Workers:     DefaultWorkers,
		MaxDepth:    DefaultMaxDepth,
		ExcludeDirs: ignore.DefaultCrawlExcludes,
	}
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = 0
	}
	if o.ExcludeDirs == nil {
		o.ExcludeDirs = ignore.DefaultCrawlExcludes
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Stats summarises a finished scan.
type Stats struct {
	Directories int
	Projects    int
	Duration    time.Duration
}

// Scan crawls roots and blocks until the traversal is quiescent. It returns
// every project classified during this pass, in no particular order.
func Scan(roots []string, idx Index, classifier Classifier, options Options) ([]project.Project, Stats) {
	start := time.Now()
	s := newScanner(idx, classifier, options)

	var found []project.Project
	for p := range s.run(roots) {
		found = append(found, p)
	}

	stats := Stats{
		Directories: int(s.visited.Load()),
		Projects:    len(found),
		Duration:    time.Since(start),
	}
	s.options.Logger.Info("scan complete",
		"roots", len(roots),
		"directories", stats.Directories,
		"projects", stats.Projects,
		"duration", stats.Duration,
	)
	return found, stats
}

type scanner struct {
	idx        Index
	classifier Classifier
	options    Options
	visited    atomic.Int64
}

func newScanner(idx Index, classifier Classifier, options Options) *scanner {
	return &scanner{idx: idx, classifier: classifier, options: options.withDefaults()}
}

func (s *scanner) run(roots []string) <-chan project.Project {
	queue := newJobQueue()
	results := make(chan project.Project, s.options.Workers)

	for _, root := range roots {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		queue.push(Job{Path: root, Depth: 0})
	}
	queue.closeIfIdle()

	var wg sync.WaitGroup
	for i := 0; i < s.options.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, ok := queue.pop()
				if !ok {
					return
				}
				s.visit(job, queue, results)
				queue.done()
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// visit handles one directory: classify it when the index says so, then
// enqueue its subdirectories unless the directory is a crawl leaf.
//
// A directory the index already holds with an up-to-date mtime is a leaf
// even though it is not reclassified. Recursing into it would let a rescan
// of an unchanged tree pick up projects nested inside known ones, so the
// second scan would not reproduce the first scan's index.
func (s *scanner) visit(job Job, queue *jobQueue, results chan<- project.Project) {
	logger := s.options.Logger
	if strings.HasPrefix(filepath.Base(job.Path), ".") {
		return
	}
	s.visited.Add(1)

	dirs, files, err := listChildren(job.Path)
	if err != nil {
		logger.Warn("cannot read directory", "path", job.Path, "error", err)
		return
	}

	modTime := time.Now()
	if info, err := os.Stat(job.Path); err == nil {
		modTime = info.ModTime()
	} else {
		logger.Debug("cannot stat directory, using current time", "path", job.Path, "error", err)
	}

	leaf := true
	if s.idx.ShouldReindex(job.Path, modTime) {
		if p, ok := s.classifier.Classify(job.Path, files, modTime); ok {
			s.idx.Add(job.Path, p)
			results <- p
			logger.Debug("project found", "path", job.Path, "type", p.Type.String())
		} else {
			leaf = false
			logger.Debug("not a project", "path", job.Path)
		}
	}

	if leaf || job.Depth >= s.options.MaxDepth {
		return
	}
	for _, dir := range dirs {
		if ignore.MatchName(s.options.ExcludeDirs, filepath.Base(dir)) {
			continue
		}
		queue.push(Job{Path: dir, Depth: job.Depth + 1})
	}
}

// listChildren returns the full paths of the subdirectories and regular
// files directly inside dir, in name order. Symlinks are resolved to decide
// which side they fall on; broken links are dropped.
func listChildren(dir string) (dirs []string, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				continue
			}
			mode = info.Mode().Type()
		}
		switch {
		case mode.IsDir():
			dirs = append(dirs, path)
		case mode.IsRegular():
			files = append(files, path)
		}
	}
	return dirs, files, nil
}
