// Package index keeps the persisted catalogue of discovered projects keyed
// by directory path.
package index

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lexandro/projectindex-mcp/jsonfile"
	"github.com/lexandro/projectindex-mcp/project"
)

var (
	// ErrNotFound is returned by Load when the index file does not exist.
	ErrNotFound = errors.New("project index not found")
	// ErrParse is returned by Load when the index file is corrupt.
	ErrParse = errors.New("project index parse error")
)

// ProjectIndex maps directory paths to projects. All methods are safe for
// concurrent use; each call is its own critical section.
type ProjectIndex struct {
	mu          sync.RWMutex
	path        string
	projects    map[string]project.Project
	lastIndexed time.Time
}

// persisted is the on-disk shape of the index.
type persisted struct {
	Projects    map[string]project.Project `json:"projects"`
	LastIndexed time.Time                  `json:"last_indexed"`
}

// New returns an empty index that saves to path.
func New(path string) *ProjectIndex {
	return &ProjectIndex{
		path:     path,
		projects: make(map[string]project.Project),
	}
}

// Load reads the index stored at path.
func Load(path string) (*ProjectIndex, error) {
	var stored persisted
	if err := jsonfile.Read(path, &stored); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		case errors.Is(err, jsonfile.ErrDecode):
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		default:
			return nil, fmt.Errorf("loading project index: %w", err)
		}
	}

	idx := New(path)
	idx.lastIndexed = stored.LastIndexed
	for key, p := range stored.Projects {
		if p.Path == "" {
			p.Path = key
		}
		idx.projects[key] = p
	}
	return idx, nil
}

// LoadOrDefault loads the index at path and falls back to an empty one when
// the file is missing or unreadable.
func LoadOrDefault(path string, logger *slog.Logger) *ProjectIndex {
	idx, err := Load(path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("project index unreadable, starting empty", "path", path, "error", err)
		}
		return New(path)
	}
	return idx
}

// Path returns the file the index saves to.
func (pi *ProjectIndex) Path() string {
	return pi.path
}

// Save writes the index atomically. last_indexed only advances when the
// write succeeds.
func (pi *ProjectIndex) Save() error {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	stored := persisted{
		Projects:    pi.projects,
		LastIndexed: time.Now(),
	}
	if err := jsonfile.Write(pi.path, stored); err != nil {
		return fmt.Errorf("saving project index: %w", err)
	}
	pi.lastIndexed = stored.LastIndexed
	return nil
}

// Add stores p under path, replacing any previous entry.
func (pi *ProjectIndex) Add(path string, p project.Project) {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	delete(pi.projects, path)
	pi.projects[path] = p
}

// Remove deletes the entry for path and reports whether one existed.
func (pi *ProjectIndex) Remove(path string) bool {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	if _, exists := pi.projects[path]; !exists {
		return false
	}
	delete(pi.projects, path)
	return true
}

// Get returns the project stored under path.
func (pi *ProjectIndex) Get(path string) (project.Project, bool) {
	pi.mu.RLock()
	defer pi.mu.RUnlock()
	p, ok := pi.projects[path]
	return p, ok
}

// ShouldReindex reports whether path is absent or its stored modification
// time is strictly older than modTime.
func (pi *ProjectIndex) ShouldReindex(path string, modTime time.Time) bool {
	pi.mu.RLock()
	defer pi.mu.RUnlock()

	p, ok := pi.projects[path]
	if !ok {
		return true
	}
	return p.LastModified.Before(modTime)
}

// Len returns the number of indexed projects.
func (pi *ProjectIndex) Len() int {
	pi.mu.RLock()
	defer pi.mu.RUnlock()
	return len(pi.projects)
}

// LastIndexed returns the time of the last successful Save, zero if never.
func (pi *ProjectIndex) LastIndexed() time.Time {
	pi.mu.RLock()
	defer pi.mu.RUnlock()
	return pi.lastIndexed
}

// List returns all projects, most recently modified first. Equal times are
// ordered by path.
func (pi *ProjectIndex) List() []project.Project {
	pi.mu.RLock()
	result := make([]project.Project, 0, len(pi.projects))
	for _, p := range pi.projects {
		result = append(result, p)
	}
	pi.mu.RUnlock()

	sortByRecency(result)
	return result
}

// Paths returns the indexed paths in lexical order.
func (pi *ProjectIndex) Paths() []string {
	pi.mu.RLock()
	defer pi.mu.RUnlock()

	paths := make([]string, 0, len(pi.projects))
	for path := range pi.projects {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// TypeCounts returns a map of project type name -> project count.
func (pi *ProjectIndex) TypeCounts() map[string]int {
	pi.mu.RLock()
	defer pi.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range pi.projects {
		counts[p.Type.String()]++
	}
	return counts
}

// Filter selects projects for listing.
type Filter struct {
	// Types limits results to these project types; empty means all.
	Types []project.Type
	// PathGlob is a doublestar pattern matched against the project path
	// (forward slashes); empty means all.
	PathGlob   string
	MaxResults int
}

// Find returns projects matching filter in List order, capped at
// filter.MaxResults (default 50), along with the total number of matches.
func (pi *ProjectIndex) Find(filter Filter) ([]project.Project, int, error) {
	pattern := strings.ReplaceAll(filter.PathGlob, "\\", "/")
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, 0, fmt.Errorf("invalid glob pattern: %s", filter.PathGlob)
	}
	maxResults := filter.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	var (
		results []project.Project
		total   int
	)
	for _, p := range pi.List() {
		if !matchesType(p.Type, filter.Types) {
			continue
		}
		if pattern != "" {
			matched, err := doublestar.Match(pattern, strings.ReplaceAll(p.Path, "\\", "/"))
			if err != nil || !matched {
				continue
			}
		}
		total++
		if len(results) < maxResults {
			results = append(results, p)
		}
	}
	return results, total, nil
}

// Clear removes all projects from the index.
func (pi *ProjectIndex) Clear() {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	pi.projects = make(map[string]project.Project)
}

func matchesType(t project.Type, types []project.Type) bool {
	if len(types) == 0 {
		return true
	}
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func sortByRecency(projects []project.Project) {
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].LastModified.Equal(projects[j].LastModified) {
			return projects[i].LastModified.After(projects[j].LastModified)
		}
		return projects[i].Path < projects[j].Path
	})
}
