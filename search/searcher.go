package search

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lexandro/projectindex-mcp/lexer"
)

// DefaultCacheSize is the number of distinct queries a Searcher remembers.
const DefaultCacheSize = 256

// Searcher serves queries from the current model and caches ranked results
// per normalized query. Replace swaps in a rebuilt model.
type Searcher struct {
	mu    sync.RWMutex
	model *Model
	cache *lru.Cache[string, []Result]
}

// NewSearcher wraps model. cacheSize <= 0 selects DefaultCacheSize.
func NewSearcher(model *Model, cacheSize int) (*Searcher, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []Result](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}
	if model == nil {
		model = NewModel()
	}
	return &Searcher{model: model, cache: cache}, nil
}

// Search returns ranked results for query, at most maxResults when
// maxResults > 0.
func (s *Searcher) Search(query string, maxResults int) []Result {
	key := strings.Join(lexer.Tokenize(query), " ")
	if key == "" {
		return nil
	}

	// Held across the lookup so Replace cannot interleave a purge with a
	// stale Add.
	s.mu.RLock()
	results, ok := s.cache.Get(key)
	if !ok {
		results = s.model.Search(query)
		s.cache.Add(key, results)
	}
	s.mu.RUnlock()

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	out := make([]Result, len(results))
	copy(out, results)
	return out
}

// Model returns the model currently served.
func (s *Searcher) Model() *Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Replace swaps the served model and drops cached results.
func (s *Searcher) Replace(model *Model) {
	s.mu.Lock()
	s.model = model
	s.cache.Purge()
	s.mu.Unlock()
}
