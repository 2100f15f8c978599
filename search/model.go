// Package search holds the TF-IDF Search Model built from the Project Index
// and answers ranked queries against it.
package search

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/lexandro/projectindex-mcp/jsonfile"
	"github.com/lexandro/projectindex-mcp/lexer"
)

// ErrParse is returned by Load when the persisted model is not valid JSON.
var ErrParse = errors.New("search model parse error")

// Document is the per-path term statistics of one indexed document.
type Document struct {
	Path            string         `json:"path"`
	LastModified    time.Time      `json:"last_modified"`
	TermFrequencies map[string]int `json:"term_frequencies"`
	TotalTerms      int            `json:"total_terms"`
}

// Result is one ranked hit.
type Result struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// Model is an inverted term-statistics index. DocumentFrequency[t] always
// equals the number of documents whose TermFrequencies contain t.
type Model struct {
	mu                sync.RWMutex
	Documents         map[string]*Document `json:"documents"`
	DocumentFrequency map[string]int       `json:"document_frequency"`
	CorpusSize        int                  `json:"corpus_size"`
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Documents:         make(map[string]*Document),
		DocumentFrequency: make(map[string]int),
	}
}

// AddDocument lexes content and stores its statistics under path, replacing
// any previous document for the same path.
func (m *Model) AddDocument(path string, lastModified time.Time, content string) {
	counts, total := lexer.Frequencies(content)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(path)
	for term := range counts {
		m.DocumentFrequency[term]++
	}
	m.Documents[path] = &Document{
		Path:            path,
		LastModified:    lastModified,
		TermFrequencies: counts,
		TotalTerms:      total,
	}
	m.CorpusSize++
}

// RemoveDocument drops path and its document-frequency contributions.
func (m *Model) RemoveDocument(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(path)
}

func (m *Model) removeLocked(path string) bool {
	old, ok := m.Documents[path]
	if !ok {
		return false
	}
	for term := range old.TermFrequencies {
		m.DocumentFrequency[term]--
		if m.DocumentFrequency[term] <= 0 {
			delete(m.DocumentFrequency, term)
		}
	}
	delete(m.Documents, path)
	m.CorpusSize--
	return true
}

// Len returns the number of documents.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.CorpusSize
}

// Search ranks documents against query. A document's score is the sum over
// distinct query terms of tf(t,d) * idf(t), with tf = count/total and
// idf = ln(1 + N/df). Documents sharing no term with the query are left out.
// Ties go to the more recently modified document, then to the smaller path.
func (m *Model) Search(query string) []Result {
	terms := distinct(lexer.Tokenize(query))
	if len(terms) == 0 {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.CorpusSize == 0 {
		return nil
	}

	idf := make(map[string]float64, len(terms))
	for _, term := range terms {
		if df := m.DocumentFrequency[term]; df > 0 {
			idf[term] = math.Log(1 + float64(m.CorpusSize)/float64(df))
		}
	}
	if len(idf) == 0 {
		return nil
	}

	type scored struct {
		Result
		modified time.Time
	}
	var hits []scored
	for path, doc := range m.Documents {
		if doc.TotalTerms == 0 {
			continue
		}
		var score float64
		overlap := false
		for term, weight := range idf {
			count := doc.TermFrequencies[term]
			if count == 0 {
				continue
			}
			overlap = true
			score += float64(count) / float64(doc.TotalTerms) * weight
		}
		if overlap {
			hits = append(hits, scored{Result{Path: path, Score: score}, doc.LastModified})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if !hits[i].modified.Equal(hits[j].modified) {
			return hits[i].modified.After(hits[j].modified)
		}
		return hits[i].Path < hits[j].Path
	})

	results := make([]Result, len(hits))
	for i, hit := range hits {
		results[i] = hit.Result
	}
	return results
}

func distinct(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}

// Save writes the model to path atomically.
func (m *Model) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := jsonfile.Write(path, m); err != nil {
		return fmt.Errorf("saving search model: %w", err)
	}
	return nil
}

// Load reads a model from path. A missing file is returned as an
// fs.ErrNotExist error and malformed content as ErrParse. Document frequencies
// and the corpus size are recomputed from the stored documents.
func Load(path string) (*Model, error) {
	m := NewModel()
	if err := jsonfile.Read(path, m); err != nil {
		if errors.Is(err, jsonfile.ErrDecode) {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return nil, fmt.Errorf("loading search model: %w", err)
	}
	m.normalize()
	return m, nil
}

// LoadOrEmpty loads the model at path, falling back to an empty model when
// the file is missing or corrupt.
func LoadOrEmpty(path string, logger *slog.Logger) *Model {
	m, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("search model unreadable, starting empty", "path", path, "error", err)
		}
		return NewModel()
	}
	return m
}

// normalize restores nil maps after decoding and recomputes the derived
// counters from the stored documents.
func (m *Model) normalize() {
	if m.Documents == nil {
		m.Documents = make(map[string]*Document)
	}
	df := make(map[string]int)
	for path, doc := range m.Documents {
		if doc == nil {
			delete(m.Documents, path)
			continue
		}
		if doc.TermFrequencies == nil {
			doc.TermFrequencies = make(map[string]int)
		}
		doc.Path = path
		for term := range doc.TermFrequencies {
			df[term]++
		}
	}
	m.DocumentFrequency = df
	m.CorpusSize = len(m.Documents)
}
