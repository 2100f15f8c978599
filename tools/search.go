package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/projectindex-mcp/index"
	"github.com/lexandro/projectindex-mcp/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the projectindex_search tool.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"Free-text query matched against project names, types, descriptions and README text"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of projects to return (default 20)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Searcher          *search.Searcher
	Index             *index.ProjectIndex
	DefaultMaxResults int
	Logger            *slog.Logger
}

// Handle processes a projectindex_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("projectindex_search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = h.DefaultMaxResults
	}

	ranked := h.Searcher.Search(args.Query, 0)
	var hits []SearchHit
	for _, r := range ranked {
		// The model may briefly reference projects pruned since it was built.
		p, ok := h.Index.Get(r.Path)
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{Project: p, Score: r.Score})
	}
	total := len(hits)
	if maxResults > 0 && len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	h.Logger.Info("projectindex_search",
		"query", args.Query,
		"matches", total,
		"returned", len(hits),
		"elapsed", time.Since(start),
	)

	return textResult(FormatSearchResults(hits, total)), nil, nil
}
