package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReindexArgs defines the input parameters for the projectindex_reindex tool.
type ReindexArgs struct {
	Full bool `json:"full,omitempty" jsonschema:"Clear the index first so every project is reclassified (default false: only new or modified directories)"`
}

// ReindexSummary reports what an index pass did.
type ReindexSummary struct {
	Found     int
	Pruned    int
	Projects  int
	Documents int
	Elapsed   time.Duration
}

// ReindexFunc is the function signature for the reindex operation.
// It is provided by main.go to avoid circular dependencies.
type ReindexFunc func(full bool) (ReindexSummary, error)

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	DoReindex ReindexFunc
	Logger    *slog.Logger
}

// Handle processes a projectindex_reindex request.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("projectindex_reindex started", "full", args.Full)

	summary, err := h.DoReindex(args.Full)
	if err != nil {
		h.Logger.Error("projectindex_reindex failed", "error", err)
		return errorResult(fmt.Sprintf("Reindex error: %v", err)), nil, nil
	}

	h.Logger.Info("projectindex_reindex complete",
		"found", summary.Found,
		"pruned", summary.Pruned,
		"projects", summary.Projects,
		"elapsed", summary.Elapsed,
	)

	output := fmt.Sprintf("reindexed: %d new or changed, %d pruned, %d projects, %d search documents in %s",
		summary.Found, summary.Pruned, summary.Projects, summary.Documents,
		summary.Elapsed.Round(time.Millisecond))

	return textResult(output), nil, nil
}
