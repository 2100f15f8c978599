package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/lexandro/projectindex-mcp/index"
	"github.com/lexandro/projectindex-mcp/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the projectindex_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Index      *index.ProjectIndex
	Searcher   *search.Searcher
	Roots      func() ([]string, error)
	IsIndexing func() bool
	StartTime  time.Time
	ConfigDir  string
	Logger     *slog.Logger
}

// Handle processes a projectindex_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	projectCount := h.Index.Len()
	typeCounts := h.Index.TypeCounts()
	lastIndexed := h.Index.LastIndexed()
	uptime := time.Since(h.StartTime)

	documents := 0
	if model := h.Searcher.Model(); model != nil {
		documents = model.Len()
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("projectindex_status",
		"projects", projectCount,
		"documents", documents,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	builder.WriteString("=== projectindex-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Config directory: %s\n", h.ConfigDir))
	if h.Roots != nil {
		roots, err := h.Roots()
		switch {
		case err != nil:
			builder.WriteString(fmt.Sprintf("Project directories: unavailable (%v)\n", err))
		case len(roots) == 0:
			builder.WriteString("Project directories: none configured\n")
		default:
			builder.WriteString("Project directories:\n")
			for _, root := range roots {
				builder.WriteString(fmt.Sprintf("  %s\n", root))
			}
		}
	}
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	if h.IsIndexing != nil && h.IsIndexing() {
		builder.WriteString("Indexing: in progress\n")
	}
	if lastIndexed.IsZero() {
		builder.WriteString("Last indexed: never\n")
	} else {
		builder.WriteString(fmt.Sprintf("Last indexed: %s (%s ago)\n",
			lastIndexed.Format(time.RFC3339), formatDuration(time.Since(lastIndexed))))
	}
	builder.WriteString(fmt.Sprintf("Indexed projects: %d\n", projectCount))
	builder.WriteString(fmt.Sprintf("Search documents: %d\n", documents))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	if len(typeCounts) > 0 {
		builder.WriteString("\nProject types:\n")

		type typeEntry struct {
			name  string
			count int
		}
		entries := make([]typeEntry, 0, len(typeCounts))
		for name, count := range typeCounts {
			entries = append(entries, typeEntry{name, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].name < entries[j].name
		})

		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-14s %d\n", entry.name, entry.count))
		}
	}

	return textResult(builder.String()), nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
