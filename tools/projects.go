package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lexandro/projectindex-mcp/index"
	"github.com/lexandro/projectindex-mcp/project"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectsArgs defines the input parameters for the projectindex_projects tool.
type ProjectsArgs struct {
	Type       string `json:"type,omitempty" jsonschema:"Comma-separated project types to keep (e.g. Rust,React). Empty lists every type"`
	PathGlob   string `json:"pathGlob,omitempty" jsonschema:"Glob pattern matched against the project path (e.g. /home/me/work/**)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// ProjectsHandler holds the dependencies for the projects tool.
type ProjectsHandler struct {
	Index  *index.ProjectIndex
	Logger *slog.Logger
}

// Handle processes a projectindex_projects request.
func (h *ProjectsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ProjectsArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	types, err := parseTypes(args.Type)
	if err != nil {
		h.Logger.Warn("projectindex_projects bad type filter", "type", args.Type, "error", err)
		return errorResult(fmt.Sprintf("Error: %v (known types: %s)", err, knownTypes())), nil, nil
	}

	results, total, err := h.Index.Find(index.Filter{
		Types:      types,
		PathGlob:   args.PathGlob,
		MaxResults: args.MaxResults,
	})
	if err != nil {
		h.Logger.Error("projectindex_projects failed", "pathGlob", args.PathGlob, "error", err)
		return errorResult(fmt.Sprintf("Listing error: %v", err)), nil, nil
	}

	h.Logger.Info("projectindex_projects",
		"type", args.Type,
		"pathGlob", args.PathGlob,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	return textResult(FormatProjects(results, total)), nil, nil
}

func parseTypes(list string) ([]project.Type, error) {
	var types []project.Type
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, err := project.ParseType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func knownTypes() string {
	names := make([]string, 0, len(project.Types()))
	for _, t := range project.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
