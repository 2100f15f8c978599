package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lexandro/projectindex-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadArgs defines the input parameters for the projectindex_read tool.
type ReadArgs struct {
	Path string `json:"path" jsonschema:"Project path as listed by projectindex_projects or projectindex_search"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Index  *index.ProjectIndex
	Logger *slog.Logger
}

// Handle processes a projectindex_read request: it returns the documentation
// file of an indexed project.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Path == "" {
		h.Logger.Warn("projectindex_read called with empty path")
		return errorResult("Error: path parameter is required"), nil, nil
	}

	p, ok := h.Index.Get(filepath.Clean(args.Path))
	if !ok {
		h.Logger.Info("projectindex_read project not found", "path", args.Path)
		return errorResult(fmt.Sprintf("Project not found in index: %s", args.Path)), nil, nil
	}
	if p.DocumentationFile == nil {
		return errorResult(fmt.Sprintf("Project %s has no README.md or DOC.md", p.Name)), nil, nil
	}

	content, err := os.ReadFile(*p.DocumentationFile)
	if err != nil {
		h.Logger.Warn("projectindex_read failed", "path", *p.DocumentationFile, "error", err)
		return errorResult(fmt.Sprintf("Cannot read %s: %v", *p.DocumentationFile, err)), nil, nil
	}

	h.Logger.Info("projectindex_read", "path", args.Path, "bytes", len(content), "elapsed", time.Since(start))

	return textResult(FormatFileContent(*p.DocumentationFile, string(content))), nil, nil
}
