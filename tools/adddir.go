package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lexandro/projectindex-mcp/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddDirArgs defines the input parameters for the projectindex_add_dir tool.
type AddDirArgs struct {
	Path string `json:"path" jsonschema:"Directory to add to the scanned roots"`
}

// AddDirFunc persists a new root directory and returns its absolute form.
type AddDirFunc func(path string) (string, error)

// AddDirHandler holds the dependencies for the add-dir tool.
type AddDirHandler struct {
	AddDir AddDirFunc
	Logger *slog.Logger
}

// Handle processes a projectindex_add_dir request.
func (h *AddDirHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args AddDirArgs) (*mcp.CallToolResult, any, error) {
	if args.Path == "" {
		h.Logger.Warn("projectindex_add_dir called with empty path")
		return errorResult("Error: path parameter is required"), nil, nil
	}

	added, err := h.AddDir(args.Path)
	if errors.Is(err, config.ErrPathExists) {
		return errorResult(fmt.Sprintf("Already configured: %s", added)), nil, nil
	}
	if err != nil {
		h.Logger.Error("projectindex_add_dir failed", "path", args.Path, "error", err)
		return errorResult(fmt.Sprintf("Cannot add directory: %v", err)), nil, nil
	}

	h.Logger.Info("projectindex_add_dir", "path", added)
	return textResult(fmt.Sprintf("added %s; run projectindex_reindex to scan it", added)), nil, nil
}
