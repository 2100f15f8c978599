package tools

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexandro/projectindex-mcp/index"
	"github.com/lexandro/projectindex-mcp/project"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testModified = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].(*mcp.TextContent).Text
}

func newTestIndex(t *testing.T) *index.ProjectIndex {
	t.Helper()
	return index.New(filepath.Join(t.TempDir(), "index.json"))
}

func addTestProject(idx *index.ProjectIndex, path string, typ project.Type, description string, modified time.Time) project.Project {
	p := project.Project{
		Name:         filepath.Base(path),
		Path:         path,
		Type:         typ,
		LanguageMap:  map[string]float64{},
		GitRemotes:   []string{},
		LastModified: modified,
	}
	if description != "" {
		p.Description = &description
	}
	idx.Add(path, p)
	return p
}
