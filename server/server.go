package server

import (
	"github.com/lexandro/projectindex-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

// Handlers groups the tool handlers registered on the server.
type Handlers struct {
	Search   *tools.SearchHandler
	Projects *tools.ProjectsHandler
	Read     *tools.ReadHandler
	Status   *tools.StatusHandler
	Reindex  *tools.ReindexHandler
	AddDir   *tools.AddDirHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(h Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "projectindex-mcp",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server keeps a catalogue of the software projects found under the user's configured project directories (Rust, Node and its frameworks, Flutter) and a ranked search model over their names, types, descriptions and READMEs.

Use these tools to answer "where is my project that does X":
- projectindex_search ranks projects against free text
- projectindex_projects lists projects by type or path glob
- projectindex_read shows a project's README.md or DOC.md
- projectindex_reindex picks up new or changed projects (full=true rebuilds everything)
- projectindex_add_dir adds another directory to scan`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "projectindex_search",
		Description: `Rank indexed projects against a free-text query using TF-IDF over project name, type, description and README.

The query is lowercased and tokenized the same way as the indexed text, so "Rust CLI" matches "rust" and "cli" anywhere in a project's document. Projects with equal scores are ordered most recently modified first.`,
	}, h.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "projectindex_projects",
		Description: `List indexed projects, most recently modified first.

Filtering:
  - type: comma-separated project types (Rust, Python, Flutter, Ruby, NextJs, Svelte, React, ReactNative, Angular, Node, Vue)
  - pathGlob: glob on the project path (e.g., "/home/me/work/**")`,
	}, h.Projects.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "projectindex_read",
		Description: `Read the README.md or DOC.md of an indexed project. Returns numbered lines.`,
	}, h.Read.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "projectindex_status",
		Description: "Show index status: project directories, project counts per type, last index time, search documents, memory usage, and uptime.",
	}, h.Status.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "projectindex_reindex",
		Description: "Scan the project directories for new or modified projects, prune vanished ones, and rebuild the search model. Set full=true to clear the index first.",
	}, h.Reindex.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "projectindex_add_dir",
		Description: "Add a directory to the persisted list of project directories. Run projectindex_reindex afterwards to scan it.",
	}, h.AddDir.Handle)

	return mcpServer
}
