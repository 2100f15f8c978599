package tools

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lexandro/projectindex-mcp/project"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchHit is a ranked search result joined with its indexed project.
type SearchHit struct {
	Project project.Project
	Score   float64
}

// FormatSearchResults formats ranked projects as human-readable text.
func FormatSearchResults(hits []SearchHit, totalMatches int) string {
	if len(hits) == 0 {
		return "No matching projects."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matching projects (showing %d):\n\n", totalMatches, len(hits)))
	for i, hit := range hits {
		builder.WriteString(fmt.Sprintf("%d. %s  [score %.4f]\n", i+1, projectHeadline(hit.Project), hit.Score))
		writeProjectDetails(&builder, hit.Project)
	}
	return builder.String()
}

// FormatProjects formats a project listing.
func FormatProjects(projects []project.Project, total int) string {
	if len(projects) == 0 {
		return "No projects matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d projects (showing %d):\n\n", total, len(projects)))
	for _, p := range projects {
		builder.WriteString(fmt.Sprintf("- %s\n", projectHeadline(p)))
		writeProjectDetails(&builder, p)
	}
	return builder.String()
}

// FormatFileContent formats a file's content with line numbers, similar to the built-in Read tool.
// Output format: header line with path and line count, followed by numbered lines.
func FormatFileContent(filePath string, content string) string {
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines) ──\n", filePath, lineCount))

	width := len(fmt.Sprintf("%d", lineCount))
	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}
	return builder.String()
}

func projectHeadline(p project.Project) string {
	return fmt.Sprintf("%s (%s) %s", p.Name, p.Type, p.Path)
}

func writeProjectDetails(builder *strings.Builder, p project.Project) {
	if desc := p.DescriptionText(); desc != "" {
		builder.WriteString(fmt.Sprintf("   %s\n", desc))
	}
	if langs := formatLanguages(p.LanguageMap); langs != "" {
		builder.WriteString(fmt.Sprintf("   languages: %s\n", langs))
	}
	if len(p.GitRemotes) > 0 {
		builder.WriteString(fmt.Sprintf("   remotes: %s\n", strings.Join(p.GitRemotes, ", ")))
	}
	if p.DocumentationFile != nil {
		builder.WriteString(fmt.Sprintf("   docs: %s\n", filepath.Base(*p.DocumentationFile)))
	}
	builder.WriteString(fmt.Sprintf("   modified: %s\n", p.LastModified.Format("2006-01-02 15:04")))
}

// formatLanguages renders the language map largest share first.
func formatLanguages(languages map[string]float64) string {
	if len(languages) == 0 {
		return ""
	}
	type share struct {
		name    string
		percent float64
	}
	shares := make([]share, 0, len(languages))
	for name, percent := range languages {
		shares = append(shares, share{name, percent})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].percent != shares[j].percent {
			return shares[i].percent > shares[j].percent
		}
		return shares[i].name < shares[j].name
	})

	parts := make([]string, len(shares))
	for i, s := range shares {
		parts[i] = fmt.Sprintf("%s %.1f%%", s.name, s.percent)
	}
	return strings.Join(parts, ", ")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// formatFileSize formats a byte count in a human-readable way.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024*1024:
		return fmt.Sprintf("%.1f GB", float64(bytes)/(1024*1024*1024))
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
