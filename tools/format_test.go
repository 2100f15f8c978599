package tools

import (
	"strings"
	"testing"

	"github.com/lexandro/projectindex-mcp/project"
)

// --- formatFileSize ---

func Test_FormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{500, "500 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, tt := range tests {
		if got := formatFileSize(tt.bytes); got != tt.expected {
			t.Errorf("formatFileSize(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

// --- formatLanguages ---

func Test_FormatLanguages_SortedByShare(t *testing.T) {
	got := formatLanguages(map[string]float64{"TOML": 10, "Rust": 85.5, "Markdown": 10})
	want := "Rust 85.5%, Markdown 10.0%, TOML 10.0%"
	if got != want {
		t.Errorf("formatLanguages = %q, want %q", got, want)
	}
	if formatLanguages(nil) != "" {
		t.Error("expected empty string for empty map")
	}
}

// --- FormatSearchResults ---

func Test_FormatSearchResults_NoMatches(t *testing.T) {
	if got := FormatSearchResults(nil, 0); got != "No matching projects." {
		t.Errorf("expected 'No matching projects.', got '%s'", got)
	}
}

func Test_FormatSearchResults_WithMatches(t *testing.T) {
	desc := "a crawler"
	doc := "/code/lp/README.md"
	hits := []SearchHit{{
		Project: project.Project{
			Name:              "lp",
			Path:              "/code/lp",
			Type:              project.Rust,
			Description:       &desc,
			LanguageMap:       map[string]float64{"Rust": 100},
			GitRemotes:        []string{"git@example.com:me/lp.git"},
			DocumentationFile: &doc,
			LastModified:      testModified,
		},
		Score: 0.25,
	}}

	got := FormatSearchResults(hits, 1)

	checks := []string{
		"Found 1 matching projects (showing 1)",
		"1. lp (Rust) /code/lp  [score 0.2500]",
		"a crawler",
		"languages: Rust 100.0%",
		"remotes: git@example.com:me/lp.git",
		"docs: README.md",
		"modified: 2024-06-01 10:00",
	}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Errorf("expected %q in output, got:\n%s", check, got)
		}
	}
}

// --- FormatProjects ---

func Test_FormatProjects_OmitsMissingFields(t *testing.T) {
	got := FormatProjects([]project.Project{{
		Name:         "web",
		Path:         "/code/web",
		Type:         project.Svelte,
		LastModified: testModified,
	}}, 4)

	if !strings.Contains(got, "Found 4 projects (showing 1)") {
		t.Errorf("expected header, got:\n%s", got)
	}
	if !strings.Contains(got, "- web (Svelte) /code/web") {
		t.Errorf("expected headline, got:\n%s", got)
	}
	for _, absent := range []string{"languages:", "remotes:", "docs:"} {
		if strings.Contains(got, absent) {
			t.Errorf("did not expect %q, got:\n%s", absent, got)
		}
	}
}

// --- FormatFileContent ---

func Test_FormatFileContent(t *testing.T) {
	got := FormatFileContent("/code/lp/README.md", "line1\nline2\nline3\n")

	if !strings.Contains(got, "/code/lp/README.md (3 lines)") {
		t.Errorf("expected header with line count, got:\n%s", got)
	}
	if !strings.Contains(got, "1│ line1") || !strings.Contains(got, "3│ line3") {
		t.Errorf("expected numbered lines, got:\n%s", got)
	}
}
