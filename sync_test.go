package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexandro/projectindex-mcp/config"
	"github.com/lexandro/projectindex-mcp/index"
	"github.com/lexandro/projectindex-mcp/project"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeCargoProject creates dir with a Cargo.toml and returns dir.
func writeCargoProject(t *testing.T, dir string, name string, description string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "[package]\nname = \"" + name + "\"\ndescription = \"" + description + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func indexedProject(path string, typ project.Type) project.Project {
	return project.Project{
		Name:         filepath.Base(path),
		Path:         path,
		Type:         typ,
		LastModified: time.Now(),
	}
}

func Test_performPrune_RemovesVanishedProjects(t *testing.T) {
	root := t.TempDir()
	kept := writeCargoProject(t, filepath.Join(root, "kept"), "kept", "")
	gone := filepath.Join(root, "gone")

	idx := index.New(filepath.Join(t.TempDir(), "index.json"))
	idx.Add(kept, indexedProject(kept, project.Rust))
	idx.Add(gone, indexedProject(gone, project.Rust))

	result := performPrune([]string{root}, idx, testLogger())

	if result.Vanished != 1 {
		t.Errorf("expected 1 vanished project, got %d", result.Vanished)
	}
	if _, ok := idx.Get(gone); ok {
		t.Error("expected vanished project to be removed")
	}
	if _, ok := idx.Get(kept); !ok {
		t.Error("expected existing project to be kept")
	}
}

func Test_performPrune_RemovesProjectsWithoutManifest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "was-node")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	idx := index.New(filepath.Join(t.TempDir(), "index.json"))
	idx.Add(dir, indexedProject(dir, project.React))

	result := performPrune([]string{root}, idx, testLogger())

	if result.Unidentified != 1 {
		t.Errorf("expected 1 unidentified project, got %d", result.Unidentified)
	}
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got %d entries", idx.Len())
	}
}

func Test_performPrune_RemovesTypesWithoutExtractor(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "script")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("print(1)\n"), 0644); err != nil {
		t.Fatal(err)
	}

	idx := index.New(filepath.Join(t.TempDir(), "index.json"))
	idx.Add(dir, indexedProject(dir, project.Python))

	result := performPrune([]string{root}, idx, testLogger())

	if result.Unidentified != 1 || idx.Len() != 0 {
		t.Errorf("expected Python entry to be pruned, got %+v with %d entries", result, idx.Len())
	}
}

func Test_performPrune_RemovesOrphans(t *testing.T) {
	root := t.TempDir()
	outside := writeCargoProject(t, filepath.Join(t.TempDir(), "elsewhere"), "elsewhere", "")
	inside := writeCargoProject(t, filepath.Join(root, "inside"), "inside", "")

	idx := index.New(filepath.Join(t.TempDir(), "index.json"))
	idx.Add(outside, indexedProject(outside, project.Rust))
	idx.Add(inside, indexedProject(inside, project.Rust))

	result := performPrune([]string{root}, idx, testLogger())
	if result.Orphaned != 1 {
		t.Errorf("expected 1 orphaned project, got %d", result.Orphaned)
	}

	// Without configured roots nothing counts as orphaned.
	idx.Add(outside, indexedProject(outside, project.Rust))
	result = performPrune(nil, idx, testLogger())
	if result.Total() != 0 {
		t.Errorf("expected nothing pruned without roots, got %+v", result)
	}
}

func Test_performPrune_InSync(t *testing.T) {
	root := t.TempDir()
	dir := writeCargoProject(t, filepath.Join(root, "p"), "p", "")
	idx := index.New(filepath.Join(t.TempDir(), "index.json"))
	idx.Add(dir, indexedProject(dir, project.Rust))

	result := performPrune([]string{root}, idx, testLogger())

	if result.Total() != 0 {
		t.Errorf("expected nothing pruned, got %+v", result)
	}
	if result.Duration == 0 {
		t.Error("expected Duration to be set")
	}
}

func Test_underAnyRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "home", "me", "code")
	tests := []struct {
		path string
		want bool
	}{
		{root, true},
		{filepath.Join(root, "a", "b"), true},
		{filepath.Join(root, "..", "codex"), false},
		{root + "x", false},
		{filepath.Join(string(filepath.Separator), "tmp"), false},
		{filepath.Join(root, "..foo"), true},
	}
	for _, tt := range tests {
		if got := underAnyRoot(tt.path, []string{root}); got != tt.want {
			t.Errorf("underAnyRoot(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func Test_runPeriodicRescan_StopsOnChannelClose(t *testing.T) {
	ix := newTestIndexer(t)
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		runPeriodicRescan(1, ix, testLogger(), stop)
		close(done)
	}()

	close(stop)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("runPeriodicRescan did not stop within 3 seconds after closing stop channel")
	}
}

func Test_runIndexPass_RelativeRootIsNotOrphaned(t *testing.T) {
	ix := newTestIndexer(t)
	base := t.TempDir()
	dir := writeCargoProject(t, filepath.Join(base, "roots", "engine"), "engine", "")
	t.Chdir(base)

	cfg, err := config.Load(ix.configDir)
	if err != nil {
		t.Fatal(err)
	}
	cfg.ProjectDirs = []string{"roots"}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	result, err := ix.runIndexPass(false)
	if err != nil {
		t.Fatalf("pass failed: %v", err)
	}
	if result.Found != 1 || result.Pruned != 0 || result.Indexed != 1 {
		t.Errorf("unexpected pass result %+v", result)
	}
	if _, ok := ix.index.Get(dir); !ok {
		t.Errorf("expected %s to stay indexed, have %v", dir, ix.index.Paths())
	}
}

func Test_absoluteRoots(t *testing.T) {
	base := t.TempDir()
	t.Chdir(base)

	got := absoluteRoots([]string{"work", base}, testLogger())

	want := []string{filepath.Join(base, "work"), base}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("absoluteRoots = %v, want %v", got, want)
	}
}
