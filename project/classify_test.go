package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

// writeProjectDir creates dir with the given files and returns the sorted
// full paths, the way the crawler lists direct children.
func writeProjectDir(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "myproj")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return dir, paths
}

func Test_Classify_CargoProject(t *testing.T) {
	dir, files := writeProjectDir(t, map[string]string{
		"Cargo.toml": "[package]\nname = \"search_engine\"\ndescription = \"A tiny search engine\"\n",
	})
	c := &Classifier{}
	modTime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	p, ok := c.Classify(dir, files, modTime)
	if !ok {
		t.Fatal("expected Cargo.toml directory to be a project")
	}
	if p.Type != Rust {
		t.Errorf("expected Rust, got %s", p.Type)
	}
	if p.Name != "search_engine" {
		t.Errorf("expected manifest name, got %q", p.Name)
	}
	if p.DescriptionText() != "A tiny search engine" {
		t.Errorf("unexpected description %q", p.DescriptionText())
	}
	if !p.LastModified.Equal(modTime) {
		t.Errorf("expected mtime %v, got %v", modTime, p.LastModified)
	}
	if p.Path != dir {
		t.Errorf("expected path %s, got %s", dir, p.Path)
	}
}

func Test_Classify_CargoWinsOverPackageJSON(t *testing.T) {
	dir, files := writeProjectDir(t, map[string]string{
		"package.json": `{"name": "web", "dependencies": {"react": "^18"}}`,
		"Cargo.toml":   "[package]\nname = \"core\"\n",
	})
	c := &Classifier{}

	p, ok := c.Classify(dir, files, time.Now())
	if !ok {
		t.Fatal("expected project")
	}
	if p.Type != Rust {
		t.Errorf("expected Cargo.toml to take priority, got %s", p.Type)
	}
}

func Test_Classify_MalformedManifestFallsBackToDirName(t *testing.T) {
	dir, files := writeProjectDir(t, map[string]string{
		"Cargo.toml": "[package\nname = ",
	})
	c := &Classifier{}

	p, ok := c.Classify(dir, files, time.Now())
	if !ok {
		t.Fatal("expected malformed manifest to still classify")
	}
	if p.Name != "myproj" {
		t.Errorf("expected directory name fallback, got %q", p.Name)
	}
	if p.Description != nil {
		t.Errorf("expected no description, got %q", *p.Description)
	}
}

func Test_Classify_NodeSubTypes(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Type
	}{
		{"plain node", map[string]string{"package.json": `{"name": "cli"}`}, Node},
		{"react dependency", map[string]string{"package.json": `{"dependencies": {"react": "18"}}`}, React},
		{"angular dependency", map[string]string{"package.json": `{"dependencies": {"@angular/core": "17"}}`}, Angular},
		{"svelte dev dependency", map[string]string{"package.json": `{"devDependencies": {"svelte": "4"}}`}, Svelte},
		{"react before svelte", map[string]string{"package.json": `{"dependencies": {"react": "18"}, "devDependencies": {"svelte": "4"}}`}, React},
		{"svelte config beats react dependency", map[string]string{
			"package.json":       `{"dependencies": {"react": "18"}}`,
			"svelte.config.json": `{}`,
		}, Svelte},
		{"metro config", map[string]string{"package.json": `{}`, "metro.config.js": ""}, ReactNative},
		{"next config", map[string]string{"package.json": `{}`, "next.config.js": ""}, NextJs},
		{"vue config", map[string]string{"package.json": `{}`, "vue.config.js": ""}, Vue},
		{"malformed manifest keeps config detection", map[string]string{"package.json": `{`, "angular.json": "{}"}, Angular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, files := writeProjectDir(t, tt.files)
			c := &Classifier{}
			p, ok := c.Classify(dir, files, time.Now())
			if !ok {
				t.Fatal("expected project")
			}
			if p.Type != tt.want {
				t.Errorf("expected %s, got %s", tt.want, p.Type)
			}
		})
	}
}

func Test_Classify_FlutterProject(t *testing.T) {
	dir, files := writeProjectDir(t, map[string]string{
		"pubspec.yaml": "name: bpmonitor\ndescription: Blood pressure tracker\n",
	})
	c := &Classifier{}

	p, ok := c.Classify(dir, files, time.Now())
	if !ok {
		t.Fatal("expected project")
	}
	if p.Type != Flutter || p.Name != "bpmonitor" {
		t.Errorf("unexpected project: %s %q", p.Type, p.Name)
	}
}

func Test_Classify_IdentifierWithoutExtractor(t *testing.T) {
	dir, files := writeProjectDir(t, map[string]string{"main.go": "package main\n"})
	c := &Classifier{}

	if _, ok := c.Classify(dir, files, time.Now()); ok {
		t.Error("expected main.go directory to yield no project")
	}
	if id, ok := Identify(files); !ok || filepath.Base(id) != "main.go" {
		t.Errorf("expected main.go to be recognised as identifier, got %q", id)
	}
}

func Test_Classify_NoIdentifier(t *testing.T) {
	dir, files := writeProjectDir(t, map[string]string{"notes.txt": "hello"})
	c := &Classifier{}

	if _, ok := c.Classify(dir, files, time.Now()); ok {
		t.Error("expected no project")
	}
}

func Test_Classify_SecondaryAttributes(t *testing.T) {
	dir, files := writeProjectDir(t, map[string]string{
		"Cargo.toml": "[package]\nname = \"x\"\n",
		"ReadMe.MD":  "# x",
	})
	var gotExcludes []string
	c := &Classifier{
		Remotes: func(string) ([]string, error) {
			return []string{"git@github.com:me/x.git"}, nil
		},
		Languages: func(_ string, excludes []string) (map[string]float64, error) {
			gotExcludes = excludes
			return map[string]float64{"Rust": 100}, nil
		},
	}

	p, ok := c.Classify(dir, files, time.Now())
	if !ok {
		t.Fatal("expected project")
	}
	if p.DocumentationFile == nil || filepath.Base(*p.DocumentationFile) != "ReadMe.MD" {
		t.Errorf("expected case-insensitive README match, got %v", p.DocumentationFile)
	}
	if len(p.GitRemotes) != 1 || p.GitRemotes[0] != "git@github.com:me/x.git" {
		t.Errorf("unexpected remotes %v", p.GitRemotes)
	}
	if p.LanguageMap["Rust"] != 100 {
		t.Errorf("unexpected language map %v", p.LanguageMap)
	}
	if len(gotExcludes) != 3 {
		t.Errorf("expected target/node_modules/.git excludes, got %v", gotExcludes)
	}
}

func Test_Classify_CollaboratorErrorsDegrade(t *testing.T) {
	dir, files := writeProjectDir(t, map[string]string{"Cargo.toml": "[package]\nname = \"x\"\n"})
	c := &Classifier{
		Remotes:   func(string) ([]string, error) { return nil, errors.New("not a repo") },
		Languages: func(string, []string) (map[string]float64, error) { return nil, errors.New("walk failed") },
	}

	p, ok := c.Classify(dir, files, time.Now())
	if !ok {
		t.Fatal("expected project despite collaborator errors")
	}
	if len(p.GitRemotes) != 0 || len(p.LanguageMap) != 0 {
		t.Errorf("expected empty attributes, got %v %v", p.GitRemotes, p.LanguageMap)
	}
}

func Test_ManifestFile(t *testing.T) {
	tests := []struct {
		typ  Type
		name string
		ok   bool
	}{
		{Rust, "Cargo.toml", true},
		{Flutter, "pubspec.yaml", true},
		{Node, "package.json", true},
		{Svelte, "package.json", true},
		{ReactNative, "package.json", true},
		{Python, "", false},
		{Ruby, "", false},
	}
	for _, tt := range tests {
		name, ok := ManifestFile(tt.typ)
		if name != tt.name || ok != tt.ok {
			t.Errorf("ManifestFile(%s) = (%q, %v), want (%q, %v)", tt.typ, name, ok, tt.name, tt.ok)
		}
	}
}

func Test_Type_JSONRoundTrip(t *testing.T) {
	for _, typ := range Types() {
		data, err := json.Marshal(typ)
		if err != nil {
			t.Fatalf("marshal %s: %v", typ, err)
		}
		if string(data) != `"`+typ.String()+`"` {
			t.Errorf("expected name encoding, got %s", data)
		}
		var back Type
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != typ {
			t.Errorf("round trip: %s != %s", back, typ)
		}
	}

	var bad Type
	if err := json.Unmarshal([]byte(`"Cobol"`), &bad); err == nil {
		t.Error("expected unknown type name to fail")
	}
}

func Test_Project_MarshalNonNullCollections(t *testing.T) {
	data, err := json.Marshal(Project{Name: "x", Path: "/x", Type: Node})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["git_remotes"] == nil || raw["language_map"] == nil {
		t.Errorf("expected non-null collections, got %s", data)
	}
	if raw["project_type"] != "Node" {
		t.Errorf("expected project_type Node, got %v", raw["project_type"])
	}
}
