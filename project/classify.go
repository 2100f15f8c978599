package project

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// IdentifierFiles are the manifest names that mark a project root, in
// priority order. The first entry present among a directory's files wins.
var IdentifierFiles = []string{
	"Cargo.toml",
	"package.json",
	"pubspec.yaml",
	"main.go",
	"main.py",
	"next.config.js",
	"svelte.config.json",
	"angular.json",
}

// nodeConfigTypes maps framework config files to the Node sub-type they imply.
var nodeConfigTypes = map[string]Type{
	"svelte.config.json":     Svelte,
	"svelte.config.js":       Svelte,
	"angular.json":           Angular,
	"metro.config.js":        ReactNative,
	"react-native.config.js": ReactNative,
	"next.config.js":         NextJs,
	"next.config.json":       NextJs,
	"vue.config.js":          Vue,
}

// nodeDependencyTypes is checked in order when no framework config file exists.
var nodeDependencyTypes = []struct {
	dependency  string
	projectType Type
}{
	{"react", React},
	{"@angular/core", Angular},
	{"svelte", Svelte},
}

// ManifestFile returns the identifier file a project of type t is
// classified from. ok is false for types no extractor produces, so an
// index entry of such a type can never be confirmed on disk.
func ManifestFile(t Type) (name string, ok bool) {
	switch t {
	case Rust:
		return "Cargo.toml", true
	case Flutter:
		return "pubspec.yaml", true
	case Python, Ruby:
		return "", false
	default:
		return "package.json", true
	}
}

// LanguageExcludes are the directories skipped when computing a language map.
var LanguageExcludes = []string{"target", "node_modules", ".git"}

// LanguagesFunc returns language name -> percentage of code lines for dir.
type LanguagesFunc func(dir string, excludes []string) (map[string]float64, error)

// RemotesFunc returns the VCS remote URLs configured for dir.
type RemotesFunc func(dir string) ([]string, error)

// Classifier decides whether a directory is a project root and extracts its
// metadata. Languages and Remotes are optional collaborators.
type Classifier struct {
	Languages LanguagesFunc
	Remotes   RemotesFunc
	Logger    *slog.Logger
}

// Identify returns the identifier file among files (full paths) that decides
// the directory's ecosystem, honouring IdentifierFiles order.
func Identify(files []string) (string, bool) {
	present := make(map[string]string, len(files))
	for _, file := range files {
		present[filepath.Base(file)] = file
	}
	for _, name := range IdentifierFiles {
		if path, ok := present[name]; ok {
			return path, true
		}
	}
	return "", false
}

// Classify inspects the direct children of dir and returns the project it
// holds. files are full paths of the regular files directly inside dir.
// Manifest problems never fail classification: the directory name stands in
// for a missing name.
func (c *Classifier) Classify(dir string, files []string, modTime time.Time) (Project, bool) {
	logger := c.logger()

	idFile, ok := Identify(files)
	if !ok {
		return Project{}, false
	}

	var (
		meta        manifest
		err         error
		projectType Type
	)
	switch filepath.Base(idFile) {
	case "Cargo.toml":
		projectType = Rust
		meta, err = readCargo(idFile)
	case "package.json":
		meta, err = readPackageJSON(idFile)
		projectType = nodeType(files, meta)
	case "pubspec.yaml":
		projectType = Flutter
		meta, err = readPubspec(idFile)
	default:
		// Recognised ecosystem without an extractor yet.
		logger.Debug("identifier without extractor", "path", dir, "identifier", filepath.Base(idFile))
		return Project{}, false
	}
	if err != nil {
		logger.Debug("manifest unreadable, using directory name", "path", dir, "error", err)
	}

	p := Project{
		Name:         meta.Name,
		Path:         dir,
		Type:         projectType,
		LastModified: modTime,
		GitRemotes:   []string{},
		LanguageMap:  map[string]float64{},
	}
	if p.Name == "" {
		p.Name = filepath.Base(dir)
	}
	if meta.Description != "" {
		desc := meta.Description
		p.Description = &desc
	}
	if doc, ok := documentationFile(files); ok {
		p.DocumentationFile = &doc
	}

	if c.Remotes != nil {
		remotes, err := c.Remotes(dir)
		if err != nil {
			logger.Debug("git remotes unavailable", "path", dir, "error", err)
		} else if remotes != nil {
			p.GitRemotes = remotes
		}
	}
	if c.Languages != nil {
		languages, err := c.Languages(dir, LanguageExcludes)
		if err != nil {
			logger.Debug("language map unavailable", "path", dir, "error", err)
		} else if languages != nil {
			p.LanguageMap = languages
		}
	}

	return p, true
}

// nodeType resolves the Node sub-type: framework config file first (by
// iteration order of files), then dependency lookup, then plain Node.
func nodeType(files []string, meta manifest) Type {
	for _, file := range files {
		if t, ok := nodeConfigTypes[filepath.Base(file)]; ok {
			return t
		}
	}
	for _, candidate := range nodeDependencyTypes {
		if meta.hasDependency(candidate.dependency) {
			return candidate.projectType
		}
	}
	return Node
}

// documentationFile returns the first README.md or DOC.md (any case) in files.
func documentationFile(files []string) (string, bool) {
	for _, file := range files {
		name := strings.ToLower(filepath.Base(file))
		if name == "readme.md" || name == "doc.md" {
			return file, true
		}
	}
	return "", false
}

func (c *Classifier) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
