package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// manifest is the metadata a manifest file contributes to a project.
// Name and Description are empty when the manifest does not provide them.
type manifest struct {
	Name        string
	Description string
	// deps holds dependencies followed by devDependencies (package.json only).
	deps []map[string]any
}

type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		Description string `toml:"description"`
	} `toml:"package"`
}

type packageJSON struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Dependencies    map[string]any `json:"dependencies"`
	DevDependencies map[string]any `json:"devDependencies"`
}

type pubspec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func readCargo(path string) (manifest, error) {
	var parsed cargoManifest
	if _, err := toml.DecodeFile(path, &parsed); err != nil {
		return manifest{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return manifest{Name: parsed.Package.Name, Description: parsed.Package.Description}, nil
}

func readPackageJSON(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var parsed packageJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		return manifest{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return manifest{
		Name:        parsed.Name,
		Description: parsed.Description,
		deps:        []map[string]any{parsed.Dependencies, parsed.DevDependencies},
	}, nil
}

func readPubspec(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var parsed pubspec
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return manifest{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return manifest{Name: parsed.Name, Description: parsed.Description}, nil
}

// hasDependency reports whether name appears in dependencies or devDependencies.
func (m manifest) hasDependency(name string) bool {
	for _, deps := range m.deps {
		if _, ok := deps[name]; ok {
			return true
		}
	}
	return false
}
