// Package project describes discovered software projects and classifies
// directories into them.
package project

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type is the ecosystem a project belongs to. The set is closed: every value
// is one of the constants below.
type Type int

const (
	Rust Type = iota
	Python
	Flutter
	Ruby
	NextJs
	Svelte
	React
	ReactNative
	Angular
	Node
	Vue
)

var typeNames = [...]string{
	Rust:        "Rust",
	Python:      "Python",
	Flutter:     "Flutter",
	Ruby:        "Ruby",
	NextJs:      "NextJs",
	Svelte:      "Svelte",
	React:       "React",
	ReactNative: "ReactNative",
	Angular:     "Angular",
	Node:        "Node",
	Vue:         "Vue",
}

// Types returns every project type in declaration order.
func Types() []Type {
	types := make([]Type, len(typeNames))
	for i := range typeNames {
		types[i] = Type(i)
	}
	return types
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType returns the Type with the given name.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown project type %q", name)
}

func (t Type) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(typeNames) {
		return nil, fmt.Errorf("invalid project type %d", int(t))
	}
	return []byte(typeNames[t]), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Project is one discovered software project. Path is its primary key.
type Project struct {
	Name              string             `json:"name"`
	Path              string             `json:"path"`
	Type              Type               `json:"project_type"`
	Description       *string            `json:"description"`
	LanguageMap       map[string]float64 `json:"language_map"`
	GitRemotes        []string           `json:"git_remotes"`
	DocumentationFile *string            `json:"documentation_file"`
	LastModified      time.Time          `json:"last_modified"`
}

// DescriptionText returns the description or "" when absent.
func (p Project) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// MarshalJSON keeps the collection fields non-null so readers can iterate
// them without nil checks.
func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	out := plain(p)
	if out.LanguageMap == nil {
		out.LanguageMap = map[string]float64{}
	}
	if out.GitRemotes == nil {
		out.GitRemotes = []string{}
	}
	return json.Marshal(out)
}
