// Package language maps source files to languages and knows enough about
// each language's comment syntax to tell code lines from comment lines.
package language

import (
	"path/filepath"
	"strings"
)

// Unknown is returned for files no definition claims.
const Unknown = "Unknown"

// Definition describes one language the line counter recognises.
type Definition struct {
	Name       string
	Extensions []string
	// Filenames are matched case-insensitively against the base name, for
	// files without a telling extension.
	Filenames []string
	// LineComments are prefixes that turn a whole line into a comment.
	LineComments []string
}

var (
	slashes = []string{"//"}
	hash    = []string{"#"}
	dashes  = []string{"--"}
)

// Definitions lists every recognised language.
var Definitions = []Definition{
	{Name: "Go", Extensions: []string{"go"}, LineComments: slashes},
	{Name: "Rust", Extensions: []string{"rs"}, LineComments: slashes},
	{Name: "JavaScript", Extensions: []string{"js", "jsx", "mjs", "cjs"}, LineComments: slashes},
	{Name: "TypeScript", Extensions: []string{"ts", "tsx", "mts", "cts"}, LineComments: slashes},
	{Name: "Python", Extensions: []string{"py", "pyi", "pyw"}, LineComments: hash},
	{Name: "Dart", Extensions: []string{"dart"}, LineComments: slashes},
	{Name: "Java", Extensions: []string{"java"}, LineComments: slashes},
	{Name: "Kotlin", Extensions: []string{"kt", "kts"}, LineComments: slashes},
	{Name: "Swift", Extensions: []string{"swift"}, LineComments: slashes},
	{Name: "C", Extensions: []string{"c", "h"}, LineComments: slashes},
	{Name: "C++", Extensions: []string{"cpp", "cc", "cxx", "hpp", "hxx"}, LineComments: slashes},
	{Name: "C#", Extensions: []string{"cs", "csx"}, LineComments: slashes},
	{Name: "Ruby", Extensions: []string{"rb", "erb"}, Filenames: []string{"gemfile", "rakefile"}, LineComments: hash},
	{Name: "PHP", Extensions: []string{"php"}, LineComments: []string{"//", "#"}},
	{Name: "Shell", Extensions: []string{"sh", "bash", "zsh", "fish"}, LineComments: hash},
	{Name: "PowerShell", Extensions: []string{"ps1", "psm1", "psd1"}, LineComments: hash},
	{Name: "HTML", Extensions: []string{"html", "htm"}},
	{Name: "CSS", Extensions: []string{"css"}},
	{Name: "SCSS", Extensions: []string{"scss"}, LineComments: slashes},
	{Name: "Sass", Extensions: []string{"sass"}, LineComments: slashes},
	{Name: "Less", Extensions: []string{"less"}, LineComments: slashes},
	{Name: "Vue", Extensions: []string{"vue"}},
	{Name: "Svelte", Extensions: []string{"svelte"}},
	{Name: "JSON", Extensions: []string{"json", "jsonc"}},
	{Name: "YAML", Extensions: []string{"yaml", "yml"}, LineComments: hash},
	{Name: "TOML", Extensions: []string{"toml"}, LineComments: hash},
	{Name: "XML", Extensions: []string{"xml", "xsl", "xslt"}},
	{Name: "Markdown", Extensions: []string{"md", "mdx"}},
	{Name: "SQL", Extensions: []string{"sql"}, LineComments: dashes},
	{Name: "GraphQL", Extensions: []string{"graphql", "gql"}, LineComments: hash},
	{Name: "Protobuf", Extensions: []string{"proto"}, LineComments: slashes},
	{Name: "Lua", Extensions: []string{"lua"}, LineComments: dashes},
	{Name: "Haskell", Extensions: []string{"hs"}, LineComments: dashes},
	{Name: "Elixir", Extensions: []string{"ex", "exs"}, LineComments: hash},
	{Name: "Erlang", Extensions: []string{"erl", "hrl"}, LineComments: []string{"%"}},
	{Name: "Scala", Extensions: []string{"scala"}, LineComments: slashes},
	{Name: "Zig", Extensions: []string{"zig"}, LineComments: slashes},
	{Name: "Terraform", Extensions: []string{"tf", "tfvars"}, LineComments: []string{"#", "//"}},
	{Name: "Makefile", Extensions: []string{"mk"}, Filenames: []string{"makefile", "gnumakefile"}, LineComments: hash},
	{Name: "Dockerfile", Extensions: []string{"dockerfile"}, Filenames: []string{"dockerfile"}, LineComments: hash},
	{Name: "CMake", Extensions: []string{"cmake"}, Filenames: []string{"cmakelists.txt"}, LineComments: hash},
	{Name: "Gradle", Extensions: []string{"gradle"}, LineComments: slashes},
	{Name: "Batch", Extensions: []string{"bat", "cmd"}, LineComments: []string{"rem ", "::"}},
}

var (
	byExtension = make(map[string]*Definition)
	byFilename  = make(map[string]*Definition)
)

func init() {
	for i := range Definitions {
		def := &Definitions[i]
		for _, ext := range def.Extensions {
			byExtension[ext] = def
		}
		for _, name := range def.Filenames {
			byFilename[name] = def
		}
	}
}

// Lookup returns the definition for filePath. Well-known filenames win over
// extensions, so CMakeLists.txt is CMake rather than unrecognised text.
func Lookup(filePath string) (*Definition, bool) {
	base := strings.ToLower(filepath.Base(filePath))
	if def, ok := byFilename[base]; ok {
		return def, true
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" {
		return nil, false
	}
	def, ok := byExtension[ext]
	return def, ok
}

// DetectLanguage returns the language name for filePath, or Unknown.
func DetectLanguage(filePath string) string {
	if def, ok := Lookup(filePath); ok {
		return def.Name
	}
	return Unknown
}

// IsCommentLine reports whether the trimmed line is a whole-line comment.
func (d *Definition) IsCommentLine(trimmed string) bool {
	for _, prefix := range d.LineComments {
		if strings.HasPrefix(strings.ToLower(trimmed), prefix) {
			return true
		}
	}
	return false
}
