package ignore

// DefaultCrawlExcludes are the directory names the crawler never descends
// into. Entries are doublestar patterns matched against the base name.
var DefaultCrawlExcludes = []string{
	".git",
	"node_modules",
	"target",
	".vscode",
	"src",
	"venv",
}

// DefaultFilePatterns are files that never contribute code lines even when
// their extension is recognised: lock files, minified bundles, generated maps.
var DefaultFilePatterns = []string{
	// Lock files
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"pubspec.lock",
	"Gemfile.lock",
	"poetry.lock",
	"Cargo.lock",
	"go.sum",
	"composer.lock",

	// Minified / generated
	"*.min.js",
	"*.min.css",
	"*.map",
	"*.g.dart",
	"*.freezed.dart",
}
