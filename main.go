package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lexandro/projectindex-mcp/config"
	"github.com/lexandro/projectindex-mcp/crawler"
	"github.com/lexandro/projectindex-mcp/ignore"
	"github.com/lexandro/projectindex-mcp/index"
	"github.com/lexandro/projectindex-mcp/linecount"
	"github.com/lexandro/projectindex-mcp/project"
	"github.com/lexandro/projectindex-mcp/search"
	"github.com/lexandro/projectindex-mcp/server"
	"github.com/lexandro/projectindex-mcp/tools"
	"github.com/lexandro/projectindex-mcp/vcs"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// repeatedFlag is a repeatable CLI flag collecting string values.
type repeatedFlag []string

func (r *repeatedFlag) String() string { return strings.Join(*r, ", ") }
func (r *repeatedFlag) Set(value string) error {
	*r = append(*r, value)
	return nil
}

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	var configDir string
	var workers int
	var maxDepth int
	var maxResults int
	var rescanInterval int
	var logLevel string
	var logFile string
	var scanOnStart bool
	var indexOnly bool
	var query string
	var excludes repeatedFlag
	var addDirs repeatedFlag
	var removeDirs repeatedFlag

	flag.StringVar(&configDir, "config-dir", "", "Config directory (default: $LP_CONFIG_PATH, else .lp_config in the user config directory)")
	flag.IntVar(&workers, "workers", crawler.DefaultWorkers, "Number of crawl workers")
	flag.IntVar(&maxDepth, "depth", crawler.DefaultMaxDepth, "Maximum crawl depth below each root directory (0 classifies the roots only)")
	flag.Var(&excludes, "exclude", "Extra directory exclusion glob (repeatable)")
	flag.Var(&addDirs, "add-dir", "Add a project directory to the config before starting (repeatable)")
	flag.Var(&removeDirs, "remove-dir", "Remove a project directory from the config before starting (repeatable)")
	flag.IntVar(&maxResults, "max-results", 20, "Default max search results")
	flag.IntVar(&rescanInterval, "rescan-interval", 0, "Seconds between background rescans (0 disables)")
	flag.BoolVar(&scanOnStart, "scan-on-start", true, "Run an index pass when the server starts")
	flag.BoolVar(&indexOnly, "index-only", false, "Run one index pass, print a summary and exit")
	flag.StringVar(&query, "query", "", "Search the saved model, print results and exit")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: projectindex-mcp.log in the config directory)")
	flag.Parse()

	if configDir == "" {
		var err error
		configDir, err = config.Dir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving config directory: %v\n", err)
			os.Exit(1)
		}
	}
	configDir, _ = filepath.Abs(configDir)
	if err := config.EnsureDir(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		os.Exit(1)
	}

	if err := ignore.ValidatePatterns(excludes); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -exclude pattern: %v\n", err)
		os.Exit(2)
	}

	// Never log to stdout: it carries MCP stdio and CLI output.
	if logFile == "" {
		logFile = filepath.Join(configDir, "projectindex-mcp.log")
	}
	logger := setupLogger(logLevel, logFile)

	logger.Info("starting projectindex-mcp",
		"configDir", configDir,
		"workers", workers,
		"depth", maxDepth,
		"excludes", len(excludes),
	)

	startTime := time.Now()

	for _, dir := range addDirs {
		added, err := addRootDir(configDir, dir)
		switch {
		case errors.Is(err, config.ErrPathExists):
			logger.Info("project directory already configured", "path", added)
		case err != nil:
			fmt.Fprintf(os.Stderr, "Cannot add %s: %v\n", dir, err)
			os.Exit(1)
		default:
			logger.Info("project directory added", "path", added)
		}
	}

	for _, dir := range removeDirs {
		removed, err := removeRootDir(configDir, dir)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Cannot remove %s: %v\n", dir, err)
			os.Exit(1)
		case removed:
			logger.Info("project directory removed", "path", dir)
		default:
			logger.Info("project directory was not configured", "path", dir)
		}
	}

	projectIndex := index.LoadOrDefault(filepath.Join(configDir, config.IndexFileName), logger)
	model := search.LoadOrEmpty(filepath.Join(configDir, config.SearchIndexFileName), logger)
	searcher, err := search.NewSearcher(model, search.DefaultCacheSize)
	if err != nil {
		logger.Error("failed to create searcher", "error", err)
		os.Exit(1)
	}

	ix := &indexer{
		configDir: configDir,
		index:     projectIndex,
		searcher:  searcher,
		classifier: &project.Classifier{
			Languages: linecount.Count,
			Remotes:   vcs.Remotes,
			Logger:    logger,
		},
		options: crawler.Options{
			Workers:     workers,
			MaxDepth:    maxDepth,
			ExcludeDirs: append(append([]string{}, ignore.DefaultCrawlExcludes...), excludes...),
			Logger:      logger,
		},
		logger: logger,
	}

	if query != "" {
		printSearch(searcher, projectIndex, query, maxResults)
		return
	}

	if indexOnly {
		result, err := ix.runIndexPass(false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Indexing failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%d new or changed, %d pruned, %d projects indexed in %s\n",
			result.Found, result.Pruned, result.Indexed, result.Duration.Round(time.Millisecond))
		return
	}

	if scanOnStart {
		go func() {
			if _, err := ix.runIndexPass(false); err != nil {
				logger.Error("startup index pass failed", "error", err)
			}
		}()
	}

	stop := make(chan struct{})
	defer close(stop)
	if rescanInterval > 0 {
		go runPeriodicRescan(rescanInterval, ix, logger, stop)
	}

	handlers := server.Handlers{
		Search: &tools.SearchHandler{
			Searcher:          searcher,
			Index:             projectIndex,
			DefaultMaxResults: maxResults,
			Logger:            logger,
		},
		Projects: &tools.ProjectsHandler{Index: projectIndex, Logger: logger},
		Read:     &tools.ReadHandler{Index: projectIndex, Logger: logger},
		Status: &tools.StatusHandler{
			Index:    projectIndex,
			Searcher: searcher,
			Roots: func() ([]string, error) {
				cfg, err := config.Load(configDir)
				if err != nil {
					return nil, err
				}
				return cfg.ProjectDirs, nil
			},
			IsIndexing: ix.IsIndexing,
			StartTime:  startTime,
			ConfigDir:  configDir,
			Logger:     logger,
		},
		Reindex: &tools.ReindexHandler{
			Logger: logger,
			DoReindex: func(full bool) (tools.ReindexSummary, error) {
				result, err := ix.runIndexPass(full)
				if err != nil {
					return tools.ReindexSummary{}, err
				}
				return tools.ReindexSummary{
					Found:     result.Found,
					Pruned:    result.Pruned,
					Projects:  result.Indexed,
					Documents: result.Documents,
					Elapsed:   result.Duration,
				}, nil
			},
		},
		AddDir: &tools.AddDirHandler{
			Logger: logger,
			AddDir: func(path string) (string, error) {
				return addRootDir(configDir, path)
			},
		},
	}

	mcpServer := server.Setup(handlers)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// printSearch runs a one-off query against the saved model and prints the
// ranked projects to stdout.
func printSearch(searcher *search.Searcher, idx *index.ProjectIndex, query string, maxResults int) {
	results := searcher.Search(query, maxResults)
	if len(results) == 0 {
		fmt.Println("No matching projects.")
		return
	}
	for _, r := range results {
		p, ok := idx.Get(r.Path)
		if !ok {
			fmt.Printf("%.4f  %s\n", r.Score, r.Path)
			continue
		}
		fmt.Printf("%.4f  %-24s %-12s %s\n", r.Score, p.Name, p.Type, p.Path)
	}
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
