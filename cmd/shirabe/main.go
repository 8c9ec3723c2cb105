// Package main is the Shirabe CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/analytics"
	"github.com/hyperjump/shirabe/internal/autocomplete"
	"github.com/hyperjump/shirabe/internal/cli"
	"github.com/hyperjump/shirabe/internal/config"
	"github.com/hyperjump/shirabe/internal/index"
	"github.com/hyperjump/shirabe/internal/loader"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/ranking"
	"github.com/hyperjump/shirabe/internal/search"
	"github.com/hyperjump/shirabe/internal/server"
	"github.com/hyperjump/shirabe/internal/storage"
	"github.com/hyperjump/shirabe/internal/vector"
	"github.com/hyperjump/shirabe/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shirabe/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("shirabe version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// components bundles the wired engine parts for the server command.
type components struct {
	Store     *index.Store
	Engine    *search.Engine
	Complete  *autocomplete.Engine
	Analytics *analytics.Recorder
	EventDB   *storage.AnalyticsStore
}

func (c *components) Close() {
	if c.EventDB != nil {
		_ = c.EventDB.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*components, error) {
	gen := vector.NewGenerator(cfg.Search.VectorDimensions)

	storeOpts := []index.StoreOption{}
	recOpts := []analytics.RecorderOption{analytics.WithLogger(logger)}
	if debug {
		storeOpts = append(storeOpts, index.WithLogger(logger))
	}

	var eventDB *storage.AnalyticsStore
	if cfg.Storage.AnalyticsDBPath != "" {
		db, err := storage.NewAnalyticsStore(cfg.Storage.AnalyticsDBPath)
		if err != nil {
			return nil, fmt.Errorf("open analytics store: %w", err)
		}
		eventDB = db
		recOpts = append(recOpts, analytics.WithSink(db))
	}

	store := index.NewStore(gen, storeOpts...)
	recorder := analytics.NewRecorder(recOpts...)

	if eventDB != nil {
		events, err := eventDB.Events(context.Background(), cfg.Search.AnalyticsRestoreLimit)
		if err != nil {
			return nil, fmt.Errorf("restore analytics events: %w", err)
		}
		recorder.Restore(events)
		logger.Info("analytics events restored", zap.Int("count", len(events)))
	}

	engineOpts := []search.EngineOption{
		search.WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit),
		search.WithHistorySize(cfg.Search.HistorySize),
	}
	if debug {
		engineOpts = append(engineOpts, search.WithLogger(logger))
	}
	engine := search.NewEngine(store, ranking.NewScorer(), gen, recorder, engineOpts...)
	complete := autocomplete.NewEngine(store, engine)

	return &components{
		Store:     store,
		Engine:    engine,
		Complete:  complete,
		Analytics: recorder,
		EventDB:   eventDB,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (index mutations, query details, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	comps, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comps.Close()

	loaderOpts := []loader.LoaderOption{}
	if debugMode {
		loaderOpts = append(loaderOpts, loader.WithLogger(logger))
	}
	contentLoader := loader.NewLoader(comps.Store, loaderOpts...)
	for _, dir := range cfg.Content.Directories {
		n, loadErr := contentLoader.LoadDirectory(dir)
		if loadErr != nil {
			logger.Warn("content directory load failed", zap.String("dir", dir), zap.Error(loadErr))
			continue
		}
		logger.Info("content directory loaded", zap.String("dir", dir), zap.Int("items", n))
	}
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Content.Watch && len(cfg.Content.Directories) > 0 {
		if err := contentLoader.Watch(watchCtx, cfg.Content.Directories); err != nil {
			logger.Fatal("Failed to start content watch", zap.Error(err))
		}
	}

	srv := server.NewServer(comps.Store, comps.Engine, comps.Complete, comps.Analytics, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	contentLoader.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	limit := fs.Int("limit", 10, "number of results")
	offset := fs.Int("offset", 0, "result offset for pagination")
	fuzzy := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	semantic := fs.Bool("semantic", false, "add semantic similarity boost")
	itemTypes := fs.String("types", "", "comma-separated type filter (email,contact,document,help,feature,setting)")
	sortBy := fs.String("sort", "relevance", "sort key: relevance, date, importance, alphabetical")
	order := fs.String("order", "desc", "sort order: asc or desc")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	queryStr := buildSearchQuery(fs.Args())
	query := models.SearchQuery{
		Query:     queryStr,
		Limit:     *limit,
		Offset:    *offset,
		Fuzzy:     *fuzzy,
		Semantic:  *semantic,
		SortBy:    models.SortField(*sortBy),
		SortOrder: models.SortOrder(*order),
	}
	for _, t := range strings.Split(*itemTypes, ",") {
		if t = strings.TrimSpace(t); t != "" {
			query.Types = append(query.Types, models.ItemType(t))
		}
	}

	response, err := searchViaHTTP(*serverURL, &query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	format := cli.OutputText
	if *outputFormat == "json" {
		format = cli.OutputJSON
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(status, "", "  ")
	fmt.Println(string(out))
}

func printUsage() {
	fmt.Println(`Shirabe - embedded content search engine

Usage:
  shirabe server  [-config path] [-debug]    start the HTTP API server
  shirabe search  [flags] <query>            search via a running server
  shirabe status  [-server url]              show index and analytics counts
  shirabe version                            print version
  shirabe help                               show this help

Examples:
  shirabe server -config ./config.yaml
  shirabe search 邮件归档
  shirabe search -fuzzy -types email,help quick reply
  shirabe search -sort date -order asc billing`)
}
