// Package main is the BuildBot CLI entry point.
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

	"github.com/hyperjump/buildbot/internal/advisor"
	"github.com/hyperjump/buildbot/internal/audit"
	"github.com/hyperjump/buildbot/internal/catalog"
	"github.com/hyperjump/buildbot/internal/cli"
	"github.com/hyperjump/buildbot/internal/config"
	"github.com/hyperjump/buildbot/internal/llm"
	"github.com/hyperjump/buildbot/internal/models"
	"github.com/hyperjump/buildbot/internal/search"
	"github.com/hyperjump/buildbot/internal/server"
	"github.com/hyperjump/buildbot/internal/watcher"
	"github.com/hyperjump/buildbot/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/buildbot/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
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
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "build":
		runBuild()
	case "upgrade":
		runUpgrade()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("buildbot version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`BuildBot - AI PC-building assistant

Usage:
  buildbot server  [-config path] [-debug]         start the HTTP server
  buildbot build   [flags] <request>               ask for a new build ("gaming pc under $1500")
  buildbot upgrade [flags] -budget N <goals>       ask for an upgrade plan (-part category=id, repeatable)
  buildbot search  [flags] <query>                 search catalog parts
  buildbot status  [flags]                         show server status
  buildbot version                                 print version
`)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	// GEMINI_API_KEY may live in a .env next to the binary during development.
	_ = godotenv.Load()

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

	store := catalog.NewStore(cfg.Catalog.Dir, logger)
	logger.Info("catalog loaded", zap.String("dir", cfg.Catalog.Dir), zap.Int("parts", store.Snapshot().Len()))

	index, err := search.NewIndex(store.Snapshot())
	if err != nil {
		logger.Fatal("Failed to build part search index", zap.Error(err))
	}
	defer index.Close()

	var auditStore audit.Store
	if cfg.Audit.DatabasePath != "" {
		sqliteStore, err := audit.NewSQLiteStore(cfg.Audit.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to open audit store", zap.Error(err))
		}
		defer sqliteStore.Close()
		auditStore = sqliteStore
	}

	// A missing key does not stop the server: browse and search still work,
	// and advisory requests fail with a 500 per the endpoint contract.
	var gateway llm.Gateway
	if os.Getenv("GEMINI_API_KEY") == "" {
		logger.Warn("GEMINI_API_KEY not set; advisory endpoint will reject requests")
	} else {
		gemini, err := llm.NewGeminiClient(context.Background(), cfg.Model.Name)
		if err != nil {
			logger.Fatal("Failed to create model client", zap.Error(err))
		}
		gateway = llm.WithRetry(gemini, llm.RetryConfig{
			MaxAttempts: cfg.Model.MaxAttempts,
			Timeout:     cfg.Model.Timeout(),
			Delay:       cfg.Model.RetryDelay(),
		}, logger)
	}

	engine := advisor.NewEngine(store, gateway, auditStore, cfg.Model.DefaultBudget, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.WatchOrDefault() {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.New(cfg.Catalog.Dir, func() {
			snap := store.Reload()
			if err := index.Rebuild(snap); err != nil {
				logger.Warn("search index rebuild failed", zap.Error(err))
			}
		}, watchOpts...)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Warn("Failed to start catalog watcher", zap.Error(err))
		} else {
			defer watchSvc.Stop()
		}
	}

	srv := server.NewServer(engine, store, index, auditStore, cfg, logger)
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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	message := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if message == "" {
		fmt.Println("Usage: buildbot build [flags] <request>")
		os.Exit(1)
	}

	var build models.ValidatedBuild
	err := postJSON(*serverURL+"/api/v1/buildbot", models.AdvisoryRequest{
		Message:     message,
		RequestType: string(models.KindNewBuild),
	}, &build)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build request failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteBuild(os.Stdout, &build, outputFormatOf(*outputFormat))
}

// partFlags collects repeated -part category=id values.
type partFlags []string

func (p *partFlags) String() string { return strings.Join(*p, ",") }
func (p *partFlags) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func runUpgrade() {
	fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	budget := fs.Float64("budget", 0, "upgrade budget for new parts (required)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	var parts partFlags
	fs.Var(&parts, "part", "existing part as category=id (repeatable)")
	_ = fs.Parse(os.Args[2:])

	goals := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if *budget <= 0 || len(parts) == 0 {
		fmt.Println("Usage: buildbot upgrade -budget N -part cpu=cpu-1 [-part gpu=gpu-2] <goals>")
		os.Exit(1)
	}
	currentParts, err := cli.ParsePartFlags(parts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var build models.ValidatedBuild
	err = postJSON(*serverURL+"/api/v1/buildbot", models.AdvisoryRequest{
		Message:       goals,
		RequestType:   string(models.KindUpgrade),
		CurrentParts:  currentParts,
		UpgradeBudget: *budget,
	}, &build)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upgrade request failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteBuild(os.Stdout, &build, outputFormatOf(*outputFormat))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	category := fs.String("category", "", "restrict to a category (cpu, gpu, ...)")
	limit := fs.Int("limit", 10, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: buildbot search [flags] <query>")
		os.Exit(1)
	}

	var resp struct {
		Parts []models.Part `json:"parts"`
	}
	err := postJSON(*serverURL+"/api/v1/search", map[string]any{
		"query":    query,
		"category": *category,
		"limit":    *limit,
	}, &resp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteParts(os.Stdout, resp.Parts, outputFormatOf(*outputFormat))
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Bad status response: %v\n", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(status)
}

func outputFormatOf(name string) cli.OutputFormat {
	if name == "json" {
		return cli.OutputJSON
	}
	return cli.OutputText
}

// postJSON posts body to url and decodes the JSON response into out. Error
// responses are surfaced with the server's message.
func postJSON(url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var serverErr struct {
			Error string `json:"error"`
			Reply string `json:"reply"`
		}
		if json.Unmarshal(data, &serverErr) == nil {
			if serverErr.Reply != "" {
				return fmt.Errorf("%s", serverErr.Reply)
			}
			if serverErr.Error != "" {
				return fmt.Errorf("%s", serverErr.Error)
			}
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.Unmarshal(data, out)
}
