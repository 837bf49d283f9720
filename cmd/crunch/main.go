package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/contextcruncher/crunch/internal/artifact"
	"github.com/contextcruncher/crunch/internal/config"
	"github.com/contextcruncher/crunch/internal/export"
	"github.com/contextcruncher/crunch/internal/extractor"
	"github.com/contextcruncher/crunch/internal/logger"
	"github.com/contextcruncher/crunch/internal/processor"
	"github.com/contextcruncher/crunch/internal/provider"
	"github.com/contextcruncher/crunch/internal/watcher"
)

func main() {
	var (
		file      = flag.String("file", "", "audio file to extract context data from")
		name      = flag.String("name", "", "refer to the speaker by this name instead of \"the user\"")
		key       = flag.String("key", "", "API key (default: GEMINI_API_KEY / OPENAI_API_KEY)")
		vendor    = flag.String("vendor", "gemini", "model backend: gemini or openai")
		model     = flag.String("model", "", "model override for the chosen vendor")
		outDir    = flag.String("out", "demo-results", "output directory for one-shot results")
		docx      = flag.Bool("docx", false, "also write a .docx copy of the context data")
		watchMode = flag.Bool("watch", false, "watch a directory for new recordings")
		cfgPath   = flag.String("config", "config.yaml", "config file for watch mode")
		verbose   = flag.Bool("verbose", false, "log debug detail in one-shot mode")
	)
	flag.Parse()

	if *watchMode {
		runWatch(*cfgPath)
		return
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: crunch -file recording.opus [-name Alice] [-out dir] [-docx]")
		fmt.Fprintln(os.Stderr, "       crunch -watch [-config config.yaml]")
		fmt.Fprintln(os.Stderr, "")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := runOnce(*file, *name, *key, *vendor, *model, *outDir, *docx, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runOnce extracts context data from a single recording and writes
// the artifacts, mirroring the progress output of the watch pipeline
// without needing a config file.
func runOnce(file, name, key, vendor, model, outDir string, docx, verbose bool) error {
	ctx := context.Background()

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(level)

	if err := godotenv.Load(); err != nil {
		log.Debug(ctx, "No .env file found, falling back to environment variables")
	}

	if model == "" {
		switch vendor {
		case "gemini":
			model = "gemini-2.5-flash"
		case "openai":
			model = "gpt-4o-mini"
		}
	}

	apiKey := strings.TrimSpace(key)
	if apiKey == "" {
		lookup := &config.Config{Provider: config.ProviderConfig{Vendor: vendor}}
		apiKey = lookup.ResolveAPIKey()
	}
	if apiKey == "" {
		return fmt.Errorf("no API key found: pass -key or set GEMINI_API_KEY / OPENAI_API_KEY in .env")
	}

	factory, err := provider.NewFactory(vendor, model)
	if err != nil {
		return err
	}
	ext := extractor.New(factory, log)

	fmt.Printf("Processing %s...\n", file)

	res, err := ext.Extract(ctx, extractor.Request{
		AudioPath: file,
		APIKey:    apiKey,
		UserName:  name,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Extracted context: %s\n", res.HumanReadableName)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	md, js := artifact.MakeBoth(res, time.Now())
	for _, a := range []artifact.Artifact{md, js} {
		path := filepath.Join(outDir, a.Filename)
		if err := os.WriteFile(path, []byte(a.Content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", a.Filename, err)
		}
		fmt.Printf("Saved: %s\n", path)
	}

	if docx {
		path := filepath.Join(outDir, res.FilenameSlug+".docx")
		if err := export.WriteDocx(res.HumanReadableName, res.ContextMarkdown, path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("Saved: %s\n", path)
	}

	fmt.Println("\nContext data generated successfully!")
	return nil
}

// runWatch monitors the configured input directory and extracts
// context data from every new recording until interrupted.
func runWatch(cfgPath string) {
	ctx := context.Background()

	// A .env file is optional here; keys can also come from the
	// config file or the real environment.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Context Cruncher")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Provider: %s (%s)", cfg.Provider.Vendor, cfg.Provider.Model)
	log.Info(ctx, "Max Concurrent Extractions: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded successfully")

	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		log.Error(ctx, "No API key configured: set GEMINI_API_KEY / OPENAI_API_KEY or provider.api_key")
		os.Exit(1)
	}

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	factory, err := provider.NewFactory(cfg.Provider.Vendor, cfg.Provider.Model)
	if err != nil {
		log.Error(ctx, "Failed to set up provider: %v", err)
		os.Exit(1)
	}
	ext := extractor.New(factory, log,
		extractor.WithCallTimeout(time.Duration(cfg.Limits.CallTimeoutSeconds)*time.Second),
		extractor.WithMaxAttempts(cfg.Limits.MaxAttempts),
	)
	proc := processor.New(cfg, ext, apiKey, log)

	w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Context Cruncher is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "")
	log.Info(ctx, "Limits:")
	log.Info(ctx, "  - Call timeout: %ds", cfg.Limits.CallTimeoutSeconds)
	log.Info(ctx, "  - Attempts per call: %d", cfg.Limits.MaxAttempts)
	log.Info(ctx, "  - Concurrent: %d recordings at once", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "Context Cruncher stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
