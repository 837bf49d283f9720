package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/contextcruncher/crunch/internal/extractor"
	"github.com/contextcruncher/crunch/internal/logger"
	"github.com/contextcruncher/crunch/internal/provider"
	"github.com/contextcruncher/crunch/internal/server"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "listen address")
		vendor   = flag.String("vendor", "gemini", "model backend: gemini or openai")
		model    = flag.String("model", "", "model override for the chosen vendor")
		timeout  = flag.Int("call-timeout", 120, "per-call timeout in seconds")
		attempts = flag.Int("max-attempts", 2, "attempts per model call")
		level    = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	ctx := context.Background()
	log := logger.New(*level)

	if *model == "" {
		switch *vendor {
		case "gemini":
			*model = "gemini-2.5-flash"
		case "openai":
			*model = "gpt-4o-mini"
		}
	}

	factory, err := provider.NewFactory(*vendor, *model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up provider: %v\n", err)
		os.Exit(1)
	}

	// Every request carries its own API key, so the daemon itself
	// holds no credential.
	ext := extractor.New(factory, log,
		extractor.WithCallTimeout(time.Duration(*timeout)*time.Second),
		extractor.WithMaxAttempts(*attempts),
	)

	log.Info(ctx, "========================================")
	log.Info(ctx, "Context Cruncher API")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Provider: %s (%s)", *vendor, *model)
	log.Info(ctx, "Call timeout: %ds, attempts: %d", *timeout, *attempts)
	log.Info(ctx, "========================================")

	srv := server.NewServer(*addr, ext, log)
	if err := srv.Start(); err != nil {
		log.Error(ctx, "Server error: %v", err)
		os.Exit(1)
	}
}
