package processor

import (
	"github.com/contextcruncher/crunch/internal/config"
	"github.com/contextcruncher/crunch/internal/extractor"
	"github.com/contextcruncher/crunch/internal/logger"
)

type implProcessor struct {
	cfg       *config.Config
	extractor extractor.Extractor
	logger    logger.Logger
	apiKey    string
}

// New creates a new Processor instance. Watch mode has no per-file
// caller to supply a credential, so the one resolved at startup is
// forwarded into every extraction request.
func New(cfg *config.Config, ext extractor.Extractor, apiKey string, log logger.Logger) Processor {
	return &implProcessor{
		cfg:       cfg,
		extractor: ext,
		logger:    log,
		apiKey:    apiKey,
	}
}
