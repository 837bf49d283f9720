package extractor

import (
	"time"

	"github.com/contextcruncher/crunch/internal/logger"
	"github.com/contextcruncher/crunch/internal/provider"
)

type implExtractor struct {
	factory     provider.Factory
	logger      logger.Logger
	callTimeout time.Duration
	maxAttempts int
	backoffUnit time.Duration
}

var _ Extractor = (*implExtractor)(nil)

// Option customizes an Extractor.
type Option func(*implExtractor)

// WithCallTimeout bounds each individual model call.
func WithCallTimeout(d time.Duration) Option {
	return func(e *implExtractor) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithMaxAttempts sets how often a transport-class failure is tried
// before giving up. Credential rejections are never retried.
func WithMaxAttempts(n int) Option {
	return func(e *implExtractor) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// New creates an Extractor. The factory builds one provider client
// per request from the caller's credential; the extractor itself
// never holds a credential.
func New(factory provider.Factory, log logger.Logger, opts ...Option) Extractor {
	e := &implExtractor{
		factory:     factory,
		logger:      log,
		callTimeout: 120 * time.Second,
		maxAttempts: 2,
		backoffUnit: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
