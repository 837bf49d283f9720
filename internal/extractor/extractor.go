package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/contextcruncher/crunch/internal/provider"
)

// Extract runs the two-call orchestration: upload the audio, generate
// the context data, then name it. A fresh provider client is built
// from the request's credential and discarded when the call returns.
func (e *implExtractor) Extract(ctx context.Context, req Request) (*Result, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api key is required", ErrValidation)
	}

	audioPath := strings.TrimSpace(req.AudioPath)
	if audioPath == "" {
		return nil, fmt.Errorf("%w: audio path is required", ErrValidation)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("%w: audio file not readable: %v", ErrValidation, err)
	}

	client, err := e.factory(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("create provider client: %w", err)
	}

	e.logger.Info(ctx, "Uploading audio: %s", audioPath)

	var audio *provider.AudioRef
	err = e.withRetry(ctx, "upload audio", func(callCtx context.Context) error {
		var uploadErr error
		audio, uploadErr = client.UploadAudio(callCtx, audioPath)
		return uploadErr
	})
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	// Uploaded recordings are removed from the service as soon as the
	// run finishes, success or not.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := client.DeleteAudio(cleanupCtx, audio); err != nil {
			e.logger.Warn(ctx, "Failed to delete uploaded audio: %v", err)
		}
	}()

	e.logger.Info(ctx, "Extracting context data")

	var contextMarkdown string
	err = e.withRetry(ctx, "extraction call", func(callCtx context.Context) error {
		var genErr error
		contextMarkdown, genErr = client.Generate(callCtx, []provider.Part{
			provider.TextPart(buildExtractionPrompt(req.UserName)),
			provider.AudioPart(audio),
		})
		return genErr
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	e.logger.Info(ctx, "Naming context data")

	var namingRaw string
	err = e.withRetry(ctx, "naming call", func(callCtx context.Context) error {
		var genErr error
		namingRaw, genErr = client.Generate(callCtx, []provider.Part{
			provider.TextPart(contextMarkdown),
			provider.TextPart(buildNamingPrompt()),
		})
		return genErr
	})
	if err != nil {
		return nil, fmt.Errorf("naming call: %w", err)
	}

	name, slug := e.resolveNaming(ctx, namingRaw)

	e.logger.Info(ctx, "Context data extracted: %s (%s)", name, slug)

	return &Result{
		ContextMarkdown:   contextMarkdown,
		HumanReadableName: name,
		FilenameSlug:      slug,
	}, nil
}

// withRetry runs one model call with a bounded per-attempt timeout.
// Only transport-class failures are retried; a rejected credential
// returns immediately.
func (e *implExtractor) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * e.backoffUnit
			e.logger.Warn(ctx, "%s failed, retrying in %s (attempt %d/%d): %v", op, backoff, attempt+1, e.maxAttempts, lastErr)
			select {
			case <-ctx.Done():
				return lastErr
			case <-time.After(backoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		err := fn(callCtx)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if !errors.Is(err, provider.ErrTransport) {
			return err
		}
	}

	return lastErr
}

// resolveNaming applies the naming-fallback policy: an unusable
// naming response degrades to the fixed defaults, never to an error.
func (e *implExtractor) resolveNaming(ctx context.Context, raw string) (string, string) {
	parsed := parseNaming(raw)
	if !parsed.OK {
		e.logger.Debug(ctx, "Naming response not parseable, using default name")
		return defaultName, defaultSlug
	}

	slug := sanitizeSlug(parsed.Slug)
	if slug == "" {
		return parsed.Name, defaultSlug
	}
	return parsed.Name, slug
}
