package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

var (
	// ErrAuth marks a credential the model service rejected.
	ErrAuth = errors.New("provider: credential rejected")

	// ErrTransport marks the model service being unreachable, rate
	// limited, or failing upstream. Safe to retry.
	ErrTransport = errors.New("provider: model service unavailable")
)

// classify maps vendor SDK errors onto the two sentinel classes.
// Anything that is not a credential rejection counts as transport.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrAuth) || errors.Is(err, ErrTransport) {
		return err
	}

	var gemErr genai.APIError
	if errors.As(err, &gemErr) {
		return classifyStatus(gemErr.Code, err)
	}

	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return classifyStatus(oaErr.HTTPStatusCode, err)
	}

	if isAuthMessage(err.Error()) {
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func classifyStatus(code int, err error) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuth, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
}

// isAuthMessage catches credential rejections that arrive without a
// typed SDK error, matching the phrases the services actually emit.
func isAuthMessage(msg string) bool {
	for _, marker := range []string{
		"API key not valid",
		"API_KEY_INVALID",
		"UNAUTHENTICATED",
		"PERMISSION_DENIED",
		"Incorrect API key",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
