package provider

import (
	"context"
	"fmt"
)

// NewFactory returns a Factory building per-request clients for the
// given vendor. Every extraction constructs its own client from the
// caller's credential; nothing is shared or cached across requests.
func NewFactory(vendor, model string) (Factory, error) {
	switch vendor {
	case "gemini":
		return func(ctx context.Context, apiKey string) (Client, error) {
			return NewGemini(ctx, apiKey, model)
		}, nil
	case "openai":
		return func(ctx context.Context, apiKey string) (Client, error) {
			return NewOpenAI(apiKey, model), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider vendor %q", vendor)
	}
}
