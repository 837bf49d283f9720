package provider

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type implOpenAI struct {
	client *openai.Client
	model  string
}

var _ Client = (*implOpenAI)(nil)

// OpenAIOption customizes the OpenAI-backed client.
type OpenAIOption func(*openaiOptions)

type openaiOptions struct {
	baseURL string
}

// WithBaseURL overrides the API endpoint. Primarily used in tests.
func WithBaseURL(u string) OpenAIOption {
	return func(o *openaiOptions) { o.baseURL = u }
}

// NewOpenAI creates a Client backed by the OpenAI API. Audio is
// transcribed with Whisper at upload time, so Generate calls see the
// recording as text.
func NewOpenAI(apiKey, model string, opts ...OpenAIOption) Client {
	var o openaiOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}

	return &implOpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *implOpenAI) UploadAudio(ctx context.Context, path string) (*AudioRef, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
	})
	if err != nil {
		return nil, classify(fmt.Errorf("transcribe audio: %w", err))
	}

	return &AudioRef{
		MIMEType:   audioMIMEType(path),
		Transcript: resp.Text,
	}, nil
}

func (o *implOpenAI) Generate(ctx context.Context, parts []Part) (string, error) {
	var b strings.Builder
	for _, p := range parts {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if p.Audio != nil {
			b.WriteString(p.Audio.Transcript)
			continue
		}
		b.WriteString(p.Text)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
	})
	if err != nil {
		return "", classify(fmt.Errorf("chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response from openai", ErrTransport)
	}
	return resp.Choices[0].Message.Content, nil
}

// DeleteAudio is a no-op: nothing is stored on the service after a
// transcription call returns.
func (o *implOpenAI) DeleteAudio(ctx context.Context, ref *AudioRef) error {
	return nil
}
