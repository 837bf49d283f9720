// Package provider is the boundary to hosted multimodal model services.
// Backends for Gemini and OpenAI plug in behind the same narrow Client
// contract so callers never touch vendor SDKs directly.
package provider

import "context"

// AudioRef is an opaque handle for audio handed to a model service.
// Gemini fills ID/URI after an upload; OpenAI transcribes at upload
// time and carries the text instead.
type AudioRef struct {
	ID         string
	URI        string
	MIMEType   string
	Transcript string
}

// Part is one ordered input to a generation call, either text or a
// previously uploaded audio reference.
type Part struct {
	Text  string
	Audio *AudioRef
}

// TextPart wraps prompt text as a generation input.
func TextPart(text string) Part { return Part{Text: text} }

// AudioPart wraps an uploaded audio handle as a generation input.
func AudioPart(ref *AudioRef) Part { return Part{Audio: ref} }

// Client defines the operations the extraction pipeline needs from a
// model service.
type Client interface {
	// UploadAudio makes a local audio file addressable in Generate
	// calls and blocks until the service has it ready.
	UploadAudio(ctx context.Context, path string) (*AudioRef, error)

	// Generate runs one model call over the given parts and returns
	// the produced text.
	Generate(ctx context.Context, parts []Part) (string, error)

	// DeleteAudio removes a previously uploaded file from the
	// service. Callers treat failures as non-fatal.
	DeleteAudio(ctx context.Context, ref *AudioRef) error
}

// Factory builds a Client from a caller-supplied credential. A fresh
// client is constructed per extraction request; the credential is
// never cached between requests.
type Factory func(ctx context.Context, apiKey string) (Client, error)
