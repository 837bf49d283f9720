package provider

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"
)

type implGemini struct {
	client *genai.Client
	model  string
}

var _ Client = (*implGemini)(nil)

// NewGemini creates a Client backed by the Gemini API. The credential
// lives only inside the returned client and dies with it.
func NewGemini(ctx context.Context, apiKey, model string) (Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classify(fmt.Errorf("create gemini client: %w", err))
	}

	return &implGemini{
		client: client,
		model:  model,
	}, nil
}

// UploadAudio pushes the file to the Files API and waits until it
// leaves the PROCESSING state.
func (g *implGemini) UploadAudio(ctx context.Context, path string) (*AudioRef, error) {
	file, err := g.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: audioMIMEType(path),
	})
	if err != nil {
		return nil, classify(fmt.Errorf("upload audio: %w", err))
	}

	file, err = g.waitActive(ctx, file)
	if err != nil {
		return nil, err
	}

	return &AudioRef{
		ID:       file.Name,
		URI:      file.URI,
		MIMEType: file.MIMEType,
	}, nil
}

// waitActive polls the uploaded file until the service finishes
// ingesting it. Large recordings stay in PROCESSING for a few seconds.
func (g *implGemini) waitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: waiting for audio processing: %w", ErrTransport, ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}

		f, err := g.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, classify(fmt.Errorf("poll uploaded audio: %w", err))
		}
		file = f
	}

	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("%w: service could not process the uploaded audio", ErrTransport)
	}

	return file, nil
}

func (g *implGemini) Generate(ctx context.Context, parts []Part) (string, error) {
	genParts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Audio != nil {
			genParts = append(genParts, genai.NewPartFromURI(p.Audio.URI, p.Audio.MIMEType))
			continue
		}
		genParts = append(genParts, genai.NewPartFromText(p.Text))
	}
	contents := []*genai.Content{genai.NewContentFromParts(genParts, genai.RoleUser)}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", classify(fmt.Errorf("generate content: %w", err))
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: empty response from gemini", ErrTransport)
}

// DeleteAudio removes the uploaded file from the service once the
// extraction is done. The service would expire it on its own after
// 48 hours; deleting right away keeps recordings around no longer
// than necessary.
func (g *implGemini) DeleteAudio(ctx context.Context, ref *AudioRef) error {
	if ref == nil || ref.ID == "" {
		return nil
	}
	if _, err := g.client.Files.Delete(ctx, ref.ID, nil); err != nil {
		return fmt.Errorf("delete uploaded audio: %w", err)
	}
	return nil
}

var audioMIMETypes = map[string]string{
	".mp3":  "audio/mp3",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".aiff": "audio/aiff",
	".m4a":  "audio/mp4",
}

// audioMIMEType resolves the MIME type from the file extension.
// Unknown extensions are passed through for the service to validate
// rather than rejected locally.
func audioMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := audioMIMETypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
