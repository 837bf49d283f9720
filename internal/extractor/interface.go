package extractor

import "context"

// Request carries one extraction job. UserName is optional; blank or
// whitespace-only means the generic third-person reference is used.
type Request struct {
	AudioPath string
	APIKey    string
	UserName  string
}

// Result is the triple front ends consume: the extracted context data
// plus the model-derived title and filesystem-safe slug.
type Result struct {
	ContextMarkdown   string
	HumanReadableName string
	FilenameSlug      string
}

// Extractor turns an audio recording into named context data via two
// model calls.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*Result, error)
}
