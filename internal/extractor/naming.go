package extractor

import (
	"encoding/json"
	"strings"
)

// Defaults substituted when the naming response is unusable.
const (
	defaultName = "Context Data"
	defaultSlug = "context_data"
)

// namingResult is the outcome of parsing the naming call's output.
// OK is false when the response was not usable; callers then fall
// back to the fixed defaults as a whole, never a partial merge.
type namingResult struct {
	Name string
	Slug string
	OK   bool
}

// parseNaming extracts the title and slug from the model's naming
// response. The response is expected to be a bare JSON object but may
// arrive wrapped in a fenced code block; exactly one wrapper pair is
// stripped, not arbitrary nesting.
func parseNaming(raw string) namingResult {
	text := stripCodeFence(raw)

	var parsed struct {
		Name string `json:"human_readable_name"`
		Slug string `json:"filename_slug"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return namingResult{}
	}

	name := strings.TrimSpace(parsed.Name)
	slug := strings.TrimSpace(parsed.Slug)
	if name == "" || slug == "" {
		return namingResult{}
	}

	return namingResult{Name: name, Slug: slug, OK: true}
}

// stripCodeFence removes one leading and one trailing fence delimiter
// line when the text arrives as a fenced code block.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}

	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// sanitizeSlug reduces a model-proposed slug to lowercase letters,
// digits and underscores so it is always safe as a filename stem.
// Path separators and other punctuation are dropped outright.
func sanitizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '-', r == ' ', r == '\t':
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}
