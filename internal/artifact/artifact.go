package artifact

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/contextcruncher/crunch/internal/extractor"
)

// Artifact is one output file body. The formatter never writes files
// itself; callers decide where the pair ends up.
type Artifact struct {
	Filename string
	Content  string
}

// MakeMarkdown renders the human-facing document for an extraction
// result. Pure: identical inputs produce identical bytes.
func MakeMarkdown(res *extractor.Result, now time.Time) Artifact {
	content := fmt.Sprintf("## %s\n\n%s\n\n---\n\nCaptured on: %s\n",
		res.HumanReadableName,
		res.ContextMarkdown,
		now.Format("2006-01-02 15:04:05"),
	)

	return Artifact{
		Filename: res.FilenameSlug + ".md",
		Content:  content,
	}
}

// jsonDoc fixes the key order of the machine-facing document.
type jsonDoc struct {
	HumanReadableName string `json:"human_readable_name"`
	FilenameSlug      string `json:"filename_slug"`
	ContextData       string `json:"context_data"`
	CapturedOn        string `json:"captured_on"`
}

// MakeJSON renders the machine-facing document. CapturedOn is RFC 3339
// so other tools can parse it back.
func MakeJSON(res *extractor.Result, now time.Time) Artifact {
	doc := jsonDoc{
		HumanReadableName: res.HumanReadableName,
		FilenameSlug:      res.FilenameSlug,
		ContextData:       res.ContextMarkdown,
		CapturedOn:        now.Format(time.RFC3339),
	}

	payload, _ := json.MarshalIndent(doc, "", "  ")

	return Artifact{
		Filename: res.FilenameSlug + ".json",
		Content:  string(payload),
	}
}

// MakeBoth renders the Markdown and JSON documents off one shared
// instant so the pair never disagrees about when it was captured.
func MakeBoth(res *extractor.Result, now time.Time) (Artifact, Artifact) {
	return MakeMarkdown(res, now), MakeJSON(res, now)
}
