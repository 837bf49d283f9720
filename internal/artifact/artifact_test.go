package artifact

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/contextcruncher/crunch/internal/extractor"
)

var testResult = &extractor.Result{
	ContextMarkdown:   "## Medical Conditions\n\n- the user has asthma",
	HumanReadableName: "Medical History",
	FilenameSlug:      "medical_history",
}

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func TestMakeMarkdown(t *testing.T) {
	got := MakeMarkdown(testResult, testNow)

	if got.Filename != "medical_history.md" {
		t.Errorf("Filename = %q, want medical_history.md", got.Filename)
	}

	want := "## Medical History\n\n## Medical Conditions\n\n- the user has asthma\n\n---\n\nCaptured on: 2026-03-14 15:09:26\n"
	if got.Content != want {
		t.Errorf("Content = %q, want %q", got.Content, want)
	}
}

func TestMakeJSON(t *testing.T) {
	got := MakeJSON(testResult, testNow)

	if got.Filename != "medical_history.json" {
		t.Errorf("Filename = %q, want medical_history.json", got.Filename)
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(got.Content), &parsed); err != nil {
		t.Fatalf("content is not valid JSON: %v", err)
	}
	if len(parsed) != 4 {
		t.Errorf("keys = %d, want exactly 4", len(parsed))
	}
	if parsed["human_readable_name"] != "Medical History" {
		t.Errorf("human_readable_name = %q", parsed["human_readable_name"])
	}
	if parsed["filename_slug"] != "medical_history" {
		t.Errorf("filename_slug = %q", parsed["filename_slug"])
	}
	if parsed["context_data"] != testResult.ContextMarkdown {
		t.Errorf("context_data = %q", parsed["context_data"])
	}

	capturedOn, err := time.Parse(time.RFC3339, parsed["captured_on"])
	if err != nil {
		t.Fatalf("captured_on %q is not RFC 3339: %v", parsed["captured_on"], err)
	}
	if !capturedOn.Equal(testNow) {
		t.Errorf("captured_on = %v, want %v", capturedOn, testNow)
	}
}

func TestMakeJSONKeyOrderAndIndent(t *testing.T) {
	got := MakeJSON(testResult, testNow)

	if !strings.HasPrefix(got.Content, "{\n  \"human_readable_name\":") {
		t.Errorf("content should open with the indented name key, got %q", got.Content[:40])
	}

	order := []string{`"human_readable_name"`, `"filename_slug"`, `"context_data"`, `"captured_on"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(got.Content, key)
		if idx < 0 {
			t.Fatalf("key %s missing from output", key)
		}
		if idx < last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}
}

func TestMakeBothShareTimestamp(t *testing.T) {
	md, js := MakeBoth(testResult, testNow)

	if !strings.Contains(md.Content, "Captured on: 2026-03-14 15:09:26") {
		t.Errorf("markdown timestamp missing: %q", md.Content)
	}
	if !strings.Contains(js.Content, `"captured_on": "2026-03-14T15:09:26Z"`) {
		t.Errorf("json timestamp missing: %q", js.Content)
	}

	stem := strings.TrimSuffix(md.Filename, ".md")
	if js.Filename != stem+".json" {
		t.Errorf("pair stems differ: %q vs %q", md.Filename, js.Filename)
	}
}

func TestFormattersAreDeterministic(t *testing.T) {
	md1 := MakeMarkdown(testResult, testNow)
	md2 := MakeMarkdown(testResult, testNow)
	if md1 != md2 {
		t.Error("MakeMarkdown is not deterministic for identical inputs")
	}

	js1 := MakeJSON(testResult, testNow)
	js2 := MakeJSON(testResult, testNow)
	if js1 != js2 {
		t.Error("MakeJSON is not deterministic for identical inputs")
	}
}
