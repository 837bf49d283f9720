package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/contextcruncher/crunch/internal/extractor"
	"github.com/contextcruncher/crunch/internal/logger"
	"github.com/contextcruncher/crunch/internal/provider"
)

type stubExtractor struct {
	res *extractor.Result
	err error

	reqs       []extractor.Request
	spoolSeen  []string
	spoolError error
}

func (s *stubExtractor) Extract(ctx context.Context, req extractor.Request) (*extractor.Result, error) {
	s.reqs = append(s.reqs, req)
	if _, err := os.Stat(req.AudioPath); err == nil {
		s.spoolSeen = append(s.spoolSeen, req.AudioPath)
	} else {
		s.spoolError = err
	}
	if s.err != nil {
		return nil, s.err
	}
	r := *s.res
	return &r, nil
}

func newTestServer(t *testing.T, ext extractor.Extractor) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(":0", ext, logger.Discard()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// multipartBody builds an extraction form. A nil audio slice omits
// the file part entirely.
func multipartBody(t *testing.T, fields map[string]string, audio []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if audio != nil {
		part, err := mw.CreateFormFile("audio", "memo.opus")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(audio); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func postExtract(t *testing.T, srv *httptest.Server, fields map[string]string, audio []byte) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, fields, audio)
	resp, err := http.Post(srv.URL+"/api/v1/extract", contentType, body)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, raw)
	}
	return m
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestExtractEndpoint(t *testing.T) {
	stub := &stubExtractor{res: &extractor.Result{
		ContextMarkdown:   "## Notes\n\n- the user runs marathons",
		HumanReadableName: "Running Notes",
		FilenameSlug:      "running_notes",
	}}
	srv := newTestServer(t, stub)

	resp := postExtract(t, srv, map[string]string{
		"api_key":  "test-key",
		"identify": "name",
		"name":     "Alice",
	}, []byte("fake audio"))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)

	if body["human_readable_name"] != "Running Notes" {
		t.Errorf("human_readable_name = %v", body["human_readable_name"])
	}
	if body["filename_slug"] != "running_notes" {
		t.Errorf("filename_slug = %v", body["filename_slug"])
	}

	md, _ := body["markdown"].(map[string]any)
	js, _ := body["json"].(map[string]any)
	if md == nil || js == nil {
		t.Fatalf("response missing artifact bodies: %v", body)
	}
	if md["filename"] != "running_notes.md" || js["filename"] != "running_notes.json" {
		t.Errorf("artifact filenames = %v / %v", md["filename"], js["filename"])
	}

	if len(stub.reqs) != 1 {
		t.Fatalf("extract calls = %d, want 1", len(stub.reqs))
	}
	req := stub.reqs[0]
	if req.APIKey != "test-key" || req.UserName != "Alice" {
		t.Errorf("request = %+v", req)
	}
	if stub.spoolError != nil {
		t.Errorf("spooled audio not readable during extraction: %v", stub.spoolError)
	}

	// The request-scoped temp file is gone once the response is out.
	for _, p := range stub.spoolSeen {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("spooled upload %s should be cleaned up", p)
		}
	}
}

func TestExtractIdentifyDefaultsToGeneric(t *testing.T) {
	stub := &stubExtractor{res: &extractor.Result{
		ContextMarkdown:   "x",
		HumanReadableName: "X",
		FilenameSlug:      "x",
	}}
	srv := newTestServer(t, stub)

	resp := postExtract(t, srv, map[string]string{
		"api_key":  "test-key",
		"identify": "user",
		"name":     "ignored",
	}, []byte("fake audio"))
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(stub.reqs) != 1 || stub.reqs[0].UserName != "" {
		t.Errorf("generic identification should not carry a name: %+v", stub.reqs)
	}
}

func TestExtractValidation(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		audio      []byte
		wantStatus int
	}{
		{
			name:       "missing api key",
			fields:     map[string]string{},
			audio:      []byte("fake audio"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank api key",
			fields:     map[string]string{"api_key": "   "},
			audio:      []byte("fake audio"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing audio",
			fields:     map[string]string{"api_key": "k"},
			audio:      nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "name mode without name",
			fields:     map[string]string{"api_key": "k", "identify": "name", "name": "  "},
			audio:      []byte("fake audio"),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubExtractor{}
			srv := newTestServer(t, stub)

			resp := postExtract(t, srv, tt.fields, tt.audio)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			body := decodeBody(t, resp)
			if body["error"] == "" || body["error"] == nil {
				t.Error("error message missing")
			}
			if _, ok := body["markdown"]; ok {
				t.Error("failed request must not carry artifacts")
			}
			if len(stub.reqs) != 0 {
				t.Error("extractor should not run for an invalid form")
			}
		})
	}
}

func TestExtractErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("%w: audio file not readable", extractor.ErrValidation), http.StatusBadRequest},
		{"auth", fmt.Errorf("upload audio: %w", provider.ErrAuth), http.StatusUnauthorized},
		{"transport", fmt.Errorf("extraction call: %w", provider.ErrTransport), http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubExtractor{err: tt.err}
			srv := newTestServer(t, stub)

			resp := postExtract(t, srv, map[string]string{"api_key": "k"}, []byte("fake audio"))
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			body := decodeBody(t, resp)
			if _, ok := body["markdown"]; ok {
				t.Error("failed request must not carry artifacts")
			}
		})
	}
}
