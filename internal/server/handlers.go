package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contextcruncher/crunch/internal/artifact"
	"github.com/contextcruncher/crunch/internal/extractor"
	"github.com/contextcruncher/crunch/internal/provider"
)

// maxUploadBytes bounds how much multipart form we buffer per request.
const maxUploadBytes = 64 << 20

type artifactBody struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type extractResponse struct {
	HumanReadableName string       `json:"human_readable_name"`
	FilenameSlug      string       `json:"filename_slug"`
	Markdown          artifactBody `json:"markdown"`
	JSON              artifactBody `json:"json"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// extract handles one multipart extraction request. Form fields:
// audio (file), api_key, identify ("user" or "name", default "user"),
// name (required when identify is "name").
func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "request is not a valid multipart form")
		return
	}

	apiKey := strings.TrimSpace(r.FormValue("api_key"))
	if apiKey == "" {
		writeError(w, http.StatusBadRequest, "Please provide an API key")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please upload an audio file")
		return
	}
	defer file.Close()

	var userName string
	if r.FormValue("identify") == "name" {
		userName = strings.TrimSpace(r.FormValue("name"))
		if userName == "" {
			writeError(w, http.StatusBadRequest, "Please provide your name when using name identification")
			return
		}
	}

	audioPath, cleanup, err := s.spoolUpload(file, header.Filename)
	if err != nil {
		s.logger.Error(ctx, "Failed to spool upload: %v", err)
		writeError(w, http.StatusInternalServerError, "could not store the uploaded audio")
		return
	}
	defer cleanup()

	res, err := s.extractor.Extract(ctx, extractor.Request{
		AudioPath: audioPath,
		APIKey:    apiKey,
		UserName:  userName,
	})
	if err != nil {
		s.writeExtractError(ctx, w, err)
		return
	}

	md, js := artifact.MakeBoth(res, time.Now())

	writeJSON(w, http.StatusOK, extractResponse{
		HumanReadableName: res.HumanReadableName,
		FilenameSlug:      res.FilenameSlug,
		Markdown:          artifactBody{Filename: md.Filename, Content: md.Content},
		JSON:              artifactBody{Filename: js.Filename, Content: js.Content},
	})
}

// spoolUpload writes the uploaded audio into a request-scoped temp
// dir, keeping the original extension so the provider can derive the
// MIME type. The returned cleanup removes the whole dir.
func (s *Server) spoolUpload(file io.Reader, originalName string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "crunch-upload-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	path := filepath.Join(dir, uuid.New().String()+filepath.Ext(originalName))

	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}

	return path, cleanup, nil
}

// writeExtractError maps the error taxonomy onto HTTP statuses. A
// failed extraction never carries artifacts.
func (s *Server) writeExtractError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, extractor.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, provider.ErrAuth):
		writeError(w, http.StatusUnauthorized, "the model service rejected the API key")
	case errors.Is(err, provider.ErrTransport):
		writeError(w, http.StatusBadGateway, "the model service is unavailable, try again later")
	default:
		s.logger.Error(ctx, "Extraction failed: %v", err)
		writeError(w, http.StatusInternalServerError, "extraction failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
