package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/contextcruncher/crunch/internal/extractor"
	"github.com/contextcruncher/crunch/internal/logger"
)

type Server struct {
	router    *chi.Mux
	addr      string
	extractor extractor.Extractor
	logger    logger.Logger
}

// NewServer wires the HTTP front end over an Extractor. The server
// holds no credential of its own; every request forwards the key its
// caller supplied.
func NewServer(addr string, ext extractor.Extractor, log logger.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		addr:      addr,
		extractor: ext,
		logger:    log,
	}

	router.Get("/health", s.health)
	router.Post("/api/v1/extract", s.extract)

	return s
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "API server starting on %s", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

// Handler exposes the router. Primarily used in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
