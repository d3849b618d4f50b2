// Package web serves the Blockfall leaderboard as a JSON HTTP API.
package web

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/blockfall/internal/storage"
)

// Leaderboard is the storage the API reads and writes.
// *storage.Store implements it.
type Leaderboard interface {
	Submit(entry storage.ScoreEntry) (int, storage.ScoreEntry, error)
	Fetch(difficulty string, limit int) ([]storage.ScoreEntry, error)
	Get(publicID string) (storage.ScoreEntry, error)
	AllStats() ([]storage.Stats, error)
}

// NewServer wires routes and returns an http.Handler.
// A nil logger discards request logs.
func NewServer(board Leaderboard, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	h := &handlers{board: board, log: logger}
	r.Get("/healthz", h.health)
	r.Get("/stats", h.stats)
	r.Route("/scores", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.submit)
		r.Get("/{id}", h.get)
	})
	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
