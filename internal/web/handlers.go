package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/blockfall/internal/storage"
)

// MaxLimit caps the number of entries one list request returns.
const MaxLimit = 100

type handlers struct {
	board Leaderboard
	log   *log.Logger
}

// submitRequest is the body of POST /scores.
type submitRequest struct {
	Name           string `json:"name"`
	Score          int    `json:"score"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	Difficulty     string `json:"difficulty"`
	Lines          int    `json:"lines"`
	Level          int    `json:"level"`
}

// submitResponse is returned after a successful submission.
type submitResponse struct {
	Rank  int                `json:"rank"`
	Entry storage.ScoreEntry `json:"entry"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	limit := storage.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxLimit)
	}

	entries, err := h.board.Fetch(r.URL.Query().Get("difficulty"), limit)
	if err != nil {
		h.log.Error("fetch scores", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch scores")
		return
	}
	if entries == nil {
		entries = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handlers) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rank, entry, err := h.board.Submit(storage.ScoreEntry{
		Name:           req.Name,
		Score:          req.Score,
		ElapsedSeconds: req.ElapsedSeconds,
		Difficulty:     req.Difficulty,
		Lines:          req.Lines,
		Level:          req.Level,
	})
	switch {
	case errors.Is(err, storage.ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Error("submit score", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save score")
		return
	}

	h.log.Info("score submitted", "name", entry.Name, "score", entry.Score, "difficulty", entry.Difficulty, "rank", rank)
	w.Header().Set("Location", "/scores/"+entry.PublicID)
	writeJSON(w, http.StatusCreated, submitResponse{Rank: rank, Entry: entry})
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.board.Get(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "score not found")
		return
	case err != nil:
		h.log.Error("get score", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load score")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.board.AllStats()
	if err != nil {
		h.log.Error("stats", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	if stats == nil {
		stats = []storage.Stats{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
