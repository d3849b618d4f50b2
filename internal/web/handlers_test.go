package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/storage"
)

func newTestServer(t *testing.T) (*storage.Store, http.Handler) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, NewServer(store, nil)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rr := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestSubmitAndGet(t *testing.T) {
	_, h := newTestServer(t)

	rr := do(h, http.MethodPost, "/scores",
		`{"name":"ann","score":1200,"elapsed_seconds":95,"difficulty":"normal","lines":12,"level":2}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp submitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Rank)
	assert.Equal(t, "ann", resp.Entry.Name)
	assert.NotEmpty(t, resp.Entry.PublicID)
	assert.Equal(t, "/scores/"+resp.Entry.PublicID, rr.Header().Get("Location"))

	rr = do(h, http.MethodGet, "/scores/"+resp.Entry.PublicID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var entry storage.ScoreEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	assert.Equal(t, 1200, entry.Score)
	assert.Equal(t, 95, entry.ElapsedSeconds)
	assert.Equal(t, 12, entry.Lines)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"name":`},
		{"unknown field", `{"name":"ann","difficulty":"normal","cheat":true}`},
		{"empty name", `{"name":"","difficulty":"normal","score":10}`},
		{"missing difficulty", `{"name":"ann","score":10}`},
		{"negative score", `{"name":"ann","difficulty":"normal","score":-5}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(h, http.MethodPost, "/scores", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}

func TestListScores(t *testing.T) {
	store, h := newTestServer(t)

	for _, e := range []storage.ScoreEntry{
		{Name: "ann", Score: 100, ElapsedSeconds: 50, Difficulty: "normal"},
		{Name: "bob", Score: 300, ElapsedSeconds: 80, Difficulty: "normal"},
		{Name: "cid", Score: 100, ElapsedSeconds: 20, Difficulty: "normal"},
		{Name: "dee", Score: 900, ElapsedSeconds: 10, Difficulty: "hard"},
	} {
		_, _, err := store.Submit(e)
		require.NoError(t, err)
	}

	names := func(rr *httptest.ResponseRecorder) []string {
		var entries []storage.ScoreEntry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Name)
		}
		return out
	}

	rr := do(h, http.MethodGet, "/scores?difficulty=normal", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"bob", "cid", "ann"}, names(rr))

	rr = do(h, http.MethodGet, "/scores?difficulty=normal&limit=1", "")
	assert.Equal(t, []string{"bob"}, names(rr))

	rr = do(h, http.MethodGet, "/scores", "")
	assert.Equal(t, []string{"dee", "bob", "cid", "ann"}, names(rr))

	rr = do(h, http.MethodGet, "/scores?difficulty=easy", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListRejectsBadLimit(t *testing.T) {
	_, h := newTestServer(t)
	for _, limit := range []string{"0", "-3", "ten"} {
		rr := do(h, http.MethodGet, "/scores?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, "limit=%s", limit)
	}
}

func TestGetUnknown(t *testing.T) {
	_, h := newTestServer(t)
	rr := do(h, http.MethodGet, "/scores/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStats(t *testing.T) {
	store, h := newTestServer(t)
	_, _, err := store.Submit(storage.ScoreEntry{Name: "ann", Score: 40, Difficulty: "easy", Lines: 1, Level: 1})
	require.NoError(t, err)

	rr := do(h, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats []storage.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, "easy", stats[0].Difficulty)
	assert.Equal(t, 1, stats[0].TotalGames)
}

type failingBoard struct{}

var errBroken = errors.New("disk on fire")

func (failingBoard) Submit(storage.ScoreEntry) (int, storage.ScoreEntry, error) {
	return 0, storage.ScoreEntry{}, errBroken
}
func (failingBoard) Fetch(string, int) ([]storage.ScoreEntry, error) { return nil, errBroken }
func (failingBoard) Get(string) (storage.ScoreEntry, error) { return storage.ScoreEntry{}, errBroken }
func (failingBoard) AllStats() ([]storage.Stats, error) { return nil, errBroken }

func TestStorageFailuresHideDetails(t *testing.T) {
	h := NewServer(failingBoard{}, nil)

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/scores", ""},
		{http.MethodGet, "/scores/x", ""},
		{http.MethodGet, "/stats", ""},
		{http.MethodPost, "/scores", `{"name":"ann","difficulty":"normal"}`},
	} {
		rr := do(h, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusInternalServerError, rr.Code, tc.target)
		assert.NotContains(t, rr.Body.String(), "disk on fire")
	}
}
