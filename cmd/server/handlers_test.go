package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gnemet/DeckForge/internal/apperr"
	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/gnemet/DeckForge/internal/generation"
	"github.com/gnemet/DeckForge/internal/theme"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req generation.Request) (deck.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(deck.Result), args.Error(1)
}

func newTestHandler(t *testing.T, gen deckGenerator, store database.Store) http.Handler {
	t.Helper()
	srv, err := newServer(gen, store)
	require.NoError(t, err)
	return srv.routes([]string{"*"})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestGenerate_Success(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, generation.Request{Title: "Solar", Theme: "Dark"}).Return(deck.Result{
		ID:         "abc",
		Filename:   "presentation_20260101_120000_deadbeef.pptx",
		Theme:      theme.Dark,
		SlideCount: 4,
	}, nil)
	h := newTestHandler(t, gen, database.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/generate_ppt", strings.NewReader(`{"title":"Solar","theme":"Dark"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AI-Generated PPT Successfully!", body.Message)
	assert.Equal(t, "presentation_20260101_120000_deadbeef.pptx", body.File)
	assert.Equal(t, theme.Dark, body.Theme)
	assert.Equal(t, 4, body.Slides)
	assert.Equal(t, "/download_ppt?filename=presentation_20260101_120000_deadbeef.pptx", body.DownloadURL)
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"missing title", apperr.InvalidRequest(apperr.MsgTitleRequired), http.StatusBadRequest, "Title is required"},
		{"empty content", apperr.EmptyContent(), http.StatusInternalServerError, "No content generated"},
		{"ai failure", apperr.AIService(errors.New("timeout")), http.StatusInternalServerError, "Failed to generate AI content: timeout"},
		{"deck failure", apperr.DeckCreation(errors.New("disk full")), http.StatusInternalServerError, "Failed to create PowerPoint presentation: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(deck.Result{}, tt.err)
			h := newTestHandler(t, gen, database.NewMemoryStore())

			req := httptest.NewRequest(http.MethodPost, "/generate_ppt", strings.NewReader(`{"title":"x"}`))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec))
		})
	}
}

func TestGenerate_BadBodyIsMissingTitle(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, generation.Request{}).
		Return(deck.Result{}, apperr.InvalidRequest(apperr.MsgTitleRequired))
	h := newTestHandler(t, gen, database.NewMemoryStore())

	for _, body := range []string{"", "not json", "{}"} {
		req := httptest.NewRequest(http.MethodPost, "/generate_ppt", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Title is required", decodeError(t, rec))
	}
}

func TestGenerate_WrongMethod(t *testing.T) {
	h := newTestHandler(t, new(MockGenerator), database.NewMemoryStore())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate_ppt", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func registerFile(t *testing.T, store database.Store) *database.Deck {
	t.Helper()
	dir := t.TempDir()
	name := "presentation_20260101_120000_cafebabe.pptx"
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04deck"), 0644))

	d := &database.Deck{ID: "id-1", Filename: name, Path: path, Title: "T", Theme: "Modern", SlideCount: 2}
	require.NoError(t, store.SaveDeck(context.Background(), d))
	return d
}

func TestDownload(t *testing.T) {
	store := database.NewMemoryStore()
	d := registerFile(t, store)
	h := newTestHandler(t, new(MockGenerator), store)

	for _, target := range []string{"/download_ppt?filename=" + d.Filename, "/download_ppt?id=" + d.ID} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, pptxMediaType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), d.Filename)
		assert.Equal(t, "PK\x03\x04deck", rec.Body.String())
	}
}

func TestDownload_Errors(t *testing.T) {
	store := database.NewMemoryStore()
	d := registerFile(t, store)
	h := newTestHandler(t, new(MockGenerator), store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download_ppt", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No filename provided", decodeError(t, rec))

	for _, target := range []string{
		"/download_ppt?filename=unknown.pptx",
		"/download_ppt?filename=../../etc/passwd",
		"/download_ppt?id=nope",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.Equal(t, "Failed to download presentation", decodeError(t, rec))
	}

	require.NoError(t, os.Remove(d.Path))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download_ppt?id="+d.ID, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to download presentation", decodeError(t, rec))
}

func TestIndex(t *testing.T) {
	store := database.NewMemoryStore()
	registerFile(t, store)
	h := newTestHandler(t, new(MockGenerator), store)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Presentation title")
	assert.Contains(t, body, "Modern")
	assert.Contains(t, body, "/download_ppt?id=id-1")
	assert.Contains(t, body, "<strong>title</strong>")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "hu"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "Prezentáció címe")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestHandler(t, new(MockGenerator), database.NewMemoryStore())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deckforge_http_requests_total")
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(context.Context, generation.Request) (deck.Result, error) {
	panic("boom")
}

func TestRecoverMiddleware(t *testing.T) {
	h := newTestHandler(t, panickingGenerator{}, database.NewMemoryStore())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate_ppt", strings.NewReader(`{"title":"x"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
