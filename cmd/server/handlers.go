package main

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gnemet/DeckForge/internal/apperr"
	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/generation"
	"github.com/gnemet/DeckForge/internal/i18n"
	"github.com/gnemet/DeckForge/internal/theme"
)

const (
	successMessage = "AI-Generated PPT Successfully!"
	pptxMediaType  = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	recentLimit    = 10
	maxBodyBytes   = 1 << 16
)

type errorBody struct {
	Error string `json:"error"`
}

type generateResponse struct {
	Message     string      `json:"message"`
	File        string      `json:"file"`
	ID          string      `json:"id"`
	Theme       theme.Theme `json:"theme"`
	Slides      int         `json:"slides"`
	DownloadURL string      `json:"download_url"`
}

type indexData struct {
	Lang   string
	Langs  []string
	Themes []theme.Theme
	Recent []database.Deck
	Help   template.HTML
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusOf(err), errorBody{Error: err.Error()})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	decks, err := s.store.ListDecks(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("failed to list recent decks")
	}
	if len(decks) > recentLimit {
		decks = decks[:recentLimit]
	}

	data := indexData{
		Lang:   i18n.GetLang(r),
		Langs:  i18n.GetAvailableLangs(),
		Themes: theme.All(),
		Recent: decks,
		Help:   s.help,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Error().Err(err).Msg("failed to render index")
	}
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generation.Request
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Debug().Err(err).Msg("unreadable generate request body")
		req = generation.Request{}
	}

	res, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("kind", string(apperr.KindOf(err))).Msg("generation failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Message:     successMessage,
		File:        res.Filename,
		ID:          res.ID,
		Theme:       res.Theme,
		Slides:      res.SlideCount,
		DownloadURL: "/download_ppt?filename=" + url.QueryEscape(res.Filename),
	})
}

func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filename, id := q.Get("filename"), q.Get("id")
	if filename == "" && id == "" {
		writeError(w, apperr.InvalidRequest(apperr.MsgFilenameRequired))
		return
	}

	var (
		d   *database.Deck
		err error
	)
	if id != "" {
		d, err = s.store.GetDeck(r.Context(), id)
	} else {
		d, err = s.store.GetDeckByFilename(r.Context(), filename)
	}
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Str("id", id).Msg("download of unknown deck")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: apperr.MsgDownloadFailed})
		return
	}

	f, err := os.Open(d.Path)
	if err != nil {
		log.Error().Err(apperr.Download(err)).Str("file", d.Filename).Msg("deck unreadable")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: apperr.MsgDownloadFailed})
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Error().Err(apperr.Download(err)).Str("file", d.Filename).Msg("deck unreadable")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: apperr.MsgDownloadFailed})
		return
	}

	w.Header().Set("Content-Type", pptxMediaType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename}))
	http.ServeContent(w, r, d.Filename, info.ModTime(), f)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
