package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/russross/blackfriday/v2"

	"github.com/gnemet/DeckForge/internal/database"
	"github.com/gnemet/DeckForge/internal/deck"
	"github.com/gnemet/DeckForge/internal/generation"
	"github.com/gnemet/DeckForge/internal/i18n"
	"github.com/gnemet/DeckForge/internal/metrics"
)

//go:embed ui/templates/*.html ui/help.md
var uiFS embed.FS

// deckGenerator is the part of the orchestrator the handlers need.
type deckGenerator interface {
	Generate(ctx context.Context, req generation.Request) (deck.Result, error)
}

type server struct {
	gen   deckGenerator
	store database.Store
	tmpl  *template.Template
	help  template.HTML
}

func newServer(gen deckGenerator, store database.Store) (*server, error) {
	tmpl, err := template.New("").
		Funcs(template.FuncMap{"t": i18n.T}).
		ParseFS(uiFS, "ui/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	md, err := uiFS.ReadFile("ui/help.md")
	if err != nil {
		return nil, err
	}
	help := bluemonday.UGCPolicy().SanitizeBytes(blackfriday.Run(md))

	return &server{
		gen:   gen,
		store: store,
		tmpl:  tmpl,
		help:  template.HTML(help),
	}, nil
}

func (s *server) routes(corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(recoverMiddleware, loggingMiddleware)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/generate_ppt", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/download_ppt", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         300,
	})
	return c.Handler(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(elapsed.Seconds())

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				log.Error().
					Interface("panic", rv).
					Bytes("stack", debug.Stack()).
					Str("path", r.URL.Path).
					Msg("handler panicked")
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
