package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/conorfennell/lsatprep/internal/deck"
	"github.com/conorfennell/lsatprep/internal/srs"
	"github.com/conorfennell/lsatprep/internal/study"
	"github.com/conorfennell/lsatprep/internal/sync"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

var maxImportSize int64 = 10 << 20

// deckChanged is the HTMX event fired after any change to the deck so the
// stats panel and card list refresh themselves.
const deckChanged = "deck-changed"

// SyncConfig lists the card sources behind POST /sync.
type SyncConfig struct {
	Sources []string
	Options sync.Options
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	study     *study.Study
	sync      SyncConfig
	router    *http.ServeMux
	handler   http.Handler
	templates *template.Template
}

// NewServer creates and configures a new server.
func NewServer(st *study.Study, sc SyncConfig) (*Server, error) {
	tpl, err := template.New("").Funcs(template.FuncMap{
		"due": func(t time.Time) string { return t.Local().Format("Jan 2 15:04") },
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		study:     st,
		sync:      sc,
		router:    http.NewServeMux(),
		templates: tpl,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	s.handler = Recover(LogRequests(slog.Default(), s.router))
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create sub-filesystem for static assets: %w", err)
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("GET /deck", s.handleGetDeck)

	// Review session
	s.router.HandleFunc("GET /review/next", s.handleGetReview)
	s.router.HandleFunc("POST /review/reveal", s.handleReveal)
	s.router.HandleFunc("POST /review/flip", s.handleFlip)
	s.router.HandleFunc("POST /review/rate", s.handleRate)
	s.router.HandleFunc("POST /review/restart", s.handleRestart)
	s.router.HandleFunc("POST /filter", s.handleFilter)

	// Deck management
	s.router.HandleFunc("GET /cards", s.handleGetCards)
	s.router.HandleFunc("POST /cards", s.handleAddCard)
	s.router.HandleFunc("DELETE /cards/{id}", s.handleDeleteCard)
	s.router.HandleFunc("POST /sample", s.handleSample)
	s.router.HandleFunc("GET /export", s.handleExport)
	s.router.HandleFunc("POST /import", s.handleImport)
	s.router.HandleFunc("POST /sync", s.handleSync)
	return nil
}

type deckData struct {
	Stats  deck.Stats
	Tags   []string
	Filter string
}

func (s *Server) deckData() deckData {
	return deckData{
		Stats:  s.study.Stats(),
		Tags:   s.study.Tags(),
		Filter: s.study.Filter(),
	}
}

// render executes a named template into a buffer first so a template error
// never leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Error rendering template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// handleError maps domain errors to status codes.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, srs.ErrInvalidQuality), errors.Is(err, deck.ErrInvalidCard):
		status = http.StatusBadRequest
	case errors.Is(err, deck.ErrCardNotFound):
		status = http.StatusNotFound
	case errors.Is(err, deck.ErrDuplicateID),
		errors.Is(err, study.ErrNoCurrentCard),
		errors.Is(err, study.ErrStaleCard),
		errors.Is(err, study.ErrAnswerHidden):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("request error", "error", err, "method", r.Method, "url", r.URL.String())
		http.Error(w, "Internal Server Error", status)
		return
	}
	slog.Debug("request rejected", "error", err, "status", status, "url", r.URL.String())
	http.Error(w, err.Error(), status)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", map[string]any{
		"Deck":   s.deckData(),
		"Review": s.study.Current(),
		"Cards":  s.study.Cards(),
	})
}

// handleGetDeck renders the stats panel and tag filter.
func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "deck", s.deckData())
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "review", s.study.Current())
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "review", s.study.Reveal())
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "review", s.study.Flip())
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("HX-Trigger", deckChanged)
	s.render(w, http.StatusOK, "review", s.study.Restart())
}

// handleRate applies the posted quality to the posted card id, which must be
// the card on display, and renders the next one.
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	q, err := srs.ParseQuality(r.PostFormValue("quality"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.study.Rate(r.PostFormValue("id"), q); err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", deckChanged)
	s.render(w, http.StatusOK, "review", s.study.Current())
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	v := s.study.SetFilter(r.PostFormValue("tag"))
	w.Header().Set("HX-Trigger", deckChanged)
	s.render(w, http.StatusOK, "review", v)
}

func (s *Server) handleGetCards(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "card_list", s.study.Cards())
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	_, err := s.study.Add(r.PostFormValue("front"), r.PostFormValue("back"), r.PostFormValue("tag"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", deckChanged)
	s.render(w, http.StatusCreated, "card_list", s.study.Cards())
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.study.Remove(r.PathValue("id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", deckChanged)
	s.render(w, http.StatusOK, "card_list", s.study.Cards())
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if err := s.study.LoadSample(); err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("HX-Trigger", deckChanged)
	s.render(w, http.StatusOK, "review", s.study.Current())
}

// handleExport downloads the deck as JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.study.Export(&buf); err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="flashcards.json"`)
	buf.WriteTo(w)
}

// handleImport replaces the deck with an uploaded JSON export, sent either
// as the request body or as the multipart field "file".
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		body = file
	}

	if err := s.study.Import(body); err != nil {
		slog.Warn("Import rejected", "error", err)
		http.Error(w, "Invalid deck: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("HX-Trigger", deckChanged)
	s.render(w, http.StatusOK, "card_list", s.study.Cards())
}

// handleSync pulls the configured card sources and reports the result.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	report := sync.Run(s.study, s.sync.Sources, s.sync.Options)
	if report.Added > 0 {
		w.Header().Set("HX-Trigger", deckChanged)
	}
	s.render(w, http.StatusOK, "sync_report", report)
}
