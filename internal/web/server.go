package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/lifecycle"
	"github.com/conorfennell/flashdeck/internal/study"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Loop runs commands against the study on its owning goroutine.
type Loop interface {
	Do(ctx context.Context, fn func(*study.Study) error) error
}

// CardStore is the persisted deck the editor works on.
type CardStore interface {
	Load(ctx context.Context) []domain.Card
	Save(ctx context.Context, cards []domain.Card) error
}

// HapticQueue hands over vibration sequences queued since the last call.
// It is only called on the loop goroutine.
type HapticQueue interface {
	Drain() [][]int
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	loop      Loop
	lifecycle *lifecycle.Hub
	cards     CardStore
	haptics   HapticQueue
	router    chi.Router
	templates *template.Template
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewServer creates and configures a new server. haptics may be nil.
func NewServer(lp Loop, hub *lifecycle.Hub, cards CardStore, haptics HapticQueue, logger *slog.Logger) (*Server, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		loop:      lp,
		lifecycle: hub,
		cards:     cards,
		haptics:   haptics,
		router:    chi.NewRouter(),
		templates: tpl,
		validate:  validator.New(),
		logger:    logger.With("component", "web"),
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create sub-filesystem for static assets: %w", err)
	}

	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Get("/", s.handleIndex)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Error("failed to write health check response", "error", err)
		}
	})

	// Review screen
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/cards/{index}/drag", s.handleDrag)
		r.Post("/cards/{index}/release", s.handleRelease)
		r.Post("/cards/{index}/tap", s.handleTap)
		r.Post("/answer", s.handleAnswer)
		r.Post("/restart", s.handleRestart)
		r.Post("/alert/dismiss", s.handleDismissAlert)
		r.Post("/lifecycle/{event}", s.handleLifecycle)
	})

	// Deck editor and settings forms
	r.Get("/edit", s.handleGetEditor)
	r.Post("/edit/cards", s.handleAddCard)
	r.Post("/edit/cards/{index}/delete", s.handleDeleteCard)
	r.Post("/edit/done", s.handleEditorDone)
	r.Get("/settings", s.handleGetSettings)
	r.Post("/settings", s.handlePostSettings)

	return nil
}

// handleIndex renders the review screen shell; the script fills it in from
// /api/state.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", nil)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render template", "template", name, "error", err)
	}
}
