// Package server exposes point maps over HTTP.
//
// Rendered artifacts are served from the shared pipeline runner, so they hit
// the same cache as the CLI. Live maps are created with POST /maps; each one
// owns an interaction controller that is driven by POST /maps/{id}/events.
//
// Routes:
//
//	GET    /healthz
//	GET    /map.{format}        svg, html, json, dot, png, pdf
//	POST   /maps                create a live map
//	GET    /maps/{id}           tooltip state
//	POST   /maps/{id}/events    apply one pointer or keyboard event
//	DELETE /maps/{id}
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pointmap/pkg/cache"
	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/pipeline"
	"github.com/matzehuels/pointmap/pkg/render"
	"github.com/matzehuels/pointmap/pkg/render/sink"
	"github.com/matzehuels/pointmap/pkg/session"
)

const (
	// CleanupInterval is how often expired maps are swept.
	CleanupInterval = time.Minute

	shutdownTimeout = 10 * time.Second
)

// Config holds the dependencies of a Server. Zero fields get defaults.
type Config struct {
	Addr       string
	Dataset    *dataset.Dataset // default dataset.Builtin()
	Runner     *pipeline.Runner // default runner without cache
	Sessions   session.Store    // default in-memory store
	SessionTTL time.Duration    // default session.DefaultTTL
	Logger     *log.Logger
}

// Server is the pointmap HTTP server.
type Server struct {
	cfg     Config
	router  chi.Router
	viewBox layout.Rect
}

// New validates cfg, fills defaults and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Dataset == nil {
		cfg.Dataset = dataset.Builtin()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(cache.NewNullCache(), nil, cfg.Logger)
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}

	// Live maps project keyboard positions through the same viewBox the
	// served SVG uses.
	svg := sink.NewSVG()
	if _, err := render.Build(layout.NewEngine(cfg.Dataset), svg); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, viewBox: svg.ViewBox()}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.observe)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(serverHeader)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/map.html", http.StatusFound)
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/map.{format}", s.handleArtifact)

	r.Route("/maps", func(r chi.Router) {
		r.Post("/", s.handleCreateMap)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetMap)
			r.Delete("/", s.handleDeleteMap)
			r.Post("/events", s.handleEvent)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully. Expired
// maps are swept every CleanupInterval while the server runs.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.cfg.Sessions.Cleanup(ctx); err != nil && ctx.Err() == nil {
				s.cfg.Logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
