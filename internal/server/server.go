// Package server exposes the cycle checks over HTTP.
//
// Routes:
//
//	POST /v1/detect                     detect a cycle
//	POST /v1/traces                     record and save a trace
//	GET  /v1/traces/{id}                fetch a saved trace
//	GET  /v1/traces/{id}/steps/{index}  fetch one step of a saved trace
//	POST /v1/eliminate                  remove back-edges
//	POST /v1/render                     export DOT or SVG
//	GET  /healthz                       liveness
//	GET  /metrics                       Prometheus metrics
//
// Errors are returned as {"error": "...", "code": "..."} with a status code
// derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/outsider987/Patlytics-hotfix/pkg/buildinfo"
	"github.com/outsider987/Patlytics-hotfix/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// context passed to Run is cancelled.
const shutdownTimeout = 5 * time.Second

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxBodyBytes caps request bodies. Zero means no limit.
	MaxBodyBytes int64

	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server serves the cycle checks through a shared pipeline.Runner.
type Server struct {
	runner   *pipeline.Runner
	opts     Options
	logger   *log.Logger
	validate *validator.Validate
}

// New creates a server. The runner's cache decides where traces are kept.
func New(runner *pipeline.Runner, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		runner:   runner,
		opts:     opts,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/detect", s.handleDetect)
		r.Post("/traces", s.handleCreateTrace)
		r.Get("/traces/{id}", s.handleGetTrace)
		r.Get("/traces/{id}/steps/{index}", s.handleGetStep)
		r.Post("/eliminate", s.handleEliminate)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
