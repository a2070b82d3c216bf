// Package server wires the gateway's HTTP surface: middleware policy,
// rate limiting, the API handlers, and static frontend serving.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/voicelend/site-gateway/internal/auth"
	"github.com/voicelend/site-gateway/internal/config"
)

// Server hosts the gateway router.
type Server struct {
	Router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	http   *http.Server
}

// New builds the middleware chain and mounts the API routes.
func New(cfg *config.Config, h *Handler, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second

	// Apply middleware in order
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(timeout))
	r.Use(chimiddleware.Recoverer)
	r.Use(SecurityHeadersMiddleware(cfg))
	r.Use(CORSMiddleware(cfg))

	// Wrap with OpenTelemetry HTTP instrumentation
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "site-gateway")
	})

	admin := auth.NewAdmin(cfg.Admin.APIKeyHash)

	r.Route("/api", func(api chi.Router) {
		api.Use(GlobalRateLimit(cfg.RateLimit.Global))

		api.Get("/health", h.Health)

		// AI endpoints carry the large body ceiling sized for base64 audio.
		api.Group(func(ai chi.Router) {
			ai.Use(BodyLimit(MaxAIBodyBytes))
			ai.Post("/generate-content", h.GenerateContent)

			ai.Group(func(tr chi.Router) {
				tr.Use(TranscribeRateLimit(cfg.RateLimit.Transcribe))
				tr.Post("/transcribe", h.Transcribe)
			})
		})

		api.Group(func(leads chi.Router) {
			leads.Use(BodyLimit(MaxDefaultBodyBytes))
			leads.Post("/leads", h.CreateLead)
			leads.With(AdminMiddleware(admin)).Get("/leads", h.ListLeads)
		})
	})

	if cfg.Server.StaticDir != "" {
		mountStatic(r, cfg.Server.StaticDir)
	}

	return &Server{
		Router: r,
		cfg:    cfg,
		logger: logger,
	}
}

// Start begins serving and blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.Router,
	}

	s.logger.Info("starting server", slog.Int("port", s.cfg.Server.Port))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
