package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voicelend/site-gateway/internal/config"
	"github.com/voicelend/site-gateway/internal/provider/gemini"
	"github.com/voicelend/site-gateway/internal/recorder"
	"github.com/voicelend/site-gateway/internal/server"
	"github.com/voicelend/site-gateway/internal/storage"
	"github.com/voicelend/site-gateway/internal/storage/memory"
	"github.com/voicelend/site-gateway/internal/storage/sqldb"
	"github.com/voicelend/site-gateway/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer("voicelend-site-gateway", logger)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
			}
		}()
	}

	if cfg.Sentry.DSN != "" {
		logger.Info("error tracking DSN configured, forwarding is handled by the deployment platform")
	}

	// Credentials are checked once here. A missing or placeholder key keeps
	// the server up with AI endpoints answering SERVICE_UNAVAILABLE.
	apiKey := cfg.Gemini.APIKey
	if !cfg.Gemini.Configured() {
		apiKey = ""
		logger.Warn("GEMINI API KEY MISSING OR PLACEHOLDER, AI endpoints will return 503",
			slog.Bool("placeholder", cfg.Gemini.IsPlaceholder()),
		)
	}

	var providerOpts []gemini.ProviderOption
	if cfg.Gemini.BaseURL != "" {
		providerOpts = append(providerOpts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
	}
	upstream := gemini.New(apiKey, logger, providerOpts...)

	store := newStore(cfg, logger)
	defer store.Close()

	rec := recorder.New(store, logger)
	handler := server.NewHandler(cfg, upstream, store, rec, logger)
	srv := server.New(cfg, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("gateway shutdown complete")
}

// newStore selects SQL persistence when a driver is configured and falls
// back to the in-memory mock otherwise. The mock keeps lead capture
// working in development, loudly.
func newStore(cfg *config.Config, logger *slog.Logger) storage.Store {
	if cfg.Database.Driver == "" {
		logger.Warn("no database configured, lead persistence is MOCKED in memory")
		return memory.New(logger)
	}

	store, err := sqldb.New(sqldb.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	logger.Info("database connected", slog.String("driver", cfg.Database.Driver))
	return store
}
