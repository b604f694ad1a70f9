package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/fplsquad/internal/adapters/http/api"
	"github.com/okian/fplsquad/internal/adapters/http/swagger"
	"github.com/okian/fplsquad/internal/adapters/repository"
	"github.com/okian/fplsquad/internal/adapters/source"
	service "github.com/okian/fplsquad/internal/app"
	"github.com/okian/fplsquad/internal/config"
	"github.com/okian/fplsquad/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// A local .env is optional.
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// Use stderr since the logger may not be available yet
		os.Stderr.WriteString("fplsquad: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the planning service from configuration.
func newService(cfg *config.Config, log logger.Logger) (*service.Service, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithSource(newSource(cfg, log)),
		service.WithSettings(settings),
		service.WithRefreshInterval(cfg.RefreshInterval()),
		service.WithSearchLimit(cfg.MaxSearchLimit),
	}
	if cfg.HistoryPath != "" {
		opts = append(opts, service.WithLedger(repository.NewLedger(cfg.HistoryPath, repository.WithLogger(log))))
	}
	return service.New(opts...)
}

// newSource prefers saved payloads on disk over the live endpoint.
func newSource(cfg *config.Config, log logger.Logger) source.Source {
	if cfg.BootstrapFile != "" {
		return &source.FileSource{
			BootstrapPath: cfg.BootstrapFile,
			FixturesPath:  cfg.FixturesFile,
			Log:           log,
		}
	}
	return source.NewClient(cfg.SourceURL,
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithClientLogger(log),
	)
}

func newMux(cfg *config.Config, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	swagger.Register(mux)

	// Register business API routes with the service dependency.
	api.NewServer(svc, svc, cfg.MaxSearchLimit).Register(mux)
	return mux
}
