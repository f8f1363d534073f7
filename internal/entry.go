// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/contractviewer/internal/api"
	"github.com/starford/contractviewer/internal/checksum"
	"github.com/starford/contractviewer/internal/formservice"
	"github.com/starford/contractviewer/internal/sse"
	"github.com/starford/contractviewer/internal/storage"
)

// NewProvider builds the storage provider selected by cfg.Storage.Driver.
// The local driver creates its root directory when missing.
func NewProvider(cfg *Config) (storage.Provider, error) {
	switch cfg.Storage.Driver {
	case StorageLocal:
		if err := os.MkdirAll(cfg.Storage.Local.Root, 0o755); err != nil {
			return nil, fmt.Errorf("create storage root: %w", err)
		}
		return storage.NewFS(cfg.Storage.Local.Root)
	case StorageDropbox, "":
		return storage.NewDropbox(cfg.Storage.Dropbox.Credentials()), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// documentNotifier turns watcher events into broker events carrying the
// content ETag of the changed document.
func documentNotifier(ctx context.Context, fs *storage.FS, broker *sse.Broker, logger *slog.Logger) storage.EventCallback {
	return func(kind, path string) {
		if kind == "deleted" {
			broker.PublishDocumentEvent(kind, path, "")
			return
		}
		obj, err := fs.Download(ctx, path)
		if err != nil {
			logger.Warn("watcher: read changed document failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return
		}
		broker.PublishDocumentEvent(kind, path, checksum.ETag(obj.Data))
	}
}

// newHTTPHandler wraps the API router with request middleware and health
// endpoints.
func newHTTPHandler(apiRouter http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)
	return r
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("fetch_path", cfg.Fetch.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if cfg.Storage.Driver == StorageDropbox && !cfg.Storage.Dropbox.Configured() {
		logger.Warn("Dropbox credentials are not set; every fetch will fail")
	}

	store := app.provider
	if store == nil {
		var err error
		if store, err = NewProvider(cfg); err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
	}

	broker := sse.NewBroker()
	defer broker.Close()

	apiRouter := api.NewRouter(api.RouterConfig{
		Form:        formservice.New(),
		Store:       store,
		Fetch:       cfg.Fetch.Handler(),
		AuthEnabled: cfg.Auth.AuthEnabled(),
		AuthToken:   cfg.Auth.Token,
		Events:      broker,
	})

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHTTPHandler(apiRouter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the local store and push document changes to SSE clients.
	if fs, ok := store.(*storage.FS); ok && cfg.Storage.Local.Watch {
		g.Go(func() error {
			if err := fs.Watch(gCtx, logger, documentNotifier(gCtx, fs, broker, logger)); err != nil {
				logger.Warn("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
