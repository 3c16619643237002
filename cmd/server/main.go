package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/p-n-ai/pai-learn/internal/auth"
	"github.com/p-n-ai/pai-learn/internal/catalog"
	"github.com/p-n-ai/pai-learn/internal/course"
	"github.com/p-n-ai/pai-learn/internal/httpapi"
	"github.com/p-n-ai/pai-learn/internal/platform/cache"
	"github.com/p-n-ai/pai-learn/internal/platform/config"
	"github.com/p-n-ai/pai-learn/internal/platform/database"
	"github.com/p-n-ai/pai-learn/internal/progress"
)

func main() {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "progress_backend", cfg.Progress.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// redisKeyPrefix namespaces every key the service writes to Redis.
const redisKeyPrefix = "learn"

// app bundles the HTTP handler with the resources it must release.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp wires catalog, progress store, services and handlers from cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}

	store, checks, err := newStore(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	hub := progress.NewHub(32)
	tracker := progress.NewTracker(cat, store,
		progress.WithStrictLectures(cfg.Progress.StrictLectures),
		progress.WithPublisher(hub),
	)
	if err := tracker.Seed(ctx, cat.InitialCompletions()); err != nil {
		a.Close()
		return nil, fmt.Errorf("seeding progress: %w", err)
	}

	users, err := auth.NewMemoryUserStore(auth.DemoUsers(), bcrypt.DefaultCost)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating user store: %w", err)
	}
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.AccessTokenTTL)*time.Minute)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating token issuer: %w", err)
	}

	a.handler = httpapi.NewHandler(httpapi.Config{
		Courses:        course.NewService(cat, tracker),
		Auth:           auth.NewService(users, tokens),
		Events:         hub,
		RequireToken:   cfg.Auth.RequireToken,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReadyChecks:    checks,
	})

	slog.Info("application ready", "courses", cat.Len(), "strict_lectures", cfg.Progress.StrictLectures)
	return a, nil
}

// newStore opens the configured completion store and registers its cleanup on a.
func newStore(ctx context.Context, cfg *config.Config, a *app) (progress.CompletionStore, map[string]httpapi.ReadyCheck, error) {
	switch cfg.Progress.Backend {
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		store := progress.NewPostgresStore(db.Pool)
		if err := store.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		return store, map[string]httpapi.ReadyCheck{"database": db.HealthCheck}, nil

	case config.BackendRedis:
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to cache: %w", err)
		}
		a.closers = append(a.closers, func() { c.Close() })
		return progress.NewRedisStore(c.Client, redisKeyPrefix), map[string]httpapi.ReadyCheck{"cache": c.HealthCheck}, nil

	default:
		return progress.NewMemoryStore(), nil, nil
	}
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
