package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/api"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/buildconfig"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/config"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/events"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger, err := newLogger(config.LogLevel())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	dbURL := config.DatabaseURL()
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	applied, err := store.RunMigrations(ctx, pool, config.MigrationsPath())
	if err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("migrations applied", zap.Strings("files", applied))

	var publisher domain.EventPublisher = events.Noop{}
	if url := config.NATSURL(); url != "" {
		p, err := events.Connect(url, config.NATSToken(), logger)
		if err != nil {
			logger.Fatal("failed to connect to nats", zap.Error(err))
		}
		defer func() {
			if err := p.Close(); err != nil {
				logger.Warn("nats drain failed", zap.Error(err))
			}
		}()
		publisher = p
		logger.Info("card events enabled", zap.String("nats_url", url))
	}

	app := api.NewApp(pool, publisher, logger)

	// Evict idle rate limiter entries in the background
	go app.Limiter.Run(ctx, 5*time.Minute)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.String("build", buildconfig.String()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
