package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/credence/internal/api"
	"github.com/Harshitk-cp/credence/internal/buildconfig"
	"github.com/Harshitk-cp/credence/internal/config"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/fixtures"
	"github.com/Harshitk-cp/credence/internal/store"
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

	logger.Info("credence starting",
		zap.String("version", buildconfig.Version()),
		zap.String("commit", buildconfig.Commit()))

	ctx := context.Background()

	deps := api.Deps{
		RateLimitRPS:         config.RateLimitRPS(),
		RateLimitBurst:       config.RateLimitBurst(),
		MaxSessionsPerTenant: config.MaxSessionsPerTenant(),
		SessionTTL:           config.SessionTTL(),
		SessionSweepInterval: config.SessionSweepInterval(),
	}

	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		applied, err := store.Migrate(ctx, pool, config.MigrationsPath())
		if err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Int("files", applied))

		deps.Tenants = store.NewTenantStore(pool)
		deps.Models = store.NewModelStore(pool)
		deps.DB = pool
	} else {
		logger.Warn("DATABASE_URL not set, models and tenants are kept in memory")
		deps.Tenants = store.NewInMemTenantStore()
		deps.Models = store.NewInMemModelStore()
	}

	if config.SeedFixtures() {
		deps.Fixtures = loadFixtures(logger)
	}

	app := api.NewApp(deps, logger)
	app.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	app.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func loadFixtures(logger *zap.Logger) []domain.Model {
	models, err := fixtures.Load()
	if err != nil {
		logger.Error("failed to load fixture models, seeding disabled", zap.Error(err))
		return nil
	}
	logger.Info("fixture models loaded", zap.Int("count", len(models)))
	return models
}
