package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/db/migrations"
	"github.com/gokatarajesh/trivia-api/internal/auth"
	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/quiz"
	"github.com/gokatarajesh/trivia-api/internal/ratelimit"
	"github.com/gokatarajesh/trivia-api/internal/server"
)

// Application aggregates shared infrastructure (DB, Redis, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	db    *db.Database
	redis *redis.Client
	http  *http.Server
}

// New bootstraps logger, Postgres, optional Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	database, err := db.Open(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Migrations.AutoMigrate {
		migrations.SetLogger(logger)
		if err := migrations.Up(ctx, database.SQL); err != nil {
			database.Close()
			return nil, err
		}
		logger.Info().Msg("schema migrations applied")
	}

	questionRepo := repository.NewQuestionRepository(database.Gorm)
	categoryRepo := repository.NewCategoryRepository(database.Gorm)

	questionSvc := question.NewService(questionRepo, categoryRepo, logger)
	quizSvc := quiz.NewService(questionRepo, categoryRepo, logger)

	deps := server.Dependencies{
		Questions: question.NewHTTPHandlers(questionSvc),
		Quiz:      quiz.NewHTTPHandler(quizSvc),
		Metrics:   metrics.NewHTTP(metrics.NewDefaultRegistry()),
		Pingers:   map[string]server.Pinger{"postgres": database},
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		deps.Pingers["redis"] = server.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		limiter := ratelimit.NewLimiter(
			ratelimit.NewRedisAllower(redisClient),
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
			logger,
		)
		deps.RateLimit = limiter.Middleware
		logger.Info().
			Int("requests", cfg.RateLimit.Requests).
			Dur("window", cfg.RateLimit.Window).
			Msg("rate limiting enabled")
	} else {
		logger.Warn().Msg("REDIS_ADDR not configured; rate limiting disabled")
	}

	if cfg.Security.AdminGuardEnabled() {
		manager := jwt.NewManager(jwt.TokenConfig{
			Secret: []byte(cfg.Security.AdminJWTSecret),
			TTL:    cfg.Security.AdminTokenTTL,
			Issuer: cfg.Name,
		})
		deps.AdminGuard = auth.RequireAdmin(manager, logger.With().Str("component", "auth").Logger())
		logger.Info().Msg("admin guard enabled for question writes")
	}

	return &Application{
		cfg:    cfg,
		logger: logger,
		db:     database,
		redis:  redisClient,
		http:   server.NewHTTPServer(cfg, logger, deps),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.db.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}
