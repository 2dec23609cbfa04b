package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/impromptu-bank/internal/accesslog"
	"github.com/gokatarajesh/impromptu-bank/internal/auth"
	"github.com/gokatarajesh/impromptu-bank/internal/auth/jwt"
	"github.com/gokatarajesh/impromptu-bank/internal/config"
	"github.com/gokatarajesh/impromptu-bank/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
	"github.com/gokatarajesh/impromptu-bank/internal/feedback"
	"github.com/gokatarajesh/impromptu-bank/internal/logging"
	"github.com/gokatarajesh/impromptu-bank/internal/question"
	"github.com/gokatarajesh/impromptu-bank/internal/server"
	"github.com/gokatarajesh/impromptu-bank/internal/settings"
	"github.com/gokatarajesh/impromptu-bank/internal/stats"
	"github.com/gokatarajesh/impromptu-bank/internal/users"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool    *pgxpool.Pool
	redis   *redis.Client
	http    *http.Server
	janitor *question.Janitor
}

// New bootstraps logger, Postgres, optional Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	proxies, err := auth.NewTrustedProxies(cfg.Security.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("parse TRUSTED_PROXIES: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; login limiter is per-process and counts are not cached")
	}

	queries := sqlcgen.New(pool)

	questionRepo := repository.NewQuestionRepository(queries)
	templateRepo := repository.NewTemplateRepository(queries)
	historyRepo := repository.NewHistoryRepository(queries, pool)
	settingsRepo := repository.NewSettingsRepository(queries)
	feedbackRepo := repository.NewFeedbackRepository(queries)
	logRepo := repository.NewLogRepository(queries)
	userRepo := repository.NewUserRepository(queries)

	settingsSvc := settings.NewService(settingsRepo, cfg.Security.DefaultSitePassword, logger)
	accessSvc := accesslog.NewService(logRepo, logger)
	statsSvc := stats.NewService(logRepo)
	usersSvc := users.NewService(userRepo)
	feedbackSvc := feedback.NewService(feedbackRepo)

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(cfg.Security.SessionSecret),
		TTL:    cfg.Security.SessionTTL,
		Issuer: cfg.Name,
	})
	sessions := auth.NewSessions(tokens, cfg.Security.SecureCookies, logger)

	limitCfg := auth.LimitConfig{
		MaxAttempts: cfg.LoginLimit.MaxAttempts,
		Window:      cfg.LoginLimit.Window,
		Lockout:     cfg.LoginLimit.Lockout,
	}
	var limiter auth.Limiter = auth.NewMemoryLimiter(limitCfg)
	var countsCache question.CountsCache
	if redisClient != nil {
		limiter = auth.NewRedisLimiter(redisClient, limitCfg)
		countsCache = question.NewCache(redisClient, cfg.Redis.CacheTTL)
	}

	authHandlers := auth.NewHTTPHandlers(auth.HandlerDeps{
		Sessions:      sessions,
		Gate:          settingsSvc,
		Limiter:       limiter,
		Access:        accessSvc,
		Users:         userRepo,
		AdminPassword: cfg.Security.AdminPassword,
	}, logger)

	selector := question.NewSelector(questionRepo, templateRepo, historyRepo, settingsSvc, logger)
	questionSvc := question.NewService(questionRepo, templateRepo, historyRepo, countsCache, logger)
	questionHandler := question.NewHTTPHandler(selector, questionSvc, statsSvc, usersSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, server.Handlers{
		Sessions:  sessions,
		Auth:      authHandlers,
		Questions: questionHandler,
		Settings:  settings.NewHTTPHandlers(settingsSvc, logger),
		Feedback:  feedback.NewHTTPHandler(feedbackSvc, logger),
		Stats:     stats.NewHTTPHandler(statsSvc, logger),
		Users:     users.NewHTTPHandler(usersSvc, logger),
		Logs:      accesslog.NewHTTPHandler(accessSvc, logger),
		Proxies:   proxies,
	})

	return &Application{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		redis:   redisClient,
		http:    apiServer,
		janitor: question.NewJanitor(historyRepo, cfg.History.CleanupInterval, cfg.History.Retention, logger),
	}, nil
}

// Run starts the HTTP server and the history janitor and waits for a
// termination signal.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.janitor.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("history janitor stopped")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
		defer cancel()
		if err := a.http.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("http shutdown error")
		}
		return nil
	})

	err := g.Wait()

	a.pool.Close()
	if a.redis != nil {
		if cerr := a.redis.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return err
}
