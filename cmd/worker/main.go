package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/roamsim/backend-store/internal/config"
	"github.com/roamsim/backend-store/internal/lock"
	"github.com/roamsim/backend-store/internal/obs"
	"github.com/roamsim/backend-store/internal/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()
	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "roamsim"), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	refresher := &schedule.Refresher{
		Store:   schedule.Store{Pool: pool},
		Cache:   schedule.Cache{Client: redisClient, TTL: cfg.ScheduleSnapshotTTL},
		Locker:  lock.Locker{R: redisClient},
		LockTTL: cfg.ScheduleRefreshLockTTL,
		Logger:  logger,
	}

	// Warm the snapshot immediately so the API never waits a full interval
	// after a cold start.
	if err := refresher.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial schedule refresh failed")
	}

	redisConn := asynq.RedisClientOpt{Addr: redisClient.Options().Addr, Password: redisClient.Options().Password, DB: redisClient.Options().DB}

	scheduler := asynq.NewScheduler(redisConn, &asynq.SchedulerOpts{})
	every := cfg.ScheduleRefreshInterval
	if _, err := scheduler.Register("@every "+every.String(), schedule.NewRefreshTask()); err != nil {
		logger.Fatal().Err(err).Msg("register refresh task")
	}

	srv := asynq.NewServer(redisConn, asynq.Config{Concurrency: 1})
	mux := asynq.NewServeMux()
	mux.Handle(schedule.TaskRefresh, refresher)

	errCh := make(chan error, 2)
	go func() { errCh <- scheduler.Run() }()
	go func() { errCh <- srv.Run(mux) }()

	logger.Info().Str("interval", every.String()).Msg("worker starting")
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("worker stopped with error")
		}
	}
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
