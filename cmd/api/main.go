package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cocstats/stats-api/internal/config"
	"github.com/cocstats/stats-api/internal/handlers"
	"github.com/cocstats/stats-api/internal/logic"
	"github.com/cocstats/stats-api/internal/store"
	"github.com/cocstats/stats-api/internal/upstream"
	"github.com/cocstats/stats-api/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := store.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())
	if err := db.EnsureIndexes(connectCtx); err != nil {
		sugar.Warnw("Could not create indexes", "error", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(connectCtx).Err(); err != nil {
		// Caching degrades gracefully; the API still answers from Mongo
		sugar.Warnw("Redis unreachable at startup", "error", err)
	}

	cache := logic.NewRedisCache(rdb, "clashstats:")
	opts := logic.ServiceOptions{CacheTTL: cfg.CacheTTL, FanoutLimit: cfg.FanoutLimit}

	var raidUpstream logic.RaidSource
	if cfg.ProxyURL != "" {
		client := upstream.NewClient(cfg.ProxyURL, upstream.NewRoundRobin(cfg.ProxyKeys), cfg.RateLimitPerSecond, logger)
		defer client.Close()
		raidUpstream = client
	}

	warStats := logic.NewWarStatsService(db, cache, opts, logger)
	cwl := logic.NewCWLService(db, db, cache, opts, logger)
	joinLeave := logic.NewJoinLeaveService(db, cache, opts, logger)
	raids := logic.NewRaidService(db, raidUpstream, cache, opts, logger)

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		JobTimeout:  4 * cfg.QueryTimeout,
		Warmer: &worker.ClanWarmer{
			Wars:      warStats,
			CWL:       cwl,
			JoinLeave: joinLeave,
			Raids:     raids,
		},
		Logger: logger,
	})
	pool.Start(ctx)

	h := handlers.New(handlers.Config{
		WorkerPool:   pool,
		Mongo:        db,
		Redis:        handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		Logger:       logger,
		QueryTimeout: cfg.QueryTimeout,
		WarStats:     warStats,
		CWL:          cwl,
		JoinLeave:    joinLeave,
		Raids:        raids,
	})

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: h.Router(handlers.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			MaxInFlight:    cfg.RateLimitBurst,
			BacklogTimeout: cfg.QueryTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.QueryTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		pool.Stop()
		return err
	case <-ctx.Done():
	}

	sugar.Info("Shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}
	pool.Stop()
	sugar.Info("Server stopped gracefully")
	return nil
}
