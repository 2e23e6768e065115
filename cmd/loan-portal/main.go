// cmd/loan-portal/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"loan-predictor/internal/cache"
	"loan-predictor/internal/common/config"
	"loan-predictor/internal/common/database"
	httputil "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/observability"
	"loan-predictor/internal/predictor"
	"loan-predictor/internal/repository"
	"loan-predictor/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{"service": "loan-portal"})

	if err := config.ValidatePortal(cfg); err != nil {
		zapLog.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	obs, err := observability.New("loan-portal")
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(ctx, cfg.Database.Postgres, 5*time.Second)
		return err
	}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Prediction cache: Redis when configured, in-process otherwise ---
	var results cache.Cache
	cacheTTL := config.GetDuration(cfg.Cache.TTL)
	if cfg.Cache.IsEnabled() {
		if cfg.Database.Redis.Address != "" {
			redisClient := database.NewRedis(cfg.Database.Redis)
			defer redisClient.Close()

			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			if err := redisClient.Ping(pingCtx); err != nil {
				// Lookups degrade to misses; the pipeline never depends on the cache.
				zapLog.Warn("redis unreachable at startup", zap.String("address", cfg.Database.Redis.Address), zap.Error(err))
			}
			cancel()

			results = cache.NewRedisCache(redisClient.GetClient())
			zapLog.Info("prediction cache: redis", zap.String("address", cfg.Database.Redis.Address))
		} else {
			results = cache.NewMemoryCache(cacheTTL, 2*cacheTTL)
			zapLog.Info("prediction cache: in-memory")
		}
	}

	remote := predictor.NewClient(cfg.Predictor.BaseURL, config.GetDuration(cfg.Predictor.Timeout), log)
	service := predictor.NewService(remote, results, cacheTTL, log)
	repo := repository.NewPredictionRepository(pg.GetDB(), log)

	r := server.NewPortalRouter(server.PortalDeps{
		Predictor:         service,
		Store:             repo,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
		Observability:     obs,
		Logger:            log,
	})

	srv := &http.Server{
		Addr:              cfg.Server.PortalListen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLog.Info("loan portal listening",
		zap.String("addr", srv.Addr),
		zap.String("predictor", remote.Endpoint()),
	)
	if err := httputil.Serve(ctx, srv, config.GetDuration(cfg.Server.ShutdownTimeout)); err != nil {
		zapLog.Fatal("server stopped with error", zap.Error(err))
	}
	zapLog.Info("loan portal stopped")
}
