// cmd/scoring-api/main.go
package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"loan-predictor/internal/common/config"
	httputil "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/observability"
	"loan-predictor/internal/common/ratelimit"
	"loan-predictor/internal/extraction"
	"loan-predictor/internal/inference"
	"loan-predictor/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{"service": "scoring-api"})

	if err := config.ValidateScoring(cfg); err != nil {
		zapLog.Fatal("invalid configuration", zap.Error(err))
	}

	// The artifact is loaded once; a missing or corrupt model stops startup.
	model, err := inference.Load(cfg.Model.Path)
	if err != nil {
		zapLog.Fatal("model load failed", zap.String("path", cfg.Model.Path), zap.Error(err))
	}
	zapLog.Info("model loaded",
		zap.String("version", model.Version()),
		zap.Float64("threshold", model.Threshold()),
		zap.Int("width", model.Width()),
	)

	obs, err := observability.New("scoring-api")
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown()

	genai := cfg.APIs.GenAI
	gemini := extraction.NewGeminiClient(genai.BaseURL, genai.Model, genai.APIKey, config.GetDuration(genai.Timeout))
	extractor := extraction.NewExtractor(gemini, extraction.Config{
		MaxAttempts:    genai.MaxAttempts,
		BackoffBase:    config.GetDuration(genai.BackoffBase),
		AttemptTimeout: config.GetDuration(genai.Timeout),
	}, log)

	r := server.NewScoringRouter(server.ScoringDeps{
		Model:             model,
		Extractor:         extractor,
		Limiter:           ratelimit.NewPerMinute(cfg.RateLimit.VoicePerMinute, cfg.RateLimit.VoiceBurst),
		MaxUploadBytes:    cfg.Server.MaxUploadBytes,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
		Observability:     obs,
		Logger:            log,
	})

	srv := &http.Server{
		Addr:              cfg.Server.ScoringListen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLog.Info("scoring api listening",
		zap.String("addr", srv.Addr),
		zap.String("genaiEndpoint", gemini.Endpoint()),
	)
	if err := httputil.Serve(context.Background(), srv, config.GetDuration(cfg.Server.ShutdownTimeout)); err != nil {
		zapLog.Fatal("server stopped with error", zap.Error(err))
	}
	zapLog.Info("scoring api stopped")
}
