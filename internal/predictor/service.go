package predictor

import (
	"context"
	"errors"
	"time"

	"loan-predictor/internal/cache"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/metrics"
	"loan-predictor/internal/models"
)

// RemotePredictor is satisfied by *Client.
type RemotePredictor interface {
	Predict(ctx context.Context, record *models.FeatureRecord) (*models.PredictionResult, error)
}

// Service runs validate -> cache -> remote -> fallback.
type Service struct {
	remote   RemotePredictor
	cache    cache.Cache
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewService builds the pipeline. results may be nil to disable caching.
func NewService(remote RemotePredictor, results cache.Cache, cacheTTL time.Duration, log logger.Logger) *Service {
	return &Service{
		remote:   remote,
		cache:    results,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "prediction-service"}),
	}
}

// Predict always yields an outcome for a valid record. The only error it
// returns is InvalidFeatureRecord; a backend failure degrades to Fallback.
func (s *Service) Predict(ctx context.Context, record *models.FeatureRecord) (*models.Outcome, error) {
	if err := record.ValidateForDecision(); err != nil {
		return nil, err
	}

	key := s.cacheKey(record)
	if cached := s.lookup(ctx, key); cached != nil {
		return modelOutcome(*cached), nil
	}

	result, err := s.remote.Predict(ctx, record)
	if err == nil {
		s.store(ctx, key, *result)
		return modelOutcome(*result), nil
	}

	var failure *RemoteFailure
	if !errors.As(err, &failure) {
		s.logger.Warn("unexpected remote predictor error, applying fallback", map[string]interface{}{
			"error": err.Error(),
		})
	}

	fallback, err := Fallback(record)
	if err != nil {
		return nil, err
	}

	metrics.PredictionsTotal.WithLabelValues(string(models.SourceFallback)).Inc()
	s.logger.Info("fallback prediction applied", map[string]interface{}{
		"approved": fallback.Approved,
	})

	return &models.Outcome{
		Result:  fallback,
		Source:  models.SourceFallback,
		Message: models.MessageFallback,
	}, nil
}

func modelOutcome(r models.PredictionResult) *models.Outcome {
	metrics.PredictionsTotal.WithLabelValues(string(models.SourceModel)).Inc()
	return &models.Outcome{
		Result: models.PredictionResult{
			Approved:    r.Approved,
			Probability: models.Round(r.Probability, 1),
		},
		Source:  models.SourceModel,
		Message: models.MessageModel,
	}
}

func (s *Service) cacheKey(record *models.FeatureRecord) string {
	if s.cache == nil {
		return ""
	}
	key, err := cache.Key(record)
	if err != nil {
		s.logger.Warn("cache key derivation failed", map[string]interface{}{"error": err.Error()})
		return ""
	}
	return key
}

func (s *Service) lookup(ctx context.Context, key string) *models.PredictionResult {
	if key == "" {
		return nil
	}
	result, found, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("prediction cache lookup failed", map[string]interface{}{"error": err.Error()})
		return nil
	case !found:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	default:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return result
	}
}

// store only ever receives genuine backend results.
func (s *Service) store(ctx context.Context, key string, result models.PredictionResult) {
	if key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.logger.Warn("prediction cache store failed", map[string]interface{}{"error": err.Error()})
	}
}
