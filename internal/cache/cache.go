// Package cache stores genuine model results keyed by a digest of the
// feature record. Fallback results never go through here.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"loan-predictor/internal/models"
)

type Cache interface {
	// Get reports found=false on a miss; err is reserved for backend failures.
	Get(ctx context.Context, key string) (result *models.PredictionResult, found bool, err error)
	Set(ctx context.Context, key string, result models.PredictionResult, ttl time.Duration) error
}

// Key derives a stable cache key from the record's canonical JSON encoding.
// Struct field order is fixed, so equal records always produce equal keys.
func Key(r *models.FeatureRecord) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return "prediction:" + hex.EncodeToString(sum[:]), nil
}
