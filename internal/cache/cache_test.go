package cache

import (
	"context"
	"testing"
	"time"

	"loan-predictor/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_StableAndDistinct(t *testing.T) {
	a := &models.FeatureRecord{AnnualIncome: models.Float64(60000), LoanAmount: models.Float64(20000)}
	b := &models.FeatureRecord{AnnualIncome: models.Float64(60000), LoanAmount: models.Float64(20000)}
	c := &models.FeatureRecord{AnnualIncome: models.Float64(60000), LoanAmount: models.Float64(20001)}

	ka, err := Key(a)
	require.NoError(t, err)
	kb, _ := Key(b)
	kc, _ := Key(c)

	assert.Equal(t, ka, kb)
	assert.NotEqual(t, ka, kc)
	assert.Contains(t, ka, "prediction:")
}

func TestRedisCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisCache(client)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "prediction:abc")
	require.NoError(t, err)
	assert.False(t, found)

	want := models.PredictionResult{Approved: true, Probability: 91.3}
	require.NoError(t, c.Set(ctx, "prediction:abc", want, time.Minute))

	got, found, err := c.Get(ctx, "prediction:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, *got)

	mr.FastForward(2 * time.Minute)
	_, found, err = c.Get(ctx, "prediction:abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_BackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, _, err := NewRedisCache(client).Get(context.Background(), "prediction:abc")
	assert.Error(t, err)
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	want := models.PredictionResult{Approved: false, Probability: 12.5}
	require.NoError(t, c.Set(ctx, "k", want, time.Minute))

	got, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, *got)

	require.NoError(t, c.Set(ctx, "short", want, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, found, _ = c.Get(ctx, "short")
	assert.False(t, found, "expired entries are misses")
}
