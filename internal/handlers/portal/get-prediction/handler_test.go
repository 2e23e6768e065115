package getprediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore map[string]*models.PredictionRecord

func (f fakeStore) Get(_ context.Context, id string) (*models.PredictionRecord, error) {
	rec, ok := f[id]
	if !ok {
		return nil, apperrors.NewRecordNotFoundError(id)
	}
	return rec, nil
}

const knownID = "6f1c2f5e-8a43-4c4e-9f43-3d1b2f0a9e11"

func newRouter(t *testing.T) http.Handler {
	store := fakeStore{
		knownID: {
			FeatureRecord: models.FeatureRecord{
				AnnualIncome: models.Float64(60000),
				LoanAmount:   models.Float64(20000),
			},
			ID:          knownID,
			Approved:    true,
			Probability: 0.85,
			Source:      models.SourceFallback,
			CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	log := logger.NewTestLogger(t)

	r := chi.NewRouter()
	r.Method(http.MethodGet, Route, NewHandler(store, apperrors.NewErrorHandler(log), log))
	return r
}

func TestHandler_Found(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/predictions/"+knownID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out models.PredictionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, knownID, out.ID)
	assert.Equal(t, models.SourceFallback, out.Source)
	assert.Equal(t, 60000.0, *out.AnnualIncome)
	assert.Nil(t, out.CreditScore)
}

func TestHandler_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/predictions/0b7d1f2a-1c2d-4e5f-8a9b-0c1d2e3f4a5b", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body apperrors.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.ErrCodeRecordNotFound, body.Code)
}
