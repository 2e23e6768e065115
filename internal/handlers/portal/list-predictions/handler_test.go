package listpredictions

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{
	"id", "name_surname", "annual_income", "debt_to_income_ratio", "credit_score",
	"loan_amount", "interest_rate", "gender", "marital_status", "education_level",
	"employment_status", "loan_purpose", "grade_subgrade",
	"approved", "probability", "source", "created_at",
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewTestLogger(t)
	repo := repository.NewPredictionRepository(db, log)
	return NewHandler(LoadConfig(), repo, apperrors.NewErrorHandler(log), log), mock
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_List(t *testing.T) {
	h, mock := newTestHandler(t)
	rows := sqlmock.NewRows(columns).
		AddRow("6f1c2f5e-8a43-4c4e-9f43-3d1b2f0a9e11", "Jane Roe", 60000.0, nil, int64(710), 20000.0, nil,
			nil, nil, nil, nil, "Car", nil, true, 81.8, "model", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)).
		AddRow("0b7d1f2a-1c2d-4e5f-8a9b-0c1d2e3f4a5b", nil, 20000.0, nil, nil, 20000.0, nil,
			nil, nil, nil, nil, nil, nil, false, 0.35, "fallback", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(`SELECT .* FROM prediction_records`).WithArgs(repository.DefaultListLimit).WillReturnRows(rows)

	rec := get(h, Route)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Records []map[string]interface{} `json:"records"`
		Count   int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "model", out.Records[0]["source"])
	assert.Equal(t, "fallback", out.Records[1]["source"])
	assert.Nil(t, out.Records[1]["name_surname"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Limit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"explicit", "?limit=5", 5},
		{"clamped", "?limit=9999", repository.MaxListLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newTestHandler(t)
			mock.ExpectQuery(`SELECT`).WithArgs(tt.want).WillReturnRows(sqlmock.NewRows(columns))

			rec := get(h, Route+tt.query)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"records": [], "count": 0}`, rec.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_BadLimit(t *testing.T) {
	for _, q := range []string{"?limit=abc", "?limit=0", "?limit=-3"} {
		h, mock := newTestHandler(t)
		rec := get(h, Route+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestHandler_QueryFails(t *testing.T) {
	h, mock := newTestHandler(t)
	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection lost"))

	rec := get(h, Route)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperrors.ErrCodeQueryExecutionFailed))
}
