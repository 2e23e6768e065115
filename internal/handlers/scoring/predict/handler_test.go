package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/inference"
	"loan-predictor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockModel struct {
	mock.Mock
}

func (m *MockModel) Predict(ctx context.Context, r *models.FeatureRecord) (*models.PredictionResult, error) {
	args := m.Called(ctx, r)
	if res := args.Get(0); res != nil {
		return res.(*models.PredictionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

const testArtifact = `{
  "version": "test-1",
  "threshold": 0.5,
  "intercept": 0,
  "numeric": [
    {"name": "annual_income", "mean": 50000, "scale": 10000},
    {"name": "loan_amount", "mean": 20000, "scale": 10000}
  ],
  "categorical": [],
  "coefficients": [1.0, -1.0]
}`

func newTestHandler(t *testing.T, model Model) *Handler {
	log := logger.NewTestLogger(t)
	return NewHandler(LoadConfig(), model, apperrors.NewErrorHandler(log), log)
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, Route, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_WithInferenceModel(t *testing.T) {
	m, err := inference.Parse([]byte(testArtifact))
	require.NoError(t, err)
	h := newTestHandler(t, m)

	rec := post(h, `{"annual_income": 60000, "loan_amount": 10000, "credit_score": 720, "gender": "Female"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Approved)
	// sigmoid(2) = 0.880797
	assert.Equal(t, 88.08, out.Probability)
}

func TestHandler_Success(t *testing.T) {
	model := new(MockModel)
	model.On("Predict", mock.Anything, mock.MatchedBy(func(r *models.FeatureRecord) bool {
		return r.AnnualIncome != nil && *r.AnnualIncome == 45000 && r.LoanPurpose != nil && *r.LoanPurpose == "Car"
	})).Return(&models.PredictionResult{Approved: false, Probability: 31.4}, nil)

	rec := post(newTestHandler(t, model), `{"annual_income": 45000, "loan_amount": 15000, "loan_purpose": "Car", "unknown": 1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"approved": false, "probability": 31.4}`, rec.Body.String())
	model.AssertExpectations(t)
}

func TestHandler_FractionalCreditScore(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{`{"annual_income": 1, "loan_amount": 1, "credit_score": 720.0}`, 720},
		{`{"annual_income": 1, "loan_amount": 1, "credit_score": 720.6}`, 721},
	}

	for _, tt := range tests {
		model := new(MockModel)
		model.On("Predict", mock.Anything, mock.MatchedBy(func(r *models.FeatureRecord) bool {
			return r.CreditScore != nil && *r.CreditScore == tt.want
		})).Return(&models.PredictionResult{Approved: true, Probability: 70}, nil)

		rec := post(newTestHandler(t, model), tt.body)
		assert.Equal(t, http.StatusOK, rec.Code, tt.body)
		model.AssertExpectations(t)
	}
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode apperrors.ErrorCode
	}{
		{"not json", `annual_income=1`, apperrors.ErrCodeInvalidRequestBody},
		{"wrong type", `{"annual_income": "lots"}`, apperrors.ErrCodeInvalidRequestBody},
		{"credit score out of range", `{"annual_income": 1, "loan_amount": 1, "credit_score": 1e12}`, apperrors.ErrCodeInvalidRequestBody},
		{"ratio out of range", `{"annual_income": 1, "loan_amount": 1, "debt_to_income_ratio": 1.5}`, apperrors.ErrCodeInvalidFeatureRecord},
		{"bad grade", `{"annual_income": 1, "loan_amount": 1, "grade_subgrade": "Z9"}`, apperrors.ErrCodeInvalidFeatureRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := new(MockModel)
			rec := post(newTestHandler(t, model), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body apperrors.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			model.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_MissingDecisionFields(t *testing.T) {
	m, err := inference.Parse([]byte(testArtifact))
	require.NoError(t, err)

	rec := post(newTestHandler(t, m), `{"credit_score": 700}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperrors.ErrCodeInvalidFeatureRecord))
}

func TestHandler_ModelError(t *testing.T) {
	model := new(MockModel)
	model.On("Predict", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	rec := post(newTestHandler(t, model), `{"annual_income": 1, "loan_amount": 1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
