package voiceform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/ratelimit"
	"loan-predictor/internal/extraction"
	"loan-predictor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, audio []byte, mimeType string) (*extraction.Extraction, error) {
	args := m.Called(ctx, audio, mimeType)
	if out := args.Get(0); out != nil {
		return out.(*extraction.Extraction), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestHandler(t *testing.T, ex Extractor) *Handler {
	log := logger.NewTestLogger(t)
	return NewHandler(LoadConfig(), ex, apperrors.NewErrorHandler(log), log)
}

func multipartRequest(t *testing.T, field string, audio []byte, contentType string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="note.webm"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(audio)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, Route, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Success(t *testing.T) {
	ex := new(MockExtractor)
	ex.On("Extract", mock.Anything, []byte("voice"), "audio/ogg").Return(&extraction.Extraction{
		FeatureRecord: models.FeatureRecord{
			AnnualIncome: models.Float64(85000),
			CreditScore:  models.Int(742),
			LoanPurpose:  models.String("Home"),
		},
		NameSurname: models.String("Ada Lovelace"),
	}, nil)

	rec := httptest.NewRecorder()
	newTestHandler(t, ex).ServeHTTP(rec, multipartRequest(t, FormField, []byte("voice"), "audio/ogg"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{
		"annual_income", "debt_to_income_ratio", "credit_score", "loan_amount", "interest_rate",
		"gender", "marital_status", "education_level", "employment_status", "loan_purpose",
		"grade_subgrade", "name_surname",
	} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, 85000.0, body["annual_income"])
	assert.Equal(t, 742.0, body["credit_score"])
	assert.Nil(t, body["loan_amount"])
	assert.Equal(t, "Ada Lovelace", body["name_surname"])
	ex.AssertExpectations(t)
}

func TestHandler_DefaultMimeType(t *testing.T) {
	ex := new(MockExtractor)
	ex.On("Extract", mock.Anything, []byte("voice"), extraction.DefaultMimeType).
		Return(&extraction.Extraction{}, nil)

	rec := httptest.NewRecorder()
	newTestHandler(t, ex).ServeHTTP(rec, multipartRequest(t, FormField, []byte("voice"), ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	ex.AssertExpectations(t)
}

func TestHandler_InputErrors(t *testing.T) {
	tests := []struct {
		name     string
		request  func(t *testing.T) *http.Request
		wantCode apperrors.ErrorCode
	}{
		{
			name: "empty audio",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, FormField, nil, "audio/webm")
			},
			wantCode: apperrors.ErrCodeEmptyAudioInput,
		},
		{
			name: "missing field",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "recording", []byte("voice"), "audio/webm")
			},
			wantCode: apperrors.ErrCodeEmptyAudioInput,
		},
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, Route, bytes.NewBufferString(`{"audio": "x"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantCode: apperrors.ErrCodeInvalidRequestBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := new(MockExtractor)
			rec := httptest.NewRecorder()
			newTestHandler(t, ex).ServeHTTP(rec, tt.request(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body apperrors.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			ex.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_ExtractionErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"overloaded", apperrors.NewExtractionUnavailableError(3, extraction.ErrServiceOverloaded), http.StatusServiceUnavailable},
		{"malformed", apperrors.NewMalformedExtractionResponseError("missing gender", nil), http.StatusInternalServerError},
		{"fatal", apperrors.NewExtractionFailedError(errors.New("permission denied")), http.StatusInternalServerError},
		{"empty", apperrors.NewEmptyAudioInputError(), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := new(MockExtractor)
			ex.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			newTestHandler(t, ex).ServeHTTP(rec, multipartRequest(t, FormField, []byte("voice"), "audio/webm"))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_OverloadMessage(t *testing.T) {
	ex := new(MockExtractor)
	ex.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewExtractionUnavailableError(3, extraction.ErrServiceOverloaded))

	rec := httptest.NewRecorder()
	newTestHandler(t, ex).ServeHTTP(rec, multipartRequest(t, FormField, []byte("voice"), "audio/webm"))

	var body apperrors.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperrors.ErrCodeExtractionUnavailable, body.Code)
	assert.Contains(t, body.Message, "temporarily overloaded")
}

func TestHandler_RateLimited(t *testing.T) {
	ex := new(MockExtractor)
	ex.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(&extraction.Extraction{}, nil)

	log := logger.NewTestLogger(t)
	errs := apperrors.NewErrorHandler(log)
	h := ratelimit.NewPerMinute(1, 1).Middleware(errs)(NewHandler(LoadConfig(), ex, errs, log))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, FormField, []byte("voice"), "audio/webm"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, FormField, []byte("voice"), "audio/webm"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	ex.AssertNumberOfCalls(t, "Extract", 1)
}
