// internal/handlers/scoring/predict/handler.go
package predict

import (
	"context"
	"io"
	"net/http"

	apperrors "loan-predictor/internal/common/errors"
	httputil "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/models"
)

const Route = "/predict"

// Model is satisfied by *inference.Model.
type Model interface {
	Predict(ctx context.Context, r *models.FeatureRecord) (*models.PredictionResult, error)
}

type Handler struct {
	config *Config
	model  Model
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, model Model, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		model:  model,
		errors: errs,
		logger: log.WithFields(map[string]interface{}{"route": Route}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	var input Input
	if err := models.UnmarshalFeatureRecord(body, &input); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	output, err := h.execute(r.Context(), &input)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	result, err := h.model.Predict(ctx, input)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("prediction served", map[string]interface{}{
		"approved":    result.Approved,
		"probability": result.Probability,
	})

	return &Output{
		Approved:    result.Approved,
		Probability: result.Probability,
	}, nil
}
