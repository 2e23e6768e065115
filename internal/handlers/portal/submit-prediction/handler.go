// internal/handlers/portal/submit-prediction/handler.go
package submitprediction

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "loan-predictor/internal/common/errors"
	httputil "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/models"
)

const Route = "/predictions"

// Predictor is satisfied by *predictor.Service.
type Predictor interface {
	Predict(ctx context.Context, record *models.FeatureRecord) (*models.Outcome, error)
}

// Store is satisfied by *repository.PredictionRepository.
type Store interface {
	Create(ctx context.Context, rec *models.PredictionRecord) error
}

type Handler struct {
	config    *Config
	predictor Predictor
	store     Store
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, predictor Predictor, store Store, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		predictor: predictor,
		store:     store,
		errors:    errs,
		logger:    log.WithFields(map[string]interface{}{"route": Route}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	result, err := inputSchema.ValidateBytes(body)
	if err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	if !result.Valid {
		h.logger.Warn("submission rejected", map[string]interface{}{
			"errors": result.GetErrorMessages(),
		})
		httputil.WriteJSON(w, http.StatusBadRequest, ValidationFailure{
			Code:    string(apperrors.ErrCodeInvalidFeatureRecord),
			Message: "Submission has invalid fields",
			Errors:  result.Errors,
		})
		return
	}

	var input Input
	if err := json.Unmarshal(body, &input); err != nil {
		h.errors.WriteError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	output, err := h.execute(r.Context(), &input)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	outcome, err := h.predictor.Predict(ctx, &input.FeatureRecord)
	if err != nil {
		return nil, err
	}

	rec := &models.PredictionRecord{
		FeatureRecord: input.FeatureRecord,
		NameSurname:   normalizeName(input.NameSurname),
		Approved:      outcome.Result.Approved,
		Probability:   outcome.Result.Probability,
		Source:        outcome.Source,
	}
	if err := h.store.Create(ctx, rec); err != nil {
		return nil, err
	}

	h.logger.Info("prediction recorded", map[string]interface{}{
		"id":       rec.ID,
		"source":   string(rec.Source),
		"approved": rec.Approved,
	})

	return &Output{Record: rec, Message: outcome.Message}, nil
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
