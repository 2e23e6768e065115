// internal/handlers/portal/list-predictions/handler.go
package listpredictions

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	apperrors "loan-predictor/internal/common/errors"
	httputil "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/models"
)

const Route = "/predictions"

// Lister is satisfied by *repository.PredictionRepository.
type Lister interface {
	List(ctx context.Context, limit int) ([]models.PredictionRecord, error)
}

type Handler struct {
	config *Config
	store  Lister
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, store Lister, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		errors: errs,
		logger: log.WithFields(map[string]interface{}{"route": Route}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := h.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	records, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, Output{Records: records, Count: len(records)})
}

func (h *Handler) parseLimit(raw string) (int, error) {
	if raw == "" {
		return h.config.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, apperrors.NewInvalidRequestBodyError(fmt.Errorf("limit must be a positive integer, got %q", raw))
	}
	if limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}
	return limit, nil
}
