// internal/handlers/portal/get-prediction/handler.go
package getprediction

import (
	"context"
	"net/http"

	apperrors "loan-predictor/internal/common/errors"
	httputil "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/models"

	"github.com/go-chi/chi/v5"
)

// Getter is satisfied by *repository.PredictionRepository.
type Getter interface {
	Get(ctx context.Context, id string) (*models.PredictionRecord, error)
}

type Handler struct {
	store  Getter
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(store Getter, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		store:  store,
		errors: errs,
		logger: log.WithFields(map[string]interface{}{"route": Route}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(r.Context(), chi.URLParam(r, IDParam))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}
