// internal/handlers/scoring/voice-form/handler.go
package voiceform

import (
	"context"
	"errors"
	"io"
	"net/http"

	apperrors "loan-predictor/internal/common/errors"
	httputil "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/extraction"
)

const Route = "/voice-form"

// Extractor is satisfied by *extraction.Extractor.
type Extractor interface {
	Extract(ctx context.Context, audio []byte, mimeType string) (*extraction.Extraction, error)
}

type Handler struct {
	config    *Config
	extractor Extractor
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, extractor Extractor, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		extractor: extractor,
		errors:    errs,
		logger:    log.WithFields(map[string]interface{}{"route": Route}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	audio, mimeType, err := h.readAudio(w, r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.logger.Info("voice form received", map[string]interface{}{
		"bytes":    len(audio),
		"mimeType": mimeType,
	})

	out, err := h.extractor.Extract(r.Context(), audio, mimeType)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) readAudio(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		return nil, "", apperrors.NewInvalidRequestBodyError(err)
	}

	file, header, err := r.FormFile(FormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", apperrors.NewEmptyAudioInputError()
		}
		return nil, "", apperrors.NewInvalidRequestBodyError(err)
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return nil, "", apperrors.NewInvalidRequestBodyError(err)
	}
	if len(audio) == 0 {
		return nil, "", apperrors.NewEmptyAudioInputError()
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = extraction.DefaultMimeType
	}
	return audio, mimeType, nil
}
