// Package server assembles the chi routers for both services.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "loan-predictor/internal/common/errors"
	httputil "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/observability"
	"loan-predictor/internal/common/ratelimit"

	getprediction "loan-predictor/internal/handlers/portal/get-prediction"
	listpredictions "loan-predictor/internal/handlers/portal/list-predictions"
	submitprediction "loan-predictor/internal/handlers/portal/submit-prediction"
	predict "loan-predictor/internal/handlers/scoring/predict"
	voiceform "loan-predictor/internal/handlers/scoring/voice-form"
)

// ScoringDeps are the collaborators of the scoring API.
type ScoringDeps struct {
	Model          predict.Model
	Extractor      voiceform.Extractor
	Limiter        *ratelimit.Limiter
	MaxUploadBytes int64

	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP set the client
	// address. Only enable behind a proxy that overwrites them.
	TrustProxyHeaders bool
	Observability     *observability.Observability
	Logger            logger.Logger
}

// PortalStore is satisfied by *repository.PredictionRepository.
type PortalStore interface {
	submitprediction.Store
	listpredictions.Lister
	getprediction.Getter
}

// PortalDeps are the collaborators of the loan portal.
type PortalDeps struct {
	Predictor         submitprediction.Predictor
	Store             PortalStore
	TrustProxyHeaders bool
	Observability     *observability.Observability
	Logger            logger.Logger
}

func newRouter(obs *observability.Observability, trustProxyHeaders bool) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if trustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(httputil.AllowAllOrigins)
	if obs != nil {
		r.Use(obs.Middleware)
	}

	r.Get("/healthz", httputil.Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// NewScoringRouter serves POST /predict and the rate-limited POST /voice-form.
func NewScoringRouter(d ScoringDeps) http.Handler {
	errs := apperrors.NewErrorHandler(d.Logger)
	r := newRouter(d.Observability, d.TrustProxyHeaders)

	r.Method(http.MethodPost, predict.Route, predict.NewHandler(predict.LoadConfig(), d.Model, errs, d.Logger))

	voiceCfg := voiceform.LoadConfig()
	if d.MaxUploadBytes > 0 {
		voiceCfg.MaxUploadBytes = d.MaxUploadBytes
	}
	voice := voiceform.NewHandler(voiceCfg, d.Extractor, errs, d.Logger)
	if d.Limiter != nil {
		r.With(d.Limiter.Middleware(errs)).Method(http.MethodPost, voiceform.Route, voice)
	} else {
		r.Method(http.MethodPost, voiceform.Route, voice)
	}
	return r
}

// NewPortalRouter serves submission, history and detail.
func NewPortalRouter(d PortalDeps) http.Handler {
	errs := apperrors.NewErrorHandler(d.Logger)
	r := newRouter(d.Observability, d.TrustProxyHeaders)

	r.Method(http.MethodPost, submitprediction.Route,
		submitprediction.NewHandler(submitprediction.LoadConfig(), d.Predictor, d.Store, errs, d.Logger))
	r.Method(http.MethodGet, listpredictions.Route,
		listpredictions.NewHandler(listpredictions.LoadConfig(), d.Store, errs, d.Logger))
	r.Method(http.MethodGet, getprediction.Route,
		getprediction.NewHandler(d.Store, errs, d.Logger))
	return r
}
