// Package extraction turns a spoken loan application into a FeatureRecord
// through a structured-output generative API call.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/metrics"
	"loan-predictor/internal/models"
)

const DefaultMimeType = "audio/webm"

// Extraction is the full extractor output. Every field is always present in
// its JSON form, null when the speaker did not mention it.
type Extraction struct {
	models.FeatureRecord
	NameSurname *string `json:"name_surname"`
}

// Sleeper waits d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Config struct {
	MaxAttempts    int
	BackoffBase    time.Duration
	AttemptTimeout time.Duration
}

type Option func(*Extractor)

// WithSleeper replaces the real timer, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(e *Extractor) { e.sleep = s }
}

type Extractor struct {
	client GenAIClient
	config Config
	sleep  Sleeper
	logger logger.Logger
}

func NewExtractor(client GenAIClient, cfg Config, log logger.Logger, opts ...Option) *Extractor {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	e := &Extractor{
		client: client,
		config: cfg,
		sleep:  contextSleep,
		logger: log.WithFields(map[string]interface{}{"component": "extractor"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs Idle -> Requesting -> {Success, retry on overload, FatalFailure, ParseFailure}.
// Only ErrServiceOverloaded is retried, with a linear attempt*base backoff.
func (e *Extractor) Extract(ctx context.Context, audio []byte, mimeType string) (*Extraction, error) {
	if len(audio) == 0 {
		return nil, apperrors.NewEmptyAudioInputError()
	}
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	start := time.Now()
	defer func() { metrics.ExtractionDuration.Observe(time.Since(start).Seconds()) }()

	req := GenerateRequest{
		Instruction:    Instruction,
		Audio:          audio,
		MimeType:       mimeType,
		ResponseSchema: ResponseSchema(),
	}

	var lastErr error
	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		text, err := e.call(ctx, req)
		if err == nil {
			out, perr := Parse(text)
			if perr != nil {
				metrics.ExtractionAttempts.WithLabelValues("malformed").Inc()
				e.logger.Error("extraction response did not match schema", map[string]interface{}{
					"attempt":  attempt,
					"endpoint": e.client.Endpoint(),
					"error":    perr.Error(),
				})
				return nil, perr
			}
			metrics.ExtractionAttempts.WithLabelValues("success").Inc()
			e.logger.Info("extraction completed", map[string]interface{}{
				"attempt":  attempt,
				"duration": time.Since(start).String(),
			})
			return out, nil
		}
		lastErr = err

		if !errors.Is(err, ErrServiceOverloaded) {
			metrics.ExtractionAttempts.WithLabelValues("fatal").Inc()
			e.logger.Error("extraction call failed", map[string]interface{}{
				"attempt":    attempt,
				"endpoint":   e.client.Endpoint(),
				"errorClass": "fatal",
				"error":      err.Error(),
			})
			return nil, apperrors.NewExtractionFailedError(err)
		}

		metrics.ExtractionAttempts.WithLabelValues("overloaded").Inc()
		e.logger.Warn("generative API overloaded", map[string]interface{}{
			"attempt":     attempt,
			"maxAttempts": e.config.MaxAttempts,
			"endpoint":    e.client.Endpoint(),
			"errorClass":  "transient",
			"error":       err.Error(),
		})

		if attempt == e.config.MaxAttempts {
			break
		}
		if err := e.sleep(ctx, time.Duration(attempt)*e.config.BackoffBase); err != nil {
			return nil, apperrors.NewExtractionFailedError(err)
		}
	}

	return nil, apperrors.NewExtractionUnavailableError(e.config.MaxAttempts, lastErr)
}

func (e *Extractor) call(ctx context.Context, req GenerateRequest) (string, error) {
	if e.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.AttemptTimeout)
		defer cancel()
	}
	return e.client.GenerateStructured(ctx, req)
}

// rawExtraction mirrors the response schema; credit_score arrives as a JSON number.
type rawExtraction struct {
	AnnualIncome      *float64 `json:"annual_income"`
	DebtToIncomeRatio *float64 `json:"debt_to_income_ratio"`
	CreditScore       *float64 `json:"credit_score"`
	LoanAmount        *float64 `json:"loan_amount"`
	InterestRate      *float64 `json:"interest_rate"`
	NameSurname       *string  `json:"name_surname"`
	Gender            *string  `json:"gender"`
	MaritalStatus     *string  `json:"marital_status"`
	EducationLevel    *string  `json:"education_level"`
	EmploymentStatus  *string  `json:"employment_status"`
	LoanPurpose       *string  `json:"loan_purpose"`
	GradeSubgrade     *string  `json:"grade_subgrade"`
}

// Parse validates text against the declared schema and decodes it. Every
// field must be present; a missing field is malformed, not unknown.
func Parse(text string) (*Extraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewMalformedExtractionResponseError("empty response text", nil)
	}

	result, err := responseValidator.ValidateBytes([]byte(text))
	if err != nil {
		return nil, apperrors.NewMalformedExtractionResponseError("response is not JSON", err)
	}
	if !result.Valid {
		return nil, apperrors.NewMalformedExtractionResponseError(strings.Join(result.GetErrorMessages(), "; "), nil)
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, apperrors.NewMalformedExtractionResponseError("response does not decode", err)
	}

	out := &Extraction{
		FeatureRecord: models.FeatureRecord{
			AnnualIncome:      raw.AnnualIncome,
			DebtToIncomeRatio: raw.DebtToIncomeRatio,
			LoanAmount:        raw.LoanAmount,
			InterestRate:      raw.InterestRate,
			Gender:            raw.Gender,
			MaritalStatus:     raw.MaritalStatus,
			EducationLevel:    raw.EducationLevel,
			EmploymentStatus:  raw.EmploymentStatus,
			LoanPurpose:       raw.LoanPurpose,
			GradeSubgrade:     raw.GradeSubgrade,
		},
		NameSurname: raw.NameSurname,
	}

	if raw.CreditScore != nil {
		score, err := models.RoundCreditScore(*raw.CreditScore)
		if err != nil {
			return nil, apperrors.NewMalformedExtractionResponseError("credit_score out of range", err)
		}
		out.CreditScore = &score
	}

	return out, nil
}
