// internal/models/prediction.go
package models

import (
	"math"
	"time"
)

// Source tells a genuine model decision apart from the fallback heuristic.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

const (
	MessageModel    = "Prediction from API successful."
	MessageFallback = "Fallback prediction logic applied."
)

// PredictionResult is a decision plus the probability of repayment on a 0-100 scale.
type PredictionResult struct {
	Approved    bool    `json:"approved"`
	Probability float64 `json:"probability"`
}

// Outcome is a PredictionResult with its provenance.
type Outcome struct {
	Result  PredictionResult `json:"result"`
	Source  Source           `json:"source"`
	Message string           `json:"message"`
}

// PredictionRecord is one persisted, completed prediction. Insert-once.
type PredictionRecord struct {
	FeatureRecord
	ID          string    `json:"id"`
	NameSurname *string   `json:"name_surname"`
	Approved    bool      `json:"approved"`
	Probability float64   `json:"probability"`
	Source      Source    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
