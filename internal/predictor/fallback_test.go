package predictor

import (
	"fmt"
	"testing"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		income, loan float64
		want         models.PredictionResult
	}{
		{60000, 20000, models.PredictionResult{Approved: true, Probability: 0.85}},
		{20000, 20000, models.PredictionResult{Approved: false, Probability: 0.35}},
		{40000, 20000, models.PredictionResult{Approved: false, Probability: 0.35}}, // exactly 2
		{40001, 20000, models.PredictionResult{Approved: true, Probability: 0.85}},
		{1, 1000000, models.PredictionResult{Approved: false, Probability: 0.35}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.0f/%.0f", tt.income, tt.loan), func(t *testing.T) {
			got, err := Fallback(&models.FeatureRecord{
				AnnualIncome: models.Float64(tt.income),
				LoanAmount:   models.Float64(tt.loan),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFallback_RatioProperty(t *testing.T) {
	for income := 1000.0; income <= 200000; income += 7919 {
		for loan := 500.0; loan <= 100000; loan += 3571 {
			got, err := Fallback(&models.FeatureRecord{AnnualIncome: &income, LoanAmount: &loan})
			require.NoError(t, err)
			if income/loan > 2 {
				assert.Equal(t, models.PredictionResult{Approved: true, Probability: 0.85}, got)
			} else {
				assert.Equal(t, models.PredictionResult{Approved: false, Probability: 0.35}, got)
			}
		}
	}
}

func TestFallback_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		record models.FeatureRecord
	}{
		{"missing income", models.FeatureRecord{LoanAmount: models.Float64(1000)}},
		{"missing loan", models.FeatureRecord{AnnualIncome: models.Float64(1000)}},
		{"zero loan", models.FeatureRecord{AnnualIncome: models.Float64(1000), LoanAmount: models.Float64(0)}},
		{"negative income", models.FeatureRecord{AnnualIncome: models.Float64(-5), LoanAmount: models.Float64(1000)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fallback(&tt.record)
			assert.ErrorIs(t, err, apperrors.ErrInvalidFeatureRecord)
		})
	}
}
