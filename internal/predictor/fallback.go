package predictor

import (
	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/models"
)

const (
	fallbackRatioThreshold = 2.0
	fallbackApproveProb    = 0.85
	fallbackRejectProb     = 0.35
)

// Fallback is a crude income-to-loan heuristic used only when the scoring
// backend is unavailable. It is not a model decision and its probabilities
// are fixed markers, not calibrated estimates on the model's 0-100 scale.
func Fallback(r *models.FeatureRecord) (models.PredictionResult, error) {
	if r.AnnualIncome == nil || !(*r.AnnualIncome > 0) {
		return models.PredictionResult{}, apperrors.NewInvalidFeatureRecordError("annual_income must be a positive number")
	}
	if r.LoanAmount == nil || !(*r.LoanAmount > 0) {
		return models.PredictionResult{}, apperrors.NewInvalidFeatureRecordError("loan_amount must be a positive number")
	}

	if *r.AnnualIncome / *r.LoanAmount > fallbackRatioThreshold {
		return models.PredictionResult{Approved: true, Probability: fallbackApproveProb}, nil
	}
	return models.PredictionResult{Approved: false, Probability: fallbackRejectProb}, nil
}
