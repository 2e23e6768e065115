// internal/models/feature_record.go
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	apperrors "loan-predictor/internal/common/errors"
)

var gradeSubgradePattern = regexp.MustCompile(`^[A-F][1-5]$`)

// FeatureRecord holds the applicant attributes the classifier scores. A nil
// field means "unknown"; nothing is ever defaulted on the caller's behalf.
type FeatureRecord struct {
	AnnualIncome      *float64 `json:"annual_income"`
	DebtToIncomeRatio *float64 `json:"debt_to_income_ratio"`
	CreditScore       *int     `json:"credit_score"`
	LoanAmount        *float64 `json:"loan_amount"`
	InterestRate      *float64 `json:"interest_rate"`
	Gender            *string  `json:"gender"`
	MaritalStatus     *string  `json:"marital_status"`
	EducationLevel    *string  `json:"education_level"`
	EmploymentStatus  *string  `json:"employment_status"`
	LoanPurpose       *string  `json:"loan_purpose"`
	GradeSubgrade     *string  `json:"grade_subgrade"`
}

// UnmarshalFeatureRecord decodes data into r. credit_score may arrive as
// any JSON number (720, 720.0, 719.6) and is rounded to the nearest integer.
func UnmarshalFeatureRecord(data []byte, r *FeatureRecord) error {
	var wire struct {
		*FeatureRecord
		CreditScore *float64 `json:"credit_score"`
	}
	wire.FeatureRecord = r
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.CreditScore = nil
	if wire.CreditScore != nil {
		score, err := RoundCreditScore(*wire.CreditScore)
		if err != nil {
			return err
		}
		r.CreditScore = &score
	}
	return nil
}

// RoundCreditScore rounds half away from zero.
func RoundCreditScore(v float64) (int, error) {
	if !isFinite(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("credit_score %v out of range", v)
	}
	return int(math.Round(v)), nil
}

// Validate checks the values that are present. Absent fields always pass.
func (r *FeatureRecord) Validate() error {
	var problems []string

	numerics := []struct {
		name  string
		value *float64
	}{
		{"annual_income", r.AnnualIncome},
		{"debt_to_income_ratio", r.DebtToIncomeRatio},
		{"loan_amount", r.LoanAmount},
		{"interest_rate", r.InterestRate},
	}
	for _, n := range numerics {
		if n.value != nil && !isFinite(*n.value) {
			problems = append(problems, fmt.Sprintf("%s must be a finite number", n.name))
		}
	}

	if r.DebtToIncomeRatio != nil && isFinite(*r.DebtToIncomeRatio) &&
		(*r.DebtToIncomeRatio < 0 || *r.DebtToIncomeRatio > 1) {
		problems = append(problems, "debt_to_income_ratio must be between 0 and 1")
	}

	if r.GradeSubgrade != nil && !gradeSubgradePattern.MatchString(*r.GradeSubgrade) {
		problems = append(problems, "grade_subgrade must be a letter A-F followed by a digit 1-5")
	}

	if len(problems) > 0 {
		return apperrors.NewInvalidFeatureRecordError(strings.Join(problems, "; "))
	}
	return nil
}

// RequireDecisionFields fails unless annual_income and loan_amount are both present.
func (r *FeatureRecord) RequireDecisionFields() error {
	var missing []string
	if r.AnnualIncome == nil {
		missing = append(missing, "annual_income")
	}
	if r.LoanAmount == nil {
		missing = append(missing, "loan_amount")
	}
	if len(missing) > 0 {
		return apperrors.NewInvalidFeatureRecordError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// ValidateForDecision runs Validate then RequireDecisionFields.
func (r *FeatureRecord) ValidateForDecision() error {
	if err := r.Validate(); err != nil {
		return err
	}
	return r.RequireDecisionFields()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
