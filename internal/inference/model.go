// Package inference scores feature records with the persisted loan pipeline:
// standardized numerics plus one-hot categoricals feeding a logistic model.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/metrics"
	"loan-predictor/internal/models"
)

// Artifact is the on-disk form of the pipeline.
type Artifact struct {
	Version      string               `json:"version"`
	Threshold    float64              `json:"threshold"`
	Intercept    float64              `json:"intercept"`
	Numeric      []NumericFeature     `json:"numeric"`
	Categorical  []CategoricalFeature `json:"categorical"`
	Coefficients []float64            `json:"coefficients"`
}

type NumericFeature struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

type CategoricalFeature struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Model is immutable once built and safe for concurrent use without locking.
type Model struct {
	artifact Artifact
	numeric  []numericColumn
	columns  []categoricalColumn
	width    int
}

type numericColumn struct {
	NumericFeature
	get func(*models.FeatureRecord) *float64
}

type categoricalColumn struct {
	name   string
	offset int
	index  map[string]int
	get    func(*models.FeatureRecord) *string
}

var numericGetters = map[string]func(*models.FeatureRecord) *float64{
	"annual_income":        func(r *models.FeatureRecord) *float64 { return r.AnnualIncome },
	"debt_to_income_ratio": func(r *models.FeatureRecord) *float64 { return r.DebtToIncomeRatio },
	"loan_amount":          func(r *models.FeatureRecord) *float64 { return r.LoanAmount },
	"interest_rate":        func(r *models.FeatureRecord) *float64 { return r.InterestRate },
	"credit_score": func(r *models.FeatureRecord) *float64 {
		if r.CreditScore == nil {
			return nil
		}
		v := float64(*r.CreditScore)
		return &v
	},
}

var categoricalGetters = map[string]func(*models.FeatureRecord) *string{
	"gender":            func(r *models.FeatureRecord) *string { return r.Gender },
	"marital_status":    func(r *models.FeatureRecord) *string { return r.MaritalStatus },
	"education_level":   func(r *models.FeatureRecord) *string { return r.EducationLevel },
	"employment_status": func(r *models.FeatureRecord) *string { return r.EmploymentStatus },
	"loan_purpose":      func(r *models.FeatureRecord) *string { return r.LoanPurpose },
	"grade_subgrade":    func(r *models.FeatureRecord) *string { return r.GradeSubgrade },
}

// Load reads the artifact at path. Every failure is ModelUnavailable.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewModelUnavailableError(path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, apperrors.NewModelUnavailableError(path, err)
	}
	return m, nil
}

// Parse decodes and structurally checks an artifact document.
func Parse(data []byte) (*Model, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return New(a)
}

// New builds a Model from an in-memory artifact.
func New(a Artifact) (*Model, error) {
	if a.Version == "" {
		return nil, fmt.Errorf("artifact has no version")
	}
	if a.Threshold <= 0 || a.Threshold >= 1 {
		return nil, fmt.Errorf("threshold %v outside (0,1)", a.Threshold)
	}

	m := &Model{artifact: a}
	seen := map[string]bool{}

	for _, f := range a.Numeric {
		get, ok := numericGetters[f.Name]
		if !ok {
			return nil, fmt.Errorf("unknown numeric feature %q", f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate feature %q", f.Name)
		}
		if f.Scale == 0 || math.IsNaN(f.Scale) || math.IsNaN(f.Mean) {
			return nil, fmt.Errorf("numeric feature %q has unusable mean/scale", f.Name)
		}
		seen[f.Name] = true
		m.numeric = append(m.numeric, numericColumn{NumericFeature: f, get: get})
	}

	offset := len(a.Numeric)
	for _, f := range a.Categorical {
		get, ok := categoricalGetters[f.Name]
		if !ok {
			return nil, fmt.Errorf("unknown categorical feature %q", f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate feature %q", f.Name)
		}
		seen[f.Name] = true

		index := make(map[string]int, len(f.Categories))
		for i, c := range f.Categories {
			index[c] = i
		}
		m.columns = append(m.columns, categoricalColumn{name: f.Name, offset: offset, index: index, get: get})
		offset += len(f.Categories)
	}

	m.width = offset
	if len(a.Coefficients) != m.width {
		return nil, fmt.Errorf("artifact has %d coefficients, encoded width is %d", len(a.Coefficients), m.width)
	}

	return m, nil
}

func (m *Model) Version() string    { return m.artifact.Version }
func (m *Model) Threshold() float64 { return m.artifact.Threshold }

// Width is the length of the encoded feature vector.
func (m *Model) Width() int { return m.width }

// Vectorize encodes r in the artifact's feature order. Absent numerics sit at
// the training mean (0 after scaling); absent or unseen categoricals encode as
// all zeros. Only a present non-finite number is rejected.
func (m *Model) Vectorize(r *models.FeatureRecord) ([]float64, error) {
	x := make([]float64, m.width)

	for i, col := range m.numeric {
		v := col.get(r)
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return nil, apperrors.NewInvalidFeatureRecordError(fmt.Sprintf("%s must be a finite number", col.Name))
		}
		x[i] = (*v - col.Mean) / col.Scale
	}

	for _, col := range m.columns {
		v := col.get(r)
		if v == nil {
			continue
		}
		if j, ok := col.index[*v]; ok {
			x[col.offset+j] = 1
		}
	}

	return x, nil
}

// Score returns the raw probability of repayment in [0,1].
func (m *Model) Score(r *models.FeatureRecord) (float64, error) {
	x, err := m.Vectorize(r)
	if err != nil {
		return 0, err
	}
	z := m.artifact.Intercept
	for i, w := range m.artifact.Coefficients {
		z += w * x[i]
	}
	return sigmoid(z), nil
}

// Predict scores a record that carries the decision fields.
func (m *Model) Predict(ctx context.Context, r *models.FeatureRecord) (*models.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.RequireDecisionFields(); err != nil {
		return nil, err
	}

	start := time.Now()
	p, err := m.Score(r)
	metrics.ModelInferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	return &models.PredictionResult{
		Approved:    p >= m.artifact.Threshold,
		Probability: models.Round(p*100, 2),
	}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
