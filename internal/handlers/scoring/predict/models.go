// internal/handlers/scoring/predict/models.go
package predict

import "loan-predictor/internal/models"

// Input is the /predict request body; unknown keys are ignored.
type Input = models.FeatureRecord

type Output struct {
	Approved    bool    `json:"approved"`
	Probability float64 `json:"probability"`
}
