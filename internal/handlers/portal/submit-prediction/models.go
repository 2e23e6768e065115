// internal/handlers/portal/submit-prediction/models.go
package submitprediction

import (
	"encoding/json"

	"loan-predictor/internal/common/validation"
	"loan-predictor/internal/models"
)

// Input is an applicant submission: an optional name plus the feature fields.
type Input struct {
	NameSurname *string `json:"name_surname"`
	models.FeatureRecord
}

func (in *Input) UnmarshalJSON(data []byte) error {
	var named struct {
		NameSurname *string `json:"name_surname"`
	}
	if err := json.Unmarshal(data, &named); err != nil {
		return err
	}
	if err := models.UnmarshalFeatureRecord(data, &in.FeatureRecord); err != nil {
		return err
	}
	in.NameSurname = named.NameSurname
	return nil
}

type Output struct {
	Record  *models.PredictionRecord `json:"record"`
	Message string                   `json:"message"`
}

// ValidationFailure lists every rejected field of a submission.
type ValidationFailure struct {
	Code    string                       `json:"code"`
	Message string                       `json:"message"`
	Errors  []validation.ValidationError `json:"errors"`
}
