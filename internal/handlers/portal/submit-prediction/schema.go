// internal/handlers/portal/submit-prediction/schema.go
package submitprediction

import (
	"encoding/json"

	"loan-predictor/internal/common/validation"
	"loan-predictor/internal/models"
)

var inputSchema = validation.MustCompile(buildInputSchema())

func nullableEnum(choices []string) map[string]interface{} {
	enum := make([]interface{}, 0, len(choices)+1)
	for _, c := range choices {
		enum = append(enum, c)
	}
	enum = append(enum, nil)
	return map[string]interface{}{"enum": enum}
}

func buildInputSchema() string {
	nullableNumber := func(extra map[string]interface{}) map[string]interface{} {
		s := map[string]interface{}{"type": []string{"number", "null"}}
		for k, v := range extra {
			s[k] = v
		}
		return s
	}

	schema := map[string]interface{}{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []string{"annual_income", "loan_amount"},
		"properties": map[string]interface{}{
			"name_surname": map[string]interface{}{
				"type":      []string{"string", "null"},
				"maxLength": 100,
			},
			"annual_income":        map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
			"loan_amount":          map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
			"debt_to_income_ratio": nullableNumber(map[string]interface{}{"minimum": 0, "maximum": 1}),
			"interest_rate":        nullableNumber(map[string]interface{}{"minimum": 0}),
			"credit_score": map[string]interface{}{
				"type":    []string{"integer", "null"},
				"minimum": 0,
			},
			"gender":            nullableEnum(models.GenderChoices),
			"marital_status":    nullableEnum(models.MaritalStatusChoices),
			"education_level":   nullableEnum(models.EducationLevelChoices),
			"employment_status": nullableEnum(models.EmploymentStatusChoices),
			"loan_purpose":      nullableEnum(models.LoanPurposeChoices),
			"grade_subgrade":    nullableEnum(models.GradeSubgradeChoices()),
		},
	}

	data, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return string(data)
}
