// internal/handlers/portal/list-predictions/models.go
package listpredictions

import "loan-predictor/internal/models"

type Output struct {
	Records []models.PredictionRecord `json:"records"`
	Count   int                       `json:"count"`
}
