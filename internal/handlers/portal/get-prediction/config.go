// internal/handlers/portal/get-prediction/config.go
package getprediction

const (
	Route   = "/predictions/{id}"
	IDParam = "id"
)
