// internal/handlers/portal/list-predictions/config.go
package listpredictions

import "loan-predictor/internal/repository"

type Config struct {
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig() *Config {
	return &Config{
		DefaultLimit: repository.DefaultListLimit,
		MaxLimit:     repository.MaxListLimit,
	}
}
