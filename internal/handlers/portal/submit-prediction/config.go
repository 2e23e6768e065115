// internal/handlers/portal/submit-prediction/config.go
package submitprediction

type Config struct {
	MaxBodyBytes int64
}

func LoadConfig() *Config {
	return &Config{
		MaxBodyBytes: 1 << 20,
	}
}
