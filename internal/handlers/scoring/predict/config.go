// internal/handlers/scoring/predict/config.go
package predict

type Config struct {
	MaxBodyBytes int64
}

func LoadConfig() *Config {
	return &Config{
		MaxBodyBytes: 1 << 20,
	}
}
