// internal/handlers/scoring/voice-form/config.go
package voiceform

type Config struct {
	MaxUploadBytes int64
}

func LoadConfig() *Config {
	return &Config{
		MaxUploadBytes: 20 << 20,
	}
}
