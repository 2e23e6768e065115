package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loan-predictor/internal/common/config"
	"loan-predictor/internal/extraction"
)

func newExtractCommand(opts *options) *cobra.Command {
	var mimeType string

	cmd := &cobra.Command{
		Use:   "extract <audio-file>",
		Short: "Extract a feature record from a recorded voice note",
		Long: `Sends the audio file through the same extraction path as POST /voice-form,
including the overload retry loop, and prints the resulting record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			genai := cfg.APIs.GenAI
			if genai.APIKey == "" {
				return fmt.Errorf("apis.genai.api_key is required (set GEMINI_API_KEY)")
			}

			audio, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read audio: %w", err)
			}
			if mimeType == "" {
				mimeType = audioMimeType(args[0])
			}

			client := extraction.NewGeminiClient(genai.BaseURL, genai.Model, genai.APIKey, config.GetDuration(genai.Timeout))
			extractor := extraction.NewExtractor(client, extraction.Config{
				MaxAttempts:    genai.MaxAttempts,
				BackoffBase:    config.GetDuration(genai.BackoffBase),
				AttemptTimeout: config.GetDuration(genai.Timeout),
			}, opts.logger())

			out, err := extractor.Extract(cmd.Context(), audio, mimeType)
			if err != nil {
				return err
			}
			return writeJSON(cmd, out)
		},
	}

	cmd.Flags().StringVar(&mimeType, "mime", "", "audio MIME type (default: from file extension, else audio/webm)")
	return cmd
}

func audioMimeType(path string) string {
	switch ext := filepath.Ext(path); ext {
	case ".webm":
		return "audio/webm"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return extraction.DefaultMimeType
	}
}
