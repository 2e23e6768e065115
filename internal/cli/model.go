package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"loan-predictor/internal/inference"
	"loan-predictor/internal/models"
)

func newValidateModelCommand(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate-model",
		Short: "Load a model artifact and report its shape",
		Long: `Loads the artifact the scoring API would load at startup and scores an
all-unknown record, so a broken artifact fails here instead of at boot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Model.Path
			}

			model, err := inference.Load(path)
			if err != nil {
				return err
			}
			baseline, err := model.Score(&models.FeatureRecord{})
			if err != nil {
				return fmt.Errorf("score empty record: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "artifact:  %s\n", path)
			fmt.Fprintf(out, "version:   %s\n", model.Version())
			fmt.Fprintf(out, "threshold: %.2f\n", model.Threshold())
			fmt.Fprintf(out, "features:  %d encoded columns\n", model.Width())
			fmt.Fprintf(out, "baseline:  %.2f%%\n", models.Round(baseline*100, 2))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "artifact path (default: model.path from config)")
	return cmd
}

func newScoreCommand(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "score <record.json>",
		Short: "Score a feature record file with the local model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}

			var record models.FeatureRecord
			if err := models.UnmarshalFeatureRecord(data, &record); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			if err := record.Validate(); err != nil {
				return err
			}

			if path == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Model.Path
			}
			model, err := inference.Load(path)
			if err != nil {
				return err
			}

			result, err := model.Predict(cmd.Context(), &record)
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&path, "model", "", "artifact path (default: model.path from config)")
	return cmd
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
