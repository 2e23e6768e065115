// Package cli implements loanctl, the operator tool for model artifacts,
// offline scoring, voice extraction and schema setup.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"loan-predictor/internal/common/config"
	"loan-predictor/internal/common/logger"
)

const version = "loanctl v0.3.0"

type options struct {
	cfgFile string
	verbose bool
}

// NewRootCommand builds the loanctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "loanctl",
		Short: "Operator tooling for the loan prediction services",
		Long: `loanctl checks model artifacts, scores feature records offline,
runs voice extraction against the configured generative API and prepares
the portal database.

Configuration is read from configs/config.yaml unless --config is given.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: configs/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newVersionCommand(),
		newValidateModelCommand(opts),
		newScoreCommand(opts),
		newExtractCommand(opts),
		newMigrateCommand(opts),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.cfgFile != "" {
		return config.LoadFromFile(o.cfgFile)
	}
	return config.Load()
}

// logger writes to stderr so command output stays machine-readable.
func (o *options) logger() logger.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return logger.NewZapAdapter(logger.NewWithOutput(level, "console", "stderr"))
}
