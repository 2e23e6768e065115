package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"loan-predictor/internal/common/database"
	"loan-predictor/internal/repository"
)

func newMigrateCommand(opts *options) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the prediction_records table if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), repository.Schema)
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			pg, err := database.NewPostgres(cmd.Context(), cfg.Database.Postgres, 5*time.Second)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := repository.EnsureSchema(cmd.Context(), pg.GetDB()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready on %s/%s\n", cfg.Database.Postgres.Host, cfg.Database.Postgres.Database)
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the DDL instead of applying it")
	return cmd
}
