package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/pkg/database"
)

func newMigrateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			st, err := database.MigrateUp(cfg.Database.URL())
			if err != nil {
				return err
			}
			log.Info("migrated up", zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			st, err := database.MigrateDown(cfg.Database.URL(), steps)
			if err != nil {
				return err
			}
			log.Info("migrated down", zap.Int("steps", steps), zap.Uint("version", st.Version))
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}
