package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/internal/di"
	"github.com/kmarfadi/munasaba-backend/internal/repository"
	"github.com/kmarfadi/munasaba-backend/internal/seed"
	"github.com/kmarfadi/munasaba-backend/pkg/database"
)

func newSeedCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load or remove demo data",
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Insert demo organizations, users, events and guests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeeder(cmd.Context(), opts, func(ctx context.Context, s *seed.Seeder) error {
				sum, err := s.Run(ctx)
				if err != nil {
					return err
				}
				if sum.Skipped {
					fmt.Fprintln(cmd.OutOrStdout(), "demo data already present")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d organizations, %d users, %d events, %d guests\n",
					sum.Organizations, sum.Users, sum.Events, sum.Guests)
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all guests, events, users and organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeeder(cmd.Context(), opts, func(ctx context.Context, s *seed.Seeder) error {
				return s.Clear(ctx)
			})
		},
	}

	cmd.AddCommand(run, clearCmd)
	return cmd
}

func withSeeder(ctx context.Context, opts *options, fn func(context.Context, *seed.Seeder) error) error {
	cfg, log, err := opts.bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewPostgres(ctx, di.PostgresConfig(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	pool := db.Pool()
	s := seed.NewSeeder(seed.Repositories{
		Organizations: repository.NewPostgresOrganizationRepository(pool),
		Users:         repository.NewPostgresUserRepository(pool),
		Events:        repository.NewPostgresEventRepository(pool),
		Guests:        repository.NewPostgresGuestRepository(pool),
	}, db, log)

	if err := fn(ctx, s); err != nil {
		log.Error("seed failed", zap.Error(err))
		return err
	}
	return nil
}
