package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/pkg/config"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
)

// Version is stamped at build time with -ldflags
var Version = "dev"

type options struct {
	configPath string
}

// NewRootCommand builds the munasaba command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "munasaba",
		Short:         "Munasaba event and guest management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "env file to load (default: .env in the working directory)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "munasaba %s\n", Version)
		},
	}
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Load()
	}
	return config.LoadWithPath(o.configPath)
}

// bootstrap loads config and installs the global logger
func (o *options) bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.App.Version == "" || Version != "dev" {
		cfg.App.Version = Version
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
		OutputPath:  "stdout",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetGlobal(log)
	log.Debug("configuration loaded", zap.String("environment", cfg.App.Environment))
	return cfg, log, nil
}
