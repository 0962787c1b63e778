// Package cli defines the schoolms command line.
package cli

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yigit/schoolms/internal/bootstrap"
	"github.com/yigit/schoolms/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "schoolms",
		Short: "School management API",
		Long:  "CRUD API for courses, lecturers, subjects and students, keeping every enrollment inside one course.",
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", filepath.Join("configs", "config.yaml"), "path to the YAML config file")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))

	return cmd
}

// env is what every command needs after loading configuration
type env struct {
	cfg     *config.Config
	lgr     zerolog.Logger
	storage *bootstrap.Storage
}

// open loads configuration, configures logging and opens the store
func open(ctx context.Context, opts *RootOptions) (*env, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	storage, err := bootstrap.SetupStorage(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, lgr: lgr, storage: storage}, nil
}
