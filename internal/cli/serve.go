package cli

import (
	"github.com/spf13/cobra"
	"github.com/yigit/schoolms/internal/bootstrap"
	"github.com/yigit/schoolms/internal/seed"
	"github.com/yigit/schoolms/internal/server"
)

type serveOptions struct {
	migrate bool
	seed    bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "apply pending migrations before serving")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "load sample data and the admin account before serving")

	return cmd
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, opts *serveOptions) error {
	ctx := cmd.Context()
	e, err := open(ctx, rootOpts)
	if err != nil {
		return err
	}

	if opts.migrate {
		if err := bootstrap.RunMigrations(ctx, e.cfg, e.storage, e.lgr); err != nil {
			e.storage.Close()
			return err
		}
	}

	deps := bootstrap.BuildDependencies(e.cfg, e.storage.Store, e.lgr)

	if opts.seed {
		if _, err := seed.CreateSampleData(ctx, e.storage.Store, deps.Services, e.lgr); err != nil {
			e.storage.Close()
			return err
		}
		if e.cfg.Admin.Password != "" {
			if err := seed.EnsureAdmin(ctx, deps.Services, e.cfg.Admin.Email, e.cfg.Admin.Password, e.lgr); err != nil {
				e.storage.Close()
				return err
			}
		}
	}

	router := bootstrap.SetupRouter(e.cfg, deps)
	return server.NewServer(e.cfg.Server, router, e.lgr, e.storage).Run(ctx)
}
