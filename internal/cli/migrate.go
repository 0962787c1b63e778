package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/schoolms/internal/bootstrap"
	"github.com/yigit/schoolms/internal/config"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Apply pending SQL migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := open(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer e.storage.Close()

			if e.cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate requires the %s driver, got %q", config.DriverPostgres, e.cfg.Database.Driver)
			}
			return bootstrap.RunMigrations(ctx, e.cfg, e.storage, e.lgr)
		},
	}
}
