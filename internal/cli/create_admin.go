package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/schoolms/internal/bootstrap"
)

type createAdminOptions struct {
	email    string
	password string
}

// NewCreateAdminCommand creates the create-admin command.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &createAdminOptions{}

	cmd := &cobra.Command{
		Use:          "create-admin",
		Short:        "Create the admin user if it does not exist",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := open(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer e.storage.Close()

			email, password := e.cfg.Admin.Email, e.cfg.Admin.Password
			if opts.email != "" {
				email = opts.email
			}
			if opts.password != "" {
				password = opts.password
			}

			deps := bootstrap.BuildDependencies(e.cfg, e.storage.Store, e.lgr)
			created, err := deps.Services.Auth.CreateAdmin(ctx, email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin user %s created successfully\n", email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin user %s already exists\n", email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "admin email (defaults to admin.email)")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password (defaults to admin.password)")

	return cmd
}
