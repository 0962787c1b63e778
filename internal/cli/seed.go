package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/schoolms/internal/bootstrap"
	"github.com/yigit/schoolms/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "seed",
		Short:        "Load sample courses, lecturers, subjects and students",
		Long:         "Load the sample school data. Nothing is written when any course already exists.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := open(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer e.storage.Close()

			deps := bootstrap.BuildDependencies(e.cfg, e.storage.Store, e.lgr)
			res, err := seed.CreateSampleData(ctx, e.storage.Store, deps.Services, e.lgr)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Skipped {
				fmt.Fprintln(out, "Database already has data, skipping seed.")
				return nil
			}
			fmt.Fprintf(out, "Seeded: %d courses, %d lecturers, %d subjects, %d students\n",
				res.Courses, res.Lecturers, res.Subjects, res.Students)
			return nil
		},
	}
}
