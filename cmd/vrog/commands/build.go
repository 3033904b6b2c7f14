package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/vrog/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <target>",
		Short: "Bring a target up to date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			jobs, _ := cmd.Flags().GetInt("jobs")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			always, _ := cmd.Flags().GetBool("always")

			return c.app.Build(cmd.Context(), args[0], app.BuildOptions{
				File:       file,
				Jobs:       jobs,
				DryRun:     dryRun,
				Always:     always,
				OutputMode: outputMode(cmd),
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 1, "Number of tasks to run at once")
	cmd.Flags().BoolP("dry-run", "n", false, "Print what would be rebuilt without running anything")
	cmd.Flags().BoolP("always", "B", false, "Rebuild every target regardless of timestamps")
	addOutputFlags(cmd)
	return cmd
}
