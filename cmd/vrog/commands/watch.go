package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/vrog/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <target>",
		Short: "Rebuild a target whenever its sources change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			jobs, _ := cmd.Flags().GetInt("jobs")

			return c.app.Watch(cmd.Context(), args[0], app.WatchOptions{
				File:       file,
				Jobs:       jobs,
				OutputMode: outputMode(cmd),
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 1, "Number of tasks to run at once")
	addOutputFlags(cmd)
	return cmd
}
