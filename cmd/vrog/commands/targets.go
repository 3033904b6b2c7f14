package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/vrog/internal/app"
	"go.trai.ch/vrog/internal/ui/output"
	"go.trai.ch/vrog/internal/ui/style"
)

func (c *CLI) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets [pattern]",
		Short: "List targets, optionally filtered by a glob such as 'src/**/*.o'",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern string
			if len(args) == 1 {
				pattern = args[0]
			}
			file, _ := cmd.Flags().GetString("file")

			targets, err := c.app.Targets(cmd.Context(), pattern, app.TargetsOptions{File: file})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output.IsTerminal(out) {
				_, _ = fmt.Fprintln(out, style.Heading(fmt.Sprintf("%d target(s)", len(targets))))
			}
			for _, t := range targets {
				_, _ = fmt.Fprintln(out, t)
			}
			return nil
		},
	}
}
