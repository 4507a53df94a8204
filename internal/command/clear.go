package command

import (
	"fmt"

	"github.com/adamavenir/huddle/internal/events"
	"github.com/spf13/cobra"
)

// NewClearCmd creates the clear command.
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Dismiss every pending notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			if _, err := events.Append(ctx.Project.EventsPath(), events.Event{Type: events.KindClear}); err != nil {
				return writeCommandError(cmd, err)
			}
			if err := syncLog(cmd, ctx); err != nil {
				return writeCommandError(cmd, err)
			}
			if !ctx.JSONMode {
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared notifications")
			}
			return nil
		},
	}
	return cmd
}
