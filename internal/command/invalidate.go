package command

import (
	"fmt"

	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/events"
	"github.com/spf13/cobra"
)

// NewInvalidateCmd creates the invalidate command.
func NewInvalidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invalidate [narrow-json]",
		Short: "Forget the caught-up record of a narrow",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			value := ""
			if len(args) == 1 {
				value = args[0]
			}
			narrow, err := core.ParseNarrow(value)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if _, err := events.Append(ctx.Project.EventsPath(), events.Event{Type: events.KindInvalidate, Narrow: narrow}); err != nil {
				return writeCommandError(cmd, err)
			}
			if err := syncLog(cmd, ctx); err != nil {
				return writeCommandError(cmd, err)
			}

			if !ctx.JSONMode {
				fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %s\n", core.NarrowKey(narrow))
			}
			return nil
		},
	}
	return cmd
}

func syncLog(cmd *cobra.Command, ctx *CommandContext) error {
	dispatcher, err := ctx.Dispatcher(false)
	if err != nil {
		return err
	}
	_, err = dispatcher.Sync(commandContext(cmd))
	return err
}
