package command

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Apply pending events from the event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			withNotify, _ := cmd.Flags().GetBool("notify")
			dispatcher, err := ctx.Dispatcher(withNotify)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			result, err := dispatcher.Sync(commandContext(cmd))
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"applied":  result.Applied,
					"skipped":  result.Skipped,
					"notified": result.Notified,
					"offset":   result.Offset,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d event(s), skipped %d\n", result.Applied, result.Skipped)
			return nil
		},
	}

	cmd.Flags().Bool("notify", false, "post a desktop notification for new messages")
	return cmd
}
