package command

import (
	"encoding/json"
	"fmt"

	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/db"
	"github.com/adamavenir/huddle/internal/types"
	"github.com/spf13/cobra"
)

type caughtUpJSON struct {
	Narrow string `json:"narrow"`
	Older  bool   `json:"older"`
	Newer  bool   `json:"newer"`
	Known  bool   `json:"known"`
}

// NewCaughtUpCmd creates the caughtup command.
func NewCaughtUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caughtup [narrow-json]",
		Short: "Show whether a narrow is caught up",
		Long: `Show the caught-up record of a narrow.

The narrow is given as JSON, for example '[{"operator":"stream","operand":"design"}]'.
With no argument the home narrow is shown. Use --all to list every record.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			all, _ := cmd.Flags().GetBool("all")
			apply, _ := cmd.Flags().GetBool("sync")

			var rows []caughtUpJSON
			if all || apply {
				dispatcher, err := ctx.Dispatcher(false)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				if err := syncIfRequested(cmd, dispatcher); err != nil {
					return writeCommandError(cmd, err)
				}
				state := dispatcher.CaughtUp()
				if all {
					for _, key := range state.Keys() {
						record, _ := state.Lookup(key)
						rows = append(rows, caughtUpJSON{Narrow: key, Older: record.Older, Newer: record.Newer, Known: true})
					}
				}
			}

			if !all {
				value := ""
				if len(args) == 1 {
					value = args[0]
				}
				narrow, err := core.ParseNarrow(value)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				key := core.NarrowKey(narrow)
				record, err := db.GetCaughtUp(ctx.DB, key)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				row := caughtUpJSON{Narrow: key, Known: record != nil}
				if record != nil {
					row.Older, row.Newer = record.Older, record.Newer
				}
				rows = append(rows, row)
			}

			if ctx.JSONMode {
				if rows == nil {
					rows = []caughtUpJSON{}
				}
				if !all {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(rows[0])
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(rows)
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No caught-up records")
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", row.Narrow, describeCaughtUp(types.CaughtUp{Older: row.Older, Newer: row.Newer}, row.Known))
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "list every narrow with a record")
	cmd.Flags().Bool("sync", false, "apply pending events first")
	return cmd
}

func describeCaughtUp(record types.CaughtUp, known bool) string {
	if !known {
		return "unknown"
	}
	older, newer := "more", "more"
	if record.Older {
		older = "caught up"
	}
	if record.Newer {
		newer = "caught up"
	}
	return fmt.Sprintf("older: %s, newer: %s", older, newer)
}
