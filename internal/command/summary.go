package command

import (
	"encoding/json"
	"fmt"

	"github.com/adamavenir/huddle/internal/daemon"
	"github.com/adamavenir/huddle/internal/notify"
	"github.com/spf13/cobra"
)

type summaryLineJSON struct {
	Key    string   `json:"key"`
	Names  []string `json:"names"`
	Header string   `json:"header"`
	Body   string   `json:"body"`
}

type summaryJSON struct {
	Title   string            `json:"title"`
	Summary string            `json:"summary"`
	Count   int               `json:"count"`
	Lines   []summaryLineJSON `json:"lines"`
}

// NewSummaryCmd creates the summary command.
func NewSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the grouped notification summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			dispatcher, err := ctx.Dispatcher(false)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if err := syncIfRequested(cmd, dispatcher); err != nil {
				return writeCommandError(cmd, err)
			}

			n := notify.Build(dispatcher.Conversations())
			if ctx.JSONMode {
				out := summaryJSON{Title: n.Title, Summary: n.Summary, Count: n.Count, Lines: []summaryLineJSON{}}
				for _, line := range n.Lines {
					out.Lines = append(out.Lines, summaryLineJSON{Key: line.Key, Names: line.Names, Header: line.Header, Body: line.Body})
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}

			if n.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No new messages")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s from %s\n", n.Title, n.Summary)
			for _, line := range n.Lines {
				fmt.Fprintln(cmd.OutOrStdout(), notify.Render(line))
			}
			return nil
		},
	}

	cmd.Flags().Bool("sync", false, "apply pending events first")
	return cmd
}

func syncIfRequested(cmd *cobra.Command, dispatcher *daemon.Dispatcher) error {
	apply, _ := cmd.Flags().GetBool("sync")
	if !apply {
		return nil
	}
	_, err := dispatcher.Sync(commandContext(cmd))
	return err
}
