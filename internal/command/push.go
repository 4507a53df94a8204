package command

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/adamavenir/huddle/internal/events"
	"github.com/spf13/cobra"
)

// NewPushCmd creates the push command.
func NewPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push [event-json...]",
		Short: "Append events to the event log",
		Long: `Append one or more JSON events to the event log.

Pass "-" (or no arguments) to read one event per line from stdin.

Examples:
  huddle push '{"type":"message","message":{"id":1,"sender":{"full_name":"Alice","email":"alice@example.com"},"recipient":{"kind":"stream","stream":"design"},"content":"hi"}}'
  huddle push '{"type":"remove","message_ids":[1]}'
  huddle push '{"type":"fetch_complete","narrow":[],"anchor":"newest","messages":[{"id":1}],"num_before":20,"num_after":0}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.DB.Close()

			lines := args
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				lines, err = readLines(cmd.InOrStdin())
				if err != nil {
					return writeCommandError(cmd, err)
				}
			}

			pushed := make([]events.Event, 0, len(lines))
			for _, line := range lines {
				ev, err := events.Decode(line)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				ev, err = events.Append(ctx.Project.EventsPath(), ev)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				pushed = append(pushed, ev)
			}

			apply, _ := cmd.Flags().GetBool("sync")
			if apply {
				dispatcher, err := ctx.Dispatcher(false)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				if _, err := dispatcher.Sync(commandContext(cmd)); err != nil {
					return writeCommandError(cmd, err)
				}
			}

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(pushed)
			}
			for _, ev := range pushed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ev.ID, ev.Type)
			}
			return nil
		},
	}

	cmd.Flags().Bool("sync", false, "apply the log right after appending")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
