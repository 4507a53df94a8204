package command

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// reportedError marks an error already written to the command's stderr.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	if isSchemaError(err) {
		// init --force drops the database but keeps events.jsonl, and the
		// cursor starts over, so sync rebuilds everything from the log.
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: the stored state does not match this version of huddle.")
		fmt.Fprintln(cmd.ErrOrStderr(), "Rebuild it from the event log with: huddle init --force && huddle sync")
	}

	return &reportedError{err: err}
}

// reportUnhandled prints errors that never went through writeCommandError,
// such as flag and argument validation from cobra.
func reportUnhandled(w io.Writer, err error) {
	var reported *reportedError
	if err == nil || errors.As(err, &reported) {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// isSchemaError checks if an error is a SQLite schema mismatch.
func isSchemaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "has no column")
}
