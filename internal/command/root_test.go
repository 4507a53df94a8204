package command

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// executeStdout keeps stderr out of the captured output so JSON can be decoded.
func executeStdout(cmd *cobra.Command, args ...string) (string, error) {
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandVersion(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd, "--version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "huddle version test") {
		t.Fatalf("expected version output, got %q", output)
	}
}

func TestRootCommandHelp(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "grouped notifications") {
		t.Fatalf("expected help output, got %q", output)
	}
}

func TestCommandOutsideProject(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd, "--dir", t.TempDir(), "summary")
	if err == nil {
		t.Fatalf("expected error outside a project")
	}
	if !strings.Contains(output, "huddle init") {
		t.Fatalf("expected init hint, got %q", output)
	}
}

func TestIsSchemaError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{msg: "SQL logic error: no such table: huddle_cursors", want: true},
		{msg: "table huddle_caught_up has no column named older", want: true},
		{msg: "database is locked", want: false},
	}
	for _, tt := range tests {
		if got := isSchemaError(errString(tt.msg)); got != tt.want {
			t.Fatalf("isSchemaError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
	if isSchemaError(nil) {
		t.Fatalf("nil is not a schema error")
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func executeReported(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := execute(cmd)
	return buf.String(), err
}

func TestErrorsPrintedOnce(t *testing.T) {
	dir := initProject(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "command error", args: []string{"--dir", dir, "caughtup", "{not json"}},
		{name: "argument error", args: []string{"--dir", dir, "caughtup", "[]", "[]"}},
		{name: "unknown flag", args: []string{"--dir", dir, "summary", "--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := executeReported(NewRootCmd("test"), tt.args...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := strings.Count(output, "Error:"); got != 1 {
				t.Fatalf("expected one error line, got %d in %q", got, output)
			}
		})
	}
}

func TestSchemaErrorHintsRebuild(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetErr(buf)

	err := writeCommandError(cmd, errString("SQL logic error: no such table: huddle_caught_up"))
	if err == nil || err.Error() != "SQL logic error: no such table: huddle_caught_up" {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(buf.String(), "huddle init --force && huddle sync") {
		t.Fatalf("expected rebuild hint, got %q", buf.String())
	}

	reportUnhandled(buf, err)
	if got := strings.Count(buf.String(), "Error:"); got != 1 {
		t.Fatalf("reported error printed %d times", got)
	}
}
