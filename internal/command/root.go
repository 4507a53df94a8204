package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "huddle"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Huddle - notification grouping and caught-up tracking for chat clients",
		Long:          "Huddle replays chat client events into grouped notifications and per-narrow caught-up state.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("dir", "", "project directory (defaults to the nearest .huddle above cwd)")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")

	cmd.AddCommand(
		NewInitCmd(),
		NewPushCmd(),
		NewSyncCmd(),
		NewWatchCmd(),
		NewSummaryCmd(),
		NewCaughtUpCmd(),
		NewInvalidateCmd(),
		NewClearCmd(),
	)

	return cmd
}

// Execute runs the root command. Every error is printed once to stderr.
func Execute() error {
	return execute(NewRootCmd(Version))
}

func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	reportUnhandled(cmd.ErrOrStderr(), err)
	return err
}
