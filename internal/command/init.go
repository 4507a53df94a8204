package command

import (
	"encoding/json"
	"fmt"

	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/db"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize huddle in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			dir, _ := cmd.Flags().GetString("dir")
			jsonMode, _ := cmd.Flags().GetBool("json")

			project, err := core.InitProject(dir, force)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			conn, err := db.OpenDatabase(project)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer conn.Close()

			if jsonMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"root":   project.Root,
					"db":     project.DBPath,
					"events": project.EventsPath(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized huddle in %s\n", project.Dir)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "reinitialize, dropping the stored state")
	return cmd
}
