package command

import (
	"database/sql"
	"log/slog"
	"path/filepath"

	"github.com/adamavenir/huddle/internal/core"
	"github.com/adamavenir/huddle/internal/daemon"
	"github.com/adamavenir/huddle/internal/db"
	"github.com/adamavenir/huddle/internal/notify"
	"github.com/spf13/cobra"
)

// CommandContext holds shared command state.
type CommandContext struct {
	Project  core.Project
	DB       *sql.DB
	Config   core.Config
	JSONMode bool
	Logger   *slog.Logger
}

// GetContext discovers the project, reads its config and opens its database.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	dir, _ := cmd.Flags().GetString("dir")
	jsonMode, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	project, err := core.DiscoverProject(dir)
	if err != nil {
		return nil, err
	}
	config, err := core.ReadConfig(project)
	if err != nil {
		return nil, err
	}
	conn, err := db.OpenDatabase(project)
	if err != nil {
		return nil, err
	}

	level := core.ParseLogLevel(config.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}

	return &CommandContext{
		Project:  project,
		DB:       conn,
		Config:   config,
		JSONMode: jsonMode,
		Logger:   core.NewLogger(level),
	}, nil
}

// Dispatcher builds a dispatcher for the context. Desktop notifications are
// posted only when withNotifications is set and the config enables them.
func (c *CommandContext) Dispatcher(withNotifications bool) (*daemon.Dispatcher, error) {
	muter, err := notify.NewMuter(c.Config.Mute)
	if err != nil {
		return nil, err
	}
	cfg := daemon.Config{Muter: muter, Logger: c.Logger}
	if withNotifications && c.Config.Notify {
		cfg.Sender = notify.OSSender{ProjectName: filepath.Base(c.Project.Root)}
	}
	return daemon.NewDispatcher(c.Project, c.DB, cfg)
}
