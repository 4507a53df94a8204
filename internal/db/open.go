package db

import (
	"database/sql"

	"github.com/adamavenir/huddle/internal/core"
	_ "modernc.org/sqlite"
)

// OpenDatabase opens the SQLite database for a project and ensures the schema.
func OpenDatabase(project core.Project) (*sql.DB, error) {
	core.EnsureGitignore(project.Dir)

	conn, err := sql.Open("sqlite", project.DBPath)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := InitSchema(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}
