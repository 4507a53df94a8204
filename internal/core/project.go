package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DirName        = ".huddle"
	DBFileName     = "huddle.db"
	EventsFileName = "events.jsonl"
	ConfigFileName = "config.json"
)

// Project represents a huddle project directory.
type Project struct {
	Root   string
	Dir    string
	DBPath string
}

// EventsPath returns the path of the project's event log.
func (p Project) EventsPath() string {
	return filepath.Join(p.Dir, EventsFileName)
}

// ConfigPath returns the path of the project's config file.
func (p Project) ConfigPath() string {
	return filepath.Join(p.Dir, ConfigFileName)
}

func projectAt(root string) Project {
	dir := filepath.Join(root, DirName)
	return Project{Root: root, Dir: dir, DBPath: filepath.Join(dir, DBFileName)}
}

// DiscoverProject walks up from startDir to find a .huddle directory.
func DiscoverProject(startDir string) (Project, error) {
	current := startDir
	if current == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Project{}, err
		}
		current = cwd
	}
	current, err := filepath.Abs(current)
	if err != nil {
		return Project{}, err
	}

	for {
		info, err := os.Stat(filepath.Join(current, DirName))
		if err == nil && info.IsDir() {
			return projectAt(current), nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return Project{}, fmt.Errorf("not initialized. Run 'huddle init' first")
		}
		current = parent
	}
}

// InitProject initializes a new huddle project at dir.
func InitProject(dir string, force bool) (Project, error) {
	root := dir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Project{}, err
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return Project{}, err
	}

	project := projectAt(root)
	if info, err := os.Stat(project.Dir); err == nil && info.IsDir() && !force {
		return Project{}, fmt.Errorf("already initialized. Use --force to reinitialize")
	}

	if err := os.MkdirAll(project.Dir, 0o755); err != nil {
		return Project{}, err
	}
	EnsureGitignore(project.Dir)

	if force {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(project.DBPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
				return Project{}, err
			}
		}
	}

	if _, err := os.Stat(project.ConfigPath()); errors.Is(err, os.ErrNotExist) {
		if err := WriteConfig(project, DefaultConfig()); err != nil {
			return Project{}, err
		}
	}

	return project, nil
}

// EnsureGitignore ensures .huddle/.gitignore contains sqlite ignores.
func EnsureGitignore(dir string) {
	gitignore := filepath.Join(dir, ".gitignore")
	entries := []string{"*.db", "*.db-wal", "*.db-shm"}

	data, err := os.ReadFile(gitignore)
	if err != nil {
		_ = os.WriteFile(gitignore, []byte(strings.Join(entries, "\n")+"\n"), 0o644)
		return
	}
	content := string(data)

	lines := map[string]bool{}
	for _, line := range strings.Split(content, "\n") {
		lines[line] = true
	}

	missing := []string{}
	for _, entry := range entries {
		if !lines[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		content += "\n"
	}
	content += strings.Join(missing, "\n") + "\n"
	_ = os.WriteFile(gitignore, []byte(content), 0o644)
}
