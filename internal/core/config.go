package core

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"time"
)

const configVersion = 1

// Config stores per-project settings.
type Config struct {
	Version    int      `json:"version"`
	Notify     bool     `json:"notify"`
	Mute       []string `json:"mute,omitempty"`
	DebounceMS int      `json:"debounce_ms,omitempty"`
	LogLevel   string   `json:"log_level,omitempty"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Version:    configVersion,
		Notify:     true,
		DebounceMS: 250,
		LogLevel:   "info",
	}
}

// Debounce returns the watcher debounce interval.
func (c Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ReadConfig reads the project config, falling back to defaults when it is missing.
func ReadConfig(project Project) (Config, error) {
	data, err := os.ReadFile(project.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	if config.Version == 0 {
		config.Version = configVersion
	}
	return config, nil
}

// WriteConfig persists the project config.
func WriteConfig(project Project, config Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(project.ConfigPath(), append(data, '\n'), 0o644)
}

// ParseLogLevel maps a config string to a slog level. Unknown values mean info.
func ParseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
