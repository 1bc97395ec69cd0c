package config

import (
	"os"
	"path/filepath"
)

const appName = "junefeed"

// DefaultConfigPath returns the feed-list location, honoring
// XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), appName, "config.yaml")
}

// DefaultHistoryPath returns the history-file location, honoring
// XDG_STATE_HOME.
func DefaultHistoryPath() string {
	return filepath.Join(stateDir(), appName, "history.json")
}

// DefaultLogDir returns the directory for log files.
func DefaultLogDir() string {
	return filepath.Join(stateDir(), appName, "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".config")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".local", "state")
}
