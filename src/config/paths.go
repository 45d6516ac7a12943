package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "medassist"

// DefaultConfigPath returns the user configuration file under XDG_CONFIG_HOME
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.json")
}

// DefaultSnapshotDir returns where session snapshots go by default.
// Snapshots are state data, so they live under XDG_STATE_HOME.
func DefaultSnapshotDir() string {
	return filepath.Join(xdg.StateHome, appDir, "sessions")
}

// DefaultLogPath returns the log file used when logs must stay off the terminal
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, appDir, "logs", "medassist.log")
}
