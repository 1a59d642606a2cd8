// Package paths provides XDG-compliant path resolution for tabdeck.
//
// Resolution order:
// 1. TABDECK_HOME (portable root) → $TABDECK_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/tabdeck
// 3. Platform defaults → ~/.config/tabdeck, ~/.local/state/tabdeck
package paths

import (
	"os"
	"path/filepath"
)

const appName = "tabdeck"

// base resolves one XDG base directory.
func base(sub, xdgVar string, fallback ...string) string {
	if home := os.Getenv("TABDECK_HOME"); home != "" {
		return filepath.Join(home, sub)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
	}
	return ""
}

// ConfigDir returns the tabdeck configuration directory.
func ConfigDir() string {
	return base("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the tabdeck state directory. Logs live here.
func StateDir() string {
	return base("state", "XDG_STATE_HOME", ".local", "state")
}

// LogDir returns the directory the file log sink writes to.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// EnsureDirs creates the tabdeck directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), LogDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// PidFile returns the lock file held by a running tabdeck serve.
func PidFile() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, appName+".pid")
}
