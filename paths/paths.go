// Package paths resolves where superpowers-codex keeps its runtime state.
//
// Only transient state (log files) is written to disk; the MCP server
// configuration is read from the project, never from here.
//
// Resolution order:
//  1. If ~/.superpowers-codex/ exists → use it (flat layout)
//  2. If XDG_STATE_HOME is set → $XDG_STATE_HOME/superpowers-codex
//  3. Otherwise → ~/.superpowers-codex/
package paths

import (
	"os"
	"path/filepath"
	"sync"
)

const appName = "superpowers-codex"

var (
	mu       sync.Mutex
	resolved *resolvedPaths
)

type resolvedPaths struct {
	stateDir string
	legacy   bool
}

// resolve computes the path layout once and caches it.
func resolve() (*resolvedPaths, error) {
	mu.Lock()
	defer mu.Unlock()

	if resolved != nil {
		return resolved, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	legacyDir := filepath.Join(home, "."+appName)

	if info, err := os.Stat(legacyDir); err == nil && info.IsDir() {
		resolved = &resolvedPaths{stateDir: legacyDir, legacy: true}
		return resolved, nil
	}

	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		resolved = &resolvedPaths{stateDir: filepath.Join(xdgState, appName)}
		return resolved, nil
	}

	resolved = &resolvedPaths{stateDir: legacyDir, legacy: true}
	return resolved, nil
}

// StateDir returns the directory for runtime state and logs.
func StateDir() (string, error) {
	r, err := resolve()
	if err != nil {
		return "", err
	}
	return r.stateDir, nil
}

// LogsDir returns the directory for log files.
func LogsDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// IsLegacyLayout returns true if using the ~/.superpowers-codex/ flat layout.
func IsLegacyLayout() bool {
	r, err := resolve()
	if err != nil {
		return true
	}
	return r.legacy
}

// Reset clears the cached path resolution. This is intended for testing only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	resolved = nil
}
