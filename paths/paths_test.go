package paths

import (
	"os"
	"path/filepath"
	"testing"
)

// setupTestHome creates a temp directory, sets HOME to it, and resets the path cache.
func setupTestHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_STATE_HOME", "")
	Reset()
	t.Cleanup(Reset)
	return tmpDir
}

func TestFreshInstallNoXDG(t *testing.T) {
	home := setupTestHome(t)
	expected := filepath.Join(home, ".superpowers-codex")

	stateDir, err := StateDir()
	if err != nil {
		t.Fatalf("StateDir: %v", err)
	}
	if stateDir != expected {
		t.Errorf("StateDir = %q, want %q", stateDir, expected)
	}
	if !IsLegacyLayout() {
		t.Error("IsLegacyLayout should be true for fresh install without XDG")
	}
}

func TestXDGStateHome(t *testing.T) {
	setupTestHome(t)
	xdg := t.TempDir()
	t.Setenv("XDG_STATE_HOME", xdg)
	Reset()

	logsDir, err := LogsDir()
	if err != nil {
		t.Fatalf("LogsDir: %v", err)
	}
	want := filepath.Join(xdg, "superpowers-codex", "logs")
	if logsDir != want {
		t.Errorf("LogsDir = %q, want %q", logsDir, want)
	}
	if IsLegacyLayout() {
		t.Error("IsLegacyLayout should be false when XDG_STATE_HOME is set")
	}
}

func TestLegacyDirWinsOverXDG(t *testing.T) {
	home := setupTestHome(t)
	legacyDir := filepath.Join(home, ".superpowers-codex")
	if err := os.MkdirAll(legacyDir, 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	Reset()

	stateDir, err := StateDir()
	if err != nil {
		t.Fatalf("StateDir: %v", err)
	}
	if stateDir != legacyDir {
		t.Errorf("StateDir = %q, want %q", stateDir, legacyDir)
	}
}
