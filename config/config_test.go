package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/anna-belle-zhang/superpowerwithcodex/mcp"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{
  "mcpServers": {
    "codex-subagent": {"command": "codex", "args": ["mcp", "--quiet"], "env": {"RUST_LOG": "info"}},
    "other": {"command": "node", "args": ["server.js"]}
  }
}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	spec, ok := cfg.Server("codex-subagent")
	if !ok {
		t.Fatal("codex-subagent entry not found")
	}
	if spec.Command != "codex" {
		t.Errorf("Command = %q, want codex", spec.Command)
	}
	if !slices.Equal(spec.Args, []string{"mcp", "--quiet"}) {
		t.Errorf("Args = %v, want [mcp --quiet]", spec.Args)
	}
	if spec.Env["RUST_LOG"] != "info" {
		t.Errorf("Env = %v, want RUST_LOG=info", spec.Env)
	}

	if got := cfg.ServerNames(); !slices.Equal(got, []string{"codex-subagent", "other"}) {
		t.Errorf("ServerNames() = %v", got)
	}
	if cfg.Path() != filepath.Join(dir, FileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load() error = %v, want ErrConfigNotFound", err)
	}
	if err.Error() != "MCP config file .mcp.json not found" {
		t.Errorf("error text = %q", err.Error())
	}
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"mcpServers": [`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should fail on malformed JSON")
	}
	if errors.Is(err, ErrConfigNotFound) {
		t.Error("malformed file reported as not found")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("error = %q, want parse failure", err)
	}
}

func TestLoad_NoServers(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := cfg.Server("codex-subagent"); ok {
		t.Error("Server() found an entry in an empty config")
	}
	if len(cfg.ServerNames()) != 0 {
		t.Errorf("ServerNames() = %v, want none", cfg.ServerNames())
	}
}

func TestLoad_EntryWithoutCommand(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"mcpServers": {"codex-subagent": {"args": ["mcp"]}}}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	spec, ok := cfg.Server("codex-subagent")
	if !ok {
		t.Fatal("entry not found")
	}
	if spec.Command != "" {
		t.Errorf("Command = %q, want empty", spec.Command)
	}
}

func TestValidate_EmptyName(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"mcpServers": {"": {"command": "codex"}}}`)

	if _, err := Load(dir); err == nil {
		t.Error("Load() should reject an entry with an empty name")
	}
}

func TestServer_ReturnsCopy(t *testing.T) {
	cfg := New(t.TempDir())
	cfg.SetServer("a", mcp.ServerSpec{Command: "x", Args: []string{"1"}})

	spec, _ := cfg.Server("a")
	spec.Args[0] = "changed"

	again, _ := cfg.Server("a")
	if again.Args[0] != "1" {
		t.Errorf("Server() leaked internal args slice: %v", again.Args)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := New(dir)
	cfg.SetServer("codex-subagent", mcp.ServerSpec{Command: "codex", Args: []string{"mcp"}})
	cfg.SetServer("temp", mcp.ServerSpec{Command: "true"})

	if !cfg.RemoveServer("temp") {
		t.Error("RemoveServer should return true for existing entry")
	}
	if cfg.RemoveServer("temp") {
		t.Error("RemoveServer should return false for missing entry")
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.ServerNames(); !slices.Equal(got, []string{"codex-subagent"}) {
		t.Errorf("ServerNames() after reload = %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	cfg := New(t.TempDir())

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			cfg.SetServer(string(rune('a'+i)), mcp.ServerSpec{Command: "x"})
		}(i)
		go func() {
			defer wg.Done()
			cfg.ServerNames()
			cfg.Server("a")
		}()
	}
	wg.Wait()

	if n := len(cfg.ServerNames()); n != 10 {
		t.Errorf("ServerNames() has %d entries, want 10", n)
	}
}
