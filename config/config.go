// Package config loads the MCP server configuration file (.mcp.json).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/anna-belle-zhang/superpowerwithcodex/mcp"
)

// FileName is the configuration file looked up in the configuration directory.
const FileName = ".mcp.json"

// ErrConfigNotFound is returned by Load when the directory has no .mcp.json.
var ErrConfigNotFound = errors.New("MCP config file .mcp.json not found")

// MCPConfig holds the named MCP server entries from .mcp.json:
//
//	{
//	  "mcpServers": {
//	    "codex-subagent": {"command": "codex", "args": ["mcp"]}
//	  }
//	}
type MCPConfig struct {
	MCPServers map[string]mcp.ServerSpec `json:"mcpServers"`

	mu       sync.RWMutex
	filePath string
}

// New returns an empty configuration that Save will write to dir.
func New(dir string) *MCPConfig {
	return &MCPConfig{
		MCPServers: make(map[string]mcp.ServerSpec),
		filePath:   filepath.Join(dir, FileName),
	}
}

// Load reads dir/.mcp.json. A missing file is ErrConfigNotFound; unreadable or
// malformed content is any other error.
func Load(dir string) (*MCPConfig, error) {
	cfg := New(dir)

	data, err := os.ReadFile(cfg.filePath)
	if os.IsNotExist(err) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cfg.filePath, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfg.filePath, err)
	}

	// Ensure the map is initialized after unmarshaling a file without servers
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]mcp.ServerSpec)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", cfg.filePath, err)
	}

	return cfg, nil
}

// Validate checks that every entry has a name. A missing command is not
// rejected here: it surfaces as mcp.ErrMissingCommand when the entry is used.
func (c *MCPConfig) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for name := range c.MCPServers {
		if name == "" {
			return fmt.Errorf("server entry with empty name found")
		}
	}
	return nil
}

// Path returns the file this configuration was loaded from or saves to.
func (c *MCPConfig) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// Server returns the entry registered under name.
func (c *MCPConfig) Server(name string) (mcp.ServerSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spec, ok := c.MCPServers[name]
	if !ok {
		return mcp.ServerSpec{}, false
	}
	spec.Args = slices.Clone(spec.Args)
	return spec, true
}

// ServerNames returns the configured entry names in sorted order.
func (c *MCPConfig) ServerNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.MCPServers))
	for name := range c.MCPServers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetServer adds or replaces the entry under name.
func (c *MCPConfig) SetServer(name string, spec mcp.ServerSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MCPServers == nil {
		c.MCPServers = make(map[string]mcp.ServerSpec)
	}
	c.MCPServers[name] = spec
}

// RemoveServer deletes the entry under name, reporting whether it existed.
func (c *MCPConfig) RemoveServer(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.MCPServers[name]; !ok {
		return false
	}
	delete(c.MCPServers, name)
	return true
}

// Save writes the configuration back to its file.
func (c *MCPConfig) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(c.filePath, data, 0644)
}
