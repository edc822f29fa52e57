package codex

import (
	"github.com/anna-belle-zhang/superpowerwithcodex/config"
	"github.com/anna-belle-zhang/superpowerwithcodex/mcp"
)

// Availability reports whether the agent can be launched, and if not, the
// first problem found.
type Availability struct {
	Available bool
	Error     string
}

// CheckAvailability validates, in order: that .mcp.json exists, that it has
// the server entry, that the entry names a command, and that the command is
// on PATH. It stops at the first failure and spawns nothing.
func (c *Client) CheckAvailability() Availability {
	cfg, err := config.Load(c.resolveConfigDir())
	if err != nil {
		return Availability{Error: err.Error()}
	}

	spec, ok := cfg.Server(c.serverName)
	if !ok {
		return Availability{Error: (&NotConfiguredError{Server: c.serverName}).Error()}
	}

	if spec.Command == "" {
		return Availability{Error: mcp.ErrMissingCommand.Error()}
	}

	if !c.checker.CommandExists(spec.Command) {
		return Availability{Error: spec.Command + " CLI not found on PATH"}
	}

	return Availability{Available: true}
}
