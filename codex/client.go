// Package codex runs a Codex agent through its MCP server: one-shot tool
// invocations, a retry controller on top of them, and an availability probe.
package codex

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/anna-belle-zhang/superpowerwithcodex/cli"
	"github.com/anna-belle-zhang/superpowerwithcodex/config"
	"github.com/anna-belle-zhang/superpowerwithcodex/logger"
	"github.com/anna-belle-zhang/superpowerwithcodex/mcp"
)

const (
	// DefaultServerName is the .mcp.json entry used to launch the agent.
	DefaultServerName = "codex-subagent"
	// DefaultToolName is the tool invoked on that server.
	DefaultToolName = "spawn_agent"

	logicalFailurePrefix = "Error:"
)

// Caller performs one MCP tool invocation. mcp.CallTool is the default.
type Caller func(ctx context.Context, spec mcp.ServerSpec, opts mcp.CallOptions) (json.RawMessage, error)

// Client invokes the agent tool. Configuration is read from ConfigDir on
// every call; the tool runs in the working directory each call names.
type Client struct {
	configDir      string
	serverName     string
	toolName       string
	timeout        time.Duration
	checker        *cli.Checker
	call           Caller
	serverProgress mcp.ProgressFunc
	log            *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithConfigDir sets the directory holding .mcp.json. Default: the process's
// current directory at call time.
func WithConfigDir(dir string) Option {
	return func(c *Client) { c.configDir = dir }
}

// WithServerName selects the .mcp.json entry. Default: DefaultServerName.
func WithServerName(name string) Option {
	return func(c *Client) { c.serverName = name }
}

// WithToolName selects the tool to call. Default: DefaultToolName.
func WithToolName(name string) Option {
	return func(c *Client) { c.toolName = name }
}

// WithTimeout bounds each MCP request. Default: mcp.DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithChecker sets the PATH probe used by CheckAvailability.
func WithChecker(checker *cli.Checker) Option {
	return func(c *Client) { c.checker = checker }
}

// WithCaller replaces the MCP invocation, mainly for tests.
func WithCaller(call Caller) Option {
	return func(c *Client) { c.call = call }
}

// WithServerProgress forwards the server's stderr and notifications.
// Without it they are only logged.
func WithServerProgress(fn mcp.ProgressFunc) Option {
	return func(c *Client) { c.serverProgress = fn }
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		serverName: DefaultServerName,
		toolName:   DefaultToolName,
		timeout:    mcp.DefaultTimeout,
		checker:    cli.NewChecker(),
		call:       mcp.CallTool,
		log:        logger.WithComponent("codex"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AgentResult is the outcome of one agent invocation. Every failure kind is
// folded into Error; Err keeps the typed cause for errors.Is and errors.As.
type AgentResult struct {
	Success bool
	Output  string
	Error   string
	Err     error
}

func failed(err error) AgentResult {
	return AgentResult{Error: err.Error(), Err: err}
}

// SpawnAgent runs the agent once on prompt in workingDir (empty means the
// current directory). It never returns an error: configuration, transport,
// timeout, protocol and logical failures all come back as Success=false.
func (c *Client) SpawnAgent(ctx context.Context, prompt, workingDir string) AgentResult {
	spec, err := c.serverSpec()
	if err != nil {
		return failed(err)
	}

	if workingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workingDir = wd
		}
	}

	result, err := c.call(ctx, spec, mcp.CallOptions{
		ToolName:   c.toolName,
		Arguments:  map[string]any{"prompt": prompt},
		Dir:        workingDir,
		Timeout:    c.timeout,
		OnProgress: c.serverProgress,
	})
	if err != nil {
		c.log.Warn("agent call failed", "server", c.serverName, "dir", workingDir, "error", err)
		return failed(err)
	}

	output := mcp.NormalizeText(result)
	if rest, ok := strings.CutPrefix(output, logicalFailurePrefix); ok {
		failure := &LogicalFailure{Message: strings.TrimSpace(rest), Output: output}
		if failure.Message == "" {
			failure.Message = output
		}
		c.log.Info("agent reported failure", "error", failure.Message)
		return failed(failure)
	}

	return AgentResult{Success: true, Output: output}
}

// serverSpec loads the configured entry for this client.
func (c *Client) serverSpec() (mcp.ServerSpec, error) {
	cfg, err := config.Load(c.resolveConfigDir())
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			c.log.Warn("failed to load MCP config", "error", err)
		}
		return mcp.ServerSpec{}, &NotConfiguredError{Server: c.serverName, Err: err}
	}

	spec, ok := cfg.Server(c.serverName)
	if !ok {
		return mcp.ServerSpec{}, &NotConfiguredError{Server: c.serverName}
	}
	return spec, nil
}

func (c *Client) resolveConfigDir() string {
	if c.configDir != "" {
		return c.configDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
