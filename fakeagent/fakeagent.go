// Package fakeagent is a scripted stand-in for the Codex MCP server. It
// exposes the same spawn_agent tool over stdio, so the client stack can be
// exercised end to end without a real agent.
//
// The prompt drives the outcome:
//
//	FAIL: <message>      reply "Error: <message>"
//	FLAKY <n>: <task>    fail the first n calls made in the working directory
//	SLEEP <d>: <task>    wait d (a Go duration) before replying
//	anything else        reply "completed in <dir>: <prompt>"
package fakeagent

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ToolName is the tool the agent registers.
	ToolName = "spawn_agent"
	// Version is reported in the initialize reply.
	Version = "0.1.0"
	// EventMethod is the notification sent when a prompt is accepted.
	EventMethod = "codex/event"
	// AttemptsFile counts FLAKY calls in the working directory.
	AttemptsFile = ".fake-codex-attempts"
)

// Agent answers spawn_agent calls.
type Agent struct {
	stderr io.Writer
}

// New creates an Agent that writes diagnostics to stderr.
func New(stderr io.Writer) *Agent {
	if stderr == nil {
		stderr = io.Discard
	}
	return &Agent{stderr: stderr}
}

// Definition returns the MCP tool definition for spawn_agent.
func (a *Agent) Definition() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Run a coding agent on the given prompt in the server's working directory."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Task for the agent"),
		),
	)
}

// Handle processes one spawn_agent call.
func (a *Agent) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt := req.GetString("prompt", "")
	if strings.TrimSpace(prompt) == "" {
		return mcp.NewToolResultError("prompt is required"), nil
	}

	fmt.Fprintf(a.stderr, "fake-codex: received prompt (%d bytes)\n", len(prompt))
	if srv := server.ServerFromContext(ctx); srv != nil {
		_ = srv.SendNotificationToClient(ctx, EventMethod, map[string]any{"status": "started"})
	}

	dir, err := os.Getwd()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to resolve working directory: %v", err)), nil
	}

	text, err := a.run(ctx, dir, prompt)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

func (a *Agent) run(ctx context.Context, dir, prompt string) (string, error) {
	switch {
	case strings.HasPrefix(prompt, "FAIL:"):
		return "Error: " + strings.TrimSpace(strings.TrimPrefix(prompt, "FAIL:")), nil

	case strings.HasPrefix(prompt, "FLAKY "):
		n, task, ok := directive(prompt, "FLAKY ")
		if !ok {
			break
		}
		failures, err := strconv.Atoi(n)
		if err != nil {
			return "Error: bad FLAKY count " + n, nil
		}
		calls, err := bumpAttempts(dir)
		if err != nil {
			return "", err
		}
		if calls <= failures {
			return fmt.Sprintf("Error: flaky failure %d of %d", calls, failures), nil
		}
		prompt = task

	case strings.HasPrefix(prompt, "SLEEP "):
		d, task, ok := directive(prompt, "SLEEP ")
		if !ok {
			break
		}
		wait, err := time.ParseDuration(d)
		if err != nil {
			return "Error: bad SLEEP duration " + d, nil
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		prompt = task
	}

	return fmt.Sprintf("completed in %s: %s", dir, prompt), nil
}

// directive splits "PREFIX arg: rest" into arg and rest.
func directive(prompt, prefix string) (arg, rest string, ok bool) {
	arg, rest, ok = strings.Cut(strings.TrimPrefix(prompt, prefix), ":")
	return strings.TrimSpace(arg), strings.TrimSpace(rest), ok
}

// bumpAttempts increments the call counter kept in dir and returns the new count.
func bumpAttempts(dir string) (int, error) {
	path := filepath.Join(dir, AttemptsFile)
	calls := 0
	if data, err := os.ReadFile(path); err == nil {
		calls, _ = strconv.Atoi(strings.TrimSpace(string(data)))
	}
	calls++
	if err := os.WriteFile(path, []byte(strconv.Itoa(calls)), 0o644); err != nil {
		return 0, fmt.Errorf("recording attempt: %w", err)
	}
	return calls, nil
}

// NewServer builds an MCP server exposing the agent's tool.
func NewServer(agent *Agent) *server.MCPServer {
	s := server.NewMCPServer(
		"fake-codex",
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTool(agent.Definition(), agent.Handle)
	return s
}

// Serve runs the agent over stdin/stdout until stdin closes.
func Serve() error {
	return server.ServeStdio(NewServer(New(os.Stderr)))
}
