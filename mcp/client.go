package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anna-belle-zhang/superpowerwithcodex/logger"
)

// CallOptions configures a one-shot tool invocation.
type CallOptions struct {
	// ToolName is the tool to invoke. Required.
	ToolName string
	// Arguments are passed as the tool's arguments; nil is sent as {}.
	Arguments map[string]any
	// Dir is the server's working directory.
	Dir string
	// Timeout bounds each request separately. Zero uses DefaultTimeout.
	Timeout time.Duration
	// OnProgress receives stderr text and notifications. May be nil.
	OnProgress ProgressFunc
	// ClientInfo identifies this client in initialize. Zero uses the defaults.
	ClientInfo ClientInfo
	// OnStart is told the server's pid once it is running. May be nil.
	OnStart func(pid int)
}

// CallTool spawns the server, performs the initialize handshake, invokes one
// tool and tears the server down, whatever the outcome. It returns the raw
// result of tools/call.
func CallTool(ctx context.Context, spec ServerSpec, opts CallOptions) (json.RawMessage, error) {
	if spec.Command == "" {
		return nil, ErrMissingCommand
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	info := opts.ClientInfo
	if info.Name == "" {
		info = ClientInfo{Name: DefaultClientName, Version: DefaultClientVersion}
	}
	args := opts.Arguments
	if args == nil {
		args = map[string]any{}
	}

	log := logger.WithInvocation(uuid.NewString()).With("tool", opts.ToolName)

	session, err := Start(spec, SessionOptions{Dir: opts.Dir, OnProgress: opts.OnProgress, Log: log})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if opts.OnStart != nil {
		opts.OnStart(session.PID())
	}

	initParams := InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    Capability{},
		ClientInfo:      info,
	}
	initReply, err := session.Request(ctx, methodInitialize, initParams, timeout)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	var initResult InitializeResult
	if err := json.Unmarshal(initReply, &initResult); err == nil {
		log.Debug("server initialized",
			"server", initResult.ServerInfo.Name,
			"version", initResult.ServerInfo.Version,
			"protocol", initResult.ProtocolVersion)
	}

	if err := session.Notify(methodInitialized, emptyParams{}); err != nil {
		return nil, fmt.Errorf("initialized: %w", err)
	}

	result, err := session.Request(ctx, methodToolsCall, ToolCallParams{Name: opts.ToolName, Arguments: args}, timeout)
	if err != nil {
		return nil, fmt.Errorf("tools/call %s: %w", opts.ToolName, err)
	}
	log.Info("tool call completed", "bytes", len(result))
	return result, nil
}
