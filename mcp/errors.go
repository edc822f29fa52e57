package mcp

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a request gets no reply within its deadline.
	// It is distinct from *RPCError, which means the server did reply.
	ErrTimeout = errors.New("MCP timeout")

	// ErrMissingCommand is a configuration error: the ServerSpec has no command.
	ErrMissingCommand = errors.New(`MCP server config missing "command"`)

	// ErrSessionClosed rejects calls still pending when a session is torn down.
	ErrSessionClosed = errors.New("MCP session closed")

	// errServerExited is the cause recorded when the server closes stdout.
	errServerExited = errors.New("MCP server exited")
)

// RPCError represents a JSON-RPC error object sent by the server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Message == "" {
		return "MCP error"
	}
	return e.Message
}

// TransportError reports a failure of the pipe to the server: it could not be
// started, a write failed, or the server went away.
type TransportError struct {
	Op  string // "start", "write", "read"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("MCP transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
