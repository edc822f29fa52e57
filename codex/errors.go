package codex

import "errors"

var (
	// ErrNotConfigured matches every NotConfiguredError.
	ErrNotConfigured = errors.New("not configured in .mcp.json")

	// ErrInvalidPrompt rejects an empty prompt before anything is spawned.
	ErrInvalidPrompt = errors.New("prompt must be a non-empty string")

	// ErrNegativeRetries rejects a retry count below zero.
	ErrNegativeRetries = errors.New("retry count must not be negative")
)

// fallbackError is reported when attempts failed without any message.
const fallbackError = "Codex execution failed"

// NotConfiguredError reports that the named server entry could not be found,
// either because .mcp.json is missing or unreadable (Err) or because it has
// no entry under that name.
type NotConfiguredError struct {
	Server string
	Err    error
}

func (e *NotConfiguredError) Error() string {
	return e.Server + " not configured in .mcp.json"
}

func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrNotConfigured
}

func (e *NotConfiguredError) Unwrap() error {
	return e.Err
}

// LogicalFailure is a tool reply whose text starts with "Error:". The
// transport and protocol worked; the agent itself reported failure.
type LogicalFailure struct {
	// Message is the reply text after the "Error:" prefix.
	Message string
	// Output is the complete reply text.
	Output string
}

func (e *LogicalFailure) Error() string {
	return e.Message
}
