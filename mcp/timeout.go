package mcp

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultTimeout bounds each request of a tool invocation.
const DefaultTimeout = 60 * time.Second

// await races call against a deadline of d. Whichever happens first wins:
// on timeout the call is dropped from the registry so a late reply is
// ignored, and ErrTimeout is returned.
func await(ctx context.Context, registry *Registry, call *PendingCall, d time.Duration) (json.RawMessage, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-call.Done():
		return call.Result()
	case <-timer.C:
		registry.Remove(call.id)
		return nil, ErrTimeout
	case <-ctx.Done():
		registry.Remove(call.id)
		return nil, ctx.Err()
	}
}
