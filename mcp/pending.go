package mcp

import (
	"encoding/json"
	"fmt"
	"sync"
)

// PendingCall is the completion handle for one outstanding request. It is
// settled exactly once: by a reply, by a rejection, or by bulk failure.
type PendingCall struct {
	id     string
	done   chan struct{}
	result json.RawMessage
	err    error
}

// Done is closed when the call settles.
func (c *PendingCall) Done() <-chan struct{} {
	return c.done
}

// Result returns the settled outcome. Only valid after Done is closed.
func (c *PendingCall) Result() (json.RawMessage, error) {
	return c.result, c.err
}

// Registry maps request ids to their pending calls. Settling removes the
// entry, so a reply that arrives after its call timed out or was rejected
// finds nothing and is ignored.
//
// After RejectAll the registry is closed: Register fails with the same error,
// since no reply can arrive once the transport is gone.
type Registry struct {
	mu     sync.Mutex
	calls  map[string]*PendingCall
	closed error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{calls: make(map[string]*PendingCall)}
}

// Register creates a pending call for id.
func (r *Registry) Register(id string) (*PendingCall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed != nil {
		return nil, r.closed
	}
	if _, exists := r.calls[id]; exists {
		return nil, fmt.Errorf("request id %s already pending", id)
	}
	call := &PendingCall{id: id, done: make(chan struct{})}
	r.calls[id] = call
	return call, nil
}

// take removes and returns the call for id, or nil.
func (r *Registry) take(id string) *PendingCall {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := r.calls[id]
	delete(r.calls, id)
	return call
}

// Resolve settles the call for id with result. Returns false if no call was
// pending under that id.
func (r *Registry) Resolve(id string, result json.RawMessage) bool {
	call := r.take(id)
	if call == nil {
		return false
	}
	call.result = result
	close(call.done)
	return true
}

// Reject settles the call for id with err. Returns false if no call was
// pending under that id.
func (r *Registry) Reject(id string, err error) bool {
	call := r.take(id)
	if call == nil {
		return false
	}
	call.err = err
	close(call.done)
	return true
}

// RejectAll settles every pending call with err, empties the registry and
// closes it. Only the first error is kept for later Register calls. Returns
// the number of calls rejected.
func (r *Registry) RejectAll(err error) int {
	r.mu.Lock()
	if r.closed == nil {
		r.closed = err
	}
	calls := r.calls
	r.calls = make(map[string]*PendingCall)
	r.mu.Unlock()

	for _, call := range calls {
		call.err = err
		close(call.done)
	}
	return len(calls)
}

// Remove drops the call for id without settling it. Used by the timeout guard
// once it has given up on a call.
func (r *Registry) Remove(id string) {
	r.take(id)
}

// Len returns the number of pending calls.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
