// Package mcp implements a minimal Model Context Protocol client over a
// subprocess's standard streams.
//
// # Overview
//
// A server is spawned with separate pipes for stdin, stdout and stderr.
// Messages are newline-delimited JSON-RPC 2.0 objects: one message per line,
// written to the server's stdin and read from its stdout. Stderr carries free
// text diagnostics that are forwarded to an optional progress callback.
//
// # Call Flow
//
// CallTool performs a complete one-shot invocation:
//
//	Start (spawn server)
//	    ↓
//	initialize (id 1, protocolVersion 2024-11-05)
//	    ↓
//	initialized (notification, no reply)
//	    ↓
//	tools/call (id 2, {name, arguments})
//	    ↓
//	Close (kill process group, reap, reject pending)
//
// Teardown runs on every exit path, including timeouts and errors.
//
// # Correlation
//
// Every request registers a PendingCall keyed by its id. A reply settles the
// call and removes it; a timeout removes it without settling, so a reply that
// arrives late is ignored. Lines that are not valid JSON are dropped. Messages
// that carry a method instead of a known id are reported to the progress
// callback as "[mcp] <method>".
//
// # Errors
//
//   - ErrMissingCommand: the ServerSpec has no command
//   - *TransportError: the server could not be started, written to, or went away
//   - *RPCError: the server replied with a JSON-RPC error
//   - ErrTimeout: no reply within the per-request deadline (DefaultTimeout)
//
// NormalizeText turns a tools/call result into plain text.
package mcp
