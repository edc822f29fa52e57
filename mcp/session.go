package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/anna-belle-zhang/superpowerwithcodex/logger"
	"github.com/anna-belle-zhang/superpowerwithcodex/process"
)

const (
	// stderrChunkSize is the read size for the diagnostic stream.
	stderrChunkSize = 32 * 1024
	// reapTimeout is how long Close waits for the killed server to release
	// its pipes before closing them from our side.
	reapTimeout = 2 * time.Second
)

// ProgressFunc receives human-readable progress: raw stderr text from the
// server and "[mcp] <method>" for server notifications. It may be called from
// more than one goroutine at once. A panic inside it is recovered and ignored.
type ProgressFunc func(message string)

// Emit calls f with message unless f is nil. A panic inside f is recovered
// and returned instead of propagating.
func (f ProgressFunc) Emit(message string) (panicked any) {
	if f == nil {
		return nil
	}
	defer func() {
		panicked = recover()
	}()
	f(message)
	return nil
}

// SessionOptions configures a spawned server.
type SessionOptions struct {
	// Dir is the working directory of the server process. Empty means the
	// current directory.
	Dir string
	// OnProgress receives stderr text and notifications. May be nil.
	OnProgress ProgressFunc
	// Log receives session diagnostics. Nil uses a fresh invocation logger.
	Log *slog.Logger
}

// Session owns one MCP server subprocess and the JSON-RPC traffic over its
// stdin/stdout. It is created by Start and must be released with Close.
type Session struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	pending    *Registry
	onProgress ProgressFunc
	log        *slog.Logger
	nextID     atomic.Int64

	writeMu sync.Mutex
	pumps   errgroup.Group

	exited    chan struct{} // closed after cmd.Wait returns
	exitErr   error
	closeOnce sync.Once
}

// Start spawns the server described by spec with separate pipes for stdin,
// stdout and stderr, and begins reading its output.
func Start(spec ServerSpec, opts SessionOptions) (*Session, error) {
	if spec.Command == "" {
		return nil, ErrMissingCommand
	}

	log := opts.Log
	if log == nil {
		log = logger.WithInvocation(uuid.NewString())
	}

	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Dir = opts.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), envPairs(spec.Env)...)
	}
	process.Isolate(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &TransportError{Op: "start", Err: fmt.Errorf("creating stdin pipe: %w", err)}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &TransportError{Op: "start", Err: fmt.Errorf("creating stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &TransportError{Op: "start", Err: fmt.Errorf("creating stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return nil, &TransportError{Op: "start", Err: fmt.Errorf("starting MCP server %q: %w", spec.Command, err)}
	}

	s := &Session{
		cmd:        cmd,
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		pending:    NewRegistry(),
		onProgress: opts.OnProgress,
		log:        log.With("pid", cmd.Process.Pid),
		exited:     make(chan struct{}),
	}
	s.log.Info("spawned MCP server", "command", spec.Command, "args", spec.Args, "dir", opts.Dir)

	s.pumps.Go(s.readStdout)
	s.pumps.Go(s.readStderr)
	go s.reap()

	return s, nil
}

// PID returns the server's process id.
func (s *Session) PID() int {
	return s.cmd.Process.Pid
}

// Request sends method with params under the next request id and waits up to
// timeout for the correlated reply. A JSON-RPC error reply is returned as
// *RPCError; no reply in time is ErrTimeout; a dead pipe is *TransportError.
func (s *Session) Request(ctx context.Context, method string, params any, timeout time.Duration) (json.RawMessage, error) {
	id := s.nextID.Add(1)
	key := strconv.FormatInt(id, 10)

	call, err := s.pending.Register(key)
	if err != nil {
		return nil, err
	}

	s.log.Debug("sending request", "id", id, "method", method)
	if err := s.write(Request{JSONRPC: jsonRPCVersion, ID: id, Method: method, Params: params}); err != nil {
		s.pending.Remove(key)
		return nil, err
	}

	result, err := await(ctx, s.pending, call, timeout)
	if errors.Is(err, ErrTimeout) {
		s.log.Warn("request timed out", "id", id, "method", method, "timeout", timeout)
	}
	return result, err
}

// Notify sends a notification; no reply is expected.
func (s *Session) Notify(method string, params any) error {
	s.log.Debug("sending notification", "method", method)
	return s.write(Notification{JSONRPC: jsonRPCVersion, Method: method, Params: params})
}

func (s *Session) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	data = append(data, '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.stdin.Write(data); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// Close kills the server, waits for it to be reaped, and rejects anything
// still pending. Safe to call more than once; only the first call acts.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.stdin.Close()

		select {
		case <-s.exited:
			// Reaped already; its pid may belong to another process now.
		default:
			if err := process.Kill(s.cmd.Process); err != nil {
				s.log.Warn("failed to kill MCP server", "error", err)
			}
		}

		select {
		case <-s.exited:
		case <-time.After(reapTimeout):
			// A grandchild outside our process group still holds the pipes.
			s.log.Warn("server pipes still open after kill, closing them")
			s.stdout.Close()
			s.stderr.Close()
			<-s.exited
		}

		if n := s.pending.RejectAll(ErrSessionClosed); n > 0 {
			s.log.Debug("rejected pending calls on close", "count", n)
		}
		s.log.Info("MCP server stopped", "exit", s.exitErr)
	})
	return nil
}

// reap is the sole caller of cmd.Wait. It waits for both pumps first, since
// Wait closes the pipes and would otherwise drop unread output.
func (s *Session) reap() {
	if err := s.pumps.Wait(); err != nil {
		s.log.Debug("output pump stopped", "error", err)
	}
	s.exitErr = s.cmd.Wait()
	close(s.exited)
}

// readStdout feeds framed messages to dispatch until the stream ends, then
// fails every call still waiting: no reply can arrive any more.
func (s *Session) readStdout() error {
	framer := NewFramer(s.stdout, s.log)
	for {
		msg, err := framer.Next()
		if err != nil {
			cause := errServerExited
			if !errors.Is(err, io.EOF) {
				cause = err
			}
			if n := s.pending.RejectAll(&TransportError{Op: "read", Err: cause}); n > 0 {
				s.log.Warn("server output closed with calls pending", "count", n, "error", cause)
			}
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
		s.dispatch(msg)
	}
}

// dispatch routes a reply to its pending call, or reports anything else
// carrying a method to the progress sink.
func (s *Session) dispatch(msg *Message) {
	if key := msg.idKey(); key != "" {
		var settled bool
		if msg.Error != nil {
			settled = s.pending.Reject(key, msg.Error)
		} else {
			settled = s.pending.Resolve(key, msg.Result)
		}
		if settled {
			return
		}
	}

	if msg.Method != "" {
		s.progress("[mcp] " + msg.Method)
		return
	}
	s.log.Debug("ignoring uncorrelated message", "id", string(msg.ID))
}

// readStderr forwards diagnostic output verbatim to the progress sink.
func (s *Session) readStderr() error {
	buf := make([]byte, stderrChunkSize)
	for {
		n, err := s.stderr.Read(buf)
		if n > 0 {
			s.progress(string(buf[:n]))
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func (s *Session) progress(message string) {
	if r := s.onProgress.Emit(message); r != nil {
		s.log.Debug("progress callback panicked", "panic", r)
	}
}

func envPairs(env map[string]string) []string {
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	return pairs
}
