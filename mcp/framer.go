package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
)

// Framer splits a byte stream into newline-delimited JSON-RPC messages.
//
// Blank lines and lines that are not a JSON object are skipped: servers often
// print banners or partial lines while starting up. A final line without a
// trailing newline is still delivered.
type Framer struct {
	reader *bufio.Reader
	log    *slog.Logger
}

// NewFramer creates a Framer reading from r.
func NewFramer(r io.Reader, log *slog.Logger) *Framer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Framer{reader: bufio.NewReader(r), log: log}
}

// Next returns the next well-formed message. It returns io.EOF once the
// stream is exhausted, or the underlying read error.
func (f *Framer) Next() (*Message, error) {
	for {
		line, readErr := f.reader.ReadBytes('\n')

		if msg, ok := f.parse(line); ok {
			return msg, nil
		}
		if readErr != nil {
			return nil, readErr
		}
	}
}

func (f *Framer) parse(line []byte) (*Message, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, false
	}

	var msg Message
	if err := json.Unmarshal(line, &msg); err != nil {
		f.log.Debug("dropping unparsable line", "error", err, "line", truncate(line, 200))
		return nil, false
	}
	return &msg, true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
