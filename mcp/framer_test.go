package mcp

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFramer_Next(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"result":{}}`,
		``,
		`   `,
		`starting server...`,
		`{"jsonrpc":"2.0","method":"notifications/message","params":{"level":"info"}}`,
		`{not json`,
		`[1,2,3]`,
		`{"jsonrpc":"2.0","id":2,"error":{"code":-32601,"message":"no such tool"}}`,
	}, "\n") + "\n"

	f := NewFramer(strings.NewReader(input), nil)

	msg, err := f.Next()
	if err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	if msg.idKey() != "1" {
		t.Errorf("first id = %q, want %q", msg.idKey(), "1")
	}

	msg, err = f.Next()
	if err != nil {
		t.Fatalf("second Next() error = %v", err)
	}
	if msg.Method != "notifications/message" {
		t.Errorf("second method = %q, want notifications/message", msg.Method)
	}
	if msg.idKey() != "" {
		t.Errorf("notification idKey = %q, want empty", msg.idKey())
	}

	msg, err = f.Next()
	if err != nil {
		t.Fatalf("third Next() error = %v", err)
	}
	if msg.Error == nil || msg.Error.Code != -32601 || msg.Error.Message != "no such tool" {
		t.Errorf("third error = %+v, want code -32601", msg.Error)
	}

	if _, err := f.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("final Next() error = %v, want io.EOF", err)
	}
}

func TestFramer_FinalLineWithoutNewline(t *testing.T) {
	f := NewFramer(strings.NewReader("\n"+`{"jsonrpc":"2.0","id":7,"result":"done"}`), nil)

	msg, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if msg.idKey() != "7" {
		t.Errorf("id = %q, want %q", msg.idKey(), "7")
	}
	if string(msg.Result) != `"done"` {
		t.Errorf("result = %s, want %q", msg.Result, `"done"`)
	}

	if _, err := f.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after last line error = %v, want io.EOF", err)
	}
}

func TestFramer_EmptyStream(t *testing.T) {
	f := NewFramer(strings.NewReader(""), nil)
	if _, err := f.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestMessage_IDKey(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "number", id: `1`, want: "1"},
		{name: "string", id: `"1"`, want: `"1"`},
		{name: "null", id: `null`, want: ""},
		{name: "missing", id: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Message{ID: []byte(tt.id)}
			if got := msg.idKey(); got != tt.want {
				t.Errorf("idKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate([]byte("short"), 10); got != "short" {
		t.Errorf("truncate() = %q, want %q", got, "short")
	}
	if got := truncate([]byte("0123456789"), 4); got != "0123..." {
		t.Errorf("truncate() = %q, want %q", got, "0123...")
	}
}
