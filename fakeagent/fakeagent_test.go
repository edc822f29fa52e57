package fakeagent

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func callRequest(prompt string) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName
	req.Params.Arguments = map[string]any{"prompt": prompt}
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestHandle(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	wd, _ := os.Getwd()

	tests := []struct {
		name    string
		prompt  string
		want    string
		isError bool
	}{
		{name: "plain prompt", prompt: "add a test", want: "completed in " + wd + ": add a test"},
		{name: "logical failure", prompt: "FAIL: tests are red", want: "Error: tests are red"},
		{name: "empty prompt", prompt: "  ", want: "prompt is required", isError: true},
		{name: "sleep", prompt: "SLEEP 1ms: nap", want: "completed in " + wd + ": nap"},
		{name: "bad sleep", prompt: "SLEEP soon: nap", want: "Error: bad SLEEP duration soon"},
		{name: "directive without colon", prompt: "SLEEP forever", want: "completed in " + wd + ": SLEEP forever"},
	}

	agent := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := agent.Handle(context.Background(), callRequest(tt.prompt))
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if result.IsError != tt.isError {
				t.Errorf("IsError = %v, want %v", result.IsError, tt.isError)
			}
			if got := resultText(t, result); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandle_Flaky(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	agent := New(nil)
	want := []string{
		"Error: flaky failure 1 of 2",
		"Error: flaky failure 2 of 2",
	}
	for i, w := range want {
		result, err := agent.Handle(context.Background(), callRequest("FLAKY 2: fix it"))
		if err != nil {
			t.Fatalf("call %d: Handle() error = %v", i+1, err)
		}
		if got := resultText(t, result); got != w {
			t.Errorf("call %d: text = %q, want %q", i+1, got, w)
		}
	}

	result, err := agent.Handle(context.Background(), callRequest("FLAKY 2: fix it"))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := resultText(t, result); !strings.HasSuffix(got, ": fix it") || strings.HasPrefix(got, "Error:") {
		t.Errorf("third call text = %q, want success", got)
	}

	data, err := os.ReadFile(filepath.Join(dir, AttemptsFile))
	if err != nil {
		t.Fatalf("reading attempts file: %v", err)
	}
	if string(data) != "3" {
		t.Errorf("attempts file = %q, want %q", data, "3")
	}
}

func TestHandle_SleepCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := New(nil).Handle(ctx, callRequest("SLEEP 1m: never"))
	if err == nil {
		t.Fatal("expected error when context is cancelled")
	}
}

func TestHandle_WritesDiagnostics(t *testing.T) {
	t.Chdir(t.TempDir())

	var stderr strings.Builder
	if _, err := New(&stderr).Handle(context.Background(), callRequest("hello")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(stderr.String(), "received prompt (5 bytes)") {
		t.Errorf("stderr = %q, want prompt size", stderr.String())
	}
}

func TestDefinition(t *testing.T) {
	tool := New(nil).Definition()
	if tool.Name != ToolName {
		t.Errorf("Name = %q, want %q", tool.Name, ToolName)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "prompt" {
		t.Errorf("Required = %v, want [prompt]", tool.InputSchema.Required)
	}
}
