package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anna-belle-zhang/superpowerwithcodex/paths"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(Reset)
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestGet_StructuredLogging(t *testing.T) {
	logPath := setupTestLogger(t)

	Get().Info("server spawned", "command", "codex", "pid", 123)

	content := readLog(t, logPath)
	for _, want := range []string{"server spawned", "command=codex", "pid=123", "time="} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q, got:\n%s", want, content)
		}
	}
}

func TestPath(t *testing.T) {
	logPath := setupTestLogger(t)
	if got := Path(); got != logPath {
		t.Errorf("Path() = %q, want %q", got, logPath)
	}
}

func TestLog_Concurrent(t *testing.T) {
	setupTestLogger(t)

	done := make(chan bool)
	for i := range 10 {
		go func(n int) {
			log := WithInvocation("inv")
			for j := range 100 {
				log.Debug("concurrent test", "goroutine", n, "iteration", j)
			}
			done <- true
		}(i)
	}
	for range 10 {
		<-done
	}
}

func TestReset(t *testing.T) {
	tmpDir := t.TempDir()
	logPath1 := filepath.Join(tmpDir, "log1.log")
	Reset()
	if err := Init(logPath1); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	Get().Info("message to log1")

	Reset()

	logPath2 := filepath.Join(tmpDir, "log2.log")
	if err := Init(logPath2); err != nil {
		t.Fatalf("Failed to reinit logger: %v", err)
	}
	Get().Info("message to log2")
	Reset()

	content1 := readLog(t, logPath1)
	if !strings.Contains(content1, "message to log1") || strings.Contains(content1, "message to log2") {
		t.Errorf("log1 has wrong content:\n%s", content1)
	}
	content2 := readLog(t, logPath2)
	if !strings.Contains(content2, "message to log2") || strings.Contains(content2, "message to log1") {
		t.Errorf("log2 has wrong content:\n%s", content2)
	}
}

func TestLogLevel_Filtering(t *testing.T) {
	logPath := setupTestLogger(t)

	SetDebug(false)
	Get().Debug("debug-filtered")
	Get().Info("info-visible")

	content := readLog(t, logPath)
	if strings.Contains(content, "debug-filtered") {
		t.Error("Debug message should be filtered at Info level")
	}
	if !strings.Contains(content, "info-visible") {
		t.Error("Info message should be visible at Info level")
	}

	SetDebug(true)
	defer SetDebug(false)
	Get().Debug("debug-visible")
	if !strings.Contains(readLog(t, logPath), "level=DEBUG") {
		t.Error("Debug message should be written once debug is enabled")
	}
}

func TestWithComponent(t *testing.T) {
	logPath := setupTestLogger(t)

	WithComponent("codex").Info("attempt started", "attempt", 1)

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=codex") {
		t.Error("Should contain 'component=codex' attribute")
	}
	if !strings.Contains(content, "attempt=1") {
		t.Error("Should contain 'attempt=1' attribute")
	}
}

func TestWithInvocation(t *testing.T) {
	logPath := setupTestLogger(t)

	WithInvocation("inv-42").Warn("request timed out", "method", "tools/call")

	content := readLog(t, logPath)
	if !strings.Contains(content, "invocationID=inv-42") {
		t.Error("Should contain 'invocationID=inv-42' attribute")
	}
	if !strings.Contains(content, "method=tools/call") {
		t.Error("Should contain 'method=tools/call' attribute")
	}
}

func TestEnsureInit_DefaultPath(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", "")
	paths.Reset()
	t.Cleanup(paths.Reset)

	if Get() == nil {
		t.Fatal("Get() returned nil")
	}
	if !strings.HasSuffix(Path(), filepath.Join("logs", "superpowers-codex.log")) {
		t.Errorf("unexpected default log path %q", Path())
	}
}
