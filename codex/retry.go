package codex

import (
	"context"
	"fmt"

	"github.com/anna-belle-zhang/superpowerwithcodex/mcp"
)

// ExecuteConfig describes a task for Execute.
type ExecuteConfig struct {
	Prompt     string
	WorkingDir string
	// RetryCount is the number of retries after the first attempt.
	RetryCount int
	// OnProgress receives one message before each attempt and one on success.
	OnProgress mcp.ProgressFunc
}

// Outcome is the result of Execute. Attempts is the number of agent
// invocations actually made, including on total failure.
type Outcome struct {
	Success  bool
	Output   string
	Error    string
	Attempts int
}

// Execute runs the agent up to RetryCount+1 times, stopping at the first
// success. On exhaustion it reports the last error seen. Invalid input fails
// with zero attempts and nothing spawned. Cancelling ctx stops further
// attempts.
func (c *Client) Execute(ctx context.Context, cfg ExecuteConfig) Outcome {
	if cfg.Prompt == "" {
		return Outcome{Error: ErrInvalidPrompt.Error()}
	}
	if cfg.RetryCount < 0 {
		return Outcome{Error: ErrNegativeRetries.Error()}
	}

	total := cfg.RetryCount + 1
	attempts := 0
	lastError := ""

	for attempts < total {
		if err := ctx.Err(); err != nil {
			lastError = err.Error()
			break
		}
		attempts++

		c.progress(cfg.OnProgress, fmt.Sprintf("Codex implementing... (attempt %d/%d)", attempts, total))
		c.log.Info("starting attempt", "attempt", attempts, "total", total, "dir", cfg.WorkingDir)

		result := c.SpawnAgent(ctx, cfg.Prompt, cfg.WorkingDir)
		if result.Success {
			c.progress(cfg.OnProgress, "Codex completed successfully")
			return Outcome{Success: true, Output: result.Output, Attempts: attempts}
		}

		lastError = result.Error
		if lastError == "" {
			lastError = fallbackError
		}
		c.log.Warn("attempt failed", "attempt", attempts, "total", total, "error", lastError)
	}

	if lastError == "" {
		lastError = fallbackError
	}
	return Outcome{Error: lastError, Attempts: attempts}
}

func (c *Client) progress(fn mcp.ProgressFunc, message string) {
	if r := fn.Emit(message); r != nil {
		c.log.Debug("progress callback panicked", "panic", r)
	}
}
