package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// HookConfig defines a shell command to run after the agent succeeds.
type HookConfig struct {
	Run string `yaml:"run"`
}

// HookContext provides environment variables for hook execution.
type HookContext struct {
	WorkDir  string
	TaskFile string
	Attempts int
}

// envVars returns the hook context as environment variable pairs.
func (hc HookContext) envVars() []string {
	return []string{
		fmt.Sprintf("CODEX_WORKDIR=%s", hc.WorkDir),
		fmt.Sprintf("CODEX_TASK_FILE=%s", hc.TaskFile),
		fmt.Sprintf("CODEX_ATTEMPTS=%d", hc.Attempts),
	}
}

// RunHooks executes hooks sequentially in the working directory. Errors are
// logged but do not stop later hooks. Returns the number of hooks that failed.
func RunHooks(ctx context.Context, hooks []HookConfig, hookCtx HookContext, logger *slog.Logger) int {
	failed := 0
	for _, hook := range hooks {
		if hook.Run == "" {
			continue
		}

		cmd := exec.CommandContext(ctx, "sh", "-c", hook.Run)
		cmd.Dir = hookCtx.WorkDir
		cmd.Env = append(os.Environ(), hookCtx.envVars()...)

		output, err := cmd.CombinedOutput()
		if err != nil {
			failed++
			logger.Warn("hook failed",
				"command", hook.Run,
				"error", err,
				"output", string(output),
			)
			continue
		}

		logger.Debug("hook completed",
			"command", hook.Run,
			"output", string(output),
		)
	}
	return failed
}
