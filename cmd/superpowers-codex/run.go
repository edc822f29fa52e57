package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/anna-belle-zhang/superpowerwithcodex/codex"
	"github.com/anna-belle-zhang/superpowerwithcodex/logger"
	"github.com/anna-belle-zhang/superpowerwithcodex/mcp"
	"github.com/anna-belle-zhang/superpowerwithcodex/workflow"
)

func runTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	prompt := fs.String("prompt", "", "task prompt for the agent")
	taskPath := fs.String("task", "", "task file (yaml) with prompt, boundaries, retries and hooks")
	dir := fs.String("dir", ".", "working directory the agent runs in")
	configDir := fs.String("config-dir", "", "directory containing .mcp.json (default: current directory)")
	server := fs.String("server", codex.DefaultServerName, "server entry in .mcp.json")
	tool := fs.String("tool", codex.DefaultToolName, "tool to call on the server")
	retries := fs.Int("retries", -1, "retries after the first attempt (default: task file value, else 0)")
	timeout := fs.Duration("timeout", mcp.DefaultTimeout, "timeout for each MCP request")
	verbose := fs.Bool("verbose", false, "stream the server's stderr and notifications")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	logger.SetDebug(*debug)
	log := logger.WithComponent("cli")

	var task *workflow.Task
	switch {
	case *prompt != "" && *taskPath != "":
		return usageError("use either --prompt or --task, not both")
	case *taskPath != "":
		var err error
		if task, err = workflow.LoadTask(*taskPath); err != nil {
			return err
		}
	case *prompt != "":
		task = &workflow.Task{Prompt: *prompt}
	default:
		return usageError("one of --prompt or --task is required")
	}

	retryCount := task.Retries
	if *retries >= 0 {
		retryCount = *retries
	}
	workDir := absDir(*dir)

	opts := []codex.Option{
		codex.WithConfigDir(*configDir),
		codex.WithServerName(*server),
		codex.WithToolName(*tool),
		codex.WithTimeout(*timeout),
	}
	if *verbose {
		opts = append(opts, codex.WithServerProgress(func(msg string) {
			fmt.Fprint(os.Stderr, msg)
			if len(msg) == 0 || msg[len(msg)-1] != '\n' {
				fmt.Fprintln(os.Stderr)
			}
		}))
	}
	client := codex.New(opts...)

	start := time.Now()
	outcome := client.Execute(ctx, codex.ExecuteConfig{
		Prompt:     task.AgentPrompt(),
		WorkingDir: workDir,
		RetryCount: retryCount,
		OnProgress: func(msg string) {
			cyan.Fprint(os.Stderr, "▶ ")
			fmt.Fprintln(os.Stderr, msg)
		},
	})
	log.Info("run finished", "success", outcome.Success, "attempts", outcome.Attempts, "elapsed", time.Since(start))

	if !outcome.Success {
		red.Fprint(os.Stderr, "✗ ")
		fmt.Fprintf(os.Stderr, "failed after %d attempt(s): %s\n", outcome.Attempts, outcome.Error)
		return &exitError{code: 1}
	}

	fmt.Println(outcome.Output)

	bounds := workflow.BuildFileBoundaries(task)
	if !bounds.IsZero() {
		violations, err := checkBoundaries(ctx, workDir, bounds)
		if err != nil {
			yellow.Fprintf(os.Stderr, "could not check boundaries: %v\n", err)
		} else if len(violations) > 0 {
			return &exitError{code: 1}
		}
	}

	if len(task.After) > 0 {
		hookCtx := workflow.HookContext{WorkDir: workDir, TaskFile: *taskPath, Attempts: outcome.Attempts}
		if failed := workflow.RunHooks(ctx, task.After, hookCtx, log); failed > 0 {
			yellow.Fprintf(os.Stderr, "%d hook(s) failed; see %s\n", failed, logger.Path())
		}
	}
	return nil
}
