// superpowers-codex delegates implementation tasks to a Codex agent over MCP.
//
// Usage:
//
//	superpowers-codex check                 # Verify .mcp.json and the agent command
//	superpowers-codex run --prompt "..."    # Run the agent with retries
//	superpowers-codex run --task task.yaml  # Run a task file with file boundaries
//	superpowers-codex retry-prompt ...      # Print the prompt for a retry attempt
//	superpowers-codex boundaries --task ... # Report changes outside a task's boundaries
//	superpowers-codex config set codex mcp  # Write the codex-subagent entry to .mcp.json
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anna-belle-zhang/superpowerwithcodex/logger"
)

// Version is the CLI version.
const Version = "0.1.0"

// Exit codes beyond 0 and 1.
const (
	exitUsage    = 2
	exitEscalate = 3
)

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func main() {
	os.Exit(run())
}

// run dispatches the subcommand and returns the process exit code.
func run() int {
	if len(os.Args) < 2 {
		printUsage()
		return exitUsage
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer logger.Close()

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "check":
		err = runCheck(args)
	case "run":
		err = runTask(ctx, args)
	case "retry-prompt":
		err = runRetryPrompt(args)
	case "boundaries":
		err = runBoundaries(ctx, args)
	case "config":
		err = runConfig(args)
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-v", "version":
		fmt.Printf("superpowers-codex v%s\n", Version)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		return exitUsage
	}

	return exitCode(err)
}

// exitCode reports err on stderr and maps it to an exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func printUsage() {
	fmt.Fprint(os.Stderr, `superpowers-codex - delegate implementation tasks to a Codex agent over MCP

Usage:
  superpowers-codex <command> [flags]

Commands:
  check          Verify .mcp.json, the codex-subagent entry and its command
  run            Run the agent on a prompt or task file, retrying on failure
  retry-prompt   Print the prompt for a retry attempt from structured feedback
  boundaries     List changed files that break a task's file boundaries
  config         List, set or remove server entries in .mcp.json
  version        Print the version

Run 'superpowers-codex <command> -h' for command flags.
`)
}
