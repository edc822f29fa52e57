package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/anna-belle-zhang/superpowerwithcodex/cli"
	"github.com/anna-belle-zhang/superpowerwithcodex/codex"
	"github.com/anna-belle-zhang/superpowerwithcodex/config"
	"github.com/anna-belle-zhang/superpowerwithcodex/git"
	"github.com/anna-belle-zhang/superpowerwithcodex/logger"
	"github.com/anna-belle-zhang/superpowerwithcodex/workflow"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// usageError reports bad flags with exit code 2.
func usageError(format string, args ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	configDir := fs.String("config-dir", "", "directory containing .mcp.json (default: current directory)")
	server := fs.String("server", codex.DefaultServerName, "server entry in .mcp.json")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	return check(cli.NewChecker(), *configDir, *server)
}

// check prints the prerequisite report and the availability of server. A
// missing required CLI is only a warning: the entry may launch another command.
func check(checker *cli.Checker, configDir, server string) error {
	prereqs := cli.DefaultPrerequisites()
	fmt.Print(cli.FormatCheckResults(checker.CheckAll(prereqs)))
	if err := checker.ValidateRequired(prereqs); err != nil {
		yellow.Println(err)
	}
	fmt.Println()

	client := codex.New(codex.WithConfigDir(configDir), codex.WithServerName(server), codex.WithChecker(checker))
	availability := client.CheckAvailability()
	if !availability.Available {
		red.Print("✗ ")
		fmt.Printf("%s unavailable: %s\n", server, availability.Error)
		if names := configuredServers(configDir); len(names) > 0 {
			fmt.Printf("Configured servers: %s\n", strings.Join(names, ", "))
		}
		return &exitError{code: 1}
	}

	green.Print("✓ ")
	fmt.Printf("%s is available\n", server)
	return nil
}

// configuredServers lists the entries of the .mcp.json in dir, or nothing
// when it cannot be loaded.
func configuredServers(dir string) []string {
	if dir == "" {
		dir = "."
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil
	}
	return cfg.ServerNames()
}

func runRetryPrompt(args []string) error {
	fs := flag.NewFlagSet("retry-prompt", flag.ContinueOnError)
	prompt := fs.String("prompt", "", "original task prompt")
	feedbackArg := fs.String("feedback", "{}", "feedback as JSON, or @path to a JSON file")
	attempt := fs.Int("attempt", 1, "retry attempt number (1-based)")
	maxRetries := fs.Int("max", 2, "maximum number of retries")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	feedback, err := parseFeedback(*feedbackArg)
	if err != nil {
		return usageError("%v", err)
	}
	if !workflow.NewParamHelper(feedback).Has("failure_type") {
		yellow.Fprintln(os.Stderr, "feedback has no failure_type; it will be included as JSON")
	}

	result := workflow.RetryWithFeedback(*prompt, feedback, *attempt, *maxRetries)
	if result.ShouldEscalate {
		red.Fprint(os.Stderr, "escalate: ")
		fmt.Fprintf(os.Stderr, "attempt %d exceeds the maximum of %d retries\n", *attempt, *maxRetries)
		return &exitError{code: exitEscalate}
	}

	fmt.Print(result.Prompt)
	return nil
}

// parseFeedback decodes a JSON object given inline or as @path.
func parseFeedback(arg string) (map[string]any, error) {
	data := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read feedback file: %w", err)
		}
	}

	var feedback map[string]any
	if err := json.Unmarshal(data, &feedback); err != nil {
		return nil, fmt.Errorf("feedback must be a JSON object: %w", err)
	}
	return feedback, nil
}

func runBoundaries(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("boundaries", flag.ContinueOnError)
	taskPath := fs.String("task", "", "task file declaring implement_in / read_only")
	dir := fs.String("dir", ".", "working directory to inspect")
	instructions := fs.Bool("instructions", false, "print the boundary instructions instead of checking")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *taskPath == "" {
		return usageError("--task is required")
	}

	task, err := workflow.LoadTask(*taskPath)
	if err != nil {
		return err
	}
	bounds := workflow.BuildFileBoundaries(task)

	if *instructions {
		fmt.Print(workflow.FormatBoundaryInstructions(bounds))
		return nil
	}

	violations, err := checkBoundaries(ctx, *dir, bounds)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// checkBoundaries prints the changes in dir that break bounds and returns them.
func checkBoundaries(ctx context.Context, dir string, bounds workflow.Boundaries) ([]string, error) {
	svc := git.NewGitService()
	if !svc.IsRepo(ctx, dir) {
		return nil, fmt.Errorf("%s is not a git working tree", dir)
	}

	changed, err := svc.ChangedFiles(ctx, dir)
	if err != nil {
		return nil, err
	}

	violations := workflow.DetectBoundaryViolations(changed, bounds)
	logger.WithComponent("boundaries").Info("checked boundaries",
		"dir", dir, "changed", len(changed), "violations", len(violations))

	if len(violations) == 0 {
		green.Print("✓ ")
		fmt.Printf("%d changed file(s), all within boundaries\n", len(changed))
		return violations, nil
	}

	red.Print("✗ ")
	fmt.Printf("%d file(s) changed outside the task's boundaries:\n", len(violations))
	for _, v := range violations {
		fmt.Printf("  - %s\n", v)
	}
	return violations, nil
}

// absDir resolves dir for logging and hooks; errors fall back to dir as given.
func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// parseFlags parses args into fs. -h prints the flag help and is not an error.
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return &exitError{code: 0}
	}
	if err != nil {
		return &exitError{code: exitUsage}
	}
	return nil
}
