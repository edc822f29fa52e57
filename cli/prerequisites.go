// Package cli provides utilities for CLI tool discovery and validation.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	pexec "github.com/anna-belle-zhang/superpowerwithcodex/exec"
)

// versionTimeout bounds each --version probe.
const versionTimeout = 5 * time.Second

// Prerequisite represents a required CLI tool
type Prerequisite struct {
	Name        string // Command name (e.g., "codex", "git")
	Required    bool   // Whether the tool is required to run
	Description string // Human-readable description
	InstallURL  string // URL for installation instructions
}

// DefaultPrerequisites returns the CLI tools superpowers-codex relies on.
func DefaultPrerequisites() []Prerequisite {
	return []Prerequisite{
		{
			Name:        "codex",
			Required:    true,
			Description: "Codex CLI",
			InstallURL:  "https://github.com/openai/codex",
		},
		{
			Name:        "git",
			Required:    false, // Only needed to list changed files for boundary checks
			Description: "Git version control (optional, for boundary checks)",
			InstallURL:  "https://git-scm.com/downloads",
		},
	}
}

// CheckResult contains the result of checking a prerequisite
type CheckResult struct {
	Prerequisite Prerequisite
	Found        bool
	Path         string // Path to the executable if found
	Version      string // Version string if available
	Error        error
}

// Checker probes PATH through a CommandExecutor.
type Checker struct {
	executor pexec.CommandExecutor
}

// NewChecker creates a Checker backed by the real executor.
func NewChecker() *Checker {
	return &Checker{executor: pexec.NewRealExecutor()}
}

// NewCheckerWithExecutor creates a Checker with a custom executor.
func NewCheckerWithExecutor(e pexec.CommandExecutor) *Checker {
	return &Checker{executor: e}
}

// CommandExists reports whether name resolves on PATH.
func (c *Checker) CommandExists(name string) bool {
	_, err := c.executor.LookPath(name)
	return err == nil
}

// Check verifies that a CLI tool is available in PATH
func (c *Checker) Check(prereq Prerequisite) CheckResult {
	result := CheckResult{Prerequisite: prereq}

	path, err := c.executor.LookPath(prereq.Name)
	if err != nil {
		result.Error = fmt.Errorf("%s not found in PATH", prereq.Name)
		return result
	}

	result.Found = true
	result.Path = path
	result.Version = c.version(prereq.Name)
	return result
}

// CheckAll verifies all prerequisites and returns results
func (c *Checker) CheckAll(prereqs []Prerequisite) []CheckResult {
	results := make([]CheckResult, len(prereqs))
	for i, prereq := range prereqs {
		results[i] = c.Check(prereq)
	}
	return results
}

// ValidateRequired checks that all required prerequisites are met.
// Returns nil if all required tools are found, otherwise an error
// describing what's missing.
func (c *Checker) ValidateRequired(prereqs []Prerequisite) error {
	var missing []string

	for _, prereq := range prereqs {
		if !prereq.Required {
			continue
		}
		if !c.CommandExists(prereq.Name) {
			missing = append(missing, fmt.Sprintf("  - %s (%s)\n    Install: %s",
				prereq.Name, prereq.Description, prereq.InstallURL))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required CLI tools:\n%s", strings.Join(missing, "\n"))
	}
	return nil
}

// version returns the first line of `name --version`, or "".
func (c *Checker) version(name string) string {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()

	output, err := c.executor.Output(ctx, "", name, "--version")
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(output), "\n")
	line = strings.TrimSpace(line)
	if len(line) > 100 {
		line = line[:100] + "..."
	}
	return line
}

// FormatCheckResults formats check results for display
func FormatCheckResults(results []CheckResult) string {
	var sb strings.Builder

	sb.WriteString("CLI Prerequisites:\n")
	for _, r := range results {
		status := "✓"
		if !r.Found {
			if r.Prerequisite.Required {
				status = "✗"
			} else {
				status = "○"
			}
		}

		fmt.Fprintf(&sb, "  %s %s", status, r.Prerequisite.Name)
		if r.Found && r.Version != "" {
			fmt.Fprintf(&sb, " (%s)", r.Version)
		} else if !r.Found {
			if r.Prerequisite.Required {
				sb.WriteString(" [REQUIRED]")
			} else {
				sb.WriteString(" [optional]")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
