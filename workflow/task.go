package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Task is a unit of work for the agent, usually read from a yaml file:
//
//	prompt: |
//	  Add retry support to the HTTP client.
//	implement_in:
//	  - client/retry.go
//	  - client/retry_test.go
//	read_only:
//	  - client/client.go
//	tests_to_pass:
//	  - go test ./client/...
//	retries: 2
//	after:
//	  - run: go test ./client/...
//
// A prompt of the form "file:prompts/retry.md" is read from that file.
type Task struct {
	Prompt      string       `yaml:"prompt"`
	ImplementIn []string     `yaml:"implement_in,omitempty"`
	ReadOnly    []string     `yaml:"read_only,omitempty"`
	TestsToPass []string     `yaml:"tests_to_pass,omitempty"`
	Retries     int          `yaml:"retries,omitempty"`
	After       []HookConfig `yaml:"after,omitempty"`
}

// LoadTask reads and validates a task file. A "file:" prompt is resolved
// relative to the task file's directory.
func LoadTask(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	var task Task
	if err := yaml.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	prompt, err := ResolvePrompt(task.Prompt, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("invalid task file %s: %w", path, err)
	}
	task.Prompt = prompt

	if errs := ValidateTask(&task); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid task file %s: %s", path, strings.Join(msgs, "; "))
	}
	return &task, nil
}

// AgentPrompt is the prompt sent to the agent: the task prompt followed by
// the boundary instructions when the task declares any boundaries.
func (t *Task) AgentPrompt() string {
	b := BuildFileBoundaries(t)
	if b.IsZero() {
		return t.Prompt
	}
	return t.Prompt + "\n\n" + FormatBoundaryInstructions(b)
}
