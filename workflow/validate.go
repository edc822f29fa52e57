package workflow

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError describes a single validation problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTask checks a Task for errors and returns all problems found.
func ValidateTask(task *Task) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(task.Prompt) == "" {
		errs = append(errs, ValidationError{
			Field:   "prompt",
			Message: "prompt is required",
		})
	}

	if task.Retries < 0 {
		errs = append(errs, ValidationError{
			Field:   "retries",
			Message: fmt.Sprintf("must not be negative, got %d", task.Retries),
		})
	}

	errs = append(errs, validatePaths("implement_in", task.ImplementIn)...)
	errs = append(errs, validatePaths("read_only", task.ReadOnly)...)

	for i, hook := range task.After {
		if strings.TrimSpace(hook.Run) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("after[%d].run", i),
				Message: "run is required",
			})
		}
	}

	return errs
}

// validatePaths checks that boundary entries are relative paths that stay
// inside the working directory, since changed files are reported relative to it.
func validatePaths(field string, files []string) []ValidationError {
	var errs []ValidationError
	for i, f := range files {
		name := fmt.Sprintf("%s[%d]", field, i)
		switch {
		case strings.TrimSpace(f) == "":
			errs = append(errs, ValidationError{Field: name, Message: "path is empty"})
		case filepath.IsAbs(f):
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("path %q must be relative", f)})
		case strings.HasPrefix(cleanPath(f), "../") || cleanPath(f) == "..":
			errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf("path %q escapes the working directory", f)})
		}
	}
	return errs
}
