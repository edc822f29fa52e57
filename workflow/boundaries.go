package workflow

import (
	"path"
	"path/filepath"
	"strings"
)

// Boundaries limits which files an agent may write.
//
// An empty ImplementIn puts no restriction on where changes may go; an empty
// ReadOnly protects nothing.
type Boundaries struct {
	ImplementIn []string `yaml:"implement_in" json:"implement_in"`
	ReadOnly    []string `yaml:"read_only" json:"read_only"`
	TestsToPass []string `yaml:"tests_to_pass" json:"tests_to_pass"`
}

// IsZero reports whether the boundaries restrict nothing.
func (b Boundaries) IsZero() bool {
	return len(b.ImplementIn) == 0 && len(b.ReadOnly) == 0
}

// DetectBoundaryViolations returns the changed files that break b: any file
// listed in ReadOnly, and, when ImplementIn is non-empty, any file not listed
// there. Paths are compared after cleaning, so "./a.go" matches "a.go". The
// result keeps the order of changedFiles, has no duplicates and is never nil.
func DetectBoundaryViolations(changedFiles []string, b Boundaries) []string {
	implementIn := pathSet(b.ImplementIn)
	readOnly := pathSet(b.ReadOnly)

	violations := []string{}
	seen := make(map[string]bool)

	for _, file := range changedFiles {
		key := cleanPath(file)
		if seen[key] {
			continue
		}

		if readOnly[key] || (len(implementIn) > 0 && !implementIn[key]) {
			violations = append(violations, file)
			seen[key] = true
		}
	}
	return violations
}

// BuildFileBoundaries extracts the boundaries declared by a task. Missing
// lists become empty, never nil.
func BuildFileBoundaries(task *Task) Boundaries {
	b := Boundaries{
		ImplementIn: []string{},
		ReadOnly:    []string{},
		TestsToPass: []string{},
	}
	if task == nil {
		return b
	}
	b.ImplementIn = append(b.ImplementIn, task.ImplementIn...)
	b.ReadOnly = append(b.ReadOnly, task.ReadOnly...)
	b.TestsToPass = append(b.TestsToPass, task.TestsToPass...)
	return b
}

// FormatBoundaryInstructions renders b as instructions for the agent.
func FormatBoundaryInstructions(b Boundaries) string {
	var sb strings.Builder

	if len(b.ImplementIn) > 0 {
		sb.WriteString("Implement in ONLY these files:\n")
		for _, file := range b.ImplementIn {
			sb.WriteString("- " + file + "\n")
		}
		sb.WriteString("\n")
	}

	if len(b.ReadOnly) > 0 {
		sb.WriteString("DO NOT MODIFY these files:\n")
		for _, file := range b.ReadOnly {
			sb.WriteString("- " + file + " (READ ONLY)\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("You may READ any file to understand context.\n")
	sb.WriteString("You must ONLY WRITE to the \"Implement in\" files listed above.\n")

	return sb.String()
}

func pathSet(files []string) map[string]bool {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[cleanPath(f)] = true
	}
	return set
}

func cleanPath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
