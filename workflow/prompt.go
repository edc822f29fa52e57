package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// promptFilePrefix marks a prompt value that names a file.
const promptFilePrefix = "file:"

// ResolvePrompt resolves a task prompt value.
// If it starts with "file:", the path is read relative to baseDir and must
// stay inside it. Otherwise, the string is returned as-is.
func ResolvePrompt(prompt, baseDir string) (string, error) {
	if !strings.HasPrefix(prompt, promptFilePrefix) {
		return prompt, nil
	}

	relPath := strings.TrimSpace(strings.TrimPrefix(prompt, promptFilePrefix))
	if relPath == "" {
		return "", fmt.Errorf("prompt file path is empty")
	}

	absPath, err := filepath.Abs(filepath.Join(baseDir, relPath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", relPath, err)
	}

	baseAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	// Resolve symlinks to get the real paths before checking containment
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve prompt file %q: %w", relPath, err)
	}

	realBase, err := filepath.EvalSymlinks(baseAbs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	if !strings.HasPrefix(realPath, realBase+string(filepath.Separator)) {
		return "", fmt.Errorf("prompt file %q escapes the task directory", relPath)
	}

	data, err := os.ReadFile(realPath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %q: %w", relPath, err)
	}

	return string(data), nil
}
