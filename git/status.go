package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/anna-belle-zhang/superpowerwithcodex/logger"
)

// FileChange is one entry of git status.
type FileChange struct {
	Path   string // File path relative to the directory that was inspected
	Status string // Two-letter porcelain code, e.g. " M", "A ", "??", "R "
}

// IsRepo reports whether dir is inside a git working tree.
func (s *GitService) IsRepo(ctx context.Context, dir string) bool {
	output, err := s.executor.Output(ctx, dir, "git", "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(output)) == "true"
}

// Changes lists uncommitted changes under dir, including untracked files.
// Paths are relative to dir even when dir is a subdirectory of the repo.
// Renamed and copied files are reported under their new path only.
func (s *GitService) Changes(ctx context.Context, dir string) ([]FileChange, error) {
	prefix, err := s.executor.Output(ctx, dir, "git", "rev-parse", "--show-prefix")
	if err != nil {
		return nil, fmt.Errorf("git rev-parse failed: %w", err)
	}

	// -z keeps paths unquoted and NUL-separated; the pathspec limits the
	// listing to dir, but paths stay relative to the repo root.
	stdout, stderr, err := s.executor.Run(ctx, dir, "git", "status", "--porcelain", "-z", "--untracked-files=all", "--", ".")
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return nil, fmt.Errorf("git status failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("git status failed: %w", err)
	}

	changes := trimPrefix(parsePorcelainZ(string(stdout)), strings.TrimSuffix(string(prefix), "\n"))
	logger.WithComponent("git").Debug("listed changes", "dir", dir, "prefix", strings.TrimSuffix(string(prefix), "\n"), "count", len(changes))
	return changes, nil
}

// trimPrefix rewrites repo-root paths relative to the subdirectory prefix
// reported by `git rev-parse --show-prefix` ("" at the repo root).
func trimPrefix(changes []FileChange, prefix string) []FileChange {
	if prefix == "" {
		return changes
	}
	for i := range changes {
		changes[i].Path = strings.TrimPrefix(changes[i].Path, prefix)
	}
	return changes
}

// ChangedFiles returns the paths from Changes.
func (s *GitService) ChangedFiles(ctx context.Context, dir string) ([]string, error) {
	changes, err := s.Changes(ctx, dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(changes))
	for _, c := range changes {
		files = append(files, c.Path)
	}
	return files, nil
}

// parsePorcelainZ parses `git status --porcelain -z`. Each entry is
// "XY path"; a rename or copy is followed by an extra entry holding the
// original path, which is skipped.
func parsePorcelainZ(output string) []FileChange {
	entries := strings.Split(output, "\x00")
	changes := make([]FileChange, 0, len(entries))

	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if len(entry) < 4 {
			continue
		}

		status := entry[:2]
		changes = append(changes, FileChange{Path: entry[3:], Status: status})

		if status[0] == 'R' || status[0] == 'C' {
			i++
		}
	}
	return changes
}
