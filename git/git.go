// Package git inspects working directories with the git CLI.
//
// The package is organized into focused modules:
//   - service.go: GitService struct and constructor
//   - status.go: changed files in a working tree
package git
