// fake-codex serves a scripted spawn_agent tool over stdio. Point a
// codex-subagent entry in .mcp.json at it to try the workflow without a real
// agent.
package main

import (
	"fmt"
	"os"

	"github.com/anna-belle-zhang/superpowerwithcodex/fakeagent"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("fake-codex v%s\n", fakeagent.Version)
			return
		}
	}

	if err := fakeagent.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
