package main

import (
	"errors"
	"flag"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/anna-belle-zhang/superpowerwithcodex/codex"
	"github.com/anna-belle-zhang/superpowerwithcodex/config"
	"github.com/anna-belle-zhang/superpowerwithcodex/logger"
	"github.com/anna-belle-zhang/superpowerwithcodex/mcp"
)

// envFlag collects repeated --env KEY=VALUE flags.
type envFlag map[string]string

func (e envFlag) String() string {
	pairs := make([]string, 0, len(e))
	for _, k := range slices.Sorted(maps.Keys(e)) {
		pairs = append(pairs, k+"="+e[k])
	}
	return strings.Join(pairs, ",")
}

func (e envFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected KEY=VALUE, got %q", v)
	}
	e[key] = value
	return nil
}

// runConfig edits the server entries in .mcp.json:
//
//	config list
//	config set [--server name] [--env K=V] <command> [args...]
//	config remove [--server name]
func runConfig(args []string) error {
	if len(args) == 0 {
		return usageError("config requires an action: list, set or remove")
	}

	action, rest := args[0], args[1:]
	fs := flag.NewFlagSet("config "+action, flag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory containing .mcp.json")
	server := fs.String("server", codex.DefaultServerName, "server entry in .mcp.json")
	env := envFlag{}
	if action == "set" {
		fs.Var(env, "env", "environment variable for the server, KEY=VALUE (repeatable)")
	}
	if err := parseFlags(fs, rest); err != nil {
		return err
	}

	switch action {
	case "list":
		return listServers(*configDir)
	case "set":
		if fs.NArg() == 0 {
			return usageError("config set requires the server command")
		}
		spec := mcp.ServerSpec{Command: fs.Arg(0), Args: fs.Args()[1:]}
		if len(env) > 0 {
			spec.Env = env
		}
		return setServer(*configDir, *server, spec)
	case "remove":
		return removeServer(*configDir, *server)
	default:
		return usageError("unknown config action %q", action)
	}
}

func listServers(dir string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	names := cfg.ServerNames()
	if len(names) == 0 {
		fmt.Printf("No servers configured in %s\n", cfg.Path())
		return nil
	}
	for _, name := range names {
		spec, _ := cfg.Server(name)
		cyan.Print(name)
		fmt.Printf(": %s\n", strings.Join(append([]string{spec.Command}, spec.Args...), " "))
	}
	return nil
}

func setServer(dir, name string, spec mcp.ServerSpec) error {
	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrConfigNotFound) {
		cfg = config.New(dir)
	} else if err != nil {
		return err
	}

	cfg.SetServer(name, spec)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save %s: %w", cfg.Path(), err)
	}

	logger.WithComponent("config").Info("saved server entry", "server", name, "command", spec.Command, "path", cfg.Path())
	green.Print("✓ ")
	fmt.Printf("%s saved to %s\n", name, cfg.Path())
	return nil
}

func removeServer(dir, name string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	if !cfg.RemoveServer(name) {
		return fmt.Errorf("%s not configured in %s", name, config.FileName)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save %s: %w", cfg.Path(), err)
	}

	green.Print("✓ ")
	fmt.Printf("%s removed from %s\n", name, cfg.Path())
	return nil
}
