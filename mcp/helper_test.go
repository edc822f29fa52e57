package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/anna-belle-zhang/superpowerwithcodex/fakeagent"
)

// helperEnv selects the behavior of the test binary when it is re-executed as
// an MCP server.
const (
	helperEnv       = "MCP_TEST_SERVER"
	helperRecordEnv = "MCP_TEST_RECORD"
)

// helperSpec launches this test binary as an MCP server in the given mode.
func helperSpec(mode string, extraEnv map[string]string) ServerSpec {
	env := map[string]string{helperEnv: mode}
	for k, v := range extraEnv {
		env[k] = v
	}
	return ServerSpec{Command: os.Args[0], Env: env}
}

// runHelperServer plays one scripted server and returns the exit code.
func runHelperServer(mode string) int {
	switch mode {
	case "fake":
		if err := fakeagent.Serve(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case "silent":
		io.Copy(io.Discard, os.Stdin)
		return 0
	case "exit":
		fmt.Fprintln(os.Stderr, "fatal: cannot start")
		return 3
	}

	var record *os.File
	if path := os.Getenv(helperRecordEnv); path != "" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		record = f
	}

	out := bufio.NewWriter(os.Stdout)
	reply := func(line string, newline bool) {
		out.WriteString(line)
		if newline {
			out.WriteByte('\n')
		}
		out.Flush()
	}

	if mode == "noisy" {
		fmt.Fprint(os.Stderr, "warming up\n")
		reply("codex server v0 booting", true)
		reply("", true)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if record != nil {
			fmt.Fprintln(record, line)
		}

		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil || msg.idKey() == "" {
			continue
		}

		switch msg.Method {
		case methodInitialize:
			reply(fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"result":{"protocolVersion":"2024-11-05","capabilities":{"tools":{}},"serverInfo":{"name":"helper","version":"1"}}}`, msg.ID), true)

		case methodToolsCall:
			switch mode {
			case "error":
				reply(fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"error":{"code":-32000,"message":"tool exploded"}}`, msg.ID), true)
			case "hang":
				// Accept the handshake, never answer the call.
			case "late":
				time.Sleep(300 * time.Millisecond)
				reply(fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"result":"too late"}`, msg.ID), true)
			case "noisy":
				reply(`{"jsonrpc":"2.0","method":"notifications/message","params":{"level":"info"}}`, true)
				reply(`{"jsonrpc":"2.0","id":99,"result":"stray"}`, true)
				reply(`{"jsonrpc":"2.0","id":"2","result":"wrong id type"}`, true)
				reply(`{not json`, true)
				// Final reply without a trailing newline, then exit.
				reply(fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"result":{"content":[{"type":"text","text":"noisy done"}]}}`, msg.ID), false)
				return 0
			default:
				reply(fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"result":{"content":[{"type":"text","text":"recorded"}]}}`, msg.ID), true)
			}
		}
	}
	return 0
}
