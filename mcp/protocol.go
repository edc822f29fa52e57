package mcp

import "encoding/json"

// JSON-RPC 2.0 message types for the MCP client

const (
	jsonRPCVersion = "2.0"

	// ProtocolVersion is the fixed MCP protocol version sent in initialize.
	ProtocolVersion = "2024-11-05"

	// Default client identity announced during the handshake.
	DefaultClientName    = "superpowers-codex-integration"
	DefaultClientVersion = "0.1.0"

	methodInitialize  = "initialize"
	methodInitialized = "initialized"
	methodToolsCall   = "tools/call"
)

// ServerSpec describes how to launch an MCP server subprocess.
type ServerSpec struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Request is an outgoing JSON-RPC request.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// Notification is an outgoing JSON-RPC notification (no id, no reply).
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// Message is any incoming JSON-RPC message. A response carries ID and one of
// Result or Error; a notification or server request carries Method.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// idKey returns the registry key for the message id, or "" when the message
// has no usable id.
func (m *Message) idKey() string {
	if len(m.ID) == 0 {
		return ""
	}
	key := string(m.ID)
	if key == "null" {
		return ""
	}
	return key
}

// Capability represents MCP client capabilities. The client announces none.
type Capability struct {
	Tools *ToolCapability `json:"tools,omitempty"`
}

// ToolCapability represents tool-related capabilities
type ToolCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ClientInfo identifies this client to the server.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams for the initialize method
type InitializeParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	Capabilities    Capability `json:"capabilities"`
	ClientInfo      ClientInfo `json:"clientInfo"`
}

// InitializeResult for the initialize response
type InitializeResult struct {
	ProtocolVersion string     `json:"protocolVersion"`
	Capabilities    Capability `json:"capabilities"`
	ServerInfo      ServerInfo `json:"serverInfo"`
	Instructions    string     `json:"instructions,omitempty"`
}

// ServerInfo represents server information
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolCallParams represents parameters for tools/call
type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// emptyParams marshals as {}.
type emptyParams struct{}
