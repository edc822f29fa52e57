package mcp

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NormalizeText flattens a tools/call result into plain text. The first rule
// that applies wins:
//
//   - absent, null, false, 0 or "": ""
//   - a JSON string: the string itself
//   - an object with a string "output" field: that field
//   - an object with a "content" array holding at least one non-empty string
//     "text": those texts joined by newlines
//   - anything else: the compact JSON text of the result
func NormalizeText(result json.RawMessage) string {
	trimmed := bytes.TrimSpace(result)
	if isEmptyValue(trimmed) {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		if output, ok := stringValue(fields["output"]); ok {
			return output
		}
		if text := contentText(fields["content"]); text != "" {
			return text
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}

func isEmptyValue(raw []byte) bool {
	switch string(raw) {
	case "", "null", "false", `""`:
		return true
	}
	var n float64
	return json.Unmarshal(raw, &n) == nil && n == 0
}

// stringValue decodes raw only if it holds a JSON string.
func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// contentText joins the non-empty text parts of an MCP content array.
// Parts without a string text field are skipped.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 || raw[0] != '[' {
		return ""
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		var fields map[string]json.RawMessage
		if json.Unmarshal(part, &fields) != nil {
			continue
		}
		if text, ok := stringValue(fields["text"]); ok && text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}
