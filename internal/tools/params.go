package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"youtrack-mcp/internal/api"
)

// arguments returns the call's argument map. Agents sometimes wrap the
// arguments in a single structured object under "arguments" or "params";
// unwrap one level so both flat and wrapped shapes dispatch the same way.
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	for _, wrapper := range []string{"arguments", "params"} {
		if len(args) == 1 {
			if inner, ok := args[wrapper].(map[string]interface{}); ok {
				return inner
			}
		}
	}
	return args
}

// stringParam reads the first non-empty string among the given keys. The
// alias list covers tools that historically accepted two parameter names
// (project_id or project, user_id or user).
func stringParam(request mcp.CallToolRequest, keys ...string) string {
	args := arguments(request)
	for _, key := range keys {
		if v, ok := args[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// intParam reads an integer argument, accepting the float64 JSON numbers
// decode to as well as numeric strings.
func intParam(request mcp.CallToolRequest, key string, defaultValue int) int {
	args := arguments(request)
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func boolParam(request mcp.CallToolRequest, key string, defaultValue bool) bool {
	args := arguments(request)
	if v, ok := args[key].(bool); ok {
		return v
	}
	return defaultValue
}

// customFieldsParam reads the custom_fields argument, which may arrive as a
// JSON object or as a string containing one. Non-string values are rendered
// with their default formatting.
func customFieldsParam(request mcp.CallToolRequest) (map[string]string, error) {
	args := arguments(request)
	raw, ok := args["custom_fields"]
	if !ok || raw == nil {
		return nil, nil
	}

	var obj map[string]interface{}
	switch v := raw.(type) {
	case map[string]interface{}:
		obj = v
	case string:
		if v == "" {
			return nil, nil
		}
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, fmt.Errorf("custom_fields must be a JSON object: %v", err)
		}
	default:
		return nil, fmt.Errorf("custom_fields must be an object mapping field names to values")
	}

	out := make(map[string]string, len(obj))
	for name, value := range obj {
		switch v := value.(type) {
		case string:
			out[name] = v
		case float64, bool:
			out[name] = fmt.Sprintf("%v", v)
		default:
			return nil, fmt.Errorf("custom field %q has unsupported value type", name)
		}
	}
	return out, nil
}

// splitNonEmpty splits a comma-separated list, dropping blanks.
func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// textResult wraps raw JSON as an indented text result.
func textResult(raw json.RawMessage) *mcp.CallToolResult {
	if len(raw) == 0 {
		return mcp.NewToolResultText("{}")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return mcp.NewToolResultText(string(raw))
	}
	return mcp.NewToolResultText(buf.String())
}

// jsonResult marshals a value as an indented text result.
func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// toolError converts an error into a structured tool-call error. Classified
// client errors keep their kind and tracker message; nothing here ever
// surfaces a stack trace.
func toolError(err error) *mcp.CallToolResult {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		payload := map[string]interface{}{
			"error": apiErr.Message,
			"kind":  string(apiErr.Kind),
		}
		if apiErr.Status != 0 {
			payload["status"] = apiErr.Status
		}
		data, _ := json.Marshal(payload)
		return mcp.NewToolResultError(string(data))
	}
	return mcp.NewToolResultError(err.Error())
}
