package tools

import (
	"encoding/json"
	"strings"
)

// Arguments arrive schema-validated, so these helpers only convert types.
// Numbers decoded from JSON are float64; direct Go callers may pass ints.

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	default:
		return 0
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func queryArg(args map[string]any) (string, error) {
	q := stringArg(args, "query")
	if q == "" {
		return "", ErrBlankQuery
	}
	return q, nil
}
