package tools

import (
	"encoding/json"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// Argument bounds.
const (
	MinCongress = 100
	MaxCongress = 120
	MaxLimit    = 50
	MaxUSCTitle = 54
)

func ptr[T any](v T) *T { return &v }

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func stringProp(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc, MinLength: ptr(1)}
}

func queryProp(desc string) *jsonschema.Schema {
	return stringProp(desc)
}

func optionalStringProp(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func intProp(desc string, lo, hi int) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Description: desc,
		Minimum:     ptr(float64(lo)),
		Maximum:     ptr(float64(hi)),
	}
}

func limitProp(def int) *jsonschema.Schema {
	s := intProp("Number of results to return (max "+strconv.Itoa(MaxLimit)+")", 1, MaxLimit)
	s.Default = json.RawMessage(strconv.Itoa(def))
	return s
}

func congressProp() *jsonschema.Schema {
	return intProp("Congress number (e.g., 118 for current Congress)", MinCongress, MaxCongress)
}

func courtProp() *jsonschema.Schema {
	return optionalStringProp("Optional court filter (e.g., 'scotus', 'ca1', 'ca2')")
}

func chamberProp() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Chamber filter (House or Senate)",
		Enum:        []any{"House", "Senate"},
	}
}
