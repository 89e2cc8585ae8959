package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolHandler executes a local tool with the given arguments.
// It receives a context for cancellation and the arguments of the MCP
// request, already validated against the tool's input schema with defaults
// applied. The returned value is converted to a CallToolResult:
//   - *mcp.CallToolResult is used as is
//   - Result carries text plus structured content
//   - string becomes a single text block
//   - anything else is rendered as indented JSON and also attached as
//     structured content
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// Result is a tool outcome with a human-readable rendering and the data it
// was rendered from.
type Result struct {
	Text string
	Data any
}

// LocalToolOption configures local tool registration.
type LocalToolOption func(*localToolConfig)

type localToolConfig struct {
	namespace string
	tags      []string
	version   string
	title     string
	readOnly  bool
}

// WithNamespace sets the namespace for a local tool.
func WithNamespace(ns string) LocalToolOption {
	return func(c *localToolConfig) {
		c.namespace = ns
	}
}

// WithTags sets the tags for a local tool.
func WithTags(tags ...string) LocalToolOption {
	return func(c *localToolConfig) {
		c.tags = tags
	}
}

// WithVersion sets the version for a local tool.
func WithVersion(v string) LocalToolOption {
	return func(c *localToolConfig) {
		c.version = v
	}
}

// WithTitle sets the display title for a local tool.
func WithTitle(title string) LocalToolOption {
	return func(c *localToolConfig) {
		c.title = title
	}
}

// WithReadOnly marks a tool as free of side effects.
func WithReadOnly() LocalToolOption {
	return func(c *localToolConfig) {
		c.readOnly = true
	}
}

func applyLocalToolOptions(opts []LocalToolOption) localToolConfig {
	cfg := localToolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func buildLocalTool(name, description string, inputSchema *jsonschema.Schema, cfg localToolConfig) (model.Tool, error) {
	raw, err := json.Marshal(inputSchema)
	if err != nil {
		return model.Tool{}, fmt.Errorf("%w: %s: schema: %v", ErrInvalidTool, name, err)
	}
	tool := model.Tool{
		Tool: mcp.Tool{
			Name:        name,
			Title:       cfg.title,
			Description: description,
			InputSchema: json.RawMessage(raw),
		},
		Namespace: cfg.namespace,
		Version:   cfg.version,
		Tags:      model.NormalizeTags(cfg.tags),
	}
	if cfg.readOnly {
		tool.Annotations = &mcp.ToolAnnotations{ReadOnlyHint: true}
	}
	return tool, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	res := textResult(fmt.Sprintf(format, args...))
	res.IsError = true
	return res
}

func toCallResult(v any) *mcp.CallToolResult {
	switch out := v.(type) {
	case *mcp.CallToolResult:
		if out == nil {
			return textResult("")
		}
		return out
	case Result:
		res := textResult(out.Text)
		res.StructuredContent = out.Data
		return res
	case string:
		return textResult(out)
	case nil:
		return textResult("")
	default:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errorResult("encode result: %v", err)
		}
		res := textResult(string(data))
		res.StructuredContent = out
		return res
	}
}
