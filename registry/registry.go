package registry

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo

	// Logger receives per-call logs. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records tool call outcomes. Nil disables them.
	Metrics CallRecorder
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// CallRecorder observes completed tool calls.
type CallRecorder interface {
	ObserveToolCall(tool string, failed bool, d time.Duration)
}

// Registry holds the local tools of an MCP server and executes them.
type Registry struct {
	mu     sync.RWMutex
	config Config
	logger *slog.Logger

	tools map[string]*entry
	order []string
}

type entry struct {
	tool     model.Tool
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
	handler  ToolHandler
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		config: cfg,
		logger: logger,
		tools:  make(map[string]*entry),
	}
}

// RegisterLocal registers a tool with a local execution handler. The schema
// is resolved once here and used to validate every call.
func (r *Registry) RegisterLocal(tool model.Tool, schema *jsonschema.Schema, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTool, err)
	}
	if schema == nil || handler == nil {
		return fmt.Errorf("%w: %s: schema and handler are required", ErrInvalidTool, tool.Name)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidTool, tool.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[tool.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
	}
	r.tools[tool.Name] = &entry{tool: tool, schema: schema, resolved: resolved, handler: handler}
	r.order = append(r.order, tool.Name)
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema *jsonschema.Schema,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := applyLocalToolOptions(opts)
	tool, err := buildLocalTool(name, description, inputSchema, cfg)
	if err != nil {
		return err
	}
	return r.RegisterLocal(tool, inputSchema, handler)
}

// ListAll returns all registered tools in registration order.
func (r *Registry) ListAll(ctx context.Context) ([]model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]model.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools, nil
}

// GetTool returns a tool by name.
func (r *Registry) GetTool(ctx context.Context, name string) (model.Tool, error) {
	e, ok := r.lookup(name)
	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return e.tool, nil
}

func (r *Registry) lookup(name string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e, ok
}

// Execute runs a tool by name with the given arguments.
//
// The only error is ErrToolNotFound. Invalid arguments, handler errors and
// handler panics are reported as a result with IsError set, so the caller
// can hand them to the model as ordinary tool output.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	e, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	logger := r.logger.With("tool", name, "call_id", uuid.NewString())
	start := time.Now()
	res := r.run(ctx, e, args, logger)
	elapsed := time.Since(start)

	if r.config.Metrics != nil {
		r.config.Metrics.ObserveToolCall(name, res.IsError, elapsed)
	}
	logger.DebugContext(ctx, "tool call complete", "is_error", res.IsError, "duration", elapsed)
	return res, nil
}

func (r *Registry) run(ctx context.Context, e *entry, args map[string]any, logger *slog.Logger) (res *mcp.CallToolResult) {
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "tool panicked", "panic", p, "stack", string(debug.Stack()))
			res = errorResult("%s failed: internal error", e.tool.Name)
		}
	}()

	if args == nil {
		args = map[string]any{}
	}
	if err := e.resolved.ApplyDefaults(&args); err != nil {
		return errorResult("invalid arguments for %s: %v", e.tool.Name, err)
	}
	if err := e.resolved.Validate(args); err != nil {
		return errorResult("invalid arguments for %s: %v", e.tool.Name, err)
	}

	out, err := e.handler(ctx, args)
	if err != nil {
		logger.WarnContext(ctx, "tool failed", "error", err)
		return errorResult("%s failed: %v", e.tool.Name, err)
	}
	return toCallResult(out)
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	TotalTools int            `json:"total_tools"`
	Namespaces []string       `json:"namespaces,omitempty"`
	Tags       map[string]int `json:"tags,omitempty"`
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{TotalTools: len(r.tools), Tags: map[string]int{}}
	seen := map[string]bool{}
	for _, e := range r.tools {
		if ns := e.tool.Namespace; ns != "" && !seen[ns] {
			seen[ns] = true
			stats.Namespaces = append(stats.Namespaces, ns)
		}
		for _, tag := range e.tool.Tags {
			stats.Tags[tag]++
		}
	}
	sort.Strings(stats.Namespaces)
	return stats
}

// HealthCheck returns nil if the registry has tools to serve.
func (r *Registry) HealthCheck(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.tools) == 0 {
		return fmt.Errorf("%w: no tools registered", ErrInvalidRequest)
	}
	return nil
}
