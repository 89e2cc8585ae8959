package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/toolfoundation/model"
)

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (req MCPRequest) IsNotification() bool {
	return req.ID == nil
}

// MCPResponse represents an MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *MCPError `json:"error,omitempty"`
}

// MCPError is a JSON-RPC error object.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func rpcError(id any, code int, msg string) MCPResponse {
	return MCPResponse{JSONRPC: "2.0", ID: id, Error: &MCPError{Code: code, Message: msg}}
}

// HandleRequest processes an MCP request and returns a response.
func (r *Registry) HandleRequest(ctx context.Context, req MCPRequest) MCPResponse {
	switch req.Method {
	case "initialize":
		return r.handleInitialize(ctx, req.ID)
	case "ping":
		return MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{}}
	case "tools/list":
		return r.handleToolsList(ctx, req.ID)
	case "tools/call":
		return r.handleToolsCall(ctx, req.ID, req.Params)
	default:
		return rpcError(req.ID, ErrCodeMethodNotFound, fmt.Sprintf("method %s not found", req.Method))
	}
}

func (r *Registry) handleInitialize(ctx context.Context, id any) MCPResponse {
	result := map[string]any{
		"protocolVersion": model.MCPVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    r.config.ServerInfo.Name,
			"version": r.config.ServerInfo.Version,
		},
	}
	return MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func (r *Registry) handleToolsList(ctx context.Context, id any) MCPResponse {
	tools, err := r.ListAll(ctx)
	if err != nil {
		return rpcError(id, ErrCodeInternal, err.Error())
	}

	mcpTools := make([]map[string]any, 0, len(tools))
	for _, tool := range tools {
		mcpTools = append(mcpTools, toMCPTool(tool.Tool))
	}
	return MCPResponse{JSONRPC: "2.0", ID: id, Result: map[string]any{"tools": mcpTools}}
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (r *Registry) handleToolsCall(ctx context.Context, id any, params json.RawMessage) MCPResponse {
	var callParams toolsCallParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return rpcError(id, ErrCodeInvalidParams, err.Error())
	}
	if callParams.Name == "" {
		return rpcError(id, ErrCodeInvalidParams, "tool name is required")
	}

	result, err := r.Execute(ctx, callParams.Name, callParams.Arguments)
	if errors.Is(err, ErrToolNotFound) {
		result = errorResult("unknown tool %q", callParams.Name)
	} else if err != nil {
		return rpcError(id, ErrCodeInternal, err.Error())
	}
	return MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func toMCPTool(tool mcp.Tool) map[string]any {
	out := map[string]any{
		"name":        tool.Name,
		"description": tool.Description,
		"inputSchema": tool.InputSchema,
	}
	if tool.Title != "" {
		out["title"] = tool.Title
	}
	if tool.Annotations != nil {
		out["annotations"] = tool.Annotations
	}
	return out
}

// MCPServer builds a go-sdk server exposing the registered tools. Calls are
// routed through Execute, so validation, logging and metrics match the
// JSON-RPC path. Tools registered afterwards are not included.
func (r *Registry) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.config.ServerInfo.Name,
		Version: r.config.ServerInfo.Version,
	}, nil)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		e := r.tools[name]
		tool := e.tool.Tool
		tool.InputSchema = e.schema
		server.AddTool(&tool, r.sdkHandler(name))
	}
	return server
}

func (r *Registry) sdkHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return errorResult("invalid arguments for %s: %v", name, err), nil
			}
		}
		res, err := r.Execute(ctx, name, args)
		if err != nil {
			return errorResult("%v", err), nil
		}
		return res, nil
	}
}
