// Package registry hosts local MCP tools and serves them over JSON-RPC.
//
// A Registry stores each tool as a toolfoundation model.Tool together with
// its JSON Schema, resolved once at registration. Every call is validated
// against that schema, with schema defaults applied, before the handler runs.
//
// Features:
//   - Local tool registration with handlers and functional options
//   - MCP protocol handlers (initialize, ping, tools/list, tools/call)
//   - Multiple transports (stdio, HTTP, SSE)
//   - A go-sdk *mcp.Server over the same tools for streamable HTTP
//
// Tool failures never surface as JSON-RPC errors. Unknown tools, invalid
// arguments, handler errors and handler panics all produce a CallToolResult
// with IsError set. JSON-RPC errors are reserved for protocol faults.
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{
//	        Name:    "my-server",
//	        Version: "1.0.0",
//	    },
//	})
//
//	reg.RegisterLocalFunc(
//	    "echo",
//	    "Echoes back the input",
//	    &jsonschema.Schema{
//	        Type: "object",
//	        Properties: map[string]*jsonschema.Schema{
//	            "message": {Type: "string"},
//	        },
//	    },
//	    func(ctx context.Context, args map[string]any) (any, error) {
//	        return args["message"], nil
//	    },
//	)
//
//	registry.ServeStdio(ctx, reg)
package registry
