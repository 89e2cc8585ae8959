// Package tools defines the US legal MCP tools and registers them on a
// registry.Registry.
//
// Each tool has a JSON Schema that the registry validates, with defaults
// applied, before the handler runs. Handlers call the uslegal facade and
// return a markdown rendering together with the records as structured
// content. Sources that fail upstream come back empty, so a handler renders
// an empty listing with troubleshooting hints instead of an error.
//
// Opinion tools fetch the full text of the first few results that arrived
// without one and show a 1500-character excerpt of each.
package tools
