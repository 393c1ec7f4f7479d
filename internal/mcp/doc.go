// Package mcp implements the Streamable HTTP transport of the Model Context
// Protocol for external agents. It manages sessions, advertises the static
// three-tool surface (execute_query, search, get_schema), and turns dispatcher
// envelopes into MCP tool content. Transport-level JSON-RPC errors are
// reserved for malformed requests; operation failures travel inside the
// envelope with isError set.
package mcp
