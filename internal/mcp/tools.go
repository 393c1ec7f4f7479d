// ABOUTME: Static MCP tool definitions for the three gateway operations
// ABOUTME: The tool surface is fixed; the callable methods live behind execute_query

package mcp

import "encoding/json"

// toolDef pairs a tool name with its description and JSON Schema input.
type toolDef struct {
	name        string
	description string
	inputSchema string
}

// gatewayTools is the full tool surface advertised by tools/list. Agents
// reach every data operation through execute_query; search and get_schema
// are the two structured entry points.
var gatewayTools = []toolDef{
	{
		name: "execute_query",
		description: "Execute a data operation by dotted method path, e.g. " +
			"agedCareExpenses.getTotal or notes.list. Call get_schema first to " +
			"discover the available methods and their parameters.",
		inputSchema: `{
  "type": "object",
  "properties": {
    "method": {
      "type": "string",
      "description": "Dotted method path, e.g. agedCareAccounts.getBalances. A trailing () is allowed."
    },
    "args": {
      "type": "object",
      "description": "Arguments for the method, as documented by get_schema."
    }
  },
  "required": ["method"]
}`,
	},
	{
		name: "search",
		description: "Search notes, claims, expenses, payments, and attachments " +
			"by case-insensitive substring in one call.",
		inputSchema: `{
  "type": "object",
  "properties": {
    "query": {
      "type": "string",
      "description": "Text to match."
    },
    "entity_types": {
      "type": "array",
      "items": {
        "type": "string",
        "enum": ["notes", "claims", "aged_care_expenses", "workcover_expenses", "payments", "attachments"]
      },
      "description": "Domains to search. Omit to search all of them."
    },
    "limit": {
      "type": "integer",
      "description": "Maximum matches per domain, default 10."
    }
  },
  "required": ["query"]
}`,
	},
	{
		name: "get_schema",
		description: "Describe the callable methods of one data domain, or all " +
			"domains when no domain is given.",
		inputSchema: `{
  "type": "object",
  "properties": {
    "domain": {
      "type": "string",
      "enum": ["aged_care", "workcover", "notes", "calendar", "payments", "suppliers", "analytics", "all"],
      "description": "Schema domain, default all."
    }
  }
}`,
	},
}

// executeQueryParams are the arguments of the execute_query tool.
type executeQueryParams struct {
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args"`
}

// searchParams are the arguments of the search tool.
type searchParams struct {
	Query       string   `json:"query"`
	EntityTypes []string `json:"entity_types"`
	Limit       int      `json:"limit"`
}

// getSchemaParams are the arguments of the get_schema tool.
type getSchemaParams struct {
	Domain string `json:"domain"`
}
