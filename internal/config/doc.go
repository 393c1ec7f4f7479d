// Package config handles configuration loading for carelog-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion
// and validated at startup.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CARELOG_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/carelog/gateway.yaml
//  3. ~/.config/carelog/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  password: "${CARELOG_DB_PASSWORD}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string, which
// trips validation for required fields.
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: ":8586"
//
// Database:
//
//	database:
//	  url: "${CARELOG_DATABASE_URL}"
//	  password: "${CARELOG_DB_PASSWORD}"
//
// Authentication:
//
//	auth:
//	  require: true
//	  jwt_secret: "${CARELOG_JWT_SECRET}"
//	  static_tokens:
//	    - agent: "claude-code"
//	      token: "${CARELOG_MCP_TOKEN}"
//
// Dispatcher:
//
//	dispatcher:
//	  timeout: "30s"   # per tool call, Go duration syntax
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() requires server.http_addr, database.url, and database.password, and
// when auth.require is set, at least one of auth.jwt_secret or
// auth.static_tokens. Duration strings must parse and be positive.
package config
