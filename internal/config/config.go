// ABOUTME: Configuration loading and parsing for carelog-gateway
// ABOUTME: YAML files with environment variable expansion, duration parsing, and startup validation

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete carelog-gateway configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the HTTP listen address
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds the Postgres connection settings. URL and Password are
// typically injected via ${VAR} expansion; both are required at startup.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// StaticToken is a preconfigured MCP access token bound to an agent name.
type StaticToken struct {
	Agent string `yaml:"agent"`
	Token string `yaml:"token"`
}

// AuthConfig holds MCP endpoint authentication configuration
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	Require      bool          `yaml:"require"`
	StaticTokens []StaticToken `yaml:"static_tokens"`
}

// DispatcherConfig holds per-call execution limits
type DispatcherConfig struct {
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present.
// A missing database URL or credential is a startup failure, not something
// to discover on the first query.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required")
	}
	if c.Auth.Require && c.Auth.JWTSecret == "" && len(c.Auth.StaticTokens) == 0 {
		return fmt.Errorf("auth.jwt_secret or auth.static_tokens is required when auth.require is set")
	}
	for i, t := range c.Auth.StaticTokens {
		if t.Token == "" {
			return fmt.Errorf("auth.static_tokens[%d].token is required", i)
		}
		if t.Agent == "" {
			return fmt.Errorf("auth.static_tokens[%d].agent is required", i)
		}
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Dispatcher.TimeoutRaw != "" {
		timeout, err := time.ParseDuration(cfg.Dispatcher.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing dispatcher.timeout %q: %w", cfg.Dispatcher.TimeoutRaw, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("dispatcher.timeout must be positive, got %q", cfg.Dispatcher.TimeoutRaw)
		}
		cfg.Dispatcher.Timeout = timeout
	}
	return nil
}
