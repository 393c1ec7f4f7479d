// ABOUTME: Tests for configuration loading, env var expansion, and validation
// ABOUTME: Uses temp files to exercise the full Load path

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validConfig = `
server:
  http_addr: ":8586"
database:
  url: "postgres://carelog@localhost:5432/carelog"
  password: "hunter2"
auth:
  require: true
  jwt_secret: "test-secret"
dispatcher:
  timeout: "30s"
logging:
  level: "debug"
  format: "json"
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8586", cfg.Server.HTTPAddr)
	assert.Equal(t, "postgres://carelog@localhost:5432/carelog", cfg.Database.URL)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.True(t, cfg.Auth.Require)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.Dispatcher.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_CARELOG_DB_URL", "postgres://carelog@db:5432/carelog")
	t.Setenv("TEST_CARELOG_DB_PASSWORD", "from-env")

	cfg, err := Load(writeConfig(t, `
server:
  http_addr: ":8586"
database:
  url: "${TEST_CARELOG_DB_URL}"
  password: "${TEST_CARELOG_DB_PASSWORD}"
`))
	require.NoError(t, err)

	assert.Equal(t, "postgres://carelog@db:5432/carelog", cfg.Database.URL)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoadUnsetEnvVarFailsValidation(t *testing.T) {
	// Unset vars expand to empty, so a required field backed by one fails
	_, err := Load(writeConfig(t, `
server:
  http_addr: ":8586"
database:
  url: "postgres://carelog@localhost:5432/carelog"
  password: "${DEFINITELY_NOT_SET_CARELOG_VAR}"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.password is required")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{HTTPAddr: ":8586"},
			Database: DatabaseConfig{URL: "postgres://localhost/carelog", Password: "pw"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing http_addr", func(t *testing.T) {
		cfg := base()
		cfg.Server.HTTPAddr = ""
		assert.ErrorContains(t, cfg.Validate(), "server.http_addr")
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := base()
		cfg.Database.URL = ""
		assert.ErrorContains(t, cfg.Validate(), "database.url")
	})

	t.Run("auth required without credentials", func(t *testing.T) {
		cfg := base()
		cfg.Auth.Require = true
		assert.ErrorContains(t, cfg.Validate(), "auth.jwt_secret or auth.static_tokens")
	})

	t.Run("auth required with static tokens", func(t *testing.T) {
		cfg := base()
		cfg.Auth.Require = true
		cfg.Auth.StaticTokens = []StaticToken{{Agent: "claude", Token: "tok"}}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("static token missing agent", func(t *testing.T) {
		cfg := base()
		cfg.Auth.StaticTokens = []StaticToken{{Token: "tok"}}
		assert.ErrorContains(t, cfg.Validate(), "static_tokens[0].agent")
	})

	t.Run("static token missing token", func(t *testing.T) {
		cfg := base()
		cfg.Auth.StaticTokens = []StaticToken{{Agent: "claude"}}
		assert.ErrorContains(t, cfg.Validate(), "static_tokens[0].token")
	})
}

func TestDispatcherTimeoutParsing(t *testing.T) {
	t.Run("invalid duration", func(t *testing.T) {
		_, err := Load(writeConfig(t, validConfig+"\n")) // sanity: valid parses
		require.NoError(t, err)

		_, err = Load(writeConfig(t, `
server:
  http_addr: ":8586"
database:
  url: "postgres://localhost/carelog"
  password: "pw"
dispatcher:
  timeout: "banana"
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing dispatcher.timeout")
	})

	t.Run("negative duration", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
server:
  http_addr: ":8586"
database:
  url: "postgres://localhost/carelog"
  password: "pw"
dispatcher:
  timeout: "-5s"
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("omitted leaves zero for caller default", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
server:
  http_addr: ":8586"
database:
  url: "postgres://localhost/carelog"
  password: "pw"
`))
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), cfg.Dispatcher.Timeout)
	})
}
