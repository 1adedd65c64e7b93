package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
database:
  driver: sqlite
  path: /tmp/skills.db
jwt:
  secret: file-secret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/skills.db", cfg.Database.Path)
	assert.Equal(t, "5s", cfg.Database.QueryTimeout)
	assert.Equal(t, "skillshare.app", cfg.JWT.Issuer)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: file-secret\n")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_CONNECT_ATTEMPTS", "2")
	t.Setenv("SERVER_SEED", "true")
	t.Setenv("SERVER_MODE", "production")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 2, cfg.Database.ConnectAttempts)
	assert.True(t, cfg.Server.Seed)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing secret",
			body:    "server:\n  port: \"8080\"\n",
			wantErr: "JWT secret is required",
		},
		{
			name:    "unknown driver",
			body:    "jwt:\n  secret: s\ndatabase:\n  driver: mongo\n",
			wantErr: "unsupported database driver",
		},
		{
			name:    "bad query timeout",
			body:    "jwt:\n  secret: s\ndatabase:\n  query_timeout: soon\n",
			wantErr: "database query timeout",
		},
		{
			name:    "bad env integer",
			body:    "jwt:\n  secret: s\n",
			env:     map[string]string{"DB_MAX_OPEN_CONNS": "many"},
			wantErr: "invalid integer format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-env")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "only-env", cfg.JWT.Secret)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL())
}
