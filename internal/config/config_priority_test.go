package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPriority(t *testing.T) {
	t.Run("env vars should override file config", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t,
			"port: 8000\n"+
				"debug: false\n"+
				"database:\n"+
				"  type: \"sqlite\"\n"+
				"  dsn: \"file-dsn\"\n"+
				"auth:\n"+
				"  header: \"file-header\"\n"+
				"admin:\n"+
				"  password: \"file-password\"\n")

		t.Setenv("RECORDKEEPER_PORT", "9000")
		t.Setenv("RECORDKEEPER_DEBUG", "true")
		t.Setenv("RECORDKEEPER_DATABASE_TYPE", "mysql")
		t.Setenv("RECORDKEEPER_DATABASE_DSN", "env-dsn")
		t.Setenv("RECORDKEEPER_AUTH_HEADER", "env-header")
		t.Setenv("RECORDKEEPER_ADMIN_PASSWORD", "env-password")

		config, _, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 9000, config.Port)
		assert.True(t, config.Debug)
		assert.Equal(t, "mysql", config.Database.Type)
		assert.Equal(t, "env-dsn", config.Database.DSN)
		assert.Equal(t, "env-header", config.Auth.Header)
		assert.Equal(t, "env-password", config.Admin.Password)
	})

	t.Run("file DSN wins over legacy DATABASE_URL", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "database:\n  type: sqlite\n  dsn: file-dsn\n")
		t.Setenv("DATABASE_URL", "postgres://ignored")

		config, _, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", config.Database.Type)
		assert.Equal(t, "file-dsn", config.Database.DSN)
	})
}
