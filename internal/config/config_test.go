package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "file-secret"
database:
  host: "127.0.0.1"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "viah:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 168, cfg.JWT.ExpireHours)
	assert.Equal(t, 30*time.Second, cfg.Notification.BadgeTTL)
	assert.Equal(t, 10*time.Minute, cfg.Calendar.StateTTL)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.S3.Enabled())
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadPostgresDSN(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "s"
database:
  driver: postgres
  host: db
  user: viah
  password: pw
  database: viah
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "host=db port=5432 user=viah password=pw dbname=viah sslmode=disable", cfg.Database.DSN())
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "file-secret"
`)
	t.Setenv("VIAH_JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		_, err := Load(writeConfig(t, "server:\n  http_port: 9000\n"))
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Load(writeConfig(t, "jwt:\n  secret: s\ndatabase:\n  driver: oracle\n"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
