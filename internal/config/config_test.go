package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET", "SERVER_PORT",
		"SERVER_ENV", "STORAGE_TYPE", "JWT_ACCESS_TTL", "SMTP_HOST", "OTEL_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_FromYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
server:
  port: 8080
  env: development
database:
  url: postgres://file/db
jwt:
  access_secret: access
  refresh_secret: refresh
  access_ttl: 30m
storage:
  type: minio
  bucket: docs
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://file/db", cfg.Database.DSN)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, "minio", cfg.Storage.Type)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "b")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, int64(5<<20), cfg.Upload.ResumeMaxSize)
	assert.Equal(t, int64(10<<20), cfg.Upload.DocumentMaxSize)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 5, cfg.Notify.MaxAttempts)
	assert.False(t, cfg.EmailEnabled())
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_ACCESS_SECRET", "same")
	t.Setenv("JWT_REFRESH_SECRET", "same")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoadFromEnv_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "forever")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_TTL")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}
