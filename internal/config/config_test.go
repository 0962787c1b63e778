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

func TestLoadConfigDefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpiration)
	assert.Contains(t, cfg.EnvOverrides, "JWT_SECRET")
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
database:
  driver: memory
jwt:
  secret: from-file
  access_token_expiration: 30m
logging:
  level: debug
  format: text
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "missing secret", body: "database:\n  driver: memory\n", env: map[string]string{"JWT_SECRET": ""}},
		{name: "unknown driver", body: "database:\n  driver: sqlite\njwt:\n  secret: x\n"},
		{name: "bad log format", body: "jwt:\n  secret: x\nlogging:\n  format: xml\n"},
		{name: "bad duration env", body: "jwt:\n  secret: x\n", env: map[string]string{"JWT_ACCESS_TOKEN_EXPIRATION": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "5432", DBName: "d"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", db.ConnectionString())

	db.URL = "postgres://elsewhere/db"
	assert.Equal(t, "postgres://elsewhere/db", db.ConnectionString())
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.Server.CORS.AllowOrigins)
	assert.False(t, cfg.Server.CORS.AllowAll)

	path := writeConfig(t, `
server:
  cors:
    allow_origins: ["https://school.example.com"]
`)
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://school.example.com"}, cfg.Server.CORS.AllowOrigins)

	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example.com, http://b.example.com,")
	t.Setenv("CORS_ALLOW_ALL_ORIGINS", "true")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.example.com", "http://b.example.com"}, cfg.Server.CORS.AllowOrigins)
	assert.True(t, cfg.Server.CORS.AllowAll)
}
