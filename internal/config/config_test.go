package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/workflow.db", cfg.Database.Path)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, 15*time.Minute, cfg.SLA.PollInterval)
	assert.Equal(t, 100, cfg.SLA.BatchSize)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
database:
  path: /tmp/test.db
sla:
  poll_interval: 1m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, time.Minute, cfg.SLA.PollInterval)
	// Untouched keys keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 100, cfg.SLA.BatchSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_PATH", "/var/lib/workflow.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/var/lib/workflow.db", cfg.Database.Path)
}

func TestLoad_InvalidConfigFails(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"empty database path", "database:\n  path: \"\"\n"},
		{"zero poll interval", "sla:\n  poll_interval: 0s\n"},
		{"zero batch size", "sla:\n  batch_size: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}
