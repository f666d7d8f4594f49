package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")
	configContent := `
step-scheduler:
  general:
    instance_name: "test-scheduler"
    log_level: "debug"
    env: "test"
  scheduler:
    strategy: "scan"
  storage:
    database:
      enabled: true
      type: "sqlite"
      dsn: "./test.db"
      max_open_conns: 5
      max_idle_conns: 2
      conn_max_lifetime: "1h"
    cache:
      enabled: true
      default_ttl: "2h"
  server:
    port: 9090
  jobs:
    - name: nightly
      cron: "0 0 2 * * *"
      file: ./steps.txt
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	s := cfg.StepScheduler
	assert.Equal(t, "test-scheduler", s.General.InstanceName)
	assert.Equal(t, "debug", s.General.LogLevel)
	assert.Equal(t, "scan", cfg.GetStrategy())
	assert.Equal(t, "sqlite", cfg.GetDatabaseType())
	assert.Equal(t, "./test.db", cfg.GetDatabaseDSN())
	assert.Equal(t, 5, s.Storage.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, s.Storage.Database.ConnMaxLifetime)
	assert.Equal(t, 2*time.Hour, cfg.GetCacheTTL())
	assert.Equal(t, 9090, s.Server.Port)
	assert.Equal(t, "0.0.0.0", s.Server.Host)

	require.Len(t, s.Jobs, 1)
	assert.Equal(t, "text", s.Jobs[0].Format)
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "step-scheduler", cfg.StepScheduler.General.InstanceName)
	assert.Equal(t, "sorted", cfg.GetStrategy())
	assert.Equal(t, 8080, cfg.StepScheduler.Server.Port)
	assert.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad log level", func(c *Config) { c.StepScheduler.General.LogLevel = "trace" }},
		{"bad strategy", func(c *Config) { c.StepScheduler.Scheduler.Strategy = "random" }},
		{"bad database", func(c *Config) { c.StepScheduler.Storage.Database.Type = "oracle" }},
		{"bad port", func(c *Config) { c.StepScheduler.Server.Port = 70000 }},
		{"bad cron", func(c *Config) {
			c.StepScheduler.Jobs = []JobConfig{{Name: "j", Cron: "not a cron", File: "f"}}
		}},
		{"duplicate job", func(c *Config) {
			job := JobConfig{Name: "j", Cron: "@every 1m", File: "f"}
			c.StepScheduler.Jobs = []JobConfig{job, job}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
