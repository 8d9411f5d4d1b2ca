package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"drfind/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("DRFIND_TEST_DB", filepath.Join(tmpDir, "app.db"))

	yamlContent := `
app:
  name: "drfind"
storage:
  backend: "SQLite"
  path: "${DRFIND_TEST_DB}"
persistence:
  mode: "debounced"
  debounce: 250ms
gateway:
  timeout: 3s
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(tmpDir, "app.db"), cfg.Storage.Path)
	assert.Equal(t, PersistDebounced, cfg.Persistence.Mode)
	assert.Equal(t, 250*time.Millisecond, cfg.Persistence.Debounce)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "drfind", cfg.Gateway.UserAgent)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("storage:\n  backend: floppy\n"), 0o644))

	_, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		cfg := Config{}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "memory backend", mutate: func(c *Config) { c.Storage.Backend = BackendMemory }, wantErr: false},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.Path = "" }, wantErr: true},
		{name: "redis without address", mutate: func(c *Config) { c.Storage.Backend = BackendRedis }, wantErr: true},
		{
			name: "redis with address",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendRedis
				c.Redis.Address = "localhost:6379"
			},
			wantErr: false,
		},
		{name: "debounced without delay", mutate: func(c *Config) { c.Persistence.Mode = PersistDebounced }, wantErr: true},
		{name: "unknown persistence mode", mutate: func(c *Config) { c.Persistence.Mode = "lazy" }, wantErr: true},
		{name: "bad search url", mutate: func(c *Config) { c.Gateway.SearchURL = "not a url" }, wantErr: true},
		{name: "recent limit below cap", mutate: func(c *Config) { c.Search.RecentLimit = 5 }, wantErr: false},
		{name: "recent limit over cap", mutate: func(c *Config) { c.Search.RecentLimit = 25 }, wantErr: true},
		{name: "negative recent limit", mutate: func(c *Config) { c.Search.RecentLimit = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Monitoring: MonitoringConfig{PrometheusEnabled: true}}
	cfg.applyDefaults()

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "data/drfind.db", cfg.Storage.Path)
	assert.Equal(t, PersistImmediate, cfg.Persistence.Mode)
	assert.Equal(t, models.RecentSearchLimit, cfg.Search.RecentLimit)
	assert.Equal(t, float64(1), cfg.Gateway.RateLimitRPS)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, "drfind:", cfg.Redis.KeyPrefix)
}
