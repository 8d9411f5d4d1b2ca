package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"drfind/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	PersistImmediate = "immediate"
	PersistDebounced = "debounced"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	Storage     StorageConfig     `yaml:"storage"`
	Redis       RedisConfig       `yaml:"redis"`
	Backup      BackupConfig      `yaml:"backup"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Gateway     GatewayConfig     `yaml:"gateway"`
	Search      SearchConfig      `yaml:"search"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exports     ExportConfig      `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	Failover bool   `yaml:"failover"`
}

type RedisConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"pool_size"`
	KeyPrefix string `yaml:"key_prefix"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type PersistenceConfig struct {
	Mode     string        `yaml:"mode"`
	Debounce time.Duration `yaml:"debounce"`
}

type GatewayConfig struct {
	SearchURL     string        `yaml:"search_url"`
	DirectionsURL string        `yaml:"directions_url"`
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	RateLimitRPS  float64       `yaml:"rate_limit_rps"`
	MaxResults    int           `yaml:"max_results"`
}

type SearchConfig struct {
	RecentLimit int `yaml:"recent_limit"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage path is required for sqlite backend")
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return errors.New("redis address is required for redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Persistence.Mode {
	case PersistImmediate:
	case PersistDebounced:
		if c.Persistence.Debounce <= 0 {
			return errors.New("persistence.debounce must be positive in debounced mode")
		}
	default:
		return fmt.Errorf("unknown persistence mode %q", c.Persistence.Mode)
	}

	for name, raw := range map[string]string{
		"gateway.search_url":     c.Gateway.SearchURL,
		"gateway.directions_url": c.Gateway.DirectionsURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s is not a valid URL: %q", name, raw)
		}
	}

	if c.Search.RecentLimit < 0 || c.Search.RecentLimit > models.RecentSearchLimit {
		return fmt.Errorf("search.recent_limit must be between 1 and %d", models.RecentSearchLimit)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "drfind"
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendSQLite
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.Path == "" {
		c.Storage.Path = "data/drfind.db"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "drfind:"
	}

	c.Persistence.Mode = strings.ToLower(strings.TrimSpace(c.Persistence.Mode))
	if c.Persistence.Mode == "" {
		c.Persistence.Mode = PersistImmediate
	}

	if c.Gateway.SearchURL == "" {
		c.Gateway.SearchURL = "https://nominatim.openstreetmap.org"
	}
	if c.Gateway.DirectionsURL == "" {
		c.Gateway.DirectionsURL = "https://router.project-osrm.org"
	}
	if c.Gateway.UserAgent == "" {
		c.Gateway.UserAgent = c.App.Name
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = 10 * time.Second
	}
	// Nominatim usage policy allows one request per second
	if c.Gateway.RateLimitRPS == 0 {
		c.Gateway.RateLimitRPS = 1
	}
	if c.Gateway.MaxResults == 0 {
		c.Gateway.MaxResults = 25
	}

	if c.Search.RecentLimit == 0 {
		c.Search.RecentLimit = models.RecentSearchLimit
	}

	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "data/backups"
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
