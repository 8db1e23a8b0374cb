package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/funkylen/datastep-backend/internal/classifier"
	"github.com/funkylen/datastep-backend/internal/domyland"
	"github.com/funkylen/datastep-backend/internal/uds"
	"github.com/funkylen/datastep-backend/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDatastepEnv             = "DATASTEP_ENV"
	EnvDatastepShutdownTimeout = "DATASTEP_SHUTDOWN_TIMEOUT"
	EnvDatastepVersion         = "DATASTEP_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "DATASTEP_DB_HOST",
	Port:            "DATASTEP_DB_PORT",
	Name:            "DATASTEP_DB_NAME",
	User:            "DATASTEP_DB_USER",
	Password:        "DATASTEP_DB_PASSWORD",
	SSLMode:         "DATASTEP_DB_SSL_MODE",
	MaxOpenConns:    "DATASTEP_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATASTEP_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATASTEP_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATASTEP_DB_CONN_TIMEOUT",
}

var domylandEnv = &domyland.Env{
	BaseURL:    "DATASTEP_DOMYLAND_BASE_URL",
	AppName:    "DATASTEP_DOMYLAND_APP_NAME",
	Email:      "DATASTEP_DOMYLAND_EMAIL",
	Password:   "DATASTEP_DOMYLAND_PASSWORD",
	TenantName: "DATASTEP_DOMYLAND_TENANT_NAME",
	Timeout:    "DATASTEP_DOMYLAND_TIMEOUT",
	TokenTTL:   "DATASTEP_DOMYLAND_TOKEN_TTL",
}

var classifierEnv = &classifier.Env{
	BaseURL:     "DATASTEP_CLASSIFIER_BASE_URL",
	APIKey:      "DATASTEP_CLASSIFIER_API_KEY",
	Model:       "DATASTEP_CLASSIFIER_MODEL",
	Temperature: "DATASTEP_CLASSIFIER_TEMPERATURE",
	MaxAttempts: "DATASTEP_CLASSIFIER_MAX_ATTEMPTS",
	RetryWait:   "DATASTEP_CLASSIFIER_RETRY_WAIT",
}

// Config is the root configuration for the classification service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	API             APIConfig         `toml:"api"`
	Domyland        domyland.Config   `toml:"domyland"`
	Classifier      classifier.Config `toml:"classifier"`
	Dispatch        DispatchConfig    `toml:"dispatch"`
	Units           []uds.Unit        `toml:"units"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the DATASTEP_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDatastepEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if len(overlay.Units) > 0 {
		c.Units = overlay.Units
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Domyland.Merge(&overlay.Domyland)
	c.Classifier.Merge(&overlay.Classifier)
	c.Dispatch.Merge(&overlay.Dispatch)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Domyland.Finalize(domylandEnv); err != nil {
		return fmt.Errorf("domyland: %w", err)
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Dispatch.Finalize(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDatastepShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDatastepVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	for i, unit := range c.Units {
		if unit.UserID == 0 {
			return fmt.Errorf("units[%d]: user_id required", i)
		}
		if len(unit.Addresses) == 0 {
			return fmt.Errorf("units[%d]: addresses required", i)
		}
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDatastepEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
