package domyland

import (
	"fmt"
	"os"
	"time"
)

// Config holds Domyland API connection parameters and tenant credentials.
type Config struct {
	BaseURL    string `toml:"base_url"`
	AppName    string `toml:"app_name"`
	Email      string `toml:"email"`
	Password   string `toml:"password"`
	TenantName string `toml:"tenant_name"`
	Timeout    string `toml:"timeout"`
	TokenTTL   string `toml:"token_ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL    string
	AppName    string
	Email      string
	Password   string
	TenantName string
	Timeout    string
	TokenTTL   string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// TokenTTLDuration returns TokenTTL as a time.Duration.
func (c *Config) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.AppName != "" {
		c.AppName = overlay.AppName
	}
	if overlay.Email != "" {
		c.Email = overlay.Email
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.TenantName != "" {
		c.TenantName = overlay.TenantName
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://sud-api.domyland.ru"
	}
	if c.AppName == "" {
		c.AppName = "Datastep"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.TokenTTL == "" {
		c.TokenTTL = "10m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.AppName != "" {
		if v := os.Getenv(env.AppName); v != "" {
			c.AppName = v
		}
	}
	if env.Email != "" {
		if v := os.Getenv(env.Email); v != "" {
			c.Email = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.TenantName != "" {
		if v := os.Getenv(env.TenantName); v != "" {
			c.TenantName = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.TokenTTL != "" {
		if v := os.Getenv(env.TokenTTL); v != "" {
			c.TokenTTL = v
		}
	}
}

func (c *Config) validate() error {
	if c.Email == "" {
		return fmt.Errorf("email required")
	}
	if c.Password == "" {
		return fmt.Errorf("password required")
	}
	if c.TenantName == "" {
		return fmt.Errorf("tenant_name required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.TokenTTL); err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	return nil
}
