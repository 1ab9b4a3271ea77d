// Package config holds the site configuration, loaded from YAML with
// environment overrides for deployment knobs.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Garuda Spot configuration.
type Config struct {
	Addr     string      `yaml:"addr"`
	DBPath   string      `yaml:"db_path"`
	LogLevel string      `yaml:"log_level"`
	Admin    AdminConfig `yaml:"admin"`
	HTTP     HTTPConfig  `yaml:"http"`
	Events   EventConfig `yaml:"events"`
}

// AdminConfig seeds the initial admin account when none exists.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// HTTPConfig controls the server timeouts.
type HTTPConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EventConfig controls business event retention.
type EventConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "db/garudaspot.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Admin.Username == "" {
		c.Admin.Username = "admin"
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.HTTP.IdleTimeout <= 0 {
		c.HTTP.IdleTimeout = 2 * time.Minute
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Events.RetentionDays <= 0 {
		c.Events.RetentionDays = 90
	}
}

// Load reads the YAML config at path, applies defaults, and then the
// environment overrides. A missing file is not an error: the defaults plus
// environment form a complete configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}
	cfg.defaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		c.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	}
}
