// Package config loads the texrboard configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// ServerConfig holds where to find (or how to reach) the TensorBoard server.
type ServerConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// RefreshConfig controls background polling.
type RefreshConfig struct {
	IntervalSeconds int  `toml:"interval_seconds"`
	WatchLogdir     bool `toml:"watch_logdir"`
}

// AppearanceConfig holds UI preferences.
type AppearanceConfig struct {
	ShowProcessStats bool `toml:"show_process_stats"`
}

// Config is the root of the TOML configuration file.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Refresh    RefreshConfig    `toml:"refresh"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "localhost",
			Port:           6006,
			TimeoutSeconds: 10,
		},
		Refresh: RefreshConfig{
			IntervalSeconds: 30,
			WatchLogdir:     true,
		},
		Appearance: AppearanceConfig{
			ShowProcessStats: true,
		},
	}
}

// Path returns the config file location under the XDG config directory,
// creating parent directories as needed.
func Path() (string, error) {
	path, err := xdg.ConfigFile("texrboard/config.toml")
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// Load reads the config file, falling back to defaults for anything the
// file does not set. A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads a specific config file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.sanitize()
	return cfg, nil
}

// Interval returns the polling interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Refresh.IntervalSeconds) * time.Second
}

// Timeout returns the client timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// BaseURL returns the server URL built from host and port.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) sanitize() {
	def := Default()
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = def.Server.TimeoutSeconds
	}
	if c.Refresh.IntervalSeconds < 1 {
		c.Refresh.IntervalSeconds = def.Refresh.IntervalSeconds
	}
}
