package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the filedrop CLI.
//
// Durations are time.Duration values; config files may spell them as "60s"
// or integer nanoseconds.
type Config struct {
	ServerURL    string
	DownloadDir  string
	DatabasePath string
	LogLevel     string
	StartPage    string

	RequestTimeout      time.Duration
	AutoRefreshInterval time.Duration
	DownloadCooldown    time.Duration
	DownloadInterval    time.Duration
	CopyFeedback        time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.DownloadDir = "downloads"
	c.DatabasePath = "filedrop.db"
	c.LogLevel = "info"
	c.StartPage = "/upload"

	c.RequestTimeout = 30 * time.Second
	c.AutoRefreshInterval = 60 * time.Second
	c.DownloadCooldown = 180 * time.Second
	c.DownloadInterval = 5 * time.Second
	c.CopyFeedback = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if one is named in args) and command-line flags. Later
// sources take precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url is empty")
	}
	for name, d := range map[string]time.Duration{
		"auto_refresh_interval": c.AutoRefreshInterval,
		"download_interval":     c.DownloadInterval,
		"download_cooldown":     c.DownloadCooldown,
		"copy_feedback":         c.CopyFeedback,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	// A zero request timeout disables it.
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}
