package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/filedrop/internal/flagx"
	"github.com/dmitrijs2005/filedrop/internal/timex"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// Empty or zero fields leave the corresponding Config value untouched.
type FileConfig struct {
	ServerURL    string `json:"server_url" yaml:"server_url"`
	DownloadDir  string `json:"download_dir" yaml:"download_dir"`
	DatabasePath string `json:"database_path" yaml:"database_path"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
	StartPage    string `json:"start_page" yaml:"start_page"`

	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	AutoRefreshInterval timex.Duration `json:"auto_refresh_interval" yaml:"auto_refresh_interval"`
	DownloadCooldown    timex.Duration `json:"download_cooldown" yaml:"download_cooldown"`
	DownloadInterval    timex.Duration `json:"download_interval" yaml:"download_interval"`
	CopyFeedback        timex.Duration `json:"copy_feedback" yaml:"copy_feedback"`
}

// parseFile overlays cfg with the file named by -c or -config. Files ending
// in .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.DownloadDir, fc.DownloadDir)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.StartPage, fc.StartPage)

	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setDuration(&cfg.AutoRefreshInterval, fc.AutoRefreshInterval)
	setDuration(&cfg.DownloadCooldown, fc.DownloadCooldown)
	setDuration(&cfg.DownloadInterval, fc.DownloadInterval)
	setDuration(&cfg.CopyFeedback, fc.CopyFeedback)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
