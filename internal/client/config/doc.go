// Package config loads runtime configuration for the filedrop CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are decoded with gopkg.in/yaml.v3, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   file-drop server base URL
//	-d string   download directory
//	-db string  local preference database path
//	-p string   start page
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "60s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "https://drop.example.com",
//	  "download_dir": "downloads",
//	  "database_path": "filedrop.db",
//	  "request_timeout": "30s",
//	  "auto_refresh_interval": "60s",
//	  "download_cooldown": "3m",
//	  "download_interval": "5s",
//	  "copy_feedback": "2s",
//	  "log_level": "info",
//	  "start_page": "/pickup"
//	}
//
// This package does not read environment variables.
package config
