package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:5000", c.ServerURL)
	assert.Equal(t, "/upload", c.StartPage)
	assert.Equal(t, 60*time.Second, c.AutoRefreshInterval)
	assert.Equal(t, 180*time.Second, c.DownloadCooldown)
	assert.Equal(t, 5*time.Second, c.DownloadInterval)
	assert.Equal(t, 2*time.Second, c.CopyFeedback)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	want := defaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := writeFile(t, "cfg.json", `{
		"server_url": "https://drop.example.com",
		"download_cooldown": "90s",
		"download_interval": 1000000000
	}`)

	cfg, err := LoadConfig([]string{"-config", path})
	require.NoError(t, err)

	want := defaults()
	want.ServerURL = "https://drop.example.com"
	want.DownloadCooldown = 90 * time.Second
	want.DownloadInterval = time.Second
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := writeFile(t, "cfg.yaml", `
server_url: http://10.0.0.2:8080
auto_refresh_interval: 30s
start_page: /pickup
log_level: debug
`)

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2:8080", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.AutoRefreshInterval)
	assert.Equal(t, "/pickup", cfg.StartPage)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "filedrop.db", cfg.DatabasePath)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"server_url": "http://from-file:1", "download_dir": "file-dir"}`)

	cfg, err := LoadConfig([]string{"-c", path, "-s", "http://from-flag:2", "-db", "/tmp/x.db", "-p", "/manage/g1"})
	require.NoError(t, err)

	assert.Equal(t, "http://from-flag:2", cfg.ServerURL)
	assert.Equal(t, "file-dir", cfg.DownloadDir)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
	assert.Equal(t, "/manage/g1", cfg.StartPage)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
	}{
		{"missing file", func(t *testing.T) []string {
			return []string{"-c", filepath.Join(t.TempDir(), "absent.json")}
		}},
		{"invalid json", func(t *testing.T) []string {
			return []string{"-c", writeFile(t, "bad.json", `{ not json`)}
		}},
		{"invalid yaml duration", func(t *testing.T) []string {
			return []string{"-c", writeFile(t, "bad.yml", "copy_feedback: soon\n")}
		}},
		{"empty server url flag", func(*testing.T) []string {
			return []string{"-s="}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args(t))
			require.Error(t, err)
		})
	}
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	cfg := defaults()

	require.NoError(t, parseFlags(&cfg, []string{"-x", "1", "-l", "warn", "--verbose"}))
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	c := defaults()
	c.DownloadInterval = 0
	require.Error(t, c.Validate())

	c = defaults()
	c.DownloadCooldown = -time.Second
	require.Error(t, c.Validate())

	c = defaults()
	c.DownloadCooldown = 0
	require.ErrorContains(t, c.Validate(), "download_cooldown must be positive")

	c = defaults()
	c.RequestTimeout = -time.Second
	require.Error(t, c.Validate())

	c = defaults()
	c.RequestTimeout = 0
	require.NoError(t, c.Validate())
}

func TestLoadConfig_RejectsNonPositiveCooldown(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"download_cooldown": "-1s"}`)

	_, err := LoadConfig([]string{"-c", path})
	require.ErrorContains(t, err, "download_cooldown must be positive")
}
