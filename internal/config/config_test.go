package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeframeDays, cfg.TimeframeDays)
	assert.Equal(t, 15*time.Second, cfg.Source.Timeout)
	assert.Equal(t, DefaultCache, cfg.Cache)
	assert.Equal(t, 5*time.Minute, cfg.Watch.Interval)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, analyzer.DefaultPolicy(), cfg.Policy)
	assert.Equal(t, DBPath(), cfg.Store.Path)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
source:
  api_url: https://api.example.com
  timeout: 5s
timeframe_days: 14
cache:
  ttl: 1m
policy:
  slot_limit: 3
  engagement_healthy: 2
watch:
  interval: 30s
log:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Source.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 14, cfg.TimeframeDays)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, DefaultCache.ErrorTTL, cfg.Cache.ErrorTTL)
	assert.Equal(t, 3, cfg.Policy.SlotLimit)
	assert.Equal(t, 2.0, cfg.Policy.EngagementHealthy)
	assert.Equal(t, analyzer.DefaultPolicy().EngagementStrong, cfg.Policy.EngagementStrong)
	assert.Equal(t, 30*time.Second, cfg.Watch.Interval)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TWEETGENIE_SOURCE_TOKEN", "from-env")
	t.Setenv("TWEETGENIE_TIMEFRAME_DAYS", "7")
	cfg, err := Load(writeConfig(t, "source:\n  token: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Source.Token)
	assert.Equal(t, 7, cfg.TimeframeDays)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg, err := Load(writeConfig(t, "source:\n  file: ~/metrics.json\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "metrics.json"), cfg.Source.File)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad url", "source:\n  api_url: not a url\n", "Source.APIURL must be a valid URL"},
		{"bad format", "log:\n  format: xml\n", "Log.Format must be one of"},
		{"bad window", "timeframe_days: 0\n", "TimeframeDays must be at least 1"},
		{"bad policy", "policy:\n  slot_limit: 0\n", "Policy.SlotLimit must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "source: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
