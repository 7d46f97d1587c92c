package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "")
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Contains(t, cfg.Feed.URL, "pubmed.ncbi.nlm.nih.gov/rss/search/")
	assert.Equal(t, 30*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.Classifier.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Classifier.BaseURL)
	assert.Equal(t, 0, cfg.Classifier.RequestsPerMinute)
	assert.Equal(t, "output/filtered_feed.xml", cfg.Output.AcceptedPath)
	assert.Equal(t, "output/rejected_feed.xml", cfg.Output.RejectedPath)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_ReadsEnvironmentOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "sk-test")
	t.Setenv(EnvBaseURL, "http://localhost:9999/v1")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Classifier.APIKey)
	assert.Equal(t, "http://localhost:9999/v1", cfg.Classifier.BaseURL)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLOverlayWithEnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "sk-test")
	t.Setenv("TEST_FEED_HOST", "feeds.example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
feed:
  url: https://${TEST_FEED_HOST}/rss
  timeout: 5s
classifier:
  model: gpt-4o
  requests_per_minute: 60
output:
  accepted_path: out/a.xml
  rejected_path: out/r.xml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://feeds.example.com/rss", cfg.Feed.URL)
	assert.Equal(t, 5*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, "gpt-4o", cfg.Classifier.Model)
	assert.Equal(t, 60, cfg.Classifier.RequestsPerMinute)
	assert.Equal(t, "out/a.xml", cfg.Output.AcceptedPath)
	assert.Equal(t, "sk-test", cfg.Classifier.APIKey)
	// fields absent in the file keep their defaults
	assert.Equal(t, "https://api.openai.com/v1", cfg.Classifier.BaseURL)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed: [unclosed"), 0o644))
	t.Setenv(EnvConfigPath, path)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := New()
		cfg.Classifier.APIKey = "sk-test"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing api key", func(c *Config) { c.Classifier.APIKey = "" }, EnvAPIKey},
		{"bad feed url", func(c *Config) { c.Feed.URL = "not a url" }, "invalid feed.url"},
		{"zero feed timeout", func(c *Config) { c.Feed.Timeout = 0 }, "feed.timeout"},
		{"bad base url", func(c *Config) { c.Classifier.BaseURL = "" }, "invalid classifier.base_url"},
		{"empty model", func(c *Config) { c.Classifier.Model = "" }, "classifier.model"},
		{"negative rpm", func(c *Config) { c.Classifier.RequestsPerMinute = -1 }, "requests_per_minute"},
		{"empty output", func(c *Config) { c.Output.RejectedPath = "" }, "output paths"},
		{"same output", func(c *Config) { c.Output.RejectedPath = c.Output.AcceptedPath }, "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
