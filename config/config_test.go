package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "test-key")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ANALYZERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.YouTube.APIKey)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "json_output.txt", cfg.JSONDump)
	assert.Equal(t, time.Hour, cfg.Valkey.TTL)
	require.Len(t, cfg.Analyzers, 3)
	assert.Equal(t, "vader", cfg.Analyzers[0].Name)
	assert.Equal(t, AnalyzerKindLexicon, cfg.Analyzers[0].Kind)
	assert.Equal(t, "roberta", cfg.Analyzers[1].Name)
	assert.Equal(t, "distilbert", cfg.Analyzers[2].Name)
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("YOUTUBE_ACCESS_TOKEN", "")
	t.Setenv("CONFIG_FILE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YouTube credentials")
}

func TestLoadAnalyzerSelection(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "test-key")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ANALYZERS", "distilbert, vader")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Analyzers, 2)
	assert.Equal(t, "distilbert", cfg.Analyzers[0].Name)
	assert.Equal(t, "vader", cfg.Analyzers[1].Name)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
http_addr: ":9090"
valkey:
  address: "localhost:6379"
  ttl: 30m
analyzers:
  - name: vader
    kind: lexicon
  - name: stars
    kind: pretrained
    model: nlptown/bert-base-multilingual-uncased-sentiment
    truncation: window
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))

	t.Setenv("YOUTUBE_API_KEY", "test-key")
	t.Setenv("ANALYZERS", "")
	t.Setenv("CONFIG_FILE", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "localhost:6379", cfg.Valkey.Address)
	assert.Equal(t, 30*time.Minute, cfg.Valkey.TTL)
	require.Len(t, cfg.Analyzers, 2)
	assert.Equal(t, TruncationWindow, cfg.Analyzers[1].Truncation)
	assert.Equal(t, 384, cfg.Analyzers[1].MaxInputLength)
	assert.Equal(t, 512, cfg.Analyzers[1].MaxInputRunes)
	assert.Zero(t, cfg.Analyzers[0].MaxInputRunes)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			YouTube:   YouTubeConfig{APIKey: "k"},
			Analyzers: DefaultAnalyzers(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no analyzers", func(c *Config) { c.Analyzers = nil }, "at least one analyzer"},
		{"duplicate", func(c *Config) { c.Analyzers[1].Name = "vader" }, "duplicate analyzer"},
		{"no lexicon", func(c *Config) { c.Analyzers = c.Analyzers[1:] }, "lexicon analyzer is required"},
		{"missing model", func(c *Config) { c.Analyzers[1].Model = "" }, "model is required"},
		{"bad truncation", func(c *Config) { c.Analyzers[1].Truncation = "chop" }, "unknown truncation"},
		{"rune cap too small", func(c *Config) { c.Analyzers[2].MaxInputRunes = 1 }, "max_input_runes"},
		{"bad kind", func(c *Config) { c.Analyzers[0].Kind = "magic" }, "unknown kind"},
		{"kafka without topic", func(c *Config) { c.Kafka = KafkaConfig{Enabled: true, Broker: "b"} }, "Kafka broker and topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
