package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sentipipe/scoring"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1, cfg.BatchSize)
	assert.Equal(t, 64, cfg.QueueCapacity)
	assert.Equal(t, scoring.BackendLexicon, cfg.Scoring.Backend)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
input: posts.jsonl
output: scores.tsv
terms: [bitcoin, btc]
lang: en
workers: 8
batch_size: 25
scoring:
  backend: openai
  host: http://localhost:11434
  model: qwen2.5:3b
  max_retries: 5
  retry_base_delay: 2s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "posts.jsonl", cfg.Input)
	assert.Equal(t, "scores.tsv", cfg.Output)
	assert.Equal(t, []string{"bitcoin", "btc"}, cfg.Terms)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 64, cfg.QueueCapacity, "unset fields keep their defaults")

	sc := cfg.ScoringConfig()
	assert.Equal(t, scoring.BackendOpenAI, sc.Backend)
	assert.Equal(t, 5, sc.MaxRetries)
	assert.Equal(t, 2*time.Second, sc.RetryBaseDelay)

	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "workers: [not a number")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing output",
			mutate:  func(c *Config) { c.Output = "" },
			wantErr: "output is required",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: "workers",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: "batch_size",
		},
		{
			name:    "zero queue capacity",
			mutate:  func(c *Config) { c.QueueCapacity = 0 },
			wantErr: "queue_capacity",
		},
		{
			name:    "lexicon backend without model file",
			mutate:  func(c *Config) { c.Scoring.ModelFile = "" },
			wantErr: "ModelFile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Output = "scores.tsv"
			cfg.Scoring.ModelFile = "model.json"
			cfg.Scoring.VocabularyFile = "vocab.json"

			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
