// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads run configuration from a YAML file. Every field maps
// onto a CLI flag; flags set explicitly on the command line win over the
// file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/sentipipe/scoring"
)

// Config is the full run configuration for a scoring pipeline.
type Config struct {
	// Input is the path to a JSON-lines post file. Empty means stdin.
	Input string `yaml:"input"`

	// Output is the path the scored results are written to.
	Output string `yaml:"output"`

	// Terms filter the feed: only posts containing at least one term are
	// scored. Empty means every post.
	Terms []string `yaml:"terms"`

	// Lang keeps only posts declaring the given language. Empty disables
	// the filter.
	Lang string `yaml:"lang"`

	// Limit stops the feed after this many posts. Non-positive means
	// unlimited.
	Limit int `yaml:"limit"`

	// Workers is the number of concurrent scoring workers.
	Workers int `yaml:"workers"`

	// BatchSize is the number of posts scored per batched call.
	BatchSize int `yaml:"batch_size"`

	// QueueCapacity bounds the post and results queues.
	QueueCapacity int `yaml:"queue_capacity"`

	// Archive is an optional BadgerDB directory. When set, scored posts are
	// mirrored there and already archived posts are skipped.
	Archive string `yaml:"archive"`

	// MetricsAddr exposes Prometheus metrics on this address when set,
	// e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr"`

	// Scoring selects and configures the scorer backend.
	Scoring ScoringConfig `yaml:"scoring"`
}

// ScoringConfig mirrors scoring.Config in YAML form. RetryBaseDelay uses
// Go duration syntax ("500ms", "2s").
type ScoringConfig struct {
	Backend        string `yaml:"backend"`
	ModelFile      string `yaml:"model_file"`
	VocabularyFile string `yaml:"vocabulary_file"`
	Host           string `yaml:"host"`
	Model          string `yaml:"model"`
	MaxRetries     int    `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
}

// Default returns the configuration used when no file and no flags are
// given.
func Default() *Config {
	sc := scoring.DefaultConfig()
	return &Config{
		Workers:       4,
		BatchSize:     1,
		QueueCapacity: 64,
		Scoring: ScoringConfig{
			Backend:        sc.Backend,
			Host:           sc.Host,
			Model:          sc.Model,
			MaxRetries:     sc.MaxRetries,
			RetryBaseDelay: sc.RetryBaseDelay.String(),
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration is complete enough to run a pipeline.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("config: output is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("config: batch_size must be at least 1")
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("config: queue_capacity must be at least 1")
	}
	if c.Scoring.RetryBaseDelay != "" {
		if _, err := time.ParseDuration(c.Scoring.RetryBaseDelay); err != nil {
			return fmt.Errorf("config: invalid retry_base_delay: %w", err)
		}
	}
	return c.ScoringConfig().Validate()
}

// ScoringConfig converts the YAML scoring section into a scoring.Config.
func (c *Config) ScoringConfig() *scoring.Config {
	sc := scoring.NewConfig(
		scoring.WithBackend(c.Scoring.Backend),
		scoring.WithModelFile(c.Scoring.ModelFile),
		scoring.WithVocabularyFile(c.Scoring.VocabularyFile),
		scoring.WithHost(c.Scoring.Host),
		scoring.WithModel(c.Scoring.Model),
		scoring.WithMaxRetries(c.Scoring.MaxRetries),
	)
	if c.Scoring.RetryBaseDelay != "" {
		if d, err := time.ParseDuration(c.Scoring.RetryBaseDelay); err == nil {
			sc.RetryBaseDelay = d
		}
	}
	return sc
}
