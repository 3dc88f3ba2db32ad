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


package scoring

import (
	"errors"
	"strings"
	"time"
)

// Backend identifiers for scorer implementations.
const (
	// BackendLexicon is the local vocabulary + weights model.
	BackendLexicon = "lexicon"
	// BackendOpenAI is the LLM backend over an OpenAI-compatible API.
	BackendOpenAI = "openai"
)

// Config holds configuration shared by scorer backends.
type Config struct {
	// Backend selects the scorer implementation: "lexicon" or "openai".
	Backend string

	// ModelFile is the path to the lexicon model weights file (JSON).
	ModelFile string

	// VocabularyFile is the path to the token-to-index vocabulary file (JSON).
	VocabularyFile string

	// Host is the base URL for the OpenAI-compatible API.
	// Example: "http://localhost:11434/v1" for a local server.
	Host string

	// Model is the model identifier for the LLM backend.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	Model string

	// MaxRetries is the maximum number of attempts for LLM scoring calls.
	MaxRetries int

	// RetryBaseDelay is the base delay for exponential backoff between retries.
	RetryBaseDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend selects the scorer backend.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithModelFile sets the lexicon model weights file.
func WithModelFile(path string) ConfigOption {
	return func(c *Config) {
		c.ModelFile = path
	}
}

// WithVocabularyFile sets the vocabulary file.
func WithVocabularyFile(path string) ConfigOption {
	return func(c *Config) {
		c.VocabularyFile = path
	}
}

// WithHost sets the OpenAI-compatible API host.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the LLM model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithMaxRetries sets the retry budget for LLM scoring calls.
func WithMaxRetries(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// DefaultConfig returns a Config with sensible defaults: the local lexicon
// backend, and local-server settings for the LLM backend if selected.
func DefaultConfig() *Config {
	return &Config{
		Backend:        BackendLexicon,
		Host:           "http://localhost:11434/v1",
		Model:          "qwen2.5:3b",
		MaxRetries:     3,
		RetryBaseDelay: time.Second,
	}
}

// NewConfig creates a Config with default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete for the
// selected backend. It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Backend {
	case BackendLexicon:
		if c.ModelFile == "" {
			return errors.New("scoring config: ModelFile is required for the lexicon backend")
		}
		if c.VocabularyFile == "" {
			return errors.New("scoring config: VocabularyFile is required for the lexicon backend")
		}
	case BackendOpenAI:
		if c.Host == "" {
			return errors.New("scoring config: Host is required for the openai backend")
		}
		if c.Model == "" {
			return errors.New("scoring config: Model is required for the openai backend")
		}
		if c.MaxRetries < 1 {
			return errors.New("scoring config: MaxRetries must be at least 1")
		}
	default:
		return errors.New("scoring config: unknown backend " + c.Backend)
	}
	return nil
}
