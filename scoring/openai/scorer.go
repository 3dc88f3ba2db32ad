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


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/sentipipe/scoring"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker/v2"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Scorer implements scoring.Scorer against any OpenAI-compatible chat API.
// Calls are wrapped in a circuit breaker and retried with exponential
// backoff; a tripped breaker fails fast instead of stacking up requests
// against a struggling endpoint.
type Scorer struct {
	client     llms.Model
	breaker    *gobreaker.CircuitBreaker[[]float64]
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// scoreResponse is the JSON shape the model is instructed to return.
type scoreResponse struct {
	Scores []float64 `json:"scores"`
}

// newScorer is an internal constructor that returns the concrete type.
func newScorer(config *scoring.Config) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication; real endpoints read OPENAI_API_KEY.
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker[[]float64](gobreaker.Settings{
		Name:    "openai-scorer",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Scorer{
		client:     client,
		breaker:    breaker,
		maxRetries: config.MaxRetries,
		baseDelay:  config.RetryBaseDelay,
		logger:     slog.Default().With("component", "openai-scorer"),
	}, nil
}

// NewScorer creates an LLM-backed scorer using the provided configuration.
//
// Returns scoring.Scorer interface to enforce abstraction.
func NewScorer(config *scoring.Config) (scoring.Scorer, error) {
	return newScorer(config)
}

// Factory returns a scoring.Factory producing an independent client per
// pipeline worker.
func Factory(config *scoring.Config) scoring.Factory {
	return func() (scoring.Scorer, error) {
		return NewScorer(config)
	}
}

// ScoreText scores a single text.
func (s *Scorer) ScoreText(ctx context.Context, text string) (float64, error) {
	scores, err := s.ScoreTexts(ctx, []string{text})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

// ScoreTexts scores an ordered batch of texts with a single chat completion.
// The call is retried on transient failures and malformed replies; a reply
// that still has the wrong score count after all attempts surfaces as
// scoring.ErrScoreCountMismatch.
func (s *Scorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return []float64{}, nil
	}

	var scores []float64
	backoff := retry.WithMaxRetries(uint64(s.maxRetries-1), retry.NewExponential(s.baseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		scores, err = s.breaker.Execute(func() ([]float64, error) {
			return s.generate(ctx, texts)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.Debug("circuit breaker rejected request", "err", err)
			return retry.RetryableError(err)
		}
		s.logger.Debug("scoring call failed, will retry", "count", len(texts), "err", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("scoring %d texts failed after %d attempts: %w",
			len(texts), s.maxRetries, err)
	}

	return scores, nil
}

// generate performs one chat completion and parses the reply.
func (s *Scorer) generate(ctx context.Context, texts []string) ([]float64, error) {
	payload, err := json.Marshal(struct {
		Posts []string `json:"posts"`
	}{Posts: texts})
	if err != nil {
		return nil, err
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(string(payload))},
		},
	}

	response, err := s.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	return parseScores(response.Choices[0].Content, len(texts))
}

// parseScores decodes the model reply and enforces the batch contract.
func parseScores(reply string, want int) ([]float64, error) {
	// Some models wrap JSON in a markdown fence despite instructions.
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	var parsed scoreResponse
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, fmt.Errorf("unparseable model reply: %w", err)
	}

	if len(parsed.Scores) != want {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			scoring.ErrScoreCountMismatch, want, len(parsed.Scores))
	}

	for i, score := range parsed.Scores {
		// Models occasionally drift a hair outside the requested range.
		if score < 0 {
			parsed.Scores[i] = 0
		} else if score > 1 {
			parsed.Scores[i] = 1
		}
	}

	return parsed.Scores, nil
}

// Close releases resources held by the scorer.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (s *Scorer) Close() error {
	s.logger.Debug("closing openai scorer")
	return nil
}
