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


package lexicon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/sentipipe/scoring"
)

// Scorer implements scoring.Scorer with a local vocabulary and linear model.
type Scorer struct {
	vocabulary *Vocabulary
	model      *Model
	logger     *slog.Logger
	closed     bool
}

// newScorer is an internal constructor that returns the concrete type.
func newScorer(config *scoring.Config) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	vocabulary, err := LoadVocabulary(config.VocabularyFile)
	if err != nil {
		return nil, err
	}

	model, err := LoadModel(config.ModelFile)
	if err != nil {
		return nil, err
	}

	// A vocabulary index beyond the weight table would only surface deep in a
	// scoring call; reject the pairing up front instead.
	if max := vocabulary.MaxIndex(); max >= len(model.Weights) {
		return nil, fmt.Errorf("%w: vocabulary index %d outside %d weights",
			ErrInvalidModel, max, len(model.Weights))
	}

	return &Scorer{
		vocabulary: vocabulary,
		model:      model,
		logger:     slog.Default().With("component", "lexicon-scorer"),
	}, nil
}

// NewScorer creates a scorer from the model and vocabulary files named in
// the config.
//
// Returns scoring.Scorer interface to enforce abstraction.
func NewScorer(config *scoring.Config) (scoring.Scorer, error) {
	return newScorer(config)
}

// Factory returns a scoring.Factory that loads a fresh model instance per
// call, so each pipeline worker owns its own copy.
func Factory(config *scoring.Config) scoring.Factory {
	return func() (scoring.Scorer, error) {
		return NewScorer(config)
	}
}

// ScoreText scores a single text.
func (s *Scorer) ScoreText(ctx context.Context, text string) (float64, error) {
	if s.closed {
		return 0, scoring.ErrScorerClosed
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	score, err := s.model.Score(s.vocabulary.Indices(Tokenize(text)))
	if err != nil {
		return 0, err
	}

	s.logger.Debug("scored text", "length", len(text), "score", score)
	return score, nil
}

// ScoreTexts scores an ordered batch of texts, returning one score per text.
func (s *Scorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	if s.closed {
		return nil, scoring.ErrScorerClosed
	}

	scores := make([]float64, len(texts))
	for i, text := range texts {
		score, err := s.ScoreText(ctx, text)
		if err != nil {
			return nil, err
		}
		scores[i] = score
	}

	s.logger.Debug("scored batch", "count", len(texts))
	return scores, nil
}

// Close releases the scorer. The model and vocabulary are plain memory, so
// this only guards against use after close.
func (s *Scorer) Close() error {
	s.closed = true
	return nil
}
