package scoring

import "context"

// Scorer maps text to a sentiment score in [0,1].
// A Scorer is owned by a single scoring worker and is not required to be
// safe for concurrent use.
type Scorer interface {
	// ScoreText scores a single text.
	ScoreText(ctx context.Context, text string) (float64, error)

	// ScoreTexts scores an ordered batch of texts and returns scores in the
	// same order. The returned slice must have exactly len(texts) elements;
	// callers treat any other length as an unrecoverable invariant violation.
	ScoreTexts(ctx context.Context, texts []string) ([]float64, error)

	// Close releases resources held by the scorer.
	// After Close is called, the scorer must not be used.
	Close() error
}

// Factory constructs a fresh Scorer instance.
// The pipeline calls it once per worker so that model state is never shared
// across concurrent workers.
type Factory func() (Scorer, error)
