package storage

import (
	"context"

	"github.com/poiesic/sentipipe/core"
)

// ScoreRepository provides operations for the score archive.
// Implementations must be thread-safe: the pipeline's writer and the
// orchestrator's feed loop access it concurrently.
type ScoreRepository interface {
	// AddScores persists one or more scored posts, overwriting any existing
	// entry with the same post ID.
	AddScores(ctx context.Context, scores ...*core.ScoredPost) error

	// GetScore retrieves an archived score by post ID.
	// Returns ErrNotFound if the post was never archived.
	GetScore(ctx context.Context, id core.ID) (*core.ScoredPost, error)

	// HasScore reports whether a post ID is already archived.
	HasScore(ctx context.Context, id core.ID) (bool, error)

	// ForEachScore calls fn for every archived score in ascending post-ID
	// order. Iteration stops on the first error from fn.
	ForEachScore(ctx context.Context, fn func(*core.ScoredPost) error) error

	// Close closes the archive and releases resources.
	Close() error
}
