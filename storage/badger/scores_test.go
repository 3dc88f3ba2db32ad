package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/sentipipe/core"
	"github.com/poiesic/sentipipe/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) storage.ScoreRepository {
	t.Helper()
	repo, backend, err := NewMemoryScoreRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return repo
}

func scored(id core.ID, text string, score float64) *core.ScoredPost {
	return &core.ScoredPost{
		Post: &core.Post{
			Id:        id,
			CreatedAt: time.Date(2018, 10, 10, 20, 19, 24, 0, time.UTC),
			Text:      text,
		},
		Score: score,
	}
}

func TestAddAndGetScore(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	original := scored(42, "great stuff", 0.91)
	require.NoError(t, repo.AddScores(ctx, original))

	got, err := repo.GetScore(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, original.Post.Text, got.Post.Text)
	assert.Equal(t, original.Score, got.Score)
}

func TestGetScoreNotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetScore(context.Background(), 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHasScore(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	require.NoError(t, repo.AddScores(ctx, scored(1, "one", 0.5)))

	found, err := repo.HasScore(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.HasScore(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddScoresOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	require.NoError(t, repo.AddScores(ctx, scored(1, "first pass", 0.2)))
	require.NoError(t, repo.AddScores(ctx, scored(1, "first pass", 0.8)))

	got, err := repo.GetScore(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.8, got.Score)
}

func TestForEachScoreOrdersByID(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	require.NoError(t, repo.AddScores(ctx,
		scored(30, "c", 0.3),
		scored(10, "a", 0.1),
		scored(20, "b", 0.2),
	))

	var ids []core.ID
	err := repo.ForEachScore(ctx, func(s *core.ScoredPost) error {
		ids = append(ids, s.Post.Id)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []core.ID{10, 20, 30}, ids)
}

func TestClosedRepository(t *testing.T) {
	ctx := context.Background()
	repo, backend, err := NewMemoryScoreRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	assert.ErrorIs(t, repo.AddScores(ctx, scored(1, "x", 0.5)), storage.ErrStorageClosed)
	_, err = repo.GetScore(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
