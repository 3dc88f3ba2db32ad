package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sentipipe/core"
	storagebadger "github.com/poiesic/sentipipe/storage/badger"
)

func readSink(t *testing.T, path string, delimiter rune) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriterHeaderOnlyOnEmptyStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	results := NewQueue[*core.ScoredPost](4)

	w := NewWriter(results, path)
	require.NoError(t, w.Start(context.Background()))
	w.Stop(true)

	require.NoError(t, w.Err())
	assert.Equal(t, 0, w.Rows())

	records := readSink(t, path, '\t')
	require.Len(t, records, 1)
	assert.Equal(t, []string{"id", "created_at", "text", "score"}, records[0])
}

func TestWriterWritesRowsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	results := NewQueue[*core.ScoredPost](8)

	createdAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	posts := []*core.ScoredPost{
		{Post: &core.Post{Id: 10, CreatedAt: createdAt, Text: "first"}, Score: 0.25},
		{Post: &core.Post{Id: 20, CreatedAt: createdAt, Text: "second, with comma"}, Score: 0.5},
		{Post: &core.Post{Id: 30, Text: "no timestamp"}, Score: 1},
	}
	for _, sp := range posts {
		results.Put(sp)
	}

	w := NewWriter(results, path)
	require.NoError(t, w.Start(context.Background()))
	w.Stop(true)

	require.NoError(t, w.Err())
	assert.Equal(t, 3, w.Rows())

	records := readSink(t, path, '\t')
	require.Len(t, records, 4)

	for i, sp := range posts {
		row := records[i+1]
		assert.Equal(t, strconv.FormatUint(uint64(sp.Post.Id), 10), row[0])
		assert.Equal(t, sp.Post.Text, row[2])

		score, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		assert.Equal(t, sp.Score, score)
	}

	assert.Equal(t, "2025-06-01T12:30:00Z", records[1][1])
	assert.Empty(t, records[3][1], "zero timestamp stays blank")
}

func TestWriterCustomDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	results := NewQueue[*core.ScoredPost](4)
	results.Put(&core.ScoredPost{Post: &core.Post{Id: 1, Text: "hello"}, Score: 0.75})

	w := NewWriter(results, path, WithDelimiter(','))
	require.NoError(t, w.Start(context.Background()))
	w.Stop(true)
	require.NoError(t, w.Err())

	records := readSink(t, path, ',')
	require.Len(t, records, 2)
	assert.Equal(t, "hello", records[1][2])
}

func TestWriterMirrorsIntoArchive(t *testing.T) {
	repo, backend, err := storagebadger.NewMemoryScoreRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	path := filepath.Join(t.TempDir(), "out.tsv")
	results := NewQueue[*core.ScoredPost](4)
	results.Put(&core.ScoredPost{Post: &core.Post{Id: 42, Text: "archived"}, Score: 0.9})

	w := NewWriter(results, path, WithArchive(repo))
	require.NoError(t, w.Start(context.Background()))
	w.Stop(true)
	require.NoError(t, w.Err())

	seen, err := repo.HasScore(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestWriterDrainsAfterOpenFailure(t *testing.T) {
	// A directory path cannot be created as a file.
	path := t.TempDir()
	results := NewQueue[*core.ScoredPost](2)

	w := NewWriter(results, path)
	require.NoError(t, w.Start(context.Background()))

	// The queue holds more than its capacity worth of results only if the
	// failed writer keeps draining.
	for i := 0; i < 10; i++ {
		results.Put(&core.ScoredPost{Post: &core.Post{Id: core.ID(i + 1), Text: "x"}, Score: 0.1})
	}
	w.Stop(true)

	require.Error(t, w.Err())
	assert.Equal(t, 0, w.Rows())
}
