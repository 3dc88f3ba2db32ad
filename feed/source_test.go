package feed

import (
	"context"
	"io"
	"testing"

	"github.com/poiesic/sentipipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPosts(texts ...string) []*core.Post {
	posts := make([]*core.Post, len(texts))
	for i, text := range texts {
		posts[i] = &core.Post{Id: core.ID(i + 1), Text: text}
	}
	return posts
}

func drain(t *testing.T, source Source) []*core.Post {
	t.Helper()
	var out []*core.Post
	for {
		post, err := source.Next(context.Background())
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, post)
	}
}

func TestSliceSource(t *testing.T) {
	source := NewSliceSource(testPosts("a", "b", "c")...)
	posts := drain(t, source)
	require.Len(t, posts, 3)
	assert.Equal(t, "a", posts[0].Text)

	// Exhausted sources stay exhausted.
	_, err := source.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestSliceSourceHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewSliceSource(testPosts("a")...)
	_, err := source.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilter(t *testing.T) {
	source := Filter(
		NewSliceSource(testPosts("keep one", "drop", "keep two")...),
		func(p *core.Post) bool { return len(p.Text) > 4 },
	)
	posts := drain(t, source)
	require.Len(t, posts, 2)
	assert.Equal(t, "keep one", posts[0].Text)
	assert.Equal(t, "keep two", posts[1].Text)
}

func TestLimit(t *testing.T) {
	t.Run("bounds the feed", func(t *testing.T) {
		posts := drain(t, Limit(NewSliceSource(testPosts("a", "b", "c")...), 2))
		assert.Len(t, posts, 2)
	})

	t.Run("non-positive limit is unbounded", func(t *testing.T) {
		posts := drain(t, Limit(NewSliceSource(testPosts("a", "b")...), 0))
		assert.Len(t, posts, 2)
	})
}

func TestMatchesAny(t *testing.T) {
	keep := MatchesAny([]string{"Go", "rust"})
	assert.True(t, keep(&core.Post{Text: "learning GO today"}))
	assert.True(t, keep(&core.Post{Text: "Rust is neat"}))
	assert.False(t, keep(&core.Post{Text: "python only"}))

	everything := MatchesAny(nil)
	assert.True(t, everything(&core.Post{Text: "anything"}))
}
