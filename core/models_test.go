package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("hello world")
		id2 := IDFromContent("hello world")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content produces different IDs", func(t *testing.T) {
		id1 := IDFromContent("hello world")
		id2 := IDFromContent("goodbye world")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		id := IDFromContent("")
		assert.NotZero(t, id)
	})
}

func TestValidatePost(t *testing.T) {
	valid := &Post{
		Id:        42,
		CreatedAt: time.Now().Add(-time.Hour),
		Text:      "the weather is lovely today",
	}
	require.NoError(t, ValidatePost(valid))

	t.Run("nil post", func(t *testing.T) {
		err := ValidatePost(nil)
		assert.ErrorIs(t, err, ErrInvalidPost)
	})

	t.Run("empty text", func(t *testing.T) {
		post := *valid
		post.Text = ""
		err := ValidatePost(&post)
		assert.ErrorIs(t, err, ErrInvalidPost)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("future timestamp", func(t *testing.T) {
		post := *valid
		post.CreatedAt = time.Now().Add(time.Hour)
		err := ValidatePost(&post)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})

	t.Run("zero ID is allowed", func(t *testing.T) {
		post := *valid
		post.Id = 0
		assert.NoError(t, ValidatePost(&post))
	})
}

func TestValidateScore(t *testing.T) {
	assert.NoError(t, ValidateScore(0))
	assert.NoError(t, ValidateScore(0.5))
	assert.NoError(t, ValidateScore(1))
	assert.ErrorIs(t, ValidateScore(-0.01), ErrInvalidScore)
	assert.ErrorIs(t, ValidateScore(1.01), ErrInvalidScore)
}
