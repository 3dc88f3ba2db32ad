package storage

import (
	"testing"
	"time"

	"github.com/poiesic/sentipipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoredPostRoundTrip(t *testing.T) {
	original := &core.ScoredPost{
		Post: &core.Post{
			Id:        9817236123,
			CreatedAt: time.Date(2018, 10, 10, 20, 19, 24, 0, time.UTC),
			Text:      "mixed feelings about this launch :| #spacex",
		},
		Score: 0.4375,
	}

	data := MarshalScoredPost(original)
	restored, err := UnmarshalScoredPost(data)
	require.NoError(t, err)

	assert.Equal(t, original.Post.Id, restored.Post.Id)
	assert.True(t, original.Post.CreatedAt.Equal(restored.Post.CreatedAt))
	assert.Equal(t, original.Post.Text, restored.Post.Text)
	assert.Equal(t, original.Score, restored.Score)
}

func TestUnmarshalScoredPostTruncated(t *testing.T) {
	data := MarshalScoredPost(&core.ScoredPost{
		Post:  &core.Post{Id: 1, Text: "short"},
		Score: 0.5,
	})

	_, err := UnmarshalScoredPost(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
