package feed

import (
	"testing"
	"time"

	"github.com/poiesic/sentipipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFromStatus(t *testing.T) {
	t.Run("full_text wins", func(t *testing.T) {
		post, err := PostFromStatus(&Status{
			Id:            7,
			FullText:      "the long form",
			Text:          "the long…",
			ExtendedTweet: &extend{FullText: "extended"},
		})
		require.NoError(t, err)
		assert.Equal(t, "the long form", post.Text)
		assert.Equal(t, core.ID(7), post.Id)
	})

	t.Run("extended_tweet is second", func(t *testing.T) {
		post, err := PostFromStatus(&Status{
			Id:            7,
			Text:          "truncated…",
			ExtendedTweet: &extend{FullText: "the whole thing"},
		})
		require.NoError(t, err)
		assert.Equal(t, "the whole thing", post.Text)
	})

	t.Run("text is last", func(t *testing.T) {
		post, err := PostFromStatus(&Status{Id: 7, Text: "short"})
		require.NoError(t, err)
		assert.Equal(t, "short", post.Text)
	})

	t.Run("no text anywhere", func(t *testing.T) {
		_, err := PostFromStatus(&Status{Id: 7})
		assert.ErrorIs(t, err, ErrNoStatusText)
	})

	t.Run("repost unwraps to the reposted payload", func(t *testing.T) {
		post, err := PostFromStatus(&Status{
			Id:   1,
			Text: "RT @orig: something",
			RetweetedStatus: &Status{
				Id:       2,
				FullText: "the original post",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, core.ID(2), post.Id)
		assert.Equal(t, "the original post", post.Text)
	})

	t.Run("missing id derives from content", func(t *testing.T) {
		post, err := PostFromStatus(&Status{Text: "anonymous"})
		require.NoError(t, err)
		assert.Equal(t, core.IDFromContent("anonymous"), post.Id)
	})

	t.Run("nil status", func(t *testing.T) {
		_, err := PostFromStatus(nil)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestParseCreatedAt(t *testing.T) {
	t.Run("feed layout", func(t *testing.T) {
		ts := parseCreatedAt("Wed Oct 10 20:19:24 +0000 2018")
		assert.Equal(t, 2018, ts.Year())
		assert.Equal(t, time.October, ts.Month())
	})

	t.Run("rfc3339 fallback", func(t *testing.T) {
		ts := parseCreatedAt("2018-10-10T20:19:24Z")
		assert.Equal(t, 2018, ts.Year())
	})

	t.Run("unparseable is zero", func(t *testing.T) {
		assert.True(t, parseCreatedAt("last tuesday").IsZero())
	})
}

func TestDecodeStatus(t *testing.T) {
	status, err := DecodeStatus([]byte(`{"id": 3, "text": "hi", "lang": "en"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.Id)
	assert.Equal(t, "en", status.Lang)

	_, err = DecodeStatus([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
