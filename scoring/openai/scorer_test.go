package openai

import (
	"testing"

	"github.com/poiesic/sentipipe/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScores(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		scores, err := parseScores(`{"scores": [0.1, 0.9, 0.5]}`, 3)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.1, 0.9, 0.5}, scores)
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		scores, err := parseScores("```json\n{\"scores\": [0.25]}\n```", 1)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.25}, scores)
	})

	t.Run("count mismatch", func(t *testing.T) {
		_, err := parseScores(`{"scores": [0.1, 0.9]}`, 3)
		assert.ErrorIs(t, err, scoring.ErrScoreCountMismatch)
	})

	t.Run("out-of-range scores are clamped", func(t *testing.T) {
		scores, err := parseScores(`{"scores": [-0.2, 1.4]}`, 2)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 1}, scores)
	})

	t.Run("garbage reply", func(t *testing.T) {
		_, err := parseScores("the sentiment is positive overall", 1)
		assert.Error(t, err)
	})
}
