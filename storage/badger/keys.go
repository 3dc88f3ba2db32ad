package badger

import (
	"encoding/binary"

	"github.com/poiesic/sentipipe/core"
)

// Key prefix for archived scores
const scorePrefix = "score:"

// makeScoreKey generates a key for an archived score by post ID.
// The ID is written in BigEndian order so lexicographic iteration yields
// ascending post IDs.
func makeScoreKey(id core.ID) []byte {
	prefixBytes := []byte(scorePrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
