package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for posts flowing through the pipeline.
// It is taken from the upstream feed or derived from content hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// It is used for posts whose upstream record carries no identifier, so that
// identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Post is a single unit of work: one text record from the upstream feed.
// A Post is immutable once constructed and is consumed by exactly one
// scoring worker.
type Post struct {
	Id        ID
	CreatedAt time.Time // When the post was originally published
	Text      string
}

// ScoredPost pairs a post with its sentiment score.
// Scores are in [0,1]: 0 is maximally negative, 1 maximally positive.
type ScoredPost struct {
	Post  *Post
	Score float64
}
