package lexicon

import "errors"

var (
	// ErrInvalidVocabulary indicates the vocabulary file is missing or malformed.
	ErrInvalidVocabulary = errors.New("invalid vocabulary file")

	// ErrInvalidModel indicates the model file is missing or malformed, or
	// references indices the vocabulary cannot produce.
	ErrInvalidModel = errors.New("invalid model file")
)
