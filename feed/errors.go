package feed

import "errors"

var (
	// ErrNoStatusText indicates that none of the known text locations in a
	// raw status record contained text. This is an internal-consistency
	// error, not expected in normal operation.
	ErrNoStatusText = errors.New("cannot determine text from status")

	// ErrInvalidStatus indicates a raw status record that could not be decoded.
	ErrInvalidStatus = errors.New("invalid status record")
)
