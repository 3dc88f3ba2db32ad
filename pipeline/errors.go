package pipeline

import "errors"

var (
	// ErrFactoryRequired is returned when a scorer factory is not provided.
	ErrFactoryRequired = errors.New("scorer factory required")

	// ErrOutputRequired is returned when an output path is not provided.
	ErrOutputRequired = errors.New("output path required")

	// ErrAlreadyStarted indicates Start was called more than once.
	ErrAlreadyStarted = errors.New("already started")

	// ErrWorkersExited indicates every scoring worker exited before the
	// input sequence was drained, so remaining input cannot be consumed.
	ErrWorkersExited = errors.New("all scoring workers exited before input was drained")
)
