package locker

import "errors"

var (
	// ErrEmptyKey indicates TryAcquire was called without a key.
	ErrEmptyKey = errors.New("locker: empty lock key")

	// ErrUnavailable indicates the backing store could not be reached.
	ErrUnavailable = errors.New("locker: backing store unavailable")
)
