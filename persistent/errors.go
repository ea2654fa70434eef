package persistent

import "github.com/pkg/errors"

// Errors surfaced to clients of the collections. Operations wrap these with
// context, use errors.Is to test for them.
var (
	// ErrIndexOutOfBounds is returned for vector indices outside the valid range.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrEmptyVector is returned when popping from an empty vector.
	ErrEmptyVector = errors.New("can't pop empty vector")

	// ErrTransientSealed is returned for any operation on a transient after
	// Persistent() has been called on it.
	ErrTransientSealed = errors.New("transient used after being made persistent")

	// ErrConcurrentEdit is returned if a transient is used by more than one
	// goroutine at the same time.
	ErrConcurrentEdit = errors.New("transient used concurrently")
)
