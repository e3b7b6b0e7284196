package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrClosed = errors.New("outbox closed")
	ErrFull   = errors.New("outbox full")
)
