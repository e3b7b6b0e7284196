package queue

type options struct {
	capacity int
	block    bool
}

// Option applies a configuration option to an InMemoryQueue.
type Option func(*options)

// WithCapacity sets the maximum number of pending messages.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

// WithBackpressure makes Enqueue wait for room instead of failing with
// ErrFull. The wait ends early when the caller's context is done.
func WithBackpressure() Option {
	return func(o *options) {
		o.block = true
	}
}
