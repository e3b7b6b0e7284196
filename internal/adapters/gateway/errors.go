package gateway

import "errors"

var (
	// ErrDeliveryFailed wraps any downstream send failure.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrProducerNotInitialized is returned by a Kafka deliverer without a producer.
	ErrProducerNotInitialized = errors.New("kafka producer is not initialized")
)
