package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/staffing/pkg/logger"
)

// LogDeliverer writes each message as a JSON payload to the logger. It
// stands in for a real downstream when none is configured.
type LogDeliverer[T any] struct {
	gateway string
	logger  logger.Logger
}

// NewLogDeliverer creates a deliverer for gateway. A nil logger falls back to
// the global one.
func NewLogDeliverer[T any](gateway string, l logger.Logger) *LogDeliverer[T] {
	if l == nil {
		l = logger.Get().Named("gateway")
	}
	return &LogDeliverer[T]{gateway: gateway, logger: l}
}

// Deliver logs msg.
func (d *LogDeliverer[T]) Deliver(ctx context.Context, msg T) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal %s payload: %w", ErrDeliveryFailed, d.gateway, err)
	}
	d.logger.Info(ctx, "message delivered",
		logger.String("gateway", d.gateway),
		logger.String("payload", string(body)),
	)
	return nil
}
