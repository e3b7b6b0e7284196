// Package allocation staffs ranked prospects from the employee pool.
package allocation

import (
	"github.com/okian/staffing/pkg/logger"
)

// Option applies a configuration option to the Allocator.
type Option func(*Allocator)

// WithLogger sets a custom logger for the allocator.
func WithLogger(l logger.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.logger = l
		}
	}
}
