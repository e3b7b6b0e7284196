// Package screening filters raw prospects and ranks the viable ones.
package screening

import (
	"github.com/okian/staffing/pkg/logger"
	"github.com/shopspring/decimal"
)

// Option applies a configuration option to the Screener.
type Option func(*Screener)

// WithMinContractLength sets the exclusive lower bound on contract months.
func WithMinContractLength(months int) Option {
	return func(s *Screener) {
		if months >= 0 {
			s.minContractLength = months
		}
	}
}

// WithMinPositions sets the inclusive lower bound on team size.
func WithMinPositions(positions int) Option {
	return func(s *Screener) {
		if positions > 0 {
			s.minPositions = positions
		}
	}
}

// WithMinAnnualAmountPerRole sets the floor the annualized value per
// position must strictly exceed.
func WithMinAnnualAmountPerRole(amount decimal.Decimal) Option {
	return func(s *Screener) {
		if !amount.IsNegative() {
			s.minAnnualAmount = amount
		}
	}
}

// WithLogger sets a custom logger for the screener.
func WithLogger(l logger.Logger) Option {
	return func(s *Screener) {
		if l != nil {
			s.logger = l
		}
	}
}
