package screening

import (
	"context"
	"sort"

	"github.com/okian/staffing/internal/domain/model"
	"github.com/okian/staffing/pkg/logger"
	"github.com/okian/staffing/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Default screening thresholds.
const (
	DefaultMinContractLength = 6
	DefaultMinPositions      = 3
	DefaultMinAnnualAmount   = 15000
)

// Rejection reasons reported by Evaluate.
const (
	ReasonContractTooShort = "contract_too_short"
	ReasonTeamTooSmall     = "team_too_small"
	ReasonBidBelowFloor    = "bid_below_floor"
)

// Verdict is the outcome of the eligibility rules for one prospect.
type Verdict struct {
	// Reasons lists every failed rule; empty means eligible.
	Reasons []string
}

// Eligible reports whether every rule passed.
func (v Verdict) Eligible() bool { return len(v.Reasons) == 0 }

// Screener filters prospects by eligibility and orders the survivors.
type Screener struct {
	minContractLength int
	minPositions      int
	minAnnualAmount   decimal.Decimal

	logger logger.Logger
}

// NewScreener creates a screener with the default thresholds.
func NewScreener(opts ...Option) *Screener {
	s := &Screener{
		minContractLength: DefaultMinContractLength,
		minPositions:      DefaultMinPositions,
		minAnnualAmount:   decimal.NewFromInt(DefaultMinAnnualAmount),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("screening")
	}

	return s
}

// Evaluate applies the eligibility rules independently and reports all
// that fail.
func (s *Screener) Evaluate(p model.Prospect) Verdict {
	var v Verdict
	if p.ContractLengthInMonths() <= s.minContractLength {
		v.Reasons = append(v.Reasons, ReasonContractTooShort)
	}
	if p.Positions() < s.minPositions {
		v.Reasons = append(v.Reasons, ReasonTeamTooSmall)
	}
	if !p.ExceedsAnnualFloor(s.minAnnualAmount) {
		v.Reasons = append(v.Reasons, ReasonBidBelowFloor)
	}
	return v
}

// Screen drops ineligible prospects and returns the rest ranked by
// contract length desc, relative value desc, then positions asc.
// Prospects equal on all three keys keep their input order.
func (s *Screener) Screen(ctx context.Context, prospects []model.Prospect) []model.Prospect {
	ranked := make([]model.Prospect, 0, len(prospects))
	for _, p := range prospects {
		metrics.RecordProspectReceived()
		v := s.Evaluate(p)
		if !v.Eligible() {
			for _, reason := range v.Reasons {
				metrics.RecordProspectRejected(reason)
			}
			s.logger.Debug(ctx, "prospect rejected",
				logger.String("prospect", p.Name()),
				logger.Any("reasons", v.Reasons),
			)
			continue
		}
		ranked = append(ranked, p)
	}

	Rank(ranked)

	metrics.UpdateProspectsRanked(len(ranked))
	s.logger.Info(ctx, "prospects screened",
		logger.Int("received", len(prospects)),
		logger.Int("ranked", len(ranked)),
	)
	return ranked
}

// Rank sorts prospects in place by the ranking order used by Screen.
func Rank(prospects []model.Prospect) {
	sort.SliceStable(prospects, func(i, j int) bool {
		return Less(prospects[i], prospects[j])
	})
}

// Less reports whether a ranks ahead of b.
func Less(a, b model.Prospect) bool {
	if a.ContractLengthInMonths() != b.ContractLengthInMonths() {
		return a.ContractLengthInMonths() > b.ContractLengthInMonths()
	}
	if c := a.CompareRelativeValue(b); c != 0 {
		return c > 0
	}
	return a.Positions() < b.Positions()
}
