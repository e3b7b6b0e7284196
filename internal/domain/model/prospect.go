// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

// ProspectParams carries the raw fields of a prospect before validation.
type ProspectParams struct {
	Name                      string
	ContractLengthInMonths    int
	Positions                 int
	BidAmount                 decimal.Decimal
	PracticeAreas             []string
	RequiresSecurityClearance bool
}

// Prospect is a contract request waiting to be screened and staffed.
// It is immutable once built by NewProspect.
type Prospect struct {
	name                      string
	contractLengthInMonths    int
	positions                 int
	bidAmount                 decimal.Decimal
	practiceAreas             PracticeAreas
	requiresSecurityClearance bool

	// bid / (months * positions), fixed at construction
	relativeValue decimal.Decimal
}

// NewProspect validates p and derives the relative value per month per
// position. Non-positive length or positions and negative bids fail with
// ErrInvalidProspect.
func NewProspect(p ProspectParams) (Prospect, error) {
	if p.ContractLengthInMonths <= 0 {
		return Prospect{}, fmt.Errorf("%w: %q: contract length must be positive, got %d", ErrInvalidProspect, p.Name, p.ContractLengthInMonths)
	}
	if p.Positions <= 0 {
		return Prospect{}, fmt.Errorf("%w: %q: positions must be positive, got %d", ErrInvalidProspect, p.Name, p.Positions)
	}
	if p.BidAmount.IsNegative() {
		return Prospect{}, fmt.Errorf("%w: %q: bid amount must not be negative, got %s", ErrInvalidProspect, p.Name, p.BidAmount)
	}

	months := decimal.NewFromInt(int64(p.ContractLengthInMonths))
	positions := decimal.NewFromInt(int64(p.Positions))

	return Prospect{
		name:                      p.Name,
		contractLengthInMonths:    p.ContractLengthInMonths,
		positions:                 p.Positions,
		bidAmount:                 p.BidAmount,
		practiceAreas:             NewPracticeAreas(p.PracticeAreas...),
		requiresSecurityClearance: p.RequiresSecurityClearance,
		relativeValue:             p.BidAmount.Div(months).Div(positions),
	}, nil
}

// MustProspect is NewProspect for fixtures; it panics on invalid input.
func MustProspect(p ProspectParams) Prospect {
	prospect, err := NewProspect(p)
	if err != nil {
		panic(err)
	}
	return prospect
}

// Name returns the prospect's unique name.
func (p Prospect) Name() string { return p.name }

// ContractLengthInMonths returns the contract duration.
func (p Prospect) ContractLengthInMonths() int { return p.contractLengthInMonths }

// Positions returns the number of roles requested.
func (p Prospect) Positions() int { return p.positions }

// BidAmount returns the total value bid for the whole contract.
func (p Prospect) BidAmount() decimal.Decimal { return p.bidAmount }

// RequiresSecurityClearance reports whether only cleared employees may staff
// the contract.
func (p Prospect) RequiresSecurityClearance() bool { return p.requiresSecurityClearance }

// PracticeAreas returns a copy of the required capability tags.
func (p Prospect) PracticeAreas() PracticeAreas { return p.practiceAreas.Clone() }

// RequiredBy reports whether employee areas cover this prospect's requirement.
func (p Prospect) RequiredBy(areas PracticeAreas) bool { return areas.Covers(p.practiceAreas) }

// RelativeValuePerMonthPerPosition is bid / (months * positions).
func (p Prospect) RelativeValuePerMonthPerPosition() decimal.Decimal { return p.relativeValue }

// AnnualizedValuePerPosition is the relative value scaled to twelve months.
func (p Prospect) AnnualizedValuePerPosition() decimal.Decimal {
	return p.relativeValue.Mul(decimal.NewFromInt(monthsPerYear))
}

// ExceedsAnnualFloor reports whether the annualized value per position is
// strictly greater than floor. The comparison is made on
// bid*12 > floor*months*positions so no division rounding is involved.
func (p Prospect) ExceedsAnnualFloor(floor decimal.Decimal) bool {
	lhs := p.bidAmount.Mul(decimal.NewFromInt(monthsPerYear))
	rhs := floor.Mul(decimal.NewFromInt(int64(p.contractLengthInMonths) * int64(p.positions)))
	return lhs.GreaterThan(rhs)
}

// CompareRelativeValue returns -1, 0 or +1 as p's relative value is less
// than, equal to or greater than o's, compared exactly.
func (p Prospect) CompareRelativeValue(o Prospect) int {
	lhs := p.bidAmount.Mul(decimal.NewFromInt(int64(o.contractLengthInMonths) * int64(o.positions)))
	rhs := o.bidAmount.Mul(decimal.NewFromInt(int64(p.contractLengthInMonths) * int64(p.positions)))
	return lhs.Cmp(rhs)
}

func (p Prospect) String() string {
	return fmt.Sprintf("%s(%dmo x %d @ %s)", p.name, p.contractLengthInMonths, p.positions, p.bidAmount)
}

type prospectJSON struct {
	Name                             string          `json:"name"`
	ContractLengthInMonths           int             `json:"contract_length_in_months"`
	Positions                        int             `json:"positions"`
	BidAmount                        decimal.Decimal `json:"bid_amount"`
	PracticeAreas                    PracticeAreas   `json:"practice_areas"`
	RequiresSecurityClearance        bool            `json:"requires_security_clearance"`
	RelativeValuePerMonthPerPosition decimal.Decimal `json:"relative_value_per_month_per_position"`
}

// MarshalJSON exposes the prospect, including its derived value.
func (p Prospect) MarshalJSON() ([]byte, error) {
	return json.Marshal(prospectJSON{
		Name:                             p.name,
		ContractLengthInMonths:           p.contractLengthInMonths,
		Positions:                        p.positions,
		BidAmount:                        p.bidAmount,
		PracticeAreas:                    p.practiceAreas,
		RequiresSecurityClearance:        p.requiresSecurityClearance,
		RelativeValuePerMonthPerPosition: p.relativeValue,
	})
}
