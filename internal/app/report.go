package service

import (
	"time"

	"github.com/okian/staffing/internal/domain/allocation"
	"github.com/okian/staffing/internal/domain/pool"
)

// Report summarizes one staffing run.
type Report struct {
	RunID    string        `json:"run_id"`
	Duration time.Duration `json:"duration_ns"`

	Received  int `json:"received"`
	Ranked    int `json:"ranked"`
	Staffed   int `json:"staffed"`
	Partial   int `json:"partial"`
	Unstaffed int `json:"unstaffed"`

	PositionsRequested int `json:"positions_requested"`
	PositionsFilled    int `json:"positions_filled"`

	ContractsDelivered  int64 `json:"contracts_delivered"`
	RecruitingDelivered int64 `json:"recruiting_delivered"`
	DeliveryFailures    int64 `json:"delivery_failures"`

	RemainingCleared   int `json:"remaining_cleared"`
	RemainingUncleared int `json:"remaining_uncleared"`

	Outcomes []OutcomeSummary `json:"outcomes"`
}

// OutcomeSummary is the printable form of one allocation outcome.
type OutcomeSummary struct {
	Prospect  string   `json:"prospect"`
	Federal   bool     `json:"federal"`
	Status    string   `json:"status"`
	Reason    string   `json:"reason,omitempty"`
	Requested int      `json:"requested"`
	Matched   int      `json:"matched"`
	Employees []string `json:"employees,omitempty"`
}

func (r *Report) summarize(outcomes []allocation.Outcome, stats deliveryStats, p *pool.Pool) {
	r.Outcomes = make([]OutcomeSummary, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case o.Partial():
			r.Staffed++
			r.Partial++
		case o.Status == allocation.StatusStaffed:
			r.Staffed++
		default:
			r.Unstaffed++
		}
		r.PositionsRequested += o.Requested
		r.PositionsFilled += o.Matched

		sum := OutcomeSummary{
			Prospect:  o.Prospect.Name(),
			Federal:   o.Prospect.RequiresSecurityClearance(),
			Status:    string(o.Status),
			Reason:    o.Reason,
			Requested: o.Requested,
			Matched:   o.Matched,
		}
		if o.Contract != nil {
			sum.Employees = o.Contract.EmployeeIDs()
		}
		r.Outcomes = append(r.Outcomes, sum)
	}

	r.ContractsDelivered = stats.contractsDelivered
	r.RecruitingDelivered = stats.recruitingDelivered
	r.DeliveryFailures = stats.failed
	r.RemainingCleared = p.Partition(true).Len()
	r.RemainingUncleared = p.Partition(false).Len()
}
