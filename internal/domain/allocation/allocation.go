package allocation

import (
	"context"
	"fmt"

	"github.com/okian/staffing/internal/domain/contract"
	"github.com/okian/staffing/internal/domain/model"
	"github.com/okian/staffing/internal/domain/pool"
	"github.com/okian/staffing/pkg/logger"
	"github.com/okian/staffing/pkg/metrics"
)

// AccountManager receives every contract the allocator emits.
type AccountManager interface {
	SendContract(ctx context.Context, c model.Contract) error
}

// Recruiter receives every prospect the allocator processes.
type Recruiter interface {
	SendProspect(ctx context.Context, p model.Prospect) error
}

// Status is the staffing result for one prospect.
type Status string

const (
	StatusStaffed   Status = "staffed"
	StatusUnstaffed Status = "unstaffed"
)

// Reasons attached to unstaffed outcomes.
const (
	// The partition was not strictly larger than the requested positions.
	ReasonInsufficientHeadroom = "insufficient_headroom"
	// The partition had headroom but nobody covered the practice areas.
	ReasonNoQualifiedEmployees = "no_qualified_employees"
)

// Outcome records what happened to one ranked prospect.
type Outcome struct {
	Prospect model.Prospect
	Status   Status
	Reason   string
	Contract *model.Contract

	Requested int
	Matched   int
	// Passes is the number of greedy scan passes; zero when no scan ran.
	Passes int
}

// Partial reports a contract staffed below the requested positions.
func (o Outcome) Partial() bool {
	return o.Status == StatusStaffed && o.Matched < o.Requested
}

// Allocator greedily staffs prospects in rank order. Earlier prospects
// claim scarce employees first.
type Allocator struct {
	accounts  AccountManager
	recruiter Recruiter

	logger logger.Logger
}

// NewAllocator wires the allocator to its downstream gateways.
func NewAllocator(accounts AccountManager, recruiter Recruiter, opts ...Option) *Allocator {
	a := &Allocator{
		accounts:  accounts,
		recruiter: recruiter,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logger.Get().Named("allocation")
	}

	return a
}

// Allocate staffs each ranked prospect from p, removing matched employees
// as it goes. Every processed prospect is forwarded to the recruiter,
// staffed or not. Gateway errors are logged and do not stop the run; only
// context cancellation does, between prospects.
func (a *Allocator) Allocate(ctx context.Context, ranked []model.Prospect, p *pool.Pool) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(ranked))
	for _, prospect := range ranked {
		if err := ctx.Err(); err != nil {
			return outcomes, fmt.Errorf("allocation interrupted after %d of %d prospects: %w", len(outcomes), len(ranked), err)
		}
		outcomes = append(outcomes, a.allocateOne(ctx, prospect, p))
	}
	return outcomes, nil
}

func (a *Allocator) allocateOne(ctx context.Context, prospect model.Prospect, p *pool.Pool) Outcome {
	clearance := prospect.RequiresSecurityClearance()
	part := p.Partition(clearance)
	out := Outcome{
		Prospect:  prospect,
		Status:    StatusUnstaffed,
		Requested: prospect.Positions(),
	}

	// Exact-size partitions are left alone on purpose.
	if part.Len() > prospect.Positions() {
		matched, passes := Match(prospect, part.Employees())
		out.Matched = len(matched)
		out.Passes = passes
		metrics.RecordAllocationPasses(passes)

		if len(matched) > 0 {
			c, err := contract.Build(prospect, matched)
			if err != nil {
				// The employees stay in the pool; the prospect stays unstaffed.
				a.logger.Error(ctx, "contract assembly failed", logger.String("prospect", prospect.Name()), logger.Error(err))
			} else {
				p.Remove(clearance, c.Employees)
				out.Status = StatusStaffed
				out.Contract = &c
				a.sendContract(ctx, c)
				metrics.RecordContractEmitted(out.Requested, out.Matched)
			}
		} else {
			out.Reason = ReasonNoQualifiedEmployees
		}
	} else {
		out.Reason = ReasonInsufficientHeadroom
	}

	metrics.RecordPositions(out.Requested, out.Matched)
	if out.Status == StatusUnstaffed {
		metrics.RecordProspectUnstaffed(out.Reason)
	}

	a.logger.Info(ctx, "prospect allocated",
		logger.String("prospect", prospect.Name()),
		logger.String("status", string(out.Status)),
		logger.String("reason", out.Reason),
		logger.Bool("federal", clearance),
		logger.Int("requested", out.Requested),
		logger.Int("matched", out.Matched),
		logger.Int("remaining", part.Len()),
	)

	a.sendProspect(ctx, prospect)
	return out
}

func (a *Allocator) sendContract(ctx context.Context, c model.Contract) {
	if err := a.accounts.SendContract(ctx, c); err != nil {
		metrics.RecordGatewayError(metrics.GatewayAccountManager)
		a.logger.Warn(ctx, "account manager hand-off failed",
			logger.String("contract", c.Name),
			logger.Error(err),
		)
	}
}

func (a *Allocator) sendProspect(ctx context.Context, p model.Prospect) {
	metrics.RecordRecruitingHandoff()
	if err := a.recruiter.SendProspect(ctx, p); err != nil {
		metrics.RecordGatewayError(metrics.GatewayRecruiting)
		a.logger.Warn(ctx, "recruiting hand-off failed",
			logger.String("prospect", p.Name()),
			logger.Error(err),
		)
	}
}

// Match scans candidates in order for employees covering the prospect's
// practice areas until its positions are filled. A pass that adds nobody
// ends the scan, so too few qualified candidates yields a partial match
// rather than an endless loop. It returns the matched employees and the
// number of passes made.
func Match(prospect model.Prospect, candidates []model.Employee) ([]model.Employee, int) {
	need := prospect.Positions()
	matched := make([]model.Employee, 0, need)
	taken := make(map[string]struct{}, need)

	passes := 0
	for need > 0 {
		passes++
		found := 0
		for _, e := range candidates {
			if need == 0 {
				break
			}
			if _, ok := taken[e.ID]; ok {
				continue
			}
			if !e.Qualifies(prospect) {
				continue
			}
			taken[e.ID] = struct{}{}
			matched = append(matched, e)
			need--
			found++
		}
		if found == 0 {
			break
		}
	}
	return matched, passes
}
