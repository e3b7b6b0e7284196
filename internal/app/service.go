// Package service composes screening, the employee pool, allocation and
// the delivery outboxes into one staffing batch run.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/okian/staffing/internal/adapters/gateway"
	"github.com/okian/staffing/internal/adapters/mq/queue"
	"github.com/okian/staffing/internal/adapters/mq/worker"
	"github.com/okian/staffing/internal/domain/allocation"
	"github.com/okian/staffing/internal/domain/model"
	"github.com/okian/staffing/internal/domain/pool"
	"github.com/okian/staffing/internal/domain/screening"
	"github.com/okian/staffing/pkg/logger"
	"github.com/okian/staffing/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const defaultOutboxSize = 1024

// ProspectSource returns the prospects of one batch.
type ProspectSource interface {
	Prospects(ctx context.Context) ([]model.Prospect, error)
}

// EmployeeSource returns the employees of one batch, pre-partitioned by
// clearance.
type EmployeeSource interface {
	Employees(ctx context.Context) (cleared, uncleared []model.Employee, err error)
}

// Service runs staffing batches.
type Service struct {
	prospects ProspectSource
	employees EmployeeSource

	screener *screening.Screener

	outboxSize      int
	dispatcherCount int
	contracts       worker.Deliverer[model.Contract]
	recruiting      worker.Deliverer[model.Prospect]

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithScreener replaces the default screener.
func WithScreener(s *screening.Screener) Option {
	return func(svc *Service) {
		if s != nil {
			svc.screener = s
		}
	}
}

// WithOutboxSize bounds each delivery outbox.
func WithOutboxSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.outboxSize = size
		}
	}
}

// WithDispatcherCount sets the dispatchers draining each outbox.
func WithDispatcherCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.dispatcherCount = count
		}
	}
}

// WithContractDeliverer sets where emitted contracts end up.
func WithContractDeliverer(d worker.Deliverer[model.Contract]) Option {
	return func(s *Service) {
		if d != nil {
			s.contracts = d
		}
	}
}

// WithRecruitingDeliverer sets where processed prospects end up.
func WithRecruitingDeliverer(d worker.Deliverer[model.Prospect]) Option {
	return func(s *Service) {
		if d != nil {
			s.recruiting = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service reading its batch from the given sources.
// Without deliverers, contracts and prospects are written to the log.
func New(prospects ProspectSource, employees EmployeeSource, opts ...Option) *Service {
	s := &Service{
		prospects:       prospects,
		employees:       employees,
		outboxSize:      defaultOutboxSize,
		dispatcherCount: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.screener == nil {
		s.screener = screening.NewScreener()
	}
	if s.contracts == nil {
		s.contracts = gateway.NewLogDeliverer[model.Contract](metrics.GatewayAccountManager, s.logger)
	}
	if s.recruiting == nil {
		s.recruiting = gateway.NewLogDeliverer[model.Prospect](metrics.GatewayRecruiting, s.logger)
	}
	return s
}

// ScreenAndRank filters prospects by the screening rules and returns them
// in priority order.
func (s *Service) ScreenAndRank(ctx context.Context, prospects []model.Prospect) []model.Prospect {
	return s.screener.Screen(ctx, prospects)
}

// Allocate staffs ranked prospects from p and delivers the results. It
// returns once both outboxes are drained.
func (s *Service) Allocate(ctx context.Context, ranked []model.Prospect, p *pool.Pool) ([]allocation.Outcome, error) {
	outcomes, _, err := s.allocate(ctx, ranked, p, s.logger)
	return outcomes, err
}

type deliveryStats struct {
	contractsDelivered  int64
	recruitingDelivered int64
	failed              int64
}

func (s *Service) allocate(ctx context.Context, ranked []model.Prospect, p *pool.Pool, log logger.Logger) ([]allocation.Outcome, deliveryStats, error) {
	// Allocation outpaces any real downstream, so the outboxes push back
	// rather than drop hand-offs.
	contractBox := queue.NewInMemoryQueue[model.Contract](gateway.OutboxContracts, queue.WithCapacity(s.outboxSize), queue.WithBackpressure())
	recruitingBox := queue.NewInMemoryQueue[model.Prospect](gateway.OutboxRecruiting, queue.WithCapacity(s.outboxSize), queue.WithBackpressure())

	contractPool := worker.NewPool[model.Contract](s.dispatcherCount, contractBox, s.contracts, metrics.GatewayAccountManager, worker.WithLogger(log))
	recruitingPool := worker.NewPool[model.Prospect](s.dispatcherCount, recruitingBox, s.recruiting, metrics.GatewayRecruiting, worker.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return contractPool.Run(gctx) })
	g.Go(func() error { return recruitingPool.Run(gctx) })

	accounts := gateway.NewAccountManagerOutbox(contractBox)
	recruiter := gateway.NewRecruitingOutbox(recruitingBox)
	allocator := allocation.NewAllocator(accounts, recruiter, allocation.WithLogger(log.Named("allocation")))
	// gctx also ends if the dispatchers give up, releasing a blocked enqueue.
	outcomes, allocErr := allocator.Allocate(gctx, ranked, p)

	_ = contractBox.Close()
	_ = recruitingBox.Close()
	drainErr := g.Wait()
	rejected := accounts.Rejected() + recruiter.Rejected()

	stats := deliveryStats{
		contractsDelivered:  contractPool.Delivered(),
		recruitingDelivered: recruitingPool.Delivered(),
		failed:              contractPool.Failed() + recruitingPool.Failed() + rejected,
	}

	if allocErr != nil {
		return outcomes, stats, allocErr
	}
	if drainErr != nil {
		return outcomes, stats, fmt.Errorf("drain outboxes: %w", drainErr)
	}
	return outcomes, stats, nil
}

// Run executes one batch: load the snapshot, screen and rank, build the
// pool, allocate and deliver.
func (s *Service) Run(ctx context.Context) (report Report, err error) {
	start := time.Now()
	report.RunID = uuid.NewString()
	log := s.logger.With(logger.String("run_id", report.RunID))
	defer func() {
		report.Duration = time.Since(start)
		metrics.RecordRun(report.Duration, err)
		if err != nil {
			log.Error(ctx, "staffing run failed", logger.Error(err))
		}
	}()

	prospects, err := s.prospects.Prospects(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: prospects: %w", ErrSource, err)
	}
	cleared, uncleared, err := s.employees.Employees(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: employees: %w", ErrSource, err)
	}
	report.Received = len(prospects)

	ranked := s.ScreenAndRank(ctx, prospects)
	report.Ranked = len(ranked)

	p, err := pool.New(cleared, uncleared)
	if err != nil {
		return report, fmt.Errorf("build pool: %w", err)
	}
	log.Info(ctx, "staffing run started",
		logger.Int("prospects", len(prospects)),
		logger.Int("ranked", len(ranked)),
		logger.Int("cleared", len(cleared)),
		logger.Int("uncleared", len(uncleared)),
	)

	outcomes, stats, err := s.allocate(ctx, ranked, p, log)
	report.summarize(outcomes, stats, p)
	if err != nil {
		return report, err
	}

	log.Info(ctx, "staffing run finished",
		logger.Int("staffed", report.Staffed),
		logger.Int("partial", report.Partial),
		logger.Int("unstaffed", report.Unstaffed),
		logger.Int("remaining_cleared", report.RemainingCleared),
		logger.Int("remaining_uncleared", report.RemainingUncleared),
	)
	return report, nil
}
