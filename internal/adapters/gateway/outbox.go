// Package gateway adapts the allocator's downstream hand-offs to outboxes
// and delivers outbox messages to logs or Kafka.
package gateway

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/okian/staffing/internal/adapters/mq/queue"
	"github.com/okian/staffing/internal/domain/model"
)

// Outbox names, also used as metric labels.
const (
	OutboxContracts  = "contracts"
	OutboxRecruiting = "recruiting"
)

// AccountManagerOutbox queues emitted contracts for the account manager.
type AccountManagerOutbox struct {
	q        queue.Queue[model.Contract]
	rejected atomic.Int64
}

// NewAccountManagerOutbox wraps q.
func NewAccountManagerOutbox(q queue.Queue[model.Contract]) *AccountManagerOutbox {
	return &AccountManagerOutbox{q: q}
}

// SendContract enqueues c. A full or closed outbox is reported as an error.
func (o *AccountManagerOutbox) SendContract(ctx context.Context, c model.Contract) error {
	if err := o.q.Enqueue(ctx, c); err != nil {
		o.rejected.Add(1)
		return fmt.Errorf("queue contract %q: %w", c.Name, err)
	}
	return nil
}

// Rejected returns the contracts the outbox refused.
func (o *AccountManagerOutbox) Rejected() int64 { return o.rejected.Load() }

// RecruitingOutbox queues processed prospects for recruiting.
type RecruitingOutbox struct {
	q        queue.Queue[model.Prospect]
	rejected atomic.Int64
}

// NewRecruitingOutbox wraps q.
func NewRecruitingOutbox(q queue.Queue[model.Prospect]) *RecruitingOutbox {
	return &RecruitingOutbox{q: q}
}

// SendProspect enqueues p.
func (o *RecruitingOutbox) SendProspect(ctx context.Context, p model.Prospect) error {
	if err := o.q.Enqueue(ctx, p); err != nil {
		o.rejected.Add(1)
		return fmt.Errorf("queue prospect %q: %w", p.Name(), err)
	}
	return nil
}

// Rejected returns the prospects the outbox refused.
func (o *RecruitingOutbox) Rejected() int64 { return o.rejected.Load() }
