// Package pool owns the employee inventory of one staffing run, split into
// cleared and uncleared partitions.
package pool

import (
	"fmt"
	"sync"

	"github.com/okian/staffing/internal/domain/model"
	"github.com/okian/staffing/pkg/metrics"
)

// Partition is the set of employees sharing one clearance flag. Iteration
// follows snapshot order so greedy scans are deterministic. A partition
// only shrinks.
type Partition struct {
	mu      sync.RWMutex
	name    string
	order   []string
	members map[string]model.Employee
}

func newPartition(name string, capacity int) *Partition {
	return &Partition{
		name:    name,
		order:   make([]string, 0, capacity),
		members: make(map[string]model.Employee, capacity),
	}
}

// Name is "cleared" or "uncleared".
func (p *Partition) Name() string { return p.name }

// Len returns the number of employees still available.
func (p *Partition) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members)
}

// Contains reports whether id is still available.
func (p *Partition) Contains(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.members[id]
	return ok
}

// Employees returns the available employees in snapshot order.
func (p *Partition) Employees() []model.Employee {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Employee, 0, len(p.members))
	for _, id := range p.order {
		if e, ok := p.members[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (p *Partition) add(e model.Employee) {
	p.order = append(p.order, e.ID)
	p.members[e.ID] = e
}

// remove deletes the given employees and returns how many were present.
// Absent employees are ignored, so removal is idempotent per employee.
func (p *Partition) remove(employees []model.Employee) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for _, e := range employees {
		if _, ok := p.members[e.ID]; !ok {
			continue
		}
		delete(p.members, e.ID)
		removed++
	}

	// Compact once half the order slice is stale.
	if removed > 0 && len(p.order) > 2*len(p.members) {
		compacted := make([]string, 0, len(p.members))
		for _, id := range p.order {
			if _, ok := p.members[id]; ok {
				compacted = append(compacted, id)
			}
		}
		p.order = compacted
	}
	return removed
}

// Pool is the working set of employees for one run.
type Pool struct {
	cleared   *Partition
	uncleared *Partition
}

// New builds a pool from two pre-partitioned snapshots. An employee ID may
// appear only once across both, and each employee's clearance flag must
// match the partition it was delivered in.
func New(cleared, uncleared []model.Employee) (*Pool, error) {
	p := &Pool{
		cleared:   newPartition(metrics.PartitionCleared, len(cleared)),
		uncleared: newPartition(metrics.PartitionUncleared, len(uncleared)),
	}

	seen := make(map[string]string, len(cleared)+len(uncleared))
	load := func(part *Partition, employees []model.Employee, clearance bool) error {
		for _, e := range employees {
			if e.SecurityClearance != clearance {
				return fmt.Errorf("%w: %s (%s) delivered as %s", ErrPartitionMismatch, e.ID, e.Name, part.name)
			}
			if where, dup := seen[e.ID]; dup {
				return fmt.Errorf("%w: %s (%s) already in %s", ErrDuplicateEmployee, e.ID, e.Name, where)
			}
			seen[e.ID] = part.name
			part.add(e)
		}
		return nil
	}

	if err := load(p.cleared, cleared, true); err != nil {
		return nil, err
	}
	if err := load(p.uncleared, uncleared, false); err != nil {
		return nil, err
	}

	p.publish()
	return p, nil
}

// Partition returns the cleared partition when requiresClearance is true,
// otherwise the uncleared one.
func (p *Pool) Partition(requiresClearance bool) *Partition {
	if requiresClearance {
		return p.cleared
	}
	return p.uncleared
}

// Remove takes employees out of the matching partition and returns how
// many were actually removed.
func (p *Pool) Remove(requiresClearance bool, employees []model.Employee) int {
	part := p.Partition(requiresClearance)
	n := part.remove(employees)
	metrics.UpdatePoolAvailable(part.name, part.Len())
	return n
}

// Len returns the total number of available employees.
func (p *Pool) Len() int {
	return p.cleared.Len() + p.uncleared.Len()
}

func (p *Pool) publish() {
	metrics.UpdatePoolAvailable(p.cleared.name, p.cleared.Len())
	metrics.UpdatePoolAvailable(p.uncleared.name, p.uncleared.Len())
}
