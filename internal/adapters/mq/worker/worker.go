package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/staffing/pkg/logger"
	"github.com/okian/staffing/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Source is where dispatchers read messages from.
type Source[T any] interface {
	Dequeue(ctx context.Context) <-chan T
}

// Deliverer hands one message to a downstream system.
type Deliverer[T any] interface {
	Deliver(ctx context.Context, msg T) error
}

// Dispatcher moves messages from a Source to a Deliverer. Failed deliveries
// are logged and counted but never retried.
type Dispatcher[T any] struct {
	source    Source[T]
	deliverer Deliverer[T]
	gateway   string
	name      string
	logger    logger.Logger

	delivered atomic.Int64
	failed    atomic.Int64
}

// NewDispatcher creates a dispatcher for one gateway. The gateway labels its
// delivery metrics.
func NewDispatcher[T any](source Source[T], deliverer Deliverer[T], gateway string, opts ...Option) *Dispatcher[T] {
	s := settings{name: gateway}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("dispatcher")
	}

	return &Dispatcher[T]{
		source:    source,
		deliverer: deliverer,
		gateway:   gateway,
		name:      s.name,
		logger:    s.logger.With(logger.String("dispatcher", s.name)),
	}
}

// Run delivers messages until the source is drained and closed, returning
// nil, or until ctx is done, returning its error.
func (d *Dispatcher[T]) Run(ctx context.Context) error {
	messages := d.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			d.deliver(ctx, msg)
		}
	}
}

func (d *Dispatcher[T]) deliver(ctx context.Context, msg T) {
	start := time.Now()
	err := d.deliverer.Deliver(ctx, msg)
	if err != nil {
		d.failed.Add(1)
		metrics.RecordDelivery(d.gateway, metrics.DeliveryFailed, time.Since(start))
		d.logger.Error(ctx, "delivery failed", logger.String("gateway", d.gateway), logger.Error(err))
		return
	}
	d.delivered.Add(1)
	metrics.RecordDelivery(d.gateway, metrics.DeliveryOK, time.Since(start))
}

// Delivered returns the number of successful deliveries.
func (d *Dispatcher[T]) Delivered() int64 { return d.delivered.Load() }

// Failed returns the number of failed deliveries.
func (d *Dispatcher[T]) Failed() int64 { return d.failed.Load() }

// Pool runs several dispatchers over one source.
type Pool[T any] struct {
	gateway     string
	dispatchers []*Dispatcher[T]
	logger      logger.Logger
}

// NewPool creates count dispatchers sharing source and deliverer. A count
// below one uses one dispatcher per CPU.
func NewPool[T any](count int, source Source[T], deliverer Deliverer[T], gateway string, opts ...Option) *Pool[T] {
	if count < 1 {
		count = runtime.NumCPU()
	}

	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("dispatcher-pool")
	}

	p := &Pool[T]{
		gateway:     gateway,
		dispatchers: make([]*Dispatcher[T], count),
		logger:      s.logger,
	}
	for i := range p.dispatchers {
		p.dispatchers[i] = NewDispatcher(source, deliverer, gateway,
			WithName(gateway+"-"+strconv.Itoa(i)),
			WithLogger(s.logger),
		)
	}
	return p
}

// Size returns the number of dispatchers.
func (p *Pool[T]) Size() int { return len(p.dispatchers) }

// Run starts every dispatcher and waits for all of them. It returns when
// the source is drained or the first dispatcher stops on ctx.
func (p *Pool[T]) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range p.dispatchers {
		d := d
		g.Go(func() error {
			return d.Run(gctx)
		})
	}
	err := g.Wait()

	p.logger.Info(ctx, "dispatchers finished",
		logger.String("gateway", p.gateway),
		logger.Int("dispatchers", len(p.dispatchers)),
		logger.Any("delivered", p.Delivered()),
		logger.Any("failed", p.Failed()),
	)
	return err
}

// Delivered sums successful deliveries across dispatchers.
func (p *Pool[T]) Delivered() int64 {
	var n int64
	for _, d := range p.dispatchers {
		n += d.Delivered()
	}
	return n
}

// Failed sums failed deliveries across dispatchers.
func (p *Pool[T]) Failed() int64 {
	var n int64
	for _, d := range p.dispatchers {
		n += d.Failed()
	}
	return n
}
