package projection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"saddleview/internal/pkg/clock"
	"saddleview/internal/pkg/errs"
)

var ErrUnknownProjection = errors.New("unknown projection")

// Outcome of a refresh trigger.
type Outcome string

const (
	// OutcomeStarted means this call performed the rebuild.
	OutcomeStarted Outcome = "started"
	// OutcomeCoalesced means an in-flight rebuild already satisfies the request.
	OutcomeCoalesced Outcome = "coalesced"
)

// Status of one projection as the read path sees it.
type Status struct {
	Built       bool
	RefreshedAt time.Time
}

// Coordinator owns the refresh contract: at most one rebuild per projection
// in flight, concurrent triggers coalesced, a failed rebuild clears its
// ticket and leaves the last-good projection serving.
type Coordinator struct {
	builder Builder
	lock    AdvisoryLock
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.Mutex
	inflight map[string]bool
	status   map[string]Status
}

func NewCoordinator(builder Builder, lock AdvisoryLock, clk clock.Clock, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		builder:  builder,
		lock:     lock,
		clock:    clk,
		logger:   logger,
		inflight: make(map[string]bool),
		status:   make(map[string]Status),
	}
}

// Prime loads persisted build times so a restarted instance does not report
// a healthy projection as never built.
func (c *Coordinator) Prime(ctx context.Context) error {
	times, err := c.builder.StateTimes(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to prime projection status")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for name, at := range times {
		c.status[name] = Status{Built: true, RefreshedAt: at}
	}
	return nil
}

func (c *Coordinator) Status(name string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status[name]
}

// Refresh rebuilds one projection. Safe to call while a rebuild is already
// running; the second trigger is a no-op because the in-flight rebuild
// already satisfies it.
func (c *Coordinator) Refresh(ctx context.Context, name string) (Outcome, error) {
	if !IsKnown(name) {
		return "", ErrUnknownProjection
	}

	c.mu.Lock()
	if c.inflight[name] {
		c.mu.Unlock()
		return OutcomeCoalesced, nil
	}
	c.inflight[name] = true
	c.mu.Unlock()

	// The ticket must clear on every exit path or later triggers would be
	// coalesced away forever.
	defer func() {
		c.mu.Lock()
		delete(c.inflight, name)
		c.mu.Unlock()
	}()

	release, ok, err := c.lock.TryAcquire(ctx, name)
	if err != nil {
		return "", errs.Wrap(err, "advisory lock acquisition failed")
	}
	if !ok {
		// Another process instance is rebuilding the same projection.
		return OutcomeCoalesced, nil
	}
	defer release()

	if err := c.builder.Rebuild(ctx, name); err != nil {
		c.logger.Error("projection rebuild failed", "projection", name, "error", err)
		return "", errs.Wrap(err, "projection rebuild failed")
	}

	c.mu.Lock()
	c.status[name] = Status{Built: true, RefreshedAt: c.clock.Now()}
	c.mu.Unlock()

	return OutcomeStarted, nil
}

// RefreshAll rebuilds every projection sequentially in declaration order.
// Per-projection failures are collected so one broken projection does not
// block the others.
func (c *Coordinator) RefreshAll(ctx context.Context) error {
	var firstErr error
	for _, name := range Names {
		if _, err := c.Refresh(ctx, name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
