package projection

import (
	"context"
	"log/slog"
	"time"
)

// MutationEvent is one committed write reported by the external write layer.
type MutationEvent struct {
	Table    string
	RecordID int64
}

// Trigger turns a burst of write events into at most one rebuild per
// debounce window. The queue is bounded; when it is full the event is
// dropped, which is safe because any queued event already forces a full
// rebuild of everything.
type Trigger struct {
	coordinator *Coordinator
	window      time.Duration
	events      chan MutationEvent
	logger      *slog.Logger
}

func NewTrigger(coordinator *Coordinator, window time.Duration, logger *slog.Logger) *Trigger {
	return &Trigger{
		coordinator: coordinator,
		window:      window,
		events:      make(chan MutationEvent, 256),
		logger:      logger,
	}
}

func (t *Trigger) Enqueue(ev MutationEvent) {
	select {
	case t.events <- ev:
	default:
		t.logger.Warn("mutation queue full, dropping event", "table", ev.Table, "record_id", ev.RecordID)
	}
}

// Run blocks until ctx is cancelled.
func (t *Trigger) Run(ctx context.Context) {
	t.logger.Info("mutation trigger started", "debounce_window", t.window)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("mutation trigger stopped")
			return
		case ev := <-t.events:
			count := 1 + t.drainUntilQuiet(ctx)
			if ctx.Err() != nil {
				return
			}
			t.logger.Info("debounce window closed, refreshing projections",
				"coalesced_events", count, "first_table", ev.Table)
			if err := t.coordinator.RefreshAll(ctx); err != nil {
				// Last-good projections keep serving; the next trigger retries.
				t.logger.Error("triggered refresh failed", "error", err)
			}
		}
	}
}

// drainUntilQuiet swallows further events until the debounce window elapses,
// returning how many were coalesced.
func (t *Trigger) drainUntilQuiet(ctx context.Context) int {
	timer := time.NewTimer(t.window)
	defer timer.Stop()

	coalesced := 0
	for {
		select {
		case <-ctx.Done():
			return coalesced
		case <-t.events:
			coalesced++
		case <-timer.C:
			return coalesced
		}
	}
}

// Scheduler refreshes all projections on a fixed interval, bounding
// staleness even when no write events arrive.
type Scheduler struct {
	coordinator *Coordinator
	interval    time.Duration
	logger      *slog.Logger
}

func NewScheduler(coordinator *Coordinator, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{coordinator: coordinator, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. A zero interval disables the scheduler.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("scheduled refresh disabled")
		return
	}

	s.logger.Info("scheduled refresh started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduled refresh stopped")
			return
		case <-ticker.C:
			if err := s.coordinator.RefreshAll(ctx); err != nil {
				s.logger.Error("scheduled refresh failed", "error", err)
			}
		}
	}
}
