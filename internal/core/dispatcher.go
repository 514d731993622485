package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grinchdubs/performance-companion/internal/display"
	"github.com/grinchdubs/performance-companion/internal/render"
	"github.com/grinchdubs/performance-companion/internal/state"
)

// Dispatcher rate-limits renders to the display's refresh interval. Notify
// runs synchronously on whichever listener goroutine produced the
// triggering event; an update arriving inside the interval is skipped
// entirely, not queued, so the next eligible render reflects
// whatever the state holds at that moment.
type Dispatcher struct {
	store    *state.Store
	sink     display.Sink
	width    int
	height   int
	rotation int
	interval time.Duration

	mu      sync.Mutex
	last    time.Time
	renders uint64
	skipped uint64
	failed  uint64

	inflight sync.WaitGroup

	// now is replaceable in tests.
	now func() time.Time
}

// NewDispatcher creates a dispatcher pushing to sink at most once per
// interval.
func NewDispatcher(store *state.Store, sink display.Sink, width, height, rotation int, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		store:    store,
		sink:     sink,
		width:    width,
		height:   height,
		rotation: rotation,
		interval: interval,
		now:      time.Now,
	}
}

// Notify signals that state changed. The render decision and the
// last-render timestamp update happen under one lock, so two concurrent
// callers can never both render within the same interval; the render itself
// runs outside any lock.
func (d *Dispatcher) Notify() {
	d.mu.Lock()
	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.interval {
		d.skipped++
		d.mu.Unlock()
		return
	}
	d.last = now
	d.renders++
	d.inflight.Add(1)
	d.mu.Unlock()

	defer d.inflight.Done()
	d.render()
}

// render snapshots the state and pushes a fresh frame. Sink errors are
// logged; state is untouched and the next eligible Notify retries
// naturally.
func (d *Dispatcher) render() {
	traceID := uuid.NewString()

	snap := d.store.Snapshot()
	frame := render.Render(snap, snap.Mode, d.width, d.height)
	if d.rotation == 180 {
		frame = frame.Rotated180()
	}

	if err := d.sink.Push(frame); err != nil {
		d.mu.Lock()
		d.failed++
		d.mu.Unlock()
		slog.Error("display push failed",
			"error", err,
			"mode", snap.Mode.String(),
			"trace_id", traceID,
		)
		return
	}

	slog.Debug("frame pushed",
		"mode", snap.Mode.String(),
		"trace_id", traceID,
	)
}

// Drain waits for in-flight renders to finish, bounded by ctx. No render is
// cancelled mid-flight; past the deadline the caller proceeds regardless.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the render, skip and failure counts.
func (d *Dispatcher) Stats() (renders, skipped, failed uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renders, d.skipped, d.failed
}
