package ingest

import (
	"context"
	"fmt"
	"log/slog"
)

// Pool starts and stops a set of listeners as a unit. Startup is all or
// nothing: if any listener fails to bind, the listeners already started are
// stopped again and the error is returned.
type Pool struct {
	listeners []Listener
}

// NewPool creates a pool over the given listeners.
func NewPool(listeners ...Listener) *Pool {
	return &Pool{listeners: listeners}
}

// Size returns the number of listeners in the pool.
func (p *Pool) Size() int {
	return len(p.listeners)
}

// Start starts every listener. On failure the pool is left fully stopped.
func (p *Pool) Start(ctx context.Context) error {
	slog.Info("starting listeners", "count", len(p.listeners))

	for i, l := range p.listeners {
		if err := l.Start(ctx); err != nil {
			for _, started := range p.listeners[:i] {
				if serr := started.Stop(); serr != nil {
					slog.Error("failed to stop listener during rollback",
						"listener", started.Name(), "error", serr)
				}
			}
			return fmt.Errorf("failed to start listener %s: %w", l.Name(), err)
		}
		slog.Info("listener started", "listener", l.Name())
	}

	return nil
}

// Stop stops every listener. All listeners are attempted; the first error
// is returned.
func (p *Pool) Stop() error {
	slog.Info("stopping listeners", "count", len(p.listeners))

	var firstErr error
	for _, l := range p.listeners {
		if err := l.Stop(); err != nil {
			slog.Error("failed to stop listener", "listener", l.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
