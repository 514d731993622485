// Package ingest runs one listener per configured telemetry source and
// decodes inbound messages into events.
package ingest

import (
	"context"

	"github.com/grinchdubs/performance-companion/internal/types"
)

// Handler consumes one decoded event. Listeners call it synchronously on
// their own receive goroutine, so a slow handler delays that listener's
// subsequent messages but never another listener.
type Handler func(ev types.Event)

// Listener is a concurrent unit of execution bound to one network endpoint.
type Listener interface {
	// Name identifies the listener in logs.
	Name() string
	// Start binds the endpoint and begins receiving. A bind failure is
	// fatal to startup.
	Start(ctx context.Context) error
	// Stop releases the endpoint within a bounded time.
	Stop() error
}
