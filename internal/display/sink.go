// Package display pushes rendered frames to the physical panel or to a
// fallback file. Sink failures are non-fatal to the core; the dispatcher
// retries naturally on the next eligible render.
package display

import "github.com/grinchdubs/performance-companion/internal/render"

// Sink accepts finished frames. Ownership of a pushed frame passes to the
// sink; the caller must not mutate it afterwards.
type Sink interface {
	Push(f *render.Frame) error
	Close() error
}
