package display

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/grinchdubs/performance-companion/internal/render"
)

// FileSink persists frames as PNG files when no panel is configured.
type FileSink struct {
	path string
}

// NewFileSink creates a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Push encodes the frame to the configured path, replacing the previous
// frame.
func (s *FileSink) Push(f *render.Frame) error {
	out, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := png.Encode(out, f); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	slog.Debug("frame written", "path", s.path)
	return nil
}

// Close implements Sink.
func (s *FileSink) Close() error {
	return nil
}
