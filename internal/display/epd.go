package display

import (
	"fmt"
	"image"
	"log/slog"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/waveshare2in13v2"
	"periph.io/x/host/v3"

	"github.com/grinchdubs/performance-companion/internal/render"
)

// EPD drives a Waveshare 2.13" e-paper HAT over SPI.
type EPD struct {
	port spi.PortCloser
	dev  *waveshare2in13v2.Dev
}

// NewEPD initializes the periph host, opens the SPI port (empty name means
// the first available port) and sets up the panel.
func NewEPD(spiPort string) (*EPD, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("failed to open spi port: %w", err)
	}

	dev, err := waveshare2in13v2.NewHat(port, &waveshare2in13v2.EPD2in13v2)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to initialize e-paper device: %w", err)
	}

	if err := dev.Init(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to reset e-paper device: %w", err)
	}

	slog.Info("e-paper panel initialized", "bounds", dev.Bounds())
	return &EPD{port: port, dev: dev}, nil
}

// Push draws the frame onto the panel. The panel's own busy-wait bounds the
// call; the dispatcher's refresh interval keeps pushes within hardware
// limits.
func (e *EPD) Push(f *render.Frame) error {
	if err := e.dev.Draw(e.dev.Bounds(), f, image.Point{}); err != nil {
		return fmt.Errorf("failed to draw frame: %w", err)
	}
	return nil
}

// Close halts the panel and releases the SPI port.
func (e *EPD) Close() error {
	if err := e.dev.Halt(); err != nil {
		slog.Error("failed to halt e-paper device", "error", err)
	}
	return e.port.Close()
}
