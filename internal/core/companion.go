package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/grinchdubs/performance-companion/internal/config"
	"github.com/grinchdubs/performance-companion/internal/display"
	"github.com/grinchdubs/performance-companion/internal/ingest"
	"github.com/grinchdubs/performance-companion/internal/setlist"
	"github.com/grinchdubs/performance-companion/internal/state"
	"github.com/grinchdubs/performance-companion/internal/types"
)

// Companion is the main service orchestrator: it owns the shared state, the
// listener pool, the render dispatcher and the display sink.
type Companion struct {
	cfg *config.Config

	store      *state.Store
	pool       *ingest.Pool
	mqtt       *ingest.MQTTListener
	dispatcher *Dispatcher
	sink       display.Sink

	started   time.Time
	mu        sync.RWMutex
	wg        sync.WaitGroup
	isRunning bool
}

// New loads configuration and the set list and wires all components. No
// network resources are bound yet; that happens in Run.
func New(configPath string) (*Companion, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("configuration loaded",
		"instance_id", cfg.InstanceID,
		"display", fmt.Sprintf("%dx%d", cfg.Display.Width, cfg.Display.Height),
		"refresh_interval", cfg.Display.RefreshInterval(),
	)

	songs, err := setlist.Load(cfg.SetlistPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load set list: %w", err)
	}

	store := state.New(types.Mode(cfg.Display.DefaultMode))
	store.SetSetlist(songs)

	c := &Companion{
		cfg:   cfg,
		store: store,
		sink:  newSink(cfg.Display),
	}

	c.dispatcher = NewDispatcher(
		store,
		c.sink,
		cfg.Display.Width,
		cfg.Display.Height,
		cfg.Display.Rotation,
		cfg.Display.RefreshInterval(),
	)

	c.pool = ingest.NewPool(c.buildListeners()...)

	return c, nil
}

// newSink picks the configured display driver. A panel that fails to
// initialize is a sink error, not a core error: the companion falls back to
// the file sink and keeps running.
func newSink(cfg config.DisplayConfig) display.Sink {
	if cfg.Driver == "epd" {
		sink, err := display.NewEPD(cfg.SPIPort)
		if err == nil {
			return sink
		}
		slog.Error("e-paper init failed, falling back to file sink",
			"error", err,
			"output_path", cfg.OutputPath,
		)
	}
	return display.NewFileSink(cfg.OutputPath)
}

// buildListeners creates one listener per configured source. When the live
// and visual sources share an endpoint only one physical listener is bound;
// the address table already serves both producers.
func (c *Companion) buildListeners() []ingest.Listener {
	handler := func(ev types.Event) {
		if c.store.Apply(ev) {
			c.dispatcher.Notify()
		}
	}

	var listeners []ingest.Listener
	src := c.cfg.Sources

	if src.Live.Enabled {
		listeners = append(listeners, ingest.NewOSC("live", src.Live.Addr(), handler))
	}
	if src.Visual.Enabled {
		if src.Live.Enabled && src.Visual.SameEndpoint(src.Live) {
			slog.Info("visual source shares the live endpoint, reusing listener",
				"addr", src.Visual.Addr(),
			)
		} else {
			listeners = append(listeners, ingest.NewOSC("visual", src.Visual.Addr(), handler))
		}
	}
	if src.MQTT.Enabled {
		c.mqtt = ingest.NewMQTT(src.MQTT, c.cfg.InstanceID, handler)
		listeners = append(listeners, c.mqtt)
	}

	return listeners
}

// Run starts all listeners and blocks until the context is cancelled. Any
// listener bind failure aborts startup.
func (c *Companion) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return fmt.Errorf("service is already running")
	}
	c.isRunning = true
	c.started = time.Now()
	c.mu.Unlock()

	slog.Info("companion starting", "instance_id", c.cfg.InstanceID)

	if err := c.pool.Start(ctx); err != nil {
		c.mu.Lock()
		c.isRunning = false
		c.mu.Unlock()
		return err
	}

	if c.cfg.Display.AutoRotate {
		c.wg.Add(1)
		go c.rotateModes(ctx)
	}

	slog.Info("companion running",
		"listeners", c.pool.Size(),
		"default_mode", c.store.Mode().String(),
		"auto_rotate", c.cfg.Display.AutoRotate,
	)

	<-ctx.Done()

	slog.Info("companion run loop exiting")
	return nil
}

// rotateModes advances the display mode on a fixed interval. It is just a
// second producer of mode-change events feeding the same synchronized
// update path as the listeners.
func (c *Companion) rotateModes(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Display.ModeDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.store.Advance() {
				slog.Info("display mode rotated", "mode", c.store.Mode().String())
				c.dispatcher.Notify()
			}
		}
	}
}

// Shutdown performs graceful shutdown: listeners first (no new events),
// then the rotation goroutine, then in-flight renders, then the sink. The
// context bounds the total wait; past the deadline shutdown proceeds
// regardless.
func (c *Companion) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	slog.Info("shutting down companion")

	if err := c.pool.Stop(); err != nil {
		slog.Error("failed to stop listener pool", "error", err)
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("goroutines did not finish before shutdown deadline")
	}

	if err := c.dispatcher.Drain(ctx); err != nil {
		slog.Warn("in-flight render did not finish before shutdown deadline")
	}

	if err := c.sink.Close(); err != nil {
		slog.Error("failed to close display sink", "error", err)
	}

	c.mu.Lock()
	uptime := time.Since(c.started)
	c.isRunning = false
	c.mu.Unlock()

	slog.Info("companion shutdown complete", "uptime", uptime)
	return nil
}

// ShutdownTimeout returns the configured graceful shutdown timeout.
func (c *Companion) ShutdownTimeout() time.Duration {
	return c.cfg.ShutdownTimeout()
}
