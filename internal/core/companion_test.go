package core

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/grinchdubs/performance-companion/internal/config"
	"github.com/grinchdubs/performance-companion/internal/ingest"
	"github.com/grinchdubs/performance-companion/internal/state"
	"github.com/grinchdubs/performance-companion/internal/types"
)

func newTestCompanion(src config.SourcesConfig) *Companion {
	store := state.New(types.ModeOverview)
	sink := &countingSink{}
	c := &Companion{
		cfg:   &config.Config{InstanceID: "test", Sources: src},
		store: store,
		sink:  sink,
	}
	c.dispatcher = NewDispatcher(store, sink, 250, 122, 0, time.Second)
	return c
}

// TestBuildListenersDedupesSharedEndpoint verifies that live and visual
// sources configured on the same port share one listener.
func TestBuildListenersDedupesSharedEndpoint(t *testing.T) {
	c := newTestCompanion(config.SourcesConfig{
		Live:   config.OSCSourceConfig{Enabled: true, Bind: "0.0.0.0", Port: 9000},
		Visual: config.OSCSourceConfig{Enabled: true, Bind: "0.0.0.0", Port: 9000},
	})

	if got := len(c.buildListeners()); got != 1 {
		t.Errorf("Expected 1 listener for a shared endpoint, got %d", got)
	}
}

// TestBuildListenersSeparateEndpoints verifies distinct ports get distinct
// listeners and MQTT adds a third.
func TestBuildListenersSeparateEndpoints(t *testing.T) {
	c := newTestCompanion(config.SourcesConfig{
		Live:   config.OSCSourceConfig{Enabled: true, Bind: "0.0.0.0", Port: 9000},
		Visual: config.OSCSourceConfig{Enabled: true, Bind: "0.0.0.0", Port: 9001},
		MQTT:   config.MQTTSourceConfig{Enabled: true, Broker: "localhost:1883"},
	})

	if got := len(c.buildListeners()); got != 3 {
		t.Errorf("Expected 3 listeners, got %d", got)
	}
	if c.mqtt == nil {
		t.Error("Expected the mqtt listener to be retained for health checks")
	}
}

// TestBuildListenersDisabledSources verifies only enabled sources produce
// listeners.
func TestBuildListenersDisabledSources(t *testing.T) {
	c := newTestCompanion(config.SourcesConfig{
		Visual: config.OSCSourceConfig{Enabled: true, Bind: "0.0.0.0", Port: 9001},
	})

	if got := len(c.buildListeners()); got != 1 {
		t.Errorf("Expected 1 listener, got %d", got)
	}
}

// TestRunAbortsOnBindFailure verifies a listener bind failure aborts
// startup entirely and leaves the service stopped.
func TestRunAbortsOnBindFailure(t *testing.T) {
	blocker, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("blocker bind failed: %v", err)
	}
	defer blocker.Close()

	c := newTestCompanion(config.SourcesConfig{
		Live: config.OSCSourceConfig{
			Enabled: true,
			Bind:    "127.0.0.1",
			Port:    blocker.LocalAddr().(*net.UDPAddr).Port,
		},
	})
	c.pool = ingest.NewPool(c.buildListeners()...)

	if err := c.Run(context.Background()); err == nil {
		t.Fatal("Expected Run to fail on an occupied port")
	}
	if status := c.HealthCheck().Status; status != "unhealthy" {
		t.Errorf("Expected unhealthy after an aborted start, got %q", status)
	}
}

// TestRunAndShutdown verifies the full lifecycle: start, cancel, graceful
// shutdown.
func TestRunAndShutdown(t *testing.T) {
	c := newTestCompanion(config.SourcesConfig{
		Live: config.OSCSourceConfig{Enabled: true, Bind: "127.0.0.1", Port: 0},
	})
	c.pool = ingest.NewPool(c.buildListeners()...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- c.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for c.HealthCheck().Status == "unhealthy" {
		select {
		case <-deadline:
			t.Fatal("Timeout waiting for the service to start")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errChan:
		if err != nil {
			t.Fatalf("Run returned an error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for Run to return")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	if err := c.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if status := c.HealthCheck().Status; status != "unhealthy" {
		t.Errorf("Expected unhealthy after shutdown, got %q", status)
	}
}
