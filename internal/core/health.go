package core

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthStatus represents the health state of the companion service
type HealthStatus struct {
	Status        string `json:"status"` // "healthy", "degraded", "unhealthy"
	UptimeSeconds int64  `json:"uptime_seconds"`
	Listeners     int    `json:"listeners"`
	MQTTConnected *bool  `json:"mqtt_connected,omitempty"`
	Mode          string `json:"mode"`
	EventsApplied uint64 `json:"events_applied"`
	EventsDropped uint64 `json:"events_dropped"`
	Renders       uint64 `json:"renders"`
	RendersFailed uint64 `json:"renders_failed"`
}

// HealthCheck returns the current health status of the service
func (c *Companion) HealthCheck() HealthStatus {
	c.mu.RLock()
	running := c.isRunning
	started := c.started
	c.mu.RUnlock()

	applied, dropped := c.store.Counters()
	renders, _, failed := c.dispatcher.Stats()

	status := HealthStatus{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(started).Seconds()),
		Listeners:     c.pool.Size(),
		Mode:          c.store.Mode().String(),
		EventsApplied: applied,
		EventsDropped: dropped,
		Renders:       renders,
		RendersFailed: failed,
	}

	if c.mqtt != nil {
		connected := c.mqtt.Connected()
		status.MQTTConnected = &connected
		if !connected {
			status.Status = "degraded"
		}
	}
	if !running {
		status.Status = "unhealthy"
	}

	return status
}

// LivenessHandler handles /health (simple liveness check)
func (c *Companion) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	c.mu.RLock()
	started := c.started
	c.mu.RUnlock()

	response := map[string]any{
		"status": "alive",
		"uptime": int64(time.Since(started).Seconds()),
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler handles /readiness (detailed readiness check)
func (c *Companion) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := c.HealthCheck()

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(health)
}

// StartHealthServer starts the HTTP health check server on the given port.
// It runs in its own goroutine and does not block.
func (c *Companion) StartHealthServer(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", c.LivenessHandler)
	mux.HandleFunc("/readiness", c.ReadinessHandler)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("starting health check server",
		"port", port,
		"endpoints", []string{"/health", "/readiness"},
	)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("health check server failed", "error", err)
		}
	}()

	return nil
}
