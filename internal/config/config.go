package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete companion configuration
type Config struct {
	InstanceID       string        `yaml:"instance_id"`
	ShutdownTimeoutS int           `yaml:"shutdown_timeout_s"` // Graceful shutdown timeout in seconds (default: 5)
	Sources          SourcesConfig `yaml:"sources"`
	Display          DisplayConfig `yaml:"display"`
	SetlistPath      string        `yaml:"setlist_path"`
}

// SourcesConfig lists the telemetry producers
type SourcesConfig struct {
	Live   OSCSourceConfig  `yaml:"live"`   // music-performance controller (OSC)
	Visual OSCSourceConfig  `yaml:"visual"` // visual-rendering engine (OSC)
	MQTT   MQTTSourceConfig `yaml:"mqtt"`   // optional message-bus source
}

// OSCSourceConfig contains an OSC/UDP source binding
type OSCSourceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bind    string `yaml:"bind"`
	Port    int    `yaml:"port"`
}

// Addr returns the UDP bind address for the source.
func (c OSCSourceConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// SameEndpoint reports whether two OSC sources are configured against the
// same bind address and port. Such sources share one physical listener.
func (c OSCSourceConfig) SameEndpoint(o OSCSourceConfig) bool {
	return c.Bind == o.Bind && c.Port == o.Port
}

// MQTTSourceConfig contains MQTT broker settings
type MQTTSourceConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Broker      string   `yaml:"broker"`
	Topics      []string `yaml:"topics"`
	StatusTopic string   `yaml:"status_topic"`
}

// DisplayConfig contains the physical display settings
type DisplayConfig struct {
	Driver           string  `yaml:"driver"` // "epd" or "file" (default: file)
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Rotation         int     `yaml:"rotation"` // 0 or 180
	DefaultMode      int     `yaml:"default_mode"`
	AutoRotate       bool    `yaml:"auto_rotate"`
	ModeDurationS    int     `yaml:"mode_duration_s"`    // seconds per mode when auto-rotating
	RefreshIntervalS float64 `yaml:"refresh_interval_s"` // minimum seconds between panel refreshes
	SPIPort          string  `yaml:"spi_port"`           // periph.io SPI port name, "" = first available
	OutputPath       string  `yaml:"output_path"`        // file sink target
}

// RefreshInterval returns the minimum time between two renders.
func (c DisplayConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalS * float64(time.Second))
}

// ModeDuration returns the auto-rotation period.
func (c DisplayConfig) ModeDuration() time.Duration {
	return time.Duration(c.ModeDurationS) * time.Second
}

// ShutdownTimeout returns the configured graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ShutdownTimeoutS) * time.Second
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
