package config

import (
	"fmt"
	"regexp"

	"github.com/grinchdubs/performance-companion/internal/types"
)

var instanceIDPattern = regexp.MustCompile(`^[a-z0-9\-]+$`)

// Validate checks if the configuration is valid and fills in defaults
func Validate(cfg *Config) error {
	// Validate instance_id
	if cfg.InstanceID == "" {
		return fmt.Errorf("instance_id is required")
	}
	if !instanceIDPattern.MatchString(cfg.InstanceID) {
		return fmt.Errorf("instance_id must match pattern [a-z0-9-]+")
	}

	// Source defaults
	if cfg.Sources.Live.Bind == "" {
		cfg.Sources.Live.Bind = "0.0.0.0"
	}
	if cfg.Sources.Live.Port == 0 {
		cfg.Sources.Live.Port = 9000
	}
	if cfg.Sources.Visual.Bind == "" {
		cfg.Sources.Visual.Bind = "0.0.0.0"
	}
	if cfg.Sources.Visual.Port == 0 {
		cfg.Sources.Visual.Port = 9001
	}
	if err := validateOSCSource("sources.live", cfg.Sources.Live); err != nil {
		return err
	}
	if err := validateOSCSource("sources.visual", cfg.Sources.Visual); err != nil {
		return err
	}

	// MQTT is optional but, when enabled, needs a broker
	if cfg.Sources.MQTT.Enabled {
		if cfg.Sources.MQTT.Broker == "" {
			return fmt.Errorf("sources.mqtt.broker is required when mqtt is enabled")
		}
		if len(cfg.Sources.MQTT.Topics) == 0 {
			cfg.Sources.MQTT.Topics = []string{"performance/#"}
		}
		if cfg.Sources.MQTT.StatusTopic == "" {
			cfg.Sources.MQTT.StatusTopic = fmt.Sprintf("performance/companion/%s/status", cfg.InstanceID)
		}
	}

	if !cfg.Sources.Live.Enabled && !cfg.Sources.Visual.Enabled && !cfg.Sources.MQTT.Enabled {
		return fmt.Errorf("at least one source must be enabled")
	}

	// Display defaults mirror the 2.13" e-paper panel
	if cfg.Display.Width == 0 {
		cfg.Display.Width = 250
	}
	if cfg.Display.Height == 0 {
		cfg.Display.Height = 122
	}
	if cfg.Display.Width < 0 || cfg.Display.Height < 0 {
		return fmt.Errorf("display dimensions must be positive, got %dx%d",
			cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Display.Rotation != 0 && cfg.Display.Rotation != 180 {
		return fmt.Errorf("display.rotation must be 0 or 180, got %d", cfg.Display.Rotation)
	}
	if cfg.Display.RefreshIntervalS == 0 {
		cfg.Display.RefreshIntervalS = 2
	}
	if cfg.Display.RefreshIntervalS < 0 {
		return fmt.Errorf("display.refresh_interval_s must be positive")
	}
	if cfg.Display.ModeDurationS <= 0 {
		cfg.Display.ModeDurationS = 60
	}
	if mode := types.Mode(cfg.Display.DefaultMode); !mode.Valid() {
		return fmt.Errorf("display.default_mode must be in [0, %d), got %d",
			int(types.ModeCount), cfg.Display.DefaultMode)
	}
	switch cfg.Display.Driver {
	case "":
		cfg.Display.Driver = "file"
	case "file", "epd":
	default:
		return fmt.Errorf("display.driver must be 'epd' or 'file', got %q", cfg.Display.Driver)
	}
	if cfg.Display.OutputPath == "" {
		cfg.Display.OutputPath = "/tmp/companion_display.png"
	}

	if cfg.SetlistPath == "" {
		cfg.SetlistPath = "setlist.json"
	}

	return nil
}

func validateOSCSource(name string, src OSCSourceConfig) error {
	if !src.Enabled {
		return nil
	}
	if src.Port <= 0 || src.Port > 65535 {
		return fmt.Errorf("%s.port must be in (0, 65535], got %d", name, src.Port)
	}
	return nil
}
