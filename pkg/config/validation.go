package config

import (
	"fmt"
)

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Receiver.Input == "" {
		return fmt.Errorf("receiver.input is required (use \"-\" for stdin)")
	}
	if cfg.Receiver.SampleRate <= 0 {
		return fmt.Errorf("receiver.sample_rate must be positive")
	}

	if cfg.Web.Enabled {
		if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
			return fmt.Errorf("web.port must be between 1 and 65535")
		}
	}

	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
		if cfg.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
		}
	}

	if cfg.Database.Enabled && cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required when database is enabled")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port <= 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return fmt.Errorf("metrics.prometheus.port must be between 1 and 65535")
		}
		if cfg.Metrics.Prometheus.Path == "" {
			return fmt.Errorf("metrics.prometheus.path is required")
		}
	}

	return nil
}
