package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Receiver Receiver       `mapstructure:"receiver"`
	Decoders DecodersConfig `mapstructure:"decoders"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Database DatabaseConfig `mapstructure:"database"`
	Web      WebConfig      `mapstructure:"web"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Receiver holds capture-side settings. The timing constants are
// handed to the upstream demodulator; decode logic never reads them.
type Receiver struct {
	// Input is the path to the demodulated bit-row stream, or "-" for
	// stdin. One captured row per line as hex, with an optional
	// /bitcount suffix for rows that do not end on a byte boundary.
	Input string `mapstructure:"input"`

	FrequencyHz uint32 `mapstructure:"frequency_hz"`
	SampleRate  int    `mapstructure:"sample_rate"`
}

// DecodersConfig selects which registered device decoders run.
type DecodersConfig struct {
	// Enabled lists device names to run; empty means all registered
	// devices.
	Enabled []string `mapstructure:"enabled"`

	// LogFrames enables the frame-bytes diagnostic hook on successful
	// decodes.
	LogFrames bool `mapstructure:"log_frames"`
}

// MQTTConfig holds MQTT client configuration
type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	QoS         byte   `mapstructure:"qos"`
	Retained    bool   `mapstructure:"retained"`
}

// DatabaseConfig holds reception log configuration
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// WebConfig holds web dashboard configuration
type WebConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics configuration
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/rtl-433")
	}

	viper.SetEnvPrefix("RTL433")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is OK, use defaults
		} else if os.IsNotExist(err) {
			// File explicitly specified but doesn't exist - that's also OK
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Receiver defaults: Minol transmits on 868.3 MHz
	viper.SetDefault("receiver.input", "-")
	viper.SetDefault("receiver.frequency_hz", 868300000)
	viper.SetDefault("receiver.sample_rate", 1024000)

	// Decoder defaults
	viper.SetDefault("decoders.enabled", []string{})
	viper.SetDefault("decoders.log_frames", false)

	// MQTT defaults
	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.topic_prefix", "rtl433")
	viper.SetDefault("mqtt.client_id", "rtl433d")
	viper.SetDefault("mqtt.qos", 1)
	viper.SetDefault("mqtt.retained", false)

	// Database defaults
	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.path", "rtl433.db")

	// Web defaults
	viper.SetDefault("web.enabled", false)
	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.prometheus.enabled", false)
	viper.SetDefault("metrics.prometheus.port", 9090)
	viper.SetDefault("metrics.prometheus.path", "/metrics")
}
