package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jordens/rtl-433/pkg/logger"
)

// Config holds MQTT publisher configuration
type Config struct {
	Enabled     bool
	Broker      string
	TopicPrefix string
	ClientID    string
	Username    string
	Password    string
	QoS         byte
	Retained    bool
}

// Publisher handles MQTT event publishing
type Publisher struct {
	config Config
	log    *logger.Logger
	client mqtt.Client
}

// Event types for MQTT publishing

// ReceptionEvent represents a successfully decoded transmission
type ReceptionEvent struct {
	Model       string    `json:"model"`
	Raw         string    `json:"raw"`
	MIC         string    `json:"mic"`
	FrequencyHz uint32    `json:"frequency_hz,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// StatusEvent represents periodic pipeline status
type StatusEvent struct {
	Status         string    `json:"status"`
	RowsReceived   uint64    `json:"rows_received"`
	RecordsDecoded uint64    `json:"records_decoded"`
	Timestamp      time.Time `json:"timestamp"`
}

// New creates a new MQTT publisher
func New(config Config, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &Publisher{
		config: config,
		log:    log.WithComponent("mqtt"),
	}
}

// Start connects to the broker. The connection is persistent and
// re-establishes itself after a disconnect.
func (p *Publisher) Start(ctx context.Context) error {
	if !p.config.Enabled {
		p.log.Info("MQTT publisher disabled")
		return nil
	}

	clientID := p.config.ClientID
	if clientID == "" {
		hostname, _ := os.Hostname()
		clientID = "rtl433d-" + hostname
	}

	opts := mqtt.NewClientOptions().AddBroker(p.config.Broker)
	opts.SetClientID(clientID)
	opts.SetUsername(p.config.Username)
	opts.SetPassword(p.config.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)

	p.log.Info("Starting MQTT publisher",
		logger.String("broker", p.config.Broker),
		logger.String("client_id", clientID))

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connect to %s timed out", p.config.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	p.client = client
	p.log.Info("MQTT connected")
	return nil
}

// Stop disconnects from the broker
func (p *Publisher) Stop() {
	if !p.config.Enabled {
		return
	}

	p.log.Info("Stopping MQTT publisher")
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// PublishReception publishes a decoded record event
func (p *Publisher) PublishReception(event ReceptionEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("receptions/" + strings.ToLower(event.Model))
	return p.publish(topic, event)
}

// PublishStatus publishes a pipeline status event
func (p *Publisher) PublishStatus(event StatusEvent) error {
	if !p.config.Enabled {
		return nil
	}

	topic := p.formatTopic("status")
	return p.publish(topic, event)
}

// publish publishes an event to a topic
func (p *Publisher) publish(topic string, event interface{}) error {
	payload, err := p.serializeEvent(event)
	if err != nil {
		p.log.Error("Failed to serialize event",
			logger.String("topic", topic),
			logger.Error(err))
		return err
	}

	if p.client == nil || !p.client.IsConnected() {
		p.log.Debug("Not connected, dropping event",
			logger.String("topic", topic),
			logger.Int("payload_size", len(payload)))
		return nil
	}

	token := p.client.Publish(topic, p.config.QoS, p.config.Retained, payload)
	if !token.WaitTimeout(2 * time.Second) {
		return fmt.Errorf("mqtt publish to %s timed out", topic)
	}
	return token.Error()
}

// serializeEvent serializes an event to JSON
func (p *Publisher) serializeEvent(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

// formatTopic formats a topic with the configured prefix
func (p *Publisher) formatTopic(suffix string) string {
	prefix := strings.TrimSuffix(p.config.TopicPrefix, "/")
	if prefix == "" {
		return suffix
	}
	return fmt.Sprintf("%s/%s", prefix, suffix)
}
