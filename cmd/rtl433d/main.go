package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jordens/rtl-433/pkg/capture"
	"github.com/jordens/rtl-433/pkg/config"
	"github.com/jordens/rtl-433/pkg/database"
	"github.com/jordens/rtl-433/pkg/decoder"
	_ "github.com/jordens/rtl-433/pkg/decoder/minol"
	"github.com/jordens/rtl-433/pkg/logger"
	"github.com/jordens/rtl-433/pkg/metrics"
	"github.com/jordens/rtl-433/pkg/mqtt"
	"github.com/jordens/rtl-433/pkg/web"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("rtl433d %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	log := logger.New(logger.Config{
		Level:  "info",
		Format: "text",
	})

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	if *validate {
		log.Info("Configuration is valid")
		os.Exit(0)
	}

	// Re-create the logger with the configured level
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	log.Info("Starting rtl433d",
		logger.String("version", version),
		logger.String("config_file", *configFile))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	metricsCollector := metrics.NewCollector()

	// Start Prometheus metrics server if enabled
	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metricsServer := metrics.NewPrometheusServer(
				metrics.PrometheusConfig{
					Enabled: cfg.Metrics.Prometheus.Enabled,
					Port:    cfg.Metrics.Prometheus.Port,
					Path:    cfg.Metrics.Prometheus.Path,
				},
				metricsCollector,
				log.WithComponent("metrics"),
			)
			if err := metricsServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Prometheus metrics server error", logger.Error(err))
			}
		}()
	}

	// Open the reception log if enabled
	var receptionRepo *database.ReceptionRepository
	if cfg.Database.Enabled {
		db, err := database.NewDB(database.Config{Path: cfg.Database.Path}, log.WithComponent("database"))
		if err != nil {
			log.Error("Failed to open database", logger.Error(err))
			os.Exit(1)
		}
		defer db.Close()
		receptionRepo = database.NewReceptionRepository(db.GetDB())
	}
	store := receptionStore(receptionRepo)

	// Initialize MQTT publisher if enabled
	var mqttPublisher *mqtt.Publisher
	if cfg.MQTT.Enabled {
		mqttPublisher = mqtt.New(
			mqtt.Config{
				Enabled:     cfg.MQTT.Enabled,
				Broker:      cfg.MQTT.Broker,
				TopicPrefix: cfg.MQTT.TopicPrefix,
				ClientID:    cfg.MQTT.ClientID,
				Username:    cfg.MQTT.Username,
				Password:    cfg.MQTT.Password,
				QoS:         cfg.MQTT.QoS,
				Retained:    cfg.MQTT.Retained,
			},
			log.WithComponent("mqtt"),
		)
		if err := mqttPublisher.Start(ctx); err != nil {
			log.Error("MQTT publisher error", logger.Error(err))
			os.Exit(1)
		}
	}

	// Start web server if enabled
	var webServer *web.Server
	if cfg.Web.Enabled {
		webServer = web.NewServer(cfg.Web, log.WithComponent("web"), store, metricsCollector, version)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := webServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Web server error", logger.Error(err))
			}
		}()
	}

	// Select the configured device decoders
	devices := selectDevices(cfg.Decoders.Enabled, log)
	if len(devices) == 0 {
		log.Error("No device decoders selected")
		os.Exit(1)
	}

	onRecord := func(dev *decoder.Device, rec *decoder.Record) {
		if mqttPublisher != nil {
			if err := mqttPublisher.PublishReception(mqtt.ReceptionEvent{
				Model:       rec.Model,
				Raw:         rec.Raw,
				MIC:         rec.MIC,
				FrequencyHz: dev.FrequencyHz,
				Timestamp:   rec.Time,
			}); err != nil {
				log.Warn("Failed to publish reception", logger.Error(err))
			}
		}
		if receptionRepo != nil {
			if err := receptionRepo.Create(&database.Reception{
				Model:       rec.Model,
				Raw:         rec.Raw,
				MIC:         rec.MIC,
				FrequencyHz: dev.FrequencyHz,
				ReceivedAt:  rec.Time,
			}); err != nil {
				log.Warn("Failed to store reception", logger.Error(err))
			}
		}
		if webServer != nil {
			webServer.Hub().BroadcastReception(rec, dev.FrequencyHz)
		}
	}

	// Periodic status reporting to MQTT and the dashboard feed
	if mqttPublisher != nil || webServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reportStatus(ctx, metricsCollector, mqttPublisher, webServer, log)
		}()
	}

	input, err := openInput(cfg.Receiver.Input)
	if err != nil {
		log.Error("Failed to open input", logger.Error(err))
		os.Exit(1)
	}

	pipeline := capture.NewPipeline(devices, log, metricsCollector, onRecord)
	pipeline.SetLogFrames(cfg.Decoders.LogFrames)

	pipelineDone := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		pipelineDone <- pipeline.Run(ctx, input)
	}()

	log.Info("rtl433d initialized",
		logger.Int("devices", len(devices)),
		logger.String("input", cfg.Receiver.Input))

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", logger.String("signal", sig.String()))
	case err := <-pipelineDone:
		if err != nil && err != context.Canceled {
			log.Error("Capture pipeline error", logger.Error(err))
		} else {
			log.Info("Capture input exhausted")
		}
	}

	cancel()

	if mqttPublisher != nil {
		mqttPublisher.Stop()
	}
	if closer, ok := input.(io.Closer); ok && input != os.Stdin {
		closer.Close()
	}

	wg.Wait()

	log.Info("rtl433d stopped")
}

// selectDevices resolves the configured decoder names against the
// registry; an empty list enables every registered device.
func selectDevices(enabled []string, log *logger.Logger) []*decoder.Device {
	if len(enabled) == 0 {
		return decoder.All()
	}

	var devices []*decoder.Device
	for _, name := range enabled {
		dev, err := decoder.Lookup(name)
		if err != nil {
			log.Warn("Unknown decoder in config", logger.String("name", name))
			continue
		}
		devices = append(devices, dev)
	}
	return devices
}

// receptionStore adapts the repository pointer to the web API's store
// interface. A nil pointer must become a nil interface value, otherwise
// the API's nil checks pass a typed nil through to a nil receiver.
func receptionStore(repo *database.ReceptionRepository) web.ReceptionStore {
	if repo == nil {
		return nil
	}
	return repo
}

// reportStatus periodically publishes pipeline counters until the
// context is cancelled.
func reportStatus(ctx context.Context, collector *metrics.Collector, publisher *mqtt.Publisher, webServer *web.Server, log *logger.Logger) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if publisher != nil {
				if err := publisher.PublishStatus(mqtt.StatusEvent{
					Status:         "running",
					RowsReceived:   collector.GetRowsReceived(),
					RecordsDecoded: collector.GetRecordsDecoded(),
					Timestamp:      time.Now(),
				}); err != nil {
					log.Warn("Failed to publish status", logger.Error(err))
				}
			}
			if webServer != nil {
				webServer.Hub().BroadcastStatusUpdate("running", version)
			}
		}
	}
}

func openInput(path string) (io.Reader, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}
