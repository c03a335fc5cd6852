package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jordens/rtl-433/pkg/logger"
)

// PrometheusConfig holds Prometheus server configuration
type PrometheusConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// PrometheusHandler handles Prometheus metrics HTTP requests
type PrometheusHandler struct {
	collector *Collector
}

// NewPrometheusHandler creates a new Prometheus handler
func NewPrometheusHandler(collector *Collector) *PrometheusHandler {
	return &PrometheusHandler{
		collector: collector,
	}
}

// ServeHTTP handles HTTP requests for metrics
func (h *PrometheusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	var output strings.Builder

	// Capture metrics
	output.WriteString("# HELP rtl433_rows_received_total Total bit-rows received from the demodulator\n")
	output.WriteString("# TYPE rtl433_rows_received_total counter\n")
	output.WriteString(fmt.Sprintf("rtl433_rows_received_total %d\n", h.collector.GetRowsReceived()))

	output.WriteString("# HELP rtl433_bits_received_total Total bits received from the demodulator\n")
	output.WriteString("# TYPE rtl433_bits_received_total counter\n")
	output.WriteString(fmt.Sprintf("rtl433_bits_received_total %d\n", h.collector.GetBitsReceived()))

	// Decode failure metrics
	output.WriteString("# HELP rtl433_sync_misses_total Candidates without the sync pattern\n")
	output.WriteString("# TYPE rtl433_sync_misses_total counter\n")
	output.WriteString(fmt.Sprintf("rtl433_sync_misses_total %d\n", h.collector.GetSyncMisses()))

	output.WriteString("# HELP rtl433_short_frames_total Candidates with too few bits for a frame\n")
	output.WriteString("# TYPE rtl433_short_frames_total counter\n")
	output.WriteString(fmt.Sprintf("rtl433_short_frames_total %d\n", h.collector.GetShortFrames()))

	output.WriteString("# HELP rtl433_checksum_failures_total Well-formed frames failing the integrity check\n")
	output.WriteString("# TYPE rtl433_checksum_failures_total counter\n")
	output.WriteString(fmt.Sprintf("rtl433_checksum_failures_total %d\n", h.collector.GetChecksumFailures()))

	output.WriteString("# HELP rtl433_structural_rejects_total Captures rejected on input shape\n")
	output.WriteString("# TYPE rtl433_structural_rejects_total counter\n")
	output.WriteString(fmt.Sprintf("rtl433_structural_rejects_total %d\n", h.collector.GetStructuralRejects()))

	// Success metrics
	output.WriteString("# HELP rtl433_records_decoded_total Successful decodes per model\n")
	output.WriteString("# TYPE rtl433_records_decoded_total counter\n")
	byModel := h.collector.GetRecordsDecodedByModel()
	models := make([]string, 0, len(byModel))
	for model := range byModel {
		models = append(models, model)
	}
	sort.Strings(models)
	for _, model := range models {
		output.WriteString(fmt.Sprintf("rtl433_records_decoded_total{model=%q} %d\n", model, byModel[model]))
	}

	output.WriteString("# HELP rtl433_bytes_decoded_total Total decoded payload bytes\n")
	output.WriteString("# TYPE rtl433_bytes_decoded_total counter\n")
	output.WriteString(fmt.Sprintf("rtl433_bytes_decoded_total %d\n", h.collector.GetBytesDecoded()))

	w.Write([]byte(output.String()))
}

// PrometheusServer is an HTTP server for Prometheus metrics
type PrometheusServer struct {
	config    PrometheusConfig
	collector *Collector
	log       *logger.Logger
	server    *http.Server
}

// NewPrometheusServer creates a new Prometheus metrics server
func NewPrometheusServer(config PrometheusConfig, collector *Collector, log *logger.Logger) *PrometheusServer {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &PrometheusServer{
		config:    config,
		collector: collector,
		log:       log.WithComponent("metrics"),
	}
}

// Start starts the Prometheus metrics server
func (s *PrometheusServer) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("Prometheus metrics server disabled")
		return nil
	}

	handler := NewPrometheusHandler(s.collector)
	mux := http.NewServeMux()
	mux.Handle(s.config.Path, handler)

	// Use a listener to get the actual port (useful for testing with port 0)
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	actualPort := listener.Addr().(*net.TCPAddr).Port

	s.server = &http.Server{
		Handler: mux,
	}

	s.log.Info("Starting Prometheus metrics server",
		logger.Int("port", actualPort),
		logger.String("path", s.config.Path))

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down Prometheus metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown error: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Stop stops the Prometheus metrics server
func (s *PrometheusServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}
}
