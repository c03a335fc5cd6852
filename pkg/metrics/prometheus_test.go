package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestNewPrometheusHandler tests creating a new handler
func TestNewPrometheusHandler(t *testing.T) {
	collector := NewCollector()
	handler := NewPrometheusHandler(collector)

	if handler == nil {
		t.Fatal("Expected non-nil handler")
	}
}

// TestPrometheusHandler_ServeHTTP tests the HTTP handler
func TestPrometheusHandler_ServeHTTP(t *testing.T) {
	collector := NewCollector()
	handler := NewPrometheusHandler(collector)

	collector.RowReceived(72)
	collector.SyncMiss()
	collector.RecordDecoded("Minol", 2)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	expectedMetrics := []string{
		"rtl433_rows_received_total 1",
		"rtl433_sync_misses_total 1",
		`rtl433_records_decoded_total{model="Minol"} 1`,
		"rtl433_bytes_decoded_total 2",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("Expected metric %s in output", metric)
		}
	}
}

// TestPrometheusServer_StartDisabled tests the disabled path
func TestPrometheusServer_StartDisabled(t *testing.T) {
	server := NewPrometheusServer(PrometheusConfig{Enabled: false}, NewCollector(), nil)

	if err := server.Start(context.Background()); err != nil {
		t.Errorf("Expected nil error for disabled server, got %v", err)
	}
}

// TestPrometheusServer_StartAndShutdown tests server lifecycle on an
// ephemeral port
func TestPrometheusServer_StartAndShutdown(t *testing.T) {
	server := NewPrometheusServer(
		PrometheusConfig{Enabled: true, Port: 0, Path: "/metrics"},
		NewCollector(),
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	// Give the server a moment to bind, then shut down
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Server did not shut down in time")
	}
}
