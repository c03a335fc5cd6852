package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jordens/rtl-433/pkg/config"
	"github.com/jordens/rtl-433/pkg/logger"
	"github.com/jordens/rtl-433/pkg/metrics"
)

// Server represents the web dashboard HTTP server
type Server struct {
	config config.WebConfig
	logger *logger.Logger
	server *http.Server
	hub    *WebSocketHub
	api    *API
	addr   string
	mu     sync.RWMutex
}

// NewServer creates a new web server instance
func NewServer(cfg config.WebConfig, log *logger.Logger, store ReceptionStore, collector *metrics.Collector, version string) *Server {
	return &Server{
		config: cfg,
		logger: log,
		hub:    NewWebSocketHub(log),
		api:    NewAPI(log, store, collector, version),
	}
}

// Hub returns the WebSocket hub so the pipeline can broadcast records
func (s *Server) Hub() *WebSocketHub {
	return s.hub
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Web server is disabled")
		return nil
	}

	go s.hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.api.HandleStatus)
	mux.HandleFunc("/api/receptions", s.api.HandleReceptions)
	mux.HandleFunc("/api/stats", s.api.HandleStats)
	mux.Handle("/ws", s.hub.Handler())

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.server = &http.Server{Handler: mux}
	s.mu.Unlock()

	s.logger.Info("Web server listening", logger.String("addr", s.Addr()))

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web server shutdown error: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Addr returns the listen address once the server has started
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
