package testhelpers

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/jordens/rtl-433/pkg/logger"
)

// Known-good captured frames for end-to-end tests. Each entry pairs a
// raw bit-row in hex[/bitcount] form with the payload hex a successful
// decode yields.
var KnownFrames = []struct {
	Row     string
	Payload string
}{
	{"d391d39102ffe10e28", "0000"},
	{"d391d39103214ca35f31", "deadbe"},
}

// CorruptFrame is KnownFrames[0] with the last checksum bit flipped.
const CorruptFrame = "d391d39102ffe10e29"

// NoiseRow carries no sync word at any offset.
const NoiseRow = "aaaaaaaaaaaaaaaa"

// IntegrationSuite provides infrastructure for integration tests
type IntegrationSuite struct {
	T      *testing.T
	Logger *logger.Logger
	Ctx    context.Context
	Cancel context.CancelFunc
}

// NewIntegrationSuite creates a new integration test suite
func NewIntegrationSuite(t *testing.T) *IntegrationSuite {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	log := logger.New(logger.Config{
		Level:  "debug",
		Format: "text",
	})

	return &IntegrationSuite{
		T:      t,
		Logger: log,
		Ctx:    ctx,
		Cancel: cancel,
	}
}

// Cleanup releases the suite's resources
func (s *IntegrationSuite) Cleanup() {
	s.Cancel()
}

// TempDBPath returns a database path under the test's temp directory
func (s *IntegrationSuite) TempDBPath() string {
	return filepath.Join(s.T.TempDir(), "receptions.db")
}

// GetFreePort gets a free port for testing
func (s *IntegrationSuite) GetFreePort() int {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		s.T.Fatalf("Failed to resolve address: %v", err)
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		s.T.Fatalf("Failed to listen: %v", err)
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}
