package decoder

import (
	"fmt"
	"sync"
	"time"

	"github.com/jordens/rtl-433/pkg/bitbuffer"
)

// Record is a successfully recovered transmission. The decoder retains
// no reference to it after returning; ownership moves to the output
// sink.
type Record struct {
	Model string    `json:"model"`
	Raw   string    `json:"raw"`
	MIC   string    `json:"mic"`
	Time  time.Time `json:"time"`
}

// DecodeFunc recovers a record from one capture, or reports a typed
// decode failure.
type DecodeFunc func(*bitbuffer.Buffer) (*Record, error)

// Device describes a registered protocol decoder. The timing constants
// configure the upstream pulse demodulator; decode logic itself never
// reads them.
type Device struct {
	Name        string
	Modulation  string
	ShortWidth  float64 // µs
	LongWidth   float64 // µs
	ResetLimit  float64 // µs
	FrequencyHz uint32
	Decode      DecodeFunc
}

var (
	regMu    sync.RWMutex
	registry []*Device
)

// Register stores a device decoder in memory. Registration order is
// preserved; the capture pipeline tries devices in this order.
func Register(d *Device) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = append(registry, d)
}

// Lookup returns the registered device with the given name.
func Lookup(name string) (*Device, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	for _, d := range registry {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no decoder registered for %q", name)
}

// All returns the registered devices in registration order.
func All() []*Device {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]*Device, len(registry))
	copy(out, registry)
	return out
}
