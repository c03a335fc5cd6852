package metrics

import (
	"sync"
)

// Collector collects decode pipeline metrics
type Collector struct {
	mu sync.RWMutex

	// Capture metrics
	rowsReceived uint64
	bitsReceived uint64

	// Decode failure metrics
	syncMisses        uint64
	shortFrames       uint64
	checksumFailures  uint64
	structuralRejects uint64

	// Success metrics
	recordsDecoded map[string]uint64 // key: model tag
	bytesDecoded   uint64
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		recordsDecoded: make(map[string]uint64),
	}
}

// RowReceived records one captured bit-row entering the pipeline
func (c *Collector) RowReceived(bits int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rowsReceived++
	c.bitsReceived += uint64(bits)
}

// SyncMiss records a candidate without the sync pattern
func (c *Collector) SyncMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.syncMisses++
}

// ShortFrame records a candidate with too few bits for a full frame
func (c *Collector) ShortFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shortFrames++
}

// ChecksumFailure records an integrity failure on a well-formed frame
func (c *Collector) ChecksumFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checksumFailures++
}

// StructuralReject records a capture rejected on input shape
func (c *Collector) StructuralReject() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.structuralRejects++
}

// RecordDecoded records a successful decode for a model
func (c *Collector) RecordDecoded(model string, payloadBytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recordsDecoded[model]++
	c.bytesDecoded += uint64(payloadBytes)
}

// Getters for metrics

// GetRowsReceived returns total rows received
func (c *Collector) GetRowsReceived() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rowsReceived
}

// GetBitsReceived returns total bits received
func (c *Collector) GetBitsReceived() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bitsReceived
}

// GetSyncMisses returns total sync misses
func (c *Collector) GetSyncMisses() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.syncMisses
}

// GetShortFrames returns total short-frame rejects
func (c *Collector) GetShortFrames() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shortFrames
}

// GetChecksumFailures returns total checksum failures
func (c *Collector) GetChecksumFailures() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checksumFailures
}

// GetStructuralRejects returns total structural rejects
func (c *Collector) GetStructuralRejects() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.structuralRejects
}

// GetRecordsDecoded returns total successful decodes across all models
func (c *Collector) GetRecordsDecoded() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total uint64
	for _, n := range c.recordsDecoded {
		total += n
	}
	return total
}

// GetRecordsDecodedByModel returns successful decodes per model tag
func (c *Collector) GetRecordsDecodedByModel() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]uint64, len(c.recordsDecoded))
	for model, n := range c.recordsDecoded {
		out[model] = n
	}
	return out
}

// GetBytesDecoded returns total decoded payload bytes
func (c *Collector) GetBytesDecoded() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bytesDecoded
}
