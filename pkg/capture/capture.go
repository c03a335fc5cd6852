// Package capture feeds demodulated bit-rows into the registered
// device decoders. The demodulator itself runs outside this process;
// its output arrives as a line-oriented stream, one captured row per
// line as hex with an optional /bitcount suffix for rows that do not
// end on a byte boundary.
package capture

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jordens/rtl-433/pkg/bitbuffer"
	"github.com/jordens/rtl-433/pkg/decoder"
	"github.com/jordens/rtl-433/pkg/logger"
	"github.com/jordens/rtl-433/pkg/metrics"
)

// ParseRow parses one input line into a bit row. Accepted forms:
//
//	d391d39102ffe10e28
//	d391d39102ff/47
//
// The suffix truncates the row to the given bit count.
func ParseRow(line string) (bitbuffer.Row, error) {
	hexPart := line
	bits := -1

	if idx := strings.IndexByte(line, '/'); idx >= 0 {
		hexPart = line[:idx]
		n, err := strconv.Atoi(line[idx+1:])
		if err != nil || n < 0 {
			return bitbuffer.Row{}, fmt.Errorf("invalid bit count %q", line[idx+1:])
		}
		bits = n
	}

	data, err := hex.DecodeString(hexPart)
	if err != nil {
		return bitbuffer.Row{}, fmt.Errorf("invalid row hex %q: %w", hexPart, err)
	}

	if bits < 0 {
		bits = len(data) * 8
	}
	if bits > len(data)*8 {
		return bitbuffer.Row{}, fmt.Errorf("bit count %d exceeds %d data bits", bits, len(data)*8)
	}
	return bitbuffer.NewRow(data, bits), nil
}

// RecordFunc receives each successfully decoded record.
type RecordFunc func(dev *decoder.Device, rec *decoder.Record)

// Pipeline runs every configured device decoder over each captured
// row. Decode failures are expected outcomes: they are counted and
// logged at debug level, and the pipeline moves on to the next row.
type Pipeline struct {
	devices   []*decoder.Device
	log       *logger.Logger
	collector *metrics.Collector
	onRecord  RecordFunc
	logFrames bool
}

// NewPipeline creates a pipeline over the given devices. collector and
// onRecord may be nil.
func NewPipeline(devices []*decoder.Device, log *logger.Logger, collector *metrics.Collector, onRecord RecordFunc) *Pipeline {
	return &Pipeline{
		devices:   devices,
		log:       log.WithComponent("capture"),
		collector: collector,
		onRecord:  onRecord,
	}
}

// SetLogFrames enables the row-contents diagnostic hook on decode
// attempts.
func (p *Pipeline) SetLogFrames(enabled bool) {
	p.logFrames = enabled
}

// Run consumes rows from r until EOF or context cancellation. Lines
// that are empty or start with '#' are skipped.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		row, err := ParseRow(line)
		if err != nil {
			p.log.Warn("Skipping malformed input line", logger.Error(err))
			continue
		}

		p.Process(bitbuffer.NewBuffer(row))
	}

	return scanner.Err()
}

// Process runs all devices over one capture.
func (p *Pipeline) Process(buf *bitbuffer.Buffer) {
	if p.collector != nil {
		bits := 0
		for i := 0; i < buf.NumRows(); i++ {
			bits += buf.Row(i).Len()
		}
		p.collector.RowReceived(bits)
	}

	if p.logFrames && buf.NumRows() == 1 {
		p.log.Debug("Row received",
			logger.Hex("bits", buf.Row(0).Bytes()),
			logger.Int("bit_count", buf.Row(0).Len()))
	}

	for _, dev := range p.devices {
		rec, err := dev.Decode(buf)
		if err != nil {
			p.countFailure(err)
			p.log.Debug("Decode failed",
				logger.String("device", dev.Name),
				logger.Error(err))
			continue
		}

		if p.collector != nil {
			p.collector.RecordDecoded(rec.Model, len(rec.Raw)/2)
		}
		p.log.Info("Decoded record",
			logger.String("model", rec.Model),
			logger.String("raw", rec.Raw),
			logger.String("mic", rec.MIC))

		if p.onRecord != nil {
			p.onRecord(dev, rec)
		}
	}
}

func (p *Pipeline) countFailure(err error) {
	if p.collector == nil {
		return
	}
	switch {
	case errors.Is(err, decoder.ErrNoSync):
		p.collector.SyncMiss()
	case errors.Is(err, decoder.ErrTooShort):
		p.collector.ShortFrame()
	case errors.Is(err, decoder.ErrChecksumMismatch):
		p.collector.ChecksumFailure()
	case errors.Is(err, decoder.ErrMultiRowUnsupported):
		p.collector.StructuralReject()
	}
}
