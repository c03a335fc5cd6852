// Package minol decodes Minol/Brunata smoke detectors (Minoprotect 4
// radio), water, and heating energy (Minocal) counters.
//
// FSK PCM, 868.3 MHz, 32.768 kHz bit clock (30.52 µs). Most likely
// based on the TI CC1101 as it takes all the chip's default settings:
// whitening sequence, CRC polynomial, sync word.
//
// Over-the-air frame layout after the 0xaaaaaaaa preamble:
//
//	Syncword {32} 0xd391d391
//	Length   {8}
//	Payload  {n}  PN9 whitened
//	Checksum {16} CRC-16 poly=0x8005 init=0xffff, big-endian
//
// The length byte and checksum are not whitened; the checksum covers
// the length byte and the de-whitened payload.
package minol

import (
	"encoding/hex"
	"time"

	"github.com/jordens/rtl-433/pkg/bitbuffer"
	"github.com/jordens/rtl-433/pkg/crc"
	"github.com/jordens/rtl-433/pkg/decoder"
)

const (
	syncBits     = 32
	lengthBits   = 8
	checksumBits = 16

	crcPoly = 0x8005
	crcInit = 0xFFFF

	// MaxPayloadLen is the largest payload the 8-bit length field can
	// declare, matching the CC1101 maximum packet size.
	MaxPayloadLen = 255
)

// Frame sync (access code). The bit-sync preamble ahead of it is
// consumed by the demodulator.
var syncPattern = []byte{0xd3, 0x91, 0xd3, 0x91}

func init() {
	decoder.Register(&decoder.Device{
		Name:        "Minol",
		Modulation:  "FSK_PCM",
		ShortWidth:  30.52,
		LongWidth:   30.52,
		ResetLimit:  1000,
		FrequencyHz: 868300000,
		Decode:      Decode,
	})
}

// Decode recovers a single Minol frame from one captured bit-stream.
// It is stateless and safe for concurrent callers; each invocation
// works a single linear pass over its own row and fails fast with one
// of the decoder package's typed errors.
func Decode(buf *bitbuffer.Buffer) (*decoder.Record, error) {
	if buf.NumRows() != 1 {
		return nil, decoder.ErrMultiRowUnsupported
	}
	row := buf.Row(0)

	start, found := row.Search(0, syncPattern, syncBits)
	if !found {
		return nil, decoder.ErrNoSync
	}

	// Enough bits for sync, length byte and checksum before reading
	// the length.
	if row.Len()-start < syncBits+lengthBits+checksumBits {
		return nil, decoder.ErrTooShort
	}

	lenByte, err := row.ExtractBytes(start+syncBits, 1)
	if err != nil {
		return nil, decoder.ErrTooShort
	}
	length := int(lenByte[0])

	// Recheck now that the declared payload length is known.
	if row.Len()-start < syncBits+lengthBits+length*8+checksumBits {
		return nil, decoder.ErrTooShort
	}

	// Whitened payload followed by the received checksum.
	body, err := row.ExtractBytes(start+syncBits+lengthBits, length+2)
	if err != nil {
		return nil, decoder.ErrTooShort
	}
	payload := body[:length]
	whiten(payload)

	crcInput := make([]byte, 0, 1+length)
	crcInput = append(crcInput, byte(length))
	crcInput = append(crcInput, payload...)

	expected := crc.Checksum16(crcInput, crcPoly, crcInit)
	received := uint16(body[length])<<8 | uint16(body[length+1])
	if expected != received {
		return nil, &decoder.ChecksumError{Expected: expected, Received: received}
	}

	return &decoder.Record{
		Model: "Minol",
		Raw:   hex.EncodeToString(payload),
		MIC:   "CRC",
		Time:  time.Now(),
	}, nil
}
