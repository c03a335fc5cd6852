package minol

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/jordens/rtl-433/pkg/bitbuffer"
	"github.com/jordens/rtl-433/pkg/crc"
	"github.com/jordens/rtl-433/pkg/decoder"
)

// buildFrame assembles an over-the-air frame for a cleartext payload:
// sync word, length byte, whitened payload, big-endian CRC-16 over the
// length byte and cleartext payload.
func buildFrame(t *testing.T, payload []byte) []byte {
	t.Helper()
	if len(payload) > MaxPayloadLen {
		t.Fatalf("payload too long: %d", len(payload))
	}

	frame := append([]byte{}, syncPattern...)
	frame = append(frame, byte(len(payload)))

	whitened := append([]byte{}, payload...)
	whiten(whitened)
	frame = append(frame, whitened...)

	crcInput := append([]byte{byte(len(payload))}, payload...)
	return crc.Append16(frame, crcInput, crcPoly, crcInit)
}

func captureFromBytes(data []byte) *bitbuffer.Buffer {
	var r bitbuffer.Row
	r.AppendBytes(data)
	return bitbuffer.NewBuffer(r)
}

func TestWhiten_Involution(t *testing.T) {
	for length := 0; length <= MaxPayloadLen; length++ {
		payload := make([]byte, length)
		for i := range payload {
			payload[i] = byte(i*7 + length)
		}
		original := append([]byte{}, payload...)

		whiten(payload)
		if length > 0 && bytes.Equal(payload, original) {
			t.Fatalf("length %d: whitening changed nothing", length)
		}
		whiten(payload)
		if !bytes.Equal(payload, original) {
			t.Fatalf("length %d: double whitening did not recover payload", length)
		}
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	maxPayload := make([]byte, MaxPayloadLen)
	for i := range maxPayload {
		maxPayload[i] = byte(255 - i)
	}

	tests := []struct {
		name    string
		payload []byte
	}{
		{"empty payload", nil},
		{"two zero bytes", []byte{0x00, 0x00}},
		{"three bytes", []byte{0xde, 0xad, 0xbe}},
		{"max length", maxPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode(captureFromBytes(buildFrame(t, tt.payload)))
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if rec.Model != "Minol" {
				t.Errorf("expected model Minol, got %q", rec.Model)
			}
			if rec.MIC != "CRC" {
				t.Errorf("expected integrity tag CRC, got %q", rec.MIC)
			}
			if rec.Raw != hex.EncodeToString(tt.payload) {
				t.Errorf("expected payload hex %q, got %q", hex.EncodeToString(tt.payload), rec.Raw)
			}
		})
	}
}

func TestDecode_ConcreteFrame(t *testing.T) {
	// Length 2, payload 00 00 whitened to ff e1, CRC-16 of 02 00 00.
	frame, err := hex.DecodeString("d391d39102ffe10e28")
	if err != nil {
		t.Fatal(err)
	}

	rec, decErr := Decode(captureFromBytes(frame))
	if decErr != nil {
		t.Fatalf("decode failed: %v", decErr)
	}
	if rec.Raw != "0000" {
		t.Errorf("expected payload hex 0000, got %q", rec.Raw)
	}
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	frame, err := hex.DecodeString("d391d39102ffe10e28")
	if err != nil {
		t.Fatal(err)
	}
	frame[len(frame)-1]++ // corrupt last checksum byte

	_, decErr := Decode(captureFromBytes(frame))
	if decErr == nil {
		t.Fatal("expected checksum mismatch")
	}
	if !errors.Is(decErr, decoder.ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", decErr)
	}

	var ce *decoder.ChecksumError
	if !errors.As(decErr, &ce) {
		t.Fatalf("expected ChecksumError, got %T", decErr)
	}
	if ce.Expected != 0x0E28 {
		t.Errorf("expected computed checksum 0e28, got %04x", ce.Expected)
	}
	if ce.Received != 0x0E29 {
		t.Errorf("expected received checksum 0e29, got %04x", ce.Received)
	}
}

func TestDecode_AnyChecksumBitFlipFails(t *testing.T) {
	valid := buildFrame(t, []byte{0x12, 0x34, 0x56})

	for bit := 0; bit < 16; bit++ {
		frame := append([]byte{}, valid...)
		frame[len(frame)-2+bit/8] ^= 1 << (7 - uint(bit)%8)

		_, err := Decode(captureFromBytes(frame))
		if !errors.Is(err, decoder.ErrChecksumMismatch) {
			t.Errorf("checksum bit %d flipped: expected mismatch, got %v", bit, err)
		}
	}
}

func TestDecode_NoSync(t *testing.T) {
	noise := bytes.Repeat([]byte{0xaa}, 16)

	_, err := Decode(captureFromBytes(noise))
	if !errors.Is(err, decoder.ErrNoSync) {
		t.Fatalf("expected no-sync failure, got %v", err)
	}
}

func TestDecode_TooShortBeforeLength(t *testing.T) {
	// Sync plus length byte, but one bit short of room for the
	// checksum: 55 of the minimum 56 bits.
	var r bitbuffer.Row
	r.AppendBytes([]byte{0xd3, 0x91, 0xd3, 0x91, 0x02, 0xff})
	for i := 0; i < 7; i++ {
		r.AppendBit(0)
	}
	if r.Len() != 55 {
		t.Fatalf("expected 55-bit row, got %d", r.Len())
	}

	_, err := Decode(bitbuffer.NewBuffer(r))
	if !errors.Is(err, decoder.ErrTooShort) {
		t.Fatalf("expected too-short failure, got %v", err)
	}
}

func TestDecode_TooShortAfterLength(t *testing.T) {
	// Length byte declares 16 payload bytes but only 4 follow.
	data := []byte{0xd3, 0x91, 0xd3, 0x91, 0x10, 0x01, 0x02, 0x03, 0x04}

	_, err := Decode(captureFromBytes(data))
	if !errors.Is(err, decoder.ErrTooShort) {
		t.Fatalf("expected too-short failure, got %v", err)
	}
}

func TestDecode_MultiRowRejected(t *testing.T) {
	frame := buildFrame(t, []byte{0x01})
	var r1, r2 bitbuffer.Row
	r1.AppendBytes(frame)
	r2.AppendBytes(frame)

	_, err := Decode(bitbuffer.NewBuffer(r1, r2))
	if !errors.Is(err, decoder.ErrMultiRowUnsupported) {
		t.Fatalf("expected multi-row rejection, got %v", err)
	}
}

func TestDecode_UnalignedSync(t *testing.T) {
	// Leading noise bits push the frame off byte alignment.
	var r bitbuffer.Row
	r.AppendBit(1)
	r.AppendBit(0)
	r.AppendBit(1)
	r.AppendBytes([]byte{0xaa, 0xaa})
	r.AppendBytes(buildFrame(t, []byte{0xca, 0xfe}))

	rec, err := Decode(bitbuffer.NewBuffer(r))
	if err != nil {
		t.Fatalf("decode failed on unaligned sync: %v", err)
	}
	if rec.Raw != "cafe" {
		t.Errorf("expected payload hex cafe, got %q", rec.Raw)
	}
}

func TestDecode_TrailingBitsIgnored(t *testing.T) {
	frame := buildFrame(t, []byte{0x42})
	frame = append(frame, 0x5a, 0xa5) // demodulator tail noise

	rec, err := Decode(captureFromBytes(frame))
	if err != nil {
		t.Fatalf("decode failed with trailing bits: %v", err)
	}
	if rec.Raw != "42" {
		t.Errorf("expected payload hex 42, got %q", rec.Raw)
	}
}

func TestDeviceRegistration(t *testing.T) {
	dev, err := decoder.Lookup("Minol")
	if err != nil {
		t.Fatalf("device not registered: %v", err)
	}
	if dev.Modulation != "FSK_PCM" {
		t.Errorf("expected FSK_PCM modulation, got %q", dev.Modulation)
	}
	if dev.ShortWidth != 30.52 || dev.LongWidth != 30.52 {
		t.Errorf("unexpected timing: short=%v long=%v", dev.ShortWidth, dev.LongWidth)
	}
	if dev.Decode == nil {
		t.Error("expected decode function to be set")
	}
}
