package bitbuffer

import (
	"fmt"
)

// Row is a single demodulated bit sequence, one received frame
// candidate. Bits are stored MSB-first within each backing byte, so bit
// position 0 is the most significant bit of the first byte. A Row is
// owned by its caller for the duration of a decode and is never shared.
type Row struct {
	bits []byte
	n    int
}

// NewRow creates a row over a copy of data, truncated to bitCount bits.
func NewRow(data []byte, bitCount int) Row {
	if bitCount < 0 {
		bitCount = 0
	}
	if bitCount > len(data)*8 {
		bitCount = len(data) * 8
	}
	nBytes := (bitCount + 7) / 8
	bits := make([]byte, nBytes)
	copy(bits, data[:nBytes])
	return Row{bits: bits, n: bitCount}
}

// Len returns the number of bits in the row.
func (r *Row) Len() int {
	return r.n
}

// Bytes returns the backing bytes. The final byte is only partially
// significant when Len is not a multiple of 8.
func (r *Row) Bytes() []byte {
	return r.bits
}

// Bit returns the bit at pos as 0 or 1. pos must be within [0, Len).
func (r *Row) Bit(pos int) byte {
	return (r.bits[pos/8] >> (7 - uint(pos)%8)) & 1
}

// AppendBit appends a single bit to the row.
func (r *Row) AppendBit(b byte) {
	if r.n%8 == 0 {
		r.bits = append(r.bits, 0)
	}
	if b != 0 {
		r.bits[r.n/8] |= 1 << (7 - uint(r.n)%8)
	}
	r.n++
}

// AppendBytes appends whole bytes to the row at the current bit
// position, which need not be byte aligned.
func (r *Row) AppendBytes(data []byte) {
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			r.AppendBit((b >> uint(i)) & 1)
		}
	}
}

// Search scans the row for a bit pattern starting at bit offset from,
// testing every bit offset, not just byte-aligned ones. pattern holds
// patternBits significant bits, MSB-first. It returns the bit offset of
// the first match, or (Len, false) when the pattern does not occur
// before the end of the row. The scan is a single linear pass.
func (r *Row) Search(from int, pattern []byte, patternBits int) (int, bool) {
	if from < 0 {
		from = 0
	}
	for pos := from; pos+patternBits <= r.n; pos++ {
		if r.matchAt(pos, pattern, patternBits) {
			return pos, true
		}
	}
	return r.n, false
}

func (r *Row) matchAt(pos int, pattern []byte, patternBits int) bool {
	for i := 0; i < patternBits; i++ {
		pb := (pattern[i/8] >> (7 - uint(i)%8)) & 1
		if r.Bit(pos+i) != pb {
			return false
		}
	}
	return true
}

// ExtractBytes copies numBytes bytes out of the row starting at an
// arbitrary bit offset. The requested run must lie entirely within the
// row; extraction never reads past the declared bit count.
func (r *Row) ExtractBytes(bitOffset, numBytes int) ([]byte, error) {
	if bitOffset < 0 || numBytes < 0 {
		return nil, fmt.Errorf("invalid extraction: offset %d, %d bytes", bitOffset, numBytes)
	}
	if bitOffset+numBytes*8 > r.n {
		return nil, fmt.Errorf("extraction of %d bytes at bit %d exceeds row length %d",
			numBytes, bitOffset, r.n)
	}

	out := make([]byte, numBytes)
	idx := bitOffset / 8
	shift := uint(bitOffset) % 8
	if shift == 0 {
		copy(out, r.bits[idx:idx+numBytes])
		return out, nil
	}
	for i := range out {
		out[i] = r.bits[idx+i]<<shift | r.bits[idx+i+1]>>(8-shift)
	}
	return out, nil
}

// Buffer is one capture result: the set of rows produced by the
// demodulator for a single transmission candidate.
type Buffer struct {
	rows []Row
}

// NewBuffer creates a buffer holding the given rows.
func NewBuffer(rows ...Row) *Buffer {
	return &Buffer{rows: rows}
}

// AddRow appends a row to the buffer.
func (b *Buffer) AddRow(r Row) {
	b.rows = append(b.rows, r)
}

// NumRows returns the number of rows in the buffer.
func (b *Buffer) NumRows() int {
	return len(b.rows)
}

// Row returns the i-th row.
func (b *Buffer) Row(i int) *Row {
	return &b.rows[i]
}
