package bitbuffer

import (
	"bytes"
	"testing"
)

func TestRow_NewRowTruncatesBitCount(t *testing.T) {
	r := NewRow([]byte{0xff, 0xff}, 12)
	if r.Len() != 12 {
		t.Fatalf("expected 12 bits, got %d", r.Len())
	}

	// Bit count larger than the data is clamped
	r = NewRow([]byte{0xff}, 100)
	if r.Len() != 8 {
		t.Fatalf("expected clamp to 8 bits, got %d", r.Len())
	}
}

func TestRow_AppendBitAndBytes(t *testing.T) {
	var r Row
	r.AppendBit(1)
	r.AppendBit(0)
	r.AppendBit(1)
	r.AppendBytes([]byte{0xd3, 0x91})

	if r.Len() != 3+16 {
		t.Fatalf("expected 19 bits, got %d", r.Len())
	}

	// 101 followed by 11010011 10010001
	want := []byte{1, 0, 1, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if r.Bit(i) != w {
			t.Errorf("bit %d: expected %d, got %d", i, w, r.Bit(i))
		}
	}
}

func TestRow_SearchByteAligned(t *testing.T) {
	var r Row
	r.AppendBytes([]byte{0xaa, 0xaa, 0xd3, 0x91, 0xd3, 0x91, 0x00})

	pos, found := r.Search(0, []byte{0xd3, 0x91, 0xd3, 0x91}, 32)
	if !found {
		t.Fatal("expected pattern to be found")
	}
	if pos != 16 {
		t.Errorf("expected match at bit 16, got %d", pos)
	}
}

func TestRow_SearchUnaligned(t *testing.T) {
	var r Row
	// 5 leading bits shift the pattern off byte alignment
	for i := 0; i < 5; i++ {
		r.AppendBit(0)
	}
	r.AppendBytes([]byte{0xd3, 0x91, 0xd3, 0x91})
	r.AppendBit(1)

	pos, found := r.Search(0, []byte{0xd3, 0x91, 0xd3, 0x91}, 32)
	if !found {
		t.Fatal("expected pattern to be found at unaligned offset")
	}
	if pos != 5 {
		t.Errorf("expected match at bit 5, got %d", pos)
	}
}

func TestRow_SearchNotFound(t *testing.T) {
	var r Row
	r.AppendBytes([]byte{0xaa, 0xaa, 0xaa, 0xaa, 0xaa, 0xaa})

	pos, found := r.Search(0, []byte{0xd3, 0x91, 0xd3, 0x91}, 32)
	if found {
		t.Fatalf("expected no match, got one at %d", pos)
	}
	if pos != r.Len() {
		t.Errorf("expected sentinel position %d, got %d", r.Len(), pos)
	}
}

func TestRow_SearchPatternLongerThanRow(t *testing.T) {
	var r Row
	r.AppendBytes([]byte{0xd3, 0x91})

	if _, found := r.Search(0, []byte{0xd3, 0x91, 0xd3, 0x91}, 32); found {
		t.Fatal("expected no match when pattern exceeds row length")
	}
}

func TestRow_SearchFromOffset(t *testing.T) {
	var r Row
	r.AppendBytes([]byte{0xd3, 0x91, 0x00, 0xd3, 0x91, 0x00})

	pos, found := r.Search(8, []byte{0xd3, 0x91}, 16)
	if !found {
		t.Fatal("expected second occurrence to be found")
	}
	if pos != 24 {
		t.Errorf("expected match at bit 24, got %d", pos)
	}
}

func TestRow_ExtractBytesAligned(t *testing.T) {
	var r Row
	r.AppendBytes([]byte{0x01, 0x02, 0x03, 0x04})

	got, err := r.ExtractBytes(8, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x02, 0x03}) {
		t.Errorf("expected 02 03, got %x", got)
	}
}

func TestRow_ExtractBytesUnaligned(t *testing.T) {
	var r Row
	// 3 leading ones, then the bytes of interest
	r.AppendBit(1)
	r.AppendBit(1)
	r.AppendBit(1)
	r.AppendBytes([]byte{0xde, 0xad, 0xbe, 0xef})

	got, err := r.ExtractBytes(3, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("expected de ad be ef, got %x", got)
	}
}

func TestRow_ExtractBytesOutOfBounds(t *testing.T) {
	var r Row
	r.AppendBytes([]byte{0x01, 0x02})

	if _, err := r.ExtractBytes(8, 2); err == nil {
		t.Error("expected error for extraction past end of row")
	}
	if _, err := r.ExtractBytes(-1, 1); err == nil {
		t.Error("expected error for negative offset")
	}
}

func TestBuffer_Rows(t *testing.T) {
	var r1, r2 Row
	r1.AppendBytes([]byte{0x01})
	r2.AppendBytes([]byte{0x02})

	buf := NewBuffer(r1)
	if buf.NumRows() != 1 {
		t.Fatalf("expected 1 row, got %d", buf.NumRows())
	}

	buf.AddRow(r2)
	if buf.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", buf.NumRows())
	}
	if buf.Row(1).Bytes()[0] != 0x02 {
		t.Error("expected second row data to be preserved")
	}
}
