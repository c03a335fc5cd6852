package decoder

import (
	"errors"
	"fmt"
)

// Decode failures are expected outcomes: a failed decode means "this
// candidate frame is not usable" and the caller moves on to the next
// captured row. None of them are fatal to the process.
var (
	// ErrMultiRowUnsupported rejects captures with more than one row.
	// Structural precondition, not a transient error.
	ErrMultiRowUnsupported = errors.New("capture contains more than one row")

	// ErrNoSync means the sync pattern is absent at every bit offset.
	// The most common outcome on noise or foreign traffic.
	ErrNoSync = errors.New("sync pattern not found")

	// ErrTooShort means the row holds too few bits for a complete
	// frame, checked both before and after the length byte is known.
	ErrTooShort = errors.New("not enough bits for a complete frame")

	// ErrChecksumMismatch matches any ChecksumError via errors.Is.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// ChecksumError reports an integrity failure on a structurally
// well-formed frame. Expected is the checksum computed over the
// recovered frame, Received the value read from the bit-stream.
type ChecksumError struct {
	Expected uint16
	Received uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected %04x, received %04x", e.Expected, e.Received)
}

// Is reports whether target is ErrChecksumMismatch, so callers can
// classify integrity failures without unwrapping the values.
func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksumMismatch
}
