package codec

import "fmt"

// DecompressError is raised by an entropy-decoder failure, a decoded
// length mismatch, or a truncated delta command stream.
type DecompressError struct {
	Reason string
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("decompress error: %s", e.Reason)
}

// MissingReferenceError is raised when a DELTA frame is presented to a
// strict decoder with no predecessor frame available.
type MissingReferenceError struct{}

func (e *MissingReferenceError) Error() string {
	return "delta frame has no predecessor"
}

// DimensionMismatchError is raised when a DELTA frame's predecessor has
// different (width, height, channels) than the frame itself.
type DimensionMismatchError struct {
	Reason string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: %s", e.Reason)
}
