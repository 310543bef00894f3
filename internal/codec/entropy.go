// Package codec implements the two frame compression modes (RAW and
// DELTA), each layered on top of a general purpose lossless entropy
// coder.
package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// entropyEncode compresses an arbitrary byte stream losslessly.
func entropyEncode(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("codec: create entropy encoder: %w", err)
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// entropyDecode reverses entropyEncode. Any corruption in the stream
// surfaces as a DecompressError.
func entropyDecode(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: create entropy decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, &DecompressError{Reason: fmt.Sprintf("entropy decode failed: %v", err)}
	}
	return out, nil
}
