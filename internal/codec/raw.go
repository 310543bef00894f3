package codec

import (
	"fmt"

	"github.com/five82/gitflix/internal/frame"
)

// EncodeRaw entropy-codes a frame's pixel bytes directly.
func EncodeRaw(raw *frame.RawFrame) ([]byte, error) {
	payload, err := entropyEncode(raw.Pixels)
	if err != nil {
		return nil, fmt.Errorf("codec: encode raw: %w", err)
	}
	return payload, nil
}

// DecodeRaw entropy-decodes payload and validates the result has exactly
// width*height*channels bytes.
func DecodeRaw(payload []byte, width, height, channels uint32) (*frame.RawFrame, error) {
	pixels, err := entropyDecode(payload)
	if err != nil {
		return nil, err
	}

	want := int(width) * int(height) * int(channels)
	if len(pixels) != want {
		return nil, &DecompressError{Reason: fmt.Sprintf("decoded %d bytes, want %d", len(pixels), want)}
	}

	return &frame.RawFrame{Width: width, Height: height, Channels: channels, Pixels: pixels}, nil
}
