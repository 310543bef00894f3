package codec

import "github.com/five82/gitflix/internal/frame"

// Encoded is the result of mode selection for a single frame: the chosen
// compression type and its payload.
type Encoded struct {
	Type    frame.CompressionType
	Payload []byte
}

// SelectAndEncode picks the compression mode for a single frame. prev
// is nil for frame 0, which is always RAW. Otherwise DELTA is attempted
// against prev; if any byte would need clamping, or the DELTA payload
// turns out no smaller than the RAW payload, RAW is emitted instead.
func SelectAndEncode(prev, cur *frame.RawFrame) (Encoded, error) {
	if prev == nil {
		payload, err := EncodeRaw(cur)
		if err != nil {
			return Encoded{}, err
		}
		return Encoded{Type: frame.Raw, Payload: payload}, nil
	}

	deltaPayload, ok, err := EncodeDelta(prev, cur)
	if err != nil {
		return Encoded{}, err
	}
	if !ok {
		payload, err := EncodeRaw(cur)
		if err != nil {
			return Encoded{}, err
		}
		return Encoded{Type: frame.Raw, Payload: payload}, nil
	}

	rawPayload, err := EncodeRaw(cur)
	if err != nil {
		return Encoded{}, err
	}
	if len(rawPayload) <= len(deltaPayload) {
		return Encoded{Type: frame.Raw, Payload: rawPayload}, nil
	}

	return Encoded{Type: frame.Delta, Payload: deltaPayload}, nil
}

// Decode reverses SelectAndEncode's output given the record's declared
// compression type. When typ is Delta and prev is nil, the decoder
// falls back to RAW decoding: a delta frame with no predecessor can
// only come from a malformed stream, and a well-formed chain never
// produces one, since frame 0 is always RAW.
func Decode(typ frame.CompressionType, payload []byte, width, height, channels uint32, prev *frame.RawFrame) (*frame.RawFrame, error) {
	switch typ {
	case frame.Raw:
		return DecodeRaw(payload, width, height, channels)
	case frame.Delta:
		if prev == nil {
			return DecodeRaw(payload, width, height, channels)
		}
		return DecodeDelta(payload, width, height, channels, prev)
	default:
		return nil, &DecompressError{Reason: "unknown compression type"}
	}
}

// DecodeStrict is like Decode but rejects a DELTA frame with no
// predecessor with MissingReferenceError instead of falling back to
// RAW, for callers that want malformed streams rejected outright.
func DecodeStrict(typ frame.CompressionType, payload []byte, width, height, channels uint32, prev *frame.RawFrame) (*frame.RawFrame, error) {
	if typ == frame.Delta && prev == nil {
		return nil, &MissingReferenceError{}
	}
	return Decode(typ, payload, width, height, channels, prev)
}
