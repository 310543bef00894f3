package codec

import (
	"fmt"

	"github.com/five82/gitflix/internal/frame"
)

const (
	cmdRun  byte = 0x00 // identical run: (0x00, r)
	cmdDiff byte = 0x01 // differing run: (0x01, d, δ0..δd-1)
)

// EncodeDelta builds the run-length delta transform of cur against prev
// and entropy-codes it. ok is false when any byte's
// signed delta would fall outside [-128, 127] and require clamping on
// decode; the caller must fall back to RAW for the whole frame in that
// case, so no payload is returned.
func EncodeDelta(prev, cur *frame.RawFrame) (payload []byte, ok bool, err error) {
	if !prev.SameDimensions(cur) {
		return nil, false, &DimensionMismatchError{Reason: fmt.Sprintf(
			"predecessor is %dx%dx%d, current is %dx%dx%d",
			prev.Width, prev.Height, prev.Channels, cur.Width, cur.Height, cur.Channels)}
	}

	transform, ok := buildDeltaTransform(prev.Pixels, cur.Pixels)
	if !ok {
		return nil, false, nil
	}

	encoded, err := entropyEncode(transform)
	if err != nil {
		return nil, false, fmt.Errorf("codec: encode delta: %w", err)
	}
	return encoded, true, nil
}

// buildDeltaTransform implements the run-length command stream. It
// returns ok=false the moment a byte's signed delta would need clamping.
func buildDeltaTransform(prevPixels, curPixels []byte) ([]byte, bool) {
	n := len(curPixels)
	out := make([]byte, 0, 2*n)

	i := 0
	for i < n {
		if curPixels[i] == prevPixels[i] {
			r := runLength(prevPixels, curPixels, i, n, true)
			out = append(out, cmdRun, byte(r))
			i += r
			continue
		}

		d := runLength(prevPixels, curPixels, i, n, false)
		out = append(out, cmdDiff, byte(d))
		for k := 0; k < d; k++ {
			diff := int(curPixels[i+k]) - int(prevPixels[i+k])
			if diff < -128 || diff > 127 {
				return nil, false
			}
			out = append(out, byte(diff))
		}
		i += d
	}

	return out, true
}

// runLength returns the length, capped at 255, of the longest run
// starting at i where cur[k]==prev[k] (identical=true) or cur[k]!=prev[k]
// (identical=false).
func runLength(prevPixels, curPixels []byte, i, n int, identical bool) int {
	length := 0
	for i+length < n && length < 255 {
		same := curPixels[i+length] == prevPixels[i+length]
		if same != identical {
			break
		}
		length++
	}
	return length
}

// DecodeDelta reconstructs cur from a DELTA payload and the predecessor
// frame prev. width/height/channels are the current frame's declared
// dimensions (from its FrameRecord header); DecodeDelta rejects a
// predecessor whose dimensions differ from them with
// DimensionMismatchError.
func DecodeDelta(payload []byte, width, height, channels uint32, prev *frame.RawFrame) (*frame.RawFrame, error) {
	if prev == nil {
		return nil, &MissingReferenceError{}
	}
	if prev.Width != width || prev.Height != height || prev.Channels != channels {
		return nil, &DimensionMismatchError{Reason: fmt.Sprintf(
			"predecessor is %dx%dx%d, current frame declares %dx%dx%d",
			prev.Width, prev.Height, prev.Channels, width, height, channels)}
	}

	transform, err := entropyDecode(payload)
	if err != nil {
		return nil, err
	}

	cur := make([]byte, len(prev.Pixels))
	copy(cur, prev.Pixels)

	pos := 0
	cursor := 0
	n := len(cur)
	for pos < len(transform) {
		if pos+2 > len(transform) {
			return nil, &DecompressError{Reason: "truncated command stream"}
		}
		op := transform[pos]
		count := int(transform[pos+1])
		pos += 2

		switch op {
		case cmdRun:
			cursor += count
		case cmdDiff:
			if pos+count > len(transform) {
				return nil, &DecompressError{Reason: "truncated delta command payload"}
			}
			if cursor+count > n {
				return nil, &DecompressError{Reason: "delta command overruns frame buffer"}
			}
			for k := 0; k < count; k++ {
				delta := int(int8(transform[pos+k])) // sign-extend
				val := int(prev.Pixels[cursor+k]) + delta
				cur[cursor+k] = clampByte(val)
			}
			pos += count
			cursor += count
		default:
			return nil, &DecompressError{Reason: fmt.Sprintf("unknown delta opcode 0x%02x", op)}
		}
	}

	if cursor != n {
		return nil, &DecompressError{Reason: fmt.Sprintf("delta command stream covered %d of %d bytes", cursor, n)}
	}

	return &frame.RawFrame{Width: prev.Width, Height: prev.Height, Channels: prev.Channels, Pixels: cur}, nil
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
