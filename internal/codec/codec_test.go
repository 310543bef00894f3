package codec

import (
	"bytes"
	"testing"

	"github.com/five82/gitflix/internal/frame"
)

func solidFrame(t *testing.T, w, h, c uint32, value byte) *frame.RawFrame {
	t.Helper()
	pixels := bytes.Repeat([]byte{value}, int(w)*int(h)*int(c))
	f, err := frame.NewRawFrame(w, h, c, pixels)
	if err != nil {
		t.Fatalf("NewRawFrame: %v", err)
	}
	return f
}

func TestRawCodecIdentity(t *testing.T) {
	f := solidFrame(t, 8, 8, 3, 0x42)
	payload, err := EncodeRaw(f)
	if err != nil {
		t.Fatalf("EncodeRaw: %v", err)
	}
	got, err := DecodeRaw(payload, f.Width, f.Height, f.Channels)
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if !bytes.Equal(got.Pixels, f.Pixels) {
		t.Fatalf("raw codec round trip mismatch")
	}
}

func TestDeltaIdenticalFrames(t *testing.T) {
	prev := solidFrame(t, 8, 8, 3, 0x80)
	cur := solidFrame(t, 8, 8, 3, 0x80)

	transform, ok := buildDeltaTransform(prev.Pixels, cur.Pixels)
	if !ok {
		t.Fatalf("expected no clamping for identical frames")
	}
	// 192 identical bytes fit under the 255-per-run cap, so the whole
	// frame is a single identical run.
	want := []byte{cmdRun, 192}
	if !bytes.Equal(transform, want) {
		t.Fatalf("unexpected transform for identical frames: %v", transform)
	}

	payload, ok, err := EncodeDelta(prev, cur)
	if err != nil || !ok {
		t.Fatalf("EncodeDelta: ok=%v err=%v", ok, err)
	}
	got, err := DecodeDelta(payload, cur.Width, cur.Height, cur.Channels, prev)
	if err != nil {
		t.Fatalf("DecodeDelta: %v", err)
	}
	if !bytes.Equal(got.Pixels, cur.Pixels) {
		t.Fatalf("decoded delta does not match cur")
	}
}

func TestDeltaRunsSplitAtCap(t *testing.T) {
	// 600 identical bytes exceed the 255-per-run cap, so the transform
	// must emit runs of 255, 255, 90.
	prev := solidFrame(t, 10, 20, 3, 0x10)
	cur := solidFrame(t, 10, 20, 3, 0x10)

	transform, ok := buildDeltaTransform(prev.Pixels, cur.Pixels)
	if !ok {
		t.Fatalf("expected no clamping for identical frames")
	}
	want := []byte{cmdRun, 255, cmdRun, 255, cmdRun, 90}
	if !bytes.Equal(transform, want) {
		t.Fatalf("unexpected transform for a 600-byte identical frame: %v", transform)
	}

	payload, ok, err := EncodeDelta(prev, cur)
	if err != nil || !ok {
		t.Fatalf("EncodeDelta: ok=%v err=%v", ok, err)
	}
	got, err := DecodeDelta(payload, cur.Width, cur.Height, cur.Channels, prev)
	if err != nil {
		t.Fatalf("DecodeDelta: %v", err)
	}
	if !bytes.Equal(got.Pixels, cur.Pixels) {
		t.Fatalf("decoded delta does not match cur")
	}
}

func TestDeltaSmallDiff(t *testing.T) {
	prev := solidFrame(t, 4, 4, 3, 100)
	cur := solidFrame(t, 4, 4, 3, 100)
	cur.Pixels[5] = 110

	payload, ok, err := EncodeDelta(prev, cur)
	if err != nil || !ok {
		t.Fatalf("EncodeDelta: ok=%v err=%v", ok, err)
	}
	got, err := DecodeDelta(payload, cur.Width, cur.Height, cur.Channels, prev)
	if err != nil {
		t.Fatalf("DecodeDelta: %v", err)
	}
	for i, b := range got.Pixels {
		want := byte(100)
		if i == 5 {
			want = 110
		}
		if b != want {
			t.Fatalf("byte %d = %d, want %d", i, b, want)
		}
	}
}

func TestDeltaFallbackOnOverflow(t *testing.T) {
	prev := solidFrame(t, 4, 4, 3, 0)
	cur := solidFrame(t, 4, 4, 3, 200)

	_, ok, err := EncodeDelta(prev, cur)
	if err != nil {
		t.Fatalf("EncodeDelta: %v", err)
	}
	if ok {
		t.Fatalf("expected overflow fallback, got ok=true")
	}

	enc, err := SelectAndEncode(prev, cur)
	if err != nil {
		t.Fatalf("SelectAndEncode: %v", err)
	}
	if enc.Type != frame.Raw {
		t.Fatalf("expected RAW fallback, got %v", enc.Type)
	}
	got, err := DecodeRaw(enc.Payload, cur.Width, cur.Height, cur.Channels)
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if !bytes.Equal(got.Pixels, cur.Pixels) {
		t.Fatalf("decoded fallback frame does not match cur")
	}
}

func TestSelectAndEncodeFirstFrameIsRaw(t *testing.T) {
	cur := solidFrame(t, 8, 8, 3, 1)
	enc, err := SelectAndEncode(nil, cur)
	if err != nil {
		t.Fatalf("SelectAndEncode: %v", err)
	}
	if enc.Type != frame.Raw {
		t.Fatalf("frame 0 must be RAW, got %v", enc.Type)
	}
}

func TestDecodeDeltaMissingReference(t *testing.T) {
	_, err := DecodeDelta([]byte{}, 4, 4, 3, nil)
	if _, ok := err.(*MissingReferenceError); !ok {
		t.Fatalf("want MissingReferenceError, got %v", err)
	}
}

func TestDecodeDeltaDimensionMismatch(t *testing.T) {
	prev := solidFrame(t, 4, 4, 3, 0)

	_, err := DecodeDelta([]byte{}, 8, 8, 3, prev)
	if _, ok := err.(*DimensionMismatchError); !ok {
		t.Fatalf("want DimensionMismatchError, got %v", err)
	}
}

func TestDecodeRejectsDeltaAgainstMismatchedPredecessor(t *testing.T) {
	prev := solidFrame(t, 4, 4, 3, 0)
	cur := solidFrame(t, 8, 8, 3, 0)

	payload, err := EncodeRaw(cur)
	if err != nil {
		t.Fatalf("EncodeRaw: %v", err)
	}

	_, err = Decode(frame.Delta, payload, cur.Width, cur.Height, cur.Channels, prev)
	if _, ok := err.(*DimensionMismatchError); !ok {
		t.Fatalf("want DimensionMismatchError from Decode, got %v", err)
	}
}

func TestEncodeDeltaDimensionMismatch(t *testing.T) {
	prev := solidFrame(t, 4, 4, 3, 0)
	cur := solidFrame(t, 8, 8, 3, 0)

	_, _, err := EncodeDelta(prev, cur)
	if _, ok := err.(*DimensionMismatchError); !ok {
		t.Fatalf("want DimensionMismatchError, got %v", err)
	}
}

func TestDecodeFallsBackToRawWhenNoPredecessor(t *testing.T) {
	cur := solidFrame(t, 4, 4, 3, 9)
	payload, err := EncodeRaw(cur)
	if err != nil {
		t.Fatalf("EncodeRaw: %v", err)
	}
	got, err := Decode(frame.Delta, payload, cur.Width, cur.Height, cur.Channels, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got.Pixels, cur.Pixels) {
		t.Fatalf("lenient decode mismatch")
	}

	_, err = DecodeStrict(frame.Delta, payload, cur.Width, cur.Height, cur.Channels, nil)
	if _, ok := err.(*MissingReferenceError); !ok {
		t.Fatalf("want MissingReferenceError from strict decode, got %v", err)
	}
}
