package frame

import (
	"bytes"
	"testing"
)

func testDims() Dimensions {
	return Dimensions{Width: 8, Height: 8, Channels: 3}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	r := &FrameRecord{
		FrameNumber:     7,
		Width:           8,
		Height:          8,
		Channels:        3,
		CompressionType: Raw,
		Payload:         bytes.Repeat([]byte{0xAB}, 192),
	}

	buf := Serialize(r)
	got, err := Deserialize(buf, testDims())
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	if got.FrameNumber != r.FrameNumber || got.Width != r.Width || got.Height != r.Height ||
		got.Channels != r.Channels || got.CompressionType != r.CompressionType {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, r)
	}
	if !bytes.Equal(got.Payload, r.Payload) {
		t.Fatalf("payload mismatch after round trip")
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	r := &FrameRecord{Width: 8, Height: 8, Channels: 3, CompressionType: Raw, Payload: []byte{1, 2, 3}}
	buf := Serialize(r)
	buf[0] ^= 0xFF

	_, err := Deserialize(buf, testDims())
	if _, ok := err.(*MalformedError); !ok {
		t.Fatalf("want *MalformedError for bad magic, got %v", err)
	}
}

func TestDeserializeRejectsCorruptPayload(t *testing.T) {
	r := &FrameRecord{Width: 8, Height: 8, Channels: 3, CompressionType: Raw, Payload: []byte{1, 2, 3, 4}}
	buf := Serialize(r)
	buf[HeaderSize] ^= 0x01 // flip a payload bit, checksum now stale

	_, err := Deserialize(buf, testDims())
	if _, ok := err.(*MalformedError); !ok {
		t.Fatalf("want *MalformedError for checksum mismatch, got %v", err)
	}
}

func TestDeserializeRejectsNonZeroReserved(t *testing.T) {
	r := &FrameRecord{Width: 8, Height: 8, Channels: 3, CompressionType: Raw, Payload: []byte{1}}
	buf := Serialize(r)
	buf[29] = 1

	_, err := Deserialize(buf, testDims())
	if _, ok := err.(*MalformedError); !ok {
		t.Fatalf("want *MalformedError for non-zero reserved byte, got %v", err)
	}
}

func TestDeserializeRejectsDimensionMismatch(t *testing.T) {
	r := &FrameRecord{Width: 4, Height: 4, Channels: 3, CompressionType: Raw, Payload: []byte{1}}
	buf := Serialize(r)

	_, err := Deserialize(buf, testDims())
	if _, ok := err.(*MalformedError); !ok {
		t.Fatalf("want *MalformedError for dimension mismatch, got %v", err)
	}
}

func TestDeserializeRejectsUnknownCompressionType(t *testing.T) {
	r := &FrameRecord{Width: 8, Height: 8, Channels: 3, CompressionType: CompressionType(2), Payload: []byte{1}}
	buf := Serialize(r)

	_, err := Deserialize(buf, testDims())
	if _, ok := err.(*MalformedError); !ok {
		t.Fatalf("want *MalformedError for reserved compression type, got %v", err)
	}
}

func TestNewRawFrameValidatesLength(t *testing.T) {
	if _, err := NewRawFrame(8, 8, 3, make([]byte, 10)); err == nil {
		t.Fatalf("expected error for mismatched pixel buffer length")
	}
	if _, err := NewRawFrame(8, 8, 3, make([]byte, 192)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
