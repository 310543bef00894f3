// Package frame defines the on-disk frame container and the raw pixel
// buffer it carries. The container is a bit-exact binary format: a
// fixed 32-byte header followed by an opaque compressed payload.
package frame

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Magic identifies a GitFlix frame record. Its hex digits read "GVCF";
// written little-endian, the four bytes on disk are "FCVG".
const Magic uint32 = 0x47564346

// HeaderSize is the fixed size of the header preceding the payload.
const HeaderSize = 32

// CompressionType selects the codec used to produce a FrameRecord's payload.
type CompressionType byte

const (
	// Raw frames are decodable without reference to any other frame.
	Raw CompressionType = 0
	// Delta frames are encoded as differences against their predecessor.
	Delta CompressionType = 1
)

func (t CompressionType) String() string {
	switch t {
	case Raw:
		return "raw"
	case Delta:
		return "delta"
	default:
		return fmt.Sprintf("reserved(%d)", byte(t))
	}
}

// RawFrame is an uncompressed image: width*height*channels bytes,
// row-major, top-to-bottom, channels-per-pixel (e.g. [R,G,B]).
type RawFrame struct {
	Width    uint32
	Height   uint32
	Channels uint32
	Pixels   []byte
}

// NewRawFrame validates that pixels has the length width*height*channels
// before returning a RawFrame.
func NewRawFrame(width, height, channels uint32, pixels []byte) (*RawFrame, error) {
	want := int(width) * int(height) * int(channels)
	if len(pixels) != want {
		return nil, fmt.Errorf("frame: pixel buffer has %d bytes, want %d (%dx%dx%d)",
			len(pixels), want, width, height, channels)
	}
	return &RawFrame{Width: width, Height: height, Channels: channels, Pixels: pixels}, nil
}

// SameDimensions reports whether f and other share width, height, and channels.
func (f *RawFrame) SameDimensions(other *RawFrame) bool {
	return f.Width == other.Width && f.Height == other.Height && f.Channels == other.Channels
}

// FrameRecord is the on-disk container for one frame.
type FrameRecord struct {
	FrameNumber     uint32
	Width           uint32
	Height          uint32
	Channels        uint32
	CompressionType CompressionType
	Payload         []byte // opaque, compressed_size == len(Payload)
}

// CompressedSize returns the length of the payload as carried on disk.
func (r *FrameRecord) CompressedSize() uint32 {
	return uint32(len(r.Payload))
}

// Checksum returns the CRC-32/ISO-HDLC checksum of the payload, computed
// with the standard library's IEEE polynomial (the common "CRC-32" variant
// called ISO-HDLC elsewhere): initial 0, reflected input/output.
func (r *FrameRecord) Checksum() uint32 {
	return crc32.ChecksumIEEE(r.Payload)
}

// Dimensions is the fixed frame geometry a codec/container instance is
// configured for (reference: 1920x1080x3).
type Dimensions struct {
	Width    uint32
	Height   uint32
	Channels uint32
}

// Serialize writes r in the on-disk container layout: magic,
// frame_number, width, height, channels, compressed_size, checksum,
// compression_type, 3 reserved zero bytes, then payload.
func Serialize(r *FrameRecord) []byte {
	out := make([]byte, HeaderSize+len(r.Payload))
	binary.LittleEndian.PutUint32(out[0:4], Magic)
	binary.LittleEndian.PutUint32(out[4:8], r.FrameNumber)
	binary.LittleEndian.PutUint32(out[8:12], r.Width)
	binary.LittleEndian.PutUint32(out[12:16], r.Height)
	binary.LittleEndian.PutUint32(out[16:20], r.Channels)
	binary.LittleEndian.PutUint32(out[20:24], r.CompressedSize())
	binary.LittleEndian.PutUint32(out[24:28], r.Checksum())
	out[28] = byte(r.CompressionType)
	// out[29:32] reserved, already zero
	copy(out[HeaderSize:], r.Payload)
	return out
}

// Deserialize parses buf into a FrameRecord, validating it against dims.
// It returns *MalformedError (carrying a more specific reason) on any
// integrity or format violation.
func Deserialize(buf []byte, dims Dimensions) (*FrameRecord, error) {
	if len(buf) < HeaderSize {
		return nil, &MalformedError{Reason: fmt.Sprintf("buffer too short for header: %d bytes", len(buf))}
	}

	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic != Magic {
		return nil, &MalformedError{Reason: fmt.Sprintf("bad magic: 0x%08x", magic)}
	}

	frameNumber := binary.LittleEndian.Uint32(buf[4:8])
	width := binary.LittleEndian.Uint32(buf[8:12])
	height := binary.LittleEndian.Uint32(buf[12:16])
	channels := binary.LittleEndian.Uint32(buf[16:20])
	compressedSize := binary.LittleEndian.Uint32(buf[20:24])
	checksum := binary.LittleEndian.Uint32(buf[24:28])
	compressionByte := buf[28]
	reserved := buf[29:32]

	if width != dims.Width || height != dims.Height || channels != dims.Channels {
		return nil, &MalformedError{
			FrameNumber: frameNumber,
			Reason: fmt.Sprintf("dimensions %dx%dx%d do not match configured target %dx%dx%d",
				width, height, channels, dims.Width, dims.Height, dims.Channels),
		}
	}

	for i, b := range reserved {
		if b != 0 {
			return nil, &MalformedError{FrameNumber: frameNumber, Reason: fmt.Sprintf("reserved byte %d is non-zero", i)}
		}
	}

	if compressionByte != byte(Raw) && compressionByte != byte(Delta) {
		return nil, &MalformedError{FrameNumber: frameNumber, Reason: fmt.Sprintf("unknown compression_type %d", compressionByte)}
	}

	if uint64(len(buf)) < uint64(HeaderSize)+uint64(compressedSize) {
		return nil, &MalformedError{
			FrameNumber: frameNumber,
			Reason:      fmt.Sprintf("buffer holds %d bytes, record needs %d", len(buf), HeaderSize+int(compressedSize)),
		}
	}

	payload := buf[HeaderSize : HeaderSize+compressedSize]
	if got := crc32.ChecksumIEEE(payload); got != checksum {
		return nil, &MalformedError{
			FrameNumber: frameNumber,
			Reason:      fmt.Sprintf("checksum mismatch: header says 0x%08x, payload is 0x%08x", checksum, got),
		}
	}

	// Defensive copy so the returned record doesn't alias the input buffer.
	payloadCopy := make([]byte, len(payload))
	copy(payloadCopy, payload)

	return &FrameRecord{
		FrameNumber:     frameNumber,
		Width:           width,
		Height:          height,
		Channels:        channels,
		CompressionType: CompressionType(compressionByte),
		Payload:         payloadCopy,
	}, nil
}
