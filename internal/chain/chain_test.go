package chain

import (
	"os"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/five82/gitflix/internal/codec"
	"github.com/five82/gitflix/internal/frame"
	"github.com/five82/gitflix/internal/objectstore"
)

const (
	testWidth    = 4
	testHeight   = 4
	testChannels = 1
)

func testDims() frame.Dimensions {
	return frame.Dimensions{Width: testWidth, Height: testHeight, Channels: testChannels}
}

func solidFrame(value byte) *frame.RawFrame {
	pixels := make([]byte, testWidth*testHeight*testChannels)
	for i := range pixels {
		pixels[i] = value
	}
	raw, err := frame.NewRawFrame(testWidth, testHeight, testChannels, pixels)
	if err != nil {
		panic(err)
	}
	return raw
}

func TestResolveEmptyRepository(t *testing.T) {
	dir, err := os.MkdirTemp("", "gitflix-chain-test")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	session, err := objectstore.Open(dir, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	resume, err := Resolve(session, testDims())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resume.NextFrameNumber != 0 || resume.Parent != nil || resume.ExistingFrames != 0 {
		t.Fatalf("expected a fresh resume state, got %+v", resume)
	}
}

func TestResolveAfterFrames(t *testing.T) {
	dir, err := os.MkdirTemp("", "gitflix-chain-test")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	session, err := objectstore.Open(dir, 8)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	var parent *plumbing.Hash
	var prev *frame.RawFrame
	for i := uint32(0); i < 3; i++ {
		cur := solidFrame(byte(i))
		encoded, err := codec.SelectAndEncode(prev, cur)
		if err != nil {
			t.Fatalf("SelectAndEncode: %v", err)
		}
		rec := &frame.FrameRecord{
			FrameNumber:     i,
			Width:           testWidth,
			Height:          testHeight,
			Channels:        testChannels,
			CompressionType: encoded.Type,
			Payload:         encoded.Payload,
		}
		payload := frame.Serialize(rec)

		id, err := session.WriteFrame(payload, parent, i, encoded.Type.String())
		if err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
		parent = &id
		prev = cur
	}

	resume, err := Resolve(session, testDims())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resume.NextFrameNumber != 3 {
		t.Fatalf("NextFrameNumber = %d, want 3", resume.NextFrameNumber)
	}
	if resume.ExistingFrames != 3 {
		t.Fatalf("ExistingFrames = %d, want 3", resume.ExistingFrames)
	}
	if resume.Parent == nil || *resume.Parent != *parent {
		t.Fatalf("Parent = %v, want %v", resume.Parent, parent)
	}
	if len(resume.ChainIDs) != 3 {
		t.Fatalf("ChainIDs len = %d, want 3", len(resume.ChainIDs))
	}
}
