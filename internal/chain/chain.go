// Package chain resolves where an interrupted encode should resume.
// The object store's commit chain is itself the durable record of what
// has already been written, so resume means walking that chain and
// checking it for an unbroken frame-number prefix; no side file is
// kept that could go stale.
package chain

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/five82/gitflix/internal/frame"
	"github.com/five82/gitflix/internal/objectstore"
)

// Stats summarizes a chain's contents without decoding any frame's
// pixel data: frame count, RAW/DELTA mix, and total payload bytes,
// read straight off each commit's FrameRecord header.
type Stats struct {
	FrameCount  int
	RawFrames   int
	DeltaFrames int
	TotalBytes  uint64
}

// Inspect walks session's commit chain and tallies Stats from each
// frame's deserialized header, never decompressing the pixel payloads
// (Deserialize still verifies each payload's checksum).
func Inspect(session *objectstore.Session, dims frame.Dimensions) (*Stats, error) {
	ids, err := session.WalkChain()
	if err != nil {
		return nil, fmt.Errorf("chain: failed to walk chain: %w", err)
	}

	stats := &Stats{}
	for i, id := range ids {
		payload, err := session.GetBlob(id)
		if err != nil {
			return nil, fmt.Errorf("chain: failed to read blob at chain position %d: %w", i, err)
		}
		rec, err := frame.Deserialize(payload, dims)
		if err != nil {
			return nil, fmt.Errorf("chain: failed to deserialize frame at chain position %d: %w", i, err)
		}

		stats.FrameCount++
		stats.TotalBytes += uint64(rec.CompressedSize())
		switch rec.CompressionType {
		case frame.Raw:
			stats.RawFrames++
		case frame.Delta:
			stats.DeltaFrames++
		}
	}

	return stats, nil
}

// Resume describes where an encode should continue from.
type Resume struct {
	NextFrameNumber uint32          // frame number to write next
	Parent          *plumbing.Hash  // commit to chain the next frame from, nil for a fresh repo
	ExistingFrames  int             // number of frames already present (== NextFrameNumber)
	ChainIDs        []plumbing.Hash // full existing chain, oldest first
}

// Resolve inspects an open session's commit chain and determines the
// resume point for an encoder continuing to append frames to it.
//
// A gap in frame numbering (a commit chain that skips a number) is
// reported as an error: GitFlix never rewrites history, so a gap can
// only mean the repository was produced by something other than a
// contiguous append and isn't safe to resume.
func Resolve(session *objectstore.Session, dims frame.Dimensions) (*Resume, error) {
	ids, err := session.WalkChain()
	if err != nil {
		return nil, fmt.Errorf("chain: failed to walk existing chain: %w", err)
	}

	if len(ids) == 0 {
		return &Resume{NextFrameNumber: 0, Parent: nil, ExistingFrames: 0}, nil
	}

	for i, id := range ids {
		payload, err := session.GetBlob(id)
		if err != nil {
			return nil, fmt.Errorf("chain: failed to read blob at chain position %d: %w", i, err)
		}
		rec, err := frame.Deserialize(payload, dims)
		if err != nil {
			return nil, fmt.Errorf("chain: failed to deserialize frame at chain position %d: %w", i, err)
		}
		if int(rec.FrameNumber) != i {
			return nil, fmt.Errorf("chain: gap in frame numbering at chain position %d: found frame_number %d", i, rec.FrameNumber)
		}
	}

	tip := ids[len(ids)-1]
	return &Resume{
		NextFrameNumber: uint32(len(ids)),
		Parent:          &tip,
		ExistingFrames:  len(ids),
		ChainIDs:        ids,
	}, nil
}
