package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/gitflix/internal/chain"
	"github.com/five82/gitflix/internal/codec"
	"github.com/five82/gitflix/internal/config"
	"github.com/five82/gitflix/internal/frame"
	"github.com/five82/gitflix/internal/framesource"
	"github.com/five82/gitflix/internal/objectstore"
	"github.com/five82/gitflix/internal/reporter"
)

// EncodeResult summarizes a finished encode run, independent of the
// reporter's presentation-facing EncodeOutcome.
type EncodeResult struct {
	FramesTotal int
	RawFrames   int
	DeltaFrames int
	TotalBytes  uint64
}

// EncodePipeline reads frames from src and appends them to session's
// commit chain, one commit per frame: a producer stage (frame source)
// and a consumer stage (encode + write) connected by a bounded
// FrameQueue, so a slow git write never stalls on synchronous decode
// of the next frame and vice versa. Resume state from the chain
// package determines the starting frame_number and parent commit so a
// crashed run can be safely re-invoked.
func EncodePipeline(ctx context.Context, cfg *config.Config, session *objectstore.Session, src framesource.Source, rep reporter.Reporter) (EncodeResult, error) {
	dims := src.Dimensions()

	resume, err := chain.Resolve(session, dims)
	if err != nil {
		return EncodeResult{}, fmt.Errorf("pipeline: failed to resolve resume state: %w", err)
	}

	rep.ChainOpened(reporter.ChainSummary{
		RepoPath:       session.Path(),
		FrameWidth:     dims.Width,
		FrameHeight:    dims.Height,
		FrameChannels:  dims.Channels,
		TargetFPS:      cfg.TargetFPS,
		BlobCacheSize:  cfg.BlobCacheSize,
		FrameQueueSize: cfg.FrameQueueSize,
		ExistingFrames: resume.ExistingFrames,
		FrameBytes:     cfg.FrameSize(),
	})

	if resume.ExistingFrames > 0 {
		rep.StageProgress(reporter.StageProgress{Stage: "Resuming", Message: fmt.Sprintf("skipping %d already-written frames", resume.ExistingFrames)})
		for i := 0; i < resume.ExistingFrames; i++ {
			if _, err := src.Next(); err != nil {
				return EncodeResult{}, fmt.Errorf("pipeline: source exhausted while fast-forwarding to resume point: %w", err)
			}
		}
	}

	queue := NewFrameQueue[*frame.RawFrame](cfg.FrameQueueSize)

	start := time.Now()
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer queue.Close()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			raw, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				queue.Cancel()
				return fmt.Errorf("pipeline: frame source failed: %w", err)
			}
			if !queue.Push(raw) {
				return nil
			}
		}
	})

	var result EncodeResult
	group.Go(func() error {
		var prev *frame.RawFrame
		parent := resume.Parent
		frameNumber := resume.NextFrameNumber

		for {
			raw, ok := queue.Pop()
			if !ok {
				return nil
			}

			encoded, err := codec.SelectAndEncode(prev, raw)
			if err != nil {
				queue.Cancel()
				return fmt.Errorf("pipeline: failed to encode frame %d: %w", frameNumber, err)
			}

			rec := &frame.FrameRecord{
				FrameNumber:     frameNumber,
				Width:           dims.Width,
				Height:          dims.Height,
				Channels:        dims.Channels,
				CompressionType: encoded.Type,
				Payload:         encoded.Payload,
			}
			payload := frame.Serialize(rec)

			commitID, err := session.WriteFrame(payload, parent, frameNumber, encoded.Type.String())
			if err != nil {
				queue.Cancel()
				return fmt.Errorf("pipeline: failed to write frame %d: %w", frameNumber, err)
			}

			result.FramesTotal++
			result.TotalBytes += uint64(len(encoded.Payload))
			if encoded.Type == frame.Raw {
				result.RawFrames++
			} else {
				result.DeltaFrames++
			}

			rep.FrameEncoded(reporter.FrameProgress{
				FrameNumber:     frameNumber,
				CompressionType: encoded.Type.String(),
				PayloadBytes:    len(encoded.Payload),
			})

			parent = &commitID
			prev = raw
			frameNumber++

			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
		}
	})

	if err := group.Wait(); err != nil {
		return result, err
	}

	rep.EncodingComplete(reporter.EncodeOutcome{
		RepoPath:    session.Path(),
		FramesTotal: result.FramesTotal,
		RawFrames:   result.RawFrames,
		DeltaFrames: result.DeltaFrames,
		TotalBytes:  result.TotalBytes,
		Duration:    time.Since(start),
	})

	return result, nil
}
