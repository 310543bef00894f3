package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/gitflix/internal/codec"
	"github.com/five82/gitflix/internal/config"
	"github.com/five82/gitflix/internal/frame"
	"github.com/five82/gitflix/internal/objectstore"
	"github.com/five82/gitflix/internal/presenter"
	"github.com/five82/gitflix/internal/reporter"
)

// PlaybackResult summarizes a finished playback run.
type PlaybackResult struct {
	FramesPlayed int
	Interrupted  bool
}

// DecodePipeline walks session's commit chain from the root, decodes
// each frame, and hands it to pres, paced at a steady TargetFPS when
// cfg.PresentPaced is set and as fast as frames arrive otherwise. A
// Prefetcher runs ahead of the decode worker so blob reads overlap
// with decode+present of the current frame, and a bounded FrameQueue
// separates decode from presentation exactly as it separates source
// from encode on the write side.
//
// ctx cancellation stops playback early and is reported back as
// PlaybackResult.Interrupted rather than as an error; interruption is
// a normal playback outcome, not a fault.
func DecodePipeline(ctx context.Context, cfg *config.Config, session *objectstore.Session, dims frame.Dimensions, pres presenter.Presenter, rep reporter.Reporter) (PlaybackResult, error) {
	ids, err := session.WalkChain()
	if err != nil {
		return PlaybackResult{}, fmt.Errorf("pipeline: failed to walk chain: %w", err)
	}

	rep.ChainOpened(reporter.ChainSummary{
		RepoPath:       session.Path(),
		FrameWidth:     dims.Width,
		FrameHeight:    dims.Height,
		FrameChannels:  dims.Channels,
		TargetFPS:      cfg.TargetFPS,
		BlobCacheSize:  cfg.BlobCacheSize,
		FrameQueueSize: cfg.FrameQueueSize,
		ExistingFrames: len(ids),
		FrameBytes:     cfg.FrameSize(),
	})

	if len(ids) == 0 {
		rep.Warning("chain is empty, nothing to play")
		return PlaybackResult{}, nil
	}

	if err := pres.Init(dims.Width, dims.Height); err != nil {
		return PlaybackResult{}, fmt.Errorf("pipeline: presenter init failed: %w", err)
	}
	defer pres.Cleanup()

	prefetcher := objectstore.NewPrefetcher(session, ids)
	prefetcher.Start()
	defer prefetcher.Stop()

	type decoded struct {
		frameNumber uint32
		raw         *frame.RawFrame
		typ         frame.CompressionType
		payloadLen  int
	}

	queue := NewFrameQueue[decoded](cfg.FrameQueueSize)

	start := time.Now()
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer queue.Close()

		var prev *frame.RawFrame
		for i, id := range ids {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			payload, err := session.GetBlob(id)
			if err != nil {
				queue.Cancel()
				return fmt.Errorf("pipeline: failed to read frame %d: %w", i, err)
			}

			rec, err := frame.Deserialize(payload, dims)
			if err != nil {
				queue.Cancel()
				return fmt.Errorf("pipeline: malformed frame %d: %w", i, err)
			}

			raw, err := codec.Decode(rec.CompressionType, rec.Payload, dims.Width, dims.Height, dims.Channels, prev)
			if err != nil {
				queue.Cancel()
				return fmt.Errorf("pipeline: failed to decode frame %d: %w", i, err)
			}

			rep.FrameDecoded(reporter.FrameProgress{
				FrameNumber:     rec.FrameNumber,
				CompressionType: rec.CompressionType.String(),
				PayloadBytes:    len(rec.Payload),
				FramesTotal:     len(ids),
			})

			if !queue.Push(decoded{frameNumber: rec.FrameNumber, raw: raw, typ: rec.CompressionType, payloadLen: len(rec.Payload)}) {
				return nil
			}
			prev = raw
		}
		return nil
	})

	var result PlaybackResult
	group.Go(func() error {
		pacer := NewPacer(cfg)
		for {
			item, ok := queue.Pop()
			if !ok {
				return nil
			}

			select {
			case <-gctx.Done():
				result.Interrupted = true
				return gctx.Err()
			default:
			}

			if pres.ShouldClose() {
				queue.Cancel()
				return nil
			}

			if cfg.PresentPaced {
				pacer.Wait()
			}

			if err := pres.Present(item.raw, item.frameNumber); err != nil {
				queue.Cancel()
				return fmt.Errorf("pipeline: failed to present frame %d: %w", item.frameNumber, err)
			}

			rep.FramePresented(reporter.FrameProgress{
				FrameNumber:     item.frameNumber,
				CompressionType: item.typ.String(),
				PayloadBytes:    item.payloadLen,
				FramesTotal:     len(ids),
			})
			result.FramesPlayed++
		}
	})

	err = group.Wait()
	duration := time.Since(start)

	if err != nil && ctx.Err() != nil {
		result.Interrupted = true
		err = nil
	}
	if err != nil {
		return result, err
	}

	var avgFPS float64
	if duration.Seconds() > 0 {
		avgFPS = float64(result.FramesPlayed) / duration.Seconds()
	}
	rep.PlaybackComplete(reporter.PlaybackOutcome{
		RepoPath:     session.Path(),
		FramesPlayed: result.FramesPlayed,
		Duration:     duration,
		AverageFPS:   avgFPS,
		Interrupted:  result.Interrupted,
	})

	return result, nil
}
