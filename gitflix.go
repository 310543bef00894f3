package gitflix

import (
	"context"
	"fmt"

	"github.com/five82/gitflix/internal/config"
	"github.com/five82/gitflix/internal/frame"
	"github.com/five82/gitflix/internal/framesource"
	"github.com/five82/gitflix/internal/objectstore"
	"github.com/five82/gitflix/internal/pipeline"
	"github.com/five82/gitflix/internal/presenter"
	"github.com/five82/gitflix/internal/reporter"
)

// Session is the main entry point for encoding and playing a GitFlix
// chain, configured once and reusable across repositories.
type Session struct {
	config *config.Config
}

// Option configures a Session.
type Option func(*config.Config)

// New creates a new Session with the given options.
func New(opts ...Option) (*Session, error) {
	cfg := config.NewConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Session{config: cfg}, nil
}

// WithDimensions sets the frame resolution and channel count. All
// frames in a chain must share these dimensions.
func WithDimensions(width, height, channels uint32) Option {
	return func(c *config.Config) {
		c.FrameWidth = width
		c.FrameHeight = height
		c.FrameChannels = channels
	}
}

// WithTargetFPS sets the playback pacing rate.
func WithTargetFPS(fps uint32) Option {
	return func(c *config.Config) {
		c.TargetFPS = fps
	}
}

// WithBlobCacheSize sets the object-store blob cache capacity.
func WithBlobCacheSize(size int) Option {
	return func(c *config.Config) {
		c.BlobCacheSize = size
	}
}

// WithFrameQueueSize sets the inter-stage frame queue depth.
func WithFrameQueueSize(size int) Option {
	return func(c *config.Config) {
		c.FrameQueueSize = size
	}
}

// WithUnpacedPlayback disables frame-rate pacing during playback,
// useful for benchmarking raw decode throughput.
func WithUnpacedPlayback() Option {
	return func(c *config.Config) {
		c.PresentPaced = false
	}
}

// WithVerbose enables verbose reporter output.
func WithVerbose() Option {
	return func(c *config.Config) {
		c.Verbose = true
	}
}

// EncodeResult summarizes a finished encode.
type EncodeResult struct {
	RepoPath    string
	FramesTotal int
	RawFrames   int
	DeltaFrames int
	TotalBytes  uint64
}

// EncodeChain appends frames from src to the commit chain at repoPath,
// creating the repository if it does not yet exist and resuming from
// its existing tip otherwise.
func (s *Session) EncodeChain(ctx context.Context, repoPath string, src framesource.Source, handler EventHandler) (*EncodeResult, error) {
	var rep reporter.Reporter = reporter.NullReporter{}
	if handler != nil {
		rep = newEventReporter(handler)
	}
	return s.encodeChain(ctx, repoPath, src, rep)
}

// EncodeChainWithReporter is like EncodeChain but reports through a
// caller-supplied Reporter for direct, typed event access.
func (s *Session) EncodeChainWithReporter(ctx context.Context, repoPath string, src framesource.Source, rep Reporter) (*EncodeResult, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return s.encodeChain(ctx, repoPath, src, rep)
}

func (s *Session) encodeChain(ctx context.Context, repoPath string, src framesource.Source, rep reporter.Reporter) (*EncodeResult, error) {
	dims := src.Dimensions()
	wantDims := frame.Dimensions{Width: s.config.FrameWidth, Height: s.config.FrameHeight, Channels: s.config.FrameChannels}
	if dims != wantDims {
		return nil, fmt.Errorf("gitflix: source dimensions %+v do not match session dimensions %+v", dims, wantDims)
	}

	session, err := objectstore.Open(repoPath, s.config.BlobCacheSize)
	if err != nil {
		return nil, fmt.Errorf("gitflix: failed to open repository: %w", err)
	}
	defer session.Close()

	result, err := pipeline.EncodePipeline(ctx, s.config, session, src, rep)
	if err != nil {
		rep.Error(reporter.ReporterError{Title: "encode failed", Message: err.Error()})
		return nil, err
	}

	return &EncodeResult{
		RepoPath:    repoPath,
		FramesTotal: result.FramesTotal,
		RawFrames:   result.RawFrames,
		DeltaFrames: result.DeltaFrames,
		TotalBytes:  result.TotalBytes,
	}, nil
}

// PlayResult summarizes a finished playback run.
type PlayResult struct {
	RepoPath     string
	FramesPlayed int
	Interrupted  bool
}

// PlayChain walks the commit chain at repoPath and presents each frame
// through pres, paced at the session's TargetFPS unless
// WithUnpacedPlayback was set.
func (s *Session) PlayChain(ctx context.Context, repoPath string, pres presenter.Presenter, handler EventHandler) (*PlayResult, error) {
	var rep reporter.Reporter = reporter.NullReporter{}
	if handler != nil {
		rep = newEventReporter(handler)
	}
	return s.playChain(ctx, repoPath, pres, rep)
}

// PlayChainWithReporter is like PlayChain but reports through a
// caller-supplied Reporter for direct, typed event access.
func (s *Session) PlayChainWithReporter(ctx context.Context, repoPath string, pres presenter.Presenter, rep Reporter) (*PlayResult, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return s.playChain(ctx, repoPath, pres, rep)
}

func (s *Session) playChain(ctx context.Context, repoPath string, pres presenter.Presenter, rep reporter.Reporter) (*PlayResult, error) {
	session, err := objectstore.Open(repoPath, s.config.BlobCacheSize)
	if err != nil {
		return nil, fmt.Errorf("gitflix: failed to open repository: %w", err)
	}
	defer session.Close()

	dims := frame.Dimensions{Width: s.config.FrameWidth, Height: s.config.FrameHeight, Channels: s.config.FrameChannels}

	result, err := pipeline.DecodePipeline(ctx, s.config, session, dims, pres, rep)
	if err != nil {
		rep.Error(reporter.ReporterError{Title: "playback failed", Message: err.Error()})
		return nil, err
	}

	return &PlayResult{
		RepoPath:     repoPath,
		FramesPlayed: result.FramesPlayed,
		Interrupted:  result.Interrupted,
	}, nil
}
