// Package reporter defines the progress-reporting interface GitFlix's
// encode and playback pipelines report through, plus the terminal, log,
// and composite implementations of it.
package reporter

import "time"

// Reporter receives progress events from an encode or playback session.
type Reporter interface {
	ChainOpened(ChainSummary)
	StageProgress(StageProgress)
	FrameEncoded(FrameProgress)
	EncodingComplete(EncodeOutcome)
	FrameDecoded(FrameProgress)
	FramePresented(FrameProgress)
	PlaybackComplete(PlaybackOutcome)
	Warning(string)
	Error(ReporterError)
	Verbose(string)
}

// ChainSummary describes a session at the moment a repository is opened.
type ChainSummary struct {
	RepoPath       string
	FrameWidth     uint32
	FrameHeight    uint32
	FrameChannels  uint32
	TargetFPS      uint32
	BlobCacheSize  int
	FrameQueueSize int
	ExistingFrames int // frames already in the chain when opened (0 for a new repo)
	FrameBytes     int // uncompressed byte size of one frame under this config
}

// StageProgress is a generic named-stage update ("opening repository",
// "walking chain", "starting prefetcher", ...).
type StageProgress struct {
	Stage   string
	Message string
}

// FrameProgress reports a single frame's processing outcome during
// either encode or decode/present.
type FrameProgress struct {
	FrameNumber     uint32
	CompressionType string // "raw" or "delta"
	PayloadBytes    int
	FramesTotal     int // 0 if unknown ahead of time
}

// EncodeOutcome summarizes a finished encode session.
type EncodeOutcome struct {
	RepoPath    string
	FramesTotal int
	RawFrames   int
	DeltaFrames int
	TotalBytes  uint64
	Duration    time.Duration
}

// PlaybackOutcome summarizes a finished playback session.
type PlaybackOutcome struct {
	RepoPath     string
	FramesPlayed int
	Duration     time.Duration
	AverageFPS   float64
	Interrupted  bool
}

// ReporterError carries structured error information for display.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// NullReporter discards all events. The zero value is ready to use.
type NullReporter struct{}

func (NullReporter) ChainOpened(ChainSummary)         {}
func (NullReporter) StageProgress(StageProgress)      {}
func (NullReporter) FrameEncoded(FrameProgress)       {}
func (NullReporter) EncodingComplete(EncodeOutcome)   {}
func (NullReporter) FrameDecoded(FrameProgress)       {}
func (NullReporter) FramePresented(FrameProgress)     {}
func (NullReporter) PlaybackComplete(PlaybackOutcome) {}
func (NullReporter) Warning(string)                   {}
func (NullReporter) Error(ReporterError)              {}
func (NullReporter) Verbose(string)                   {}
