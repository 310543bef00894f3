package gitflix

import (
	"github.com/five82/gitflix/internal/reporter"
)

// Reporter receives progress events from an encode or playback
// session. It is a re-export of internal/reporter.Reporter so callers
// that want direct, typed access to every event (rather than the
// EventHandler indirection) can implement it without reaching into an
// internal package.
type Reporter = reporter.Reporter

// NullReporter discards all events.
type NullReporter = reporter.NullReporter

// NewTerminalReporter returns a Reporter that prints human-readable
// progress to the terminal.
func NewTerminalReporter(verbose bool) Reporter {
	return reporter.NewTerminalReporterVerbose(verbose)
}

// eventReporter adapts an EventHandler to the internal Reporter
// interface, turning the events the handler cares about into typed
// values and discarding the rest.
type eventReporter struct {
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) emit(e Event) {
	if r.handler == nil {
		return
	}
	_ = r.handler(e)
}

func (r *eventReporter) ChainOpened(s reporter.ChainSummary) {
	r.emit(ChainOpenedEvent{
		BaseEvent:      BaseEvent{EventType: EventTypeChainOpened, Time: NewTimestamp()},
		RepoPath:       s.RepoPath,
		FrameWidth:     s.FrameWidth,
		FrameHeight:    s.FrameHeight,
		TargetFPS:      s.TargetFPS,
		ExistingFrames: s.ExistingFrames,
	})
}

func (r *eventReporter) StageProgress(reporter.StageProgress) {}

func (r *eventReporter) FrameEncoded(p reporter.FrameProgress) {
	r.emit(FrameEvent{
		BaseEvent:       BaseEvent{EventType: EventTypeFrameEncoded, Time: NewTimestamp()},
		FrameNumber:     p.FrameNumber,
		CompressionType: p.CompressionType,
		PayloadBytes:    p.PayloadBytes,
	})
}

func (r *eventReporter) FrameDecoded(p reporter.FrameProgress) {
	r.emit(FrameEvent{
		BaseEvent:       BaseEvent{EventType: EventTypeFrameDecoded, Time: NewTimestamp()},
		FrameNumber:     p.FrameNumber,
		CompressionType: p.CompressionType,
		PayloadBytes:    p.PayloadBytes,
	})
}

func (r *eventReporter) FramePresented(p reporter.FrameProgress) {
	r.emit(FrameEvent{
		BaseEvent:       BaseEvent{EventType: EventTypeFramePresented, Time: NewTimestamp()},
		FrameNumber:     p.FrameNumber,
		CompressionType: p.CompressionType,
		PayloadBytes:    p.PayloadBytes,
	})
}

func (r *eventReporter) EncodingComplete(o reporter.EncodeOutcome) {
	r.emit(EncodingCompleteEvent{
		BaseEvent:   BaseEvent{EventType: EventTypeEncodingComplete, Time: NewTimestamp()},
		FramesTotal: o.FramesTotal,
		RawFrames:   o.RawFrames,
		DeltaFrames: o.DeltaFrames,
		TotalBytes:  o.TotalBytes,
	})
}

func (r *eventReporter) PlaybackComplete(o reporter.PlaybackOutcome) {
	r.emit(PlaybackCompleteEvent{
		BaseEvent:    BaseEvent{EventType: EventTypePlaybackComplete, Time: NewTimestamp()},
		FramesPlayed: o.FramesPlayed,
		AverageFPS:   o.AverageFPS,
		Interrupted:  o.Interrupted,
	})
}

func (r *eventReporter) Warning(message string) {
	r.emit(WarningEvent{BaseEvent: BaseEvent{EventType: EventTypeWarning, Time: NewTimestamp()}, Message: message})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	r.emit(ErrorEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeError, Time: NewTimestamp()},
		Title:      e.Title,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) Verbose(string) {}
