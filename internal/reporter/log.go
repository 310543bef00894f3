package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/five82/gitflix/internal/util"
)

// LogReporter writes encode/playback events to a log file.
type LogReporter struct {
	w  io.Writer
	mu sync.Mutex

	lastFrameLogged int // used to throttle per-frame progress lines
}

// NewLogReporter creates a new log reporter that writes to the given writer.
func NewLogReporter(w io.Writer) *LogReporter {
	return &LogReporter{w: w, lastFrameLogged: -1}
}

func (r *LogReporter) log(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(r.w, "%s [%s] %s\n", timestamp, level, msg)
}

func (r *LogReporter) ChainOpened(summary ChainSummary) {
	r.log("INFO", "=== CHAIN OPENED ===")
	r.log("INFO", "Repository: %s", summary.RepoPath)
	r.log("INFO", "Frame: %dx%dx%d @ %d fps (%s raw)", summary.FrameWidth, summary.FrameHeight, summary.FrameChannels, summary.TargetFPS, util.FormatBytes(uint64(summary.FrameBytes)))
	r.log("INFO", "Blob cache: %d, frame queue: %d", summary.BlobCacheSize, summary.FrameQueueSize)
	if summary.ExistingFrames > 0 {
		r.log("INFO", "Resuming: %d frames already in chain", summary.ExistingFrames)
	}
}

func (r *LogReporter) StageProgress(update StageProgress) {
	r.log("INFO", "[%s] %s", update.Stage, update.Message)
}

// logFrameInterval throttles per-frame log lines to roughly every 60
// frames so a multi-minute chain doesn't produce one log line per frame.
const logFrameInterval = 60

func (r *LogReporter) FrameEncoded(update FrameProgress) {
	r.logFrameProgress("ENCODE", update)
}

func (r *LogReporter) FrameDecoded(update FrameProgress) {
	r.logFrameProgress("DECODE", update)
}

func (r *LogReporter) FramePresented(update FrameProgress) {
	r.logFrameProgress("PRESENT", update)
}

func (r *LogReporter) logFrameProgress(stage string, update FrameProgress) {
	r.mu.Lock()
	due := int(update.FrameNumber)-r.lastFrameLogged >= logFrameInterval
	if due {
		r.lastFrameLogged = int(update.FrameNumber)
	}
	r.mu.Unlock()
	if !due {
		return
	}
	if update.FramesTotal > 0 {
		r.log("INFO", "[%s] frame %d/%d (%s, %d bytes)", stage, update.FrameNumber, update.FramesTotal, update.CompressionType, update.PayloadBytes)
	} else {
		r.log("INFO", "[%s] frame %d (%s, %d bytes)", stage, update.FrameNumber, update.CompressionType, update.PayloadBytes)
	}
}

func (r *LogReporter) EncodingComplete(outcome EncodeOutcome) {
	r.log("INFO", "=== ENCODE COMPLETE ===")
	r.log("INFO", "Repository: %s", outcome.RepoPath)
	r.log("INFO", "Frames: %d (%d raw, %d delta)", outcome.FramesTotal, outcome.RawFrames, outcome.DeltaFrames)
	r.log("INFO", "Total payload: %s", util.FormatBytes(outcome.TotalBytes))
	r.log("INFO", "Time: %s", util.FormatDuration(outcome.Duration))
}

func (r *LogReporter) PlaybackComplete(outcome PlaybackOutcome) {
	r.log("INFO", "=== PLAYBACK COMPLETE ===")
	r.log("INFO", "Frames played: %d", outcome.FramesPlayed)
	r.log("INFO", "Time: %s (avg %.1f fps)", util.FormatDuration(outcome.Duration), outcome.AverageFPS)
	if outcome.Interrupted {
		r.log("WARN", "Playback was interrupted before the chain was exhausted")
	}
}

func (r *LogReporter) Warning(message string) {
	r.log("WARN", "%s", message)
}

func (r *LogReporter) Error(err ReporterError) {
	r.log("ERROR", "%s: %s", err.Title, err.Message)
	if err.Context != "" {
		r.log("ERROR", "  Context: %s", err.Context)
	}
	if err.Suggestion != "" {
		r.log("ERROR", "  Suggestion: %s", err.Suggestion)
	}
}

func (r *LogReporter) Verbose(message string) {
	r.log("DEBUG", "%s", message)
}
