package reporter

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/gitflix/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float32
	lastStage  string
	verbose    bool
	cyan       *color.Color
	green      *color.Color
	yellow     *color.Color
	red        *color.Color
	magenta    *color.Color
	bold       *color.Color
	dim        *color.Color
}

// NewTerminalReporter creates a new terminal reporter with verbose mode disabled.
func NewTerminalReporter() *TerminalReporter {
	return NewTerminalReporterVerbose(false)
}

// NewTerminalReporterVerbose creates a new terminal reporter with configurable verbose mode.
func NewTerminalReporterVerbose(verbose bool) *TerminalReporter {
	return &TerminalReporter{
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
		dim:     color.New(color.Faint),
	}
}

// labelWidth is the global width for all labels to ensure consistent alignment.
const labelWidth = 16

func (r *TerminalReporter) printLabel(label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", labelWidth, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

func (r *TerminalReporter) ChainOpened(summary ChainSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("CHAIN")
	r.printLabel("Repository:", summary.RepoPath)
	r.printLabel("Frame:", fmt.Sprintf("%dx%dx%d @ %d fps", summary.FrameWidth, summary.FrameHeight, summary.FrameChannels, summary.TargetFPS))
	r.printLabel("Frame size:", util.FormatBytes(uint64(summary.FrameBytes))+" (raw)")
	r.printLabel("Blob cache:", fmt.Sprintf("%d entries", summary.BlobCacheSize))
	r.printLabel("Frame queue:", fmt.Sprintf("%d entries", summary.FrameQueueSize))
	if summary.ExistingFrames > 0 {
		r.printLabel("Resuming at:", fmt.Sprintf("frame %d", summary.ExistingFrames))
	}
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.mu.Lock()
	if r.lastStage != update.Stage {
		r.mu.Unlock()
		fmt.Println()
		_, _ = r.cyan.Println(strings.ToUpper(update.Stage))
		r.mu.Lock()
		r.lastStage = update.Stage
	}
	r.mu.Unlock()
	fmt.Printf("  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) ensureProgress(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		return
	}
	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) setProgress(percent float32, desc string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress == nil {
		return
	}
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	if percent >= r.maxPercent {
		r.maxPercent = percent
		_ = r.progress.Set64(int64(percent))
	}
	r.progress.Describe(desc)
}

func (r *TerminalReporter) FrameEncoded(update FrameProgress) {
	r.frameProgress("Encoding", update)
}

func (r *TerminalReporter) FrameDecoded(update FrameProgress) {
	r.frameProgress("Decoding", update)
}

func (r *TerminalReporter) FramePresented(update FrameProgress) {
	r.frameProgress("Playing", update)
}

func (r *TerminalReporter) frameProgress(verb string, update FrameProgress) {
	if update.FramesTotal <= 0 {
		return
	}
	r.ensureProgress(update.FramesTotal)
	percent := float32(update.FrameNumber+1) / float32(update.FramesTotal) * 100
	desc := fmt.Sprintf("%s frame %d/%d (%s, %d bytes)", verb, update.FrameNumber, update.FramesTotal, update.CompressionType, update.PayloadBytes)
	r.setProgress(percent, desc)
}

func (r *TerminalReporter) EncodingComplete(outcome EncodeOutcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	r.printLabel("Status:", fmt.Sprintf("%s %s", r.green.Sprint("✓"), r.green.Add(color.Bold).Sprint("Chain written")))
	r.printLabel("Repository:", outcome.RepoPath)
	r.printLabel("Frames:", fmt.Sprintf("%d (%d raw, %d delta)", outcome.FramesTotal, outcome.RawFrames, outcome.DeltaFrames))
	r.printLabel("Payload:", util.FormatBytes(outcome.TotalBytes))
	r.printLabel("Time:", util.FormatDuration(outcome.Duration))
}

func (r *TerminalReporter) PlaybackComplete(outcome PlaybackOutcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("PLAYBACK")
	if outcome.Interrupted {
		r.printLabel("Status:", fmt.Sprintf("%s %s", r.yellow.Sprint("!"), r.yellow.Sprint("Interrupted")))
	} else {
		r.printLabel("Status:", fmt.Sprintf("%s %s", r.green.Sprint("✓"), r.green.Add(color.Bold).Sprint("Complete")))
	}
	r.printLabel("Frames played:", fmt.Sprintf("%d", outcome.FramesPlayed))
	r.printLabel("Time:", fmt.Sprintf("%s (avg %.1f fps)", util.FormatDuration(outcome.Duration), outcome.AverageFPS))
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s %s\n", r.dim.Sprint("›"), r.dim.Sprint(message))
}
