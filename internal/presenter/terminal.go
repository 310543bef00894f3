package presenter

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/five82/gitflix/internal/frame"
)

// ramp maps average pixel brightness to a character, darkest first.
const ramp = " .:-=+*#%@"

// TerminalPresenter renders each frame as a downsampled ASCII-art block
// to the terminal, redrawing in place the way a real video player
// redraws a frame buffer. Columns/rows bound the rendered size so a
// 1080p frame doesn't flood the scrollback.
type TerminalPresenter struct {
	columns int
	rows    int
	cyan    *color.Color
}

// NewTerminalPresenter creates a presenter that renders frames at the
// given terminal-cell resolution.
func NewTerminalPresenter(columns, rows int) *TerminalPresenter {
	if columns < 1 {
		columns = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &TerminalPresenter{columns: columns, rows: rows, cyan: color.New(color.FgCyan)}
}

// Init is a no-op: the terminal needs no per-session surface setup, and
// frames carry their own dimensions for the downsampling in Present.
func (p *TerminalPresenter) Init(uint32, uint32) error { return nil }

// ShouldClose always reports false: a terminal has no close button, so
// playback ends when the chain does (or on interrupt).
func (p *TerminalPresenter) ShouldClose() bool { return false }

func (p *TerminalPresenter) Cleanup() {}

func (p *TerminalPresenter) Present(raw *frame.RawFrame, frameNumber uint32) error {
	var b strings.Builder
	b.WriteString("\x1b[H\x1b[2J") // cursor home + clear screen: redraw in place
	_, _ = p.cyan.Fprintf(&b, "frame %06d\n", frameNumber)

	cellW := float64(raw.Width) / float64(p.columns)
	cellH := float64(raw.Height) / float64(p.rows)
	channels := int(raw.Channels)

	for row := 0; row < p.rows; row++ {
		for col := 0; col < p.columns; col++ {
			x := int(float64(col) * cellW)
			y := int(float64(row) * cellH)
			if x >= int(raw.Width) {
				x = int(raw.Width) - 1
			}
			if y >= int(raw.Height) {
				y = int(raw.Height) - 1
			}

			base := (y*int(raw.Width) + x) * channels
			var sum int
			for c := 0; c < channels; c++ {
				sum += int(raw.Pixels[base+c])
			}
			brightness := sum / channels

			idx := brightness * (len(ramp) - 1) / 255
			b.WriteByte(ramp[idx])
		}
		b.WriteByte('\n')
	}

	_, err := fmt.Fprint(os.Stdout, b.String())
	return err
}
