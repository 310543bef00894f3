// Package presenter implements the display side of the decode/display
// pipeline: something that accepts decoded RawFrames in order and
// presents them. GitFlix has no GUI surface to draw actual pixels to,
// so the reference Presenter renders a lightweight textual
// representation to the terminal.
package presenter

import "github.com/five82/gitflix/internal/frame"

// Presenter consumes decoded frames in presentation order. Init is
// called once before the first frame and Cleanup once after the last;
// ShouldClose is polled between frames so a sink that has been closed
// (a window, a disconnected peer) can end playback without an error.
type Presenter interface {
	Init(width, height uint32) error
	Present(raw *frame.RawFrame, frameNumber uint32) error
	ShouldClose() bool
	Cleanup()
}

// NullPresenter discards every frame; useful for benchmarking the
// decode side of the pipeline without terminal I/O overhead.
type NullPresenter struct{}

func (NullPresenter) Init(uint32, uint32) error             { return nil }
func (NullPresenter) Present(*frame.RawFrame, uint32) error { return nil }
func (NullPresenter) ShouldClose() bool                     { return false }
func (NullPresenter) Cleanup()                              {}
