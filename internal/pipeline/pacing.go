package pipeline

import (
	"time"

	"github.com/five82/gitflix/internal/config"
)

// Pacer schedules presentation so frames are displayed at a steady
// TargetFPS interval: each call to Wait blocks until the next frame's
// deadline, using the monotonic clock time.Time already carries. A
// frame that runs late never triggers a catch-up burst: its deadline
// resets from the actual present time rather than accumulating drift.
type Pacer struct {
	interval time.Duration
	deadline time.Time
}

// NewPacer creates a pacer targeting cfg's TargetFPS, using
// Config.FrameInterval so the pacer and anything else that needs the
// session's frame spacing (e.g. reporting) agree on one computation.
// The first Wait call returns immediately.
func NewPacer(cfg *config.Config) *Pacer {
	interval := time.Duration(cfg.FrameInterval() * float64(time.Second))
	return &Pacer{interval: interval, deadline: time.Now()}
}

// Wait blocks until this frame's presentation deadline, then arms the
// deadline for the next frame. If the previous frame ran over its
// deadline, Wait returns immediately and the new deadline is computed
// from now, not from the missed deadline, so no burst of frames is
// ever released to catch up.
func (p *Pacer) Wait() {
	now := time.Now()
	if now.Before(p.deadline) {
		time.Sleep(p.deadline.Sub(now))
		now = p.deadline
	}
	p.deadline = now.Add(p.interval)
}
