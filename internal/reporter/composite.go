package reporter

// CompositeReporter fans a single stream of events out to multiple
// reporters, so a CLI can send every event to both the screen and a
// log file.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter returns a Reporter that forwards every event to
// each of reporters, in order.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) ChainOpened(s ChainSummary) {
	for _, r := range c.reporters {
		r.ChainOpened(s)
	}
}

func (c *CompositeReporter) StageProgress(u StageProgress) {
	for _, r := range c.reporters {
		r.StageProgress(u)
	}
}

func (c *CompositeReporter) FrameEncoded(p FrameProgress) {
	for _, r := range c.reporters {
		r.FrameEncoded(p)
	}
}

func (c *CompositeReporter) EncodingComplete(o EncodeOutcome) {
	for _, r := range c.reporters {
		r.EncodingComplete(o)
	}
}

func (c *CompositeReporter) FrameDecoded(p FrameProgress) {
	for _, r := range c.reporters {
		r.FrameDecoded(p)
	}
}

func (c *CompositeReporter) FramePresented(p FrameProgress) {
	for _, r := range c.reporters {
		r.FramePresented(p)
	}
}

func (c *CompositeReporter) PlaybackComplete(o PlaybackOutcome) {
	for _, r := range c.reporters {
		r.PlaybackComplete(o)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(e ReporterError) {
	for _, r := range c.reporters {
		r.Error(e)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
