// Package config provides configuration types and defaults for GitFlix.
package config

import "fmt"

// Default constants.
const (
	// DefaultTargetFPS is the presentation rate in frames per second.
	DefaultTargetFPS uint32 = 60

	// DefaultFrameWidth is the fixed frame width in the reference configuration.
	DefaultFrameWidth uint32 = 1920

	// DefaultFrameHeight is the fixed frame height in the reference configuration.
	DefaultFrameHeight uint32 = 1080

	// DefaultFrameChannels is the fixed channel count (RGB).
	DefaultFrameChannels uint32 = 3

	// DefaultBlobCacheSize is the number of FIFO-evicted blob cache entries.
	DefaultBlobCacheSize int = 32

	// DefaultFrameQueueSize is the inter-stage FIFO depth between decode and present.
	DefaultFrameQueueSize int = 16

	// DefaultPresentPaced is whether playback paces to TargetFPS by default.
	DefaultPresentPaced bool = true
)

// Config holds all configuration for an encode or playback session.
type Config struct {
	FrameWidth    uint32
	FrameHeight   uint32
	FrameChannels uint32

	TargetFPS      uint32
	BlobCacheSize  int
	FrameQueueSize int
	PresentPaced   bool

	Verbose bool
}

// NewConfig returns a Config populated with the reference defaults.
func NewConfig() *Config {
	return &Config{
		FrameWidth:     DefaultFrameWidth,
		FrameHeight:    DefaultFrameHeight,
		FrameChannels:  DefaultFrameChannels,
		TargetFPS:      DefaultTargetFPS,
		BlobCacheSize:  DefaultBlobCacheSize,
		FrameQueueSize: DefaultFrameQueueSize,
		PresentPaced:   DefaultPresentPaced,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.FrameWidth == 0 || c.FrameHeight == 0 || c.FrameChannels == 0 {
		return fmt.Errorf("frame dimensions must be positive, got %dx%dx%d", c.FrameWidth, c.FrameHeight, c.FrameChannels)
	}
	if c.TargetFPS == 0 {
		return fmt.Errorf("target_fps must be positive, got %d", c.TargetFPS)
	}
	if c.BlobCacheSize < 1 {
		return fmt.Errorf("blob_cache_size must be at least 1, got %d", c.BlobCacheSize)
	}
	if c.FrameQueueSize < 1 {
		return fmt.Errorf("frame_queue_size must be at least 1, got %d", c.FrameQueueSize)
	}
	return nil
}

// FrameSize returns the byte length of one raw frame under this config.
func (c *Config) FrameSize() int {
	return int(c.FrameWidth) * int(c.FrameHeight) * int(c.FrameChannels)
}

// FrameInterval returns the target duration between presented frames.
func (c *Config) FrameInterval() float64 {
	return 1.0 / float64(c.TargetFPS)
}
