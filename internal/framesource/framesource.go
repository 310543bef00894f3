// Package framesource provides the frame producers the encode pipeline
// reads from. A Source is anything that can hand the encoder one frame
// at a time; DemoPatternSource and DirectoryFrameSource are the two
// sources GitFlix ships, standing in for an external video-ingestion
// front end.
package framesource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/five82/gitflix/internal/frame"
)

// Source produces a bounded sequence of raw frames at a fixed
// resolution. Next returns io.EOF once the sequence is exhausted.
type Source interface {
	Dimensions() frame.Dimensions
	Next() (*frame.RawFrame, error)
}

// DemoPatternSource synthesizes a moving-gradient test pattern, useful
// for exercising the encode/decode pipeline without external media.
type DemoPatternSource struct {
	dims        frame.Dimensions
	totalFrames int
	emitted     int
}

// NewDemoPatternSource creates a synthetic source of totalFrames frames
// at the given dimensions.
func NewDemoPatternSource(dims frame.Dimensions, totalFrames int) *DemoPatternSource {
	return &DemoPatternSource{dims: dims, totalFrames: totalFrames}
}

func (s *DemoPatternSource) Dimensions() frame.Dimensions { return s.dims }

func (s *DemoPatternSource) Next() (*frame.RawFrame, error) {
	if s.emitted >= s.totalFrames {
		return nil, io.EOF
	}

	pixels := make([]byte, int(s.dims.Width)*int(s.dims.Height)*int(s.dims.Channels))
	shift := byte(s.emitted)
	channels := int(s.dims.Channels)
	for y := uint32(0); y < s.dims.Height; y++ {
		for x := uint32(0); x < s.dims.Width; x++ {
			base := (int(y)*int(s.dims.Width) + int(x)) * channels
			value := byte(x) + byte(y) + shift
			for c := 0; c < channels; c++ {
				pixels[base+c] = value + byte(c*37)
			}
		}
	}

	raw, err := frame.NewRawFrame(s.dims.Width, s.dims.Height, s.dims.Channels, pixels)
	if err != nil {
		return nil, err
	}
	s.emitted++
	return raw, nil
}

// DirectoryFrameSource reads raw, headerless frames from a directory of
// files, one file per frame, sorted by filename. Every file must be
// exactly width*height*channels bytes.
type DirectoryFrameSource struct {
	dims  frame.Dimensions
	files []string
	index int
}

// NewDirectoryFrameSource lists dir and returns a source that reads its
// entries in sorted order as successive frames.
func NewDirectoryFrameSource(dir string, dims frame.Dimensions) (*DirectoryFrameSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("framesource: cannot read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	return &DirectoryFrameSource{dims: dims, files: files}, nil
}

func (s *DirectoryFrameSource) Dimensions() frame.Dimensions { return s.dims }

func (s *DirectoryFrameSource) Next() (*frame.RawFrame, error) {
	if s.index >= len(s.files) {
		return nil, io.EOF
	}
	path := s.files[s.index]
	s.index++

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("framesource: cannot read frame file %s: %w", path, err)
	}

	raw, err := frame.NewRawFrame(s.dims.Width, s.dims.Height, s.dims.Channels, data)
	if err != nil {
		return nil, fmt.Errorf("framesource: %s: %w", path, err)
	}
	return raw, nil
}
