// ABOUTME: Device capability descriptor and stream configuration negotiation
// ABOUTME: Deterministically resolves caller preferences against capabilities
package device

import (
	"fmt"
	"math"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
)

// DeviceFormats describes what one device supports in one direction and
// share mode. A zero value means the direction is unsupported; a
// partially filled descriptor is invalid and rejected by Validate.
type DeviceFormats struct {
	MaxChannels   int
	FrameRates    []float64
	Formats       audio.FormatSet
	MinBufferSize int // frames
	MaxBufferSize int // frames
	Layouts       audio.LayoutSet
}

// Validate rejects descriptors with any empty capability set. Backends
// must only hand out descriptors that pass; negotiation assumes it.
func (f DeviceFormats) Validate() error {
	switch {
	case f.MaxChannels <= 0:
		return fmt.Errorf("device: descriptor without channels: %w", audio.ErrUnsupportedConfiguration)
	case len(f.FrameRates) == 0:
		return fmt.Errorf("device: descriptor without frame rates: %w", audio.ErrUnsupportedConfiguration)
	case f.Formats.Empty():
		return fmt.Errorf("device: descriptor without sample formats: %w", audio.ErrUnsupportedConfiguration)
	case f.MaxBufferSize <= 0 || f.MinBufferSize > f.MaxBufferSize:
		return fmt.Errorf("device: descriptor with bad buffer bounds [%d,%d]: %w",
			f.MinBufferSize, f.MaxBufferSize, audio.ErrUnsupportedConfiguration)
	case f.Layouts.Empty():
		return fmt.Errorf("device: descriptor without channel layouts: %w", audio.ErrUnsupportedConfiguration)
	}
	return nil
}

// StreamConfig is a concrete negotiated stream configuration.
type StreamConfig struct {
	ShareMode  ShareMode
	Channels   int
	Format     audio.SampleFormat
	FrameRate  float64
	Layout     audio.ChannelLayout
	BufferSize int // frames, a hint for the backend's period size
}

// ToStreamConfig resolves caller preferences against the descriptor:
//
//  1. channels: min(preferred, MaxChannels); zero or negative means "as
//     many as the device offers".
//  2. format: first supported entry of preferredFormats, else the first
//     supported entry of audio.FallbackFormats.
//  3. buffer size: preferred clamped into [MinBufferSize, MaxBufferSize].
//  4. layout: preferred if supported, else audio.FallbackLayouts order.
//  5. frame rate: the supported rate nearest preferredRate, ties broken
//     by list order.
//
// The descriptor must pass Validate; on a validated descriptor every
// step is total, so the only error is an invalid descriptor.
func (f DeviceFormats) ToStreamConfig(
	mode ShareMode,
	preferredChannels int,
	preferredFormats []audio.SampleFormat,
	preferredLayout audio.ChannelLayout,
	preferredBufferSize int,
	preferredRate float64,
) (StreamConfig, error) {
	if err := f.Validate(); err != nil {
		return StreamConfig{}, err
	}

	channels := preferredChannels
	if channels <= 0 || channels > f.MaxChannels {
		channels = f.MaxChannels
	}

	format := audio.FormatUnknown
	for _, p := range preferredFormats {
		if f.Formats.Contains(p) {
			format = p
			break
		}
	}
	if format == audio.FormatUnknown {
		for _, p := range audio.FallbackFormats {
			if f.Formats.Contains(p) {
				format = p
				break
			}
		}
	}
	if format == audio.FormatUnknown {
		// Unreachable: Validate guarantees a non-empty format set and the
		// fallback list enumerates every format.
		panic("device: validated descriptor matched no sample format")
	}

	bufferSize := preferredBufferSize
	if bufferSize < f.MinBufferSize {
		bufferSize = f.MinBufferSize
	}
	if bufferSize > f.MaxBufferSize {
		bufferSize = f.MaxBufferSize
	}

	layout := preferredLayout
	if !f.Layouts.Contains(layout) {
		for _, l := range audio.FallbackLayouts {
			if f.Layouts.Contains(l) {
				layout = l
				break
			}
		}
	}

	rate := f.FrameRates[0]
	best := math.Abs(rate - preferredRate)
	for _, r := range f.FrameRates[1:] {
		if d := math.Abs(r - preferredRate); d < best {
			best = d
			rate = r
		}
	}

	return StreamConfig{
		ShareMode:  mode,
		Channels:   channels,
		Format:     format,
		FrameRate:  rate,
		Layout:     layout,
		BufferSize: bufferSize,
	}, nil
}
