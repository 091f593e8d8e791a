// ABOUTME: Per-period output view handed to the render callback
// ABOUTME: Accessors are selected by the negotiated channel layout
package stream

import (
	"fmt"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
)

// OutputView is the writable sample window for one render period. The
// accessor matching the stream's negotiated layout must be used; calling
// the other one is a caller contract violation and panics. The view is
// only valid for the duration of the callback invocation.
type OutputView struct {
	layout      audio.ChannelLayout
	channels    int
	frames      int
	interleaved []float32
	planar      buffer.Mut[float32]
}

// Layout returns the negotiated channel layout.
func (v *OutputView) Layout() audio.ChannelLayout { return v.layout }

// Channels returns the channel count.
func (v *OutputView) Channels() int { return v.channels }

// Frames returns the period length in frames.
func (v *OutputView) Frames() int { return v.frames }

// Interleaved returns the period samples as one interleaved slice.
// Panics unless the stream layout is Interleaved.
func (v *OutputView) Interleaved() []float32 {
	if v.layout != audio.Interleaved {
		panic(fmt.Sprintf("stream: Interleaved() on %v stream", v.layout))
	}
	return v.interleaved
}

// Planar returns the period samples as a planar mutable view.
// Panics unless the stream layout is Separate.
func (v *OutputView) Planar() buffer.Mut[float32] {
	if v.layout != audio.Separate {
		panic(fmt.Sprintf("stream: Planar() on %v stream", v.layout))
	}
	return v.planar
}
