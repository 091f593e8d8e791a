// ABOUTME: Owned planar sample buffer with append-only extension
// ABOUTME: Single-arena layout keeps per-channel capacity equal by construction
package buffer

import "fmt"

// Sample is the set of element types a buffer can hold.
type Sample interface {
	~int16 | ~int32 | ~float32 | ~float64
}

// Buffer is an exclusively owned planar sample buffer. The channel count
// is fixed at construction; the frame count grows monotonically through
// the Extend methods. All channels share one arena allocation, so their
// capacities are always identical. Growth failure is a process-level
// abort (allocation panics), never a torn buffer.
type Buffer[T Sample] struct {
	arena    []T
	channels int
	frames   int
	capacity int
}

// New creates an empty buffer with the given channel count.
// Panics if channels is not positive.
func New[T Sample](channels int) *Buffer[T] {
	if channels <= 0 {
		panic(fmt.Sprintf("buffer: invalid channel count %d", channels))
	}
	return &Buffer[T]{channels: channels}
}

// Channels returns the fixed channel count.
func (b *Buffer[T]) Channels() int { return b.channels }

// Frames returns the current frame count.
func (b *Buffer[T]) Frames() int { return b.frames }

// Cap returns the per-channel capacity in frames.
func (b *Buffer[T]) Cap() int { return b.capacity }

// Reserve ensures capacity for at least additional more frames on every
// channel. A no-op when the capacity is already sufficient.
func (b *Buffer[T]) Reserve(additional int) {
	if additional < 0 {
		panic(fmt.Sprintf("buffer: negative reserve %d", additional))
	}
	need := b.frames + additional
	if need <= b.capacity {
		return
	}
	newCap := b.capacity * 2
	if newCap < need {
		newCap = need
	}
	if newCap < 64 {
		newCap = 64
	}
	arena := make([]T, b.channels*newCap)
	for c := 0; c < b.channels; c++ {
		copy(arena[c*newCap:], b.arena[c*b.capacity:c*b.capacity+b.frames])
	}
	b.arena = arena
	b.capacity = newCap
}

// ExtendByChannel grows the buffer by frames, invoking fill once per
// channel with the destination slice for the new region. The frame count
// advances only after every channel has been filled.
func (b *Buffer[T]) ExtendByChannel(frames int, fill func(channel int, dst []T)) {
	if frames <= 0 {
		return
	}
	b.Reserve(frames)
	for c := 0; c < b.channels; c++ {
		base := c*b.capacity + b.frames
		fill(c, b.arena[base:base+frames])
	}
	b.frames += frames
}

// ExtendBySample is a per-sample variant of ExtendByChannel for sources
// that produce one sample at a time. next is called for every (channel,
// frame) pair of the new region, frame-major within each channel.
func (b *Buffer[T]) ExtendBySample(frames int, next func(channel, frame int) T) {
	b.ExtendByChannel(frames, func(c int, dst []T) {
		for i := range dst {
			dst[i] = next(c, i)
		}
	})
}

// ExtendFromRef appends all frames of src. The channel counts must match.
func (b *Buffer[T]) ExtendFromRef(src Ref[T]) {
	if src.Channels() != b.channels {
		panic(fmt.Sprintf("buffer: channel count mismatch %d != %d", src.Channels(), b.channels))
	}
	b.ExtendByChannel(src.Frames(), func(c int, dst []T) {
		copy(dst, src.Channel(c))
	})
}

// Channel returns the samples of one channel. Panics on an out-of-range
// index.
func (b *Buffer[T]) Channel(channel int) []T {
	if channel < 0 || channel >= b.channels {
		panic(fmt.Sprintf("buffer: channel %d out of range [0,%d)", channel, b.channels))
	}
	return b.channelUnchecked(channel)
}

// channelUnchecked skips the channel range check; callers on hot paths
// must have validated the index.
func (b *Buffer[T]) channelUnchecked(channel int) []T {
	base := channel * b.capacity
	return b.arena[base : base+b.frames : base+b.capacity]
}

// Ref returns a read-only view over the current contents.
func (b *Buffer[T]) Ref() Ref[T] {
	return Ref[T]{view: b.view()}
}

// Mut returns a mutable view over the current contents.
func (b *Buffer[T]) Mut() Mut[T] {
	return Mut[T]{view: b.view()}
}

func (b *Buffer[T]) view() view[T] {
	chans := make([][]T, b.channels)
	for c := range chans {
		chans[c] = b.channelUnchecked(c)
	}
	return view[T]{channels: chans, frames: b.frames}
}

// view is the shared representation of Ref and Mut: one slice per
// channel plus the frame count, carrying no ownership.
type view[T Sample] struct {
	channels [][]T
	frames   int
}

// Ref is a non-owning read-only planar view.
type Ref[T Sample] struct {
	view view[T]
}

// MakeRef builds a view over caller-provided per-channel slices. All
// slices must have equal length; that length is the frame count.
func MakeRef[T Sample](channels [][]T) Ref[T] {
	return Ref[T]{view: makeView(channels)}
}

// Channels returns the channel count.
func (r Ref[T]) Channels() int { return len(r.view.channels) }

// Frames returns the frame count.
func (r Ref[T]) Frames() int { return r.view.frames }

// Channel returns one channel's samples. The returned slice must be
// treated as read-only.
func (r Ref[T]) Channel(channel int) []T { return r.view.channels[channel] }

// Mut is a non-owning mutable planar view.
type Mut[T Sample] struct {
	view view[T]
}

// MakeMut builds a mutable view over caller-provided per-channel slices.
// All slices must have equal length; that length is the frame count.
func MakeMut[T Sample](channels [][]T) Mut[T] {
	return Mut[T]{view: makeView(channels)}
}

// Channels returns the channel count.
func (m Mut[T]) Channels() int { return len(m.view.channels) }

// Frames returns the frame count.
func (m Mut[T]) Frames() int { return m.view.frames }

// Channel returns one channel's samples for writing.
func (m Mut[T]) Channel(channel int) []T { return m.view.channels[channel] }

// Ref converts the mutable view to a read-only one.
func (m Mut[T]) Ref() Ref[T] { return Ref[T]{view: m.view} }

func makeView[T Sample](channels [][]T) view[T] {
	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}
	for c, ch := range channels {
		if len(ch) != frames {
			panic(fmt.Sprintf("buffer: channel %d has %d frames, want %d", c, len(ch), frames))
		}
	}
	return view[T]{channels: channels, frames: frames}
}
