// ABOUTME: Sound owns decoded samples; Voice is one playback of them
// ABOUTME: Voices add into mixer periods with live volume and mute
package player

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
	"github.com/Chordial-Project/chordial-go/pkg/audio/decode"
	"github.com/Chordial-Project/chordial-go/pkg/audio/mixer"
)

// Sound is an immutable decoded audio clip. Many voices may play the
// same sound at once; the sample data is shared, never copied.
type Sound struct {
	buf  *buffer.Buffer[float32]
	rate float64
}

// NewSound wraps already-decoded planar samples.
func NewSound(buf *buffer.Buffer[float32], frameRate float64) (*Sound, error) {
	if buf == nil || buf.Frames() == 0 {
		return nil, fmt.Errorf("player: empty sound")
	}
	if frameRate <= 0 {
		return nil, fmt.Errorf("player: invalid frame rate %v", frameRate)
	}
	return &Sound{buf: buf, rate: frameRate}, nil
}

// Load decodes the file at path into a Sound.
func Load(path string) (*Sound, error) {
	buf, rate, err := decode.File(path)
	if err != nil {
		return nil, err
	}
	return NewSound(buf, rate)
}

// Channels returns the source channel count.
func (s *Sound) Channels() int { return s.buf.Channels() }

// Frames returns the clip length in frames.
func (s *Sound) Frames() int { return s.buf.Frames() }

// FrameRate returns the source frame rate.
func (s *Sound) FrameRate() float64 { return s.rate }

// Voice creates a playback of the sound starting at frame zero.
func (s *Sound) Voice(volume float32) *Voice {
	v := &Voice{sound: s}
	v.SetVolume(volume)
	return v
}

// Voice is one playback position within a Sound. It implements
// mixer.OneShot; submit it with Controls.Play. Volume and mute may be
// changed from any goroutine while the voice plays.
type Voice struct {
	sound *Sound
	next  int

	volumeBits atomic.Uint32
	muted      atomic.Bool
}

// SetVolume sets the linear gain applied while mixing.
func (v *Voice) SetVolume(volume float32) {
	v.volumeBits.Store(math.Float32bits(volume))
}

// Volume returns the current linear gain.
func (v *Voice) Volume() float32 {
	return math.Float32frombits(v.volumeBits.Load())
}

// SetMuted silences the voice without losing its position.
func (v *Voice) SetMuted(muted bool) { v.muted.Store(muted) }

// Muted reports whether the voice is muted.
func (v *Voice) Muted() bool { return v.muted.Load() }

// FillBuffer adds the next slice of the clip into buf. Source channels
// fan out across the output: output channel c reads source channel
// c mod Channels(), so mono fills every speaker and stereo drops extra
// channels on a mono output. Playback does not resample; the clip's
// rate is expected to match the stream's.
func (v *Voice) FillBuffer(_ float64, buf mixer.Buf) bool {
	total := v.sound.buf.Frames()
	n := buf.Frames()
	if left := total - v.next; n > left {
		n = left
	}

	gain := v.Volume()
	if v.muted.Load() {
		gain = 0
	}
	if gain != 0 {
		srcChannels := v.sound.buf.Channels()
		for c := 0; c < buf.Channels(); c++ {
			src := v.sound.buf.Channel(c % srcChannels)[v.next:]
			dst := buf.Channel(c)
			for i := 0; i < n; i++ {
				dst[i] += src[i] * gain
			}
		}
	}

	v.next += n
	return v.next < total
}
