// ABOUTME: Synthetic sine one-shot for tests and speaker checks
// ABOUTME: Duration resolves to frames lazily once the rate is known
package player

import (
	"math"
	"time"

	"github.com/Chordial-Project/chordial-go/pkg/audio/mixer"
)

// Tone is a finite sine source implementing mixer.OneShot. It renders
// the same signal on every output channel.
type Tone struct {
	freq      float64
	amplitude float32
	duration  time.Duration

	phase     float64
	remaining int
	started   bool
}

// NewTone creates a sine one-shot at freq Hz with linear amplitude,
// lasting for the given wall-clock duration at the stream's rate.
func NewTone(freq float64, amplitude float32, duration time.Duration) *Tone {
	return &Tone{freq: freq, amplitude: amplitude, duration: duration}
}

// FillBuffer adds the sine into buf and reports whether the tone has
// frames left.
func (t *Tone) FillBuffer(frameRate float64, buf mixer.Buf) bool {
	if !t.started {
		t.remaining = int(t.duration.Seconds() * frameRate)
		t.started = true
	}

	n := buf.Frames()
	if n > t.remaining {
		n = t.remaining
	}
	step := 2 * math.Pi * t.freq / frameRate

	phase := t.phase
	for i := 0; i < n; i++ {
		s := t.amplitude * float32(math.Sin(phase))
		for c := 0; c < buf.Channels(); c++ {
			buf.Channel(c)[i] += s
		}
		phase += step
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}
	}
	t.phase = phase
	t.remaining -= n
	return t.remaining > 0
}
