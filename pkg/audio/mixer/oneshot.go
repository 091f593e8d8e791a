// ABOUTME: OneShot interface and the cross-thread control block
// ABOUTME: Submission queue, clear flag and the published playing counter
package mixer

import (
	"sync"
	"sync/atomic"

	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
)

// Buf is the planar float32 view one-shots render into.
type Buf = buffer.Mut[float32]

// OneShot is a finite playable source. FillBuffer adds (never
// overwrites) its samples into buf at the given frame rate and reports
// whether more data remains. It runs on the real-time thread and must
// not block or allocate.
type OneShot interface {
	FillBuffer(frameRate float64, buf Buf) bool
}

// Controls is the shared block between control code and one mixing
// engine. Create one per engine and hand it to both sides; there is no
// global instance.
type Controls struct {
	mu      sync.Mutex
	pending []OneShot

	clear   atomic.Bool
	playing atomic.Int32
}

// NewControls creates an empty control block.
func NewControls() *Controls {
	return &Controls{}
}

// Play submits a source for playback. Control thread only; the engine
// picks it up on a following period.
func (c *Controls) Play(s OneShot) {
	c.mu.Lock()
	c.pending = append(c.pending, s)
	c.mu.Unlock()
}

// Clear asks the engine to drop every playing source on its next period.
// Sources already submitted but not yet collected are dropped too.
func (c *Controls) Clear() {
	c.mu.Lock()
	c.pending = c.pending[:0]
	c.mu.Unlock()
	c.clear.Store(true)
}

// Playing returns the number of sources mixed during the most recent
// period. Diagnostic only; it lags the engine by design.
func (c *Controls) Playing() int {
	return int(c.playing.Load())
}
