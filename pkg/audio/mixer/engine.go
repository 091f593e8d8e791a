// ABOUTME: Per-period mixing engine driven from the render callback
// ABOUTME: Try-lock pickup, additive mixing, count publication and notification
package mixer

// Notifier receives the playing count whenever it changes between
// periods. It is invoked on the real-time thread and must not block;
// ChanNotifier satisfies that with a select-default send.
type Notifier interface {
	PlayingCountChanged(n int)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(int)

func (f NotifierFunc) PlayingCountChanged(n int) { f(n) }

// ChanNotifier forwards count changes into a channel without blocking;
// a slow consumer loses intermediate values, never stalls the mixer.
type ChanNotifier chan int

func (c ChanNotifier) PlayingCountChanged(n int) {
	select {
	case c <- n:
	default:
	}
}

// Engine owns the playing list. All of its methods run on the render
// thread; the only shared state is the Controls block.
type Engine struct {
	controls *Controls
	notifier Notifier

	playing   []OneShot
	lastCount int
}

// NewEngine creates an engine bound to its control block. notifier may
// be nil.
func NewEngine(controls *Controls, notifier Notifier) *Engine {
	return &Engine{
		controls: controls,
		notifier: notifier,
		playing:  make([]OneShot, 0, 16),
	}
}

// FillBuffer mixes one period into buf, which the caller must have
// zero-filled. Finished sources are removed in place; the resulting
// playing count is published and, on change, reported to the notifier.
func (e *Engine) FillBuffer(frameRate float64, buf Buf) {
	c := e.controls

	// Non-blocking pickup: on contention the pending sources simply wait
	// one more period.
	if c.mu.TryLock() {
		e.playing = append(e.playing, c.pending...)
		c.pending = c.pending[:0]
		c.mu.Unlock()
	}

	if c.clear.Swap(false) {
		for i := range e.playing {
			e.playing[i] = nil
		}
		e.playing = e.playing[:0]
	}

	keep := e.playing[:0]
	for _, s := range e.playing {
		if s.FillBuffer(frameRate, buf) {
			keep = append(keep, s)
		}
	}
	for i := len(keep); i < len(e.playing); i++ {
		e.playing[i] = nil
	}
	e.playing = keep

	count := len(e.playing)
	c.playing.Store(int32(count))
	if count != e.lastCount {
		e.lastCount = count
		if e.notifier != nil {
			e.notifier.PlayingCountChanged(count)
		}
	}
}

// Render is the full per-period contract: zero-fill, mix, clamp.
func (e *Engine) Render(frameRate float64, buf Buf) {
	Zero(buf)
	e.FillBuffer(frameRate, buf)
	Clamp(buf)
}

// Zero silences every sample of buf.
func Zero(buf Buf) {
	for c := 0; c < buf.Channels(); c++ {
		ch := buf.Channel(c)
		for i := range ch {
			ch[i] = 0
		}
	}
}

// Clamp restricts every sample of buf to [-1, 1], tolerating clipping
// from overlapping sources.
func Clamp(buf Buf) {
	for c := 0; c < buf.Channels(); c++ {
		ch := buf.Channel(c)
		for i, s := range ch {
			if s > 1 {
				ch[i] = 1
			} else if s < -1 {
				ch[i] = -1
			}
		}
	}
}
