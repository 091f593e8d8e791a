// ABOUTME: Stream handle, command state and the render-thread loop
// ABOUTME: Non-blocking start/stop/close over an atomic command bitset
package stream

import (
	"fmt"
	"runtime"

	"sync/atomic"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	flagPlaying uint32 = 1 << 0
	flagClosing uint32 = 1 << 1
)

// Callback renders one period of output samples. It runs on the
// real-time thread and must not block, allocate, or panic.
type Callback func(*OutputView)

// Engine is the native side of an open stream. Start and Stop are
// invoked from the render thread when the PLAYING flag transitions;
// Close is invoked once when the render thread exits.
type Engine interface {
	Start() error
	Stop() error
	Close() error
}

// Config describes an open stream as negotiated with the device.
type Config struct {
	Channels     int
	Format       audio.SampleFormat
	Layout       audio.ChannelLayout
	FrameRate    float64
	PeriodFrames int
	Periods      int
}

// PeriodBytes returns the native size of one period.
func (c Config) PeriodBytes() int {
	return c.PeriodFrames * c.Channels * c.Format.Bytes()
}

func (c Config) validate() error {
	if c.Channels <= 0 || c.PeriodFrames <= 0 || c.FrameRate <= 0 {
		return fmt.Errorf("stream: degenerate config %+v: %w", c, audio.ErrUnsupportedConfiguration)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("stream: invalid sample format: %w", audio.ErrUnsupportedConfiguration)
	}
	return nil
}

// Stream is the control-thread handle of an open stream. All methods are
// safe for concurrent use and non-blocking.
type Stream struct {
	id       uuid.UUID
	cfg      Config
	callback Callback
	engine   Engine
	ring     *Ring
	log      *logrus.Entry

	bits atomic.Uint32
	wake chan struct{}
	err  atomic.Pointer[error]

	// Render-thread state. Touched only by the render goroutine.
	staging       []float32
	planar        [][]float32
	view          OutputView
	enginePlaying bool
}

// Open wires a negotiated config, a render callback, a native engine and
// its period ring together and spawns the render thread. Construction is
// synchronous; rendering begins once Start is called.
func Open(cfg Config, cb Callback, engine Engine, ring *Ring) (*Stream, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cb == nil {
		return nil, fmt.Errorf("stream: nil callback: %w", audio.ErrUnsupportedConfiguration)
	}

	s := &Stream{
		id:       uuid.New(),
		cfg:      cfg,
		callback: cb,
		engine:   engine,
		ring:     ring,
		wake:     make(chan struct{}, 1),
		staging:  make([]float32, cfg.Channels*cfg.PeriodFrames),
	}
	s.log = logrus.WithFields(logrus.Fields{
		"stream": s.id,
		"format": cfg.Format,
		"layout": cfg.Layout,
		"rate":   cfg.FrameRate,
	})

	switch cfg.Layout {
	case audio.Separate:
		s.planar = make([][]float32, cfg.Channels)
		for c := range s.planar {
			s.planar[c] = s.staging[c*cfg.PeriodFrames : (c+1)*cfg.PeriodFrames]
		}
		s.view = OutputView{
			layout:   audio.Separate,
			channels: cfg.Channels,
			frames:   cfg.PeriodFrames,
			planar:   buffer.MakeMut(s.planar),
		}
	case audio.Interleaved:
		s.view = OutputView{
			layout:      audio.Interleaved,
			channels:    cfg.Channels,
			frames:      cfg.PeriodFrames,
			interleaved: s.staging,
		}
	default:
		return nil, fmt.Errorf("stream: unknown layout %v: %w", cfg.Layout, audio.ErrUnsupportedConfiguration)
	}

	go s.run()
	return s, nil
}

// ID identifies the stream in logs and errors.
func (s *Stream) ID() uuid.UUID { return s.id }

// Config returns the negotiated stream configuration.
func (s *Stream) Config() Config { return s.cfg }

// Start asks the render thread to begin playback. Non-blocking and
// idempotent.
func (s *Stream) Start() {
	s.bits.Or(flagPlaying)
	s.signal()
}

// Stop asks the render thread to pause playback. Non-blocking and
// idempotent; the thread may render a final period before observing it.
func (s *Stream) Stop() {
	s.bits.And(^flagPlaying)
	s.signal()
}

// Close asks the render thread to shut down and release the native
// stream. It does not wait for the thread to exit.
func (s *Stream) Close() {
	s.bits.Or(flagClosing)
	s.signal()
}

// CheckError returns the first failure recorded by the render loop, or
// nil. After a failure the stream is stopped but Close still works.
func (s *Stream) CheckError() error {
	if p := s.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Underruns reports how often the device read ahead of the renderer.
func (s *Stream) Underruns() uint64 { return s.ring.Underruns() }

func (s *Stream) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run is the render thread: one locked OS thread per open stream,
// elevated to the platform's time-critical priority when permitted.
func (s *Stream) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := elevatePriority(); err != nil {
		s.log.WithError(err).Debug("render thread priority not elevated")
	}
	s.log.Debug("render thread started")

	for s.processCommands() {
		s.waitWakeup()
		s.renderPeriods()
	}

	if s.enginePlaying {
		if err := s.engine.Stop(); err != nil {
			s.log.WithError(err).Warn("stopping native engine at close")
		}
	}
	if err := s.engine.Close(); err != nil {
		s.log.WithError(err).Warn("closing native engine")
	}
	if n := s.ring.Underruns(); n > 0 {
		s.log.WithField("underruns", n).Info("render thread exited")
	} else {
		s.log.Debug("render thread exited")
	}
}

// processCommands reads the command bitset once per iteration and applies
// transitions. Returns false when CLOSING is set.
func (s *Stream) processCommands() bool {
	bits := s.bits.Load()
	if bits&flagClosing != 0 {
		return false
	}
	playing := bits&flagPlaying != 0
	if playing != s.enginePlaying {
		var err error
		if playing {
			err = s.engine.Start()
		} else {
			err = s.engine.Stop()
		}
		if err != nil {
			s.fail(err)
			return true
		}
		s.enginePlaying = playing
	}
	return true
}

// waitWakeup blocks until either a command changed or the device freed
// period space. No timeout: once playing, the device guarantees periodic
// space signals, and while stopped only commands matter.
func (s *Stream) waitWakeup() {
	select {
	case <-s.wake:
	case <-s.ring.Space():
	}
}

// renderPeriods fills every free period in the ring.
func (s *Stream) renderPeriods() {
	if !s.enginePlaying {
		return
	}
	for {
		region, ok := s.ring.AcquirePeriod()
		if !ok {
			return
		}
		s.renderOnePeriod(region)
		s.ring.CommitPeriod()
	}
}

func (s *Stream) renderOnePeriod(region []byte) {
	for i := range s.staging {
		s.staging[i] = 0
	}
	s.callback(&s.view)
	s.encode(region)
}

// encode converts the staging samples to the native interleaved wire
// format. Planar staging is interleaved by index arithmetic here; no
// pointer aliasing into the stream struct.
func (s *Stream) encode(region []byte) {
	if s.cfg.Layout == audio.Interleaved {
		audio.EncodeInterleaved(s.cfg.Format, s.staging, region)
		return
	}
	w := s.cfg.Format.Bytes()
	ch := s.cfg.Channels
	for f := 0; f < s.cfg.PeriodFrames; f++ {
		base := f * ch * w
		for c := 0; c < ch; c++ {
			audio.PutSample(s.cfg.Format, region[base+c*w:], s.planar[c][f])
		}
	}
}

// fail records the first render-loop error, stops playback and keeps the
// loop alive so Close still releases the native stream.
func (s *Stream) fail(err error) {
	e := err
	s.err.CompareAndSwap(nil, &e)
	s.bits.And(^flagPlaying)
	if s.enginePlaying {
		if stopErr := s.engine.Stop(); stopErr != nil {
			s.log.WithError(stopErr).Warn("stopping native engine after failure")
		}
		s.enginePlaying = false
	}
	s.log.WithError(err).Error("render loop failure, stream stopped")
}
