// ABOUTME: Virtual null backend for tests and headless use
// ABOUTME: A timer paces period consumption in place of real hardware
package device

import (
	"time"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/stream"
	"github.com/sirupsen/logrus"
)

type nullHost struct{}

// NewNullHost returns the virtual host. Its single device consumes
// periods on a wall-clock timer and discards the samples.
func NewNullHost() Host { return nullHost{} }

func (nullHost) Name() string { return "null" }

func (nullHost) Devices() ([]Device, error) {
	return []Device{nullDevice{}}, nil
}

func (nullHost) DefaultOutputDevice(Role) (Device, bool) {
	return nullDevice{}, true
}

func (nullHost) DefaultInputDevice(Role) (Device, bool) {
	return nil, false
}

func (nullHost) Close() error { return nil }

type nullDevice struct{}

func (nullDevice) Name() string { return "null output" }

func (nullDevice) OutputFormats(mode ShareMode) (DeviceFormats, bool) {
	if mode == Exclusive {
		return DeviceFormats{}, false
	}
	return DeviceFormats{
		MaxChannels:   8,
		FrameRates:    append([]float64(nil), standardRates...),
		Formats:       audio.FormatSetOf(audio.FallbackFormats...),
		MinBufferSize: minBufferFrames,
		MaxBufferSize: maxBufferFrames,
		Layouts:       audio.LayoutSetOf(audio.Interleaved, audio.Separate),
	}, true
}

func (nullDevice) InputFormats(ShareMode) (DeviceFormats, bool) {
	return DeviceFormats{}, false
}

func (d nullDevice) OpenOutputStream(cfg StreamConfig, cb stream.Callback) (*stream.Stream, error) {
	params := streamParams(cfg)
	ring := stream.NewRing(params.PeriodBytes(), params.Periods)
	engine := &nullEngine{
		ring:     ring,
		interval: time.Duration(float64(params.PeriodFrames) / params.FrameRate * float64(time.Second)),
		scratch:  make([]byte, params.PeriodBytes()),
	}
	s, err := stream.Open(params, cb, engine, ring)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"host":   "null",
		"stream": s.ID(),
		"rate":   params.FrameRate,
		"period": params.PeriodFrames,
	}).Debug("opened null output stream")
	return s, nil
}

func (nullDevice) OpenInputStream(StreamConfig, stream.Callback) (*stream.Stream, error) {
	return nil, errInputUnsupported("null")
}

// nullEngine drains one period per tick. Its methods are called from the
// render thread only.
type nullEngine struct {
	ring     *stream.Ring
	interval time.Duration
	scratch  []byte
	stop     chan struct{}
}

func (e *nullEngine) Start() error {
	if e.stop != nil {
		return nil
	}
	e.stop = make(chan struct{})
	go e.drain(e.stop)
	return nil
}

func (e *nullEngine) Stop() error {
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	return nil
}

func (e *nullEngine) Close() error {
	return e.Stop()
}

func (e *nullEngine) drain(stop chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.ring.Read(e.scratch)
		}
	}
}
