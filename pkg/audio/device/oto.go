// ABOUTME: oto backend playing through a single OS mixer context
// ABOUTME: A pull io.Reader bridges the period ring into oto's player
package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/stream"
	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

// oto permits one context per process, created once and never torn
// down. The first opened stream fixes the context configuration;
// later opens must match it.
var otoShared struct {
	mu       sync.Mutex
	ctx      *oto.Context
	rate     int
	channels int
	format   oto.Format
}

type otoHost struct{}

// NewOtoHost returns the oto backend. oto exposes no enumeration, so
// the host carries a single device representing the system default.
func NewOtoHost() (Host, error) {
	return otoHost{}, nil
}

func (otoHost) Name() string { return "oto" }

func (otoHost) Devices() ([]Device, error) {
	return []Device{otoDevice{}}, nil
}

func (otoHost) DefaultOutputDevice(Role) (Device, bool) {
	return otoDevice{}, true
}

func (otoHost) DefaultInputDevice(Role) (Device, bool) {
	return nil, false
}

// Close is a no-op: the oto context cannot be released once created.
func (otoHost) Close() error { return nil }

type otoDevice struct{}

func (otoDevice) Name() string { return "system default" }

func (otoDevice) OutputFormats(mode ShareMode) (DeviceFormats, bool) {
	if mode != Share {
		return DeviceFormats{}, false
	}
	return DeviceFormats{
		MaxChannels: 2,
		FrameRates:  append([]float64(nil), standardRates...),
		Formats: audio.FormatSetOf(
			audio.FormatF32LE,
			audio.FormatS16LE,
			audio.FormatU8,
		),
		MinBufferSize: minBufferFrames,
		MaxBufferSize: maxBufferFrames,
		Layouts:       audio.LayoutSetOf(audio.Interleaved, audio.Separate),
	}, true
}

func (otoDevice) InputFormats(ShareMode) (DeviceFormats, bool) {
	return DeviceFormats{}, false
}

func (d otoDevice) OpenOutputStream(cfg StreamConfig, cb stream.Callback) (*stream.Stream, error) {
	params := streamParams(cfg)
	of, err := toOtoFormat(params.Format)
	if err != nil {
		return nil, err
	}

	ctx, err := sharedOtoContext(int(params.FrameRate), params.Channels, of, params)
	if err != nil {
		return nil, err
	}

	ring := stream.NewRing(params.PeriodBytes(), params.Periods)
	player := ctx.NewPlayer(&ringReader{ring: ring})

	s, err := stream.Open(params, cb, &otoEngine{player: player}, ring)
	if err != nil {
		player.Close()
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"host":   "oto",
		"stream": s.ID(),
		"format": params.Format,
		"rate":   params.FrameRate,
		"period": params.PeriodFrames,
	}).Info("opened output stream")
	return s, nil
}

func (otoDevice) OpenInputStream(StreamConfig, stream.Callback) (*stream.Stream, error) {
	return nil, errInputUnsupported("oto")
}

func sharedOtoContext(rate, channels int, format oto.Format, params stream.Config) (*oto.Context, error) {
	otoShared.mu.Lock()
	defer otoShared.mu.Unlock()

	if otoShared.ctx != nil {
		if otoShared.rate != rate || otoShared.channels != channels || otoShared.format != format {
			return nil, fmt.Errorf(
				"oto: context already bound to %d Hz %dch, cannot reopen at %d Hz %dch: %w",
				otoShared.rate, otoShared.channels, rate, channels, audio.ErrDeviceInUse)
		}
		return otoShared.ctx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       format,
		BufferSize: time.Duration(
			float64(params.PeriodFrames*params.Periods) / params.FrameRate * float64(time.Second)),
	})
	if err != nil {
		return nil, &audio.BackendError{Backend: "oto", Op: "new context", Err: err}
	}
	<-ready

	otoShared.ctx = ctx
	otoShared.rate = rate
	otoShared.channels = channels
	otoShared.format = format
	return ctx, nil
}

// ringReader feeds the oto player from the period ring. It always
// fills p; underruns come out as silence so the player never stalls.
type ringReader struct {
	ring *stream.Ring
}

func (r *ringReader) Read(p []byte) (int, error) {
	r.ring.Read(p)
	return len(p), nil
}

// otoEngine adapts an oto player to the stream.Engine contract.
type otoEngine struct {
	player *oto.Player
}

func (e *otoEngine) Start() error {
	e.player.Play()
	return nil
}

func (e *otoEngine) Stop() error {
	e.player.Pause()
	return nil
}

func (e *otoEngine) Close() error {
	if err := e.player.Close(); err != nil {
		return &audio.BackendError{Backend: "oto", Op: "close player", Err: err}
	}
	return nil
}

func toOtoFormat(f audio.SampleFormat) (oto.Format, error) {
	switch f {
	case audio.FormatF32LE:
		return oto.FormatFloat32LE, nil
	case audio.FormatS16LE:
		return oto.FormatSignedInt16LE, nil
	case audio.FormatU8:
		return oto.FormatUnsignedInt8, nil
	default:
		return 0, fmt.Errorf("oto: no native encoding for %v: %w",
			f, audio.ErrUnsupportedConfiguration)
	}
}
