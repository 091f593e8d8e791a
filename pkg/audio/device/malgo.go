// ABOUTME: malgo (miniaudio) backend with real device enumeration
// ABOUTME: Wraps WASAPI/CoreAudio/ALSA behind the Host interface
package device

import (
	"fmt"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/stream"
	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"
)

type malgoHost struct {
	ctx *malgo.AllocatedContext
}

// NewMalgoHost initializes a miniaudio context. miniaudio selects the
// native service per platform (WASAPI on Windows, CoreAudio on macOS,
// ALSA/PulseAudio on Linux).
func NewMalgoHost() (Host, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, &audio.BackendError{Backend: "malgo", Op: "init context", Err: err}
	}
	return &malgoHost{ctx: ctx}, nil
}

func (h *malgoHost) Name() string { return "malgo" }

func (h *malgoHost) Devices() ([]Device, error) {
	infos, err := h.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, &audio.BackendError{Backend: "malgo", Op: "enumerate devices", Err: err}
	}
	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, &malgoDevice{host: h, info: info})
	}
	return devices, nil
}

// DefaultOutputDevice ignores the role hint: miniaudio exposes a single
// system default and no per-role endpoint selection.
func (h *malgoHost) DefaultOutputDevice(Role) (Device, bool) {
	infos, err := h.ctx.Devices(malgo.Playback)
	if err != nil || len(infos) == 0 {
		return nil, false
	}
	for _, info := range infos {
		if info.IsDefault != 0 {
			return &malgoDevice{host: h, info: info}, true
		}
	}
	return &malgoDevice{host: h, info: infos[0]}, true
}

func (h *malgoHost) DefaultInputDevice(Role) (Device, bool) {
	return nil, false
}

func (h *malgoHost) Close() error {
	if err := h.ctx.Uninit(); err != nil {
		h.ctx.Free()
		return &audio.BackendError{Backend: "malgo", Op: "uninit context", Err: err}
	}
	h.ctx.Free()
	return nil
}

type malgoDevice struct {
	host *malgoHost
	info malgo.DeviceInfo
}

func (d *malgoDevice) Name() string { return d.info.Name() }

func (d *malgoDevice) OutputFormats(mode ShareMode) (DeviceFormats, bool) {
	// Streams are opened in shared mode only; exclusive mode is reported
	// unsupported rather than guessed at.
	if mode != Share {
		return DeviceFormats{}, false
	}

	full, err := d.host.ctx.DeviceInfo(malgo.Playback, d.info.ID, malgo.Shared)
	if err != nil {
		return DeviceFormats{}, false
	}

	var formats audio.FormatSet
	var rates []float64
	channels := 0
	for _, df := range full.Formats[:full.FormatCount] {
		f := fromMalgoFormat(df.Format)
		if f != audio.FormatUnknown {
			formats = formats.With(f)
		}
		if int(df.Channels) > channels {
			channels = int(df.Channels)
		}
		if df.SampleRate != 0 {
			rates = appendRate(rates, float64(df.SampleRate))
		}
	}
	// Some miniaudio backends report no discrete native formats; fall
	// back to what miniaudio converts to internally.
	if formats.Empty() {
		formats = audio.FormatSetOf(
			audio.FormatF32LE.NativeOrder(),
			audio.FormatS16LE.NativeOrder(),
			audio.FormatS32LE.NativeOrder(),
		)
	}
	if channels == 0 {
		channels = 2
	}
	if len(rates) == 0 {
		rates = append([]float64(nil), standardRates...)
	}

	return DeviceFormats{
		MaxChannels:   channels,
		FrameRates:    rates,
		Formats:       formats,
		MinBufferSize: minBufferFrames,
		MaxBufferSize: maxBufferFrames,
		// The ring interleaves for the device, so both callback layouts
		// are available regardless of the native arrangement.
		Layouts: audio.LayoutSetOf(audio.Interleaved, audio.Separate),
	}, true
}

func (d *malgoDevice) InputFormats(ShareMode) (DeviceFormats, bool) {
	return DeviceFormats{}, false
}

func (d *malgoDevice) OpenOutputStream(cfg StreamConfig, cb stream.Callback) (*stream.Stream, error) {
	params := streamParams(cfg)
	mf := toMalgoFormat(params.Format)
	if mf == malgo.FormatUnknown {
		return nil, fmt.Errorf("malgo: no native encoding for %v: %w",
			params.Format, audio.ErrUnsupportedConfiguration)
	}

	ring := stream.NewRing(params.PeriodBytes(), params.Periods)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = mf
	deviceConfig.Playback.Channels = uint32(params.Channels)
	deviceConfig.Playback.DeviceID = d.info.ID.Pointer()
	deviceConfig.SampleRate = uint32(params.FrameRate)
	deviceConfig.PeriodSizeInFrames = uint32(params.PeriodFrames)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		// The device pulls committed bytes; on underrun the ring
		// zero-fills, so this never blocks the native thread.
		Data: func(pOutput, pInput []byte, frameCount uint32) {
			ring.Read(pOutput)
		},
	}

	dev, err := malgo.InitDevice(d.host.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, &audio.BackendError{Backend: "malgo", Op: "init device", Err: err}
	}

	s, err := stream.Open(params, cb, &malgoEngine{device: dev}, ring)
	if err != nil {
		dev.Uninit()
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"host":   "malgo",
		"device": d.Name(),
		"stream": s.ID(),
		"format": params.Format,
		"rate":   params.FrameRate,
		"period": params.PeriodFrames,
	}).Info("opened output stream")
	return s, nil
}

func (d *malgoDevice) OpenInputStream(StreamConfig, stream.Callback) (*stream.Stream, error) {
	return nil, errInputUnsupported("malgo")
}

// malgoEngine adapts a malgo device to the stream.Engine contract.
type malgoEngine struct {
	device *malgo.Device
}

func (e *malgoEngine) Start() error {
	if err := e.device.Start(); err != nil {
		return &audio.BackendError{Backend: "malgo", Op: "start device", Err: err}
	}
	return nil
}

func (e *malgoEngine) Stop() error {
	if err := e.device.Stop(); err != nil {
		return &audio.BackendError{Backend: "malgo", Op: "stop device", Err: err}
	}
	return nil
}

func (e *malgoEngine) Close() error {
	e.device.Uninit()
	return nil
}

// fromMalgoFormat maps a miniaudio native format onto the format model.
// miniaudio formats are host byte order.
func fromMalgoFormat(f malgo.FormatType) audio.SampleFormat {
	switch f {
	case malgo.FormatU8:
		return audio.FormatU8
	case malgo.FormatS16:
		return audio.FormatS16LE.NativeOrder()
	case malgo.FormatS24:
		return audio.FormatS24LE.NativeOrder()
	case malgo.FormatS32:
		return audio.FormatS32LE.NativeOrder()
	case malgo.FormatF32:
		return audio.FormatF32LE.NativeOrder()
	default:
		return audio.FormatUnknown
	}
}

func toMalgoFormat(f audio.SampleFormat) malgo.FormatType {
	switch f.NativeOrder() {
	case audio.FormatU8:
		return malgo.FormatU8
	case audio.FormatS16LE.NativeOrder():
		return malgo.FormatS16
	case audio.FormatS24LE.NativeOrder():
		return malgo.FormatS24
	case audio.FormatS32LE.NativeOrder():
		return malgo.FormatS32
	case audio.FormatF32LE.NativeOrder():
		return malgo.FormatF32
	default:
		return malgo.FormatUnknown
	}
}

func appendRate(rates []float64, r float64) []float64 {
	for _, have := range rates {
		if have == r {
			return rates
		}
	}
	return append(rates, r)
}
