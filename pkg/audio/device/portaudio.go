//go:build portaudio

// ABOUTME: PortAudio backend, enabled with -tags portaudio
// ABOUTME: Enumerates real endpoints and probes rates through PortAudio
package device

import (
	"encoding/binary"
	"math"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/stream"
	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

const portAudioCompiled = true

type portAudioHost struct{}

// NewPortAudioHost initializes the PortAudio library. The library
// refcounts initialization, so hosts may be created and closed freely.
func NewPortAudioHost() (Host, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &audio.BackendError{Backend: "portaudio", Op: "initialize", Err: err}
	}
	return portAudioHost{}, nil
}

func (portAudioHost) Name() string { return "portaudio" }

func (portAudioHost) Devices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, &audio.BackendError{Backend: "portaudio", Op: "enumerate devices", Err: err}
	}
	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		if info.MaxOutputChannels > 0 {
			devices = append(devices, &portAudioDevice{info: info})
		}
	}
	return devices, nil
}

func (portAudioHost) DefaultOutputDevice(Role) (Device, bool) {
	info, err := portaudio.DefaultOutputDevice()
	if err != nil || info == nil {
		return nil, false
	}
	return &portAudioDevice{info: info}, true
}

func (portAudioHost) DefaultInputDevice(Role) (Device, bool) {
	return nil, false
}

func (portAudioHost) Close() error {
	if err := portaudio.Terminate(); err != nil {
		return &audio.BackendError{Backend: "portaudio", Op: "terminate", Err: err}
	}
	return nil
}

type portAudioDevice struct {
	info *portaudio.DeviceInfo
}

func (d *portAudioDevice) Name() string { return d.info.Name }

func (d *portAudioDevice) OutputFormats(mode ShareMode) (DeviceFormats, bool) {
	if mode != Share {
		return DeviceFormats{}, false
	}

	rates := make([]float64, 0, len(standardRates))
	for _, r := range standardRates {
		p := portaudio.HighLatencyParameters(nil, d.info)
		p.SampleRate = r
		if portaudio.IsFormatSupported(p, func([]float32) {}) == nil {
			rates = append(rates, r)
		}
	}
	if len(rates) == 0 {
		rates = append(rates, d.info.DefaultSampleRate)
	}

	return DeviceFormats{
		MaxChannels: d.info.MaxOutputChannels,
		FrameRates:  rates,
		// Streams run through a float32 callback, so float32 in host
		// byte order is the only format on offer.
		Formats:       audio.FormatSetOf(audio.FormatF32LE.NativeOrder()),
		MinBufferSize: minBufferFrames,
		MaxBufferSize: maxBufferFrames,
		Layouts:       audio.LayoutSetOf(audio.Interleaved, audio.Separate),
	}, true
}

func (d *portAudioDevice) InputFormats(ShareMode) (DeviceFormats, bool) {
	return DeviceFormats{}, false
}

func (d *portAudioDevice) OpenOutputStream(cfg StreamConfig, cb stream.Callback) (*stream.Stream, error) {
	params := streamParams(cfg)
	ring := stream.NewRing(params.PeriodBytes(), params.Periods)
	scratch := make([]byte, params.PeriodBytes())

	p := portaudio.LowLatencyParameters(nil, d.info)
	p.Output.Channels = params.Channels
	p.SampleRate = params.FrameRate
	p.FramesPerBuffer = params.PeriodFrames

	st, err := portaudio.OpenStream(p, func(out []float32) {
		need := len(out) * 4
		if need > len(scratch) {
			scratch = make([]byte, need)
		}
		buf := scratch[:need]
		ring.Read(buf)
		for i := range out {
			out[i] = math.Float32frombits(binary.NativeEndian.Uint32(buf[i*4:]))
		}
	})
	if err != nil {
		return nil, &audio.BackendError{Backend: "portaudio", Op: "open stream", Err: err}
	}

	s, err := stream.Open(params, cb, &portAudioEngine{stream: st}, ring)
	if err != nil {
		st.Close()
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"host":   "portaudio",
		"device": d.Name(),
		"stream": s.ID(),
		"rate":   params.FrameRate,
		"period": params.PeriodFrames,
	}).Info("opened output stream")
	return s, nil
}

func (d *portAudioDevice) OpenInputStream(StreamConfig, stream.Callback) (*stream.Stream, error) {
	return nil, errInputUnsupported("portaudio")
}

// portAudioEngine adapts a PortAudio stream to the stream.Engine
// contract.
type portAudioEngine struct {
	stream *portaudio.Stream
}

func (e *portAudioEngine) Start() error {
	if err := e.stream.Start(); err != nil {
		return &audio.BackendError{Backend: "portaudio", Op: "start stream", Err: err}
	}
	return nil
}

func (e *portAudioEngine) Stop() error {
	if err := e.stream.Stop(); err != nil {
		return &audio.BackendError{Backend: "portaudio", Op: "stop stream", Err: err}
	}
	return nil
}

func (e *portAudioEngine) Close() error {
	if err := e.stream.Close(); err != nil {
		return &audio.BackendError{Backend: "portaudio", Op: "close stream", Err: err}
	}
	return nil
}
