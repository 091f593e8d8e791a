// ABOUTME: Host and Device interfaces plus backend selection
// ABOUTME: Share modes, role hints and the stream-config plumbing
package device

import (
	"fmt"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/stream"
)

// ShareMode selects exclusive or shared device access.
type ShareMode uint8

const (
	Share ShareMode = iota
	Exclusive
)

func (m ShareMode) String() string {
	if m == Exclusive {
		return "exclusive"
	}
	return "share"
}

// Role hints what a default device will be used for. Backends map roles
// to their native selectors where the platform distinguishes them; a
// backend without role support returns its plain default device.
type Role uint8

const (
	RoleGames Role = iota
	RoleNotifications
	RoleMultimedia
	RoleCommunications
)

func (r Role) String() string {
	switch r {
	case RoleGames:
		return "games"
	case RoleNotifications:
		return "notifications"
	case RoleMultimedia:
		return "multimedia"
	case RoleCommunications:
		return "communications"
	default:
		return "unknown"
	}
}

// Host is one backend's entry point into the platform audio subsystem.
type Host interface {
	// Name identifies the backend ("malgo", "oto", "portaudio", "null").
	Name() string

	// Devices enumerates the backend's output-capable devices.
	Devices() ([]Device, error)

	// DefaultOutputDevice returns the device the platform prefers for the
	// given role, or false when the backend has no usable device.
	DefaultOutputDevice(role Role) (Device, bool)

	// DefaultInputDevice returns the preferred capture device. Capture is
	// stubbed across backends, so this reports false today.
	DefaultInputDevice(role Role) (Device, bool)

	// Close releases backend resources. Streams must be closed first.
	Close() error
}

// Device is a single audio endpoint.
type Device interface {
	// Name returns the device's human-readable name.
	Name() string

	// OutputFormats returns the playback capability descriptor, or false
	// when the device cannot play in the given share mode.
	OutputFormats(mode ShareMode) (DeviceFormats, bool)

	// InputFormats returns the capture capability descriptor, or false
	// when capture is unsupported (all current backends).
	InputFormats(mode ShareMode) (DeviceFormats, bool)

	// OpenOutputStream opens a playback stream at the negotiated config.
	// The returned handle is live immediately; playback begins on Start.
	OpenOutputStream(cfg StreamConfig, cb stream.Callback) (*stream.Stream, error)

	// OpenInputStream opens a capture stream. Stubbed: it returns
	// audio.ErrUnsupportedConfiguration on every backend.
	OpenInputStream(cfg StreamConfig, cb stream.Callback) (*stream.Stream, error)
}

// NewHost creates a backend host by name.
func NewHost(name string) (Host, error) {
	switch name {
	case "null":
		return NewNullHost(), nil
	case "malgo":
		return NewMalgoHost()
	case "oto":
		return NewOtoHost()
	case "portaudio":
		return NewPortAudioHost()
	default:
		return nil, fmt.Errorf("device: unknown host %q: %w", name, audio.ErrUnsupportedConfiguration)
	}
}

// Available lists the hosts compiled into this binary, preferred first.
func Available() []string {
	names := []string{"malgo", "oto"}
	if portAudioCompiled {
		names = append(names, "portaudio")
	}
	return append(names, "null")
}

const (
	minBufferFrames     = 32
	maxBufferFrames     = 16384
	defaultPeriodFrames = 512
	ringPeriods         = 4
)

// standardRates is the probe list used when a backend does not report a
// discrete rate set of its own.
var standardRates = []float64{8000, 11025, 16000, 22050, 32000, 44100, 48000, 88200, 96000, 176400, 192000}

// streamParams converts a negotiated device config into the stream
// layer's terms.
func streamParams(cfg StreamConfig) stream.Config {
	frames := cfg.BufferSize
	if frames <= 0 {
		frames = defaultPeriodFrames
	}
	return stream.Config{
		Channels:     cfg.Channels,
		Format:       cfg.Format,
		Layout:       cfg.Layout,
		FrameRate:    cfg.FrameRate,
		PeriodFrames: frames,
		Periods:      ringPeriods,
	}
}

func errInputUnsupported(backend string) error {
	return fmt.Errorf("%s: input streaming not implemented: %w", backend, audio.ErrUnsupportedConfiguration)
}
