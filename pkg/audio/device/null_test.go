// ABOUTME: End-to-end playback tests against the virtual null host
// ABOUTME: Exercises negotiate, open, start, render and close
package device

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/Chordial-Project/chordial-go/pkg/audio/stream"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestNewHostUnknown(t *testing.T) {
	_, err := NewHost("pulseaudio")
	if err == nil {
		t.Fatal("NewHost accepted an unknown backend")
	}
	if !errors.Is(err, audio.ErrUnsupportedConfiguration) {
		t.Errorf("error = %v, want ErrUnsupportedConfiguration", err)
	}
}

func TestAvailableEndsWithNull(t *testing.T) {
	names := Available()
	if len(names) == 0 {
		t.Fatal("no hosts available")
	}
	if got := names[len(names)-1]; got != "null" {
		t.Errorf("last host = %q, want null", got)
	}
}

func TestNullHostEnumeration(t *testing.T) {
	host, err := NewHost("null")
	if err != nil {
		t.Fatal(err)
	}
	defer host.Close()

	devices, err := host.Devices()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}

	dev, ok := host.DefaultOutputDevice(RoleMultimedia)
	if !ok {
		t.Fatal("null host has no default output device")
	}
	if dev.Name() != devices[0].Name() {
		t.Errorf("default device %q not in enumeration", dev.Name())
	}

	if _, ok := host.DefaultInputDevice(RoleCommunications); ok {
		t.Error("null host claims an input device")
	}
}

func TestNullDeviceCapabilities(t *testing.T) {
	host, _ := NewHost("null")
	defer host.Close()
	dev, _ := host.DefaultOutputDevice(RoleMultimedia)

	formats, ok := dev.OutputFormats(Share)
	if !ok {
		t.Fatal("no shared-mode output descriptor")
	}
	if err := formats.Validate(); err != nil {
		t.Fatalf("descriptor invalid: %v", err)
	}

	if _, ok := dev.OutputFormats(Exclusive); ok {
		t.Error("null device claims exclusive mode")
	}
	if _, ok := dev.InputFormats(Share); ok {
		t.Error("null device claims capture support")
	}
}

func TestNullPlayback(t *testing.T) {
	host, _ := NewHost("null")
	defer host.Close()
	dev, _ := host.DefaultOutputDevice(RoleMultimedia)
	formats, _ := dev.OutputFormats(Share)

	cfg, err := formats.ToStreamConfig(Share, 2, nil, audio.Separate, 64, 48000)
	if err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int64
	s, err := dev.OpenOutputStream(cfg, func(v *stream.OutputView) {
		if v.Channels() != 2 {
			t.Errorf("view channels = %d, want 2", v.Channels())
		}
		planar := v.Planar()
		for ch := 0; ch < planar.Channels(); ch++ {
			samples := planar.Channel(ch)
			for i := range samples {
				samples[i] = 0.25
			}
		}
		calls.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Start()
	waitFor(t, "render callbacks", func() bool { return calls.Load() > int64(cfg.BufferSize/16) })

	s.Stop()
	s.Close()
	if err := s.CheckError(); err != nil {
		t.Errorf("stream error after clean run: %v", err)
	}
}

func TestNullInputStreamUnsupported(t *testing.T) {
	host, _ := NewHost("null")
	defer host.Close()
	dev, _ := host.DefaultOutputDevice(RoleMultimedia)

	_, err := dev.OpenInputStream(StreamConfig{}, func(*stream.OutputView) {})
	if !errors.Is(err, audio.ErrUnsupportedConfiguration) {
		t.Errorf("OpenInputStream error = %v, want ErrUnsupportedConfiguration", err)
	}
}
