// ABOUTME: Tests for capability validation and configuration negotiation
// ABOUTME: Covers preference resolution, clamping and fallback ordering
package device

import (
	"errors"
	"testing"

	"github.com/Chordial-Project/chordial-go/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullDescriptor() DeviceFormats {
	return DeviceFormats{
		MaxChannels:   2,
		FrameRates:    []float64{44100, 48000},
		Formats:       audio.FormatSetOf(audio.FormatF32LE),
		MinBufferSize: 64,
		MaxBufferSize: 4096,
		Layouts:       audio.LayoutSetOf(audio.Separate),
	}
}

func TestValidateRejectsEmptySets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DeviceFormats)
	}{
		{"no channels", func(f *DeviceFormats) { f.MaxChannels = 0 }},
		{"no rates", func(f *DeviceFormats) { f.FrameRates = nil }},
		{"no formats", func(f *DeviceFormats) { f.Formats = 0 }},
		{"no buffer range", func(f *DeviceFormats) { f.MaxBufferSize = 0 }},
		{"inverted buffer range", func(f *DeviceFormats) { f.MinBufferSize = 8192 }},
		{"no layouts", func(f *DeviceFormats) { f.Layouts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fullDescriptor()
			tt.mutate(&f)
			err := f.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, audio.ErrUnsupportedConfiguration))
		})
	}
}

func TestValidateAcceptsFullDescriptor(t *testing.T) {
	require.NoError(t, fullDescriptor().Validate())
}

func TestToStreamConfigResolvesPreferences(t *testing.T) {
	cfg, err := fullDescriptor().ToStreamConfig(Share, 2, nil, audio.Separate, 256, 45000)
	require.NoError(t, err)

	assert.Equal(t, Share, cfg.ShareMode)
	assert.Equal(t, 2, cfg.Channels)
	assert.Equal(t, audio.FormatF32LE, cfg.Format)
	assert.Equal(t, 44100.0, cfg.FrameRate)
	assert.Equal(t, audio.Separate, cfg.Layout)
	assert.Equal(t, 256, cfg.BufferSize)
}

func TestToStreamConfigInvalidDescriptor(t *testing.T) {
	_, err := DeviceFormats{}.ToStreamConfig(Share, 2, nil, audio.Separate, 256, 48000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, audio.ErrUnsupportedConfiguration))
}

func TestToStreamConfigChannels(t *testing.T) {
	f := fullDescriptor()
	f.MaxChannels = 6

	cfg, err := f.ToStreamConfig(Share, 2, nil, audio.Separate, 256, 48000)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Channels, "preference under the maximum is honored")

	cfg, err = f.ToStreamConfig(Share, 16, nil, audio.Separate, 256, 48000)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Channels, "preference over the maximum clamps")

	cfg, err = f.ToStreamConfig(Share, 0, nil, audio.Separate, 256, 48000)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Channels, "zero means as many as offered")
}

func TestToStreamConfigFormatPreferenceOrder(t *testing.T) {
	f := fullDescriptor()
	f.Formats = audio.FormatSetOf(audio.FormatS16LE, audio.FormatF32LE)

	cfg, err := f.ToStreamConfig(Share, 2,
		[]audio.SampleFormat{audio.FormatS24LE, audio.FormatS16LE, audio.FormatF32LE},
		audio.Separate, 256, 48000)
	require.NoError(t, err)
	assert.Equal(t, audio.FormatS16LE, cfg.Format,
		"first supported preference wins even when a later one is supported too")
}

func TestToStreamConfigFormatFallback(t *testing.T) {
	f := fullDescriptor()
	f.Formats = audio.FormatSetOf(audio.FormatU8, audio.FormatS16LE)

	// No preference matches, so the fallback order decides: S16LE ranks
	// above U8 there.
	cfg, err := f.ToStreamConfig(Share, 2,
		[]audio.SampleFormat{audio.FormatF64LE}, audio.Separate, 256, 48000)
	require.NoError(t, err)
	assert.Equal(t, audio.FormatS16LE, cfg.Format)
}

func TestToStreamConfigBufferClamp(t *testing.T) {
	f := fullDescriptor()

	cfg, err := f.ToStreamConfig(Share, 2, nil, audio.Separate, 8, 48000)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.BufferSize)

	cfg, err = f.ToStreamConfig(Share, 2, nil, audio.Separate, 1 << 20, 48000)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.BufferSize)
}

func TestToStreamConfigLayoutFallback(t *testing.T) {
	f := fullDescriptor()
	f.Layouts = audio.LayoutSetOf(audio.Interleaved)

	cfg, err := f.ToStreamConfig(Share, 2, nil, audio.Separate, 256, 48000)
	require.NoError(t, err)
	assert.Equal(t, audio.Interleaved, cfg.Layout)
}

func TestToStreamConfigRateTieBreak(t *testing.T) {
	f := fullDescriptor()
	f.FrameRates = []float64{44100, 48000}

	// 46050 is equidistant; the earlier list entry wins.
	cfg, err := f.ToStreamConfig(Share, 2, nil, audio.Separate, 256, 46050)
	require.NoError(t, err)
	assert.Equal(t, 44100.0, cfg.FrameRate)

	cfg, err = f.ToStreamConfig(Share, 2, nil, audio.Separate, 256, 47000)
	require.NoError(t, err)
	assert.Equal(t, 48000.0, cfg.FrameRate)
}

func TestToStreamConfigResultIsMemberOfCapabilities(t *testing.T) {
	f := DeviceFormats{
		MaxChannels:   8,
		FrameRates:    []float64{8000, 44100, 96000},
		Formats:       audio.FormatSetOf(audio.FormatU8, audio.FormatS24BE, audio.FormatF64LE),
		MinBufferSize: 32,
		MaxBufferSize: 16384,
		Layouts:       audio.LayoutSetOf(audio.Interleaved, audio.Separate),
	}

	for _, rate := range []float64{1, 20000, 500000} {
		for _, ch := range []int{-1, 1, 8, 100} {
			cfg, err := f.ToStreamConfig(Share, ch, nil, audio.Interleaved, 0, rate)
			require.NoError(t, err)
			assert.True(t, cfg.Channels >= 1 && cfg.Channels <= f.MaxChannels)
			assert.True(t, f.Formats.Contains(cfg.Format))
			assert.Contains(t, f.FrameRates, cfg.FrameRate)
			assert.True(t, f.Layouts.Contains(cfg.Layout))
			assert.True(t, cfg.BufferSize >= f.MinBufferSize && cfg.BufferSize <= f.MaxBufferSize)
		}
	}
}
