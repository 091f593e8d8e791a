// ABOUTME: FLAC decoder built on mewkiz/flac
// ABOUTME: Frame-by-frame subframe copy with bit-depth normalization
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
	"github.com/mewkiz/flac"
)

// FLAC decodes a native FLAC stream.
func FLAC(r io.Reader) (*buffer.Buffer[float32], float64, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open flac stream: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	if channels <= 0 {
		return nil, 0, fmt.Errorf("flac reports %d channels", channels)
	}
	bps := uint(info.BitsPerSample)
	if bps == 0 || bps > 32 {
		return nil, 0, fmt.Errorf("flac reports unusable bit depth %d", bps)
	}
	scale := float32(1.0 / float64(int64(1)<<(bps-1)))

	buf := buffer.New[float32](channels)
	if info.NSamples > 0 {
		buf.Reserve(int(info.NSamples))
	}
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to parse flac frame: %w", err)
		}
		buf.ExtendByChannel(int(frame.BlockSize), func(channel int, dst []float32) {
			samples := frame.Subframes[channel].Samples
			for i := range dst {
				dst[i] = float32(samples[i]) * scale
			}
		})
	}
	return buf, float64(info.SampleRate), nil
}
