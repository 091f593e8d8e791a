// ABOUTME: WAV decoder built on go-audio/wav
// ABOUTME: Normalizes integer PCM of any bit depth to float32
package decode

import (
	"fmt"
	"io"

	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV decodes a RIFF/WAVE stream. The reader must seek because the wav
// chunk walker rewinds.
func WAV(r io.ReadSeeker) (*buffer.Buffer[float32], float64, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file")
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read wav samples: %w", err)
	}

	// Some writers omit the format chunk details; recover them from the
	// decoder header before trusting the buffer.
	if pcm.Format == nil {
		pcm.Format = &goaudio.Format{
			NumChannels: int(d.NumChans),
			SampleRate:  int(d.SampleRate),
		}
	}
	channels := pcm.Format.NumChannels
	if channels <= 0 {
		return nil, 0, fmt.Errorf("wav reports %d channels", channels)
	}
	bitDepth := pcm.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(d.BitDepth)
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, 0, fmt.Errorf("wav reports unusable bit depth %d", bitDepth)
	}
	scale := float32(1.0 / float64(int64(1)<<(bitDepth-1)))

	frames := len(pcm.Data) / channels
	buf := buffer.New[float32](channels)
	buf.ExtendBySample(frames, func(channel, frame int) float32 {
		return float32(pcm.Data[frame*channels+channel]) * scale
	})
	return buf, float64(pcm.Format.SampleRate), nil
}
