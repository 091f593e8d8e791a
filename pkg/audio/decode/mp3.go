// ABOUTME: MP3 decoder built on hajimehoshi/go-mp3
// ABOUTME: go-mp3 always emits 16-bit stereo at the source rate
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// MP3 decodes an MPEG-1 layer 3 stream. The output is always two
// channels; go-mp3 upmixes mono sources itself.
func MP3(r io.Reader) (*buffer.Buffer[float32], float64, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open mp3 stream: %w", err)
	}

	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read mp3 samples: %w", err)
	}

	// Output frames are 4 bytes: left and right int16, little endian.
	const frameBytes = 4
	frames := len(pcm) / frameBytes
	buf := buffer.New[float32](2)
	buf.ExtendBySample(frames, func(channel, frame int) float32 {
		s := int16(binary.LittleEndian.Uint16(pcm[frame*frameBytes+channel*2:]))
		return float32(s) / 32768
	})
	return buf, float64(d.SampleRate()), nil
}
