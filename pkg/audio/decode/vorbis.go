// ABOUTME: Ogg Vorbis decoder built on jfreymuth/oggvorbis
// ABOUTME: The library already emits float32, only deinterleaving remains
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
	"github.com/jfreymuth/oggvorbis"
)

// Vorbis decodes an Ogg Vorbis stream.
func Vorbis(r io.Reader) (*buffer.Buffer[float32], float64, error) {
	d, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open vorbis stream: %w", err)
	}

	channels := d.Channels()
	if channels <= 0 {
		return nil, 0, fmt.Errorf("vorbis reports %d channels", channels)
	}

	buf := buffer.New[float32](channels)
	chunk := make([]float32, 4096*channels)
	for {
		n, err := d.Read(chunk)
		if n > 0 {
			frames := n / channels
			interleaved := chunk[:n]
			buf.ExtendBySample(frames, func(channel, frame int) float32 {
				return interleaved[frame*channels+channel]
			})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read vorbis samples: %w", err)
		}
	}
	return buf, float64(d.SampleRate()), nil
}
