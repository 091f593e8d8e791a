// ABOUTME: Extension dispatch and shared decode helpers
// ABOUTME: File opens a path and routes it to the matching codec
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Chordial-Project/chordial-go/pkg/audio/buffer"
	"github.com/sirupsen/logrus"
)

// File decodes the file at path, selecting the codec by extension.
// Supported extensions are .wav, .mp3, .flac, .ogg and .oga. It returns
// the planar samples and the source frame rate.
func File(path string) (*buffer.Buffer[float32], float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var buf *buffer.Buffer[float32]
	var rate float64
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		buf, rate, err = WAV(f)
	case ".mp3":
		buf, rate, err = MP3(f)
	case ".flac":
		buf, rate, err = FLAC(f)
	case ".ogg", ".oga":
		buf, rate, err = Vorbis(f)
	default:
		return nil, 0, fmt.Errorf("unsupported audio file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path":     path,
		"channels": buf.Channels(),
		"frames":   buf.Frames(),
		"rate":     rate,
	}).Debug("decoded audio file")
	return buf, rate, nil
}
