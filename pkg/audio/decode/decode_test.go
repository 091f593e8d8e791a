// ABOUTME: Decoder tests using synthesized in-memory WAV data
// ABOUTME: Also covers extension dispatch and error paths
package decode

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeWAV builds a minimal 16-bit PCM RIFF/WAVE file.
func makeWAV(rate int, samples [][]int16) []byte {
	channels := len(samples)
	frames := len(samples[0])
	dataSize := frames * channels * 2

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataSize))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(16))

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataSize))
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			binary.Write(&b, binary.LittleEndian, samples[c][f])
		}
	}
	return b.Bytes()
}

func TestWAVDecodesStereo(t *testing.T) {
	data := makeWAV(44100, [][]int16{
		{0, 16384, -16384, 32767},
		{8192, -8192, 0, -32768},
	})

	buf, rate, err := WAV(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if rate != 44100 {
		t.Errorf("rate = %v, want 44100", rate)
	}
	if buf.Channels() != 2 {
		t.Fatalf("channels = %d, want 2", buf.Channels())
	}
	if buf.Frames() != 4 {
		t.Fatalf("frames = %d, want 4", buf.Frames())
	}

	want := [][]float32{
		{0, 0.5, -0.5, 32767.0 / 32768},
		{0.25, -0.25, 0, -1},
	}
	for c := range want {
		got := buf.Channel(c)
		for i := range want[c] {
			if diff := math.Abs(float64(got[i] - want[c][i])); diff > 1e-6 {
				t.Errorf("channel %d frame %d = %v, want %v", c, i, got[i], want[c][i])
			}
		}
	}
}

func TestWAVRejectsGarbage(t *testing.T) {
	if _, _, err := WAV(bytes.NewReader([]byte("this is not a riff file"))); err == nil {
		t.Fatal("WAV accepted garbage input")
	}
}

func TestMP3RejectsGarbage(t *testing.T) {
	if _, _, err := MP3(bytes.NewReader(bytes.Repeat([]byte{0xde, 0xad}, 64))); err == nil {
		t.Fatal("MP3 accepted garbage input")
	}
}

func TestFLACRejectsGarbage(t *testing.T) {
	if _, _, err := FLAC(bytes.NewReader([]byte("fLaC but not really"))); err == nil {
		t.Fatal("FLAC accepted garbage input")
	}
}

func TestVorbisRejectsGarbage(t *testing.T) {
	if _, _, err := Vorbis(bytes.NewReader([]byte("OggS corrupted"))); err == nil {
		t.Fatal("Vorbis accepted garbage input")
	}
}

func TestFileDispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	data := makeWAV(48000, [][]int16{{100, 200, 300}})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	buf, rate, err := File(path)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 48000 {
		t.Errorf("rate = %v, want 48000", rate)
	}
	if buf.Channels() != 1 || buf.Frames() != 3 {
		t.Errorf("got %dch %d frames, want 1ch 3 frames", buf.Channels(), buf.Frames())
	}
}

func TestFileUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.aiff")
	if err := os.WriteFile(path, []byte("FORM"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := File(path)
	if err == nil {
		t.Fatal("File accepted an unknown extension")
	}
	if !strings.Contains(err.Error(), ".aiff") {
		t.Errorf("error %q does not name the extension", err)
	}
}

func TestFileMissing(t *testing.T) {
	if _, _, err := File(filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("File accepted a missing path")
	}
}
