//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Compile-time placeholder when built without -tags portaudio
package device

import "fmt"

const portAudioCompiled = false

// NewPortAudioHost reports that PortAudio support was not compiled in.
func NewPortAudioHost() (Host, error) {
	return nil, fmt.Errorf("portaudio support not enabled (build with -tags portaudio)")
}
