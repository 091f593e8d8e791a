// ABOUTME: File decoders producing planar float32 sample buffers
// ABOUTME: WAV, MP3, FLAC and Ogg Vorbis, plus extension dispatch
// Package decode turns encoded audio files into planar float32 buffers.
//
// Each codec has its own entry point (WAV, MP3, FLAC, Vorbis) taking a
// reader; File dispatches on the path extension. All decoders normalize
// to float32 in [-1, 1] regardless of the source bit depth and report
// the source frame rate, so callers feed the result straight into the
// mixer.
package decode
