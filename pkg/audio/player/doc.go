// ABOUTME: File-backed playback sources for the one-shot mixer
// ABOUTME: Sound holds decoded samples, Voice plays one pass through them
// Package player adapts decoded audio files to the mixer's one-shot
// contract.
//
// A Sound owns the decoded planar samples of one file and can be
// played any number of times, concurrently, through lightweight Voice
// instances. A Voice tracks a single playback position and fans the
// source channels out across the output channels. Tone is a synthetic
// sine source for tests and speaker checks.
package player
