// ABOUTME: Core audio type definitions shared by every package
// ABOUTME: Sample formats, channel layouts, conversion and error taxonomy
// Package audio defines the format model used across the engine.
//
// A SampleFormat describes how one sample is stored (width, signedness,
// integer vs float, endianness). A ChannelLayout describes how the samples
// of different channels are arranged in memory. FormatSet and LayoutSet
// are small bitsets used by device capability descriptors.
//
// Example:
//
//	f := audio.FormatS16LE
//	f.Bytes()      // 2
//	f.Float()      // false
//	f.Endianness() // audio.LittleEndian
package audio
