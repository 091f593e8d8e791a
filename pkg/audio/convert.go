// ABOUTME: Sample conversion from normalized float32 to wire formats
// ABOUTME: Used by stream backends when committing periods to device memory
package audio

import (
	"encoding/binary"
	"math"
)

// PutSample encodes one normalized sample into dst using format f.
// The sample is clamped to [-1, 1] before scaling. dst must hold at
// least f.Bytes() bytes. Unknown formats write nothing.
func PutSample(f SampleFormat, dst []byte, s float32) {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}

	switch f {
	case FormatU8:
		dst[0] = uint8(int16(s*127) + 128)
	case FormatS8:
		dst[0] = uint8(int8(s * 127))

	case FormatS16LE:
		binary.LittleEndian.PutUint16(dst, uint16(int16(s*32767)))
	case FormatS16BE:
		binary.BigEndian.PutUint16(dst, uint16(int16(s*32767)))
	case FormatU16LE:
		binary.LittleEndian.PutUint16(dst, uint16(int32(s*32767)+32768))
	case FormatU16BE:
		binary.BigEndian.PutUint16(dst, uint16(int32(s*32767)+32768))

	case FormatS24LE:
		v := int32(float64(s) * 8388607)
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v >> 16)
	case FormatS24BE:
		v := int32(float64(s) * 8388607)
		dst[0] = byte(v >> 16)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v)
	case FormatU24LE:
		v := uint32(int32(float64(s)*8388607) + 8388608)
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v >> 16)
	case FormatU24BE:
		v := uint32(int32(float64(s)*8388607) + 8388608)
		dst[0] = byte(v >> 16)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v)

	case FormatS32LE:
		binary.LittleEndian.PutUint32(dst, uint32(int32(float64(s)*2147483647)))
	case FormatS32BE:
		binary.BigEndian.PutUint32(dst, uint32(int32(float64(s)*2147483647)))
	case FormatU32LE:
		binary.LittleEndian.PutUint32(dst, uint32(int64(float64(s)*2147483647)+2147483648))
	case FormatU32BE:
		binary.BigEndian.PutUint32(dst, uint32(int64(float64(s)*2147483647)+2147483648))

	// 64-bit integer samples keep the 32-bit mantissa in the high word;
	// float32 carries no more precision than that anyway.
	case FormatS64LE:
		binary.LittleEndian.PutUint64(dst, uint64(int64(int32(float64(s)*2147483647))<<32))
	case FormatS64BE:
		binary.BigEndian.PutUint64(dst, uint64(int64(int32(float64(s)*2147483647))<<32))
	case FormatU64LE:
		v := uint64(int64(int32(float64(s)*2147483647))<<32) + 1<<63
		binary.LittleEndian.PutUint64(dst, v)
	case FormatU64BE:
		v := uint64(int64(int32(float64(s)*2147483647))<<32) + 1<<63
		binary.BigEndian.PutUint64(dst, v)

	case FormatF32LE:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(s))
	case FormatF32BE:
		binary.BigEndian.PutUint32(dst, math.Float32bits(s))
	case FormatF64LE:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(float64(s)))
	case FormatF64BE:
		binary.BigEndian.PutUint64(dst, math.Float64bits(float64(s)))
	}
}

// EncodeInterleaved encodes src (interleaved, normalized) into dst.
// dst must hold at least len(src)*f.Bytes() bytes.
func EncodeInterleaved(f SampleFormat, src []float32, dst []byte) {
	w := f.Bytes()
	for i, s := range src {
		PutSample(f, dst[i*w:], s)
	}
}
