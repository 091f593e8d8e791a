// ABOUTME: Sample format and channel layout model
// ABOUTME: Format attributes, endianness handling and capability bitsets
package audio

import "encoding/binary"

// SampleFormat identifies how a single sample is encoded.
type SampleFormat uint8

const (
	FormatUnknown SampleFormat = iota

	// 8-bit formats carry no endianness.
	FormatU8
	FormatS8

	FormatS16LE
	FormatS16BE
	FormatU16LE
	FormatU16BE

	// 24-bit formats are packed into 3 bytes.
	FormatS24LE
	FormatS24BE
	FormatU24LE
	FormatU24BE

	FormatS32LE
	FormatS32BE
	FormatU32LE
	FormatU32BE

	FormatS64LE
	FormatS64BE
	FormatU64LE
	FormatU64BE

	FormatF32LE
	FormatF32BE
	FormatF64LE
	FormatF64BE

	formatCount
)

// Endianness is the byte order of a multi-byte sample.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

// NativeEndianness reports the byte order of the host.
func NativeEndianness() Endianness {
	return nativeEndianness
}

var nativeEndianness = func() Endianness {
	if binary.NativeEndian.Uint16([]byte{0x01, 0x00}) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

type formatTraits struct {
	name      string
	bytes     int
	signed    bool
	float     bool
	bigEndian bool
}

var formatTable = [formatCount]formatTraits{
	FormatUnknown: {name: "unknown"},
	FormatU8:      {name: "u8", bytes: 1},
	FormatS8:      {name: "s8", bytes: 1, signed: true},
	FormatS16LE:   {name: "s16le", bytes: 2, signed: true},
	FormatS16BE:   {name: "s16be", bytes: 2, signed: true, bigEndian: true},
	FormatU16LE:   {name: "u16le", bytes: 2},
	FormatU16BE:   {name: "u16be", bytes: 2, bigEndian: true},
	FormatS24LE:   {name: "s24le", bytes: 3, signed: true},
	FormatS24BE:   {name: "s24be", bytes: 3, signed: true, bigEndian: true},
	FormatU24LE:   {name: "u24le", bytes: 3},
	FormatU24BE:   {name: "u24be", bytes: 3, bigEndian: true},
	FormatS32LE:   {name: "s32le", bytes: 4, signed: true},
	FormatS32BE:   {name: "s32be", bytes: 4, signed: true, bigEndian: true},
	FormatU32LE:   {name: "u32le", bytes: 4},
	FormatU32BE:   {name: "u32be", bytes: 4, bigEndian: true},
	FormatS64LE:   {name: "s64le", bytes: 8, signed: true},
	FormatS64BE:   {name: "s64be", bytes: 8, signed: true, bigEndian: true},
	FormatU64LE:   {name: "u64le", bytes: 8},
	FormatU64BE:   {name: "u64be", bytes: 8, bigEndian: true},
	FormatF32LE:   {name: "f32le", bytes: 4, signed: true, float: true},
	FormatF32BE:   {name: "f32be", bytes: 4, signed: true, float: true, bigEndian: true},
	FormatF64LE:   {name: "f64le", bytes: 8, signed: true, float: true},
	FormatF64BE:   {name: "f64be", bytes: 8, signed: true, float: true, bigEndian: true},
}

// Valid reports whether f is a known sample format.
func (f SampleFormat) Valid() bool {
	return f > FormatUnknown && f < formatCount
}

// Bytes returns the width of one sample in bytes.
func (f SampleFormat) Bytes() int {
	if !f.Valid() {
		return 0
	}
	return formatTable[f].bytes
}

// Signed reports whether samples are signed. Float formats are signed.
func (f SampleFormat) Signed() bool {
	return f.Valid() && formatTable[f].signed
}

// Float reports whether samples are floating point.
func (f SampleFormat) Float() bool {
	return f.Valid() && formatTable[f].float
}

// Endianness returns the byte order of multi-byte samples.
// Single-byte formats report LittleEndian.
func (f SampleFormat) Endianness() Endianness {
	if f.Valid() && formatTable[f].bigEndian {
		return BigEndian
	}
	return LittleEndian
}

// ByteOrder returns the binary.ByteOrder matching the format's endianness.
func (f SampleFormat) ByteOrder() binary.ByteOrder {
	if f.Endianness() == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// WithEndianness returns the same sample encoding in the given byte order.
// Single-byte formats are returned unchanged.
func (f SampleFormat) WithEndianness(e Endianness) SampleFormat {
	if !f.Valid() || f.Bytes() == 1 {
		return f
	}
	big := formatTable[f].bigEndian
	if (e == BigEndian) == big {
		return f
	}
	// LE/BE variants are adjacent in the enumeration, LE first.
	if big {
		return f - 1
	}
	return f + 1
}

// NativeOrder returns the format converted to the host byte order.
func (f SampleFormat) NativeOrder() SampleFormat {
	return f.WithEndianness(NativeEndianness())
}

func (f SampleFormat) String() string {
	if !f.Valid() {
		return formatTable[FormatUnknown].name
	}
	return formatTable[f].name
}

// FormatSet is a bitset of sample formats.
type FormatSet uint32

// FormatSetOf builds a set from the given formats.
func FormatSetOf(formats ...SampleFormat) FormatSet {
	var s FormatSet
	for _, f := range formats {
		s = s.With(f)
	}
	return s
}

// With returns the set with f added.
func (s FormatSet) With(f SampleFormat) FormatSet {
	if !f.Valid() {
		return s
	}
	return s | 1<<f
}

// Contains reports whether f is a member of the set.
func (s FormatSet) Contains(f SampleFormat) bool {
	return f.Valid() && s&(1<<f) != 0
}

// Empty reports whether the set has no members.
func (s FormatSet) Empty() bool { return s == 0 }

// Count returns the number of members.
func (s FormatSet) Count() int {
	n := 0
	for f := SampleFormat(1); f < formatCount; f++ {
		if s.Contains(f) {
			n++
		}
	}
	return n
}

// Formats returns the members in enumeration order.
func (s FormatSet) Formats() []SampleFormat {
	out := make([]SampleFormat, 0, s.Count())
	for f := SampleFormat(1); f < formatCount; f++ {
		if s.Contains(f) {
			out = append(out, f)
		}
	}
	return out
}

// FallbackFormats is the negotiation priority used when none of the
// caller's preferred formats is supported by a device: float32 first,
// then the common integer widths, 8-bit formats last.
var FallbackFormats = []SampleFormat{
	FormatF32LE, FormatF32BE,
	FormatS16LE, FormatS16BE, FormatU16LE, FormatU16BE,
	FormatS24LE, FormatS24BE, FormatU24LE, FormatU24BE,
	FormatS32LE, FormatS32BE, FormatU32LE, FormatU32BE,
	FormatF64LE, FormatF64BE,
	FormatS64LE, FormatS64BE, FormatU64LE, FormatU64BE,
	FormatS8, FormatU8,
}

// ChannelLayout describes how channel samples are arranged in memory.
type ChannelLayout uint8

const (
	// Interleaved stores one sample per channel contiguously per frame:
	// L0,R0,L1,R1,...
	Interleaved ChannelLayout = iota
	// Separate (planar) stores one contiguous array per channel.
	Separate

	layoutCount
)

func (l ChannelLayout) String() string {
	switch l {
	case Interleaved:
		return "interleaved"
	case Separate:
		return "separate"
	default:
		return "unknown"
	}
}

// LayoutSet is a bitset of channel layouts.
type LayoutSet uint8

// LayoutSetOf builds a set from the given layouts.
func LayoutSetOf(layouts ...ChannelLayout) LayoutSet {
	var s LayoutSet
	for _, l := range layouts {
		s = s.With(l)
	}
	return s
}

// With returns the set with l added.
func (s LayoutSet) With(l ChannelLayout) LayoutSet {
	if l >= layoutCount {
		return s
	}
	return s | 1<<l
}

// Contains reports whether l is a member of the set.
func (s LayoutSet) Contains(l ChannelLayout) bool {
	return l < layoutCount && s&(1<<l) != 0
}

// Empty reports whether the set has no members.
func (s LayoutSet) Empty() bool { return s == 0 }

// FallbackLayouts is the negotiation priority used when the preferred
// layout is unsupported: planar before interleaved.
var FallbackLayouts = []ChannelLayout{Separate, Interleaved}
