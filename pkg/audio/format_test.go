// ABOUTME: Sample format model tests
// ABOUTME: Verifies format attributes, endian flips and bitset behavior
package audio

import "testing"

func TestFormatAttributes(t *testing.T) {
	tests := []struct {
		format SampleFormat
		bytes  int
		signed bool
		float  bool
		endian Endianness
	}{
		{FormatU8, 1, false, false, LittleEndian},
		{FormatS8, 1, true, false, LittleEndian},
		{FormatS16LE, 2, true, false, LittleEndian},
		{FormatS16BE, 2, true, false, BigEndian},
		{FormatU24BE, 3, false, false, BigEndian},
		{FormatS32LE, 4, true, false, LittleEndian},
		{FormatU64BE, 8, false, false, BigEndian},
		{FormatF32LE, 4, true, true, LittleEndian},
		{FormatF64BE, 8, true, true, BigEndian},
	}

	for _, tt := range tests {
		if got := tt.format.Bytes(); got != tt.bytes {
			t.Errorf("%v.Bytes() = %d, want %d", tt.format, got, tt.bytes)
		}
		if got := tt.format.Signed(); got != tt.signed {
			t.Errorf("%v.Signed() = %v, want %v", tt.format, got, tt.signed)
		}
		if got := tt.format.Float(); got != tt.float {
			t.Errorf("%v.Float() = %v, want %v", tt.format, got, tt.float)
		}
		if got := tt.format.Endianness(); got != tt.endian {
			t.Errorf("%v.Endianness() = %v, want %v", tt.format, got, tt.endian)
		}
	}
}

func TestWithEndianness(t *testing.T) {
	if got := FormatS16LE.WithEndianness(BigEndian); got != FormatS16BE {
		t.Errorf("S16LE to BE = %v, want %v", got, FormatS16BE)
	}
	if got := FormatF64BE.WithEndianness(LittleEndian); got != FormatF64LE {
		t.Errorf("F64BE to LE = %v, want %v", got, FormatF64LE)
	}
	if got := FormatS16LE.WithEndianness(LittleEndian); got != FormatS16LE {
		t.Errorf("S16LE to LE = %v, want unchanged", got)
	}
	// 8-bit formats have no byte order to flip.
	if got := FormatU8.WithEndianness(BigEndian); got != FormatU8 {
		t.Errorf("U8 to BE = %v, want unchanged", got)
	}
}

func TestNativeOrderRoundTrip(t *testing.T) {
	f := FormatS24LE.NativeOrder()
	if f.Bytes() != 3 || !f.Signed() {
		t.Errorf("NativeOrder changed format traits: %v", f)
	}
	if f.Endianness() != NativeEndianness() {
		t.Errorf("NativeOrder endianness = %v, want %v", f.Endianness(), NativeEndianness())
	}
}

func TestFormatSet(t *testing.T) {
	s := FormatSetOf(FormatF32LE, FormatS16LE)

	if s.Empty() {
		t.Fatal("set with two members reports Empty")
	}
	if !s.Contains(FormatF32LE) || !s.Contains(FormatS16LE) {
		t.Error("set missing added members")
	}
	if s.Contains(FormatS24LE) {
		t.Error("set contains format that was never added")
	}
	if got := s.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}

	formats := s.Formats()
	if len(formats) != 2 {
		t.Fatalf("Formats() length = %d, want 2", len(formats))
	}
	if formats[0] != FormatS16LE || formats[1] != FormatF32LE {
		t.Errorf("Formats() = %v, not in enumeration order", formats)
	}

	if FormatSet(0).Contains(FormatUnknown) {
		t.Error("empty set contains FormatUnknown")
	}
}

func TestLayoutSet(t *testing.T) {
	s := LayoutSetOf(Separate)
	if !s.Contains(Separate) {
		t.Error("set missing Separate")
	}
	if s.Contains(Interleaved) {
		t.Error("set contains Interleaved without adding it")
	}
	if LayoutSet(0).Empty() != true {
		t.Error("zero LayoutSet is not Empty")
	}
}

func TestFallbackFormatsStartWithFloat32(t *testing.T) {
	if FallbackFormats[0] != FormatF32LE {
		t.Errorf("fallback priority starts with %v, want %v", FallbackFormats[0], FormatF32LE)
	}
	// Every valid format must appear so negotiation on a non-empty set
	// can never run out of candidates.
	seen := FormatSetOf(FallbackFormats...)
	for f := SampleFormat(1); f < formatCount; f++ {
		if !seen.Contains(f) {
			t.Errorf("fallback priority missing %v", f)
		}
	}
}
