package layout

import (
	"errors"
	"testing"

	"bindgen/internal/ir"
)

func TestTrackerGapAndTailPadding(t *testing.T) {
	tr := NewTracker(X86_64LinuxGNU(), "A", ir.CompStruct, ir.L(16, 8), false, false)
	four := ir.Layout{Size: 4, Align: 4}

	if pad := tr.SawField(four, ir.Bits(0)); pad != nil {
		t.Fatalf("unexpected padding before fieldA: %+v", pad)
	}
	pad := tr.SawField(four, ir.Bits(64))
	if pad == nil {
		t.Fatalf("expected padding before fieldB")
	}
	if pad.Name != "__bindgen_padding_0" || pad.Type.Size() != 4 {
		t.Fatalf("unexpected gap padding: %+v", pad)
	}
	tail := tr.TailPadding()
	if tail == nil {
		t.Fatalf("expected tail padding")
	}
	if tail.Name != "__bindgen_padding_1" || tail.Type.String() != "[u8; 4usize]" {
		t.Fatalf("unexpected tail padding: %+v", tail)
	}
	if got := tr.Cursor() + tail.Type.Size(); got != 16 {
		t.Fatalf("emitted size = %d, want 16", got)
	}
	if got := tr.Repr(); got != "C, align(8)" {
		t.Fatalf("repr = %q", got)
	}
}

func TestTrackerNaturalAlignmentNeedsNoPadding(t *testing.T) {
	tr := NewTracker(X86_64LinuxGNU(), "S", ir.CompStruct, ir.L(8, 4), false, false)
	if pad := tr.SawField(ir.Layout{Size: 1, Align: 1}, ir.Bits(0)); pad != nil {
		t.Fatalf("unexpected padding: %+v", pad)
	}
	if pad := tr.SawField(ir.Layout{Size: 4, Align: 4}, ir.Bits(32)); pad != nil {
		t.Fatalf("unexpected padding for natural gap: %+v", pad)
	}
	if tail := tr.TailPadding(); tail != nil {
		t.Fatalf("unexpected tail padding: %+v", tail)
	}
	if got := tr.Repr(); got != "C" {
		t.Fatalf("repr = %q", got)
	}
}

func TestTrackerExplicitPadding(t *testing.T) {
	tr := NewTracker(X86_64LinuxGNU(), "S", ir.CompStruct, ir.L(8, 4), false, true)
	tr.SawField(ir.Layout{Size: 1, Align: 1}, ir.Bits(0))
	pad := tr.SawField(ir.Layout{Size: 4, Align: 4}, ir.Bits(32))
	if pad == nil || pad.Type.String() != "[u8; 3usize]" {
		t.Fatalf("expected explicit 3 byte padding, got %+v", pad)
	}
}

func TestTrackerUnionTail(t *testing.T) {
	tr := NewTracker(X86_64LinuxGNU(), "U", ir.CompUnion, ir.L(12, 4), false, false)
	tr.SawField(ir.Layout{Size: 4, Align: 4}, ir.Bits(0))
	tr.SawField(ir.Layout{Size: 2, Align: 2}, ir.Bits(0))
	tail := tr.TailPadding()
	if tail == nil || tail.Type.Size() != 12 {
		t.Fatalf("expected union padding spanning 12 bytes, got %+v", tail)
	}
}

func TestAlignMarkerWithoutReprAlign(t *testing.T) {
	target := X86_64LinuxGNU()
	target.SupportsReprAlign = false

	tr := NewTracker(target, "S", ir.CompStruct, ir.L(8, 8), false, false)
	tr.SawField(ir.Layout{Size: 4, Align: 4}, ir.Bits(0))
	marker, err := tr.AlignMarker()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if marker == nil || marker.Type.String() != "[u64; 0usize]" {
		t.Fatalf("unexpected marker: %+v", marker)
	}
	if got := tr.Repr(); got != "C" {
		t.Fatalf("repr = %q", got)
	}

	tr = NewTracker(target, "Big", ir.CompStruct, ir.L(32, 16), false, false)
	tr.SawField(ir.Layout{Size: 4, Align: 4}, ir.Bits(0))
	_, err = tr.AlignMarker()
	var lerr *Error
	if !errors.As(err, &lerr) || lerr.Name != "Big" || !errors.Is(err, ErrAlignUnsupported) {
		t.Fatalf("expected unsupported align error, got %v", err)
	}
}

func TestIsPacked(t *testing.T) {
	if !IsPacked(true, nil) {
		t.Fatalf("packed attribute must win")
	}
	if !IsPacked(false, ir.L(5, 1), 1, 4) {
		t.Fatalf("field more aligned than aggregate must be packed")
	}
	if IsPacked(false, ir.L(8, 4), 1, 4) {
		t.Fatalf("naturally aligned aggregate is not packed")
	}
}

func TestBlobFor(t *testing.T) {
	cases := []struct {
		l    ir.Layout
		want string
	}{
		{ir.Layout{Size: 16, Align: 8}, "[u64; 2usize]"},
		{ir.Layout{Size: 8, Align: 8}, "u64"},
		{ir.Layout{Size: 12, Align: 4}, "[u32; 3usize]"},
		{ir.Layout{Size: 32, Align: 16}, "[u64; 4usize]"},
		{ir.Layout{Size: 3, Align: 2}, "[u8; 3usize]"},
		{ir.Layout{Size: 1, Align: 1}, "u8"},
	}
	for _, tc := range cases {
		if got := BlobFor(tc.l).String(); got != tc.want {
			t.Fatalf("BlobFor(%+v) = %q, want %q", tc.l, got, tc.want)
		}
	}
}

func TestBitRangeMasks(t *testing.T) {
	storage := StorageFor(ir.Layout{Size: 2, Align: 2}, false)
	if storage.Type != "u16" || !storage.Integer {
		t.Fatalf("unexpected storage: %+v", storage)
	}
	cases := []struct {
		r     BitRange
		value uint64
		mask  uint64
	}{
		{BitRange{Offset: 0, Width: 4}, 0xF, 0xF},
		{BitRange{Offset: 4, Width: 8}, 0xFF, 0x0FF0},
		{BitRange{Offset: 63, Width: 1}, 0x1, 1 << 63},
		{BitRange{Offset: 0, Width: 64}, ^uint64(0), ^uint64(0)},
	}
	for _, tc := range cases {
		if got := tc.r.ValueMask(); got != tc.value {
			t.Fatalf("%+v ValueMask = %#x, want %#x", tc.r, got, tc.value)
		}
		if got := tc.r.Mask(); got != tc.mask {
			t.Fatalf("%+v Mask = %#x, want %#x", tc.r, got, tc.mask)
		}
	}
}

func TestBitRangeOverflow(t *testing.T) {
	r := BitRange{Offset: 12, Width: 8}
	if r.Fits(2) {
		t.Fatalf("range 12..20 must not fit 16 bits")
	}
	if err := r.Check("x", 2); !errors.Is(err, ErrBitsOverflow) || err.Error() != "x: bit range does not fit its storage unit (bits 12..20, unit 2 bytes)" {
		t.Fatalf("expected overflow error, got %v", err)
	}
}

func TestStorageFallsBackToUnit(t *testing.T) {
	s := StorageFor(ir.Layout{Size: 3, Align: 1}, false)
	if s.Integer || s.Type != "__BindgenBitfieldUnit<[u8; 3usize]>" || s.AlignMarker != "" {
		t.Fatalf("unexpected storage: %+v", s)
	}
	s = StorageFor(ir.Layout{Size: 8, Align: 4}, false)
	if s.Integer || s.AlignMarker != "[u32; 0]" {
		t.Fatalf("unexpected storage: %+v", s)
	}
}

func TestTargetByTriple(t *testing.T) {
	if tg, ok := TargetByTriple("x86_64-linux-gnu"); !ok || tg.PtrSize != 8 {
		t.Fatalf("x86_64 lookup failed: %+v %v", tg, ok)
	}
	if _, ok := TargetByTriple("sparc-sun-solaris"); ok {
		t.Fatalf("unknown triple must not resolve")
	}
}
