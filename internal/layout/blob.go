package layout

import (
	"fmt"

	"bindgen/internal/ir"
)

// Blob is an integer array type standing in for bytes whose structure is
// not reproduced: opaque types, padding, alignment markers.
type Blob struct {
	Elem  string // u8, u16, u32, u64
	Count int
}

// String renders the Rust type. A single element renders as the bare integer;
// every other count (zero included) renders as an array.
func (b Blob) String() string {
	if b.Count == 1 {
		return b.Elem
	}
	return fmt.Sprintf("[%s; %dusize]", b.Elem, b.Count)
}

// Align returns the alignment the blob imposes.
func (b Blob) Align() int {
	return elemSize(b.Elem)
}

// Size returns the number of bytes the blob occupies.
func (b Blob) Size() int {
	return elemSize(b.Elem) * b.Count
}

func elemSize(elem string) int {
	switch elem {
	case "u64":
		return 8
	case "u32":
		return 4
	case "u16":
		return 2
	}
	return 1
}

func elemFor(align int) string {
	switch {
	case align >= 8:
		return "u64"
	case align >= 4:
		return "u32"
	case align >= 2:
		return "u16"
	}
	return "u8"
}

// BlobFor returns the blob reproducing l: the widest integer not exceeding
// the alignment (capped at 8 bytes), falling back to bytes when the size is
// not a multiple of it.
func BlobFor(l ir.Layout) Blob {
	elem := elemFor(l.Align)
	size := elemSize(elem)
	if l.Size%size != 0 {
		return Blob{Elem: "u8", Count: l.Size}
	}
	return Blob{Elem: elem, Count: l.Size / size}
}

// Bytes returns a [u8; n] blob.
func Bytes(n int) Blob {
	return Blob{Elem: "u8", Count: n}
}

// AlignMarker returns the zero-length blob enforcing align. It fails for
// alignments above MaxGuaranteedAlign.
func AlignMarker(align int) (Blob, bool) {
	if align > MaxGuaranteedAlign {
		return Blob{}, false
	}
	return Blob{Elem: elemFor(align), Count: 0}, true
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
