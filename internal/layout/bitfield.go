package layout

import (
	"fmt"

	"fortio.org/safecast"

	"bindgen/internal/ir"
)

// Storage is the backing field type of a bitfield unit.
type Storage struct {
	// Type is the Rust type of the storage field.
	Type string
	// Integer is set when Type is a plain unsigned integer.
	Integer bool
	// AlignMarker, when non-empty, is a zero-length array emitted before the
	// storage field to restore the unit alignment lost by a byte array.
	AlignMarker string
}

// StorageFor picks the storage of a unit: the unsigned integer of exactly
// the unit's size when its alignment allows it, otherwise a byte array
// wrapped in the bitfield unit helper.
func StorageFor(l ir.Layout, packed bool) Storage {
	if l.Align >= l.Size || packed {
		switch l.Size {
		case 1:
			return Storage{Type: "u8", Integer: true}
		case 2:
			return Storage{Type: "u16", Integer: true}
		case 4:
			return Storage{Type: "u32", Integer: true}
		case 8:
			return Storage{Type: "u64", Integer: true}
		}
	}
	s := Storage{Type: fmt.Sprintf("__BindgenBitfieldUnit<[u8; %dusize]>", l.Size)}
	if !packed && l.Align > 1 {
		s.AlignMarker = fmt.Sprintf("[%s; 0]", elemFor(l.Align))
	}
	return s
}

// BitRange is a (bit offset, bit width) slice of a storage unit.
type BitRange struct {
	Offset int
	Width  int
}

// Fits reports whether the range lies inside a unit of unitBytes bytes and
// is at most 64 bits wide.
func (r BitRange) Fits(unitBytes int) bool {
	return r.Offset >= 0 && r.Width > 0 && r.Width <= 64 && r.Offset+r.Width <= unitBytes*8
}

// Check returns an error wrapping ErrBitsOverflow when the range does not fit.
func (r BitRange) Check(name string, unitBytes int) error {
	if r.Fits(unitBytes) {
		return nil
	}
	return overflowError(name, r, unitBytes)
}

// ValueMask has the low Width bits set.
func (r BitRange) ValueMask() uint64 {
	if r.Width >= 64 {
		return ^uint64(0)
	}
	w, err := safecast.Conv[uint](r.Width)
	if err != nil {
		return 0
	}
	return (uint64(1) << w) - 1
}

// Mask has the range's bits set in unit position.
func (r BitRange) Mask() uint64 {
	off, err := safecast.Conv[uint](r.Offset)
	if err != nil {
		return 0
	}
	return r.ValueMask() << off
}
