package layout

import (
	"fmt"

	"bindgen/internal/ir"
)

// Padding is a synthetic field inserted to reproduce a native offset or size.
type Padding struct {
	Name string
	Type Blob
}

// Tracker follows an aggregate's fields in declaration order and decides
// where synthetic padding and alignment markers are needed so the emitted
// aggregate matches the native layout.
type Tracker struct {
	target   Target
	name     string
	kind     ir.CompKind
	declared *ir.Layout
	packed   bool
	explicit bool

	cursor   int // bytes
	maxAlign int
	maxSize  int // unions
	padCount int
	fields   int
}

// NewTracker starts tracking an aggregate. declared may be nil when the
// native layout is unknown; in that case no padding is ever synthesized.
// explicitPadding makes every gap a named field, even natural alignment gaps.
func NewTracker(target Target, name string, kind ir.CompKind, declared *ir.Layout, packed, explicitPadding bool) *Tracker {
	return &Tracker{
		target:   target,
		name:     name,
		kind:     kind,
		declared: declared,
		packed:   packed,
		explicit: explicitPadding,
		maxAlign: 1,
	}
}

// Cursor returns the byte offset just past the last tracked field.
func (t *Tracker) Cursor() int {
	if t.kind == ir.CompUnion {
		return t.maxSize
	}
	return t.cursor
}

// MaxFieldAlign is the alignment the emitted language infers from the fields.
func (t *Tracker) MaxFieldAlign() int { return t.maxAlign }

// Empty reports whether no field was tracked.
func (t *Tracker) Empty() bool { return t.fields == 0 }

// SawVTablePtr records the leading dispatch table pointer.
func (t *Tracker) SawVTablePtr() {
	t.place(ir.Layout{Size: t.target.PtrSize, Align: t.target.PtrAlign}, nil)
}

// SawBase records a base-class storage field placed at its natural offset.
func (t *Tracker) SawBase(l ir.Layout) {
	t.place(l, nil)
}

// SawBitfieldUnit records the storage field of a bitfield unit.
func (t *Tracker) SawBitfieldUnit(l ir.Layout) {
	t.place(l, nil)
}

// SawField records a data member. bitOffset is the native offset in bits, nil
// when unknown. It returns the padding to emit before the field, if any.
func (t *Tracker) SawField(l ir.Layout, bitOffset *int) *Padding {
	return t.place(l, bitOffset)
}

func (t *Tracker) place(l ir.Layout, bitOffset *int) *Padding {
	t.fields++
	if l.Align > t.maxAlign && !t.packed {
		t.maxAlign = l.Align
	}
	if t.kind == ir.CompUnion {
		t.maxSize = maxInt(t.maxSize, l.Size)
		return nil
	}
	align := l.Align
	if t.packed {
		align = 1
	}
	natural := roundUp(t.cursor, align)
	if bitOffset == nil || t.declared == nil {
		t.cursor = natural + l.Size
		return nil
	}
	offset := *bitOffset / 8
	var pad *Padding
	if offset > natural || (t.explicit && offset > t.cursor) {
		pad = t.padding(offset - t.cursor)
	}
	if offset < t.cursor {
		// Overlapping storage (e.g. a field inside the tail padding of a
		// base); trust the natural placement.
		offset = natural
	}
	t.cursor = offset + l.Size
	return pad
}

func (t *Tracker) padding(n int) *Padding {
	p := &Padding{Name: fmt.Sprintf("__bindgen_padding_%d", t.padCount), Type: Bytes(n)}
	t.padCount++
	return p
}

// TailPadding returns the trailing padding needed to reach the declared size.
func (t *Tracker) TailPadding() *Padding {
	if t.declared == nil {
		return nil
	}
	size := t.declared.Size
	cur := t.Cursor()
	if size <= cur {
		return nil
	}
	if t.kind == ir.CompUnion {
		// Union fields overlap; one field spanning the whole size suffices.
		return t.padding(size)
	}
	inferred := roundUp(cur, t.maxAlign)
	if t.packed {
		inferred = cur
	}
	if size > inferred || t.explicit || t.declared.Align > t.maxAlign {
		return t.padding(size - cur)
	}
	return nil
}

// RequiresExplicitAlign reports whether the declared alignment exceeds what
// the emitted language would infer from the fields alone.
func (t *Tracker) RequiresExplicitAlign() bool {
	if t.declared == nil || t.packed {
		return false
	}
	return t.declared.Align > t.maxAlign
}

// Repr renders the representation attribute arguments: "C", "C, packed",
// "C, packed(2)" or "C, align(8)". When the target lacks repr(align) the
// alignment is left to AlignMarker.
func (t *Tracker) Repr() string {
	switch {
	case t.packed && t.declared != nil && t.declared.Align > 1:
		return fmt.Sprintf("C, packed(%d)", t.declared.Align)
	case t.packed:
		return "C, packed"
	case t.RequiresExplicitAlign() && t.target.SupportsReprAlign:
		return fmt.Sprintf("C, align(%d)", t.declared.Align)
	}
	return "C"
}

// AlignMarker returns the zero-length field enforcing the declared alignment
// on targets without repr(align). It reports an error when the alignment
// cannot be expressed at all.
func (t *Tracker) AlignMarker() (*Padding, error) {
	if !t.RequiresExplicitAlign() || t.target.SupportsReprAlign {
		return nil, nil
	}
	blob, ok := AlignMarker(t.declared.Align)
	if !ok {
		return nil, alignError(t.name, t.declared.Align)
	}
	return &Padding{Name: "__bindgen_align", Type: blob}, nil
}

// IsPacked reports whether an aggregate must be emitted packed: either it
// carries the packed attribute or some field is more aligned than the
// aggregate itself.
func IsPacked(packedAttr bool, declared *ir.Layout, fieldAligns ...int) bool {
	if packedAttr {
		return true
	}
	if declared == nil {
		return false
	}
	for _, a := range fieldAligns {
		if a > declared.Align {
			return true
		}
	}
	return false
}
