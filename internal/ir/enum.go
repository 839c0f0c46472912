package ir

import "strconv"

// EnumValueKind is the representation of a variant value.
type EnumValueKind uint8

const (
	EnumSigned EnumValueKind = iota + 1
	EnumUnsigned
	EnumBoolean
)

// EnumValue is comparable and used as a map key when deduplicating variants.
type EnumValue struct {
	Kind     EnumValueKind `msgpack:"kind"`
	Signed   int64         `msgpack:"s,omitempty"`
	Unsigned uint64        `msgpack:"u,omitempty"`
	Bool     bool          `msgpack:"b,omitempty"`
}

// Signed returns a signed variant value.
func Signed(v int64) EnumValue { return EnumValue{Kind: EnumSigned, Signed: v} }

// Unsigned returns an unsigned variant value.
func Unsigned(v uint64) EnumValue { return EnumValue{Kind: EnumUnsigned, Unsigned: v} }

// Boolean returns a boolean variant value.
func Boolean(v bool) EnumValue { return EnumValue{Kind: EnumBoolean, Bool: v} }

// Key normalizes v so that equal numeric values compare equal regardless of
// how the front end tagged them.
func (v EnumValue) Key() EnumValue {
	switch v.Kind {
	case EnumBoolean:
		if v.Bool {
			return Unsigned(1)
		}
		return Unsigned(0)
	case EnumSigned:
		if v.Signed >= 0 {
			return Unsigned(uint64(v.Signed))
		}
	}
	return v
}

// String renders the value as a decimal literal.
func (v EnumValue) String() string {
	switch v.Kind {
	case EnumSigned:
		return strconv.FormatInt(v.Signed, 10)
	case EnumUnsigned:
		return strconv.FormatUint(v.Unsigned, 10)
	case EnumBoolean:
		if v.Bool {
			return "1"
		}
		return "0"
	}
	return "0"
}

// EnumVariant is one enumerator.
type EnumVariant struct {
	Name    string    `msgpack:"name"`
	Comment string    `msgpack:"comment,omitempty"`
	Value   EnumValue `msgpack:"value"`
	// Constify forces a standalone constant for this variant.
	Constify bool `msgpack:"constify,omitempty"`
	Hidden   bool `msgpack:"hidden,omitempty"`
}

// Enum is an enumeration; Repr is NoItemID when the source gave no fixed
// underlying type.
type Enum struct {
	Repr     ItemID        `msgpack:"repr,omitempty"`
	Variants []EnumVariant `msgpack:"variants,omitempty"`
}

// EnumStyle selects how an enum is emitted.
type EnumStyle uint8

const (
	EnumStyleUnset EnumStyle = iota
	EnumStyleRust
	EnumStyleRustNonExhaustive
	EnumStyleNewType
	EnumStyleNewTypeGlobal
	EnumStyleBitfield
	EnumStyleConsts
	EnumStyleModuleConsts
)

var enumStyleNames = map[EnumStyle]string{
	EnumStyleRust:              "rust",
	EnumStyleRustNonExhaustive: "rust_non_exhaustive",
	EnumStyleNewType:           "newtype",
	EnumStyleNewTypeGlobal:     "newtype_global",
	EnumStyleBitfield:          "bitfield",
	EnumStyleConsts:            "consts",
	EnumStyleModuleConsts:      "moduleconsts",
}

func (s EnumStyle) String() string {
	if name, ok := enumStyleNames[s]; ok {
		return name
	}
	return "unset"
}

// ParseEnumStyle maps a configuration value to an EnumStyle.
func ParseEnumStyle(s string) (EnumStyle, bool) {
	for style, name := range enumStyleNames {
		if name == s {
			return style, true
		}
	}
	return EnumStyleUnset, false
}

// IsRust reports the native-enum policy.
func (s EnumStyle) IsRust() bool {
	return s == EnumStyleRust || s == EnumStyleRustNonExhaustive
}

// IsNewType reports the wrapper-with-constants policy (including bitfield mode).
func (s EnumStyle) IsNewType() bool {
	return s == EnumStyleNewType || s == EnumStyleNewTypeGlobal || s == EnumStyleBitfield
}
