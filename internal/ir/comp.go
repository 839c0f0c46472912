package ir

// CompKind is struct or union.
type CompKind uint8

const (
	CompStruct CompKind = iota + 1
	CompUnion
)

func (k CompKind) String() string {
	if k == CompUnion {
		return "union"
	}
	return "struct"
}

// FieldKind distinguishes plain data members from bitfield units.
type FieldKind uint8

const (
	FieldData FieldKind = iota + 1
	FieldBitfieldUnit
)

// Field is one entry of an aggregate's field list.
type Field struct {
	Kind FieldKind     `msgpack:"kind"`
	Data *DataMember   `msgpack:"data,omitempty"`
	Unit *BitfieldUnit `msgpack:"unit,omitempty"`
}

// DataMember is a named (or anonymous) data field.
type DataMember struct {
	Name    string `msgpack:"name,omitempty"`
	Type    ItemID `msgpack:"type"`
	Comment string `msgpack:"comment,omitempty"`
	// Offset is the native offset in bits, nil when unknown.
	Offset   *int         `msgpack:"offset,omitempty"`
	Private  bool         `msgpack:"private,omitempty"`
	Accessor AccessorKind `msgpack:"accessor,omitempty"`
}

// BitfieldUnit is a run of bitfields sharing one storage unit. Nth numbers
// units within their aggregate starting at 1.
type BitfieldUnit struct {
	Nth       int        `msgpack:"nth"`
	Layout    Layout     `msgpack:"layout"`
	Bitfields []Bitfield `msgpack:"bitfields"`
}

// Bitfield is a named bit range; Offset is relative to the unit start.
type Bitfield struct {
	Name    string `msgpack:"name,omitempty"`
	Type    ItemID `msgpack:"type"`
	Offset  int    `msgpack:"offset"`
	Width   int    `msgpack:"width"`
	Private bool   `msgpack:"private,omitempty"`
}

// BaseKind marks virtual inheritance.
type BaseKind uint8

const (
	BaseNormal BaseKind = iota
	BaseVirtual
)

// Base is one inherited base class.
type Base struct {
	Type ItemID   `msgpack:"type"`
	Kind BaseKind `msgpack:"kind,omitempty"`
}

// MethodKind classifies C++ member functions.
type MethodKind uint8

const (
	MethodNormal MethodKind = iota + 1
	MethodStatic
	MethodVirtual
	MethodConstructor
	MethodDestructor
	MethodVirtualDestructor
)

// Method binds a member function item to its aggregate.
type Method struct {
	Kind     MethodKind `msgpack:"kind"`
	Function ItemID     `msgpack:"fn"`
	IsConst  bool       `msgpack:"const,omitempty"`
	IsPure   bool       `msgpack:"pure,omitempty"`
}

// IsVirtual reports whether the method is dispatched through the vtable.
func (m Method) IsVirtual() bool {
	return m.Kind == MethodVirtual || m.Kind == MethodVirtualDestructor
}

// Comp is a struct or union declaration.
type Comp struct {
	Kind       CompKind `msgpack:"kind"`
	Fields     []Field  `msgpack:"fields,omitempty"`
	Bases      []Base   `msgpack:"bases,omitempty"`
	Methods    []Method `msgpack:"methods,omitempty"`
	InnerTypes []ItemID `msgpack:"inner_types,omitempty"`
	InnerVars  []ItemID `msgpack:"inner_vars,omitempty"`

	HasOwnVTable         bool `msgpack:"own_vtable,omitempty"`
	HasDestructor        bool `msgpack:"dtor,omitempty"`
	IsForwardDeclaration bool `msgpack:"fwd,omitempty"`
	// HasNonTypeTemplateParams and IsUnderSpecified force opaque emission.
	HasNonTypeTemplateParams bool `msgpack:"nontype_params,omitempty"`
	IsUnderSpecified         bool `msgpack:"under_specified,omitempty"`
	Packed                   bool `msgpack:"packed,omitempty"`
	HasUnknownAttributes     bool `msgpack:"unknown_attrs,omitempty"`
}
