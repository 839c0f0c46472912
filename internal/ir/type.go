package ir

// TypeKind is the closed set of type node kinds.
type TypeKind uint8

const (
	TypeVoid TypeKind = iota + 1
	TypeNullPtr
	TypeInt
	TypeFloat
	TypeComplex
	TypePointer
	TypeReference
	TypeArray
	TypeOpaqueBlob
	TypeFunction
	TypeEnum
	TypeComp
	TypeAlias
	TypeInstantiation
	TypeParam
	TypeObjCInterface
	TypeObjCID
	TypeObjCSel
	// TypeUnresolvedRef must have been resolved by the front end; the
	// generator treats it as a contract violation.
	TypeUnresolvedRef
)

var typeKindNames = [...]string{
	TypeVoid:          "void",
	TypeNullPtr:       "nullptr",
	TypeInt:           "int",
	TypeFloat:         "float",
	TypeComplex:       "complex",
	TypePointer:       "pointer",
	TypeReference:     "reference",
	TypeArray:         "array",
	TypeOpaqueBlob:    "opaque",
	TypeFunction:      "function",
	TypeEnum:          "enum",
	TypeComp:          "comp",
	TypeAlias:         "alias",
	TypeInstantiation: "instantiation",
	TypeParam:         "type-param",
	TypeObjCInterface: "objc-interface",
	TypeObjCID:        "objc-id",
	TypeObjCSel:       "objc-sel",
	TypeUnresolvedRef: "unresolved",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) && typeKindNames[k] != "" {
		return typeKindNames[k]
	}
	return "unknown"
}

// IntKind names a builtin integer type.
type IntKind uint8

const (
	IntBool IntKind = iota + 1
	IntChar         // plain char; signedness in Type.Signed
	IntSChar
	IntUChar
	IntShort
	IntUShort
	IntInt
	IntUInt
	IntLong
	IntULong
	IntLongLong
	IntULongLong
	IntI8
	IntU8
	IntI16
	IntU16
	IntI32
	IntU32
	IntI64
	IntU64
	IntI128
	IntU128
	IntWChar
	IntChar16
	IntChar32
)

// IsSigned reports the signedness of k. Plain char defers to the target.
func (k IntKind) IsSigned(charSigned bool) bool {
	switch k {
	case IntChar:
		return charSigned
	case IntSChar, IntShort, IntInt, IntLong, IntLongLong,
		IntI8, IntI16, IntI32, IntI64, IntI128, IntWChar:
		return true
	}
	return false
}

// FloatKind names a builtin floating point type.
type FloatKind uint8

const (
	FloatFloat FloatKind = iota + 1
	FloatDouble
	FloatLongDouble
	FloatFloat128
	FloatHalf
)

// Type is the payload of a type item. Which fields are meaningful depends on
// Kind:
//
//	Pointer, Reference, Complex, Alias: Inner
//	Array: Inner, Len
//	Int: Int, Signed (plain char)
//	Float: Float
//	Function: Signature
//	Enum: Enum
//	Comp: Comp, TemplateParams
//	Alias: TemplateParams (generic aliases)
//	Instantiation: Instantiation
//	ObjCInterface: ObjC
type Type struct {
	Kind    TypeKind `msgpack:"kind"`
	Layout  *Layout  `msgpack:"layout,omitempty"`
	IsConst bool     `msgpack:"const,omitempty"`

	Int    IntKind   `msgpack:"int,omitempty"`
	Signed bool      `msgpack:"signed,omitempty"`
	Float  FloatKind `msgpack:"float,omitempty"`
	Inner  ItemID    `msgpack:"inner,omitempty"`
	Len    int       `msgpack:"len,omitempty"`

	Signature      *Signature     `msgpack:"sig,omitempty"`
	Enum           *Enum          `msgpack:"enum,omitempty"`
	Comp           *Comp          `msgpack:"comp,omitempty"`
	Instantiation  *Instantiation `msgpack:"inst,omitempty"`
	ObjC           *ObjCInterface `msgpack:"objc,omitempty"`
	TemplateParams []ItemID       `msgpack:"tparams,omitempty"`
}

// Instantiation is a concrete use of a generic declaration.
type Instantiation struct {
	Definition ItemID   `msgpack:"def"`
	Args       []ItemID `msgpack:"args,omitempty"`
}

// ObjCMethod is one selector of an Objective-C interface.
type ObjCMethod struct {
	Selector  string `msgpack:"sel"`
	Signature ItemID `msgpack:"sig"`
	IsClass   bool   `msgpack:"class,omitempty"`
}

// ObjCInterface is an Objective-C @interface or @protocol.
type ObjCInterface struct {
	IsProtocol bool         `msgpack:"protocol,omitempty"`
	Category   string       `msgpack:"category,omitempty"`
	Conforms   []ItemID     `msgpack:"conforms,omitempty"`
	Methods    []ObjCMethod `msgpack:"methods,omitempty"`
}
