package ir

// Facts are the per-item results of the front end's capability analysis.
type Facts struct {
	CanDeriveCopy       bool `msgpack:"copy,omitempty"`
	CanDeriveClone      bool `msgpack:"clone,omitempty"`
	CanDeriveDebug      bool `msgpack:"debug,omitempty"`
	CanDeriveDefault    bool `msgpack:"default,omitempty"`
	CanDeriveHash       bool `msgpack:"hash,omitempty"`
	CanDerivePartialEq  bool `msgpack:"partial_eq,omitempty"`
	CanDeriveEq         bool `msgpack:"eq,omitempty"`
	CanDerivePartialOrd bool `msgpack:"partial_ord,omitempty"`
	CanDeriveOrd        bool `msgpack:"ord,omitempty"`

	// Opaque is set when the analysis decided the item cannot be
	// represented field by field.
	Opaque bool `msgpack:"opaque,omitempty"`
	// HasVTable is set when the type or one of its bases owns a vtable.
	HasVTable bool `msgpack:"vtable,omitempty"`
	// UsedTemplateParams lists the template parameters (TypeParam items)
	// the definition actually uses, in declaration order.
	UsedTemplateParams []ItemID `msgpack:"used_params,omitempty"`
}

// AllDerivable returns facts with every capability set; used by tools and
// tests building plain-old-data graphs.
func AllDerivable() Facts {
	return Facts{
		CanDeriveCopy:       true,
		CanDeriveClone:      true,
		CanDeriveDebug:      true,
		CanDeriveDefault:    true,
		CanDeriveHash:       true,
		CanDerivePartialEq:  true,
		CanDeriveEq:         true,
		CanDerivePartialOrd: true,
		CanDeriveOrd:        true,
	}
}

// AccessorKind selects the accessor methods generated for a field.
type AccessorKind uint8

const (
	AccessorUnset AccessorKind = iota
	AccessorNone
	AccessorRegular
	AccessorUnsafe
	AccessorImmutable
)

// ParseAccessorKind maps a configuration value to an AccessorKind.
func ParseAccessorKind(s string) (AccessorKind, bool) {
	switch s {
	case "none", "":
		return AccessorNone, true
	case "regular":
		return AccessorRegular, true
	case "unsafe":
		return AccessorUnsafe, true
	case "immutable":
		return AccessorImmutable, true
	}
	return AccessorUnset, false
}

// Annotations are per-declaration overrides written in source comments or
// supplied by the front end.
type Annotations struct {
	Hide        bool         `msgpack:"hide,omitempty"`
	Opaque      bool         `msgpack:"opaque,omitempty"`
	NoCopy      bool         `msgpack:"nocopy,omitempty"`
	NoDebug     bool         `msgpack:"nodebug,omitempty"`
	NoDefault   bool         `msgpack:"nodefault,omitempty"`
	NoHash      bool         `msgpack:"nohash,omitempty"`
	NoPartialEq bool         `msgpack:"nopartialeq,omitempty"`
	MustUse     bool         `msgpack:"must_use,omitempty"`
	Private     bool         `msgpack:"private,omitempty"`
	Accessor    AccessorKind `msgpack:"accessor,omitempty"`
	EnumStyle   EnumStyle    `msgpack:"enum_style,omitempty"`
	Derives     []string     `msgpack:"derives,omitempty"`
}
