// Package ir holds the declaration graph consumed by the code generator.
//
// The graph is produced by an external header front end and handed over as a
// msgpack file (see codec.go). Every node is an Item with a stable ItemID;
// references between nodes are ItemIDs, never pointers, so the graph can be
// decoded, validated and shared read-only between concurrent generator runs.
//
// Capability analysis (can this type derive Copy, is it opaque, which template
// parameters does it use) is also done by the front end; its results travel
// on each item as Facts.
package ir

// ItemID identifies an item inside one Graph. Zero is never a valid item.
type ItemID uint32

// NoItemID marks an absent reference.
const NoItemID ItemID = 0

// Valid reports whether id refers to an item.
func (id ItemID) Valid() bool { return id != NoItemID }

// ItemKind is the closed set of declaration node kinds.
type ItemKind uint8

const (
	ItemModule ItemKind = iota + 1
	ItemFunction
	ItemVar
	ItemType
)

func (k ItemKind) String() string {
	switch k {
	case ItemModule:
		return "module"
	case ItemFunction:
		return "function"
	case ItemVar:
		return "var"
	case ItemType:
		return "type"
	default:
		return "unknown"
	}
}

// Layout is a native {size, align} pair in bytes.
type Layout struct {
	Size  int `msgpack:"size"`
	Align int `msgpack:"align"`
}

// Item is one declaration node. Exactly one payload pointer is set and it
// matches Kind.
type Item struct {
	ID          ItemID      `msgpack:"id"`
	Kind        ItemKind    `msgpack:"kind"`
	Name        string      `msgpack:"name,omitempty"`
	Comment     string      `msgpack:"comment,omitempty"`
	Parent      ItemID      `msgpack:"parent,omitempty"`
	Annotations Annotations `msgpack:"ann,omitempty"`
	Facts       Facts       `msgpack:"facts,omitempty"`

	Module   *Module   `msgpack:"module,omitempty"`
	Function *Function `msgpack:"function,omitempty"`
	Var      *Var      `msgpack:"var,omitempty"`
	Type     *Type     `msgpack:"type,omitempty"`
}

// IsAnonymous reports whether the declaration has no source name.
func (it *Item) IsAnonymous() bool { return it.Name == "" }

// ModuleKind distinguishes regular and inline namespaces.
type ModuleKind uint8

const (
	ModuleNormal ModuleKind = iota
	ModuleInline
)

// Module is a namespace; the root module has no name.
type Module struct {
	Kind     ModuleKind `msgpack:"kind,omitempty"`
	Children []ItemID   `msgpack:"children,omitempty"`
}

// VarValueKind tags a constant initializer.
type VarValueKind uint8

const (
	ValueInt VarValueKind = iota + 1
	ValueFloat
	ValueBool
	ValueString
	ValueChar
)

// VarValue is the evaluated initializer of a constant variable.
type VarValue struct {
	Kind  VarValueKind `msgpack:"kind"`
	Int   int64        `msgpack:"int,omitempty"`
	Float float64      `msgpack:"float,omitempty"`
	Bool  bool         `msgpack:"bool,omitempty"`
	Bytes []byte       `msgpack:"bytes,omitempty"`
}

// Var is a global variable or constant.
type Var struct {
	Type        ItemID    `msgpack:"type"`
	MangledName string    `msgpack:"mangled,omitempty"`
	LinkName    string    `msgpack:"link_name,omitempty"`
	Value       *VarValue `msgpack:"value,omitempty"`
}
