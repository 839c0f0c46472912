package ir

// Builder assembles graphs programmatically. Builtin types get LP64 layouts.
type Builder struct {
	g      *Graph
	ints   map[IntKind]ItemID
	floats map[FloatKind]ItemID
	void   ItemID
}

// L is shorthand for a layout pointer.
func L(size, align int) *Layout { return &Layout{Size: size, Align: align} }

// Bits returns a bit offset pointer for DataMember.Offset.
func Bits(n int) *int { return &n }

// NewBuilder returns a builder holding an empty root module.
func NewBuilder() *Builder {
	b := &Builder{
		g:      &Graph{Schema: SchemaVersion},
		ints:   make(map[IntKind]ItemID),
		floats: make(map[FloatKind]ItemID),
	}
	b.g.Root = b.add(&Item{Kind: ItemModule, Module: &Module{}})
	return b
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *Graph { return b.g }

// Root returns the root module.
func (b *Builder) Root() ItemID { return b.g.Root }

// Item returns a mutable item for further tweaks.
func (b *Builder) Item(id ItemID) *Item { return b.g.Item(id) }

// Comp returns the aggregate payload of id.
func (b *Builder) Comp(id ItemID) *Comp { return b.g.Type(id).Comp }

func (b *Builder) add(it *Item) ItemID {
	it.ID = ItemID(len(b.g.Items) + 1)
	b.g.Items = append(b.g.Items, it)
	parent := b.g.Item(it.Parent)
	if parent == nil {
		return it.ID
	}
	switch {
	case parent.Kind == ItemModule:
		parent.Module.Children = append(parent.Module.Children, it.ID)
	case parent.Kind == ItemType && parent.Type.Comp != nil:
		switch it.Kind {
		case ItemType:
			if it.Type.Kind != TypeParam {
				parent.Type.Comp.InnerTypes = append(parent.Type.Comp.InnerTypes, it.ID)
			}
		case ItemVar:
			parent.Type.Comp.InnerVars = append(parent.Type.Comp.InnerVars, it.ID)
		}
	}
	return it.ID
}

func (b *Builder) addType(parent ItemID, name string, t *Type) ItemID {
	return b.add(&Item{Kind: ItemType, Parent: parent, Name: name, Type: t})
}

// Module adds a named namespace.
func (b *Builder) Module(parent ItemID, name string) ItemID {
	return b.add(&Item{Kind: ItemModule, Parent: parent, Name: name, Module: &Module{}})
}

// InlineModule adds an inline namespace.
func (b *Builder) InlineModule(parent ItemID, name string) ItemID {
	return b.add(&Item{Kind: ItemModule, Parent: parent, Name: name, Module: &Module{Kind: ModuleInline}})
}

// Void returns the void type.
func (b *Builder) Void() ItemID {
	if b.void == NoItemID {
		b.void = b.addType(NoItemID, "", &Type{Kind: TypeVoid})
	}
	return b.void
}

var intLayouts = map[IntKind]Layout{
	IntBool: {1, 1}, IntChar: {1, 1}, IntSChar: {1, 1}, IntUChar: {1, 1},
	IntShort: {2, 2}, IntUShort: {2, 2}, IntInt: {4, 4}, IntUInt: {4, 4},
	IntLong: {8, 8}, IntULong: {8, 8}, IntLongLong: {8, 8}, IntULongLong: {8, 8},
	IntI8: {1, 1}, IntU8: {1, 1}, IntI16: {2, 2}, IntU16: {2, 2},
	IntI32: {4, 4}, IntU32: {4, 4}, IntI64: {8, 8}, IntU64: {8, 8},
	IntI128: {16, 16}, IntU128: {16, 16},
	IntWChar: {4, 4}, IntChar16: {2, 2}, IntChar32: {4, 4},
}

// Int returns the builtin integer type k.
func (b *Builder) Int(k IntKind) ItemID {
	if id, ok := b.ints[k]; ok {
		return id
	}
	l := intLayouts[k]
	id := b.addType(NoItemID, "", &Type{Kind: TypeInt, Int: k, Signed: k == IntChar, Layout: &l})
	b.ints[k] = id
	return id
}

var floatLayouts = map[FloatKind]Layout{
	FloatHalf: {2, 2}, FloatFloat: {4, 4}, FloatDouble: {8, 8},
	FloatLongDouble: {16, 16}, FloatFloat128: {16, 16},
}

// Float returns the builtin floating point type k.
func (b *Builder) Float(k FloatKind) ItemID {
	if id, ok := b.floats[k]; ok {
		return id
	}
	l := floatLayouts[k]
	id := b.addType(NoItemID, "", &Type{Kind: TypeFloat, Float: k, Layout: &l})
	b.floats[k] = id
	return id
}

// Complex returns _Complex of the float kind k.
func (b *Builder) Complex(k FloatKind) ItemID {
	elem := b.Float(k)
	l := floatLayouts[k]
	return b.addType(NoItemID, "", &Type{Kind: TypeComplex, Inner: elem, Layout: L(l.Size*2, l.Align)})
}

// Const returns a const-qualified view of the type id. Builtins are copied;
// named declarations are wrapped in an unnamed alias so their identity is kept.
func (b *Builder) Const(id ItemID) ItemID {
	src := b.g.Item(id)
	if src.Name != "" || src.Type.Comp != nil || src.Type.Enum != nil {
		t := &Type{Kind: TypeAlias, Inner: id, IsConst: true, Layout: src.Type.Layout}
		return b.addType(NoItemID, "", t)
	}
	t := *src.Type
	t.IsConst = true
	return b.addType(NoItemID, "", &t)
}

// Pointer returns a pointer to id.
func (b *Builder) Pointer(to ItemID) ItemID {
	return b.addType(NoItemID, "", &Type{Kind: TypePointer, Inner: to, Layout: L(8, 8)})
}

// Reference returns an lvalue reference to id.
func (b *Builder) Reference(to ItemID) ItemID {
	return b.addType(NoItemID, "", &Type{Kind: TypeReference, Inner: to, Layout: L(8, 8)})
}

// Array returns a fixed array of n elements; n == 0 models a flexible array member.
func (b *Builder) Array(elem ItemID, n int) ItemID {
	t := &Type{Kind: TypeArray, Inner: elem, Len: n}
	if el, ok := b.g.LayoutOf(elem); ok {
		t.Layout = L(el.Size*n, el.Align)
	}
	return b.addType(NoItemID, "", t)
}

// Opaque returns a blob type of layout l.
func (b *Builder) Opaque(l Layout) ItemID {
	return b.addType(NoItemID, "", &Type{Kind: TypeOpaqueBlob, Layout: &l})
}

// Alias adds a typedef of target.
func (b *Builder) Alias(parent ItemID, name string, target ItemID) ItemID {
	t := &Type{Kind: TypeAlias, Inner: target}
	if l, ok := b.g.LayoutOf(target); ok {
		t.Layout = &l
	}
	return b.addType(parent, name, t)
}

func (b *Builder) comp(parent ItemID, name string, kind CompKind, l *Layout) ItemID {
	id := b.addType(parent, name, &Type{Kind: TypeComp, Layout: l, Comp: &Comp{Kind: kind}})
	b.g.Item(id).Facts = AllDerivable()
	return id
}

// Struct adds a struct with every capability fact set.
func (b *Builder) Struct(parent ItemID, name string, l *Layout) ItemID {
	return b.comp(parent, name, CompStruct, l)
}

// Union adds a union with every capability fact set.
func (b *Builder) Union(parent ItemID, name string, l *Layout) ItemID {
	return b.comp(parent, name, CompUnion, l)
}

// Field appends a data member at bitOffset (negative means unknown).
func (b *Builder) Field(comp ItemID, name string, ty ItemID, bitOffset int) *DataMember {
	dm := &DataMember{Name: name, Type: ty}
	if bitOffset >= 0 {
		dm.Offset = Bits(bitOffset)
	}
	c := b.Comp(comp)
	c.Fields = append(c.Fields, Field{Kind: FieldData, Data: dm})
	return dm
}

// Bitfields appends a bitfield unit holding bfs.
func (b *Builder) Bitfields(comp ItemID, l Layout, bfs ...Bitfield) *BitfieldUnit {
	c := b.Comp(comp)
	nth := 1
	for _, f := range c.Fields {
		if f.Kind == FieldBitfieldUnit {
			nth++
		}
	}
	u := &BitfieldUnit{Nth: nth, Layout: l, Bitfields: bfs}
	c.Fields = append(c.Fields, Field{Kind: FieldBitfieldUnit, Unit: u})
	return u
}

// Base appends a base class.
func (b *Builder) Base(comp, base ItemID) {
	c := b.Comp(comp)
	c.Bases = append(c.Bases, Base{Type: base})
}

// TypeParam declares a template parameter of owner and marks it used.
func (b *Builder) TypeParam(owner ItemID, name string) ItemID {
	id := b.addType(owner, name, &Type{Kind: TypeParam})
	it := b.g.Item(owner)
	it.Type.TemplateParams = append(it.Type.TemplateParams, id)
	it.Facts.UsedTemplateParams = append(it.Facts.UsedTemplateParams, id)
	return id
}

// Enum adds an enumeration.
func (b *Builder) Enum(parent ItemID, name string, repr ItemID, variants ...EnumVariant) ItemID {
	t := &Type{Kind: TypeEnum, Enum: &Enum{Repr: repr, Variants: variants}}
	if l, ok := b.g.LayoutOf(repr); ok {
		t.Layout = &l
	} else {
		t.Layout = L(4, 4)
	}
	id := b.addType(parent, name, t)
	b.g.Item(id).Facts = AllDerivable()
	return id
}

// FunctionType returns a C-ABI signature type.
func (b *Builder) FunctionType(ret ItemID, args ...Arg) ItemID {
	return b.addType(NoItemID, "", &Type{Kind: TypeFunction, Signature: &Signature{Return: ret, Args: args}})
}

// Sig returns the signature payload of a function type.
func (b *Builder) Sig(fnType ItemID) *Signature { return b.g.Type(fnType).Signature }

// Function adds a free function with an external symbol named name.
func (b *Builder) Function(parent ItemID, name string, sig ItemID) ItemID {
	return b.add(&Item{Kind: ItemFunction, Parent: parent, Name: name, Function: &Function{Signature: sig}})
}

// Method adds a member function of comp. sig must already include the
// this pointer for non-static kinds.
func (b *Builder) Method(comp ItemID, kind MethodKind, name, mangled string, sig ItemID, isConst bool) ItemID {
	id := b.add(&Item{Kind: ItemFunction, Parent: comp, Name: name, Function: &Function{
		Signature:   sig,
		MangledName: mangled,
		Method:      kind,
	}})
	c := b.Comp(comp)
	c.Methods = append(c.Methods, Method{Kind: kind, Function: id, IsConst: isConst})
	return id
}

// Var adds a global variable.
func (b *Builder) Var(parent ItemID, name string, ty ItemID) ItemID {
	return b.add(&Item{Kind: ItemVar, Parent: parent, Name: name, Var: &Var{Type: ty}})
}

// Instantiation adds a concrete use of the generic def.
func (b *Builder) Instantiation(parent, def ItemID, l *Layout, args ...ItemID) ItemID {
	return b.addType(parent, "", &Type{Kind: TypeInstantiation, Layout: l, Instantiation: &Instantiation{Definition: def, Args: args}})
}

// ObjCInterface adds an Objective-C interface.
func (b *Builder) ObjCInterface(parent ItemID, name string, methods ...ObjCMethod) ItemID {
	return b.addType(parent, name, &Type{Kind: TypeObjCInterface, ObjC: &ObjCInterface{Methods: methods}})
}
