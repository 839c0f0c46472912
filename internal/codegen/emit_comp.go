package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/derive"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/layout"
)

// isOpaque reports whether an aggregate is emitted as a single blob.
func (gen *generator) isOpaque(it *ir.Item) bool {
	ann := gen.opts.Annotate(it.Name, it.Annotations)
	if ann.Opaque || it.Facts.Opaque {
		return true
	}
	c := it.Type.Comp
	return c != nil && (c.HasNonTypeTemplateParams || c.IsUnderSpecified)
}

// compField is one emitted field.
type compField struct {
	name string
	ty   string
	vis  string
	doc  string
	// offset is the native byte offset checked by the layout test, nil for
	// synthetic fields and unknown offsets.
	offset *int
}

// valueField is a member visible to hand-written Debug/Hash/PartialEq.
type valueField struct {
	label  string
	access string // ".a" or ".a()"
	byCopy bool   // wrap in a block to read packed fields by value
}

func (v valueField) on(recv string) string {
	if v.byCopy {
		return "({ " + recv + v.access + " })"
	}
	return recv + v.access
}

// compEmitter carries the state of one aggregate while it is emitted.
type compEmitter struct {
	gen *generator
	res *Result
	it  *ir.Item
	c   *ir.Comp
	ann ir.Annotations

	name      string // canonical name
	params    string // "<T, U>" or ""
	generic   bool
	opaque    bool
	packed    bool
	rustUnion bool
	// unionField is set for unions emitted as structs of __BindgenUnionField.
	unionField bool

	tracker *layout.Tracker
	fields  []compField
	values  []valueField
	impl    strings.Builder
	anon    int
	units   int
	methods map[string]int
}

func (gen *generator) emitComp(res *Result, it *ir.Item) {
	if res.Seen(it.ID) {
		return
	}
	res.SetSeen(it.ID)
	ann := gen.opts.Annotate(it.Name, it.Annotations)
	if ann.Hide {
		gen.info(it, diag.CgnHidden, "%s %s is hidden", it.Type.Comp.Kind, it.Name)
		return
	}
	if !gen.opts.Generate.Types {
		return
	}
	gen.point(it, "comp")

	ce := &compEmitter{
		gen:     gen,
		res:     res,
		it:      it,
		c:       it.Type.Comp,
		ann:     ann,
		name:    gen.names.canonical(it.ID),
		methods: make(map[string]int),
	}
	ce.classify()
	ce.emit()
}

func (ce *compEmitter) emit() {
	gen, it, c := ce.gen, ce.it, ce.c
	l := it.Type.Layout

	if c.HasUnknownAttributes {
		gen.warn(it, diag.LayUnknownAttribute, "%s has an attribute that may affect its layout; layout is best effort", displayName(it))
	}
	if ce.packed && ce.generic {
		gen.warn(it, diag.LayPackedGeneric, "packed generic %s only derives Copy", displayName(it))
	}
	ce.tracker = layout.NewTracker(gen.opts.Target, it.Name, c.Kind, l, ce.packed, gen.opts.ExplicitPadding)

	var vtable string
	switch {
	case c.IsForwardDeclaration:
		ce.fields = append(ce.fields, compField{name: "_unused", ty: "[u8; 0]", vis: gen.opts.Visibility.Keyword()})
	case ce.opaque:
		ce.opaqueBlob()
	case ce.unionField:
		ce.members()
		ce.unionBlob()
	default:
		if c.Kind == ir.CompStruct && ce.needsVTablePtr() {
			vtable = ce.vtable()
			ce.fields = append(ce.fields, compField{
				name: "vtable_",
				ty:   "*const " + ce.name + "__bindgen_vtable",
				vis:  gen.opts.Visibility.Keyword(),
			})
			ce.tracker.SawVTablePtr()
		}
		ce.bases()
		ce.members()
		ce.finish()
	}

	sel := ce.selectDerives()
	var b strings.Builder
	b.WriteString(gen.comment(it.Comment, ""))
	fmt.Fprintf(&b, "#[repr(%s)]\n", ce.tracker.Repr())
	if len(sel.Derives) > 0 {
		fmt.Fprintf(&b, "#[derive(%s)]\n", strings.Join(sel.Derives, ", "))
	}
	if ce.ann.MustUse {
		b.WriteString("#[must_use]\n")
	}
	keyword := "struct"
	if ce.rustUnion {
		keyword = "union"
	}
	fmt.Fprintf(&b, "pub %s %s%s {\n", keyword, ce.name, ce.params)
	for _, f := range ce.fields {
		b.WriteString(f.doc)
		fmt.Fprintf(&b, "    %s%s: %s,\n", f.vis, f.name, f.ty)
	}
	b.WriteString("}\n")

	ce.res.Push(vtable)
	ce.res.Push(b.String())

	for _, inner := range c.InnerTypes {
		gen.emitItem(ce.res, inner)
	}
	for _, v := range c.InnerVars {
		gen.emitItem(ce.res, v)
	}
	ce.res.Push(ce.layoutTest())
	if !c.IsForwardDeclaration {
		ce.emitMethods()
	}
	if ce.impl.Len() > 0 {
		ce.res.Push(fmt.Sprintf("impl%s %s%s {\n%s}\n", ce.params, ce.name, ce.params, ce.impl.String()))
	}
	ce.res.Push(ce.manualImpls(sel.Manual))
}

// classify decides how the aggregate is spelled: opaque blob, generic,
// packed, Rust union or union of __BindgenUnionField members.
func (ce *compEmitter) classify() {
	gen, it, c := ce.gen, ce.it, ce.c
	ce.opaque = gen.isOpaque(it)
	if ce.opaque {
		return
	}
	ce.params = gen.genericList(it)
	ce.generic = ce.params != ""
	ce.packed = layout.IsPacked(c.Packed, it.Type.Layout, ce.memberAligns()...)
	ce.rustUnion = c.Kind == ir.CompUnion && gen.opts.UntaggedUnions && gen.opts.Derive.Copy &&
		it.Facts.CanDeriveCopy && !ce.ann.NoCopy
	ce.unionField = c.Kind == ir.CompUnion && !ce.rustUnion
}

// memberAligns lists the natural alignment of every storage member.
func (ce *compEmitter) memberAligns() []int {
	var out []int
	for _, f := range ce.c.Fields {
		switch f.Kind {
		case ir.FieldData:
			if l, ok := ce.gen.g.LayoutOf(f.Data.Type); ok {
				out = append(out, l.Align)
			}
		case ir.FieldBitfieldUnit:
			out = append(out, f.Unit.Layout.Align)
		}
	}
	for _, base := range ce.c.Bases {
		if l, ok := ce.gen.g.LayoutOf(base.Type); ok {
			out = append(out, l.Align)
		}
	}
	return out
}

func (ce *compEmitter) selectDerives() derive.Selection {
	sel := derive.Select(derive.Input{
		Facts:     ce.it.Facts,
		Ann:       ce.ann,
		Packed:    ce.packed,
		Generic:   ce.generic,
		RustUnion: ce.rustUnion,
		Withheld:  ce.withheld(),
		Options:   ce.gen.opts.Derive,
	})
	if ce.packed && ce.generic {
		sel.Manual = derive.Manual{Clone: sel.Manual.Clone, Default: sel.Manual.Default}
	}
	return sel
}

func (ce *compEmitter) vis(private bool) string {
	if private || ce.ann.Private {
		return ""
	}
	return ce.gen.opts.Visibility.Keyword()
}

func (ce *compEmitter) addPadding(p *layout.Padding) {
	if p == nil {
		return
	}
	ce.fields = append(ce.fields, compField{name: p.Name, ty: p.Type.String(), vis: ce.gen.opts.Visibility.Keyword()})
}

func (ce *compEmitter) opaqueBlob() {
	gen, it := ce.gen, ce.it
	blob := gen.blob(it)
	ce.fields = append(ce.fields, compField{name: "_bindgen_opaque_blob", ty: blob.String(), vis: gen.opts.Visibility.Keyword()})
	ce.tracker.SawField(ir.Layout{Size: blob.Size(), Align: blob.Align()}, nil)
	if marker, err := ce.tracker.AlignMarker(); err != nil {
		gen.warn(it, diag.LayUnsupportedAlign, "%v", err)
	} else {
		ce.addPadding(marker)
	}
}

// unionBlob adds the storage field of a union emitted as a struct.
func (ce *compEmitter) unionBlob() {
	gen, it := ce.gen, ce.it
	ce.res.flags.unionField = true
	ce.addPhantoms()
	blob := gen.blob(it)
	ce.fields = append(ce.fields, compField{name: "bindgen_union_field", ty: blob.String(), vis: gen.opts.Visibility.Keyword()})
	ce.tracker.SawField(ir.Layout{Size: blob.Size(), Align: blob.Align()}, nil)
}

func (ce *compEmitter) needsVTablePtr() bool {
	if !ce.c.HasOwnVTable {
		return false
	}
	for _, base := range ce.c.Bases {
		if bi := ce.gen.g.Item(ce.gen.g.Canonical(base.Type)); bi != nil && bi.Facts.HasVTable {
			return false
		}
	}
	return true
}

// requiresStorage reports whether a base class occupies bytes in a derived
// object.
func (gen *generator) requiresStorage(id ir.ItemID) bool {
	it := gen.g.Item(gen.g.Canonical(id))
	if it == nil || it.Type == nil {
		return false
	}
	c := it.Type.Comp
	if c == nil {
		l, ok := gen.g.LayoutOf(id)
		return ok && l.Size > 0
	}
	if gen.isOpaque(it) {
		return it.Type.Layout != nil && it.Type.Layout.Size > 0
	}
	if len(c.Fields) > 0 || c.HasOwnVTable {
		return true
	}
	for _, base := range c.Bases {
		if base.Kind != ir.BaseVirtual && gen.requiresStorage(base.Type) {
			return true
		}
	}
	return false
}

func (ce *compEmitter) bases() {
	n := 0
	for _, base := range ce.c.Bases {
		if base.Kind == ir.BaseVirtual || !ce.gen.requiresStorage(base.Type) {
			continue
		}
		name := "_base"
		if n > 0 {
			name = fmt.Sprintf("_base_%d", n)
		}
		n++
		bl, _ := ce.gen.g.LayoutOf(base.Type)
		ce.tracker.SawBase(bl)
		ce.fields = append(ce.fields, compField{name: name, ty: ce.gen.ty(ce.res, base.Type), vis: ce.gen.opts.Visibility.Keyword()})
	}
}

func (ce *compEmitter) members() {
	for i, f := range ce.c.Fields {
		switch f.Kind {
		case ir.FieldData:
			ce.dataMember(f.Data, i == len(ce.c.Fields)-1)
		case ir.FieldBitfieldUnit:
			ce.bitfieldUnit(f.Unit)
		}
	}
}

func (ce *compEmitter) dataMember(dm *ir.DataMember, last bool) {
	gen, res := ce.gen, ce.res
	name := dm.Name
	if name == "" {
		ce.anon++
		name = fmt.Sprintf("__bindgen_anon_%d", ce.anon)
	}
	name = ident(name)

	fl, known := gen.g.LayoutOf(dm.Type)
	var ty string
	t := gen.typeItem(dm.Type).Type
	if t.Kind == ir.TypeArray && t.Len == 0 && last && ce.c.Kind == ir.CompStruct {
		res.flags.incompleteArray = true
		ty = fmt.Sprintf("%s<%s>", gen.names.helper("__IncompleteArrayField"), gen.ty(res, t.Inner))
		if el, ok := gen.g.LayoutOf(t.Inner); ok {
			fl, known = ir.Layout{Size: 0, Align: el.Align}, true
		}
	} else {
		ty = gen.ty(res, dm.Type)
	}
	if ce.unionField {
		ty = fmt.Sprintf("%s<%s>", gen.names.helper("__BindgenUnionField"), ty)
	} else {
		offset := dm.Offset
		if !known {
			offset = nil
		}
		ce.addPadding(ce.tracker.SawField(fl, offset))
	}

	field := compField{name: name, ty: ty, vis: ce.vis(dm.Private), doc: gen.comment(dm.Comment, "    ")}
	if dm.Offset != nil {
		off := *dm.Offset / 8
		field.offset = &off
	}
	ce.fields = append(ce.fields, field)
	ce.values = append(ce.values, valueField{label: name, access: "." + name, byCopy: ce.packed})

	if dm.Name != "" && !ce.unionField && !ce.packed {
		ce.accessors(dm, name, ty)
	}
}

// accessors emits the getter methods selected for a data member.
func (ce *compEmitter) accessors(dm *ir.DataMember, name, ty string) {
	kind := dm.Accessor
	if kind == ir.AccessorUnset {
		kind = ce.ann.Accessor
	}
	if kind == ir.AccessorUnset {
		kind = ce.gen.opts.DefaultAccessor
	}
	unsafety := ""
	switch kind {
	case ir.AccessorNone, ir.AccessorUnset:
		return
	case ir.AccessorUnsafe:
		unsafety = "unsafe "
	}
	b := &ce.impl
	b.WriteString("    #[inline]\n")
	fmt.Fprintf(b, "    pub %sfn get_%s(&self) -> &%s {\n", unsafety, name, ty)
	fmt.Fprintf(b, "        &self.%s\n", name)
	b.WriteString("    }\n")
	if kind == ir.AccessorImmutable {
		return
	}
	b.WriteString("    #[inline]\n")
	fmt.Fprintf(b, "    pub %sfn get_%s_mut(&mut self) -> &mut %s {\n", unsafety, name, ty)
	fmt.Fprintf(b, "        &mut self.%s\n", name)
	b.WriteString("    }\n")
}

func (ce *compEmitter) addPhantoms() {
	for i, p := range ce.gen.usedParams(ce.it) {
		ce.fields = append(ce.fields, compField{
			name: fmt.Sprintf("_phantom_%d", i),
			ty:   fmt.Sprintf("::std::marker::PhantomData<::std::cell::UnsafeCell<%s>>", ce.gen.names.canonical(p)),
			vis:  ce.gen.opts.Visibility.Keyword(),
		})
	}
}

// finish adds trailing padding, alignment markers and placeholders.
func (ce *compEmitter) finish() {
	gen := ce.gen
	if len(ce.fields) == 0 {
		ce.fields = append(ce.fields, compField{name: "_address", ty: "u8", vis: gen.opts.Visibility.Keyword()})
		ce.addPhantoms()
		return
	}
	ce.addPadding(ce.tracker.TailPadding())
	if marker, err := ce.tracker.AlignMarker(); err != nil {
		gen.warn(ce.it, diag.LayUnsupportedAlign, "%v", err)
	} else {
		ce.addPadding(marker)
	}
	ce.addPhantoms()
}
