package codegen

import (
	"fmt"
	"math"
	"strings"

	"bindgen/internal/derive"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

// enumStyle resolves the policy actually used for an enum. Anonymous enums
// and variant-less native enums degrade to constants.
func (gen *generator) enumStyle(it *ir.Item) ir.EnumStyle {
	ann := gen.opts.Annotate(it.Name, it.Annotations)
	style := gen.opts.EnumStyleFor(it.Name, ann.EnumStyle)
	if it.Name == "" && style != ir.EnumStyleConsts {
		return ir.EnumStyleConsts
	}
	if style.IsRust() && len(visibleVariants(it.Type.Enum)) == 0 {
		return ir.EnumStyleConsts
	}
	return style
}

// enumPath is how other declarations refer to the enum type.
func (gen *generator) enumPath(it *ir.Item) string {
	if gen.enumStyle(it) == ir.EnumStyleModuleConsts {
		return gen.names.path(it.ID) + "::Type"
	}
	return gen.names.path(it.ID)
}

// visibleVariants returns the variants in emission order: declaration order
// with constified variants moved to the end, hidden ones dropped.
func visibleVariants(e *ir.Enum) []ir.EnumVariant {
	out := make([]ir.EnumVariant, 0, len(e.Variants))
	var deferred []ir.EnumVariant
	for _, v := range e.Variants {
		switch {
		case v.Hidden:
		case v.Constify:
			deferred = append(deferred, v)
		default:
			out = append(out, v)
		}
	}
	return append(out, deferred...)
}

// defaultEnumRepr picks the underlying type of an enum without a fixed one:
// int, widened when a value does not fit.
func defaultEnumRepr(e *ir.Enum) (ctype, prim string) {
	var minV int64
	var maxV uint64
	negative, huge := false, false
	for _, v := range e.Variants {
		k := v.Value.Key()
		switch k.Kind {
		case ir.EnumSigned:
			negative = true
			if k.Signed < minV {
				minV = k.Signed
			}
		case ir.EnumUnsigned:
			if k.Unsigned > maxV {
				maxV = k.Unsigned
			}
			if k.Unsigned > math.MaxInt64 {
				huge = true
			}
		}
	}
	switch {
	case minV >= math.MinInt32 && maxV <= math.MaxInt32:
		return "c_int", "i32"
	case !negative && maxV <= math.MaxUint32:
		return "c_uint", "u32"
	case !huge:
		return "c_longlong", "i64"
	}
	return "c_ulonglong", "u64"
}

// enumPrim returns the fixed-width integer representing the enum.
func (gen *generator) enumPrim(it *ir.Item) string {
	e := it.Type.Enum
	if e.Repr.Valid() {
		if p, ok := gen.intPrimitive(e.Repr); ok {
			return p
		}
	}
	_, prim := defaultEnumRepr(e)
	return prim
}

// enumReprType renders the underlying type for constants and newtypes.
// canonical looks through aliases so the result is valid in any module.
func (gen *generator) enumReprType(res *Result, it *ir.Item, canonical bool) string {
	e := it.Type.Enum
	if e.Repr.Valid() {
		repr := e.Repr
		if canonical {
			repr = gen.g.Canonical(repr)
		}
		return gen.ty(res, repr)
	}
	ctype, _ := defaultEnumRepr(e)
	return gen.ctype(ctype)
}

func (gen *generator) enumReprIsBool(it *ir.Item) bool {
	e := it.Type.Enum
	if !e.Repr.Valid() {
		return false
	}
	t := gen.g.Type(gen.g.Canonical(e.Repr))
	return t != nil && t.Kind == ir.TypeInt && t.Int == ir.IntBool
}

func enumLiteral(v ir.EnumValue, asBool bool) string {
	if asBool {
		if v.Key().Kind == ir.EnumUnsigned && v.Key().Unsigned != 0 {
			return "true"
		}
		return "false"
	}
	return v.String()
}

// enumEntry is one variant after deduplication.
type enumEntry struct {
	v     ir.EnumVariant
	name  string
	alias string // canonical variant name when the value was already seen
}

// dedupVariants builds the value-to-first-variant map in emission order.
func dedupVariants(variants []ir.EnumVariant, nameOf func(ir.EnumVariant) string) []enumEntry {
	first := make(map[ir.EnumValue]string, len(variants))
	out := make([]enumEntry, 0, len(variants))
	for _, v := range variants {
		e := enumEntry{v: v, name: nameOf(v)}
		key := v.Value.Key()
		if canonical, ok := first[key]; ok {
			e.alias = canonical
		} else {
			first[key] = e.name
		}
		out = append(out, e)
	}
	return out
}

func (gen *generator) emitEnum(res *Result, it *ir.Item) {
	if res.Seen(it.ID) {
		return
	}
	res.SetSeen(it.ID)
	ann := gen.opts.Annotate(it.Name, it.Annotations)
	if ann.Hide {
		gen.info(it, diag.CgnHidden, "enum %s is hidden", it.Name)
		return
	}
	if !gen.opts.Generate.Types {
		return
	}
	gen.point(it, "enum")

	e := it.Type.Enum
	if !e.Repr.Valid() && len(e.Variants) > 0 {
		_, prim := defaultEnumRepr(e)
		gen.info(it, diag.LayEnumReprDefault, "enum %s has no fixed underlying type, using %s", displayName(it), prim)
	}

	style := gen.enumStyle(it)
	variants := visibleVariants(e)
	name := gen.names.canonical(it.ID)
	var b strings.Builder
	b.WriteString(gen.comment(it.Comment, ""))

	switch {
	case style.IsRust():
		gen.emitRustEnum(res, &b, it, ann, style, name, variants)
	case style.IsNewType():
		gen.emitNewTypeEnum(res, &b, it, ann, style, name, variants)
	case style == ir.EnumStyleModuleConsts:
		gen.emitModuleConstsEnum(res, &b, it, name, variants)
	default:
		gen.emitConstsEnum(res, &b, it, name, variants)
	}
	res.Push(b.String())
}

func (gen *generator) emitRustEnum(res *Result, b *strings.Builder, it *ir.Item, ann ir.Annotations, style ir.EnumStyle, name string, variants []ir.EnumVariant) {
	entries := dedupVariants(variants, func(v ir.EnumVariant) string { return ident(v.Name) })
	fmt.Fprintf(b, "#[repr(%s)]\n", gen.enumPrim(it))
	if style == ir.EnumStyleRustNonExhaustive {
		b.WriteString("#[non_exhaustive]\n")
	}
	fmt.Fprintf(b, "#[derive(%s)]\n", strings.Join(derive.ForEnum(gen.opts.Derive, ann), ", "))
	if ann.MustUse {
		b.WriteString("#[must_use]\n")
	}
	fmt.Fprintf(b, "pub enum %s {\n", name)
	var aliases []enumEntry
	for _, e := range entries {
		if e.alias != "" {
			aliases = append(aliases, e)
			continue
		}
		b.WriteString(gen.comment(e.v.Comment, "    "))
		fmt.Fprintf(b, "    %s = %s,\n", e.name, enumLiteral(e.v.Value, false))
	}
	b.WriteString("}\n")
	if len(aliases) == 0 {
		return
	}
	fmt.Fprintf(b, "impl %s {\n", name)
	for _, e := range aliases {
		b.WriteString(gen.comment(e.v.Comment, "    "))
		fmt.Fprintf(b, "    pub const %s: %s = %s::%s;\n", e.name, name, name, e.alias)
	}
	b.WriteString("}\n")
}

func (gen *generator) emitNewTypeEnum(res *Result, b *strings.Builder, it *ir.Item, ann ir.Annotations, style ir.EnumStyle, name string, variants []ir.EnumVariant) {
	repr := gen.enumReprType(res, it, false)
	asBool := gen.enumReprIsBool(it)
	global := style == ir.EnumStyleNewTypeGlobal

	b.WriteString("#[repr(transparent)]\n")
	fmt.Fprintf(b, "#[derive(%s)]\n", strings.Join(derive.ForEnum(gen.opts.Derive, ann), ", "))
	if ann.MustUse {
		b.WriteString("#[must_use]\n")
	}
	fmt.Fprintf(b, "pub struct %s(pub %s);\n", name, repr)

	if global {
		entries := dedupVariants(variants, func(v ir.EnumVariant) string { return ident(name + "_" + v.Name) })
		for _, e := range entries {
			b.WriteString(gen.comment(e.v.Comment, ""))
			if e.alias != "" {
				fmt.Fprintf(b, "pub const %s: %s = %s;\n", e.name, name, e.alias)
				continue
			}
			fmt.Fprintf(b, "pub const %s: %s = %s(%s);\n", e.name, name, name, enumLiteral(e.v.Value, asBool))
		}
	} else if len(variants) > 0 {
		entries := dedupVariants(variants, func(v ir.EnumVariant) string { return ident(v.Name) })
		fmt.Fprintf(b, "impl %s {\n", name)
		for _, e := range entries {
			b.WriteString(gen.comment(e.v.Comment, "    "))
			if e.alias != "" {
				fmt.Fprintf(b, "    pub const %s: %s = %s::%s;\n", e.name, name, name, e.alias)
				continue
			}
			fmt.Fprintf(b, "    pub const %s: %s = %s(%s);\n", e.name, name, name, enumLiteral(e.v.Value, asBool))
		}
		b.WriteString("}\n")
	}

	if style == ir.EnumStyleBitfield {
		for _, op := range []struct{ trait, method, assignTrait, assignMethod, tok string }{
			{"BitOr", "bitor", "BitOrAssign", "bitor_assign", "|"},
			{"BitAnd", "bitand", "BitAndAssign", "bitand_assign", "&"},
		} {
			fmt.Fprintf(b, "impl ::std::ops::%s<%s> for %s {\n", op.trait, name, name)
			b.WriteString("    type Output = Self;\n")
			b.WriteString("    #[inline]\n")
			fmt.Fprintf(b, "    fn %s(self, other: Self) -> Self {\n", op.method)
			fmt.Fprintf(b, "        %s(self.0 %s other.0)\n", name, op.tok)
			b.WriteString("    }\n}\n")
			fmt.Fprintf(b, "impl ::std::ops::%s for %s {\n", op.assignTrait, name)
			b.WriteString("    #[inline]\n")
			fmt.Fprintf(b, "    fn %s(&mut self, rhs: %s) {\n", op.assignMethod, name)
			fmt.Fprintf(b, "        self.0 %s= rhs.0;\n", op.tok)
			b.WriteString("    }\n}\n")
		}
	}
}

func (gen *generator) emitConstsEnum(res *Result, b *strings.Builder, it *ir.Item, name string, variants []ir.EnumVariant) {
	asBool := gen.enumReprIsBool(it)
	prefix := ""
	if !it.IsAnonymous() {
		prefix = name + "_"
	}
	entries := dedupVariants(variants, func(v ir.EnumVariant) string { return ident(prefix + v.Name) })
	for _, e := range entries {
		b.WriteString(gen.comment(e.v.Comment, ""))
		if e.alias != "" {
			fmt.Fprintf(b, "pub const %s: %s = %s;\n", e.name, name, e.alias)
			continue
		}
		fmt.Fprintf(b, "pub const %s: %s = %s;\n", e.name, name, enumLiteral(e.v.Value, asBool))
	}
	fmt.Fprintf(b, "pub type %s = %s;\n", name, gen.enumReprType(res, it, false))
}

func (gen *generator) emitModuleConstsEnum(res *Result, b *strings.Builder, it *ir.Item, name string, variants []ir.EnumVariant) {
	asBool := gen.enumReprIsBool(it)
	entries := dedupVariants(variants, func(v ir.EnumVariant) string { return ident(v.Name) })
	fmt.Fprintf(b, "pub mod %s {\n", name)
	fmt.Fprintf(b, "    pub type Type = %s;\n", gen.enumReprType(res, it, true))
	for _, e := range entries {
		b.WriteString(gen.comment(e.v.Comment, "    "))
		if e.alias != "" {
			fmt.Fprintf(b, "    pub const %s: Type = %s;\n", e.name, e.alias)
			continue
		}
		fmt.Fprintf(b, "    pub const %s: Type = %s;\n", e.name, enumLiteral(e.v.Value, asBool))
	}
	b.WriteString("}\n")
}
