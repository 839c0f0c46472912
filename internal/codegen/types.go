package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/layout"
)

var intCTypes = map[ir.IntKind]string{
	ir.IntChar:      "c_char",
	ir.IntSChar:     "c_schar",
	ir.IntUChar:     "c_uchar",
	ir.IntShort:     "c_short",
	ir.IntUShort:    "c_ushort",
	ir.IntInt:       "c_int",
	ir.IntUInt:      "c_uint",
	ir.IntLong:      "c_long",
	ir.IntULong:     "c_ulong",
	ir.IntLongLong:  "c_longlong",
	ir.IntULongLong: "c_ulonglong",
}

var intFixed = map[ir.IntKind]string{
	ir.IntBool:   "bool",
	ir.IntI8:     "i8",
	ir.IntU8:     "u8",
	ir.IntI16:    "i16",
	ir.IntU16:    "u16",
	ir.IntI32:    "i32",
	ir.IntU32:    "u32",
	ir.IntI64:    "i64",
	ir.IntU64:    "u64",
	ir.IntI128:   "i128",
	ir.IntU128:   "u128",
	ir.IntWChar:  "i32",
	ir.IntChar16: "u16",
	ir.IntChar32: "u32",
}

func (gen *generator) ctype(name string) string {
	return gen.opts.CtypesPrefix + "::" + name
}

func (gen *generator) item(id ir.ItemID) *ir.Item {
	it := gen.g.Item(id)
	if it == nil {
		contractf(id, "reference to missing item")
	}
	return it
}

func (gen *generator) typeItem(id ir.ItemID) *ir.Item {
	it := gen.item(id)
	if it.Kind != ir.ItemType {
		contractf(id, "expected a type, found %s", it.Kind)
	}
	return it
}

// signature returns the payload of a function type item.
func (gen *generator) signature(id ir.ItemID) *ir.Signature {
	t := gen.typeItem(id).Type
	if t.Kind != ir.TypeFunction || t.Signature == nil {
		contractf(id, "signature has kind %s", t.Kind)
	}
	return t.Signature
}

func (gen *generator) isVoid(id ir.ItemID) bool {
	if !id.Valid() {
		return true
	}
	t := gen.g.Type(gen.g.Canonical(id))
	return t != nil && t.Kind == ir.TypeVoid
}

func (gen *generator) isConst(id ir.ItemID) bool {
	t := gen.g.Type(id)
	return t != nil && t.IsConst
}

// ty renders a type reference in field position.
func (gen *generator) ty(res *Result, id ir.ItemID) string {
	it := gen.typeItem(id)
	t := it.Type
	switch t.Kind {
	case ir.TypeVoid:
		return gen.ctype("c_void")
	case ir.TypeNullPtr:
		return "*mut " + gen.ctype("c_void")
	case ir.TypeInt:
		if name, ok := intCTypes[t.Int]; ok {
			return gen.ctype(name)
		}
		if name, ok := intFixed[t.Int]; ok {
			return name
		}
		contractf(id, "unknown integer kind %d", t.Int)
	case ir.TypeFloat:
		switch t.Float {
		case ir.FloatFloat:
			return "f32"
		case ir.FloatDouble:
			return "f64"
		case ir.FloatHalf:
			return "u16"
		}
		return "u128"
	case ir.TypeComplex:
		res.flags.complex = true
		return fmt.Sprintf("%s<%s>", gen.names.helper("__BindgenComplex"), gen.ty(res, t.Inner))
	case ir.TypePointer, ir.TypeReference:
		return gen.pointer(res, t.Inner)
	case ir.TypeArray:
		return fmt.Sprintf("[%s; %dusize]", gen.ty(res, t.Inner), t.Len)
	case ir.TypeOpaqueBlob:
		return gen.blob(it).String()
	case ir.TypeFunction:
		return gen.fnPointer(res, id)
	case ir.TypeEnum:
		return gen.enumPath(it)
	case ir.TypeObjCInterface:
		return gen.names.path(id)
	case ir.TypeComp:
		if gen.isOpaque(it) {
			return gen.names.path(id)
		}
		return gen.names.path(id) + gen.genericList(it)
	case ir.TypeAlias:
		if it.Name == "" {
			return gen.ty(res, t.Inner)
		}
		return gen.names.path(id)
	case ir.TypeInstantiation:
		return gen.instantiationType(res, it)
	case ir.TypeParam:
		return gen.names.canonical(id)
	case ir.TypeObjCID:
		res.flags.objc = true
		return gen.names.helper("id")
	case ir.TypeObjCSel:
		res.flags.objc = true
		return "objc::runtime::Sel"
	case ir.TypeUnresolvedRef:
		contractf(id, "unresolved type reference %q reached the generator", it.Name)
	}
	contractf(id, "unknown type kind %d", t.Kind)
	return ""
}

func (gen *generator) pointer(res *Result, inner ir.ItemID) string {
	if ct := gen.g.Type(gen.g.Canonical(inner)); ct != nil && ct.Kind == ir.TypeFunction {
		return gen.fnPointer(res, gen.g.Canonical(inner))
	}
	mut := "*mut "
	if gen.isConst(inner) {
		mut = "*const "
	}
	return mut + gen.ty(res, inner)
}

// argType renders a parameter type: arrays decay to pointers.
func (gen *generator) argType(res *Result, id ir.ItemID) string {
	t := gen.typeItem(id).Type
	if t.Kind == ir.TypeArray {
		mut := "*mut "
		if t.IsConst || gen.isConst(t.Inner) {
			mut = "*const "
		}
		return mut + gen.ty(res, t.Inner)
	}
	return gen.ty(res, id)
}

// retType renders " -> T", or nothing for void.
func (gen *generator) retType(res *Result, sig *ir.Signature) string {
	if sig.IsDivergent {
		return " -> !"
	}
	if gen.isVoid(sig.Return) {
		return ""
	}
	return " -> " + gen.ty(res, sig.Return)
}

type param struct {
	name string
	ty   string
}

// params names and renders the arguments of sig. Unnamed arguments become
// arg1, arg2, ...; skip drops leading arguments (the this pointer).
func (gen *generator) params(res *Result, sig *ir.Signature, skip int) []param {
	var out []param
	unnamed := 0
	used := map[string]bool{}
	for i, a := range sig.Args {
		if i < skip {
			continue
		}
		name := a.Name
		if name == "" || used[ident(name)] {
			unnamed++
			name = fmt.Sprintf("arg%d", unnamed)
		}
		name = ident(name)
		used[name] = true
		out = append(out, param{name: name, ty: gen.argType(res, a.Type)})
	}
	return out
}

func joinParams(ps []param, variadic bool) string {
	parts := make([]string, 0, len(ps)+1)
	for _, p := range ps {
		parts = append(parts, p.name+": "+p.ty)
	}
	if variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

func paramNames(ps []param) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.name
	}
	return out
}

// fnPointer renders a nullable function pointer type.
func (gen *generator) fnPointer(res *Result, id ir.ItemID) string {
	sig := gen.signature(id)
	ps := gen.params(res, sig, 0)
	return fmt.Sprintf("::std::option::Option<unsafe extern \"%s\" fn(%s)%s>",
		abiString(sig.ABI), joinParams(ps, sig.IsVariadic), gen.retType(res, sig))
}

func abiString(a ir.ABI) string {
	if a == ir.ABIUnknown {
		return "C"
	}
	return a.String()
}

// blob renders the stand-in for a type whose structure is not reproduced.
func (gen *generator) blob(it *ir.Item) layout.Blob {
	if it.Type == nil || it.Type.Layout == nil {
		gen.warn(it, diag.LayUnknownLayout, "layout of %s is unknown, using a one byte placeholder", displayName(it))
		return layout.Bytes(1)
	}
	return layout.BlobFor(*it.Type.Layout)
}

func displayName(it *ir.Item) string {
	if it.Name == "" {
		return fmt.Sprintf("anonymous %s #%d", it.Kind, it.ID)
	}
	return it.Name
}

// usedParams returns the template parameters a declaration actually uses.
func (gen *generator) usedParams(it *ir.Item) []ir.ItemID {
	return it.Facts.UsedTemplateParams
}

// genericList renders "<T, U>" for a generic declaration, or "".
func (gen *generator) genericList(it *ir.Item) string {
	used := gen.usedParams(it)
	if len(used) == 0 {
		return ""
	}
	parts := make([]string, len(used))
	for i, p := range used {
		parts[i] = gen.names.canonical(p)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// intPrimitive returns the fixed-width Rust integer matching an integer,
// bool or enum type, for bit manipulation.
func (gen *generator) intPrimitive(id ir.ItemID) (string, bool) {
	cid := gen.g.Canonical(id)
	it := gen.g.Item(cid)
	if it == nil || it.Type == nil {
		return "", false
	}
	t := it.Type
	switch t.Kind {
	case ir.TypeInt:
		l, ok := gen.g.LayoutOf(cid)
		if !ok {
			return "", false
		}
		if t.Int == ir.IntBool {
			return "u8", true
		}
		return primitiveFor(l.Size, t.Int.IsSigned(t.Signed)), true
	case ir.TypeEnum:
		return gen.enumPrim(it), true
	}
	return "", false
}

func primitiveFor(size int, signed bool) string {
	p := "u"
	if signed {
		p = "i"
	}
	switch size {
	case 1:
		return p + "8"
	case 2:
		return p + "16"
	case 8:
		return p + "64"
	case 16:
		return p + "128"
	}
	return p + "32"
}
