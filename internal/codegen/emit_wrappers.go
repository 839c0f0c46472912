package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/ir"
)

var cIntNames = map[ir.IntKind]string{
	ir.IntBool:      "_Bool",
	ir.IntChar:      "char",
	ir.IntSChar:     "signed char",
	ir.IntUChar:     "unsigned char",
	ir.IntShort:     "short",
	ir.IntUShort:    "unsigned short",
	ir.IntInt:       "int",
	ir.IntUInt:      "unsigned int",
	ir.IntLong:      "long",
	ir.IntULong:     "unsigned long",
	ir.IntLongLong:  "long long",
	ir.IntULongLong: "unsigned long long",
	ir.IntI8:        "int8_t",
	ir.IntU8:        "uint8_t",
	ir.IntI16:       "int16_t",
	ir.IntU16:       "uint16_t",
	ir.IntI32:       "int32_t",
	ir.IntU32:       "uint32_t",
	ir.IntI64:       "int64_t",
	ir.IntU64:       "uint64_t",
	ir.IntWChar:     "wchar_t",
	ir.IntChar16:    "char16_t",
	ir.IntChar32:    "char32_t",
}

// cType spells a type in C declaration-specifier position. It reports why
// when the type has no C spelling.
func (gen *generator) cType(id ir.ItemID) (string, string) {
	it := gen.typeItem(id)
	t := it.Type
	var s string
	switch t.Kind {
	case ir.TypeVoid:
		s = "void"
	case ir.TypeInt:
		name, ok := cIntNames[t.Int]
		if !ok {
			return "", fmt.Sprintf("integer kind %d has no C spelling", t.Int)
		}
		s = name
	case ir.TypeFloat:
		switch t.Float {
		case ir.FloatFloat:
			s = "float"
		case ir.FloatDouble:
			s = "double"
		case ir.FloatLongDouble:
			s = "long double"
		default:
			return "", "extended floating point type"
		}
	case ir.TypePointer, ir.TypeArray:
		if inner := gen.g.Type(gen.g.Canonical(t.Inner)); inner != nil && inner.Kind == ir.TypeFunction {
			return "", "function pointer parameter"
		}
		elem, why := gen.cType(t.Inner)
		if why != "" {
			return "", why
		}
		s = elem + " *"
	case ir.TypeComp, ir.TypeEnum:
		if it.Name == "" {
			return "", "anonymous " + t.Kind.String()
		}
		tag := "struct"
		switch {
		case t.Kind == ir.TypeEnum:
			tag = "enum"
		case t.Comp.Kind == ir.CompUnion:
			tag = "union"
		}
		s = tag + " " + it.Name
	case ir.TypeAlias:
		if it.Name == "" {
			return gen.cType(t.Inner)
		}
		s = it.Name
	default:
		return "", t.Kind.String() + " type"
	}
	if t.IsConst && t.Kind != ir.TypePointer && t.Kind != ir.TypeArray {
		s = "const " + s
	} else if t.IsConst {
		s += "const"
	}
	return s, ""
}

// canWrap reports whether every type of sig can be spelled in C.
func (gen *generator) canWrap(sig *ir.Signature) (string, bool) {
	if !gen.isVoid(sig.Return) {
		if _, why := gen.cType(sig.Return); why != "" {
			return why, false
		}
	}
	for _, a := range sig.Args {
		if _, why := gen.cType(a.Type); why != "" {
			return why, false
		}
	}
	return "", true
}

func cDecl(ty, name string) string {
	if strings.HasSuffix(ty, "*") {
		return ty + name
	}
	return ty + " " + name
}

// wrapperSource renders the C file giving static functions an externally
// visible symbol, or "" when no function needed one.
func (gen *generator) wrapperSource(res *Result) string {
	if len(res.wrappers) == 0 {
		return ""
	}
	var b strings.Builder
	for _, h := range gen.opts.WrapHeaders {
		fmt.Fprintf(&b, "#include \"%s\"\n", h)
	}
	if len(gen.opts.WrapHeaders) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("// Static wrappers\n\n")
	for _, w := range res.wrappers {
		it := w.item
		sig := gen.signature(it.Function.Signature)
		ret := "void"
		if !gen.isVoid(sig.Return) {
			ret, _ = gen.cType(sig.Return)
		}
		var decls, names []string
		for i, a := range sig.Args {
			ty, _ := gen.cType(a.Type)
			name := a.Name
			if name == "" {
				name = fmt.Sprintf("arg%d", i+1)
			}
			decls = append(decls, cDecl(ty, name))
			names = append(names, name)
		}
		params := strings.Join(decls, ", ")
		if params == "" {
			params = "void"
		}
		head := cDecl(ret, it.Name+gen.opts.WrapStaticFnsSuffix)
		call := fmt.Sprintf("%s(%s)", it.Name, strings.Join(names, ", "))
		if ret == "void" {
			fmt.Fprintf(&b, "%s(%s) { %s; }\n", head, params, call)
		} else {
			fmt.Fprintf(&b, "%s(%s) { return %s; }\n", head, params, call)
		}
	}
	return b.String()
}
