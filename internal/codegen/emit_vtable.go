package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/ir"
)

// vtable renders the dispatch table struct referenced by the vtable_ field.
// Full tables are only produced on request, for classes without bases or
// destructors; every other class gets an opaque table.
func (ce *compEmitter) vtable() string {
	gen, c := ce.gen, ce.c
	name := ce.name + "__bindgen_vtable"
	opaque := fmt.Sprintf("#[repr(C)]\npub struct %s(%s);\n", name, gen.ctype("c_void"))
	if !gen.opts.VTableGeneration || len(c.Bases) > 0 || c.HasDestructor || ce.generic {
		return opaque
	}

	var entries []string
	seen := map[string]int{}
	for _, m := range c.Methods {
		if m.Kind != ir.MethodVirtual {
			continue
		}
		fit := gen.item(m.Function)
		sig := gen.signature(fit.Function.Signature)
		if len(sig.Args) == 0 {
			contractf(fit.ID, "virtual method %s lacks a this pointer", fit.Name)
		}
		slot := ce.name + "_" + sanitize(fit.Name)
		if n := seen[slot]; n > 0 {
			seen[slot]++
			slot = fmt.Sprintf("%s%d", slot, n)
		} else {
			seen[slot] = 1
		}
		ps := []param{{name: "this", ty: "*mut " + ce.name}}
		ps = append(ps, gen.params(ce.res, sig, 1)...)
		entries = append(entries, fmt.Sprintf("    pub %s: unsafe extern \"%s\" fn(%s)%s,\n",
			ident(slot), abiString(sig.ABI), joinParams(ps, sig.IsVariadic), gen.retType(ce.res, sig)))
	}
	if len(entries) == 0 {
		return opaque
	}
	var b strings.Builder
	b.WriteString("#[repr(C)]\n")
	fmt.Fprintf(&b, "pub struct %s {\n", name)
	for _, e := range entries {
		b.WriteString(e)
	}
	b.WriteString("}\n")
	return b.String()
}
