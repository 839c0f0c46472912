package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

// emitAlias declares a named typedef as a Rust type alias.
func (gen *generator) emitAlias(res *Result, it *ir.Item) {
	if it.Name == "" || res.Seen(it.ID) {
		return
	}
	res.SetSeen(it.ID)
	ann := gen.opts.Annotate(it.Name, it.Annotations)
	if ann.Hide {
		gen.info(it, diag.CgnHidden, "alias %s is hidden", it.Name)
		return
	}
	if !gen.opts.Generate.Types {
		return
	}
	name := gen.names.canonical(it.ID)
	t := it.Type

	var target string
	switch {
	case ann.Opaque:
		target = gen.blob(it).String()
	default:
		if gen.isSelfAlias(it) {
			return
		}
		target = gen.ty(res, t.Inner)
	}
	gen.point(it, "alias")

	var b strings.Builder
	b.WriteString(gen.comment(it.Comment, ""))
	fmt.Fprintf(&b, "%stype %s%s = %s;\n", gen.opts.Visibility.Keyword(), name, gen.genericList(it), target)
	res.Push(b.String())
}

// isSelfAlias reports typedefs like `typedef struct foo foo;` that would
// declare a type under its own name.
func (gen *generator) isSelfAlias(it *ir.Item) bool {
	inner := gen.g.Item(it.Type.Inner)
	for inner != nil && inner.Kind == ir.ItemType && inner.Type.Kind == ir.TypeAlias && inner.Name == "" {
		inner = gen.g.Item(inner.Type.Inner)
	}
	if inner == nil || inner.Kind != ir.ItemType || inner.Name == "" {
		return false
	}
	switch inner.Type.Kind {
	case ir.TypeComp, ir.TypeEnum, ir.TypeAlias, ir.TypeObjCInterface:
		return gen.names.path(inner.ID) == gen.names.path(it.ID)
	}
	return false
}
