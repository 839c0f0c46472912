package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

// instantiationType renders a use of a generic declaration, falling back to
// an opaque blob of the instantiation's layout when it cannot be resolved.
func (gen *generator) instantiationType(res *Result, it *ir.Item) string {
	if s, ok := gen.resolveInstantiation(res, it); ok {
		return s
	}
	if !gen.warned[it.ID] {
		gen.warned[it.ID] = true
		gen.warn(it, diag.LayOpaqueTemplateArg, "instantiation of %s cannot be expressed, emitting an opaque blob",
			displayName(gen.item(it.Type.Instantiation.Definition)))
	}
	return gen.blob(it).String()
}

// resolveInstantiation maps the instantiation's arguments onto the
// parameters its definition uses. Arguments cover either the definition's
// own parameters or, when enclosing generic scopes are involved, the
// enclosing parameters followed by its own.
func (gen *generator) resolveInstantiation(res *Result, it *ir.Item) (string, bool) {
	def, bound, ok := gen.bindInstantiation(it)
	if !ok {
		return "", false
	}
	used := def.Facts.UsedTemplateParams
	args := make([]string, len(used))
	for i, p := range used {
		args[i] = gen.ty(res, bound[p])
	}
	return gen.names.path(def.ID) + "<" + strings.Join(args, ", ") + ">", true
}

func (gen *generator) bindInstantiation(it *ir.Item) (*ir.Item, map[ir.ItemID]ir.ItemID, bool) {
	inst := it.Type.Instantiation
	def := gen.g.Item(gen.g.Canonical(inst.Definition))
	if def == nil || def.Kind != ir.ItemType {
		return nil, nil, false
	}
	switch def.Type.Kind {
	case ir.TypeComp:
		if gen.isOpaque(def) {
			return nil, nil, false
		}
	case ir.TypeAlias:
	default:
		return nil, nil, false
	}
	used := def.Facts.UsedTemplateParams
	if len(used) == 0 {
		return nil, nil, false
	}
	params := def.Type.TemplateParams
	if all := gen.allTemplateParams(def); len(all) == len(inst.Args) {
		params = all
	}
	bound := make(map[ir.ItemID]ir.ItemID, len(params))
	for i, p := range params {
		if i < len(inst.Args) {
			bound[p] = inst.Args[i]
		}
	}
	for _, p := range used {
		if _, ok := bound[p]; !ok {
			return nil, nil, false
		}
	}
	return def, bound, true
}

// allTemplateParams lists the parameters of every enclosing generic
// aggregate, outermost first, followed by def's own.
func (gen *generator) allTemplateParams(def *ir.Item) []ir.ItemID {
	var scopes [][]ir.ItemID
	for cur := def; cur != nil; cur = gen.g.Item(cur.Parent) {
		if cur.Kind == ir.ItemType && len(cur.Type.TemplateParams) > 0 {
			scopes = append([][]ir.ItemID{cur.Type.TemplateParams}, scopes...)
		}
		if cur.ID == gen.g.Root {
			break
		}
	}
	var out []ir.ItemID
	for _, s := range scopes {
		out = append(out, s...)
	}
	return out
}

// emitInstantiationTest asserts the layout of a concrete instantiation.
func (gen *generator) emitInstantiationTest(res *Result, it *ir.Item) {
	if !gen.opts.LayoutTests || !gen.opts.Generate.Types || res.Seen(it.ID) {
		return
	}
	res.SetSeen(it.ID)
	l := it.Type.Layout
	if l == nil {
		return
	}
	def, bound, ok := gen.bindInstantiation(it)
	if !ok {
		return
	}
	for _, a := range it.Type.Instantiation.Args {
		if gen.dependsOnParam(a, 0) {
			return
		}
	}
	ty, _ := gen.resolveInstantiation(res, it)

	tokens := []string{gen.names.canonical(def.ID), "open0"}
	for _, p := range def.Facts.UsedTemplateParams {
		tokens = append(tokens, gen.testToken(gen.ty(res, bound[p])))
	}
	tokens = append(tokens, "close0", "instantiation")
	name := res.Unique("__bindgen_test_layout_" + strings.Join(tokens, "_"))

	var b strings.Builder
	b.WriteString("#[test]\n")
	fmt.Fprintf(&b, "fn %s() {\n", name)
	fmt.Fprintf(&b, "    assert_eq!(\n        ::std::mem::size_of::<%s>(),\n        %dusize,\n        concat!(\"Size of template specialization: \", stringify!(%s))\n    );\n",
		ty, l.Size, ty)
	fmt.Fprintf(&b, "    assert_eq!(\n        ::std::mem::align_of::<%s>(),\n        %dusize,\n        concat!(\"Alignment of template specialization: \", stringify!(%s))\n    );\n",
		ty, l.Align, ty)
	b.WriteString("}\n")
	res.Push(b.String())
}

// testToken shortens a rendered type for use inside a test name.
func (gen *generator) testToken(ty string) string {
	ty = strings.ReplaceAll(ty, gen.opts.CtypesPrefix+"::", "")
	ty = strings.ReplaceAll(ty, "root::", "")
	return strings.Trim(sanitize(ty), "_")
}
