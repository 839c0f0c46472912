package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

// emitObjCInterface declares an Objective-C class as a transparent id
// wrapper plus a trait carrying its selectors. Protocols only get the trait.
func (gen *generator) emitObjCInterface(res *Result, it *ir.Item) {
	if res.Seen(it.ID) {
		return
	}
	res.SetSeen(it.ID)
	ann := gen.opts.Annotate(it.Name, it.Annotations)
	if ann.Hide {
		gen.info(it, diag.CgnHidden, "interface %s is hidden", it.Name)
		return
	}
	if !gen.opts.Generate.Types {
		return
	}
	res.flags.objc = true
	gen.point(it, "objc")
	o := it.Type.ObjC
	name := gen.names.canonical(it.ID)
	id := gen.names.helper("id")

	var b strings.Builder
	trait := "I" + name
	switch {
	case o.IsProtocol:
		trait = "P" + name
	case o.Category != "":
		trait = "I" + name + "_" + sanitize(o.Category)
	}

	if !o.IsProtocol && o.Category == "" {
		b.WriteString(gen.comment(it.Comment, ""))
		b.WriteString("#[repr(transparent)]\n")
		b.WriteString("#[derive(Debug, Copy, Clone)]\n")
		fmt.Fprintf(&b, "pub struct %s(pub %s);\n", name, id)
		fmt.Fprintf(&b, "impl ::std::ops::Deref for %s {\n", name)
		b.WriteString("    type Target = objc::runtime::Object;\n")
		b.WriteString("    fn deref(&self) -> &Self::Target {\n")
		b.WriteString("        unsafe { &*self.0 }\n")
		b.WriteString("    }\n}\n")
		fmt.Fprintf(&b, "unsafe impl objc::Message for %s {}\n", name)
		fmt.Fprintf(&b, "impl %s {\n", name)
		b.WriteString("    pub fn alloc() -> Self {\n")
		fmt.Fprintf(&b, "        Self(unsafe { msg_send!(class!(%s), alloc) })\n", it.Name)
		b.WriteString("    }\n}\n")
		for _, p := range o.Conforms {
			pit := gen.item(p)
			fmt.Fprintf(&b, "impl P%s for %s {}\n", gen.names.canonical(pit.ID), name)
		}
	}
	if !o.IsProtocol {
		fmt.Fprintf(&b, "impl %s for %s {}\n", trait, name)
	}

	fmt.Fprintf(&b, "pub trait %s: Sized + ::std::ops::Deref {\n", trait)
	for _, m := range o.Methods {
		gen.objcMethod(res, &b, it, m)
	}
	b.WriteString("}\n")
	res.Push(b.String())
}

func (gen *generator) objcMethod(res *Result, b *strings.Builder, it *ir.Item, m ir.ObjCMethod) {
	sig := gen.signature(m.Signature)
	ps := gen.params(res, sig, 0)
	parts := strings.Split(strings.TrimSuffix(m.Selector, ":"), ":")
	if len(ps) > 0 && len(parts) != len(ps) {
		contractf(it.ID, "selector %s takes %d arguments, signature has %d", m.Selector, len(parts), len(ps))
	}
	name := ident(strings.TrimSuffix(strings.ReplaceAll(m.Selector, ":", "_"), "_"))

	var msg string
	if len(ps) == 0 {
		msg = m.Selector
	} else {
		pairs := make([]string, len(ps))
		for i, p := range ps {
			pairs[i] = parts[i] + ": " + p.name
		}
		msg = strings.Join(pairs, " ")
	}

	ret := gen.retType(res, sig)
	if m.IsClass {
		fmt.Fprintf(b, "    unsafe fn %s(%s)%s\n", name, joinParams(ps, false), ret)
		b.WriteString("    where\n        Self: Sized + 'static,\n    {\n")
		fmt.Fprintf(b, "        msg_send!(class!(%s), %s)\n", it.Name, msg)
		b.WriteString("    }\n")
		return
	}
	args := "&self"
	if len(ps) > 0 {
		args += ", " + joinParams(ps, false)
	}
	fmt.Fprintf(b, "    unsafe fn %s(%s)%s\n", name, args, ret)
	b.WriteString("    where\n        <Self as std::ops::Deref>::Target: objc::Message + Sized,\n    {\n")
	fmt.Fprintf(b, "        msg_send!(*self, %s)\n", msg)
	b.WriteString("    }\n")
}
