package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/derive"
)

// manualImpls renders the trait implementations that cannot be derived.
func (ce *compEmitter) manualImpls(m derive.Manual) string {
	if !m.Any() {
		return ""
	}
	self := ce.name + ce.params
	var b strings.Builder
	if m.Clone {
		fmt.Fprintf(&b, "impl%s Clone for %s {\n", ce.boundedParams("Copy"), self)
		b.WriteString("    fn clone(&self) -> Self {\n        *self\n    }\n}\n")
	}
	if m.Default {
		fmt.Fprintf(&b, "impl%s Default for %s {\n", ce.params, self)
		b.WriteString("    fn default() -> Self {\n")
		b.WriteString("        let mut s = ::std::mem::MaybeUninit::<Self>::uninit();\n")
		b.WriteString("        unsafe {\n")
		b.WriteString("            ::std::ptr::write_bytes(s.as_mut_ptr(), 0, 1);\n")
		b.WriteString("            s.assume_init()\n")
		b.WriteString("        }\n")
		b.WriteString("    }\n}\n")
	}
	if m.Debug {
		fmt.Fprintf(&b, "impl%s ::std::fmt::Debug for %s {\n", ce.params, self)
		b.WriteString("    fn fmt(&self, f: &mut ::std::fmt::Formatter<'_>) -> ::std::fmt::Result {\n")
		labels := make([]string, len(ce.values))
		args := make([]string, len(ce.values))
		for i, v := range ce.values {
			labels[i] = v.label + ": {:?}"
			args[i] = ", " + v.on("self")
		}
		fmt.Fprintf(&b, "        write!(f, \"%s {{ %s }}\"%s)\n", ce.name, strings.Join(labels, ", "), strings.Join(args, ""))
		b.WriteString("    }\n}\n")
	}
	if m.Hash {
		fmt.Fprintf(&b, "impl%s ::std::hash::Hash for %s {\n", ce.params, self)
		b.WriteString("    fn hash<H: ::std::hash::Hasher>(&self, state: &mut H) {\n")
		for _, v := range ce.values {
			fmt.Fprintf(&b, "        %s.hash(state);\n", v.on("self"))
		}
		b.WriteString("    }\n}\n")
	}
	if m.PartialEq {
		fmt.Fprintf(&b, "impl%s PartialEq for %s {\n", ce.params, self)
		b.WriteString("    fn eq(&self, other: &Self) -> bool {\n")
		if len(ce.values) == 0 {
			b.WriteString("        true\n")
		}
		for i, v := range ce.values {
			sep := " &&"
			if i == len(ce.values)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "        %s == %s%s\n", v.on("self"), v.on("other"), sep)
		}
		b.WriteString("    }\n}\n")
	}
	if m.Eq {
		fmt.Fprintf(&b, "impl%s Eq for %s {}\n", ce.params, self)
	}
	return b.String()
}

// boundedParams renders the generic list with every parameter bounded by
// trait, or "" for non-generic aggregates.
func (ce *compEmitter) boundedParams(trait string) string {
	used := ce.gen.usedParams(ce.it)
	if len(used) == 0 {
		return ""
	}
	parts := make([]string, len(used))
	for i, p := range used {
		parts[i] = ce.gen.names.canonical(p) + ": " + trait
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
