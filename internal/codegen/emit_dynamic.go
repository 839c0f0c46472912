package codegen

import (
	"fmt"
	"strings"
)

// dynamicLibrary renders the struct that resolves every collected function
// from a shared library at run time, or "" outside dynamic mode.
func (gen *generator) dynamicLibrary(res *Result) string {
	lib := gen.opts.DynamicLibraryName
	if lib == "" {
		return ""
	}
	lib = ident(lib)
	requireAll := gen.opts.DynamicRequireAll

	var b strings.Builder
	fmt.Fprintf(&b, "pub struct %s {\n", lib)
	b.WriteString("    __library: ::libloading::Library,\n")
	for _, fn := range res.dynamic {
		ptr := fmt.Sprintf("unsafe extern \"%s\" fn(%s)%s", fn.abi, fn.args, fn.ret)
		if requireAll {
			fmt.Fprintf(&b, "    pub %s: %s,\n", fn.name, ptr)
		} else {
			fmt.Fprintf(&b, "    pub %s: Result<%s, ::libloading::Error>,\n", fn.name, ptr)
		}
	}
	b.WriteString("}\n")

	fmt.Fprintf(&b, "impl %s {\n", lib)
	b.WriteString("    pub unsafe fn new<P>(path: P) -> Result<Self, ::libloading::Error>\n")
	b.WriteString("    where\n        P: AsRef<::std::ffi::OsStr>,\n    {\n")
	b.WriteString("        let library = ::libloading::Library::new(path)?;\n")
	b.WriteString("        Self::from_library(library)\n")
	b.WriteString("    }\n")
	b.WriteString("    pub unsafe fn from_library<L>(library: L) -> Result<Self, ::libloading::Error>\n")
	b.WriteString("    where\n        L: Into<::libloading::Library>,\n    {\n")
	b.WriteString("        let __library = library.into();\n")
	fields := []string{"__library"}
	for _, fn := range res.dynamic {
		try := ""
		if requireAll {
			try = "?"
		}
		fmt.Fprintf(&b, "        let %s = __library.get(%s).map(|sym| *sym)%s;\n", fn.name, byteString([]byte(fn.symbol)), try)
		fields = append(fields, fn.name)
	}
	fmt.Fprintf(&b, "        Ok(%s {\n", lib)
	for _, f := range fields {
		fmt.Fprintf(&b, "            %s,\n", f)
	}
	b.WriteString("        })\n")
	b.WriteString("    }\n")

	for _, fn := range res.dynamic {
		if fn.variadic {
			// Variadic calls cannot be forwarded; the field stays callable.
			continue
		}
		b.WriteString(fn.doc)
		if fn.mustUse {
			b.WriteString("    #[must_use]\n")
		}
		args := "&self"
		if fn.args != "" {
			args += ", " + fn.args
		}
		fmt.Fprintf(&b, "    pub unsafe fn %s(%s)%s {\n", fn.name, args, fn.ret)
		callee := fmt.Sprintf("(self.%s)", fn.name)
		if !requireAll {
			callee = fmt.Sprintf("(self\n            .%s\n            .as_ref()\n            .expect(\"Expected function, got error.\"))", fn.name)
		}
		fmt.Fprintf(&b, "        %s(%s)\n", callee, strings.Join(fn.params, ", "))
		b.WriteString("    }\n")
	}
	b.WriteString("}\n")
	return b.String()
}
