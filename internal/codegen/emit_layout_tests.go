package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/layout"
)

// layoutTest renders the #[test] asserting size, alignment and field
// offsets of an aggregate, or "" when the layout cannot be checked.
func (ce *compEmitter) layoutTest() string {
	gen := ce.gen
	l := ce.it.Type.Layout
	if !gen.opts.LayoutTests || ce.generic || l == nil || l.Size == 0 || ce.c.IsForwardDeclaration {
		return ""
	}
	name := ce.name
	var checks []compField
	if !ce.opaque {
		for _, f := range ce.fields {
			if f.offset != nil {
				checks = append(checks, f)
			}
		}
	}

	var b strings.Builder
	b.WriteString("#[test]\n")
	fmt.Fprintf(&b, "fn bindgen_test_layout_%s() {\n", name)
	if len(checks) > 0 {
		fmt.Fprintf(&b, "    const UNINIT: ::std::mem::MaybeUninit<%s> = ::std::mem::MaybeUninit::uninit();\n", name)
		b.WriteString("    let ptr = UNINIT.as_ptr();\n")
	}
	fmt.Fprintf(&b, "    assert_eq!(\n        ::std::mem::size_of::<%s>(),\n        %dusize,\n        concat!(\"Size of: \", stringify!(%s))\n    );\n",
		name, l.Size, name)
	if l.Align <= layout.MaxGuaranteedAlign || gen.opts.Target.SupportsReprAlign {
		fmt.Fprintf(&b, "    assert_eq!(\n        ::std::mem::align_of::<%s>(),\n        %dusize,\n        concat!(\"Alignment of \", stringify!(%s))\n    );\n",
			name, l.Align, name)
	}
	for _, f := range checks {
		fmt.Fprintf(&b, "    assert_eq!(\n        unsafe { ::std::ptr::addr_of!((*ptr).%s) as usize - ptr as usize },\n        %dusize,\n", f.name, *f.offset)
		fmt.Fprintf(&b, "        concat!(\"Offset of field: \", stringify!(%s), \"::\", stringify!(%s))\n    );\n", name, f.name)
	}
	b.WriteString("}\n")
	return b.String()
}
