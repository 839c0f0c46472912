package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/layout"
)

// bitfieldAccess is one bitfield that received accessor methods.
type bitfieldAccess struct {
	name string
	ty   string
	prim string
	rng  layout.BitRange
}

// bitfieldUnit emits the storage of a bitfield unit and queues its
// accessors and constructor on the aggregate's impl block.
func (ce *compEmitter) bitfieldUnit(u *ir.BitfieldUnit) {
	gen := ce.gen
	ce.units++
	nth := u.Nth
	if nth == 0 {
		nth = ce.units
	}
	st := layout.StorageFor(u.Layout, ce.packed)
	ty := st.Type
	if !st.Integer {
		ce.res.flags.bitfieldUnit = true
		ty = gen.names.helper(st.Type)
	}
	vis := gen.opts.Visibility.Keyword()
	if st.AlignMarker != "" {
		ce.fields = append(ce.fields, compField{name: fmt.Sprintf("_bitfield_align_%d", nth), ty: st.AlignMarker, vis: vis})
		ce.tracker.SawBitfieldUnit(ir.Layout{Size: 0, Align: u.Layout.Align})
	}
	storage := u.Layout
	if !st.Integer {
		storage.Align = 1
	}
	ce.tracker.SawBitfieldUnit(storage)
	field := fmt.Sprintf("_bitfield_%d", nth)
	ce.fields = append(ce.fields, compField{name: field, ty: ty, vis: vis})

	var accessible []bitfieldAccess
	for _, bf := range u.Bitfields {
		if bf.Name == "" {
			continue
		}
		rng := layout.BitRange{Offset: bf.Offset, Width: bf.Width}
		if err := rng.Check(bf.Name, u.Layout.Size); err != nil {
			gen.warn(ce.it, diag.LayBitfieldOverflow, "%v; no accessor generated", err)
			continue
		}
		prim, ok := gen.intPrimitive(bf.Type)
		if !ok {
			gen.warn(ce.it, diag.LayBitfieldOverflow, "bitfield %s has a non-integer type; no accessor generated", bf.Name)
			continue
		}
		acc := bitfieldAccess{name: ident(bf.Name), ty: gen.ty(ce.res, bf.Type), prim: prim, rng: rng}
		ce.bitfieldAccessors(field, st, acc, ce.vis(bf.Private))
		ce.values = append(ce.values, valueField{label: acc.name, access: "." + acc.name + "()"})
		accessible = append(accessible, acc)
	}
	if len(accessible) > 0 {
		ce.bitfieldConstructor(nth, ty, st, accessible)
	}
}

func (ce *compEmitter) bitfieldAccessors(field string, st layout.Storage, acc bitfieldAccess, vis string) {
	b := &ce.impl
	mask := fmt.Sprintf("%#x%s", acc.rng.Mask(), st.Type)

	b.WriteString("    #[inline]\n")
	fmt.Fprintf(b, "    %sfn %s(&self) -> %s {\n", vis, acc.name, acc.ty)
	if st.Integer {
		fmt.Fprintf(b, "        unsafe { ::std::mem::transmute(((self.%s & %s) >> %dusize) as %s) }\n",
			field, mask, acc.rng.Offset, acc.prim)
	} else {
		fmt.Fprintf(b, "        unsafe { ::std::mem::transmute(self.%s.get(%dusize, %du8) as %s) }\n",
			field, acc.rng.Offset, acc.rng.Width, acc.prim)
	}
	b.WriteString("    }\n")

	b.WriteString("    #[inline]\n")
	fmt.Fprintf(b, "    %sfn set_%s(&mut self, val: %s) {\n", vis, acc.name, acc.ty)
	b.WriteString("        unsafe {\n")
	fmt.Fprintf(b, "            let val: %s = ::std::mem::transmute(val);\n", acc.prim)
	if st.Integer {
		fmt.Fprintf(b, "            self.%s &= !%s;\n", field, mask)
		fmt.Fprintf(b, "            self.%s |= ((val as %s) << %dusize) & %s;\n", field, st.Type, acc.rng.Offset, mask)
	} else {
		fmt.Fprintf(b, "            self.%s.set(%dusize, %du8, val as u64)\n", field, acc.rng.Offset, acc.rng.Width)
	}
	b.WriteString("        }\n")
	b.WriteString("    }\n")
}

// bitfieldConstructor emits new_bitfield_N, building a unit value from its
// named bitfields.
func (ce *compEmitter) bitfieldConstructor(nth int, ty string, st layout.Storage, accs []bitfieldAccess) {
	b := &ce.impl
	args := make([]string, len(accs))
	for i, acc := range accs {
		args[i] = acc.name + ": " + acc.ty
	}
	b.WriteString("    #[inline]\n")
	fmt.Fprintf(b, "    pub fn new_bitfield_%d(%s) -> %s {\n", nth, strings.Join(args, ", "), ty)
	if st.Integer {
		fmt.Fprintf(b, "        let mut __bindgen_bitfield_unit: %s = 0;\n", ty)
	} else {
		fmt.Fprintf(b, "        let mut __bindgen_bitfield_unit: %s = Default::default();\n", ty)
	}
	for _, acc := range accs {
		fmt.Fprintf(b, "        let %s: %s = unsafe { ::std::mem::transmute(%s) };\n", acc.name, acc.prim, acc.name)
		if st.Integer {
			fmt.Fprintf(b, "        __bindgen_bitfield_unit |= ((%s as %s) << %dusize) & %#x%s;\n",
				acc.name, st.Type, acc.rng.Offset, acc.rng.Mask(), st.Type)
		} else {
			fmt.Fprintf(b, "        __bindgen_bitfield_unit.set(%dusize, %du8, %s as u64);\n",
				acc.rng.Offset, acc.rng.Width, acc.name)
		}
	}
	b.WriteString("        __bindgen_bitfield_unit\n")
	b.WriteString("    }\n")
}
