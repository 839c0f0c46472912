package fuzztests

import (
	"bytes"
	"testing"

	"bindgen/internal/ir"
)

// maxFuzzInput caps a single input before decoding.
const maxFuzzInput = 256 << 10

func addGraphSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("not a graph"))
	for _, build := range seedGraphs {
		b := ir.NewBuilder()
		build(b)
		var buf bytes.Buffer
		if err := ir.Encode(&buf, b.Graph()); err != nil {
			f.Fatalf("encode seed: %v", err)
		}
		f.Add(buf.Bytes())
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

var seedGraphs = []func(b *ir.Builder){
	func(b *ir.Builder) {},
	func(b *ir.Builder) {
		cint := b.Int(ir.IntInt)
		s := b.Struct(b.Root(), "point", ir.L(8, 4))
		b.Field(s, "x", cint, 0)
		b.Field(s, "y", cint, 32)
		b.Function(b.Root(), "point_len", b.FunctionType(b.Float(ir.FloatDouble), ir.Arg{Name: "p", Type: b.Pointer(s)}))
	},
	func(b *ir.Builder) {
		cuint := b.Int(ir.IntUInt)
		s := b.Struct(b.Root(), "flags", ir.L(4, 4))
		b.Bitfields(s, ir.Layout{Size: 4, Align: 4},
			ir.Bitfield{Name: "a", Type: cuint, Offset: 0, Width: 3},
			ir.Bitfield{Name: "b", Type: cuint, Offset: 3, Width: 13},
		)
	},
	func(b *ir.Builder) {
		b.Enum(b.Root(), "color", b.Int(ir.IntUInt),
			ir.EnumVariant{Name: "RED", Value: ir.Unsigned(0)},
			ir.EnumVariant{Name: "GREEN", Value: ir.Unsigned(1)},
			ir.EnumVariant{Name: "ALIAS", Value: ir.Unsigned(1)},
		)
	},
	func(b *ir.Builder) {
		ns := b.Module(b.Root(), "geo")
		u := b.Union(ns, "value", ir.L(8, 8))
		b.Field(u, "i", b.Int(ir.IntLongLong), 0)
		b.Field(u, "d", b.Float(ir.FloatDouble), 0)
		b.Alias(ns, "value_t", u)
		b.Var(ns, "origin", b.Array(b.Const(b.Int(ir.IntChar)), 4))
	},
}
