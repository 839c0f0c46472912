package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

// emitVar declares a global: a const when the front end evaluated its
// initializer, an extern static otherwise.
func (gen *generator) emitVar(res *Result, it *ir.Item) {
	if res.Seen(it.ID) {
		return
	}
	res.SetSeen(it.ID)
	ann := gen.opts.Annotate(it.Name, it.Annotations)
	if ann.Hide {
		gen.info(it, diag.CgnHidden, "variable %s is hidden", it.Name)
		return
	}
	if !gen.opts.Generate.Vars {
		return
	}
	v := it.Var
	name := gen.names.canonical(it.ID)
	symbol := gen.varSymbol(it)
	if res.SeenVar(symbol) {
		return
	}
	res.SawVar(symbol)
	gen.point(it, "var")

	var b strings.Builder
	if v.Value != nil {
		ty, lit, ok := gen.constValue(res, it)
		if ok {
			b.WriteString(gen.comment(it.Comment, ""))
			fmt.Fprintf(&b, "%sconst %s: %s = %s;\n", gen.opts.Visibility.Keyword(), name, ty, lit)
			res.Push(b.String())
			return
		}
	}

	b.WriteString("extern \"C\" {\n")
	b.WriteString(gen.comment(it.Comment, "    "))
	if !elidableLinkName(name, symbol, ir.ABIC) {
		fmt.Fprintf(&b, "    #[link_name = \"\\u{1}%s\"]\n", symbol)
	}
	mut := "mut "
	if gen.isConst(v.Type) {
		mut = ""
	}
	fmt.Fprintf(&b, "    pub static %s%s: %s;\n", mut, name, gen.ty(res, v.Type))
	b.WriteString("}\n")
	res.Push(b.String())
}

func (gen *generator) varSymbol(it *ir.Item) string {
	switch v := it.Var; {
	case v.LinkName != "":
		return v.LinkName
	case v.MangledName != "":
		return v.MangledName
	}
	return it.Name
}

// constValue renders the type and literal of an evaluated initializer.
func (gen *generator) constValue(res *Result, it *ir.Item) (ty, lit string, ok bool) {
	v := it.Var.Value
	switch v.Kind {
	case ir.ValueInt:
		return gen.ty(res, it.Var.Type), strconv.FormatInt(v.Int, 10), true
	case ir.ValueBool:
		return "bool", strconv.FormatBool(v.Bool), true
	case ir.ValueFloat:
		ty = gen.ty(res, it.Var.Type)
		if ty != "f32" && ty != "f64" {
			ty = "f64"
		}
		return ty, floatLiteral(v.Float, ty), true
	case ir.ValueString:
		return fmt.Sprintf("&[u8; %dusize]", len(v.Bytes)+1), byteString(v.Bytes), true
	case ir.ValueChar:
		c, err := safecast.Conv[uint8](v.Int)
		if err != nil {
			return "", "", false
		}
		return "u8", fmt.Sprintf("%du8", c), true
	}
	return "", "", false
}

func floatLiteral(f float64, ty string) string {
	switch {
	case math.IsNaN(f):
		return ty + "::NAN"
	case math.IsInf(f, 1):
		return ty + "::INFINITY"
	case math.IsInf(f, -1):
		return ty + "::NEG_INFINITY"
	}
	bits := 64
	if ty == "f32" {
		bits = 32
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// byteString renders b as a NUL-terminated Rust byte string literal.
func byteString(b []byte) string {
	var sb strings.Builder
	sb.WriteString("b\"")
	for _, c := range b {
		switch {
		case c == '"':
			sb.WriteString("\\\"")
		case c == '\\':
			sb.WriteString("\\\\")
		case c == '\n':
			sb.WriteString("\\n")
		case c == '\r':
			sb.WriteString("\\r")
		case c == '\t':
			sb.WriteString("\\t")
		case c == 0:
			sb.WriteString("\\0")
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "\\x%02x", c)
		}
	}
	sb.WriteString("\\0\"")
	return sb.String()
}
