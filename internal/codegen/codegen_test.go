package codegen

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"bindgen/internal/config"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/testkit"
)

func generate(t *testing.T, b *ir.Builder, mutate func(*config.Options)) (*Output, *diag.Bag) {
	t.Helper()
	opts := config.Default()
	if mutate != nil {
		mutate(&opts)
	}
	bag := diag.NewBag(0)
	out, err := Generate(context.Background(), b.Graph(), &opts, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := testkit.CheckOutputInvariants(out.Source); err != nil {
		t.Fatalf("malformed output: %v\n%s", err, out.Source)
	}
	return out, bag
}

func mustContain(t *testing.T, src, want string) {
	t.Helper()
	if !strings.Contains(src, want) {
		t.Fatalf("expected output to contain:\n%s\n--- got:\n%s", want, src)
	}
}

func mustNotContain(t *testing.T, src, unwanted string) {
	t.Helper()
	if strings.Contains(src, unwanted) {
		t.Fatalf("expected output not to contain:\n%s\n--- got:\n%s", unwanted, src)
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestStructPaddingMatchesNativeLayout(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	s := b.Struct(b.Root(), "pair", ir.L(16, 8))
	b.Field(s, "a", cint, 0)
	b.Field(s, "b", cint, 64)

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, `#[repr(C, align(8))]
#[derive(Debug, Copy, Clone)]
pub struct pair {
    pub a: ::std::os::raw::c_int,
    pub __bindgen_padding_0: [u8; 4usize],
    pub b: ::std::os::raw::c_int,
    pub __bindgen_padding_1: [u8; 4usize],
}
`)
	mustContain(t, out.Source, "fn bindgen_test_layout_pair() {")
	mustContain(t, out.Source, "::std::mem::size_of::<pair>(),\n        16usize,")
	mustContain(t, out.Source, "addr_of!((*ptr).b) as usize - ptr as usize },\n        8usize,")
	if !strings.HasPrefix(out.Source, Header+"\n") {
		t.Fatalf("missing header: %q", out.Source[:40])
	}
}

func TestNaturalAlignmentNeedsNoPadding(t *testing.T) {
	b := ir.NewBuilder()
	s := b.Struct(b.Root(), "mixed", ir.L(16, 8))
	b.Field(s, "tag", b.Int(ir.IntChar), 0)
	b.Field(s, "value", b.Float(ir.FloatDouble), 64)

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, "#[repr(C)]\n#[derive(Debug, Copy, Clone)]\npub struct mixed {")
	mustNotContain(t, out.Source, "__bindgen_padding")
}

func TestEnumDuplicatesAliasCanonicalVariant(t *testing.T) {
	variants := []ir.EnumVariant{
		{Name: "RED", Value: ir.Unsigned(0)},
		{Name: "GREEN", Value: ir.Unsigned(1)},
		{Name: "CRIMSON", Value: ir.Unsigned(0)},
	}
	cases := []struct {
		style ir.EnumStyle
		want  []string
	}{
		{ir.EnumStyleRust, []string{
			"#[repr(u32)]\n#[derive(Debug, Copy, Clone, PartialEq, Eq)]\npub enum color {\n    RED = 0,\n    GREEN = 1,\n}\n",
			"impl color {\n    pub const CRIMSON: color = color::RED;\n}\n",
		}},
		{ir.EnumStyleConsts, []string{
			"pub const color_RED: color = 0;\n",
			"pub const color_CRIMSON: color = color_RED;\n",
			"pub type color = ::std::os::raw::c_uint;\n",
		}},
		{ir.EnumStyleNewType, []string{
			"#[repr(transparent)]\n",
			"pub struct color(pub ::std::os::raw::c_uint);\n",
			"    pub const GREEN: color = color(1);\n",
			"    pub const CRIMSON: color = color::RED;\n",
		}},
		{ir.EnumStyleNewTypeGlobal, []string{
			"pub const color_RED: color = color(0);\n",
			"pub const color_CRIMSON: color = color_RED;\n",
		}},
		{ir.EnumStyleModuleConsts, []string{
			"pub mod color {\n    pub type Type = ::std::os::raw::c_uint;\n",
			"    pub const CRIMSON: Type = RED;\n",
		}},
		{ir.EnumStyleBitfield, []string{
			"impl ::std::ops::BitOr<color> for color {",
			"        self.0 &= rhs.0;\n",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.style.String(), func(t *testing.T) {
			b := ir.NewBuilder()
			b.Enum(b.Root(), "color", b.Int(ir.IntUInt), variants...)
			out, _ := generate(t, b, func(o *config.Options) { o.DefaultEnumStyle = tc.style })
			for _, w := range tc.want {
				mustContain(t, out.Source, w)
			}
			if tc.style == ir.EnumStyleRust && strings.Count(out.Source, "= 0,") != 1 {
				t.Fatalf("duplicate tag emitted:\n%s", out.Source)
			}
		})
	}
}

func TestEnumWithoutReprDefaultsToInt(t *testing.T) {
	b := ir.NewBuilder()
	b.Enum(b.Root(), "mode", ir.NoItemID, ir.EnumVariant{Name: "OFF", Value: ir.Signed(-1)})
	b.Enum(b.Root(), "wide", ir.NoItemID, ir.EnumVariant{Name: "BIG", Value: ir.Unsigned(1 << 40)})

	out, bag := generate(t, b, nil)
	mustContain(t, out.Source, "pub type mode = ::std::os::raw::c_int;")
	mustContain(t, out.Source, "pub type wide = ::std::os::raw::c_longlong;")
	if !hasCode(bag, diag.LayEnumReprDefault) {
		t.Fatalf("expected %s", diag.LayEnumReprDefault.ID())
	}
}

func TestOverloadsGetNumericSuffixes(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	path := b.Pointer(b.Const(b.Int(ir.IntChar)))
	f1 := b.Function(b.Root(), "open", b.FunctionType(cint, ir.Arg{Name: "path", Type: path}))
	f2 := b.Function(b.Root(), "open", b.FunctionType(cint, ir.Arg{Name: "path", Type: path}, ir.Arg{Name: "flags", Type: cint}))
	b.Item(f1).Function.MangledName = "_Z4openPKc"
	b.Item(f2).Function.MangledName = "_Z4openPKci"

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, `extern "C" {
    #[link_name = "\u{1}_Z4openPKc"]
    pub fn open(path: *const ::std::os::raw::c_char) -> ::std::os::raw::c_int;
}
`)
	mustContain(t, out.Source, `    #[link_name = "\u{1}_Z4openPKci"]
    pub fn open1(path: *const ::std::os::raw::c_char, flags: ::std::os::raw::c_int) -> ::std::os::raw::c_int;
`)
}

func TestUniqueSkipsNamesAlreadyHandedOut(t *testing.T) {
	r := newResult()
	got := []string{r.Unique("open"), r.Unique("open1"), r.Unique("open"), r.Unique("open")}
	want := []string{"open", "open1", "open2", "open3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Unique sequence = %v, want %v", got, want)
		}
	}
}

func TestLinkNameElision(t *testing.T) {
	cases := []struct {
		name, symbol string
		abi          ir.ABI
		want         bool
	}{
		{"foo", "foo", ir.ABIC, true},
		{"foo", "_foo", ir.ABIC, true},
		{"foo", "_Z3foov", ir.ABIC, false},
		{"foo", "_foo@8", ir.ABIStdcall, true},
		{"foo", "_foo@", ir.ABIStdcall, false},
		{"foo", "@foo@12", ir.ABIFastcall, true},
		{"foo", "foo@@16", ir.ABIVectorcall, true},
		{"foo", "_foo", ir.ABIWin64, false},
	}
	for _, tc := range cases {
		if got := elidableLinkName(tc.name, tc.symbol, tc.abi); got != tc.want {
			t.Fatalf("elidableLinkName(%q, %q, %s) = %v, want %v", tc.name, tc.symbol, tc.abi, got, tc.want)
		}
	}
}

func TestBitfieldAccessorsUseShiftAndMask(t *testing.T) {
	b := ir.NewBuilder()
	cuint := b.Int(ir.IntUInt)
	s := b.Struct(b.Root(), "flags", ir.L(2, 2))
	b.Bitfields(s, ir.Layout{Size: 2, Align: 2},
		ir.Bitfield{Name: "a", Type: cuint, Offset: 0, Width: 4},
		ir.Bitfield{Name: "b", Type: cuint, Offset: 4, Width: 8},
	)

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, "pub struct flags {\n    pub _bitfield_1: u16,\n}\n")
	mustContain(t, out.Source, "unsafe { ::std::mem::transmute(((self._bitfield_1 & 0xff0u16) >> 4usize) as u32) }")
	mustContain(t, out.Source, `            let val: u32 = ::std::mem::transmute(val);
            self._bitfield_1 &= !0xff0u16;
            self._bitfield_1 |= ((val as u16) << 4usize) & 0xff0u16;
`)
	mustContain(t, out.Source, "pub fn new_bitfield_1(a: ::std::os::raw::c_uint, b: ::std::os::raw::c_uint) -> u16 {")
	mustNotContain(t, out.Source, "__BindgenBitfieldUnit")
}

var (
	bitfieldSetter = regexp.MustCompile(`fn set_(\w+)\(&mut self, val: [^)]+\) \{\n` +
		`        unsafe \{\n` +
		`            let val: \w+ = ::std::mem::transmute\(val\);\n` +
		`            self\._bitfield_1 &= !(0x[0-9a-f]+)u\d+;\n` +
		`            self\._bitfield_1 \|= \(\(val as u\d+\) << (\d+)usize\) & (0x[0-9a-f]+)u\d+;\n`)
	bitfieldGetter = regexp.MustCompile(`fn (\w+)\(&self\) -> [^{]+\{\n` +
		`        unsafe \{ ::std::mem::transmute\(\(\(self\._bitfield_1 & (0x[0-9a-f]+)u\d+\) >> (\d+)usize\) as \w+\) \}\n`)
)

type unitOp struct {
	clear, mask uint64
	shift       uint
}

func parseUnitOps(t *testing.T, re *regexp.Regexp, src string, clear bool) map[string]unitOp {
	t.Helper()
	ops := make(map[string]unitOp)
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		num := func(s string) uint64 {
			v, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				t.Fatalf("bad literal %q: %v", s, err)
			}
			return v
		}
		op := unitOp{mask: num(m[2]), shift: uint(num(m[3]))}
		if clear {
			op = unitOp{clear: num(m[2]), shift: uint(num(m[3])), mask: num(m[4])}
		}
		ops[m[1]] = op
	}
	return ops
}

// TestBitfieldSettersPreserveNeighbours replays the emitted accessor
// arithmetic: writing one bitfield must leave every other bit of the unit
// as it was, and reading it back must return the written value.
func TestBitfieldSettersPreserveNeighbours(t *testing.T) {
	b := ir.NewBuilder()
	cuint := b.Int(ir.IntUInt)
	s := b.Struct(b.Root(), "regs", ir.L(4, 4))
	b.Bitfields(s, ir.Layout{Size: 4, Align: 4},
		ir.Bitfield{Name: "lo", Type: cuint, Offset: 0, Width: 3},
		ir.Bitfield{Name: "mid", Type: cuint, Offset: 3, Width: 13},
		ir.Bitfield{Name: "hi", Type: cuint, Offset: 16, Width: 16},
	)
	out, _ := generate(t, b, nil)

	setters := parseUnitOps(t, bitfieldSetter, out.Source, true)
	getters := parseUnitOps(t, bitfieldGetter, out.Source, false)
	values := map[string]uint64{"lo": 0x5, "mid": 0x1ABC, "hi": 0xBEEF}
	if len(setters) != len(values) || len(getters) != len(values) {
		t.Fatalf("found %d setters and %d getters:\n%s", len(setters), len(getters), out.Source)
	}

	const unitMask = 0xFFFFFFFF
	for name, v := range values {
		set, get := setters[name], getters[name]
		if set.clear != set.mask || set.mask != get.mask || set.shift != get.shift {
			t.Fatalf("%s: setter %+v disagrees with getter %+v", name, set, get)
		}
		for _, before := range []uint64{0, unitMask, 0xA5A5A5A5} {
			after := (before &^ set.clear) | ((v << set.shift) & set.mask)
			if after&^set.mask != before&^set.mask {
				t.Fatalf("%s: writing %#x over %#x changed neighbours: %#x", name, v, before, after)
			}
			if got := (after & get.mask) >> get.shift; got != v {
				t.Fatalf("%s: read back %#x, wrote %#x", name, got, v)
			}
		}
	}
	var union uint64
	for _, op := range setters {
		if union&op.mask != 0 {
			t.Fatalf("overlapping masks: %#x and %#x", union, op.mask)
		}
		union |= op.mask
	}
	if union != unitMask {
		t.Fatalf("masks cover %#x, want the whole unit", union)
	}
}

func TestOddSizedBitfieldUnitUsesHelper(t *testing.T) {
	b := ir.NewBuilder()
	s := b.Struct(b.Root(), "packet", ir.L(4, 4))
	b.Bitfields(s, ir.Layout{Size: 3, Align: 4},
		ir.Bitfield{Name: "len", Type: b.Int(ir.IntUInt), Offset: 0, Width: 20},
		ir.Bitfield{Name: "bad", Type: b.Int(ir.IntUInt), Offset: 20, Width: 8},
	)

	out, bag := generate(t, b, nil)
	mustContain(t, out.Source, "pub _bitfield_align_1: [u32; 0],\n    pub _bitfield_1: __BindgenBitfieldUnit<[u8; 3usize]>,\n")
	mustContain(t, out.Source, "self._bitfield_1.get(0usize, 20u8) as u32")
	mustContain(t, out.Source, "pub struct __BindgenBitfieldUnit<Storage> {")
	mustNotContain(t, out.Source, "fn bad(")
	if !hasCode(bag, diag.LayBitfieldOverflow) {
		t.Fatalf("expected %s for the overflowing bitfield", diag.LayBitfieldOverflow.ID())
	}
}

func TestGenerationIsIdempotent(t *testing.T) {
	build := func() *ir.Builder {
		b := ir.NewBuilder()
		cint := b.Int(ir.IntInt)
		s := b.Struct(b.Root(), "node", ir.L(16, 8))
		b.Field(s, "", b.Struct(s, "", ir.L(4, 4)), 0)
		b.Field(s, "next", b.Pointer(s), 64)
		b.Enum(b.Root(), "", cint, ir.EnumVariant{Name: "A", Value: ir.Signed(1)})
		b.Function(b.Root(), "run", b.FunctionType(b.Void()))
		return b
	}
	first, _ := generate(t, build(), nil)
	second, _ := generate(t, build(), nil)
	if first.Source != second.Source {
		t.Fatalf("outputs differ:\n%s\n---\n%s", first.Source, second.Source)
	}
	mustContain(t, first.Source, "pub __bindgen_anon_1: node__bindgen_ty_1,")
	mustContain(t, first.Source, "pub const A: _bindgen_ty_2 = 1;")
}

func TestFunctionSkipsAreDiagnosed(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	sig := b.FunctionType(cint)

	vc := b.FunctionType(cint)
	b.Sig(vc).ABI = ir.ABIVectorcall
	b.Function(b.Root(), "fast", vc)

	static := b.Function(b.Root(), "helper", sig)
	b.Item(static).Function.Linkage = ir.LinkageInternal

	pure := b.Function(b.Root(), "abstract_fn", sig)
	b.Item(pure).Function.IsPure = true

	b.Function(b.Root(), "twice", sig)
	b.Function(b.Root(), "twice", sig)

	out, bag := generate(t, b, nil)
	for _, name := range []string{"fast", "helper", "abstract_fn"} {
		mustNotContain(t, out.Source, "pub fn "+name+"(")
	}
	if strings.Count(out.Source, "pub fn twice") != 1 {
		t.Fatalf("expected one declaration of twice:\n%s", out.Source)
	}
	for _, code := range []diag.Code{diag.CgnUnsupportedABI, diag.CgnInternalSymbol, diag.CgnPureVirtual, diag.CgnDuplicateLinkName} {
		if !hasCode(bag, code) {
			t.Fatalf("expected diagnostic %s", code.ID())
		}
	}
}

func TestVariadicStaticFunctionIsNotWrapped(t *testing.T) {
	b := ir.NewBuilder()
	sig := b.FunctionType(b.Int(ir.IntInt), ir.Arg{Name: "fmt", Type: b.Pointer(b.Int(ir.IntChar))})
	b.Sig(sig).IsVariadic = true
	f := b.Function(b.Root(), "logf", sig)
	b.Item(f).Function.Linkage = ir.LinkageInternal

	out, bag := generate(t, b, func(o *config.Options) { o.WrapStaticFns = true })
	mustNotContain(t, out.Source, "logf")
	if out.WrapperSource != "" {
		t.Fatalf("unexpected wrapper source %q", out.WrapperSource)
	}
	if !hasCode(bag, diag.CgnVariadicInternal) {
		t.Fatalf("expected %s", diag.CgnVariadicInternal.ID())
	}
}

func TestStaticWrappers(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	f := b.Function(b.Root(), "helper", b.FunctionType(cint, ir.Arg{Name: "x", Type: cint}))
	b.Item(f).Function.Linkage = ir.LinkageInternal

	out, _ := generate(t, b, func(o *config.Options) {
		o.WrapStaticFns = true
		o.WrapHeaders = []string{"api.h"}
	})
	mustContain(t, out.Source, "    #[link_name = \"helper__extern\"]\n    pub fn helper(x: ::std::os::raw::c_int) -> ::std::os::raw::c_int;\n")
	want := "#include \"api.h\"\n\n// Static wrappers\n\nint helper__extern(int x) { return helper(x); }\n"
	if out.WrapperSource != want {
		t.Fatalf("wrapper source:\n%s\nwant:\n%s", out.WrapperSource, want)
	}
}

func TestDynamicLibraryMode(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	b.Function(b.Root(), "foo", b.FunctionType(cint, ir.Arg{Name: "x", Type: cint}))

	out, _ := generate(t, b, func(o *config.Options) { o.DynamicLibraryName = "libfoo" })
	mustNotContain(t, out.Source, "extern \"C\" {")
	mustContain(t, out.Source, "pub struct libfoo {\n    __library: ::libloading::Library,\n")
	mustContain(t, out.Source, "    pub foo: Result<unsafe extern \"C\" fn(x: ::std::os::raw::c_int) -> ::std::os::raw::c_int, ::libloading::Error>,\n")
	mustContain(t, out.Source, "let foo = __library.get(b\"foo\\0\").map(|sym| *sym);")
	mustContain(t, out.Source, "    pub unsafe fn foo(&self, x: ::std::os::raw::c_int) -> ::std::os::raw::c_int {\n")

	required, _ := generate(t, b, func(o *config.Options) {
		o.DynamicLibraryName = "libfoo"
		o.DynamicRequireAll = true
	})
	mustContain(t, required.Source, "    pub foo: unsafe extern \"C\" fn(x: ::std::os::raw::c_int) -> ::std::os::raw::c_int,\n")
	mustContain(t, required.Source, "        (self.foo)(x)\n")
}

func TestTemplateInstantiation(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	vec := b.Struct(b.Root(), "vec", nil)
	tp := b.TypeParam(vec, "T")
	b.Field(vec, "ptr", b.Pointer(tp), -1)
	inst := b.Instantiation(b.Root(), vec, ir.L(8, 8), cint)
	holder := b.Struct(b.Root(), "holder", ir.L(8, 8))
	b.Field(holder, "v", inst, 0)

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, "pub struct vec<T> {\n    pub ptr: *mut T,\n    pub _phantom_0: ::std::marker::PhantomData<::std::cell::UnsafeCell<T>>,\n}\n")
	mustContain(t, out.Source, "#[derive(Copy)]\npub struct vec<T>")
	mustContain(t, out.Source, "impl<T: Copy> Clone for vec<T> {")
	mustNotContain(t, out.Source, "bindgen_test_layout_vec()")
	mustContain(t, out.Source, "    pub v: vec<::std::os::raw::c_int>,\n")
	mustContain(t, out.Source, "fn __bindgen_test_layout_vec_open0_c_int_close0_instantiation() {")
}

func TestHolderOfGenericInstantiationDropsUnderivedTraits(t *testing.T) {
	build := func() *ir.Builder {
		b := ir.NewBuilder()
		box := b.Struct(b.Root(), "Box", nil)
		tp := b.TypeParam(box, "T")
		b.Field(box, "v", tp, -1)
		inst := b.Instantiation(b.Root(), box, ir.L(8, 8), b.Float(ir.FloatDouble))
		holder := b.Struct(b.Root(), "holder", ir.L(8, 8))
		b.Field(holder, "bx", inst, 0)
		outer := b.Struct(b.Root(), "outer", ir.L(16, 8))
		b.Field(outer, "h", b.Array(holder, 2), 0)
		return b
	}

	out, _ := generate(t, build(), func(o *config.Options) {
		o.Derive.Hash = true
		o.Derive.PartialEq = true
	})
	mustContain(t, out.Source, "#[derive(Copy)]\npub struct Box<T> {")
	mustContain(t, out.Source, "#[derive(Copy, Clone)]\npub struct holder {\n    pub bx: Box<f64>,\n}\n")
	mustContain(t, out.Source, "#[derive(Copy, Clone)]\npub struct outer {")

	out, _ = generate(t, build(), func(o *config.Options) { o.Derive.Templated = true })
	mustContain(t, out.Source, "#[derive(Debug, Copy, Clone)]\npub struct Box<T> {")
	mustContain(t, out.Source, "#[derive(Debug, Copy, Clone)]\npub struct holder {")
}

func TestStructWithRustEnumSkipsOrdering(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	color := b.Enum(b.Root(), "color", cint, ir.EnumVariant{Name: "RED", Value: ir.Signed(0)})
	s := b.Struct(b.Root(), "pixel", ir.L(4, 4))
	b.Field(s, "c", color, 0)

	out, _ := generate(t, b, func(o *config.Options) {
		o.DefaultEnumStyle = ir.EnumStyleRust
		o.Derive.PartialEq = true
		o.Derive.Eq = true
		o.Derive.PartialOrd = true
		o.Derive.Ord = true
	})
	mustContain(t, out.Source, "#[derive(Debug, Copy, Clone, PartialEq, Eq)]\npub struct pixel {")
}

func TestOpaqueTemplateFallsBackToBlob(t *testing.T) {
	b := ir.NewBuilder()
	arr := b.Struct(b.Root(), "array", nil)
	b.TypeParam(arr, "T")
	b.Comp(arr).HasNonTypeTemplateParams = true
	inst := b.Instantiation(b.Root(), arr, ir.L(8, 8), b.Int(ir.IntInt))
	holder := b.Struct(b.Root(), "holder", ir.L(8, 8))
	b.Field(holder, "a", inst, 0)

	out, bag := generate(t, b, nil)
	mustContain(t, out.Source, "    pub a: u64,\n")
	mustNotContain(t, out.Source, "__bindgen_test_layout_array")
	if !hasCode(bag, diag.LayOpaqueTemplateArg) {
		t.Fatalf("expected %s", diag.LayOpaqueTemplateArg.ID())
	}
}

func TestVTablePointer(t *testing.T) {
	build := func() *ir.Builder {
		b := ir.NewBuilder()
		s := b.Struct(b.Root(), "shape", ir.L(16, 8))
		b.Comp(s).HasOwnVTable = true
		b.Item(s).Facts.HasVTable = true
		b.Field(s, "id", b.Int(ir.IntInt), 64)
		sig := b.FunctionType(b.Float(ir.FloatDouble), ir.Arg{Name: "this", Type: b.Pointer(s)})
		b.Method(s, ir.MethodVirtual, "area", "_ZN5shape4areaEv", sig, false)
		return b
	}

	out, _ := generate(t, build(), nil)
	mustContain(t, out.Source, "#[repr(C)]\npub struct shape__bindgen_vtable(::std::os::raw::c_void);\n")
	mustContain(t, out.Source, "pub struct shape {\n    pub vtable_: *const shape__bindgen_vtable,\n    pub id: ::std::os::raw::c_int,\n}\n")
	mustNotContain(t, out.Source, "pub fn shape_area")

	full, _ := generate(t, build(), func(o *config.Options) { o.VTableGeneration = true })
	mustContain(t, full.Source, "pub struct shape__bindgen_vtable {\n    pub shape_area: unsafe extern \"C\" fn(this: *mut shape) -> f64,\n}\n")
}

func TestMethodsAndConstructors(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	s := b.Struct(b.Root(), "counter", ir.L(4, 4))
	b.Field(s, "n", cint, 0)
	ctor := b.FunctionType(b.Void(), ir.Arg{Name: "this", Type: b.Pointer(s)}, ir.Arg{Name: "v", Type: cint})
	b.Method(s, ir.MethodConstructor, "counter", "_ZN7counterC1Ei", ctor, false)
	get := b.FunctionType(cint, ir.Arg{Name: "this", Type: b.Pointer(b.Const(s))})
	b.Method(s, ir.MethodNormal, "get", "_ZNK7counter3getEv", get, true)
	b.Method(s, ir.MethodNormal, "reset", "", b.FunctionType(b.Void(), ir.Arg{Name: "this", Type: b.Pointer(s)}), false)
	b.Comp(s).Methods[2].IsPure = true

	out, bag := generate(t, b, nil)
	mustContain(t, out.Source, "    #[link_name = \"\\u{1}_ZN7counterC1Ei\"]\n    pub fn counter_counter(this: *mut counter, v: ::std::os::raw::c_int);\n")
	mustContain(t, out.Source, `impl counter {
    #[inline]
    pub unsafe fn new(v: ::std::os::raw::c_int) -> Self {
        let mut __bindgen_tmp = ::std::mem::MaybeUninit::uninit();
        counter_counter(__bindgen_tmp.as_mut_ptr(), v);
        __bindgen_tmp.assume_init()
    }
    #[inline]
    pub unsafe fn get(&self) -> ::std::os::raw::c_int {
        counter_get(self)
    }
}
`)
	mustNotContain(t, out.Source, "counter_reset")
	if !hasCode(bag, diag.CgnPureVirtual) {
		t.Fatalf("expected %s", diag.CgnPureVirtual.ID())
	}
}

func TestUnions(t *testing.T) {
	build := func() *ir.Builder {
		b := ir.NewBuilder()
		u := b.Union(b.Root(), "value", ir.L(8, 8))
		b.Field(u, "i", b.Int(ir.IntInt), 0)
		b.Field(u, "d", b.Float(ir.FloatDouble), 0)
		return b
	}

	out, _ := generate(t, build(), nil)
	mustContain(t, out.Source, "#[repr(C)]\n#[derive(Copy, Clone)]\npub union value {\n    pub i: ::std::os::raw::c_int,\n    pub d: f64,\n}\n")

	tagged, _ := generate(t, build(), func(o *config.Options) { o.UntaggedUnions = false })
	mustContain(t, tagged.Source, "    pub i: __BindgenUnionField<::std::os::raw::c_int>,\n")
	mustContain(t, tagged.Source, "    pub bindgen_union_field: u64,\n")
	mustContain(t, tagged.Source, "pub struct __BindgenUnionField<T>(::std::marker::PhantomData<T>);")
}

func TestPlaceholderAggregates(t *testing.T) {
	b := ir.NewBuilder()
	b.Struct(b.Root(), "empty", ir.L(1, 1))
	fwd := b.Struct(b.Root(), "handle", nil)
	b.Comp(fwd).IsForwardDeclaration = true
	unknown := b.Struct(b.Root(), "mystery", nil)
	b.Item(unknown).Annotations.Opaque = true

	out, bag := generate(t, b, nil)
	mustContain(t, out.Source, "pub struct empty {\n    pub _address: u8,\n}\n")
	mustContain(t, out.Source, "pub struct handle {\n    pub _unused: [u8; 0],\n}\n")
	mustNotContain(t, out.Source, "bindgen_test_layout_handle")
	mustContain(t, out.Source, "pub struct mystery {\n    pub _bindgen_opaque_blob: u8,\n}\n")
	if !hasCode(bag, diag.LayUnknownLayout) {
		t.Fatalf("expected %s", diag.LayUnknownLayout.ID())
	}
}

func TestPackedStructGetsManualImpls(t *testing.T) {
	b := ir.NewBuilder()
	s := b.Struct(b.Root(), "wire", ir.L(5, 1))
	b.Comp(s).Packed = true
	b.Field(s, "tag", b.Int(ir.IntUChar), 0)
	b.Field(s, "len", b.Int(ir.IntUInt), 8)

	out, _ := generate(t, b, func(o *config.Options) {
		o.Derive.PartialEq = true
		o.Derive.Hash = true
	})
	mustContain(t, out.Source, "#[repr(C, packed)]\n#[derive(Copy)]\npub struct wire {")
	mustContain(t, out.Source, "impl Clone for wire {\n    fn clone(&self) -> Self {\n        *self\n    }\n}\n")
	mustContain(t, out.Source, `write!(f, "wire {{ tag: {:?}, len: {:?} }}", ({ self.tag }), ({ self.len }))`)
	mustContain(t, out.Source, "        ({ self.len }).hash(state);\n")
	mustContain(t, out.Source, "        ({ self.tag }) == ({ other.tag }) &&\n")
}

func TestAlignBeyondTargetSupport(t *testing.T) {
	b := ir.NewBuilder()
	s := b.Struct(b.Root(), "wide", ir.L(32, 32))
	b.Field(s, "x", b.Int(ir.IntInt), 0)

	out, bag := generate(t, b, func(o *config.Options) { o.Target.SupportsReprAlign = false })
	mustContain(t, out.Source, "#[repr(C)]")
	if !hasCode(bag, diag.LayUnsupportedAlign) {
		t.Fatalf("expected %s", diag.LayUnsupportedAlign.ID())
	}
	mustNotContain(t, out.Source, "align_of::<wide>")
}

func TestAccessors(t *testing.T) {
	b := ir.NewBuilder()
	s := b.Struct(b.Root(), "cfg", ir.L(4, 4))
	dm := b.Field(s, "level", b.Int(ir.IntInt), 0)
	dm.Private = true

	out, _ := generate(t, b, func(o *config.Options) { o.DefaultAccessor = ir.AccessorImmutable })
	mustContain(t, out.Source, "    level: ::std::os::raw::c_int,\n")
	mustContain(t, out.Source, "    pub fn get_level(&self) -> &::std::os::raw::c_int {\n        &self.level\n    }\n")
	mustNotContain(t, out.Source, "get_level_mut")
}

func TestVarsAndConstants(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	v := b.Var(b.Root(), "counter", cint)
	b.Item(v).Var.MangledName = "_ZL7counter"
	c := b.Var(b.Root(), "VERSION", b.Const(b.Int(ir.IntChar)))
	b.Item(c).Var.Value = &ir.VarValue{Kind: ir.ValueString, Bytes: []byte("1.0\n")}
	limit := b.Var(b.Root(), "LIMIT", cint)
	b.Item(limit).Var.Value = &ir.VarValue{Kind: ir.ValueInt, Int: -5}
	ratio := b.Var(b.Root(), "RATIO", b.Float(ir.FloatDouble))
	b.Item(ratio).Var.Value = &ir.VarValue{Kind: ir.ValueFloat, Float: 2}

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, "extern \"C\" {\n    #[link_name = \"\\u{1}_ZL7counter\"]\n    pub static mut counter: ::std::os::raw::c_int;\n}\n")
	mustContain(t, out.Source, "pub const VERSION: &[u8; 5usize] = b\"1.0\\n\\0\";\n")
	mustContain(t, out.Source, "pub const LIMIT: ::std::os::raw::c_int = -5;\n")
	mustContain(t, out.Source, "pub const RATIO: f64 = 2.0;\n")
}

func TestAliases(t *testing.T) {
	b := ir.NewBuilder()
	s := b.Struct(b.Root(), "foo", ir.L(4, 4))
	b.Field(s, "x", b.Int(ir.IntInt), 0)
	b.Alias(b.Root(), "foo", s)
	b.Alias(b.Root(), "foo_t", s)

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, "pub type foo_t = foo;\n")
	mustNotContain(t, out.Source, "pub type foo = foo;")
}

func TestNamespacesNestModules(t *testing.T) {
	b := ir.NewBuilder()
	ns := b.Module(b.Root(), "geo")
	p := b.Struct(ns, "point", ir.L(4, 4))
	b.Field(p, "x", b.Int(ir.IntInt), 0)
	b.Function(b.Root(), "draw", b.FunctionType(b.Void(), ir.Arg{Name: "p", Type: b.Pointer(p)}))

	out, _ := generate(t, b, func(o *config.Options) { o.EnableCxxNamespaces = true })
	mustContain(t, out.Source, "pub mod root {\n    #[allow(unused_imports)]\n    use self::super::root;\n")
	mustContain(t, out.Source, "    pub mod geo {\n        #[allow(unused_imports)]\n        use self::super::super::root;\n")
	mustContain(t, out.Source, "pub fn draw(p: *mut root::geo::point);")

	flat, _ := generate(t, b, nil)
	mustContain(t, flat.Source, "pub struct geo_point {")
}

func TestHiddenAndFilteredItems(t *testing.T) {
	b := ir.NewBuilder()
	s := b.Struct(b.Root(), "secret", ir.L(1, 1))
	b.Item(s).Annotations.Hide = true
	b.Function(b.Root(), "visible", b.FunctionType(b.Void()))
	b.Var(b.Root(), "global", b.Int(ir.IntInt))

	out, bag := generate(t, b, func(o *config.Options) { o.Generate.Vars = false })
	mustNotContain(t, out.Source, "secret")
	mustNotContain(t, out.Source, "global")
	mustContain(t, out.Source, "pub fn visible();")
	if !hasCode(bag, diag.CgnHidden) {
		t.Fatalf("expected %s", diag.CgnHidden.ID())
	}
}

func TestUnresolvedReferenceIsContractError(t *testing.T) {
	b := ir.NewBuilder()
	bad := b.Opaque(ir.Layout{Size: 1, Align: 1})
	b.Item(bad).Type.Kind = ir.TypeUnresolvedRef
	s := b.Struct(b.Root(), "broken", ir.L(1, 1))
	b.Field(s, "x", bad, 0)

	opts := config.Default()
	_, err := Generate(context.Background(), b.Graph(), &opts, nil)
	var cerr *ContractError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ContractError, got %v", err)
	}
	if cerr.Item != bad {
		t.Fatalf("contract error at #%d, want #%d", cerr.Item, bad)
	}
}

func TestSanitizeIdentifiers(t *testing.T) {
	cases := map[string]string{
		"type":       "type_",
		"9lives":     "_9lives",
		"a-b":        "a_b",
		"operator":   "operator",
		"cafe\u0301": "caf\u00e9",
	}
	for in, want := range cases {
		if got := ident(in); got != want {
			t.Fatalf("ident(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObjCInterface(t *testing.T) {
	b := ir.NewBuilder()
	cint := b.Int(ir.IntInt)
	b.ObjCInterface(b.Root(), "NSFoo",
		ir.ObjCMethod{Selector: "length", Signature: b.FunctionType(cint)},
		ir.ObjCMethod{Selector: "setWidth:height:", Signature: b.FunctionType(b.Void(),
			ir.Arg{Name: "w", Type: cint}, ir.Arg{Name: "h", Type: cint})},
		ir.ObjCMethod{Selector: "reset", Signature: b.FunctionType(b.Void()), IsClass: true},
	)

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, "pub type id = *mut objc::runtime::Object;\n")
	mustContain(t, out.Source, "pub struct NSFoo(pub id);\n")
	mustContain(t, out.Source, "impl INSFoo for NSFoo {}\n")
	mustContain(t, out.Source, "pub trait INSFoo: Sized + ::std::ops::Deref {\n")
	mustContain(t, out.Source, "    unsafe fn length(&self) -> ::std::os::raw::c_int\n")
	mustContain(t, out.Source, "        msg_send!(*self, setWidth: w height: h)\n")
	mustContain(t, out.Source, "    unsafe fn reset()\n")
	mustContain(t, out.Source, "        msg_send!(class!(NSFoo), reset)\n")
}

func TestComplexUsesHelper(t *testing.T) {
	b := ir.NewBuilder()
	b.Var(b.Root(), "z", b.Complex(ir.FloatDouble))

	out, _ := generate(t, b, nil)
	mustContain(t, out.Source, "pub struct __BindgenComplex<T> {\n    pub re: T,\n    pub im: T,\n}\n")
	mustContain(t, out.Source, "    pub static mut z: __BindgenComplex<f64>;\n")
}
