package codegen

import (
	"fmt"
	"strings"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

// emitFunction declares a function symbol and returns the Rust name it was
// declared under. It reports false when the function was skipped.
func (gen *generator) emitFunction(res *Result, it *ir.Item) (string, bool) {
	f := it.Function
	ann := gen.opts.Annotate(it.Name, it.Annotations)
	if ann.Hide {
		gen.info(it, diag.CgnHidden, "function %s is hidden", it.Name)
		return "", false
	}
	if !f.IsMethod() && !gen.opts.Generate.Functions {
		return "", false
	}
	sig := gen.signature(f.Signature)
	wrapped := false
	if f.Linkage == ir.LinkageInternal {
		if !gen.opts.WrapStaticFns {
			gen.info(it, diag.CgnInternalSymbol, "%s has internal linkage and no wrapper was requested", it.Name)
			return "", false
		}
		if sig.IsVariadic {
			gen.warn(it, diag.CgnVariadicInternal, "cannot wrap variadic static function %s", it.Name)
			return "", false
		}
		wrapped = true
	}
	if f.IsPure {
		gen.info(it, diag.CgnPureVirtual, "pure virtual %s has no symbol", it.Name)
		return "", false
	}
	if gen.isTemplateFunction(f.Signature) {
		gen.info(it, diag.CgnTemplateFunction, "%s depends on template parameters", it.Name)
		return "", false
	}
	symbol := gen.symbolOf(it)
	if res.SeenFunction(symbol) {
		gen.info(it, diag.CgnDuplicateLinkName, "symbol %s was already declared", symbol)
		return "", false
	}
	if !gen.supportedABI(sig.ABI) {
		gen.warn(it, diag.CgnUnsupportedABI, "%s uses the %s calling convention, which is not supported for %s",
			it.Name, sig.ABI, gen.opts.Target.Triple)
		return "", false
	}
	if wrapped {
		if reason, ok := gen.canWrap(sig); !ok {
			gen.warn(it, diag.CgnWrapperType, "cannot wrap %s: %s", it.Name, reason)
			return "", false
		}
	}
	res.SawFunction(symbol)
	gen.point(it, "function")

	name := res.Unique(gen.names.canonical(it.ID))
	ps := gen.params(res, sig, 0)
	ret := gen.retType(res, sig)

	var linkName string
	switch {
	case wrapped:
		linkName = it.Name + gen.opts.WrapStaticFnsSuffix
		res.wrappers = append(res.wrappers, wrapperFn{item: it})
	case !elidableLinkName(name, symbol, sig.ABI):
		linkName = "\\u{1}" + symbol
	}

	if gen.opts.DynamicLibraryName != "" {
		dsym := symbol
		if wrapped {
			dsym = linkName
		}
		res.dynamic = append(res.dynamic, dynamicFn{
			name:     name,
			symbol:   dsym,
			args:     joinParams(ps, sig.IsVariadic),
			params:   paramNames(ps),
			ret:      ret,
			abi:      abiString(sig.ABI),
			variadic: sig.IsVariadic,
			doc:      gen.comment(it.Comment, "    "),
			mustUse:  sig.MustUse || ann.MustUse,
		})
		return name, true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "extern \"%s\" {\n", abiString(sig.ABI))
	b.WriteString(gen.comment(it.Comment, "    "))
	if linkName != "" {
		fmt.Fprintf(&b, "    #[link_name = \"%s\"]\n", linkName)
	}
	if sig.MustUse || ann.MustUse {
		b.WriteString("    #[must_use]\n")
	}
	fmt.Fprintf(&b, "    pub fn %s(%s)%s;\n", name, joinParams(ps, sig.IsVariadic), ret)
	b.WriteString("}\n")
	res.Push(b.String())
	return name, true
}

// symbolOf is the native symbol a function binds to.
func (gen *generator) symbolOf(it *ir.Item) string {
	switch f := it.Function; {
	case f.LinkName != "":
		return f.LinkName
	case f.MangledName != "":
		return f.MangledName
	}
	return it.Name
}

// elidableLinkName reports whether the symbol can be reached through the
// declared name alone, so no #[link_name] is needed. Platform decorations
// (a leading underscore, stdcall/fastcall/vectorcall suffixes) are added
// back by the compiler.
func elidableLinkName(name, symbol string, abi ir.ABI) bool {
	if symbol == name {
		return true
	}
	switch abi {
	case ir.ABIC, ir.ABICUnwind:
		return symbol == "_"+name
	case ir.ABIStdcall:
		return decorated(symbol, "_"+name+"@")
	case ir.ABIFastcall:
		return decorated(symbol, "@"+name+"@")
	case ir.ABIVectorcall:
		return decorated(symbol, name+"@@")
	}
	return false
}

// decorated reports whether symbol is prefix followed by a byte count.
func decorated(symbol, prefix string) bool {
	rest, ok := strings.CutPrefix(symbol, prefix)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (gen *generator) supportedABI(abi ir.ABI) bool {
	switch abi {
	case ir.ABIVectorcall, ir.ABIUnknown:
		return false
	case ir.ABIThiscall:
		return strings.HasPrefix(gen.opts.Target.Triple, "i686")
	}
	return true
}

// isTemplateFunction reports whether a signature mentions a template
// parameter anywhere.
func (gen *generator) isTemplateFunction(sigID ir.ItemID) bool {
	sig := gen.signature(sigID)
	if gen.dependsOnParam(sig.Return, 0) {
		return true
	}
	for _, a := range sig.Args {
		if gen.dependsOnParam(a.Type, 0) {
			return true
		}
	}
	return false
}

func (gen *generator) dependsOnParam(id ir.ItemID, depth int) bool {
	if !id.Valid() || depth > 64 {
		return false
	}
	t := gen.g.Type(id)
	if t == nil {
		return false
	}
	switch t.Kind {
	case ir.TypeParam:
		return true
	case ir.TypePointer, ir.TypeReference, ir.TypeArray, ir.TypeComplex:
		return gen.dependsOnParam(t.Inner, depth+1)
	case ir.TypeAlias:
		it := gen.g.Item(id)
		if it.Name != "" {
			return len(it.Facts.UsedTemplateParams) > 0 && gen.dependsOnParam(t.Inner, depth+1)
		}
		return gen.dependsOnParam(t.Inner, depth+1)
	case ir.TypeInstantiation:
		for _, a := range t.Instantiation.Args {
			if gen.dependsOnParam(a, depth+1) {
				return true
			}
		}
	case ir.TypeFunction:
		sig := t.Signature
		if gen.dependsOnParam(sig.Return, depth+1) {
			return true
		}
		for _, a := range sig.Args {
			if gen.dependsOnParam(a.Type, depth+1) {
				return true
			}
		}
	}
	return false
}

// emitMethods declares the symbols behind an aggregate's C++ members and
// queues the inherent methods forwarding to them.
func (ce *compEmitter) emitMethods() {
	gen, res := ce.gen, ce.res
	for _, m := range ce.c.Methods {
		fit := gen.item(m.Function)
		if fit.Kind != ir.ItemFunction {
			contractf(fit.ID, "method is a %s", fit.Kind)
		}
		if !gen.methodKindEnabled(m.Kind) {
			continue
		}
		if m.Kind == ir.MethodVirtual {
			// Dispatched through the vtable.
			continue
		}
		if m.IsPure {
			gen.info(fit, diag.CgnPureVirtual, "pure virtual %s has no symbol", fit.Name)
			continue
		}
		if ce.generic {
			gen.info(fit, diag.CgnTemplateFunction, "%s is a member of a generic aggregate", fit.Name)
			continue
		}
		fnName, ok := gen.emitFunction(res, fit)
		if !ok || gen.opts.DynamicLibraryName != "" {
			continue
		}
		sig := gen.signature(fit.Function.Signature)
		if sig.IsVariadic {
			gen.info(fit, diag.CgnVariadicMethod, "variadic %s is declared but gets no method", fit.Name)
			continue
		}
		ce.method(m, fit, fnName, sig)
	}
}

func (gen *generator) methodKindEnabled(k ir.MethodKind) bool {
	switch k {
	case ir.MethodConstructor:
		return gen.opts.Generate.Constructors
	case ir.MethodDestructor, ir.MethodVirtualDestructor:
		return gen.opts.Generate.Destructors
	}
	return gen.opts.Generate.Methods
}

func (ce *compEmitter) method(m ir.Method, fit *ir.Item, fnName string, sig *ir.Signature) {
	gen, res := ce.gen, ce.res
	var base string
	switch {
	case m.Kind == ir.MethodConstructor:
		base = "new"
	case isDestructor(m.Kind):
		base = "destruct"
	default:
		base = ident(fit.Name)
	}
	name := base
	if n := ce.methods[base]; n > 0 {
		name = fmt.Sprintf("%s%d", base, n)
	}
	ce.methods[base]++

	static := m.Kind == ir.MethodStatic
	skip := 1
	if static {
		skip = 0
	} else if len(sig.Args) == 0 {
		contractf(fit.ID, "method %s lacks a this pointer", fit.Name)
	}
	ps := gen.params(res, sig, skip)
	call := paramNames(ps)

	b := &ce.impl
	b.WriteString(gen.comment(fit.Comment, "    "))
	b.WriteString("    #[inline]\n")
	switch {
	case m.Kind == ir.MethodConstructor:
		fmt.Fprintf(b, "    pub unsafe fn %s(%s) -> Self {\n", name, joinParams(ps, false))
		b.WriteString("        let mut __bindgen_tmp = ::std::mem::MaybeUninit::uninit();\n")
		fmt.Fprintf(b, "        %s(%s);\n", fnName, strings.Join(append([]string{"__bindgen_tmp.as_mut_ptr()"}, call...), ", "))
		b.WriteString("        __bindgen_tmp.assume_init()\n")
	case static:
		fmt.Fprintf(b, "    pub unsafe fn %s(%s)%s {\n", name, joinParams(ps, false), gen.retType(res, sig))
		fmt.Fprintf(b, "        %s(%s)\n", fnName, strings.Join(call, ", "))
	default:
		recv := "&mut self"
		if m.IsConst {
			recv = "&self"
		}
		args := joinParams(ps, false)
		if args != "" {
			args = recv + ", " + args
		} else {
			args = recv
		}
		fmt.Fprintf(b, "    pub unsafe fn %s(%s)%s {\n", name, args, gen.retType(res, sig))
		fmt.Fprintf(b, "        %s(%s)\n", fnName, strings.Join(append([]string{"self"}, call...), ", "))
	}
	b.WriteString("    }\n")
}
