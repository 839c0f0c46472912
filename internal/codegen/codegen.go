// Package codegen walks a declaration graph and emits layout-compatible Rust
// bindings.
//
// The walk is a single depth-first traversal from the root module. Each
// item kind has its own emitter; emitters append finished declarations to a
// Result, consult the layout tracker and the derive selector, and report
// skipped or degraded declarations through a diag.Reporter. Generation never
// fails because of a single declaration: the only errors are malformed graphs
// (ContractError).
package codegen

import (
	"context"
	"fmt"
	"strings"

	"bindgen/internal/config"
	"bindgen/internal/derive"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/trace"
)

// Header is the first line of every generated file.
const Header = "/* automatically generated by bindgen */"

// Output is the result of one generation run.
type Output struct {
	// Source is the generated Rust module.
	Source string
	// WrapperSource is the C file of static function wrappers, empty when
	// no function needed one.
	WrapperSource string
	// Items counts the top-level declarations emitted.
	Items int
}

// ContractError reports a graph the front end should never have produced.
type ContractError struct {
	Item ir.ItemID
	Msg  string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("malformed graph at item #%d: %s", e.Item, e.Msg)
}

func contractf(id ir.ItemID, format string, args ...any) {
	panic(&ContractError{Item: id, Msg: fmt.Sprintf(format, args...)})
}

// generator holds the read-only inputs of a run. Mutable state lives in
// Result and is threaded explicitly.
type generator struct {
	g        *ir.Graph
	opts     *config.Options
	reporter diag.Reporter
	tracer   trace.Tracer
	span     uint64
	names    *names

	// warned holds instantiations already reported as opaque.
	warned map[ir.ItemID]bool
	// missing memoizes missingTraits per canonical type.
	missing map[ir.ItemID]derive.Set
}

// Generate emits bindings for every item reachable from the graph root.
func Generate(ctx context.Context, g *ir.Graph, opts *config.Options, reporter diag.Reporter) (out *Output, err error) {
	if g == nil {
		return nil, fmt.Errorf("nil graph")
	}
	if opts == nil {
		def := config.Default()
		opts = &def
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	gen := &generator{
		g:        g,
		opts:     opts,
		reporter: diag.NewDedupReporter(reporter),
		tracer:   trace.FromContext(ctx),
		span:     trace.CurrentSpan(ctx),
		warned:   make(map[ir.ItemID]bool),
		missing:  make(map[ir.ItemID]derive.Set),
	}
	res := newResult()
	gen.names = newNames(gen, res.shared)

	defer func() {
		if r := recover(); r != nil {
			cerr, ok := r.(*ContractError)
			if !ok {
				panic(r)
			}
			out, err = nil, cerr
		}
	}()

	root := g.Item(g.Root)
	if root == nil || root.Kind != ir.ItemModule {
		contractf(g.Root, "root is not a module")
	}

	span := trace.Begin(gen.tracer, trace.ScopeModule, gen.span, "module:root")
	gen.emitModuleChildren(res, root)
	span.Set(trace.Int("items", len(res.items))).End("ok")

	return &Output{
		Source:        gen.assemble(res),
		WrapperSource: gen.wrapperSource(res),
		Items:         len(res.items),
	}, nil
}

func (gen *generator) assemble(res *Result) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	for _, line := range gen.opts.RawLines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(gen.opts.RawLines) > 0 {
		b.WriteString("\n")
	}

	var body []string
	body = append(body, gen.helpers(res.flags)...)
	body = append(body, res.items...)
	if dyn := gen.dynamicLibrary(res); dyn != "" {
		body = append(body, dyn)
	}

	if gen.opts.EnableCxxNamespaces {
		b.WriteString(moduleBlock("root", 0, body))
		return b.String()
	}
	for _, item := range body {
		b.WriteString(item)
	}
	return b.String()
}

// moduleBlock wraps items into `pub mod name { ... }` with the root import
// every namespace module carries. depth is the number of modules between
// this one and root.
func moduleBlock(name string, depth int, items []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pub mod %s {\n", name)
	b.WriteString("    #[allow(unused_imports)]\n")
	fmt.Fprintf(&b, "    use self::%sroot;\n", strings.Repeat("super::", depth+1))
	for _, item := range items {
		b.WriteString(indent(item))
	}
	b.WriteString("}\n")
	return b.String()
}

func indent(text string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if line != "\n" {
			b.WriteString("    ")
		}
		b.WriteString(line)
	}
	return b.String()
}

func (gen *generator) emitModuleChildren(res *Result, mod *ir.Item) {
	for _, child := range mod.Module.Children {
		gen.emitItem(res, child)
	}
}

// emitItem dispatches on the item kind.
func (gen *generator) emitItem(res *Result, id ir.ItemID) {
	it := gen.g.Item(id)
	if it == nil {
		contractf(id, "reference to missing item")
	}
	switch it.Kind {
	case ir.ItemModule:
		gen.emitModule(res, it)
	case ir.ItemFunction:
		if it.Function.IsMethod() {
			// Methods are emitted by their aggregate.
			return
		}
		gen.emitFunction(res, it)
	case ir.ItemVar:
		gen.emitVar(res, it)
	case ir.ItemType:
		gen.emitType(res, it)
	default:
		contractf(id, "unknown item kind %d", it.Kind)
	}
}

func (gen *generator) emitModule(res *Result, it *ir.Item) {
	if res.Seen(it.ID) {
		return
	}
	res.SetSeen(it.ID)
	if !gen.opts.EnableCxxNamespaces || it.Module.Kind == ir.ModuleInline || it.Name == "" {
		gen.emitModuleChildren(res, it)
		return
	}
	span := trace.Begin(gen.tracer, trace.ScopeModule, gen.span, "module:"+it.Name)
	inner := res.Inner(func(r *Result) {
		gen.emitModuleChildren(r, it)
	})
	span.Set(trace.Int("items", len(inner))).End("ok")
	if len(inner) == 0 {
		return
	}
	res.Push(moduleBlock(gen.names.ident(it.Name), len(gen.names.modulePath(it.ID)), inner))
}

func (gen *generator) emitType(res *Result, it *ir.Item) {
	t := it.Type
	switch t.Kind {
	case ir.TypeComp:
		gen.emitComp(res, it)
	case ir.TypeEnum:
		gen.emitEnum(res, it)
	case ir.TypeAlias:
		gen.emitAlias(res, it)
	case ir.TypeInstantiation:
		gen.emitInstantiationTest(res, it)
	case ir.TypeObjCInterface:
		gen.emitObjCInterface(res, it)
	case ir.TypeUnresolvedRef:
		contractf(it.ID, "unresolved type reference %q reached the generator", it.Name)
	case ir.TypeVoid, ir.TypeNullPtr, ir.TypeInt, ir.TypeFloat, ir.TypeComplex,
		ir.TypePointer, ir.TypeReference, ir.TypeArray, ir.TypeOpaqueBlob,
		ir.TypeFunction, ir.TypeParam, ir.TypeObjCID, ir.TypeObjCSel:
		// Referenced inline; nothing to declare.
	default:
		contractf(it.ID, "unknown type kind %d", t.Kind)
	}
}

// point emits a debug-level trace event for one item.
func (gen *generator) point(it *ir.Item, what string) {
	trace.Point(gen.tracer, trace.ScopeItem, gen.span, what+":"+it.Name, trace.Int("id", int(it.ID)))
}

func (gen *generator) subject(it *ir.Item) diag.Subject {
	return diag.Subject{Item: it.ID, Name: it.Name}
}

func (gen *generator) warn(it *ir.Item, code diag.Code, format string, args ...any) {
	gen.reporter.Report(diag.Warnf(code, gen.subject(it), format, args...))
}

func (gen *generator) info(it *ir.Item, code diag.Code, format string, args ...any) {
	gen.reporter.Report(diag.Infof(code, gen.subject(it), format, args...))
}

// comment renders a doc comment block, or nothing when comments are off.
func (gen *generator) comment(text, prefix string) string {
	text = strings.TrimSpace(text)
	if !gen.opts.GenerateComments || text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			fmt.Fprintf(&b, "%s///\n", prefix)
			continue
		}
		fmt.Fprintf(&b, "%s/// %s\n", prefix, line)
	}
	return b.String()
}
