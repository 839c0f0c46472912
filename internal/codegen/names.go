package codegen

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"bindgen/internal/ir"
)

var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "abstract": true, "become": true,
	"box": true, "do": true, "final": true, "macro": true, "override": true,
	"priv": true, "try": true, "typeof": true, "unsized": true, "virtual": true,
	"yield": true, "union": true, "gen": true, "_": true,
}

// sanitize turns an arbitrary native name into a valid identifier body.
func sanitize(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

// ident returns a valid Rust identifier for name.
func ident(name string) string {
	s := sanitize(name)
	if rustKeywords[s] {
		return s + "_"
	}
	return s
}

// names computes canonical names and paths. Results are cached per item;
// anonymous declarations draw numbers from the run-wide counter on first
// use.
type names struct {
	gen    *generator
	shared *counters
	cache  map[ir.ItemID]string
}

func newNames(gen *generator, shared *counters) *names {
	return &names{gen: gen, shared: shared, cache: make(map[ir.ItemID]string)}
}

func (n *names) ident(name string) string { return ident(name) }

// canonical is the flat name of an item inside its module: enclosing
// aggregates are prefixed with '_', and so are namespaces unless they are
// emitted as modules.
func (n *names) canonical(id ir.ItemID) string {
	if s, ok := n.cache[id]; ok {
		return s
	}
	it := n.gen.g.Item(id)
	if it == nil {
		contractf(id, "reference to missing item")
	}
	var base string
	switch {
	case it.Kind == ir.ItemType && it.Type.Kind == ir.TypeParam:
		s := ident(it.Name)
		n.cache[id] = s
		return s
	case it.Kind == ir.ItemFunction && isDestructor(it.Function.Method):
		parent := n.gen.g.Item(it.Parent)
		raw := strings.TrimPrefix(it.Name, "~")
		if parent != nil && parent.Name != "" {
			raw = parent.Name
		}
		base = sanitize(raw) + "_destructor"
	case it.Name == "":
		n.shared.next++
		base = "_bindgen_ty_" + strconv.Itoa(n.shared.next)
	default:
		base = sanitize(it.Name)
	}
	name := base
	if prefix := n.prefix(it.Parent); prefix != "" {
		name = prefix + "_" + base
	}
	name = ident(name)
	n.cache[id] = name
	return name
}

func (n *names) prefix(parent ir.ItemID) string {
	p := n.gen.g.Item(parent)
	if p == nil || parent == n.gen.g.Root {
		return ""
	}
	switch p.Kind {
	case ir.ItemType, ir.ItemFunction:
		return n.canonical(parent)
	case ir.ItemModule:
		if p.Name == "" || p.Module.Kind == ir.ModuleInline || n.gen.opts.EnableCxxNamespaces {
			return n.prefix(p.Parent)
		}
		outer := n.prefix(p.Parent)
		if outer == "" {
			return sanitize(p.Name)
		}
		return outer + "_" + sanitize(p.Name)
	}
	return ""
}

// path is the name used to refer to an item from anywhere in the output.
func (n *names) path(id ir.ItemID) string {
	name := n.canonical(id)
	if !n.gen.opts.EnableCxxNamespaces {
		return name
	}
	it := n.gen.g.Item(id)
	if it.Kind == ir.ItemType && it.Type.Kind == ir.TypeParam {
		return name
	}
	segs := n.modulePath(it.Parent)
	segs = append(segs, name)
	return "root::" + strings.Join(segs, "::")
}

// modulePath lists the emitted modules enclosing id, outermost first.
func (n *names) modulePath(id ir.ItemID) []string {
	var segs []string
	for cur := n.gen.g.Item(id); cur != nil && cur.ID != n.gen.g.Root; cur = n.gen.g.Item(cur.Parent) {
		if cur.Kind == ir.ItemModule && cur.Name != "" && cur.Module.Kind != ir.ModuleInline {
			segs = append([]string{ident(cur.Name)}, segs...)
		}
	}
	return segs
}

// helper renders the path of a generated helper type.
func (n *names) helper(name string) string {
	if n.gen.opts.EnableCxxNamespaces {
		return "root::" + name
	}
	return name
}

func isDestructor(k ir.MethodKind) bool {
	return k == ir.MethodDestructor || k == ir.MethodVirtualDestructor
}
