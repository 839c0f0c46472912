package codegen

import (
	"strconv"

	"bindgen/internal/ir"
)

// features records which helper declarations the output needs.
type features struct {
	bitfieldUnit    bool
	unionField      bool
	incompleteArray bool
	complex         bool
	objc            bool
}

func (f *features) merge(o features) {
	f.bitfieldUnit = f.bitfieldUnit || o.bitfieldUnit
	f.unionField = f.unionField || o.unionField
	f.incompleteArray = f.incompleteArray || o.incompleteArray
	f.complex = f.complex || o.complex
	f.objc = f.objc || o.objc
}

// counters is shared by a Result and every accumulator forked from it, so
// fresh names stay unique across the whole run.
type counters struct {
	next      int
	overloads map[string]int
	used      map[string]bool
}

// dynamicFn is a function routed through the dynamic library struct.
type dynamicFn struct {
	name     string // field and method name
	symbol   string // symbol looked up in the library
	args     string
	params   []string // argument names, for the forwarding call
	ret      string   // " -> T" or ""
	abi      string
	variadic bool
	doc      string
	mustUse  bool
}

// wrapperFn is a static function that needs a C wrapper with external
// linkage.
type wrapperFn struct {
	item *ir.Item
}

// Result accumulates generated declarations in append order.
type Result struct {
	items []string

	seen      map[ir.ItemID]bool
	seenFuncs map[string]bool
	seenVars  map[string]bool

	flags    features
	shared   *counters
	dynamic  []dynamicFn
	wrappers []wrapperFn
}

func newResult() *Result {
	return &Result{
		seen:      make(map[ir.ItemID]bool),
		seenFuncs: make(map[string]bool),
		seenVars:  make(map[string]bool),
		shared: &counters{
			overloads: make(map[string]int),
			used:      make(map[string]bool),
		},
	}
}

// Push appends one finished declaration.
func (r *Result) Push(text string) {
	if text == "" {
		return
	}
	r.items = append(r.items, text)
}

// Seen reports whether the item was already generated in this scope.
func (r *Result) Seen(id ir.ItemID) bool { return r.seen[id] }

// SetSeen marks the item generated.
func (r *Result) SetSeen(id ir.ItemID) { r.seen[id] = true }

// SeenFunction reports whether a function with this link name was emitted.
func (r *Result) SeenFunction(link string) bool { return r.seenFuncs[link] }

// SawFunction records an emitted function link name.
func (r *Result) SawFunction(link string) { r.seenFuncs[link] = true }

// SeenVar reports whether a variable with this link name was emitted.
func (r *Result) SeenVar(link string) bool { return r.seenVars[link] }

// SawVar records an emitted variable link name.
func (r *Result) SawVar(link string) { r.seenVars[link] = true }

// NextID returns a fresh run-wide number, starting at 1.
func (r *Result) NextID() int {
	r.shared.next++
	return r.shared.next
}

// Unique returns base the first time it is requested and base1, base2, ...
// afterwards, skipping any name already handed out in this run.
func (r *Result) Unique(base string) string {
	s := r.shared
	n := s.overloads[base]
	name := base
	if n > 0 {
		name = base + strconv.Itoa(n)
	}
	for s.used[name] {
		n++
		name = base + strconv.Itoa(n)
	}
	s.overloads[base] = n + 1
	s.used[name] = true
	return name
}

// Inner runs fn against a fresh accumulator sharing this one's counters.
// Feature flags and deferred work are merged back; the produced declarations
// are returned for the caller to place.
func (r *Result) Inner(fn func(*Result)) []string {
	inner := &Result{
		seen:      make(map[ir.ItemID]bool),
		seenFuncs: make(map[string]bool),
		seenVars:  make(map[string]bool),
		shared:    r.shared,
	}
	fn(inner)
	r.flags.merge(inner.flags)
	r.dynamic = append(r.dynamic, inner.dynamic...)
	r.wrappers = append(r.wrappers, inner.wrappers...)
	return inner.items
}
