// Package derive turns per-type capability facts into the derive list and
// the hand-written trait implementations of an emitted declaration.
package derive

import "bindgen/internal/ir"

// Trait names in emission order.
const (
	Debug      = "Debug"
	Default    = "Default"
	Copy       = "Copy"
	Clone      = "Clone"
	Hash       = "Hash"
	PartialOrd = "PartialOrd"
	Ord        = "Ord"
	PartialEq  = "PartialEq"
	Eq         = "Eq"
)

var order = []string{Debug, Default, Copy, Clone, Hash, PartialOrd, Ord, PartialEq, Eq}

// Options are the run-wide derive switches.
type Options struct {
	Copy       bool
	Debug      bool
	Default    bool
	Hash       bool
	PartialEq  bool
	Eq         bool
	PartialOrd bool
	Ord        bool
	// Templated allows deriving on generic declarations.
	Templated bool
	// Custom traits are appended after the built-in ones.
	Custom []string
}

// DefaultOptions mirrors the usual generator defaults: Copy and Debug only.
func DefaultOptions() Options {
	return Options{Copy: true, Debug: true}
}

// Input describes one declaration.
type Input struct {
	Facts ir.Facts
	Ann   ir.Annotations
	// Packed aggregates may only derive Copy.
	Packed bool
	// Generic is set when the declaration has used template parameters.
	Generic bool
	// RustUnion is set for untagged unions, which can derive Copy and Clone only.
	RustUnion bool
	// Withheld holds traits some field, base or instantiation argument of
	// the declaration does not implement in the emitted code.
	Withheld Set
	Options  Options
}

// Set is a set of trait names.
type Set map[string]bool

func (s Set) add(other Set) Set {
	if len(other) == 0 {
		return s
	}
	if s == nil {
		s = make(Set, len(other))
	}
	for t := range other {
		s[t] = true
	}
	return s
}

// Union returns the traits in any of the sets, or nil when all are empty.
func Union(sets ...Set) Set {
	var out Set
	for _, s := range sets {
		out = out.add(s)
	}
	return out
}

// Manual lists the traits that need a hand-written impl block.
type Manual struct {
	Clone     bool
	Debug     bool
	Default   bool
	Hash      bool
	PartialEq bool
	Eq        bool
}

// Any reports whether at least one manual impl is needed.
func (m Manual) Any() bool {
	return m.Clone || m.Debug || m.Default || m.Hash || m.PartialEq || m.Eq
}

// Selection is the result of Select.
type Selection struct {
	Derives []string
	Manual  Manual
}

// Has reports whether trait is derived.
func (s Selection) Has(trait string) bool {
	for _, d := range s.Derives {
		if d == trait {
			return true
		}
	}
	return false
}

// Select decides the derives of an aggregate.
func Select(in Input) Selection {
	f, a, o, w := in.Facts, in.Ann, in.Options, in.Withheld
	want := map[string]bool{}
	var man Manual

	canCopy := f.CanDeriveCopy && !a.NoCopy && o.Copy && !w[Copy] && !w[Clone]
	if canCopy {
		want[Copy] = true
		if in.Packed || (in.Generic && !o.Templated) {
			man.Clone = true
		} else {
			want[Clone] = true
		}
	}
	if f.CanDeriveDefault && !a.NoDefault && o.Default {
		man.Default = true
	}

	switch {
	case in.RustUnion:
		// Copy and Clone only.
	case in.Packed:
		if canCopy {
			man.Debug = f.CanDeriveDebug && !a.NoDebug && o.Debug
			man.Hash = f.CanDeriveHash && !a.NoHash && o.Hash
			man.PartialEq = f.CanDerivePartialEq && !a.NoPartialEq && o.PartialEq
			man.Eq = man.PartialEq && f.CanDeriveEq && o.Eq
		}
	case in.Generic && !o.Templated:
		// Nothing beyond Copy is derived on generic declarations.
	default:
		want[Debug] = f.CanDeriveDebug && !a.NoDebug && o.Debug
		want[Hash] = f.CanDeriveHash && !a.NoHash && o.Hash
		want[PartialEq] = f.CanDerivePartialEq && !a.NoPartialEq && o.PartialEq
		want[Eq] = want[PartialEq] && f.CanDeriveEq && o.Eq
		want[PartialOrd] = f.CanDerivePartialOrd && o.PartialOrd && want[PartialEq]
		want[Ord] = want[PartialOrd] && want[Eq] && f.CanDeriveOrd && o.Ord
	}

	for t := range w {
		delete(want, t)
	}
	want[Eq] = want[Eq] && want[PartialEq]
	want[PartialOrd] = want[PartialOrd] && want[PartialEq]
	want[Ord] = want[Ord] && want[PartialOrd] && want[Eq]
	man.Debug = man.Debug && !w[Debug]
	man.Hash = man.Hash && !w[Hash]
	man.PartialEq = man.PartialEq && !w[PartialEq]
	man.Eq = man.Eq && man.PartialEq && !w[Eq]

	sel := Selection{Manual: man}
	for _, t := range order {
		if want[t] {
			sel.Derives = append(sel.Derives, t)
		}
	}
	sel.Derives = appendCustom(sel.Derives, o.Custom, a.Derives)
	return sel
}

// Provides reports whether the emitted declaration implements trait,
// either derived or by hand.
func (s Selection) Provides(trait string) bool {
	switch trait {
	case Clone:
		if s.Manual.Clone {
			return true
		}
	case Debug:
		if s.Manual.Debug {
			return true
		}
	case Hash:
		if s.Manual.Hash {
			return true
		}
	case PartialEq:
		if s.Manual.PartialEq {
			return true
		}
	case Eq:
		if s.Manual.Eq {
			return true
		}
	}
	return s.Has(trait)
}

// Missing returns the built-in traits, Default aside, that a declaration
// with the given derive list and manual impls does not implement. Default
// is always written by hand with zeroed memory and needs nothing from the
// fields.
func Missing(sel Selection) Set {
	var out Set
	for _, t := range order {
		if t == Default || sel.Provides(t) {
			continue
		}
		if out == nil {
			out = Set{}
		}
		out[t] = true
	}
	return out
}

// ForEnum returns the derive list of a native enum or enum newtype.
func ForEnum(o Options, ann ir.Annotations) []string {
	out := []string{}
	if o.Debug && !ann.NoDebug {
		out = append(out, Debug)
	}
	out = append(out, Copy, Clone)
	if o.Hash && !ann.NoHash {
		out = append(out, Hash)
	}
	out = append(out, PartialEq, Eq)
	return appendCustom(out, o.Custom, ann.Derives)
}

func appendCustom(out []string, lists ...[]string) []string {
	seen := make(map[string]bool, len(out))
	for _, d := range out {
		seen[d] = true
	}
	for _, list := range lists {
		for _, d := range list {
			if d == "" || seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
