// Package config holds the run-wide options of the generator and loads them
// from a bindgen.toml file.
package config

import (
	"regexp"

	"bindgen/internal/derive"
	"bindgen/internal/ir"
	"bindgen/internal/layout"
)

// Visibility of emitted fields.
type Visibility uint8

const (
	VisPublic Visibility = iota
	VisCrate
	VisPrivate
)

// Keyword returns the Rust visibility prefix, including a trailing space
// when non-empty.
func (v Visibility) Keyword() string {
	switch v {
	case VisCrate:
		return "pub(crate) "
	case VisPrivate:
		return ""
	}
	return "pub "
}

// ParseVisibility maps "public", "crate" or "private".
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "public", "pub", "":
		return VisPublic, true
	case "crate":
		return VisCrate, true
	case "private":
		return VisPrivate, true
	}
	return VisPublic, false
}

// ItemKinds selects which declaration kinds are generated.
type ItemKinds struct {
	Functions    bool
	Types        bool
	Vars         bool
	Methods      bool
	Constructors bool
	Destructors  bool
}

// AllItems enables every kind.
func AllItems() ItemKinds {
	return ItemKinds{Functions: true, Types: true, Vars: true, Methods: true, Constructors: true, Destructors: true}
}

// Patterns is an ordered set of anchored regular expressions.
type Patterns []*regexp.Regexp

// Match reports whether any pattern matches name.
func (p Patterns) Match(name string) bool {
	for _, re := range p {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// EnumRule applies Style to enums whose name matches Pattern.
type EnumRule struct {
	Style   ir.EnumStyle
	Pattern *regexp.Regexp
}

// Options are the run-wide generation options.
type Options struct {
	Visibility          Visibility
	GenerateComments    bool
	EnableCxxNamespaces bool
	RawLines            []string
	CtypesPrefix        string
	Generate            ItemKinds

	DefaultEnumStyle ir.EnumStyle
	EnumRules        []EnumRule

	Derive derive.Options

	LayoutTests     bool
	Target          layout.Target
	ExplicitPadding bool
	// UntaggedUnions emits Rust unions where possible instead of the
	// __BindgenUnionField helper.
	UntaggedUnions bool

	DefaultAccessor ir.AccessorKind

	// DynamicLibraryName, when set, switches functions to a libloading struct.
	DynamicLibraryName string
	DynamicRequireAll  bool

	WrapStaticFns       bool
	WrapStaticFnsPath   string
	WrapStaticFnsSuffix string
	WrapHeaders         []string

	VTableGeneration bool

	Opaque      Patterns
	NoCopy      Patterns
	NoDebug     Patterns
	NoDefault   Patterns
	NoHash      Patterns
	NoPartialEq Patterns
	MustUse     Patterns
}

// Default returns the options used when no configuration is given.
func Default() Options {
	return Options{
		Visibility:          VisPublic,
		GenerateComments:    true,
		CtypesPrefix:        "::std::os::raw",
		Generate:            AllItems(),
		DefaultEnumStyle:    ir.EnumStyleConsts,
		Derive:              derive.DefaultOptions(),
		LayoutTests:         true,
		Target:              layout.X86_64LinuxGNU(),
		UntaggedUnions:      true,
		DefaultAccessor:     ir.AccessorNone,
		WrapStaticFnsPath:   "extern",
		WrapStaticFnsSuffix: "__extern",
	}
}

// EnumStyleFor resolves the emission policy of a named enum: annotation
// first, then the first matching rule, then the default.
func (o *Options) EnumStyleFor(name string, ann ir.EnumStyle) ir.EnumStyle {
	if ann != ir.EnumStyleUnset {
		return ann
	}
	if name != "" {
		for _, r := range o.EnumRules {
			if r.Pattern.MatchString(name) {
				return r.Style
			}
		}
	}
	if o.DefaultEnumStyle == ir.EnumStyleUnset {
		return ir.EnumStyleConsts
	}
	return o.DefaultEnumStyle
}

// Annotate merges the name-based pattern lists into an item's annotations.
func (o *Options) Annotate(name string, ann ir.Annotations) ir.Annotations {
	if name == "" {
		return ann
	}
	ann.Opaque = ann.Opaque || o.Opaque.Match(name)
	ann.NoCopy = ann.NoCopy || o.NoCopy.Match(name)
	ann.NoDebug = ann.NoDebug || o.NoDebug.Match(name)
	ann.NoDefault = ann.NoDefault || o.NoDefault.Match(name)
	ann.NoHash = ann.NoHash || o.NoHash.Match(name)
	ann.NoPartialEq = ann.NoPartialEq || o.NoPartialEq.Match(name)
	ann.MustUse = ann.MustUse || o.MustUse.Match(name)
	return ann
}

// Compile turns a list of patterns into anchored regexps.
func Compile(patterns []string) (Patterns, error) {
	out := make(Patterns, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}
