package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/layout"
)

// FileName is the configuration file looked up by Find.
const FileName = "bindgen.toml"

// Error is a configuration problem tied to a key.
type Error struct {
	Path string
	Key  string
	Code diag.Code
	Err  error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type fileConfig struct {
	Output struct {
		Visibility    string   `toml:"visibility"`
		Comments      bool     `toml:"comments"`
		CxxNamespaces bool     `toml:"cxx_namespaces"`
		RawLines      []string `toml:"raw_lines"`
		CtypesPrefix  string   `toml:"ctypes_prefix"`
		Generate      []string `toml:"generate"`
	} `toml:"output"`
	Enums struct {
		Default           string   `toml:"default"`
		Rust              []string `toml:"rust"`
		RustNonExhaustive []string `toml:"rust_non_exhaustive"`
		NewType           []string `toml:"newtype"`
		NewTypeGlobal     []string `toml:"newtype_global"`
		Bitfield          []string `toml:"bitfield"`
		Consts            []string `toml:"consts"`
		ModuleConsts      []string `toml:"moduleconsts"`
	} `toml:"enums"`
	Derive struct {
		Copy       bool     `toml:"copy"`
		Debug      bool     `toml:"debug"`
		Default    bool     `toml:"default"`
		Hash       bool     `toml:"hash"`
		PartialEq  bool     `toml:"partialeq"`
		Eq         bool     `toml:"eq"`
		PartialOrd bool     `toml:"partialord"`
		Ord        bool     `toml:"ord"`
		Templated  bool     `toml:"templated"`
		Custom     []string `toml:"custom"`
	} `toml:"derive"`
	Layout struct {
		Tests           bool   `toml:"tests"`
		Target          string `toml:"target"`
		ReprAlign       bool   `toml:"repr_align"`
		ExplicitPadding bool   `toml:"explicit_padding"`
		UntaggedUnions  bool   `toml:"untagged_unions"`
	} `toml:"layout"`
	Accessors struct {
		Default string `toml:"default"`
	} `toml:"accessors"`
	Dynamic struct {
		Library    string `toml:"library"`
		RequireAll bool   `toml:"require_all"`
	} `toml:"dynamic"`
	Wrappers struct {
		Enabled bool     `toml:"enabled"`
		Path    string   `toml:"path"`
		Suffix  string   `toml:"suffix"`
		Headers []string `toml:"headers"`
	} `toml:"wrappers"`
	VTables struct {
		Generate bool `toml:"generate"`
	} `toml:"vtables"`
	Items struct {
		Opaque      []string `toml:"opaque"`
		NoCopy      []string `toml:"no_copy"`
		NoDebug     []string `toml:"no_debug"`
		NoDefault   []string `toml:"no_default"`
		NoHash      []string `toml:"no_hash"`
		NoPartialEq []string `toml:"no_partialeq"`
		MustUse     []string `toml:"must_use"`
	} `toml:"items"`
}

// Find walks up from startDir looking for bindgen.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads a configuration file on top of Default. Keys absent from the
// file keep their default; unknown keys are errors.
func Load(path string) (Options, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Options{}, &Error{Path: path, Code: diag.CfgInvalidValue, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	l := loader{path: path, meta: meta, opts: Default()}
	l.apply(&fc)

	undecoded := meta.Undecoded()
	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	for _, k := range keys {
		l.fail(k, diag.CfgUnknownKey, errors.New("unknown key"))
	}
	if len(l.errs) > 0 {
		return Options{}, errors.Join(l.errs...)
	}
	return l.opts, nil
}

type loader struct {
	path string
	meta toml.MetaData
	opts Options
	errs []error
}

func (l *loader) fail(key string, code diag.Code, err error) {
	l.errs = append(l.errs, &Error{Path: l.path, Key: key, Code: code, Err: err})
}

func (l *loader) defined(key ...string) bool {
	return l.meta.IsDefined(key...)
}

func (l *loader) setBool(dst *bool, v bool, key ...string) {
	if l.defined(key...) {
		*dst = v
	}
}

func (l *loader) patterns(dst *Patterns, list []string, key ...string) {
	if !l.defined(key...) {
		return
	}
	ps, err := Compile(list)
	if err != nil {
		l.fail(strings.Join(key, "."), diag.CfgInvalidRegex, err)
		return
	}
	*dst = ps
}

func (l *loader) apply(fc *fileConfig) {
	o := &l.opts

	if l.defined("output", "visibility") {
		v, ok := ParseVisibility(fc.Output.Visibility)
		if !ok {
			l.fail("output.visibility", diag.CfgInvalidValue, fmt.Errorf("unknown visibility %q", fc.Output.Visibility))
		}
		o.Visibility = v
	}
	l.setBool(&o.GenerateComments, fc.Output.Comments, "output", "comments")
	l.setBool(&o.EnableCxxNamespaces, fc.Output.CxxNamespaces, "output", "cxx_namespaces")
	o.RawLines = append(o.RawLines, fc.Output.RawLines...)
	if l.defined("output", "ctypes_prefix") {
		o.CtypesPrefix = fc.Output.CtypesPrefix
	}
	if l.defined("output", "generate") {
		kinds, err := ParseItemKinds(fc.Output.Generate)
		if err != nil {
			l.fail("output.generate", diag.CfgInvalidValue, err)
		}
		o.Generate = kinds
	}

	if l.defined("enums", "default") {
		style, ok := ir.ParseEnumStyle(fc.Enums.Default)
		if !ok {
			l.fail("enums.default", diag.CfgInvalidValue, fmt.Errorf("unknown enum style %q", fc.Enums.Default))
		} else {
			o.DefaultEnumStyle = style
		}
	}
	for _, r := range []struct {
		style ir.EnumStyle
		list  []string
	}{
		{ir.EnumStyleRust, fc.Enums.Rust},
		{ir.EnumStyleRustNonExhaustive, fc.Enums.RustNonExhaustive},
		{ir.EnumStyleNewType, fc.Enums.NewType},
		{ir.EnumStyleNewTypeGlobal, fc.Enums.NewTypeGlobal},
		{ir.EnumStyleBitfield, fc.Enums.Bitfield},
		{ir.EnumStyleConsts, fc.Enums.Consts},
		{ir.EnumStyleModuleConsts, fc.Enums.ModuleConsts},
	} {
		ps, err := Compile(r.list)
		if err != nil {
			l.fail("enums."+r.style.String(), diag.CfgInvalidRegex, err)
			continue
		}
		for _, re := range ps {
			o.EnumRules = append(o.EnumRules, EnumRule{Style: r.style, Pattern: re})
		}
	}

	d := &o.Derive
	l.setBool(&d.Copy, fc.Derive.Copy, "derive", "copy")
	l.setBool(&d.Debug, fc.Derive.Debug, "derive", "debug")
	l.setBool(&d.Default, fc.Derive.Default, "derive", "default")
	l.setBool(&d.Hash, fc.Derive.Hash, "derive", "hash")
	l.setBool(&d.PartialEq, fc.Derive.PartialEq, "derive", "partialeq")
	l.setBool(&d.Eq, fc.Derive.Eq, "derive", "eq")
	l.setBool(&d.PartialOrd, fc.Derive.PartialOrd, "derive", "partialord")
	l.setBool(&d.Ord, fc.Derive.Ord, "derive", "ord")
	l.setBool(&d.Templated, fc.Derive.Templated, "derive", "templated")
	d.Custom = append(d.Custom, fc.Derive.Custom...)

	l.setBool(&o.LayoutTests, fc.Layout.Tests, "layout", "tests")
	if l.defined("layout", "target") {
		t, ok := layout.TargetByTriple(fc.Layout.Target)
		if !ok {
			l.fail("layout.target", diag.CfgInvalidValue, fmt.Errorf("unsupported target %q", fc.Layout.Target))
		} else {
			o.Target = t
		}
	}
	l.setBool(&o.Target.SupportsReprAlign, fc.Layout.ReprAlign, "layout", "repr_align")
	l.setBool(&o.ExplicitPadding, fc.Layout.ExplicitPadding, "layout", "explicit_padding")
	l.setBool(&o.UntaggedUnions, fc.Layout.UntaggedUnions, "layout", "untagged_unions")

	if l.defined("accessors", "default") {
		k, ok := ir.ParseAccessorKind(fc.Accessors.Default)
		if !ok {
			l.fail("accessors.default", diag.CfgInvalidValue, fmt.Errorf("unknown accessor kind %q", fc.Accessors.Default))
		} else {
			o.DefaultAccessor = k
		}
	}

	o.DynamicLibraryName = strings.TrimSpace(fc.Dynamic.Library)
	l.setBool(&o.DynamicRequireAll, fc.Dynamic.RequireAll, "dynamic", "require_all")

	l.setBool(&o.WrapStaticFns, fc.Wrappers.Enabled, "wrappers", "enabled")
	if l.defined("wrappers", "path") {
		o.WrapStaticFnsPath = fc.Wrappers.Path
	}
	if l.defined("wrappers", "suffix") {
		if strings.TrimSpace(fc.Wrappers.Suffix) == "" {
			l.fail("wrappers.suffix", diag.CfgInvalidValue, errors.New("suffix must not be empty"))
		} else {
			o.WrapStaticFnsSuffix = fc.Wrappers.Suffix
		}
	}
	o.WrapHeaders = append(o.WrapHeaders, fc.Wrappers.Headers...)

	l.setBool(&o.VTableGeneration, fc.VTables.Generate, "vtables", "generate")

	l.patterns(&o.Opaque, fc.Items.Opaque, "items", "opaque")
	l.patterns(&o.NoCopy, fc.Items.NoCopy, "items", "no_copy")
	l.patterns(&o.NoDebug, fc.Items.NoDebug, "items", "no_debug")
	l.patterns(&o.NoDefault, fc.Items.NoDefault, "items", "no_default")
	l.patterns(&o.NoHash, fc.Items.NoHash, "items", "no_hash")
	l.patterns(&o.NoPartialEq, fc.Items.NoPartialEq, "items", "no_partialeq")
	l.patterns(&o.MustUse, fc.Items.MustUse, "items", "must_use")
}

// ParseItemKinds maps a list like ["functions", "types"] to ItemKinds.
func ParseItemKinds(list []string) (ItemKinds, error) {
	var k ItemKinds
	for _, s := range list {
		switch strings.TrimSpace(s) {
		case "functions":
			k.Functions = true
		case "types":
			k.Types = true
		case "vars":
			k.Vars = true
		case "methods":
			k.Methods = true
		case "constructors":
			k.Constructors = true
		case "destructors":
			k.Destructors = true
		default:
			return AllItems(), fmt.Errorf("unknown item kind %q", s)
		}
	}
	return k, nil
}

// Diagnostics converts a Load error into configuration diagnostics.
func Diagnostics(err error) []diag.Diagnostic {
	if err == nil {
		return nil
	}
	var out []diag.Diagnostic
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var cerr *Error
		if errors.As(err, &cerr) {
			subject := diag.Subject{Name: cerr.Path}
			if cerr.Key != "" {
				subject.Name = cerr.Path + ":" + cerr.Key
			}
			out = append(out, diag.New(diag.SevError, cerr.Code, subject, cerr.Err.Error()))
			return
		}
		out = append(out, diag.New(diag.SevError, diag.CfgInvalidValue, diag.Subject{}, err.Error()))
	}
	walk(err)
	return out
}
