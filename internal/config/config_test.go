package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[derive]
hash = true

[enums]
default = "rust"
newtype = ["Flags.*"]

[wrappers]
enabled = true
headers = ["api.h"]
`)
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !opts.Derive.Copy || !opts.Derive.Debug || !opts.Derive.Hash {
		t.Fatalf("unexpected derive options: %+v", opts.Derive)
	}
	if !opts.LayoutTests || !opts.GenerateComments {
		t.Fatalf("defaults lost: %+v", opts)
	}
	if got := opts.EnumStyleFor("FlagsA", ir.EnumStyleUnset); got != ir.EnumStyleNewType {
		t.Fatalf("FlagsA style = %v", got)
	}
	if got := opts.EnumStyleFor("Color", ir.EnumStyleUnset); got != ir.EnumStyleRust {
		t.Fatalf("Color style = %v", got)
	}
	if got := opts.EnumStyleFor("FlagsA", ir.EnumStyleConsts); got != ir.EnumStyleConsts {
		t.Fatalf("annotation must win, got %v", got)
	}
	if !opts.WrapStaticFns || opts.WrapStaticFnsSuffix != "__extern" || len(opts.WrapHeaders) != 1 {
		t.Fatalf("unexpected wrapper options: %+v", opts)
	}
}

func TestLoadRejectsUnknownKeysAndBadValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[output]
visibility = "friends"
colour = true

[items]
opaque = ["("]
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	diags := Diagnostics(err)
	codes := map[diag.Code]bool{}
	for _, d := range diags {
		codes[d.Code] = true
	}
	for _, want := range []diag.Code{diag.CfgInvalidValue, diag.CfgUnknownKey, diag.CfgInvalidRegex} {
		if !codes[want] {
			t.Fatalf("missing %s in %v", want.ID(), diags)
		}
	}
	if !strings.Contains(err.Error(), "output.colour") {
		t.Fatalf("unknown key not named: %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("find: %v %v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %s, want in %s", path, root)
	}
}

func TestAnnotateMergesPatterns(t *testing.T) {
	opts := Default()
	ps, err := Compile([]string{"Handle_.*"})
	if err != nil {
		t.Fatal(err)
	}
	opts.Opaque = ps
	if !opts.Annotate("Handle_t", ir.Annotations{}).Opaque {
		t.Fatalf("pattern did not mark Handle_t opaque")
	}
	if opts.Annotate("MyHandle_t", ir.Annotations{}).Opaque {
		t.Fatalf("patterns must be anchored")
	}
}

func TestParseItemKinds(t *testing.T) {
	k, err := ParseItemKinds([]string{"functions", "vars"})
	if err != nil {
		t.Fatal(err)
	}
	if !k.Functions || !k.Vars || k.Types {
		t.Fatalf("unexpected kinds: %+v", k)
	}
	if _, err := ParseItemKinds([]string{"macros"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
