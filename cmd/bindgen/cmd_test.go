package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"bindgen/internal/config"
	"bindgen/internal/ir"
	"bindgen/internal/pipeline"
)

func TestProgressMode(t *testing.T) {
	cases := map[string]progressMode{
		"":      progressAuto,
		"AUTO":  progressAuto,
		" on ":  progressTUI,
		"tui":   progressTUI,
		"lines": progressLines,
		"off":   progressOff,
	}
	for in, want := range cases {
		got, err := parseProgressMode(in)
		if err != nil || got != want {
			t.Fatalf("parseProgressMode(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if _, err := parseProgressMode("sometimes"); err == nil {
		t.Fatalf("expected error for an unknown mode")
	}

	resolved := []struct {
		mode   progressMode
		graphs int
		quiet  bool
		tty    bool
		want   progressMode
	}{
		{progressTUI, 3, true, true, progressOff},
		{progressLines, 1, false, false, progressLines},
		{progressAuto, 2, false, true, progressTUI},
		{progressAuto, 1, false, true, progressOff},
		{progressAuto, 5, false, false, progressOff},
	}
	for _, tc := range resolved {
		if got := tc.mode.resolve(tc.graphs, tc.quiet, tc.tty); got != tc.want {
			t.Fatalf("%+v resolved to %d", tc, got)
		}
	}
}

func TestLineProgress(t *testing.T) {
	var buf bytes.Buffer
	sink := lineProgress(&buf, 2)
	sink.OnEvent(pipeline.Event{File: "a.bgir", Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
	sink.OnEvent(pipeline.Event{File: "a.bgir", Stage: pipeline.StageWrite, Status: pipeline.StatusDone, Elapsed: 12 * time.Millisecond})
	sink.OnEvent(pipeline.Event{File: "b.bgir", Stage: pipeline.StageLoad, Status: pipeline.StatusError})
	sink.OnEvent(pipeline.Event{Stage: pipeline.StageWrite, Status: pipeline.StatusError})

	want := "[1/2] a.bgir: done in 12ms\n[2/2] b.bgir: failed during load\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFlagOverrides(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addOptionFlags(cmd)
	if err := cmd.ParseFlags([]string{"--layout-tests=false", "--enum-style=rust", "--target=i686-linux-gnu", "--dynamic-library=libfoo"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	opts := config.Default()
	if err := applyFlagOverrides(cmd, &opts); err != nil {
		t.Fatalf("applyFlagOverrides: %v", err)
	}
	if opts.LayoutTests {
		t.Fatalf("layout tests should be disabled")
	}
	if opts.DefaultEnumStyle != ir.EnumStyleRust {
		t.Fatalf("enum style = %s, want rust", opts.DefaultEnumStyle)
	}
	if opts.Target.Triple != "i686-unknown-linux-gnu" {
		t.Fatalf("target = %q", opts.Target.Triple)
	}
	if opts.DynamicLibraryName != "libfoo" {
		t.Fatalf("dynamic library = %q", opts.DynamicLibraryName)
	}
	if opts.WrapStaticFns {
		t.Fatalf("unchanged flags must keep their configured value")
	}

	bad := &cobra.Command{Use: "test"}
	addOptionFlags(bad)
	if err := bad.ParseFlags([]string{"--enum-style=fancy"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if err := applyFlagOverrides(bad, &opts); err == nil {
		t.Fatalf("expected error for an unknown enum style")
	}
}

func TestInspectTable(t *testing.T) {
	b := ir.NewBuilder()
	s := b.Struct(b.Root(), "point", ir.L(8, 4))
	b.Field(s, "x", b.Int(ir.IntInt), 0)
	b.Function(b.Root(), "a_function_with_a_really_long_name_that_will_not_fit", b.FunctionType(b.Void()))
	path := filepath.Join(t.TempDir(), "api"+pipeline.GraphExt)
	if err := ir.SaveFile(path, b.Graph()); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out bytes.Buffer
	inspectCmd.SetOut(&out)
	inspectCmd.SetArgs(nil)
	if err := inspectCmd.Flags().Set("width", "40"); err != nil {
		t.Fatal(err)
	}
	if err := inspectExecution(inspectCmd, []string{path}); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	text := out.String()
	for _, want := range []string{"comp", "point", "8/4", "function", "..."} {
		if !strings.Contains(text, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, text)
		}
	}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if len(line) > 40 && strings.Contains(line, "function") {
			t.Fatalf("line wider than the table: %q", line)
		}
	}
}
