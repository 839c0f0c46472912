package diag

import (
	"bytes"
	"strings"
	"testing"

	"bindgen/internal/ir"
)

func TestFormatShort(t *testing.T) {
	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     LayUnknownLayout,
			Message:  "first line\nsecond",
			Subject:  Subject{Item: ir.ItemID(7), Name: "Foo"},
			Notes:    []Note{{Subject: Subject{Name: "Bar"}, Msg: "referenced here"}},
		},
		{
			Severity: SevInfo,
			Code:     CgnPureVirtual,
			Message:  "skipped",
			Subject:  Subject{Item: ir.ItemID(3), Name: "Shape_area"},
		},
	}

	expected := "info CGN1002 Shape_area#3: skipped\n" +
		"warning LAY2001 Foo#7: first line second\n" +
		"note LAY2001 Bar: referenced here"

	if got := FormatShort(diags, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	subj := Subject{Item: 1, Name: "f"}
	r.Report(Infof(CgnDuplicateLinkName, subj, "dup"))
	r.Report(Warnf(LayUnknownAttribute, subj, "unknown attribute %q", "mode"))
	if bag.Add(New(SevError, CgnInfo, subj, "overflow")) {
		t.Fatalf("bag accepted a diagnostic past its limit")
	}
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d, want 2 and 1", bag.Len(), bag.Dropped())
	}
	if worst, ok := bag.Worst(); !ok || worst != SevWarning {
		t.Fatalf("worst = %v %v, want warning", worst, ok)
	}
	if got := bag.AtLeast(SevWarning); len(got) != 1 || got[0].Code != LayUnknownAttribute {
		t.Fatalf("AtLeast(warning) = %+v", got)
	}
	if _, ok := NewBag(0).Worst(); ok {
		t.Fatalf("empty bag reported a severity")
	}
}

func TestBagSortGroupsByItem(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevInfo, CgnInfo, Subject{Item: 4}, "b"))
	bag.Add(New(SevInfo, CgnInfo, Subject{Item: 2}, "a"))
	bag.Add(New(SevWarning, LayUnknownLayout, Subject{Item: 4}, "c"))
	bag.Sort()
	var got []string
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	if strings.Join(got, "") != "acb" {
		t.Fatalf("sorted order = %v", got)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	subj := Subject{Item: 2, Name: "g"}
	r.Report(Warnf(CgnUnsupportedABI, subj, "%s", "vectorcall"))
	r.Report(Warnf(CgnUnsupportedABI, subj, "%s", "vectorcall"))
	r.Report(Warnf(CgnUnsupportedABI, subj, "%s", "thiscall"))
	r.Report(Infof(CgnUnsupportedABI, subj, "%s", "thiscall"))
	if bag.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", bag.Len())
	}
}

func TestRenderWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	d := New(SevError, IOReadFailed, Subject{Name: "api.bgir"}, "no such file")
	if err := Render(&buf, []Diagnostic{d}, RenderOptions{Prefix: "gen"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, want := buf.String(), "gen: error[IO4001] api.bgir: no such file\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		CgnUnsupportedABI: "CGN1001",
		LayUnknownLayout:  "LAY2001",
		CfgInvalidRegex:   "CFG3001",
		IOWriteFailed:     "IO4002",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d.ID() = %s, want %s", code, got, want)
		}
	}
}
