package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTimerRecordsPhasesInOrder(t *testing.T) {
	timer := NewTimer()
	if err := timer.Measure("load", func() error { return nil }); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := timer.Measure("generate", func() error { return errors.New("boom") }); err == nil {
		t.Fatalf("Measure must return the phase error")
	}

	report := timer.Report()
	if len(report.Phases) != 2 || report.Phases[0].Name != "load" || report.Phases[1].Name != "generate" {
		t.Fatalf("unexpected phases: %+v", report.Phases)
	}
	if report.Phases[0].Failed || !report.Phases[1].Failed {
		t.Fatalf("failure flags wrong: %+v", report.Phases)
	}
	if report.Total() < report.Phase("load") {
		t.Fatalf("total %v below load phase %v", report.Total(), report.Phase("load"))
	}
}

func TestReportAddAndString(t *testing.T) {
	a := Report{Phases: []Phase{{Name: "load", Elapsed: time.Millisecond}, {Name: "write", Elapsed: 2 * time.Millisecond}}}
	b := Report{Phases: []Phase{{Name: "write", Elapsed: time.Millisecond, Failed: true}, {Name: "generate", Elapsed: 500 * time.Microsecond}}}

	sum := a.Add(b)
	if got, want := sum.String(), "load 1.0 ms, write 3.0 ms!, generate 0.5 ms"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if a.Phases[1].Elapsed != 2*time.Millisecond || a.Phases[1].Failed {
		t.Fatalf("Add modified its receiver: %+v", a.Phases)
	}
	if !strings.HasPrefix(Report{}.Add(a).String(), "load") {
		t.Fatalf("adding to an empty report lost phases")
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var timer *Timer
	ran := false
	if err := timer.Measure("x", func() error { ran = true; return nil }); err != nil || !ran {
		t.Fatalf("nil timer must still run the phase")
	}
	if got := timer.Report(); len(got.Phases) != 0 {
		t.Fatalf("nil timer reported phases: %+v", got)
	}
}
