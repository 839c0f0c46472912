// Package observ measures the stages of a generation job.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one measured stage.
type Phase struct {
	Name    string
	Elapsed time.Duration
	Failed  bool
}

// Timer records phases in the order they ran. A nil *Timer still runs the
// measured functions but records nothing, so callers need not branch on
// whether timings were requested.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Measure runs fn and records its duration under name.
func (t *Timer) Measure(name string, fn func() error) error {
	if t == nil {
		return fn()
	}
	start := time.Now()
	err := fn()
	t.mu.Lock()
	t.phases = append(t.phases, Phase{Name: name, Elapsed: time.Since(start), Failed: err != nil})
	t.mu.Unlock()
	return err
}

// Report copies the recorded phases.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return Report{Phases: append([]Phase(nil), t.phases...)}
}

// Report is a snapshot of a timer.
type Report struct {
	Phases []Phase
}

// Total sums every phase.
func (r Report) Total() time.Duration {
	var d time.Duration
	for _, p := range r.Phases {
		d += p.Elapsed
	}
	return d
}

// Phase sums the phases called name.
func (r Report) Phase(name string) time.Duration {
	var d time.Duration
	for _, p := range r.Phases {
		if p.Name == name {
			d += p.Elapsed
		}
	}
	return d
}

// Add folds other into r by phase name. Names keep the order in which they
// were first seen; a phase is failed if it failed in either report.
func (r Report) Add(other Report) Report {
	out := Report{Phases: append([]Phase(nil), r.Phases...)}
	for _, p := range other.Phases {
		i := 0
		for i < len(out.Phases) && out.Phases[i].Name != p.Name {
			i++
		}
		if i == len(out.Phases) {
			out.Phases = append(out.Phases, p)
			continue
		}
		out.Phases[i].Elapsed += p.Elapsed
		out.Phases[i].Failed = out.Phases[i].Failed || p.Failed
	}
	return out
}

// String renders "load 1.2 ms, generate 3.4 ms" with a trailing "!" on
// failed phases.
func (r Report) String() string {
	parts := make([]string, 0, len(r.Phases))
	for _, p := range r.Phases {
		mark := ""
		if p.Failed {
			mark = "!"
		}
		parts = append(parts, fmt.Sprintf("%s %.1f ms%s", p.Name, Millis(p.Elapsed), mark))
	}
	return strings.Join(parts, ", ")
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
