package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// Span is an open begin/end pair. A nil or disabled span ignores every call,
// so callers never check whether tracing is on.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Begin opens a span under parent (zero for a root span).
func Begin(t Tracer, scope Scope, parent uint64, name string, attrs ...Attr) *Span {
	if !On(t, scope) {
		return &Span{}
	}
	s := &Span{
		t:       t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{
		At:     s.started,
		Kind:   KindBegin,
		Scope:  scope,
		Span:   s.id,
		Parent: parent,
		Name:   name,
		Attrs:  attrs,
	})
	return s
}

// Set adds attributes reported with the end event.
func (s *Span) Set(attrs ...Attr) *Span {
	if s != nil && s.t != nil {
		s.attrs = append(s.attrs, attrs...)
	}
	return s
}

// End closes the span with a status and returns its duration.
func (s *Span) End(status string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.t.Emit(&Event{
		At:      now,
		Kind:    KindEnd,
		Scope:   s.scope,
		Span:    s.id,
		Parent:  s.parent,
		Name:    s.name,
		Status:  status,
		Elapsed: elapsed,
		Attrs:   s.attrs,
	})
	s.t = nil
	return elapsed
}

// ID is zero for disabled spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point records an instant event under parent.
func Point(t Tracer, scope Scope, parent uint64, name string, attrs ...Attr) {
	if !On(t, scope) {
		return
	}
	t.Emit(&Event{
		At:     time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Parent: parent,
		Name:   name,
		Attrs:  attrs,
	})
}

// stamp assigns the next sequence number unless ev already has one.
func stamp(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = seqCounter.Add(1)
	}
}
