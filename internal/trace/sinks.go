package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// StreamTracer writes each event as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer // set when the tracer owns the destination
	level  Level
	format Format
}

// NewStreamTracer writes to w. The caller keeps ownership of w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: bufio.NewWriter(w), level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || !t.level.Allows(ev.Scope) || t.level == LevelError {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stamp(ev)
	// trace output is best effort; generation never fails on it
	_, _ = t.w.Write(Encode(ev, t.format))
	if ev.Scope <= ScopeJob {
		_ = t.w.Flush()
	}
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Flush()
}

func (t *StreamTracer) Close() error {
	err := t.Flush()
	if t.closer != nil {
		err = errors.Join(err, t.closer.Close())
		t.closer = nil
	}
	return err
}

// RingTracer keeps the most recent events in memory.
type RingTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	filled bool
	level  Level
}

// NewRingTracer keeps up to size events.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.Allows(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stamp(ev)
	t.buf[t.next] = *ev
	t.buf[t.next].Attrs = append([]Attr(nil), ev.Attrs...)
	t.next++
	if t.next == len(t.buf) {
		t.next, t.filled = 0, true
	}
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.filled {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(Encode(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

// FanoutTracer forwards every event to several tracers.
type FanoutTracer struct {
	level   Level
	tracers []Tracer
}

func NewFanoutTracer(level Level, tracers ...Tracer) *FanoutTracer {
	return &FanoutTracer{level: level, tracers: tracers}
}

func (t *FanoutTracer) Emit(ev *Event) {
	if ev == nil {
		return
	}
	stamp(ev)
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *FanoutTracer) Level() Level { return t.level }

func (t *FanoutTracer) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *FanoutTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// Ring returns the first ring among the targets.
func (t *FanoutTracer) Ring() *RingTracer {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r
		}
	}
	return nil
}
