package trace

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Level controls how deep the span tree is recorded.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// deepest is the finest scope each level records.
var deepest = [...]Scope{
	LevelOff:    0,
	LevelError:  ScopeJob,
	LevelPhase:  ScopeJob,
	LevelDetail: ScopeModule,
	LevelDebug:  ScopeItem,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// ParseLevel reads a --trace-level value.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether events of scope are recorded at level l.
func (l Level) Allows(scope Scope) bool {
	return int(l) < len(deepest) && scope != 0 && scope <= deepest[l]
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeRun Scope = iota + 1
	ScopeJob
	ScopeModule
	ScopeItem
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeJob:
		return "job"
	case ScopeModule:
		return "module"
	case ScopeItem:
		return "item"
	}
	return "unknown"
}

// Kind distinguishes span boundaries from instant events.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Attr is one key/value annotation. Attributes keep their insertion order.
type Attr struct {
	Key   string
	Value string
}

// Str builds a string attribute.
func Str(key, value string) Attr { return Attr{Key: key, Value: value} }

// Int builds an integer attribute.
func Int(key string, value int) Attr { return Attr{Key: key, Value: strconv.Itoa(value)} }

// Event is one recorded trace entry.
type Event struct {
	Seq     uint64
	At      time.Time
	Kind    Kind
	Scope   Scope
	Span    uint64 // zero for points
	Parent  uint64
	Name    string
	Status  string        // end events only
	Elapsed time.Duration // end events only
	Attrs   []Attr
}

// Tracer receives events. Implementations must be safe for concurrent use
// since jobs run in parallel.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Flush() error
	Close() error
}

// On reports whether t records events of scope.
func On(t Tracer, scope Scope) bool {
	return t != nil && t.Level().Allows(scope)
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nopTracer{}
