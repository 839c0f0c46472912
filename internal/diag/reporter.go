package diag

import "fmt"

// Reporter receives diagnostics as the emitters produce them.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// BagReporter collects into a Bag; diagnostics past the bag limit are
// dropped.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// Errorf builds an error diagnostic with a formatted message.
func Errorf(code Code, subject Subject, format string, args ...any) Diagnostic {
	return New(SevError, code, subject, fmt.Sprintf(format, args...))
}

// Warnf builds a warning: the output was produced but degraded.
func Warnf(code Code, subject Subject, format string, args ...any) Diagnostic {
	return New(SevWarning, code, subject, fmt.Sprintf(format, args...))
}

// Infof builds an info diagnostic for an expected skip.
func Infof(code Code, subject Subject, format string, args ...any) Diagnostic {
	return New(SevInfo, code, subject, fmt.Sprintf(format, args...))
}
