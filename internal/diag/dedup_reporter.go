package diag

import "sync"

// DedupReporter forwards each distinct (code, severity, subject, message)
// once. Declarations reachable from several parents are visited once per
// path, and so are their diagnostics.
type DedupReporter struct {
	next Reporter

	mu   sync.Mutex
	seen map[dedupKey]struct{}
}

type dedupKey struct {
	code    Code
	sev     Severity
	subject Subject
	msg     string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	if next == nil {
		next = NopReporter{}
	}
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	key := dedupKey{code: d.Code, sev: d.Severity, subject: d.Subject, msg: d.Message}
	r.mu.Lock()
	_, dup := r.seen[key]
	if !dup {
		r.seen[key] = struct{}{}
	}
	r.mu.Unlock()
	if !dup {
		r.next.Report(d)
	}
}
