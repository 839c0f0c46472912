package diag

// Severity orders diagnostics from expected skips up to job failures.
type Severity uint8

const (
	// SevInfo: the item was skipped on purpose, e.g. a pure virtual method
	// or a second declaration of an already emitted symbol.
	SevInfo Severity = iota
	// SevWarning: output was produced but degraded (opaque blob, dropped
	// field, unsupported ABI).
	SevWarning
	// SevError: the job produced no output.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}
