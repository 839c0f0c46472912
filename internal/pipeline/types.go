package pipeline

import "time"

// Stage describes a phase of one generation job.
type Stage string

const (
	// StageLoad decodes and validates the declaration graph.
	StageLoad Stage = "load"
	// StageGenerate runs the code generator.
	StageGenerate Stage = "generate"
	// StageWrite writes the Rust module and the wrapper file.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the job is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the job is inside a stage.
	StatusWorking Status = "working"
	// StatusDone indicates the job finished.
	StatusDone Status = "done"
	// StatusError indicates the job failed.
	StatusError Status = "error"
)

// Event reports progress for an input graph (or for the whole run when File
// is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: jobs report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}
