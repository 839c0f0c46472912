// Package pipeline runs the generator over a set of encoded declaration
// graphs. Each graph is an independent job: load, generate, write. Jobs run
// concurrently, each with its own diagnostics bag and generator state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bindgen/internal/codegen"
	"bindgen/internal/config"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/observ"
	"bindgen/internal/trace"
)

// GraphExt is the extension of encoded declaration graphs.
const GraphExt = ".bgir"

// Job is one declaration graph to translate.
type Job struct {
	Input  string
	Output string // derived from Input and Request.OutDir when empty
}

// Request configures a pipeline run.
type Request struct {
	Jobs           []Job
	OutDir         string
	Options        *config.Options
	MaxDiagnostics int
	Concurrency    int
	Timings        bool
	Progress       ProgressSink
}

// JobResult captures the artefacts and diagnostics of one job.
type JobResult struct {
	Job         Job
	Output      string
	WrapperPath string // empty when no wrapper file was written
	Items       int
	Bag         *diag.Bag
	Timing      *observ.Report
	Err         error
}

// Result collects the job results in request order.
type Result struct {
	Jobs []JobResult
}

// Failed counts the jobs that did not produce output.
func (r Result) Failed() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Err != nil {
			n++
		}
	}
	return n
}

// Run executes every job of req. A failing job does not stop the others; the
// returned error joins the errors of all failed jobs.
func Run(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, errors.New("missing pipeline request")
	}
	if len(req.Jobs) == 0 {
		return result, errors.New("no input graphs")
	}
	opts := req.Options
	if opts == nil {
		def := config.Default()
		opts = &def
	}
	workers := req.Concurrency
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	files := make([]string, len(req.Jobs))
	for i, job := range req.Jobs {
		files[i] = job.Input
	}
	emitQueued(req.Progress, files)

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeRun, trace.CurrentSpan(ctx), "pipeline", trace.Int("jobs", len(req.Jobs)))
	ctx = trace.WithSpan(ctx, span)

	result.Jobs = make([]JobResult, len(req.Jobs))
	clashes := outputClashes(req.Jobs, req.OutDir)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(req.Jobs)))
	for i, job := range req.Jobs {
		if others, ok := clashes[i]; ok {
			result.Jobs[i] = clashResult(req, job, others)
			continue
		}
		i, job := i, job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			result.Jobs[i] = runJob(gctx, req, opts, job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End("canceled")
		return result, err
	}

	var errs []error
	for _, j := range result.Jobs {
		if j.Err != nil {
			errs = append(errs, j.Err)
		}
	}
	span.Set(trace.Int("failed", len(errs))).End(runStatus(len(errs)))
	emitRun(req.Progress, len(errs) == 0)
	return result, errors.Join(errs...)
}

func runJob(ctx context.Context, req *Request, opts *config.Options, job Job) (res JobResult) {
	res = JobResult{
		Job:    job,
		Output: OutputPath(job, req.OutDir),
		Bag:    diag.NewBag(req.MaxDiagnostics),
	}
	var timer *observ.Timer
	if req.Timings {
		timer = observ.NewTimer()
		defer func() {
			report := timer.Report()
			res.Timing = &report
		}()
	}
	start := time.Now()
	reporter := diag.BagReporter{Bag: res.Bag}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeJob, trace.CurrentSpan(ctx), "job:"+job.Input)
	ctx = trace.WithSpan(ctx, span)
	defer func() {
		status := "ok"
		if res.Err != nil {
			status = "error"
		}
		span.End(status)
	}()

	fail := func(stage Stage, code diag.Code, err error) JobResult {
		reporter.Report(diag.Errorf(code, diag.Subject{Name: job.Input}, "%v", err))
		res.Err = fmt.Errorf("%s: %w", job.Input, err)
		emit(req.Progress, job.Input, stage, StatusError, res.Err, time.Since(start))
		return res
	}

	emit(req.Progress, job.Input, StageLoad, StatusWorking, nil, 0)
	var graph *ir.Graph
	code := diag.IOReadFailed
	err := timer.Measure(string(StageLoad), func() error {
		g, err := ir.LoadFile(job.Input)
		if err != nil {
			return err
		}
		if err := g.Validate(); err != nil {
			code = diag.IOInvalidGraph
			return fmt.Errorf("invalid graph: %w", err)
		}
		graph = g
		return nil
	})
	if err != nil {
		return fail(StageLoad, code, err)
	}

	emit(req.Progress, job.Input, StageGenerate, StatusWorking, nil, 0)
	var out *codegen.Output
	err = timer.Measure(string(StageGenerate), func() error {
		o, err := codegen.Generate(ctx, graph, opts, reporter)
		out = o
		return err
	})
	if err != nil {
		return fail(StageGenerate, diag.IOInvalidGraph, err)
	}
	res.Items = out.Items

	emit(req.Progress, job.Input, StageWrite, StatusWorking, nil, 0)
	err = timer.Measure(string(StageWrite), func() error {
		if err := writeFile(res.Output, out.Source); err != nil {
			return err
		}
		if out.WrapperSource == "" || !opts.WrapStaticFns {
			return nil
		}
		res.WrapperPath = WrapperPath(opts.WrapStaticFnsPath, res.Output, len(req.Jobs) > 1)
		return writeFile(res.WrapperPath, out.WrapperSource)
	})
	if err != nil {
		return fail(StageWrite, diag.IOWriteFailed, err)
	}

	emit(req.Progress, job.Input, StageWrite, StatusDone, nil, time.Since(start))
	return res
}

// outputClashes finds jobs whose output path is shared with another job
// and maps each of them to the inputs it collides with.
func outputClashes(jobs []Job, outDir string) map[int][]string {
	byPath := make(map[string][]int, len(jobs))
	for i, job := range jobs {
		path := filepath.Clean(OutputPath(job, outDir))
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		byPath[path] = append(byPath[path], i)
	}
	clashes := make(map[int][]string)
	for _, group := range byPath {
		if len(group) < 2 {
			continue
		}
		for _, i := range group {
			for _, j := range group {
				if j != i {
					clashes[i] = append(clashes[i], jobs[j].Input)
				}
			}
		}
	}
	return clashes
}

// clashResult fails a job without running it. None of the colliding jobs
// writes, so no output is left whose source is ambiguous.
func clashResult(req *Request, job Job, others []string) JobResult {
	res := JobResult{
		Job:    job,
		Output: OutputPath(job, req.OutDir),
		Bag:    diag.NewBag(req.MaxDiagnostics),
	}
	msg := fmt.Sprintf("output %s is also produced by %s", res.Output, strings.Join(others, ", "))
	res.Bag.Add(diag.Errorf(diag.IOOutputClash, diag.Subject{Name: job.Input}, "%s", msg))
	res.Err = fmt.Errorf("%s: %s", job.Input, msg)
	emit(req.Progress, job.Input, StageLoad, StatusError, res.Err, 0)
	return res
}

// OutputPath is the Rust file a job writes: job.Output when set, otherwise
// the input's base name with a .rs extension, placed in outDir (or next to
// the input).
func OutputPath(job Job, outDir string) string {
	if job.Output != "" {
		return job.Output
	}
	base := strings.TrimSuffix(filepath.Base(job.Input), filepath.Ext(job.Input)) + ".rs"
	if outDir == "" {
		return filepath.Join(filepath.Dir(job.Input), base)
	}
	return filepath.Join(outDir, base)
}

// WrapperPath resolves the C wrapper file of a job. Relative paths are placed
// next to the Rust output; runs with several jobs suffix the file with the
// output's stem so wrappers do not overwrite each other.
func WrapperPath(configured, output string, perJob bool) string {
	if configured == "" {
		configured = "extern"
	}
	path := strings.TrimSuffix(configured, ".c")
	if perJob {
		stem := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
		path += "_" + stem
	}
	path += ".c"
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(output), path)
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageLoad, Status: StatusQueued})
	}
}

func emit(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

func emitRun(sink ProgressSink, ok bool) {
	if sink == nil {
		return
	}
	status := StatusDone
	if !ok {
		status = StatusError
	}
	sink.OnEvent(Event{Stage: StageWrite, Status: status})
}

func runStatus(failed int) string {
	if failed > 0 {
		return "error"
	}
	return "ok"
}
