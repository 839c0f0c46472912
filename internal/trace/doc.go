// Package trace records where a generator run spends its time.
//
// A run is a tree of spans: one ScopeRun span per command, one ScopeJob
// span per declaration graph, one ScopeModule span per emitted namespace
// and ScopeItem points for individual declarations. The level picks how
// deep the tree is recorded:
//
//	bindgen generate --trace=- --trace-level=detail api.bgir
//
// Tracers travel in the context together with the current span, so nested
// work attaches to the right parent:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeJob, trace.CurrentSpan(ctx), "job:api.bgir")
//	ctx = trace.WithSpan(ctx, span)
//	defer span.End("ok")
//
// At LevelError nothing is written while the run is healthy; a ring keeps
// the run and job events so they can be dumped when it fails.
package trace
