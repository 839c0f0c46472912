package main

import (
	"fmt"
	"io"

	"bindgen/internal/observ"
	"bindgen/internal/pipeline"
)

// printJobTimings prints the stage durations of every job, followed by
// their sum when more than one job ran.
func printJobTimings(out io.Writer, res pipeline.Result) {
	if out == nil {
		return
	}
	var total observ.Report
	timed := 0
	for _, job := range res.Jobs {
		if job.Timing == nil {
			continue
		}
		timed++
		total = total.Add(*job.Timing)
		fmt.Fprintf(out, "%s: %s\n", job.Job.Input, job.Timing)
	}
	if timed > 1 {
		fmt.Fprintf(out, "total: %s (%.1f ms)\n", total, observ.Millis(total.Total()))
	}
}
