package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"bindgen/internal/pipeline"
)

// progressMode selects how a generate run reports per-graph progress.
type progressMode uint8

const (
	progressAuto progressMode = iota
	// progressTUI is the Bubble Tea view.
	progressTUI
	// progressLines prints one line per finished graph, for logs.
	progressLines
	progressOff
)

var progressModes = map[string]progressMode{
	"":      progressAuto,
	"auto":  progressAuto,
	"tui":   progressTUI,
	"on":    progressTUI,
	"lines": progressLines,
	"off":   progressOff,
}

func parseProgressMode(value string) (progressMode, error) {
	mode, ok := progressModes[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return progressOff, fmt.Errorf("unknown --ui mode %q: want auto, tui, lines or off", value)
	}
	return mode, nil
}

// resolve settles auto mode. The view only pays off for several graphs on
// an interactive stdout; --quiet silences every mode.
func (m progressMode) resolve(graphs int, quiet, tty bool) progressMode {
	switch {
	case quiet:
		return progressOff
	case m != progressAuto:
		return m
	case tty && graphs > 1:
		return progressTUI
	}
	return progressOff
}

// lineProgress writes "[k/n] path: done in 12ms" as each graph finishes.
func lineProgress(w io.Writer, graphs int) pipeline.ProgressSink {
	var mu sync.Mutex
	finished := 0
	return pipeline.FuncSink(func(ev pipeline.Event) {
		if ev.File == "" || (ev.Status != pipeline.StatusDone && ev.Status != pipeline.StatusError) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		finished++
		if ev.Status == pipeline.StatusError {
			fmt.Fprintf(w, "[%d/%d] %s: failed during %s\n", finished, graphs, ev.File, ev.Stage)
			return
		}
		fmt.Fprintf(w, "[%d/%d] %s: done in %s\n", finished, graphs, ev.File, ev.Elapsed.Round(time.Millisecond))
	})
}
