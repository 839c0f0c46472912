package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bindgen/internal/diag"
	"bindgen/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] <graph.bgir|dir>...",
	Short: "Generate Rust bindings from declaration graphs",
	Long: `Generate writes one Rust module per declaration graph. Directories are
searched for .bgir files. Options come from the nearest bindgen.toml and the
flags below.`,
	Args: cobra.MinimumNArgs(1),
	RunE: generateExecution,
}

func init() {
	generateCmd.Flags().StringP("out-dir", "o", "", "directory for the generated files (default: next to each input)")
	generateCmd.Flags().String("output", "", "output file when a single graph is given")
	generateCmd.Flags().IntP("jobs", "j", 0, "graphs generated in parallel (default: GOMAXPROCS)")
	generateCmd.Flags().String("ui", "auto", "progress reporting (auto|tui|lines|off)")
	addOptionFlags(generateCmd)
}

func generateExecution(cmd *cobra.Command, args []string) (err error) {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err) }()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	workers, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := parseProgressMode(uiValue)
	if err != nil {
		return err
	}
	root := cmd.Root().PersistentFlags()
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	opts, _, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	jobs, err := pipeline.CollectJobs(args)
	if err != nil {
		return err
	}
	if output != "" {
		if len(jobs) != 1 {
			return fmt.Errorf("--output needs exactly one input graph, got %d", len(jobs))
		}
		jobs[0].Output = output
	}

	req := &pipeline.Request{
		Jobs:           jobs,
		OutDir:         outDir,
		Options:        &opts,
		MaxDiagnostics: maxDiagnostics,
		Concurrency:    workers,
		Timings:        timings,
	}
	var res pipeline.Result
	switch mode.resolve(len(jobs), quiet, isTerminal(os.Stdout)) {
	case progressTUI:
		res, err = runWithUI(cmd.Context(), "bindgen generate", req)
	case progressLines:
		req.Progress = lineProgress(cmd.ErrOrStderr(), len(jobs))
		res, err = pipeline.Run(cmd.Context(), req)
	default:
		res, err = pipeline.Run(cmd.Context(), req)
	}

	color, colorErr := useColor(cmd, os.Stderr)
	if colorErr != nil {
		return colorErr
	}
	if renderErr := reportDiagnostics(cmd.ErrOrStderr(), res, color, quiet); renderErr != nil {
		return renderErr
	}
	if !quiet {
		reportOutputs(cmd.OutOrStdout(), res)
	}
	if timings {
		printJobTimings(cmd.OutOrStdout(), res)
	}
	if err != nil {
		return fmt.Errorf("%d of %d graphs failed", res.Failed(), len(res.Jobs))
	}
	return nil
}

// reportDiagnostics prints the diagnostics of every job. Quiet runs keep
// only warnings and errors.
func reportDiagnostics(w io.Writer, res pipeline.Result, color, quiet bool) error {
	for _, job := range res.Jobs {
		if job.Bag == nil || job.Bag.Len() == 0 {
			continue
		}
		job.Bag.Sort()
		items := job.Bag.Items()
		if quiet {
			items = job.Bag.AtLeast(diag.SevWarning)
		}
		opts := diag.RenderOptions{Color: color, Prefix: job.Job.Input, Notes: !quiet}
		if err := diag.Render(w, items, opts); err != nil {
			return err
		}
		if n := job.Bag.Dropped(); n > 0 {
			fmt.Fprintf(w, "%s: %d more diagnostics not shown (--max-diagnostics)\n", job.Job.Input, n)
		}
	}
	return nil
}

func reportOutputs(w io.Writer, res pipeline.Result) {
	for _, job := range res.Jobs {
		if job.Err != nil {
			continue
		}
		fmt.Fprintf(w, "wrote %s (%d items)\n", job.Output, job.Items)
		if job.WrapperPath != "" {
			fmt.Fprintf(w, "wrote %s\n", job.WrapperPath)
		}
	}
}
