// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives one sequential conversion pass: discover DAT files,
// provision one output directory per file, and run the converter on each.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/meshint/dat-runner/internal/scan"
	"github.com/meshint/dat-runner/internal/toolexec"
	"github.com/meshint/dat-runner/pkg/types"
)

// Runner executes the converter for one input file. toolexec.Tool is the
// production implementation.
type Runner interface {
	Argv(input, outputDir string) []string
	Run(input, outputDir string, stdout, stderr io.Writer) error
}

// Result holds the outcome of a batch pass.
type Result struct {
	Converted int
	Skipped   int
	Failed    int

	// Invocations lists one record per discovered file, in processing order.
	Invocations []types.Invocation
}

// Total returns the total number of files processed.
func (r Result) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any conversion failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Run performs one full pass over cfg.InputDir. Files are processed one at
// a time; invocation N+1 does not begin until invocation N's process has
// exited. Progress lines and converter stdout go to w, converter stderr to
// errw.
//
// A pre-existing output directory skips that file. Any other provisioning
// failure, or a converter that cannot be started, aborts the pass; a
// converter that exits non-zero is counted as failed and the pass continues.
// Cancelling ctx stops new invocations at the next loop check but does not
// kill an in-flight converter.
func Run(ctx context.Context, r Runner, cfg types.RunConfig, w, errw io.Writer) (Result, error) {
	var result Result

	files, err := scan.Discover(cfg.InputDir, cfg.Filter)
	if err != nil {
		return result, err
	}

	for _, f := range files {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		inv, err := processFile(r, f, cfg.OutputDir, w, errw)
		result.Invocations = append(result.Invocations, inv)
		switch inv.Status {
		case types.StatusDone:
			result.Converted++
		case types.StatusSkipped:
			result.Skipped++
		case types.StatusFailed:
			result.Failed++
		}
		if err != nil {
			return result, err
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// processFile provisions the output directory for f and runs the converter.
// A non-nil error aborts the pass; a failed invocation alone does not.
func processFile(r Runner, f, outputRoot string, w, errw io.Writer) (types.Invocation, error) {
	fmt.Fprintln(w, f)

	base := scan.BaseName(f)
	outDir := filepath.Join(outputRoot, base)
	inv := types.Invocation{InputPath: f, OutputDir: outDir}

	// Non-recursive on purpose: the output root must already exist.
	if err := os.Mkdir(outDir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			fmt.Fprintf(w, "skipped: %s (output directory exists)\n", base)
			inv.Status = types.StatusSkipped
			return inv, nil
		}
		inv.Status = types.StatusFailed
		return inv, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	inv.Argv = r.Argv(f, outDir)
	fmt.Fprintf(w, "running: %s\n", strings.Join(inv.Argv, " "))

	inv.StartedAt = time.Now()
	err := r.Run(f, outDir, w, errw)
	inv.Duration = time.Since(inv.StartedAt)

	if err != nil {
		inv.Status = types.StatusFailed
		if code, ok := toolexec.ExitCode(err); ok {
			inv.ExitCode = code
			fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
			return inv, nil
		}
		// Launch failure: the converter itself is broken, stop the pass.
		return inv, fmt.Errorf("converting %s: %w", f, err)
	}

	fmt.Fprintf(w, "done:    %s\n", base)
	inv.Status = types.StatusDone
	return inv, nil
}
