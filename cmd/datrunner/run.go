// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshint/dat-runner/internal/batch"
	"github.com/meshint/dat-runner/internal/history"
	"github.com/meshint/dat-runner/internal/toolexec"
	"github.com/meshint/dat-runner/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Convert every DAT file under the input directory",
	Long: `Run discovers .dat files directly under the input directory and invokes
the converter on each, sequentially, creating one output directory per file
under the output root. The output root must already exist.

A converter that exits non-zero marks that file failed and the pass
continues; a converter that cannot be started stops the pass. SIGINT or
SIGTERM stops launching new conversions but lets the current one finish.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("input-dir", "i", "", "directory containing .dat files")
	runCmd.Flags().StringP("output-dir", "o", "", "directory to create per-file output directories under")
	runCmd.Flags().String("converter", "", "converter binary (default dltool)")
	runCmd.Flags().String("filter", "", "only process files whose name contains this (case-insensitive)")
	runCmd.Flags().String("history-db", "", "record the run in this SQLite ledger")

	rootCmd.AddCommand(runCmd)
}

// flagOrConfig reads a string flag, falling back to the config key of the
// same meaning when the flag is unset.
func flagOrConfig(cmd *cobra.Command, flag, key string) string {
	v, _ := cmd.Flags().GetString(flag)
	if v == "" {
		v = viper.GetString(key)
	}
	return v
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := types.RunConfig{
		InputDir:  flagOrConfig(cmd, "input-dir", "input_dir"),
		OutputDir: flagOrConfig(cmd, "output-dir", "output_dir"),
		Converter: flagOrConfig(cmd, "converter", "converter"),
		Filter:    flagOrConfig(cmd, "filter", "filter"),
		HistoryDB: flagOrConfig(cmd, "history-db", "history_db"),
	}

	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return fmt.Errorf("input and output directories are required (--input-dir, --output-dir)")
	}
	if err := requireDir(cfg.InputDir, "input"); err != nil {
		return err
	}
	if err := requireDir(cfg.OutputDir, "output"); err != nil {
		return err
	}

	tool, err := toolexec.New(cfg.Converter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	result, runErr := batch.Run(ctx, tool, cfg, os.Stdout, os.Stderr)
	finished := time.Now()

	if cfg.HistoryDB != "" {
		if err := recordRun(cfg, result, started, finished); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record run history: %v\n", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// requireDir verifies that path exists and is a directory.
func requireDir(path, role string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("invalid %s directory %s: %w", role, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid %s directory %s: not a directory", role, path)
	}
	return nil
}

func recordRun(cfg types.RunConfig, result batch.Result, started, finished time.Time) error {
	store, err := history.Open(types.HistoryConfig{DBPath: cfg.HistoryDB})
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(context.Background(), cfg, result, started, finished)
	return err
}
