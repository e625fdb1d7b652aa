// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshint/dat-runner/internal/history"
	"github.com/meshint/dat-runner/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the run-history ledger",
	Long: `History reads the SQLite ledger written by run --history-db. Use list to
show past runs and show to print the invocations of one run.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the invocations of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than the retention window",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.PersistentFlags().String("history-db", "", "path to the SQLite ledger")
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (default 20)")
	historyPruneCmd.Flags().Duration("keep", 30*24*time.Hour, "retention window")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	dbPath, _ := cmd.Flags().GetString("history-db")
	if dbPath == "" {
		dbPath = viper.GetString("history_db")
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no ledger configured: pass --history-db or set history_db in the config")
	}
	return history.Open(types.HistoryConfig{DBPath: dbPath})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("#%d  %s  %s -> %s  %d converted, %d skipped, %d failed\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.InputDir, r.OutputDir, r.Converted, r.Skipped, r.Failed)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	invs, err := store.ListInvocations(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(invs) == 0 {
		return fmt.Errorf("run %d not found or has no invocations", runID)
	}

	for _, inv := range invs {
		switch inv.Status {
		case types.StatusFailed:
			fmt.Printf("%-8s %s (exit %d, %s)\n", inv.Status, inv.InputPath, inv.ExitCode, inv.Duration)
		case types.StatusSkipped:
			fmt.Printf("%-8s %s\n", inv.Status, inv.InputPath)
		default:
			fmt.Printf("%-8s %s (%s)\n", inv.Status, inv.InputPath, inv.Duration)
		}
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	keep, _ := cmd.Flags().GetDuration("keep")
	removed, err := store.Prune(context.Background(), time.Now().Add(-keep))
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d run(s).\n", removed)
	return nil
}
