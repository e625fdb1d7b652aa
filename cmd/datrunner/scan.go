// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/meshint/dat-runner/internal/datfile"
	"github.com/meshint/dat-runner/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the DAT files a run would process, without converting",
	Long: `Scan performs the discovery step of a run and prints the resulting work
plan: each matching .dat file with the output directory name it would get
and, where the file parses, its header (system, catalog, game count).

Nothing is created and nothing is invoked.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringP("input-dir", "i", "", "directory containing .dat files")
	scanCmd.Flags().String("filter", "", "only list files whose name contains this (case-insensitive)")
	scanCmd.Flags().String("format", "text", "output format: text, json, or yaml")

	rootCmd.AddCommand(scanCmd)
}

// scanEntry is one line of the work plan.
type scanEntry struct {
	Path   string          `json:"path" yaml:"path"`
	Base   string          `json:"base" yaml:"base"`
	Header *datfile.Header `json:"header,omitempty" yaml:"header,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	inputDir := flagOrConfig(cmd, "input-dir", "input_dir")
	if inputDir == "" {
		return fmt.Errorf("input directory is required (--input-dir)")
	}
	filter := flagOrConfig(cmd, "filter", "filter")
	format, _ := cmd.Flags().GetString("format")

	files, err := scan.Discover(inputDir, filter)
	if err != nil {
		return err
	}

	entries := make([]scanEntry, 0, len(files))
	for _, f := range files {
		e := scanEntry{Path: f, Base: scan.BaseName(f)}
		if h, err := datfile.ReadHeader(f); err == nil {
			e.Header = h
		} else {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		entries = append(entries, e)
	}

	switch format {
	case "text":
		for _, e := range entries {
			fmt.Println(e.Path)
			if e.Header != nil {
				label := e.Header.System
				if e.Header.Catalog != "" {
					label = fmt.Sprintf("%s: %s", e.Header.Catalog, e.Header.System)
				}
				fmt.Printf("  %s (%d games) -> %s/\n", label, e.Header.Games, e.Base)
			} else {
				fmt.Printf("  -> %s/\n", e.Base)
			}
		}
		fmt.Printf("\n%d file(s) to process\n", len(entries))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		out, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling work plan: %w", err)
		}
		os.Stdout.Write(out)
	default:
		return fmt.Errorf("unknown format %q: use text, json, or yaml", format)
	}
	return nil
}
