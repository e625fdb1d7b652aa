// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus indicates the outcome of one converter invocation.
type RunStatus string

const (
	StatusDone    RunStatus = "done"
	StatusSkipped RunStatus = "skipped"
	StatusFailed  RunStatus = "failed"
)

// Invocation records one converter execution: the input file, the output
// directory provisioned for it, and how the process ended.
type Invocation struct {
	// InputPath is the .dat file handed to the converter.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputDir is the per-file directory created under the output root.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Argv is the full command line, argv[0] first.
	Argv []string `json:"argv,omitempty" yaml:"argv,omitempty"`

	// Status is the invocation outcome.
	Status RunStatus `json:"status" yaml:"status"`

	// ExitCode is the converter's exit code; zero unless Status is failed.
	ExitCode int `json:"exit_code" yaml:"exit_code"`

	// StartedAt is when the converter process was launched.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Duration is how long the converter ran.
	Duration time.Duration `json:"duration" yaml:"duration"`
}
