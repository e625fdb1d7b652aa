package types

// RunConfig holds settings for one batch conversion pass.
type RunConfig struct {
	// InputDir is the directory scanned for .dat files (non-recursive).
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the directory under which one subdirectory per input
	// file is created. It must exist before the pass starts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Converter is the converter binary to invoke, resolved on PATH when
	// not an absolute path (default "dltool").
	Converter string `json:"converter" yaml:"converter"`

	// Filter is an optional case-insensitive substring filter applied to
	// input file names during discovery.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`

	// HistoryDB is the path to the SQLite run ledger. Empty disables
	// history recording; a plain pass persists nothing.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty"`
}

// ScanConfig holds settings for the scan (dry-run) command.
type ScanConfig struct {
	// InputDir is the directory scanned for .dat files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// Filter is an optional case-insensitive substring filter.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`
}

// HistoryConfig holds settings for ledger queries.
type HistoryConfig struct {
	// DBPath is the path to the SQLite run ledger.
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
