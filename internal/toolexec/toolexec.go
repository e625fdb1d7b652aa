// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolexec runs the external DAT converter as a child process. The
// converter is opaque: it takes an input file and an output directory and
// its streams pass through untouched.
package toolexec

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// DefaultConverter is the converter binary used when none is configured.
const DefaultConverter = "dltool"

// Tool runs the converter for one input file at a time.
type Tool interface {
	// Name returns the converter binary name or path.
	Name() string

	// Argv returns the full command line for one invocation, argv[0] first.
	Argv(input, outputDir string) []string

	// Run executes one invocation and blocks until the process exits.
	// A non-zero exit is returned as an *ExitStatusError; any other error
	// means the process could not be started.
	Run(input, outputDir string, stdout, stderr io.Writer) error
}

// ExitStatusError reports a converter that started but exited non-zero.
type ExitStatusError struct {
	Argv []string
	Code int
}

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("converter %s exited with status %d", e.Argv[0], e.Code)
}

// ExitCode extracts the converter exit code from an invocation error.
// ok is false when err does not carry one (launch failure).
func ExitCode(err error) (code int, ok bool) {
	var ese *ExitStatusError
	if errors.As(err, &ese) {
		return ese.Code, true
	}
	return 0, false
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunAttached(name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunAttached(name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// tool implements Tool for a converter binary speaking the
// "-i input -o outputDir" convention.
type tool struct {
	bin  string
	exec executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Argv(input, outputDir string) []string {
	return []string{t.bin, "-i", input, "-o", outputDir}
}

func (t *tool) Run(input, outputDir string, stdout, stderr io.Writer) error {
	argv := t.Argv(input, outputDir)
	err := t.exec.RunAttached(argv[0], argv[1:], stdout, stderr)
	if err == nil {
		return nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitStatusError{Argv: argv, Code: ee.ExitCode()}
	}
	return fmt.Errorf("starting converter %s: %w", t.bin, err)
}

// New returns a Tool for the given converter binary after verifying it can
// be found. bin may be a bare name (resolved on PATH) or a path.
func New(bin string) (Tool, error) {
	return newTool(bin, defaultExec)
}

func newTool(bin string, exec executor) (Tool, error) {
	if bin == "" {
		bin = DefaultConverter
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("converter %s not found: %w", bin, err)
	}
	return &tool{bin: bin, exec: exec}, nil
}
