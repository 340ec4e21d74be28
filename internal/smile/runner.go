package smile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"emocorpus/internal/services"
)

const (
	stage          = "extract"
	exportSuffix   = "_egemaps"
	exportExt      = ".csv"
	maxDiagnostics = 4096
)

// Options configures a Runner.
type Options struct {
	Binary     string
	ConfigPath string
	Separator  string
	Timeout    time.Duration
}

// Runner invokes SMILExtract.
type Runner struct {
	binary     string
	configPath string
	separator  string
	timeout    time.Duration
}

// Result describes a successful extraction.
type Result struct {
	Input    string
	Output   string
	Duration time.Duration
	Stdout   string
}

// ToolError carries the diagnostics of a failed SMILExtract invocation.
type ToolError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(e.Stdout)
	}
	if detail == "" {
		return fmt.Sprintf("SMILExtract exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("SMILExtract exited with code %d: %s", e.ExitCode, truncate(detail, maxDiagnostics))
}

func (e *ToolError) Unwrap() error { return e.Err }

// NewRunner builds a Runner from opts, filling defaults.
func NewRunner(opts Options) *Runner {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "SMILExtract"
	}
	separator := opts.Separator
	if separator == "" {
		separator = ";"
	}
	return &Runner{
		binary:     binary,
		configPath: strings.TrimSpace(opts.ConfigPath),
		separator:  separator,
		timeout:    opts.Timeout,
	}
}

// Binary returns the configured executable.
func (r *Runner) Binary() string { return r.binary }

// Check verifies that the executable and feature set config exist.
func (r *Runner) Check() error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return services.Wrap(services.ErrConfiguration, stage, "check", fmt.Sprintf("SMILExtract not found at %q", r.binary), err)
	}
	if r.configPath == "" {
		return services.Wrap(services.ErrConfiguration, stage, "check", "feature set config not configured", nil)
	}
	info, err := os.Stat(r.configPath)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, stage, "check", fmt.Sprintf("feature set config %q not found", r.configPath), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrConfiguration, stage, "check", fmt.Sprintf("feature set config %q is a directory", r.configPath), nil)
	}
	return nil
}

// Args returns the SMILExtract argument list for one file.
func (r *Runner) Args(input, output string) []string {
	return []string{
		"-C", r.configPath,
		"-I", input,
		"-O", output,
		"-instname", strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
		"-appendcsv", "0",
		"-timestampcsv", "1",
		"-csvseparator", r.separator,
	}
}

// Extract runs SMILExtract on input, writing the export to output.
func (r *Runner) Extract(ctx context.Context, input, output string) (Result, error) {
	if strings.TrimSpace(input) == "" {
		return Result{}, services.Wrap(services.ErrValidation, stage, "", "empty input path", nil)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, stage, input, "create output directory", err)
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := r.Args(input, output)
	cmd := exec.CommandContext(runCtx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return Result{}, services.Wrap(services.ErrTimeout, stage, input, fmt.Sprintf("SMILExtract exceeded %s", r.timeout), err)
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr := &ToolError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				Err:      err,
			}
			return Result{}, services.Wrap(services.ErrExternalTool, stage, input, "", toolErr)
		}
		return Result{}, services.Wrap(services.ErrConfiguration, stage, input, "start SMILExtract", err)
	}
	if _, err := os.Stat(output); err != nil {
		toolErr := &ToolError{Args: args, Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
		return Result{}, services.Wrap(services.ErrExternalTool, stage, input, "no export written", toolErr)
	}

	return Result{
		Input:    input,
		Output:   output,
		Duration: elapsed,
		Stdout:   stdout.String(),
	}, nil
}

// ExportFilename returns the export name for an audio file:
// "1001_DFA_ANG_XX.wav" becomes "1001_DFA_ANG_XX_egemaps.csv".
func ExportFilename(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + exportSuffix + exportExt
}

// TableFilename returns the converted table name for an export:
// "x_egemaps.csv" becomes "x_converted.csv". Names without the export
// suffix are kept unchanged.
func TableFilename(exportPath string) string {
	return strings.ReplaceAll(filepath.Base(exportPath), exportSuffix, "_converted")
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "…"
}
