package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"emocorpus/internal/config"
	"emocorpus/internal/dataset"
	"emocorpus/internal/deps"
	"emocorpus/internal/journal"
	"emocorpus/internal/smile"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDatasetRoot verifies that a dataset root is readable and reports how
// many audio files its layout yields.
func CheckDatasetRoot(kind dataset.Kind, root string) Result {
	name := fmt.Sprintf("%s dataset", kind)
	if err := unix.Access(root, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", root, err)}
	}
	files, err := dataset.Discover(kind, root)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", root, err)}
	}
	if len(files) == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no audio files in expected layout)", root)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d files)", root, len(files))}
}

// CheckExtractor verifies the SMILExtract binary and feature set config.
func CheckExtractor(ctx context.Context, cfg *config.Config) Result {
	const name = "SMILExtract"

	status := deps.CheckExtractor(cfg.Extractor.Binary, cfg.Extractor.OpenSMILEDir)
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	runner := smile.NewRunner(smile.Options{
		Binary:     status.Command,
		ConfigPath: cfg.ExtractorConfigPath(),
	})
	if err := runner.Check(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	detail := fmt.Sprintf("%s [%s]", runner.Binary(), status.Source)
	if version := ExtractorVersion(ctx, runner.Binary()); version != "" {
		detail = fmt.Sprintf("%s (openSMILE %s)", detail, version)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckJournal verifies that the journal opens with the expected schema.
func CheckJournal(cfg *config.Config) Result {
	const name = "Journal"

	path := cfg.JournalPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first run)", path)}
	}
	store, err := journal.Open(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	_ = store.Close()
	return Result{Name: name, Passed: true, Detail: path}
}

var versionPattern = regexp.MustCompile(`(?i)openSMILE\s+version\s+([0-9][0-9A-Za-z.\-]*)`)

// ExtractorVersion asks SMILExtract for its banner and returns the version,
// or "" when it cannot be determined.
func ExtractorVersion(ctx context.Context, binary string) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// SMILExtract exits non-zero after printing help; the banner is still usable.
	output, _ := exec.CommandContext(ctx, binary, "-h").CombinedOutput()
	match := versionPattern.FindStringSubmatch(string(output))
	if len(match) < 2 {
		return ""
	}
	return strings.TrimRight(match[1], ".")
}
