package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const extractorName = "SMILExtract"

// Where a resolved extractor came from.
const (
	SourcePath       = "PATH"
	SourceOpenSMILE  = "opensmile_dir"
	SourceConfigured = "configured"
)

// extractorLayouts are the places an openSMILE checkout or install keeps
// the SMILExtract binary, relative to its root.
var extractorLayouts = []string{
	"bin",
	filepath.Join("build", "progsrc", "smilextract"),
	filepath.Join("inst", "bin"),
}

// Status reports whether the extractor can be run.
type Status struct {
	Name      string
	Command   string
	Source    string
	Available bool
	Detail    string
}

// ResolveExtractor returns the SMILExtract executable to run.
//
// A configured binary that resolves through PATH (or is an absolute
// executable path) wins. Otherwise the openSMILE root is searched for a
// built binary. When nothing is found the configured value is returned
// unchanged so callers report it in errors.
func ResolveExtractor(binary, openSMILEDir string) string {
	path, _ := resolve(binary, openSMILEDir)
	return path
}

func resolve(binary, openSMILEDir string) (string, string) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = extractorName
	}
	if resolved, err := exec.LookPath(binary); err == nil {
		return resolved, SourcePath
	}
	root := strings.TrimSpace(openSMILEDir)
	if root == "" {
		return binary, SourceConfigured
	}
	name := filepath.Base(binary)
	for _, layout := range extractorLayouts {
		candidate := filepath.Join(root, layout, name)
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate, SourceOpenSMILE
		}
	}
	return binary, SourceConfigured
}

// CheckExtractor reports the binary ResolveExtractor picks and whether it
// is runnable.
func CheckExtractor(binary, openSMILEDir string) Status {
	path, source := resolve(binary, openSMILEDir)
	status := Status{Name: extractorName, Command: path, Source: source}
	if source != SourceConfigured {
		status.Available = true
		return status
	}
	if dir := strings.TrimSpace(openSMILEDir); dir != "" {
		status.Detail = fmt.Sprintf("binary %q not found on PATH or under %s", path, dir)
	} else {
		status.Detail = fmt.Sprintf("binary %q not found on PATH; set extractor.opensmile_dir or OPENSMILE_DIR", path)
	}
	return status
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
