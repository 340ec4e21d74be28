package smile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"emocorpus/internal/services"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config", "egemaps", "v01a", "eGeMAPSv01a.conf")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(path, []byte("[componentInstances:cComponentManager]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestArgsMatchExtractorContract(t *testing.T) {
	r := NewRunner(Options{Binary: "SMILExtract", ConfigPath: "/opt/os/config/egemaps.conf"})
	got := strings.Join(r.Args("/pool/TESS_FEA_1_OAF_back_fear.wav", "/feat/TESS_FEA_1_OAF_back_fear_egemaps.csv"), " ")
	want := "-C /opt/os/config/egemaps.conf -I /pool/TESS_FEA_1_OAF_back_fear.wav -O /feat/TESS_FEA_1_OAF_back_fear_egemaps.csv -instname TESS_FEA_1_OAF_back_fear -appendcsv 0 -timestampcsv 1 -csvseparator ;"
	if got != want {
		t.Fatalf("unexpected args:\n got %s\nwant %s", got, want)
	}
}

func TestExtractSuccess(t *testing.T) {
	dir := t.TempDir()
	// Writes a minimal export to the -O argument (6th positional).
	script := writeScript(t, dir, "SMILExtract", `printf '@attribute name string\n@data\n' > "$6"; echo ok`)
	r := NewRunner(Options{Binary: script, ConfigPath: writeConfig(t, dir)})
	if err := r.Check(); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}

	out := filepath.Join(dir, "features", "a_egemaps.csv")
	res, err := r.Extract(context.Background(), filepath.Join(dir, "a.wav"), out)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if res.Output != out || !strings.Contains(res.Stdout, "ok") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected export file: %v", err)
	}
}

func TestExtractNonZeroExitCarriesDiagnostics(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "SMILExtract", `echo "cWaveSource: failed to open input" >&2; exit 3`)
	r := NewRunner(Options{Binary: script, ConfigPath: writeConfig(t, dir)})

	_, err := r.Extract(context.Background(), filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.csv"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ToolError, got %T", err)
	}
	if toolErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", toolErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "failed to open input") || !strings.Contains(err.Error(), "missing.wav") {
		t.Fatalf("expected diagnostics and path in error, got %v", err)
	}
}

func TestExtractWithoutExportIsToolFailure(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "SMILExtract", `echo "processing finished"`)
	r := NewRunner(Options{Binary: script, ConfigPath: writeConfig(t, dir)})

	_, err := r.Extract(context.Background(), filepath.Join(dir, "in.wav"), filepath.Join(dir, "out", "in_egemaps.csv"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "no export written") {
		t.Fatalf("expected missing export detail, got %v", err)
	}
}

func TestExtractTimeout(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "SMILExtract", `exec sleep 5`)
	r := NewRunner(Options{Binary: script, ConfigPath: writeConfig(t, dir), Timeout: 100 * time.Millisecond})

	_, err := r.Extract(context.Background(), filepath.Join(dir, "a.wav"), filepath.Join(dir, "out.csv"))
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestCheckReportsMissingPieces(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(Options{Binary: filepath.Join(dir, "nope"), ConfigPath: writeConfig(t, dir)})
	if err := r.Check(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing binary, got %v", err)
	}

	script := writeScript(t, dir, "SMILExtract", "exit 0")
	r = NewRunner(Options{Binary: script, ConfigPath: filepath.Join(dir, "missing.conf")})
	if err := r.Check(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing config, got %v", err)
	}

	r = NewRunner(Options{Binary: script})
	if err := r.Check(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for empty config, got %v", err)
	}
}

func TestFilenames(t *testing.T) {
	if got := ExportFilename("/pool/1001_DFA_ANG_XX.wav"); got != "1001_DFA_ANG_XX_egemaps.csv" {
		t.Fatalf("unexpected export filename %q", got)
	}
	if got := TableFilename("/feat/1001_DFA_ANG_XX_egemaps.csv"); got != "1001_DFA_ANG_XX_converted.csv" {
		t.Fatalf("unexpected table filename %q", got)
	}
	if got := TableFilename("/feat/plain.csv"); got != "plain.csv" {
		t.Fatalf("unexpected table filename %q", got)
	}
}
