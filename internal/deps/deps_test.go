package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestResolveExtractorPrefersPath(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, filepath.Join(binDir, "SMILExtract"))
	t.Setenv("PATH", binDir)

	root := t.TempDir()
	writeStub(t, filepath.Join(root, "bin", "SMILExtract"))

	got := ResolveExtractor("", root)
	if got != filepath.Join(binDir, "SMILExtract") {
		t.Fatalf("ResolveExtractor = %q, want PATH binary", got)
	}
	if status := CheckExtractor("", root); status.Source != SourcePath {
		t.Fatalf("expected PATH source, got %#v", status)
	}
}

func TestResolveExtractorSearchesOpenSMILETree(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	root := t.TempDir()
	built := filepath.Join(root, "build", "progsrc", "smilextract", "SMILExtract")
	writeStub(t, built)

	if got := ResolveExtractor("SMILExtract", root); got != built {
		t.Fatalf("ResolveExtractor = %q, want %q", got, built)
	}

	status := CheckExtractor("SMILExtract", root)
	if !status.Available || status.Command != built || status.Source != SourceOpenSMILE {
		t.Fatalf("unexpected status: %#v", status)
	}
}

func TestResolveExtractorFallsBackToConfigured(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "bin", "SMILExtract"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := ResolveExtractor("SMILExtract", root); got != "SMILExtract" {
		t.Fatalf("ResolveExtractor = %q, want configured name", got)
	}
	status := CheckExtractor("SMILExtract", root)
	if status.Available || status.Source != SourceConfigured || status.Detail == "" {
		t.Fatalf("expected unavailable extractor, got %#v", status)
	}
}
