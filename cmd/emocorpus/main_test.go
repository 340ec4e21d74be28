package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emocorpus/internal/batch"
	"emocorpus/internal/journal"
	"emocorpus/internal/preflight"
	"emocorpus/internal/testsupport"
)

func TestLabelsTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"labels"}, env.configPath)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	requireContains(t, out, "SUR")
	requireContains(t, out, "pleasant_surprise")
	requireContains(t, out, "(anything else)")

	out, _, err = runCLI(t, []string{"labels", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("labels --json: %v", err)
	}
	var rows []labelRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode labels: %v", err)
	}
	if len(rows) != 8 || rows[0].Code != "ANG" || rows[0].Arousal != 1 {
		t.Fatalf("unexpected label rows: %+v", rows)
	}
}

func TestInspectJSON(t *testing.T) {
	out, _, err := runCLI(t, []string{"inspect", "savee", "/data/savee/DC_sa03.wav", "/data/savee/DC_x01.wav", "--json"}, "")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var rows []inspectRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode inspect: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].PoolName != "SAVEE_SAD_0_DC_sa03.wav" || rows[0].RawEmotion != "sad" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Label.Code != "UNK" || rows[1].RawEmotion != "unknown" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestInspectRejectsUnknownDataset(t *testing.T) {
	if _, _, err := runCLI(t, []string{"inspect", "iemocap", "a.wav"}, ""); err == nil {
		t.Fatal("expected error for unsupported dataset")
	}
}

func TestConvertFileCommand(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "1001_DFA_ANG_XX_egemaps.csv")
	testsupport.WriteExport(t, export, []string{"f1"}, "'a',1.25,?", "bad")

	out, _, err := runCLI(t, []string{"convert-file", export}, "")
	if err != nil {
		t.Fatalf("convert-file: %v", err)
	}
	requireContains(t, out, "1 columns, 1 rows")
	requireContains(t, out, "skipped line 10")

	data, err := os.ReadFile(filepath.Join(dir, "1001_DFA_ANG_XX_converted.csv"))
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	if string(data) != "f1\n1.25\n" {
		t.Fatalf("unexpected table %q", data)
	}

	missing := filepath.Join(dir, "nodata_egemaps.csv")
	testsupport.WriteText(t, missing, "@attribute f1 numeric\n")
	if _, _, err := runCLI(t, []string{"convert-file", missing}, ""); err == nil {
		t.Fatal("expected error for export without @data")
	}
}

func TestRunPipelineStatusAndLabelCounts(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteWAV(t, filepath.Join(env.cfg.Datasets.SAVEEDir, "DC_a01.wav"))
	testsupport.WriteWAV(t, filepath.Join(env.cfg.Datasets.CREMADDir, "1001_DFA_HAP_XX.wav"))
	testsupport.WriteWAV(t, filepath.Join(env.cfg.Datasets.TESSDir, "OAF_neutral", "OAF_back_neutral.wav"))
	testsupport.WriteWAV(t, filepath.Join(env.cfg.Datasets.RAVDESSDir, "Actor_01", "03-01-05-01-01-01-01.wav"))

	out, _, err := runCLI(t, []string{"run", "--json", "--workers", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var summaries []batch.Summary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("decode summaries: %v\n%s", err, out)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.Succeeded != 4 || s.Failed != 0 {
			t.Fatalf("unexpected %s summary: %+v", s.Stage, s)
		}
	}
	table := filepath.Join(env.cfg.Paths.TablesDir, "CREMAD_HAP_1_1001_DFA_HAP_XX_converted.csv")
	if _, err := os.Stat(table); err != nil {
		t.Fatalf("expected converted table: %v", err)
	}

	out, _, err = runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if len(report.Stages) != 3 || report.Stages[1].Stage != journal.StageExtract || report.Stages[1].Done != 4 {
		t.Fatalf("unexpected stages: %+v", report.Stages)
	}
	if report.LastRun == nil || report.LastRun.Command != "run" {
		t.Fatalf("unexpected last run: %+v", report.LastRun)
	}

	out, _, err = runCLI(t, []string{"labels", "--counts"}, env.configPath)
	if err != nil {
		t.Fatalf("labels --counts: %v", err)
	}
	requireContains(t, out, "CREMAD")
	requireContains(t, out, "HAP")
	requireContains(t, out, "NEU")

	out, _, err = runCLI(t, []string{"collect"}, env.configPath)
	if err != nil {
		t.Fatalf("second collect: %v", err)
	}
	requireContains(t, out, "collect")
	requireContains(t, out, "Run ID:")
}

func TestStatusRejectsUnknownStage(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"status", "--stage", "encode"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteWAV(t, filepath.Join(env.cfg.Datasets.SAVEEDir, "DC_a01.wav"))
	if _, _, err := runCLI(t, []string{"collect"}, env.configPath); err != nil {
		t.Fatalf("collect: %v", err)
	}

	_, _, err := runCLI(t, []string{"reset", "--stage", "collect"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected confirmation error, got %v", err)
	}

	out, _, err := runCLI(t, []string{"reset", "--stage", "collect", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	requireContains(t, out, "Removed 1 journal entry for collect")
}

func TestPreflightReportsMissingDatasets(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"preflight", "--json", "--create-dirs"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure for empty dataset roots")
	}
	var results []preflight.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode preflight: %v", err)
	}
	byName := make(map[string]preflight.Result)
	for _, r := range results {
		byName[r.Name] = r
	}
	if !byName["Pool directory"].Passed || !byName["SMILExtract"].Passed {
		t.Fatalf("expected directories and extractor to pass: %+v", results)
	}
	if byName["TESS dataset"].Passed {
		t.Fatal("expected missing TESS root to fail")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Dataset SAVEE")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "No dataset roots configured")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"--log-level", "loud", "status"}, env.configPath); err == nil {
		t.Fatal("expected error for invalid --log-level")
	}
}

func TestConfigShowAndSampleStdout(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[datasets]")
	requireContains(t, out, env.cfg.Datasets.SAVEEDir)
	requireContains(t, out, "workers = 2")

	out, _, err = runCLI(t, []string{"config", "init", "--stdout"}, "")
	if err != nil {
		t.Fatalf("config init --stdout: %v", err)
	}
	requireContains(t, out, "# emocorpus configuration")
	requireContains(t, out, "cremad_dir")
}
