package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	c := New()
	c.File("extract", OutcomeDone)
	c.File("extract", OutcomeDone)
	c.File("extract", OutcomeFailed)
	c.Label("TESS", "FEA")
	c.Table(10, 3, map[string]int{"too_few_fields": 2})
	c.Table(5, 0, nil)

	if got := testutil.ToFloat64(c.filesTotal.WithLabelValues("extract", OutcomeDone)); got != 2 {
		t.Fatalf("done files = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.filesTotal.WithLabelValues("extract", OutcomeFailed)); got != 1 {
		t.Fatalf("failed files = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.labelsTotal.WithLabelValues("TESS", "FEA")); got != 1 {
		t.Fatalf("labels = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.rowsTotal); got != 15 {
		t.Fatalf("rows = %v, want 15", got)
	}
	if got := testutil.ToFloat64(c.nanCellsTotal); got != 3 {
		t.Fatalf("nan cells = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.skippedLines.WithLabelValues("too_few_fields")); got != 2 {
		t.Fatalf("skipped = %v, want 2", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.File("collect", OutcomeDone)
	c.Label("SAVEE", "ANG")
	c.Table(1, 1, map[string]int{"x": 1})
	c.Observe("collect", time.Second)
	c.MarkRun("collect", time.Now())
	if err := c.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("WriteTextfile on nil: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	c := New()
	c.File("convert", OutcomeDone)
	c.Observe("convert", 50*time.Millisecond)
	c.MarkRun("convert", time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "state", "emocorpus.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`emocorpus_files_total{outcome="done",stage="convert"} 1`,
		`emocorpus_file_duration_seconds_count{stage="convert"} 1`,
		`emocorpus_last_run_timestamp_seconds{command="convert"} 1.7e+09`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("textfile missing %q:\n%s", want, text)
		}
	}
}
