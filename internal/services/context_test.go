package services_test

import (
	"context"
	"testing"

	"emocorpus/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "convert")
	ctx = services.WithFile(ctx, "/data/a.csv")
	ctx = services.WithDataset(ctx, "TESS")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "convert" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if file, ok := services.FileFromContext(ctx); !ok || file != "/data/a.csv" {
		t.Fatalf("unexpected file: %v %v", file, ok)
	}
	if name, ok := services.DatasetFromContext(ctx); !ok || name != "TESS" {
		t.Fatalf("unexpected dataset: %v %v", name, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
