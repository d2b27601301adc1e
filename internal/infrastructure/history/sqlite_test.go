package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"PodcastSummarizer/internal/domain"
)

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()

	recorder, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer recorder.Close()

	now := time.Now()
	results := []domain.ItemResult{
		{
			Reference:  "https://pca.st/episode/abc",
			Type:       domain.TypePodcastURL,
			ID:         "pca_1a2b3c4d_20260314",
			Success:    true,
			Artifacts:  domain.ArtifactSet{Summary: "/tmp/s.md"},
			FinishedAt: now,
		},
		{
			Reference:  "https://broken.example/ep",
			Type:       domain.TypePodcastURL,
			ID:         "broken_9f8e7d6c_20260314",
			Success:    false,
			Err:        errors.New("acquisition failed: no audio"),
			FinishedAt: now.Add(time.Second),
		},
	}

	if err := recorder.RecordBatch(context.Background(), "batch-1", results); err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}

	runs, err := recorder.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(runs))
	}
	if runs[0].Reference != "https://broken.example/ep" {
		t.Fatalf("expected newest row first, got %s", runs[0].Reference)
	}
	if runs[0].Success || runs[0].Error == "" {
		t.Fatalf("failure row lost its error: %+v", runs[0])
	}
	if !runs[1].Success || runs[1].SummaryPath != "/tmp/s.md" {
		t.Fatalf("success row mangled: %+v", runs[1])
	}
}

func TestRecordEmptyBatchIsNoop(t *testing.T) {
	t.Parallel()

	recorder, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer recorder.Close()

	if err := recorder.RecordBatch(context.Background(), "batch-empty", nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}
