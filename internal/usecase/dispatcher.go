package usecase

import (
	"context"

	"github.com/google/uuid"

	"PodcastSummarizer/internal/domain"
)

// ProcessMany runs every reference through the pipeline independently.
// One item's failure never aborts the rest; results keep input order.
func (p *Pipeline) ProcessMany(ctx context.Context, references []string, opts Options) []domain.ItemResult {
	batchID := uuid.NewString()
	results := make([]domain.ItemResult, 0, len(references))

	for _, reference := range references {
		results = append(results, p.Process(ctx, reference, opts))
	}

	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}
	p.info("batch complete", "batch", batchID, "total", len(results), "succeeded", succeeded)

	if p.deps.Recorder != nil {
		// The ledger is advisory; a recording failure must not fail the run.
		if err := p.deps.Recorder.RecordBatch(ctx, batchID, results); err != nil {
			p.error("record batch", "batch", batchID, "error", err)
		}
	}

	return results
}
