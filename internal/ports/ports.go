package ports

import (
	"context"

	"PodcastSummarizer/internal/domain"
)

// AudioDownloader acquires an audio blob for a remote reference and writes
// it to dest, returning the final location.
type AudioDownloader interface {
	Download(ctx context.Context, reference, dest string) (string, error)
}

// Transcriber converts a local audio or video file to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (string, error)
}

// CaptionSource fetches platform-provided captions for a reference.
// An empty transcript with a nil error means none are available.
type CaptionSource interface {
	FetchCaptions(ctx context.Context, reference string) (string, error)
}

// ArticleFetcher downloads an article page and extracts its readable text.
type ArticleFetcher interface {
	FetchText(ctx context.Context, url string) (domain.ArticleContent, error)
}

// Oracle is the external text-generation service. Complete blocks until the
// completion arrives or ctx expires.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SummaryMail is one outbound summary delivery.
type SummaryMail struct {
	Subject        string
	Body           string
	HTMLBody       string
	TranscriptPath string
}

// Mailer delivers summary mail through SMTP or a test double.
type Mailer interface {
	Send(ctx context.Context, mail SummaryMail) error
}

// DocumentRenderer writes a fixed-layout document (PDF) for a summary.
type DocumentRenderer interface {
	Render(document, location string) error
}

// RunRecorder persists per-item outcomes of a batch for audit.
type RunRecorder interface {
	RecordBatch(ctx context.Context, batchID string, results []domain.ItemResult) error
}
