// Package usecase orchestrates the processing pipeline: classify, acquire,
// extract, summarize, distribute. Every stage is guarded by an artifact
// existence check, so re-running an identifier is a chain of cache hits.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"PodcastSummarizer/internal/artifact"
	"PodcastSummarizer/internal/classify"
	"PodcastSummarizer/internal/domain"
	"PodcastSummarizer/internal/identity"
	"PodcastSummarizer/internal/ports"
	"PodcastSummarizer/internal/prompt"
	"PodcastSummarizer/internal/summary"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Optional collaborators (Captions, Mailer, Renderer, Recorder) may be nil.
type PipelineDeps struct {
	Store      *artifact.Store
	Classifier *classify.Classifier

	Downloader  ports.AudioDownloader
	Transcriber ports.Transcriber
	Captions    ports.CaptionSource
	Articles    ports.ArticleFetcher
	Oracle      ports.Oracle
	Mailer      ports.Mailer
	Renderer    ports.DocumentRenderer
	Recorder    ports.RunRecorder

	Profile        domain.UserProfile
	SummaryTimeout time.Duration
	InsightTimeout time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

// Options carries per-invocation flags.
type Options struct {
	ForcedType  domain.ContentType
	Force       bool // forced regeneration: bypass caches, recreate artifacts
	Instruction string
	Email       bool
	PDF         bool
}

// Pipeline implements the summarization workflow.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.SummaryTimeout <= 0 {
		deps.SummaryTimeout = 300 * time.Second
	}
	if deps.InsightTimeout <= 0 {
		deps.InsightTimeout = 60 * time.Second
	}
	return &Pipeline{deps: deps}
}

// Process runs one reference through the full pipeline.
func (p *Pipeline) Process(ctx context.Context, reference string, opts Options) domain.ItemResult {
	contentType := p.deps.Classifier.Classify(ctx, reference, opts.ForcedType)
	id := identity.DeriveID(reference, p.deps.Now())

	result := domain.ItemResult{
		Reference: reference,
		Type:      contentType,
		ID:        id,
	}
	p.info("processing", "reference", reference, "id", id, "type", contentType)

	transcript, err := p.obtainTranscript(ctx, reference, id, contentType, opts)
	if err != nil {
		p.error("pipeline stopped", "id", id, "error", err)
		result.Err = err
		result.Artifacts = p.deps.Store.Existing(id)
		result.FinishedAt = p.deps.Now()
		return result
	}

	document, outcome := p.summarize(ctx, reference, id, contentType, transcript, opts)
	result.Summary = outcome

	p.distribute(ctx, id, reference, document, opts, &result)

	result.Artifacts = p.deps.Store.Existing(id)
	result.Success = true
	result.FinishedAt = p.deps.Now()
	return result
}

// obtainTranscript drives Start -> Acquired -> TextExtracted for the
// content type, returning the transcript text.
func (p *Pipeline) obtainTranscript(ctx context.Context, reference string, id domain.ContentID, contentType domain.ContentType, opts Options) (string, error) {
	if !opts.Force {
		if cached, err := p.deps.Store.Read(domain.KindTranscript, id); err == nil {
			p.info("using cached transcript", "id", id)
			return string(cached), nil
		}
	}

	switch contentType {
	case domain.TypeTranscriptText:
		return p.transcriptFromFile(reference, id, opts)
	case domain.TypeAudio, domain.TypeVideo:
		if isLocalFile(reference) {
			return p.transcriptFromLocalMedia(ctx, reference, id, opts)
		}
		return p.transcriptFromRemoteMedia(ctx, reference, id, contentType, opts)
	case domain.TypePodcastURL:
		return p.transcriptFromRemoteMedia(ctx, reference, id, contentType, opts)
	case domain.TypeArticleURL:
		return p.transcriptFromArticle(ctx, reference, id, opts)
	}

	return "", fmt.Errorf("%w: no processing path for content type %q", domain.ErrExtractionFailed, contentType)
}

// transcriptFromFile is the passthrough path for pre-existing transcripts.
func (p *Pipeline) transcriptFromFile(reference string, id domain.ContentID, opts Options) (string, error) {
	raw, err := os.ReadFile(reference)
	if err != nil {
		return "", fmt.Errorf("%w: read transcript file: %v", domain.ErrExtractionFailed, err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("%w: transcript file is empty", domain.ErrExtractionFailed)
	}
	if _, err := p.deps.Store.Write(domain.KindTranscript, id, []byte(text), opts.Force); err != nil {
		return "", fmt.Errorf("persist transcript: %w", err)
	}
	return text, nil
}

func (p *Pipeline) transcriptFromLocalMedia(ctx context.Context, reference string, id domain.ContentID, opts Options) (string, error) {
	text, err := p.deps.Transcriber.Transcribe(ctx, reference)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	if _, err := p.deps.Store.Write(domain.KindTranscript, id, []byte(text), opts.Force); err != nil {
		return "", fmt.Errorf("persist transcript: %w", err)
	}
	return text, nil
}

func (p *Pipeline) transcriptFromRemoteMedia(ctx context.Context, reference string, id domain.ContentID, contentType domain.ContentType, opts Options) (string, error) {
	// Platform captions spare the download-and-transcribe pass entirely.
	if contentType == domain.TypeVideo && p.deps.Captions != nil {
		if captions, err := p.deps.Captions.FetchCaptions(ctx, reference); err == nil && captions != "" {
			p.info("using platform captions", "id", id)
			if _, err := p.deps.Store.Write(domain.KindTranscript, id, []byte(captions), opts.Force); err != nil {
				return "", fmt.Errorf("persist transcript: %w", err)
			}
			return captions, nil
		}
	}

	audioPath := ""
	if !opts.Force {
		audioPath = p.deps.Store.Existing(id).Audio
	}
	if audioPath == "" {
		p.info("downloading audio", "id", id)
		location, err := p.deps.Downloader.Download(ctx, reference, p.deps.Store.Path(domain.KindAudio, id))
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrAcquisitionFailed, err)
		}
		audioPath = location
	} else {
		p.info("using cached audio", "id", id)
	}

	text, err := p.deps.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	if _, err := p.deps.Store.Write(domain.KindTranscript, id, []byte(text), opts.Force); err != nil {
		return "", fmt.Errorf("persist transcript: %w", err)
	}
	return text, nil
}

func (p *Pipeline) transcriptFromArticle(ctx context.Context, reference string, id domain.ContentID, opts Options) (string, error) {
	content, err := p.deps.Articles.FetchText(ctx, reference)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	if _, err := p.deps.Store.Write(domain.KindTranscript, id, []byte(content.Text), opts.Force); err != nil {
		return "", fmt.Errorf("persist transcript: %w", err)
	}
	return content.Text, nil
}

// summarize drives TextExtracted -> Summarized. Oracle failures degrade the
// summary to the sentinel document instead of failing the item.
func (p *Pipeline) summarize(ctx context.Context, reference string, id domain.ContentID, contentType domain.ContentType, transcript string, opts Options) (string, domain.SummaryOutcome) {
	if !opts.Force {
		if cached, err := p.deps.Store.Read(domain.KindSummary, id); err == nil {
			p.info("using cached summary", "id", id)
			return string(cached), domain.SummaryOutcome{Content: string(cached)}
		}
	}

	body, insight, outcome := p.generate(ctx, contentType, transcript, opts)
	document := summary.Compose(id, reference, contentType, p.deps.Now(), insight, body)

	if _, err := p.deps.Store.Write(domain.KindSummary, id, []byte(document), opts.Force); err != nil {
		p.error("persist summary", "id", id, "error", err)
	}
	outcome.Content = document
	return document, outcome
}

func (p *Pipeline) generate(ctx context.Context, contentType domain.ContentType, transcript string, opts Options) (body, insight string, outcome domain.SummaryOutcome) {
	var promptText string
	if contentType == domain.TypeArticleURL {
		promptText = prompt.Article(domain.ArticleContent{Text: transcript}, p.deps.Profile, opts.Instruction)
	} else {
		promptText = prompt.Podcast(transcript, p.deps.Profile, opts.Instruction)
	}

	p.info("generating summary")
	summaryCtx, cancel := context.WithTimeout(ctx, p.deps.SummaryTimeout)
	body, err := p.deps.Oracle.Complete(summaryCtx, promptText)
	cancel()
	if err != nil {
		sentinel := domain.SentinelSummaryFailed
		kind := domain.ErrOracleFailed
		if errors.Is(err, context.DeadlineExceeded) {
			sentinel = domain.SentinelSummaryTimedOut
			kind = domain.ErrOracleTimeout
		}
		p.error("summary generation degraded", "error", err)
		return sentinel, "", domain.SummaryOutcome{
			Degraded: true,
			Reason:   fmt.Sprintf("%v: %v", kind, err),
		}
	}

	insightCtx, cancel := context.WithTimeout(ctx, p.deps.InsightTimeout)
	insight, err = p.deps.Oracle.Complete(insightCtx, prompt.Insight(body))
	cancel()
	if err != nil {
		// The insight block is an enrichment; losing it does not degrade
		// the summary itself.
		p.error("insight synthesis failed", "error", err)
		insight = ""
	}

	return body, insight, domain.SummaryOutcome{}
}

// distribute drives Summarized -> Distributed. Failures here are logged and
// never change the item outcome.
func (p *Pipeline) distribute(ctx context.Context, id domain.ContentID, reference, document string, opts Options, result *domain.ItemResult) {
	if opts.PDF && p.deps.Renderer != nil {
		location := strings.TrimSuffix(p.deps.Store.Path(domain.KindSummary, id), ".md") + ".pdf"
		if err := p.deps.Renderer.Render(document, location); err != nil {
			p.error("pdf rendering failed", "id", id, "error", fmt.Errorf("%w: %v", domain.ErrDistributionFailed, err))
		} else {
			p.info("pdf written", "location", location)
		}
	}

	if !opts.Email || p.deps.Mailer == nil {
		return
	}

	doc := summary.Parse(document)
	mail := ports.SummaryMail{
		Subject:        summary.Subject(doc, "Podcast Summary - "+string(id)),
		Body:           summary.EmailBody(doc, reference),
		HTMLBody:       summary.HTMLBody(document),
		TranscriptPath: p.deps.Store.Existing(id).Transcript,
	}
	if err := p.deps.Mailer.Send(ctx, mail); err != nil {
		p.error("email delivery failed", "id", id, "error", fmt.Errorf("%w: %v", domain.ErrDistributionFailed, err))
		return
	}
	result.EmailSent = true
}

func isLocalFile(reference string) bool {
	info, err := os.Stat(reference)
	return err == nil && !info.IsDir()
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Info(msg, args...)
	}
}

func (p *Pipeline) error(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Error(msg, args...)
	}
}
