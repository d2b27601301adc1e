// Package app wires configuration to adapters and the processing pipeline.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"PodcastSummarizer/internal/artifact"
	"PodcastSummarizer/internal/classify"
	"PodcastSummarizer/internal/config"
	"PodcastSummarizer/internal/domain"
	"PodcastSummarizer/internal/httpclient"
	"PodcastSummarizer/internal/infrastructure/article"
	"PodcastSummarizer/internal/infrastructure/download"
	"PodcastSummarizer/internal/infrastructure/email"
	"PodcastSummarizer/internal/infrastructure/history"
	"PodcastSummarizer/internal/infrastructure/llm"
	"PodcastSummarizer/internal/infrastructure/pdfout"
	"PodcastSummarizer/internal/infrastructure/transcribe"
	"PodcastSummarizer/internal/logging"
	"PodcastSummarizer/internal/ports"
	"PodcastSummarizer/internal/usecase"
)

const lockFileName = ".podcastsummarizer.lock"

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	lock     *flock.Flock
	recorder *history.SQLiteRecorder
}

// New builds a runnable application instance. The workspace is locked for
// the lifetime of the instance so concurrent runs cannot race on the shared
// artifact directories; callers must Close.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := artifact.NewStore(cfg.Workspace.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Workspace.BaseDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock workspace: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("workspace %s is in use by another instance", cfg.Workspace.BaseDir)
	}

	var recorder *history.SQLiteRecorder
	if cfg.History.Enabled {
		recorder, err = history.Open(cfg.HistoryPath())
		if err != nil {
			// The ledger is advisory, so a broken database downgrades to
			// no recording instead of refusing to start.
			baseLogger.Error("history ledger unavailable", "path", cfg.HistoryPath(), "error", err)
			recorder = nil
		}
	}

	browser := httpclient.New(httpclient.Browser, 30*time.Second)

	var mailer ports.Mailer
	if cfg.Email.Complete() {
		mailer = email.NewSMTPMailer(cfg.Email, baseLogger.With("component", "mailer"))
	}

	var runRecorder ports.RunRecorder
	if recorder != nil {
		runRecorder = recorder
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:          store,
		Classifier:     classify.New(nil, baseLogger.With("component", "classifier")),
		Downloader:     download.NewDownloader(cfg.Tools.YtDlpPath, browser, baseLogger.With("component", "downloader")),
		Transcriber:    transcribe.NewWhisperTranscriber(cfg.Tools.WhisperPath, cfg.Tools.WhisperModel, baseLogger.With("component", "transcriber")),
		Captions:       download.NewCaptions(cfg.Tools.YtDlpPath, baseLogger.With("component", "captions")),
		Articles:       article.NewFetcher(browser),
		Oracle:         llm.NewOracleClient(cfg.Oracle),
		Mailer:         mailer,
		Renderer:       pdfout.NewRenderer(),
		Recorder:       runRecorder,
		Profile:        cfg.UserProfile(),
		SummaryTimeout: cfg.Oracle.SummaryTimeout(),
		InsightTimeout: cfg.Oracle.InsightTimeout(),
		Logger:         baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, lock: lock, recorder: recorder}, nil
}

// Process runs a single reference through the pipeline.
func (a *Application) Process(ctx context.Context, reference string, opts usecase.Options) domain.ItemResult {
	return a.pipeline.Process(ctx, reference, opts)
}

// ProcessMany runs a batch of references, isolating failures per item.
func (a *Application) ProcessMany(ctx context.Context, references []string, opts usecase.Options) []domain.ItemResult {
	return a.pipeline.ProcessMany(ctx, references, opts)
}

// Recent reads the newest run ledger rows, or nil when the ledger is off.
func (a *Application) Recent(ctx context.Context, limit uint64) ([]history.Run, error) {
	if a.recorder == nil {
		return nil, nil
	}
	return a.recorder.Recent(ctx, limit)
}

// Close releases the workspace lock and the ledger handle.
func (a *Application) Close() error {
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			return err
		}
	}
	if a.lock != nil {
		return a.lock.Unlock()
	}
	return nil
}
