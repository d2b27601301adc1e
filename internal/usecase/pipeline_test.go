package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"PodcastSummarizer/internal/artifact"
	"PodcastSummarizer/internal/classify"
	"PodcastSummarizer/internal/domain"
	"PodcastSummarizer/internal/ports"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

type proberFunc func(req *http.Request) (*http.Response, error)

func (f proberFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func noProbe(t *testing.T) classify.Prober {
	t.Helper()
	return proberFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected network probe for %s", req.URL)
		return nil, nil
	})
}

type fakeDownloader struct {
	calls   int
	failRef string
}

func (f *fakeDownloader) Download(_ context.Context, reference, dest string) (string, error) {
	f.calls++
	if f.failRef != "" && reference == f.failRef {
		return "", errors.New("no audio stream found")
	}
	if err := os.WriteFile(dest, []byte("audio-bytes"), 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

type fakeTranscriber struct {
	calls int
	fail  bool
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("decode error")
	}
	return "the spoken words", nil
}

type fakeCaptions struct {
	calls int
	text  string
}

func (f *fakeCaptions) FetchCaptions(context.Context, string) (string, error) {
	f.calls++
	return f.text, nil
}

type fakeArticles struct {
	calls int
}

func (f *fakeArticles) FetchText(context.Context, string) (domain.ArticleContent, error) {
	f.calls++
	return domain.ArticleContent{Title: "The Page", Text: "the article body"}, nil
}

type fakeOracle struct {
	calls   int
	prompts []string
	err     error
	onCall  func()
}

func (f *fakeOracle) Complete(_ context.Context, promptText string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, promptText)
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return "", f.err
	}
	if f.calls == 1 {
		return "TITLE: Generated Title\n\n## Key Points\n- one\n\n## Episode Summary\nnarrative", nil
	}
	return "the core insight", nil
}

type fakeMailer struct {
	calls int
	last  ports.SummaryMail
}

func (f *fakeMailer) Send(_ context.Context, mail ports.SummaryMail) error {
	f.calls++
	f.last = mail
	return nil
}

type fakeRecorder struct {
	batches [][]domain.ItemResult
}

func (f *fakeRecorder) RecordBatch(_ context.Context, _ string, results []domain.ItemResult) error {
	f.batches = append(f.batches, results)
	return nil
}

type fixture struct {
	pipeline    *Pipeline
	store       *artifact.Store
	downloader  *fakeDownloader
	transcriber *fakeTranscriber
	captions    *fakeCaptions
	articles    *fakeArticles
	oracle      *fakeOracle
	mailer      *fakeMailer
	recorder    *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := artifact.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	f := &fixture{
		store:       store,
		downloader:  &fakeDownloader{},
		transcriber: &fakeTranscriber{},
		captions:    &fakeCaptions{},
		articles:    &fakeArticles{},
		oracle:      &fakeOracle{},
		mailer:      &fakeMailer{},
		recorder:    &fakeRecorder{},
	}
	f.pipeline = NewPipeline(PipelineDeps{
		Store:       store,
		Classifier:  classify.New(noProbe(t), nil),
		Downloader:  f.downloader,
		Transcriber: f.transcriber,
		Captions:    f.captions,
		Articles:    f.articles,
		Oracle:      f.oracle,
		Mailer:      f.mailer,
		Recorder:    f.recorder,
		Profile:     domain.UserProfile{Role: "founder"},
		Now:         func() time.Time { return fixedNow },
	})
	return f
}

const podcastRef = "https://pca.st/episode/abc"

func TestPodcastURLFullRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res := f.pipeline.Process(context.Background(), podcastRef, Options{})

	if !res.Success || res.Err != nil {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Type != domain.TypePodcastURL {
		t.Fatalf("unexpected type: %s", res.Type)
	}
	if f.downloader.calls != 1 || f.transcriber.calls != 1 || f.oracle.calls != 2 {
		t.Fatalf("unexpected collaborator calls: download=%d transcribe=%d oracle=%d",
			f.downloader.calls, f.transcriber.calls, f.oracle.calls)
	}
	if res.Artifacts.Audio == "" || res.Artifacts.Transcript == "" || res.Artifacts.Summary == "" {
		t.Fatalf("missing artifacts: %+v", res.Artifacts)
	}

	doc, err := os.ReadFile(res.Artifacts.Summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	for _, marker := range []string{"ID: " + string(res.ID), "URL: " + podcastRef, "CORE INSIGHT:", "the core insight", "## Key Points"} {
		if !strings.Contains(string(doc), marker) {
			t.Fatalf("summary document missing %q:\n%s", marker, doc)
		}
	}
}

func TestSecondRunIsAllCacheHits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	first := f.pipeline.Process(context.Background(), podcastRef, Options{})
	second := f.pipeline.Process(context.Background(), podcastRef, Options{})

	if first.ID != second.ID {
		t.Fatalf("ids differ across runs: %s vs %s", first.ID, second.ID)
	}
	if !second.Success {
		t.Fatalf("cached run failed: %+v", second)
	}
	if f.downloader.calls != 1 || f.transcriber.calls != 1 || f.oracle.calls != 2 {
		t.Fatalf("second run must issue zero external calls: download=%d transcribe=%d oracle=%d",
			f.downloader.calls, f.transcriber.calls, f.oracle.calls)
	}
}

func TestForcedRegenerationReinvokesEveryStage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.pipeline.Process(context.Background(), podcastRef, Options{})
	res := f.pipeline.Process(context.Background(), podcastRef, Options{Force: true})

	if !res.Success {
		t.Fatalf("forced run failed: %+v", res)
	}
	if f.downloader.calls != 2 || f.transcriber.calls != 2 || f.oracle.calls != 4 {
		t.Fatalf("forced regeneration must bypass caches: download=%d transcribe=%d oracle=%d",
			f.downloader.calls, f.transcriber.calls, f.oracle.calls)
	}
}

func TestOracleTimeoutProducesSentinelSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.oracle.err = fmt.Errorf("complete: %w", context.DeadlineExceeded)

	res := f.pipeline.Process(context.Background(), podcastRef, Options{})

	if !res.Success || res.Err != nil {
		t.Fatalf("oracle timeout must not fail the item: %+v", res)
	}
	if !res.Summary.Degraded || !strings.Contains(res.Summary.Reason, "timed out") {
		t.Fatalf("expected degraded outcome with timeout reason: %+v", res.Summary)
	}
	if f.oracle.calls != 1 {
		t.Fatalf("insight synthesis must be skipped after a failed summary, calls=%d", f.oracle.calls)
	}

	doc, err := os.ReadFile(res.Artifacts.Summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(doc), domain.SentinelSummaryTimedOut) {
		t.Fatalf("summary artifact must carry the sentinel text:\n%s", doc)
	}
}

func TestBatchIsolationAndOrdering(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.downloader.failRef = "https://pca.st/episode/broken"

	refs := []string{
		"https://pca.st/episode/one",
		"https://pca.st/episode/broken",
		"https://pca.st/episode/three",
	}
	results := f.pipeline.ProcessMany(context.Background(), refs, Options{})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Reference != refs[i] {
			t.Fatalf("result order broken at %d: %s", i, res.Reference)
		}
	}
	if !results[0].Success || !results[2].Success {
		t.Fatalf("items 1 and 3 must succeed: %+v", results)
	}
	if results[1].Success || !errors.Is(results[1].Err, domain.ErrAcquisitionFailed) {
		t.Fatalf("item 2 must fail with AcquisitionFailed, got %+v", results[1])
	}

	if len(f.recorder.batches) != 1 || len(f.recorder.batches[0]) != 3 {
		t.Fatalf("batch not recorded: %+v", f.recorder.batches)
	}
}

func TestLocalVideoTranscribesBeforeSummarizing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	media := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(media, []byte("video"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}

	var transcriptAtOracleTime bool
	var idAtOracleTime domain.ContentID
	f.oracle.onCall = func() {
		transcriptAtOracleTime = f.store.Has(domain.KindTranscript, idAtOracleTime)
	}

	// The id is deterministic, so compute it the way the pipeline will.
	idAtOracleTime = f.pipeline.Process(context.Background(), media, Options{}).ID

	res := f.pipeline.Process(context.Background(), media, Options{Force: true})
	if res.Type != domain.TypeVideo {
		t.Fatalf("local .mp4 must classify as video, got %s", res.Type)
	}
	if !transcriptAtOracleTime {
		t.Fatalf("transcript artifact must exist before the summary is generated")
	}
	if f.downloader.calls != 0 {
		t.Fatalf("local media must not trigger acquisition, calls=%d", f.downloader.calls)
	}
	if f.transcriber.calls == 0 {
		t.Fatalf("local media must be transcribed")
	}
}

func TestRemoteVideoPrefersCaptions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.captions.text = "caption text from the platform"

	res := f.pipeline.Process(context.Background(), "https://www.youtube.com/watch?v=abc", Options{})
	if !res.Success {
		t.Fatalf("caption run failed: %+v", res)
	}
	if f.captions.calls != 1 || f.downloader.calls != 0 || f.transcriber.calls != 0 {
		t.Fatalf("captions must short-circuit download and transcription: captions=%d download=%d transcribe=%d",
			f.captions.calls, f.downloader.calls, f.transcriber.calls)
	}

	transcript, err := os.ReadFile(res.Artifacts.Transcript)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(transcript) != f.captions.text {
		t.Fatalf("transcript artifact must hold the captions, got %q", transcript)
	}
}

func TestArticleURLUsesArticlePrompt(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res := f.pipeline.Process(context.Background(), "https://blog.example/post", Options{ForcedType: domain.TypeArticleURL})

	if !res.Success {
		t.Fatalf("article run failed: %+v", res)
	}
	if f.articles.calls != 1 {
		t.Fatalf("article fetcher not invoked")
	}
	if len(f.oracle.prompts) == 0 || !strings.Contains(f.oracle.prompts[0], "ARTICLE_TITLE:") {
		t.Fatalf("expected article prompt vocabulary, got:\n%s", f.oracle.prompts)
	}
	if !strings.Contains(f.oracle.prompts[0], "the article body") {
		t.Fatalf("article text missing from prompt")
	}
}

func TestTranscriptFilePassthrough(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("prewritten transcript"), 0o644); err != nil {
		t.Fatalf("write transcript file: %v", err)
	}

	res := f.pipeline.Process(context.Background(), path, Options{})
	if !res.Success || res.Type != domain.TypeTranscriptText {
		t.Fatalf("unexpected result: %+v", res)
	}
	if f.transcriber.calls != 0 || f.downloader.calls != 0 {
		t.Fatalf("passthrough must not transcribe or download")
	}
	if !strings.Contains(f.oracle.prompts[0], "prewritten transcript") {
		t.Fatalf("transcript text missing from prompt")
	}
}

func TestEmailDistribution(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res := f.pipeline.Process(context.Background(), podcastRef, Options{Email: true})

	if !res.EmailSent || f.mailer.calls != 1 {
		t.Fatalf("email not sent: %+v", res)
	}
	if f.mailer.last.Subject != "Summary: Generated Title" {
		t.Fatalf("subject must come from the oracle TITLE, got %q", f.mailer.last.Subject)
	}
	if !strings.Contains(f.mailer.last.Body, "LINK: "+podcastRef) {
		t.Fatalf("email body missing source link:\n%s", f.mailer.last.Body)
	}
	if f.mailer.last.TranscriptPath == "" {
		t.Fatalf("email must reference the transcript attachment")
	}
}

func TestUnknownLocalFileFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, []byte{0x1}, 0o644); err != nil {
		t.Fatalf("write blob: %v", err)
	}

	res := f.pipeline.Process(context.Background(), path, Options{})
	if res.Success || !errors.Is(res.Err, domain.ErrExtractionFailed) {
		t.Fatalf("unknown local content must fail with ExtractionFailed: %+v", res)
	}
}
