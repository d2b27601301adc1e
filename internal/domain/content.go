package domain

import "time"

// ContentType routes an input reference to a processing path.
// It is a closed set: Classify always returns one of these values.
type ContentType string

const (
	TypeAudio          ContentType = "audio"
	TypeVideo          ContentType = "video"
	TypeTranscriptText ContentType = "transcript-text"
	TypePodcastURL     ContentType = "podcast-url"
	TypeArticleURL     ContentType = "article-url"
	TypeUnknown        ContentType = "unknown"
)

// ContentID names one processing run's artifact family. The value has the
// shape label_digest_datestamp; the date component means the same reference
// processed on a later day produces a fresh artifact family.
type ContentID string

func (id ContentID) String() string { return string(id) }

// ArtifactKind selects one of the three persisted stage outputs.
type ArtifactKind string

const (
	KindAudio      ArtifactKind = "audio"
	KindTranscript ArtifactKind = "transcript"
	KindSummary    ArtifactKind = "summary"
)

// ArtifactSet holds per-kind file locations for one identifier. Empty string
// means the artifact does not exist yet.
type ArtifactSet struct {
	Audio      string
	Transcript string
	Summary    string
}

// Get returns the location recorded for a kind.
func (a ArtifactSet) Get(kind ArtifactKind) string {
	switch kind {
	case KindAudio:
		return a.Audio
	case KindTranscript:
		return a.Transcript
	case KindSummary:
		return a.Summary
	}
	return ""
}

// UserProfile is the static reader profile threaded through every prompt.
// It is loaded once at startup and never mutated.
type UserProfile struct {
	Role      string
	Interests []string
	Goals     []string
	Context   string
}

// ArticleContent is the extracted readable payload of an article page.
type ArticleContent struct {
	Title string
	Text  string
}

// SummaryOutcome distinguishes a real summary from a sentinel document
// written after an oracle failure. Degraded outcomes still carry content
// (the sentinel text) and still count as item-level success.
type SummaryOutcome struct {
	Content  string
	Degraded bool
	Reason   string
}

// ItemResult is the dispatcher's per-reference report.
type ItemResult struct {
	Reference  string
	Type       ContentType
	ID         ContentID
	Artifacts  ArtifactSet
	Summary    SummaryOutcome
	EmailSent  bool
	Success    bool
	Err        error
	FinishedAt time.Time
}
