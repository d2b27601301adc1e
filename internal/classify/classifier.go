// Package classify decides which processing path an input reference takes.
package classify

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"PodcastSummarizer/internal/domain"
	"PodcastSummarizer/internal/httpclient"
)

const probeTimeout = 5 * time.Second

var extensionTypes = map[string]domain.ContentType{
	".mp3":  domain.TypeAudio,
	".m4a":  domain.TypeAudio,
	".wav":  domain.TypeAudio,
	".aac":  domain.TypeAudio,
	".flac": domain.TypeAudio,
	".ogg":  domain.TypeAudio,
	".mp4":  domain.TypeVideo,
	".mov":  domain.TypeVideo,
	".mkv":  domain.TypeVideo,
	".avi":  domain.TypeVideo,
	".webm": domain.TypeVideo,
	".txt":  domain.TypeTranscriptText,
	".text": domain.TypeTranscriptText,
	".md":   domain.TypeTranscriptText,
}

var videoHosts = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
}

var podcastHosts = []string{
	"pca.st",
	"pocketcasts.com",
	"overcast.fm",
	"podcasts.apple.com",
	"open.spotify.com/episode",
}

var audioSuffixes = []string{".mp3", ".m4a", ".wav", ".aac", ".ogg"}

// Prober performs the live capability probe for remote references.
// *httpclient.Client satisfies it.
type Prober interface {
	Do(req *http.Request) (*http.Response, error)
}

// Classifier resolves a reference to a ContentType. Classification is
// recomputed on every call and never persisted; a remote server changing its
// declared content type may change the result across runs.
type Classifier struct {
	prober Prober
	logger *slog.Logger
}

// New builds a classifier. A nil prober gets a curl-profile HTTP client with
// the probe timeout baked in.
func New(prober Prober, logger *slog.Logger) *Classifier {
	if prober == nil {
		prober = httpclient.New(httpclient.Curl, probeTimeout)
	}
	return &Classifier{prober: prober, logger: logger}
}

// Classify returns the processing path for a reference. A non-empty forced
// type always wins. Local paths classify by extension without any network
// traffic; remote references consult host tables first and fall back to an
// HTTP HEAD probe. Probe failures and unrecognized types default to
// article-url, the path that degrades most gracefully. Classify never
// returns an error.
func (c *Classifier) Classify(ctx context.Context, reference string, forced domain.ContentType) domain.ContentType {
	if forced != "" {
		return forced
	}

	if isLocalPath(reference) {
		ext := strings.ToLower(filepath.Ext(reference))
		if t, ok := extensionTypes[ext]; ok {
			return t
		}
		return domain.TypeUnknown
	}

	lower := strings.ToLower(reference)
	for _, host := range videoHosts {
		if strings.Contains(lower, host) {
			return domain.TypeVideo
		}
	}
	for _, host := range podcastHosts {
		if strings.Contains(lower, host) {
			return domain.TypePodcastURL
		}
	}
	if hasAudioSuffix(lower) {
		return domain.TypePodcastURL
	}

	return c.probe(ctx, reference)
}

func (c *Classifier) probe(ctx context.Context, reference string) domain.ContentType {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, reference, nil)
	if err != nil {
		return domain.TypeArticleURL
	}

	resp, err := c.prober.Do(req)
	if err != nil {
		c.debug("probe failed, defaulting to article", "reference", reference, "error", err)
		return domain.TypeArticleURL
	}
	defer resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.HasPrefix(contentType, "audio/"):
		return domain.TypePodcastURL
	case strings.HasPrefix(contentType, "video/"):
		return domain.TypeVideo
	case strings.HasPrefix(contentType, "text/html"),
		strings.HasPrefix(contentType, "application/xhtml"):
		return domain.TypeArticleURL
	}

	c.debug("unrecognized content type, defaulting to article", "reference", reference, "content_type", contentType)
	return domain.TypeArticleURL
}

func (c *Classifier) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// isLocalPath reports whether the reference names an existing file on disk.
func isLocalPath(reference string) bool {
	if u, err := url.Parse(reference); err == nil && u.Scheme != "" && u.Host != "" {
		return false
	}
	info, err := os.Stat(reference)
	return err == nil && !info.IsDir()
}

func hasAudioSuffix(reference string) bool {
	// Query strings do not count against the path suffix.
	if i := strings.IndexByte(reference, '?'); i >= 0 {
		reference = reference[:i]
	}
	for _, suffix := range audioSuffixes {
		if strings.HasSuffix(reference, suffix) {
			return true
		}
	}
	return false
}
