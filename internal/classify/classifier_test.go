package classify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PodcastSummarizer/internal/domain"
	"PodcastSummarizer/internal/httpclient"
)

type proberFunc func(req *http.Request) (*http.Response, error)

func (f proberFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func forbiddenProber(t *testing.T) Prober {
	t.Helper()
	return proberFunc(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected network probe for %s", req.URL)
		return nil, nil
	})
}

func localFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestClassifyForcedTypeWins(t *testing.T) {
	t.Parallel()

	c := New(forbiddenProber(t), nil)
	got := c.Classify(context.Background(), "https://anything.example/x", domain.TypePodcastURL)
	if got != domain.TypePodcastURL {
		t.Fatalf("forced type ignored, got %s", got)
	}
}

func TestClassifyLocalPathsByExtension(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.ContentType{
		"talk.mp4":    domain.TypeVideo,
		"episode.mp3": domain.TypeAudio,
		"notes.txt":   domain.TypeTranscriptText,
		"data.bin":    domain.TypeUnknown,
	}

	c := New(forbiddenProber(t), nil)
	for name, want := range cases {
		if got := c.Classify(context.Background(), localFile(t, name), ""); got != want {
			t.Fatalf("%s: expected %s, got %s", name, want, got)
		}
	}
}

func TestClassifyKnownHosts(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.ContentType{
		"https://www.youtube.com/watch?v=abc":  domain.TypeVideo,
		"https://youtu.be/abc":                 domain.TypeVideo,
		"https://pca.st/episode/abc":           domain.TypePodcastURL,
		"https://overcast.fm/+abc":             domain.TypePodcastURL,
		"https://cdn.example/show/ep.mp3?x=1":  domain.TypePodcastURL,
		"https://cdn.example/show/ep.m4a":      domain.TypePodcastURL,
	}

	c := New(forbiddenProber(t), nil)
	for ref, want := range cases {
		if got := c.Classify(context.Background(), ref, ""); got != want {
			t.Fatalf("%s: expected %s, got %s", ref, want, got)
		}
	}
}

func TestClassifyProbeContentType(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.ContentType{
		"audio/mpeg":               domain.TypePodcastURL,
		"video/mp4":                domain.TypeVideo,
		"text/html; charset=utf-8": domain.TypeArticleURL,
		"application/xhtml+xml":    domain.TypeArticleURL,
		"application/octet-stream": domain.TypeArticleURL,
	}

	for header, want := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodHead {
				t.Errorf("expected HEAD probe, got %s", r.Method)
			}
			w.Header().Set("Content-Type", header)
		}))

		c := New(server.Client(), nil)
		if got := c.Classify(context.Background(), server.URL, ""); got != want {
			t.Fatalf("%s: expected %s, got %s", header, want, got)
		}
		server.Close()
	}
}

func TestClassifyProbeFailureDefaultsToArticle(t *testing.T) {
	t.Parallel()

	failing := proberFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	c := New(failing, nil)
	if got := c.Classify(context.Background(), "https://unreachable.example/page", ""); got != domain.TypeArticleURL {
		t.Fatalf("expected article-url fallback, got %s", got)
	}
}

func TestClassifyProbeTimeoutDefaultsToArticle(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := New(httpclient.New(httpclient.Curl, 50*time.Millisecond), nil)
	if got := c.Classify(context.Background(), server.URL, ""); got != domain.TypeArticleURL {
		t.Fatalf("expected article-url on timeout, got %s", got)
	}
}
