// Package download acquires audio blobs for remote references. Resolution
// order: PocketCasts page scrape, RSS enclosure, direct audio URL, yt-dlp.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"PodcastSummarizer/internal/httpclient"
	"PodcastSummarizer/internal/ports"
)

const fetchTimeout = 30 * time.Second

var mp3URLPattern = regexp.MustCompile(`https://[^"'\s]*\.mp3[^"'\s]*`)

// Downloader implements ports.AudioDownloader.
type Downloader struct {
	ytdlpPath string
	client    *httpclient.Client
	logger    *slog.Logger
}

var _ ports.AudioDownloader = (*Downloader)(nil)

// NewDownloader builds a downloader shelling out to the given yt-dlp binary.
// A nil client gets a browser-profile HTTP client.
func NewDownloader(ytdlpPath string, client *httpclient.Client, logger *slog.Logger) *Downloader {
	if client == nil {
		client = httpclient.New(httpclient.Browser, fetchTimeout)
	}
	return &Downloader{ytdlpPath: ytdlpPath, client: client, logger: logger}
}

// Download acquires the reference's audio into dest and returns the final
// location.
func (d *Downloader) Download(ctx context.Context, reference, dest string) (string, error) {
	lower := strings.ToLower(reference)

	if strings.Contains(lower, "pca.st") || strings.Contains(lower, "pocketcasts.com") {
		if mp3URL := d.extractPocketCastsURL(reference); mp3URL != "" {
			d.debug("resolved direct mp3 from episode page", "url", mp3URL)
			return d.fetchFile(ctx, mp3URL, dest)
		}
	}

	if looksLikeFeed(lower) {
		if enclosure, err := d.resolveEnclosure(ctx, reference); err == nil && enclosure != "" {
			d.debug("resolved newest enclosure from feed", "url", enclosure)
			return d.fetchFile(ctx, enclosure, dest)
		}
	}

	if isDirectAudio(lower) {
		return d.fetchFile(ctx, reference, dest)
	}

	return d.downloadWithYtDlp(ctx, reference, dest)
}

// extractPocketCastsURL scrapes the episode page for the direct mp3 URL,
// first through audio/source tags, then by pattern over the raw page.
func (d *Downloader) extractPocketCastsURL(pageURL string) string {
	resp, err := d.client.Get(pageURL)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	page, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return ""
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page))); err == nil {
		var found string
		doc.Find("audio[src], audio source[src], a[href$='.mp3']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			for _, attr := range []string{"src", "href"} {
				if v, ok := s.Attr(attr); ok && strings.Contains(v, ".mp3") {
					found = v
					return false
				}
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	return mp3URLPattern.FindString(string(page))
}

// resolveEnclosure parses an RSS/Atom feed and returns the newest item's
// audio enclosure URL.
func (d *Downloader) resolveEnclosure(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}

	for _, item := range feed.Items {
		for _, enc := range item.Enclosures {
			if strings.HasPrefix(enc.Type, "audio/") || strings.HasSuffix(enc.URL, ".mp3") {
				return enc.URL, nil
			}
		}
	}
	return "", fmt.Errorf("feed has no audio enclosures")
}

func (d *Downloader) fetchFile(ctx context.Context, fileURL, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch audio: unexpected status %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("save audio: %w", err)
	}
	return dest, nil
}

func (d *Downloader) downloadWithYtDlp(ctx context.Context, reference, dest string) (string, error) {
	// yt-dlp appends the extension itself.
	template := strings.TrimSuffix(dest, ".mp3")

	cmd := exec.CommandContext(ctx, d.ytdlpPath,
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-playlist",
		"--quiet", "--no-warnings",
		"-o", template+".%(ext)s",
		reference,
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("yt-dlp: %w: %s", err, strings.TrimSpace(string(output)))
	}

	if _, err := os.Stat(dest); err != nil {
		return "", fmt.Errorf("yt-dlp produced no audio file at %s", dest)
	}
	return dest, nil
}

func (d *Downloader) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

func looksLikeFeed(reference string) bool {
	return strings.HasSuffix(reference, ".xml") ||
		strings.HasSuffix(reference, ".rss") ||
		strings.Contains(reference, "/feed")
}

func isDirectAudio(reference string) bool {
	if i := strings.IndexByte(reference, '?'); i >= 0 {
		reference = reference[:i]
	}
	for _, suffix := range []string{".mp3", ".m4a", ".wav", ".aac", ".ogg"} {
		if strings.HasSuffix(reference, suffix) {
			return true
		}
	}
	return false
}
