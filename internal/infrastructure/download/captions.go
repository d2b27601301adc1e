package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"PodcastSummarizer/internal/ports"
)

var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
}

// Captions fetches platform-provided subtitles through yt-dlp, sparing a
// full download-and-transcribe pass when the platform already has text.
type Captions struct {
	ytdlpPath string
	logger    *slog.Logger
}

var _ ports.CaptionSource = (*Captions)(nil)

// NewCaptions builds the caption source.
func NewCaptions(ytdlpPath string, logger *slog.Logger) *Captions {
	return &Captions{ytdlpPath: ytdlpPath, logger: logger}
}

// FetchCaptions returns the reference's caption text, or "" when the
// platform has none. Only YouTube references are attempted.
func (c *Captions) FetchCaptions(ctx context.Context, reference string) (string, error) {
	if ExtractYouTubeID(reference) == "" {
		return "", nil
	}

	dir, err := os.MkdirTemp("", "captions-")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	cmd := exec.CommandContext(ctx, c.ytdlpPath,
		"--skip-download",
		"--write-subs", "--write-auto-subs",
		"--sub-langs", "en.*",
		"--sub-format", "vtt",
		"--quiet", "--no-warnings",
		"-o", filepath.Join(dir, "captions"),
		reference,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("yt-dlp subtitles: %w: %s", err, strings.TrimSpace(string(output)))
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "captions*.vtt"))
	if len(matches) == 0 {
		if c.logger != nil {
			c.logger.Debug("no captions available", "reference", reference)
		}
		return "", nil
	}

	raw, err := os.ReadFile(matches[0])
	if err != nil {
		return "", fmt.Errorf("read captions: %w", err)
	}
	return ParseVTT(string(raw)), nil
}

// ExtractYouTubeID pulls the video id out of watch, short, and embed URLs.
// Empty string means the reference is not a YouTube video.
func ExtractYouTubeID(reference string) string {
	for _, pattern := range youtubeIDPatterns {
		if m := pattern.FindStringSubmatch(reference); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}

var vttTagPattern = regexp.MustCompile(`<[^>]+>`)

// ParseVTT flattens WebVTT cue text into plain prose, dropping headers,
// timestamps, cue settings, and duplicate rolling-caption lines.
func ParseVTT(raw string) string {
	var parts []string
	var last string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || line == "WEBVTT":
			continue
		case strings.HasPrefix(line, "NOTE"), strings.HasPrefix(line, "STYLE"), strings.HasPrefix(line, "Kind:"), strings.HasPrefix(line, "Language:"):
			continue
		case strings.Contains(line, "-->"):
			continue
		}

		text := strings.TrimSpace(vttTagPattern.ReplaceAllString(line, ""))
		if text == "" || text == last {
			continue
		}
		parts = append(parts, text)
		last = text
	}

	return strings.Join(parts, " ")
}
