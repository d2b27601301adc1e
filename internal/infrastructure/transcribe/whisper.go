// Package transcribe converts local audio and video files to text through a
// whisper CLI installation.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"PodcastSummarizer/internal/ports"
)

// WhisperTranscriber implements ports.Transcriber by shelling out to the
// whisper binary. Model weights are selected by name (tiny/base/small/...).
type WhisperTranscriber struct {
	binaryPath string
	model      string
	logger     *slog.Logger
}

var _ ports.Transcriber = (*WhisperTranscriber)(nil)

// NewWhisperTranscriber builds a transcriber for the given binary and model.
func NewWhisperTranscriber(binaryPath, model string, logger *slog.Logger) *WhisperTranscriber {
	if model == "" {
		model = "base"
	}
	return &WhisperTranscriber{binaryPath: binaryPath, model: model, logger: logger}
}

// Transcribe runs whisper over the media file and returns the plain text.
// Whisper accepts video containers directly, so video files need no
// separate audio-extraction step here.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, mediaPath string) (string, error) {
	if _, err := os.Stat(mediaPath); err != nil {
		return "", fmt.Errorf("media file: %w", err)
	}

	outDir, err := os.MkdirTemp("", "whisper-")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	if w.logger != nil {
		w.logger.Info("transcribing audio, this may take a few minutes", "file", filepath.Base(mediaPath), "model", w.model)
	}

	cmd := exec.CommandContext(ctx, w.binaryPath,
		mediaPath,
		"--model", w.model,
		"--output_format", "txt",
		"--output_dir", outDir,
		"--verbose", "False",
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("whisper: %w: %s", err, strings.TrimSpace(string(output)))
	}

	stem := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	transcriptPath := filepath.Join(outDir, stem+".txt")
	text, err := os.ReadFile(transcriptPath)
	if err != nil {
		return "", fmt.Errorf("whisper produced no transcript: %w", err)
	}

	transcript := strings.TrimSpace(string(text))
	if transcript == "" {
		return "", fmt.Errorf("whisper produced an empty transcript")
	}
	return transcript, nil
}
