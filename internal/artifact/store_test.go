package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"PodcastSummarizer/internal/domain"
)

const testID = domain.ContentID("pca_1a2b3c4d_20260314")

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStoreCreatesDirectories(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	for _, dir := range []string{"audio_files", "transcripts", "summaries"} {
		if _, err := os.Stat(filepath.Join(store.Base(), dir)); err != nil {
			t.Fatalf("missing workspace dir %s: %v", dir, err)
		}
	}
}

func TestWriteThenRead(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	location, err := store.Write(domain.KindTranscript, testID, []byte("hello"), false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(location) != string(testID)+".txt" {
		t.Fatalf("unexpected location: %s", location)
	}

	data, err := store.Read(domain.KindTranscript, testID)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestReadMissingIsNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.Read(domain.KindSummary, testID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWriteRefusesOverwriteWithoutForce(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.Write(domain.KindSummary, testID, []byte("one"), false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := store.Write(domain.KindSummary, testID, []byte("two"), false); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	data, _ := store.Read(domain.KindSummary, testID)
	if string(data) != "one" {
		t.Fatalf("guarded write mutated artifact: %q", data)
	}
}

func TestForcedWriteReplaces(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.Write(domain.KindSummary, testID, []byte("one"), false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := store.Write(domain.KindSummary, testID, []byte("two"), true); err != nil {
		t.Fatalf("forced write: %v", err)
	}

	data, _ := store.Read(domain.KindSummary, testID)
	if string(data) != "two" {
		t.Fatalf("forced write did not replace content: %q", data)
	}
}

func TestExistingMatchesByPrefix(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	// Suffix-decorated filename still resolves through the prefix glob.
	decorated := filepath.Join(store.Base(), "audio_files", string(testID)+"-part1.mp3")
	if err := os.WriteFile(decorated, []byte("audio"), 0o644); err != nil {
		t.Fatalf("seed decorated file: %v", err)
	}

	existing := store.Existing(testID)
	if existing.Audio != decorated {
		t.Fatalf("prefix lookup missed %s, got %q", decorated, existing.Audio)
	}
	if existing.Transcript != "" || existing.Summary != "" {
		t.Fatalf("unexpected artifacts reported: %+v", existing)
	}
	if !store.Has(domain.KindAudio, testID) {
		t.Fatalf("Has should report the decorated audio artifact")
	}
}
