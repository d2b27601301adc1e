package identity

import (
	"strings"
	"testing"
	"time"
)

var testDay = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func TestDeriveIDStableWithinDay(t *testing.T) {
	t.Parallel()

	ref := "https://pca.st/episode/abc123"
	morning := time.Date(2026, time.March, 14, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2026, time.March, 14, 23, 59, 0, 0, time.UTC)

	if DeriveID(ref, morning) != DeriveID(ref, evening) {
		t.Fatalf("same reference on same day produced different ids")
	}
}

func TestDeriveIDChangesAcrossDays(t *testing.T) {
	t.Parallel()

	ref := "https://pca.st/episode/abc123"
	nextDay := testDay.Add(24 * time.Hour)

	if DeriveID(ref, testDay) == DeriveID(ref, nextDay) {
		t.Fatalf("expected a different id on a different calendar day")
	}
}

func TestDeriveIDIgnoresTrackingParams(t *testing.T) {
	t.Parallel()

	plain := DeriveID("https://podcasts.example/ep", testDay)
	tracked := DeriveID("https://podcasts.example/ep?utm_source=x", testDay)

	if plain != tracked {
		t.Fatalf("tracking params changed the id: %s vs %s", plain, tracked)
	}
}

func TestDeriveIDKeepsMeaningfulParams(t *testing.T) {
	t.Parallel()

	a := DeriveID("https://youtube.com/watch?v=abc", testDay)
	b := DeriveID("https://youtube.com/watch?v=def", testDay)

	if a == b {
		t.Fatalf("distinct video ids collapsed to one identifier")
	}
}

func TestDeriveIDShape(t *testing.T) {
	t.Parallel()

	id := string(DeriveID("https://www.podcasts.example/ep/1", testDay))
	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		t.Fatalf("expected label_digest_datestamp, got %s", id)
	}
	if parts[0] != "podcasts" {
		t.Fatalf("expected www-stripped first host label, got %s", parts[0])
	}
	if len(parts[1]) != 8 {
		t.Fatalf("expected 8 hex digest chars, got %s", parts[1])
	}
	if parts[2] != "20260314" {
		t.Fatalf("expected datestamp 20260314, got %s", parts[2])
	}
}

func TestDeriveIDLocalPathUsesFilenameStem(t *testing.T) {
	t.Parallel()

	id := string(DeriveID("/srv/audio/talk.mp4", testDay))
	if !strings.HasPrefix(id, "talk_") {
		t.Fatalf("expected filename-stem label, got %s", id)
	}
}

func TestNormalizeTrailingSlash(t *testing.T) {
	t.Parallel()

	if Normalize("https://example.org/a/") != Normalize("https://example.org/a") {
		t.Fatalf("trailing slash should not affect normalization")
	}
}
