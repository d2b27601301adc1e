// Package artifact persists per-identifier stage outputs on the filesystem.
//
// The layout follows three sibling directories under one workspace:
//
//	audio_files/<id>.mp3
//	transcripts/<id>.txt
//	summaries/<id>.md
//
// Lookups are prefix-glob based (<id>*<ext>) so later suffix decoration of
// filenames cannot break callers.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"PodcastSummarizer/internal/domain"
)

var (
	// ErrNotFound reports a read of an artifact that does not exist.
	ErrNotFound = errors.New("artifact not found")
	// ErrAlreadyExists reports a write that would clobber an existing
	// artifact without the force flag.
	ErrAlreadyExists = errors.New("artifact already exists")
)

type kindSpec struct {
	dir string
	ext string
}

var kinds = map[domain.ArtifactKind]kindSpec{
	domain.KindAudio:      {dir: "audio_files", ext: ".mp3"},
	domain.KindTranscript: {dir: "transcripts", ext: ".txt"},
	domain.KindSummary:    {dir: "summaries", ext: ".md"},
}

// Store resolves (kind, id) pairs to file locations under a base directory.
type Store struct {
	base string
}

// NewStore creates the workspace directories and returns a store rooted at base.
func NewStore(base string) (*Store, error) {
	for _, spec := range kinds {
		if err := os.MkdirAll(filepath.Join(base, spec.dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", spec.dir, err)
		}
	}
	return &Store{base: base}, nil
}

// Base returns the workspace root.
func (s *Store) Base() string { return s.base }

// Path returns the canonical location a fresh artifact of this kind is
// written to. The file may not exist yet.
func (s *Store) Path(kind domain.ArtifactKind, id domain.ContentID) string {
	spec := kinds[kind]
	return filepath.Join(s.base, spec.dir, string(id)+spec.ext)
}

// Existing reports the first on-disk match per kind for an identifier.
func (s *Store) Existing(id domain.ContentID) domain.ArtifactSet {
	return domain.ArtifactSet{
		Audio:      s.find(domain.KindAudio, id),
		Transcript: s.find(domain.KindTranscript, id),
		Summary:    s.find(domain.KindSummary, id),
	}
}

// Has reports whether an artifact of the given kind exists for the identifier.
func (s *Store) Has(kind domain.ArtifactKind, id domain.ContentID) bool {
	return s.find(kind, id) != ""
}

// Read returns the content of an existing artifact, or ErrNotFound.
func (s *Store) Read(kind domain.ArtifactKind, id domain.ContentID) ([]byte, error) {
	location := s.find(kind, id)
	if location == "" {
		return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", kind, id, err)
	}
	return data, nil
}

// Write persists an artifact and returns its location. Without force an
// existing artifact of the same kind and id fails with ErrAlreadyExists;
// with force the existing files are removed and the artifact recreated.
func (s *Store) Write(kind domain.ArtifactKind, id domain.ContentID, content []byte, force bool) (string, error) {
	matches := s.matches(kind, id)
	if len(matches) > 0 {
		if !force {
			return "", fmt.Errorf("%s %s: %w", kind, id, ErrAlreadyExists)
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil {
				return "", fmt.Errorf("remove stale %s %s: %w", kind, id, err)
			}
		}
	}

	location := s.Path(kind, id)
	if err := os.MkdirAll(filepath.Dir(location), 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", kind, err)
	}
	if err := os.WriteFile(location, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s %s: %w", kind, id, err)
	}
	return location, nil
}

func (s *Store) find(kind domain.ArtifactKind, id domain.ContentID) string {
	if matches := s.matches(kind, id); len(matches) > 0 {
		return matches[0]
	}
	return ""
}

func (s *Store) matches(kind domain.ArtifactKind, id domain.ContentID) []string {
	spec := kinds[kind]
	pattern := filepath.Join(s.base, spec.dir, string(id)+"*"+spec.ext)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}
	return matches
}
