package pdfout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const document = `---
ID: show_1a2b3c4d_20260314
URL: https://pca.st/episode/abc
Date: 2026-03-14 09:30
---

CORE INSIGHT:
One thing to remember.

TITLE: A Rendered Episode

## Key Points
- First point with **emphasis**

## Episode Summary
The narrative paragraph.`

func TestRenderWritesPDF(t *testing.T) {
	t.Parallel()

	location := filepath.Join(t.TempDir(), "summary.pdf")
	if err := NewRenderer().Render(document, location); err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("output is not a PDF, starts with %q", data[:8])
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	if got := sanitize("**bold** • héllo 世界"); got != "bold - héllo ??" {
		t.Fatalf("unexpected sanitize result: %q", got)
	}
}
