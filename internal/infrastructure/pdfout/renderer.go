// Package pdfout renders summary documents as fixed-layout PDF files.
package pdfout

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"PodcastSummarizer/internal/ports"
	"PodcastSummarizer/internal/summary"
)

// Renderer implements ports.DocumentRenderer. The layout mirrors the email
// re-flow: title, insight, then sections in priority order.
type Renderer struct{}

var _ ports.DocumentRenderer = (*Renderer)(nil)

// NewRenderer builds the PDF renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render writes the document as a PDF at location.
func (r *Renderer) Render(document, location string) error {
	doc := summary.Parse(document)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	title := doc.Field("TITLE")
	if title == "" {
		title = doc.Field("ARTICLE_TITLE")
	}
	if title == "" {
		title = doc.Field("ID")
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, sanitize(title), "", "L", false)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	meta := strings.TrimSpace(doc.Field("URL") + "  " + doc.Field("Date"))
	if meta != "" {
		pdf.MultiCell(0, 5, sanitize(meta), "", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	if doc.Insight != "" {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, sanitize(doc.Insight), "", "L", false)
		pdf.Ln(2)
	}

	for _, sec := range doc.Sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, sanitize(sec.Title), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range sec.Lines {
			text := sanitize(line)
			if strings.TrimSpace(text) == "" {
				continue
			}
			pdf.MultiCell(0, 5, text, "", "L", false)
		}
		pdf.Ln(2)
	}

	if err := pdf.OutputFileAndClose(location); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// sanitize keeps the built-in core fonts happy: strip markdown emphasis and
// replace characters outside cp1252's comfortable range.
func sanitize(line string) string {
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "•", "-")
	line = strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, line)
	return line
}
