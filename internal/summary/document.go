// Package summary assembles, parses, and re-flows summary documents. The
// document layout and its section vocabulary are shared contracts between
// the oracle prompts, the artifact store, and the email/PDF formatters.
package summary

import (
	"strings"
	"time"

	"PodcastSummarizer/internal/domain"
)

const (
	headerRule  = "---"
	insightHead = "CORE INSIGHT:"
	dateLayout  = "2006-01-02 15:04"
)

// Compose builds the persisted summary document: metadata header, condensed
// insight block, then the full oracle summary.
func Compose(id domain.ContentID, reference string, contentType domain.ContentType, generatedAt time.Time, insight, body string) string {
	var b strings.Builder
	b.WriteString(headerRule + "\n")
	b.WriteString("ID: " + string(id) + "\n")
	b.WriteString("URL: " + reference + "\n")
	b.WriteString("Date: " + generatedAt.Format(dateLayout) + "\n")
	if contentType != "" {
		b.WriteString("Type: " + string(contentType) + "\n")
	}
	b.WriteString(headerRule + "\n\n")

	if insight = strings.TrimSpace(insight); insight != "" {
		b.WriteString(insightHead + "\n" + insight + "\n\n")
	}

	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return b.String()
}

// Document is a parsed summary artifact.
type Document struct {
	Meta     map[string]string // header block plus inline fields like TITLE
	Insight  string
	Sections []Section
	Preamble []string // body lines before the first section
}

// Section is one "## " block of the summary body.
type Section struct {
	Title string
	Lines []string
}

// Field returns a metadata value by key (TITLE, PODCAST_NAME, ...).
func (d Document) Field(key string) string { return d.Meta[key] }

// SectionByPrefix finds the first section whose title starts with one of the
// given prefixes, case-insensitive. Oracle output decorates titles with
// parentheticals ("Key Points (7-10 ...)"), so exact matching is avoided.
func (d Document) SectionByPrefix(prefixes ...string) (Section, bool) {
	for _, sec := range d.Sections {
		title := strings.ToLower(sec.Title)
		for _, prefix := range prefixes {
			if strings.HasPrefix(title, strings.ToLower(prefix)) {
				return sec, true
			}
		}
	}
	return Section{}, false
}

// Inline metadata fields the oracle emits at the top of its summary.
var inlineFields = []string{
	"PODCAST_NAME",
	"ARTICLE_TITLE",
	"TITLE",
	"EPISODE_INFO",
	"AUTHOR_INFO",
	"TWO_LINE_SUMMARY",
}

// Parse splits a summary document back into metadata, insight, and sections.
// It accepts documents both with and without the metadata header, so
// artifacts written by older runs still re-flow.
func Parse(document string) Document {
	doc := Document{Meta: map[string]string{}}

	lines := strings.Split(document, "\n")
	lines = doc.consumeHeader(lines)
	lines = doc.consumeInsight(lines)

	var current *Section
	for _, line := range lines {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			doc.Sections = append(doc.Sections, Section{Title: strings.TrimSpace(title)})
			current = &doc.Sections[len(doc.Sections)-1]
			continue
		}
		if strings.HasPrefix(line, "# ") {
			continue
		}
		if field, value, ok := cutInlineField(line); ok {
			doc.Meta[field] = value
			continue
		}
		if current != nil {
			current.Lines = append(current.Lines, line)
		} else if strings.TrimSpace(line) != "" {
			doc.Preamble = append(doc.Preamble, line)
		}
	}

	for i := range doc.Sections {
		doc.Sections[i].Lines = trimBlank(doc.Sections[i].Lines)
	}
	return doc
}

func (d *Document) consumeHeader(lines []string) []string {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != headerRule {
		return lines
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == headerRule {
			return lines[i+1:]
		}
		if key, value, ok := strings.Cut(lines[i], ":"); ok {
			d.Meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
	}
	return nil
}

func (d *Document) consumeInsight(lines []string) []string {
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, insightHead) {
			return lines
		}
		var insight []string
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				d.Insight = strings.Join(insight, "\n")
				return lines[j+1:]
			}
			insight = append(insight, lines[j])
		}
		d.Insight = strings.Join(insight, "\n")
		return nil
	}
	return lines
}

func cutInlineField(line string) (field, value string, ok bool) {
	for _, f := range inlineFields {
		if v, found := strings.CutPrefix(line, f+":"); found {
			return f, strings.TrimSpace(v), true
		}
	}
	return "", "", false
}

func trimBlank(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
