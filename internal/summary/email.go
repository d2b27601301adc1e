package summary

import (
	"net/url"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Section priority for the email re-flow: the most skimmable material first,
// the full narrative last.
var sectionPriority = [][]string{
	{"Main Takeaways"},
	{"Notable Quotes"},
	{"Key Points", "KEY_ARGUMENTS"},
	{"People, Companies & References"},
	{"Insight Rating"},
	{"Episode Summary", "Article Summary"},
}

const referencesSection = "People, Companies & References"

// Subject derives the mail subject from the parsed document, preferring the
// oracle-extracted title.
func Subject(doc Document, fallback string) string {
	if title := doc.Field("TITLE"); title != "" {
		return "Summary: " + title
	}
	if title := doc.Field("ARTICLE_TITLE"); title != "" {
		return "Summary: " + title
	}
	return fallback
}

// EmailBody re-flows a summary document into Gmail-friendly plain text:
// an extracted header block, then sections in fixed priority order with
// markdown emphasis stripped, then web-search links for named entities.
func EmailBody(doc Document, reference string) string {
	var out []string

	if name := doc.Field("PODCAST_NAME"); name != "" {
		out = append(out, "PODCAST: "+name)
	}
	if title := doc.Field("ARTICLE_TITLE"); title != "" {
		out = append(out, "ARTICLE: "+title)
	}
	if info := doc.Field("EPISODE_INFO"); info != "" {
		out = append(out, "GUEST: "+info)
	}
	if info := doc.Field("AUTHOR_INFO"); info != "" {
		out = append(out, "AUTHOR: "+info)
	}
	if reference != "" {
		out = append(out, "LINK: "+reference)
	}

	insight := doc.Insight
	if insight == "" {
		insight = doc.Field("TWO_LINE_SUMMARY")
	}
	if insight != "" {
		out = append(out, "", "INSIGHT:", stripEmphasis(insight))
	}

	out = append(out, "", strings.Repeat("=", 60))

	seen := map[string]bool{}
	for _, prefixes := range sectionPriority {
		sec, ok := doc.SectionByPrefix(prefixes...)
		if !ok {
			continue
		}
		seen[sec.Title] = true
		out = appendSection(out, sec)
	}
	for _, sec := range doc.Sections {
		if !seen[sec.Title] {
			out = appendSection(out, sec)
		}
	}

	if links := searchLinks(doc); len(links) > 0 {
		out = append(out, "", "WEB SEARCHES", strings.Repeat("-", 40))
		out = append(out, links...)
	}

	return strings.Join(out, "\n")
}

// HTMLBody renders the raw summary document to HTML for the mail's
// multipart alternative.
func HTMLBody(document string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(document), p, renderer))
}

func appendSection(out []string, sec Section) []string {
	out = append(out, "", strings.ToUpper(sec.Title), strings.Repeat("-", 40))
	for _, line := range sec.Lines {
		out = append(out, stripEmphasis(line))
	}
	return out
}

func stripEmphasis(line string) string {
	line = strings.ReplaceAll(line, "**", "")
	line = strings.ReplaceAll(line, "*", "")
	line = strings.ReplaceAll(line, "•", "-")
	return line
}

// searchLinks builds one web-search URL per named entity listed in the
// references section. Entities are the bullet text before the first colon.
func searchLinks(doc Document) []string {
	sec, ok := doc.SectionByPrefix(referencesSection)
	if !ok {
		return nil
	}

	var links []string
	for _, line := range sec.Lines {
		entity := entityName(line)
		if entity == "" {
			continue
		}
		links = append(links, entity+": https://www.google.com/search?q="+url.QueryEscape(entity))
	}
	return links
}

func entityName(line string) string {
	trimmed := strings.TrimSpace(stripEmphasis(line))
	bullet := false
	for _, prefix := range []string{"- ", "-", "+ "} {
		if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
			trimmed = strings.TrimSpace(rest)
			bullet = true
			break
		}
	}
	if !bullet {
		return ""
	}
	name, _, ok := strings.Cut(trimmed, ":")
	if !ok {
		return ""
	}
	name = strings.TrimSpace(name)
	// Category labels from the prompt, not entities.
	switch strings.ToLower(name) {
	case "key people", "companies mentioned", "books, frameworks, or concepts":
		return ""
	}
	if name == "" || len(name) > 60 {
		return ""
	}
	return name
}
