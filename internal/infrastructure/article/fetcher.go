// Package article fetches web pages and extracts their readable text.
package article

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"PodcastSummarizer/internal/domain"
	"PodcastSummarizer/internal/httpclient"
	"PodcastSummarizer/internal/ports"
)

const (
	fetchTimeout = 30 * time.Second
	maxPageBytes = 8 << 20
)

// Fetcher implements ports.ArticleFetcher with readability extraction and
// goquery fallbacks for the title.
type Fetcher struct {
	client *httpclient.Client
}

var _ ports.ArticleFetcher = (*Fetcher)(nil)

// NewFetcher builds a fetcher. A nil client gets a browser-profile default.
func NewFetcher(client *httpclient.Client) *Fetcher {
	if client == nil {
		client = httpclient.New(httpclient.Browser, fetchTimeout)
	}
	return &Fetcher{client: client}
}

// FetchText downloads the page and extracts title and main text.
func (f *Fetcher) FetchText(ctx context.Context, pageURL string) (domain.ArticleContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ArticleContent{}, fmt.Errorf("fetch article: unexpected status %s", resp.Status)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("read article: %w", err)
	}

	return Extract(string(page), pageURL)
}

// Extract pulls title and main text out of raw HTML. Readability leads;
// goquery fallbacks recover the title when readability leaves it blank.
func Extract(html, pageURL string) (domain.ArticleContent, error) {
	parsed, _ := url.Parse(pageURL)

	art, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return domain.ArticleContent{}, fmt.Errorf("extract article text: %w", err)
	}

	text := strings.TrimSpace(art.TextContent)
	if text == "" {
		return domain.ArticleContent{}, fmt.Errorf("article has no extractable text")
	}

	title := strings.TrimSpace(art.Title)
	if title == "" {
		title = fallbackTitle(html)
	}

	return domain.ArticleContent{Title: title, Text: text}, nil
}

func fallbackTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	if title, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return ""
}
