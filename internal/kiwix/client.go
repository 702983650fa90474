// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kiwix talks to a local kiwix-serve instance hosting an offline
// Wikipedia ZIM archive. It covers the four calls the pipeline needs:
// liveness probe, full-text search, direct title lookup, and content
// extraction (abstract or full article text).
package kiwix

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/answer-engine/internal/httputil"
	"github.com/pdiddy/answer-engine/pkg/types"
)

const (
	// minParagraphChars filters out navigation fragments and caption
	// stubs when extracting article text.
	minParagraphChars = 50

	// minAbstractChars is the shortest first paragraph worth treating
	// as an abstract.
	minAbstractChars = 100

	// maxAbstractChars caps the abstract used for ranking and display.
	maxAbstractChars = 500
)

var (
	citationPattern   = regexp.MustCompile(`\[\d+\]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Client is a thin wrapper over a kiwix-serve endpoint. All methods
// swallow transport errors into empty results where the pipeline can
// degrade; only Search reports an error, so the caller can distinguish
// a dead server from an empty result set.
type Client struct {
	baseURL string
	book    string
	cfg     types.KiwixConfig
	http    *http.Client
}

// NewClient builds a client for the given server and book. Zero-valued
// fields in cfg fall back to the package defaults.
func NewClient(cfg types.KiwixConfig) *Client {
	cfg.ApplyDefaults()
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		book:    cfg.Book,
		cfg:     cfg,
		http:    httputil.NewClient(),
	}
}

// BaseURL returns the server root the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// Ping reports whether the server answers on its root URL.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := httputil.GetBody(ctx, c.http, c.baseURL+"/", c.cfg.UserAgent, c.cfg.ProbeTimeout)
	return err == nil
}

// Search runs a full-text query against the server's /search endpoint and
// returns the result titles and URLs in server order. Abstracts are not
// populated here; they are fetched lazily by the ranking stage.
func (c *Client) Search(ctx context.Context, pattern string, pageSize int) ([]types.Candidate, error) {
	u := fmt.Sprintf("%s/search?books.name=%s&pattern=%s&pageSize=%d",
		c.baseURL, url.QueryEscape(c.book), url.QueryEscape(pattern), pageSize)

	body, err := httputil.GetBody(ctx, c.http, u, c.cfg.UserAgent, c.cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("kiwix search %q: %w", pattern, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("kiwix search %q: parse results: %w", pattern, err)
	}

	var out []types.Candidate
	doc.Find("div.results li").Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a").First()
		title := strings.TrimSpace(a.Text())
		href, ok := a.Attr("href")
		if title == "" || !ok {
			return
		}
		out = append(out, types.Candidate{Title: title, URL: c.resolve(href)})
	})
	return out, nil
}

// DirectLookup probes for an article by exact title and returns its
// candidate if the server has it. Spaces in the title become underscores,
// matching the archive's URL scheme.
func (c *Client) DirectLookup(ctx context.Context, title string) (types.Candidate, bool) {
	u := c.articleURL(title)
	if !httputil.Exists(ctx, c.http, u, c.cfg.UserAgent, c.cfg.ProbeTimeout) {
		return types.Candidate{}, false
	}
	return types.Candidate{Title: title, URL: u}, true
}

// Abstract fetches the first substantial paragraph of an article, capped
// at maxAbstractChars. Any failure yields an empty string.
func (c *Client) Abstract(ctx context.Context, articleURL string) string {
	body, err := httputil.GetBody(ctx, c.http, articleURL, c.cfg.UserAgent, c.cfg.AbstractTimeout)
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var abstract string
	contentRoot(doc).Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := cleanText(p.Text())
		if len(text) > minAbstractChars {
			abstract = text
			return false
		}
		return true
	})
	// Rune-boundary truncation so a multibyte character is never split.
	if runes := []rune(abstract); len(runes) > maxAbstractChars {
		abstract = string(runes[:maxAbstractChars])
	}
	return abstract
}

// Article fetches up to maxParagraphs substantial paragraphs of an
// article, stopping before the combined text would exceed maxChars.
// Citation markers like [3] are stripped and whitespace collapsed.
// Any failure yields an empty string.
func (c *Client) Article(ctx context.Context, articleURL string, maxParagraphs, maxChars int) string {
	body, err := httputil.GetBody(ctx, c.http, articleURL, c.cfg.UserAgent, c.cfg.Timeout)
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var (
		parts []string
		total int
	)
	contentRoot(doc).Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := cleanText(p.Text())
		if len(text) <= minParagraphChars {
			return true
		}
		if total+len(text) > maxChars {
			return false
		}
		parts = append(parts, text)
		total += len(text)
		return len(parts) < maxParagraphs
	})
	return strings.Join(parts, "\n\n")
}

func (c *Client) articleURL(title string) string {
	path := strings.ReplaceAll(title, " ", "_")
	return fmt.Sprintf("%s/%s/A/%s", c.baseURL, c.book, url.PathEscape(path))
}

func (c *Client) resolve(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return c.baseURL + href
	}
	return c.baseURL + "/" + href
}

// contentRoot finds the article body container, falling back to the whole
// document when the archive uses an unfamiliar skin.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find("#mw-content-text"); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find(".mw-parser-output"); sel.Length() > 0 {
		return sel
	}
	return doc.Selection
}

func cleanText(s string) string {
	s = citationPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
