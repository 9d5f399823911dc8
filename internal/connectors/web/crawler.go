package web

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/logger"
	"github.com/custodia-labs/sercha-ask/internal/normalisers/html"
)

// Ensure Page implements the interface.
var _ driven.DocumentSource = (*Page)(nil)

// Page is a crawled page whose text was extracted during the crawl.
type Page struct {
	url  string
	text string
}

// Location returns the page URL.
func (p *Page) Location() string {
	return p.url
}

// Kind returns the origin type.
func (p *Page) Kind() domain.SourceKind {
	return domain.SourceKindCrawl
}

// Text returns the extracted text.
func (p *Page) Text() string {
	return p.text
}

// Extract returns the text captured at crawl time.
func (p *Page) Extract(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.text, nil
}

// Crawler walks a site breadth-first.
type Crawler struct {
	client   *Client
	maxPages int
}

// NewCrawler creates a crawler. maxPages <= 0 uses the client's configured limit.
func NewCrawler(client *Client, maxPages int) *Crawler {
	if maxPages <= 0 {
		maxPages = client.Config().MaxPages
	}
	return &Crawler{
		client:   client,
		maxPages: maxPages,
	}
}

// Crawl fetches pages reachable from base on the same host, in breadth-first
// order, until the queue is empty or maxPages pages were fetched. Pages that
// fail are logged and skipped. Only a bad base URL or a cancelled context
// fail the crawl.
func (c *Crawler) Crawl(ctx context.Context, base string) ([]*Page, error) {
	start, err := parseHTTPURL(base)
	if err != nil {
		return nil, err
	}

	logger.Section("Crawl " + start.String())

	first := start.String()
	queue := []string{first}
	seen := map[string]bool{first: true}
	var pages []*Page

	for len(queue) > 0 && len(pages) < c.maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next := queue[0]
		queue = queue[1:]

		page, links, err := c.visit(ctx, next, start.Host)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("crawl: skipping %s: %v", next, err)
			continue
		}

		logger.Debug("crawl: %s (%d chars, %d links)", next, len(page.text), len(links))
		pages = append(pages, page)

		for _, link := range links {
			if !seen[link] {
				seen[link] = true
				queue = append(queue, link)
			}
		}
	}

	logger.Info("crawl: fetched %d pages from %s", len(pages), start.Host)
	return pages, nil
}

// visit fetches one page and returns it with its same-host links.
func (c *Crawler) visit(ctx context.Context, rawURL, host string) (*Page, []string, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.client.fetch(ctx, target)
	if err != nil {
		return nil, nil, err
	}

	if !resp.isHTML() {
		text, err := c.client.extract(ctx, resp, rawURL)
		if err != nil {
			return nil, nil, err
		}
		return &Page{url: rawURL, text: text}, nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.body))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parse html %s: %w", domain.ErrExtractionFailed, rawURL, err)
	}

	// Links come from the whole page, navigation included, before cleaning.
	links := sameHostLinks(doc, resp.url, host)
	return &Page{url: rawURL, text: html.CleanText(doc)}, links, nil
}

// sameHostLinks resolves every anchor against the page URL and keeps http(s)
// links on host in canonical form, in document order.
func sameHostLinks(doc *goquery.Document, pageURL *url.URL, host string) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if link, ok := resolveLink(pageURL, href, host); ok {
			links = append(links, link)
		}
	})
	return links
}

// resolveLink returns the absolute form of href when it stays on host.
func resolveLink(pageURL *url.URL, href, host string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	abs := pageURL.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(abs.Host, host) {
		return "", false
	}

	return canonical(abs).String(), true
}
